// Package nbapi talks to an EasyMesh controller's northbound management
// interface and reconstructs its flat, path addressed parameter dump
// into a navigable topology graph.
package nbapi

import (
	"strings"

	"github.com/fbettag/easymesh-monitor/internal/easymesh"
	"github.com/fbettag/easymesh-monitor/internal/topology"
)

// Record is one entry of a data-model dump: a hierarchical path address
// and the parameters of the object living there.
type Record struct {
	Path       string          `json:"path"`
	Parameters easymesh.Params `json:"parameters"`
}

// Resolve reconstructs a Topology from a decoded NBAPI response body.
//
// The input carries no explicit parent pointers for most relationships;
// they are inferred from path prefixes or correlated by MAC address. The
// record list is scanned once per pass, in a fixed pass order, because
// later passes assume the containers built by earlier ones exist. Input
// that is not a record list yields an empty Topology; records whose
// parent cannot be located are dropped from the graph, never an error.
//
// History is this connection's cross-cycle state: Resolve updates the
// station-to-radio map, queues move notifications, and appends signal
// strength readings for both associated and unassociated stations.
func Resolve(blob any, history *History, log Logger) *topology.Topology {
	if log == nil {
		log = nopLogger{}
	}
	if history == nil {
		history = NewHistory()
	}
	records := coerceRecords(blob)

	r := &resolver{records: records, history: history, log: log}
	r.findController()
	r.buildAgents()
	r.buildInterfaces()
	r.buildNeighbors()
	r.selectControllerBackhaul()
	r.linkBackhaul()
	r.buildRadios()
	r.buildBSSes()
	r.buildStations()
	r.applySteerEvents()
	r.buildUnassociatedStations()

	return topology.New(r.agents, r.controllerID)
}

// coerceRecords extracts the record list from a decoded JSON body.
// Anything that is not a list of path/parameters objects degrades to an
// empty list rather than an error.
func coerceRecords(blob any) []Record {
	switch v := blob.(type) {
	case []Record:
		return v
	case []any:
		records := make([]Record, 0, len(v))
		for _, entry := range v {
			obj, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			path, ok := obj["path"].(string)
			if !ok {
				continue
			}
			params, _ := obj["parameters"].(map[string]any)
			records = append(records, Record{Path: path, Parameters: easymesh.Params(params)})
		}
		return records
	}
	return nil
}

type resolver struct {
	records []Record
	history *History
	log     Logger

	controllerID string
	agents       []*easymesh.Agent
	interfaces   []*easymesh.Interface

	controllerAgent    *easymesh.Agent
	controllerBackhaul *easymesh.Interface

	// stations holds this cycle's stations for steering correlation.
	stations []*easymesh.Station
}

// findController reads the controller ID off the network root record.
func (r *resolver) findController() {
	for _, rec := range r.records {
		if networkPattern.MatchString(rec.Path) {
			r.controllerID = rec.Parameters.String("ControllerID")
		}
	}
}

// buildAgents creates one agent per device record, keyed by path.
func (r *resolver) buildAgents() {
	for _, rec := range r.records {
		if !devicePattern.MatchString(rec.Path) {
			continue
		}
		if r.agentByPath(rec.Path) != nil {
			continue
		}
		r.agents = append(r.agents, easymesh.NewAgent(rec.Path, rec.Parameters))
	}
}

// buildInterfaces attaches each interface record to the agent whose path
// prefixes it.
func (r *resolver) buildInterfaces() {
	for _, rec := range r.records {
		if !interfacePattern.MatchString(rec.Path) {
			continue
		}
		agent := r.agentByPathPrefix(rec.Path)
		if agent == nil {
			r.log.Debugf("dropping interface %s: no owning device", rec.Path)
			continue
		}
		iface := easymesh.NewInterface(rec.Path, rec.Parameters)
		iface.SetParentAgent(agent)
		agent.AddInterface(iface)
		r.interfaces = append(r.interfaces, iface)
	}
}

// buildNeighbors attaches neighbor records to their owning interface.
func (r *resolver) buildNeighbors() {
	for _, rec := range r.records {
		if !neighborPattern.MatchString(rec.Path) {
			continue
		}
		iface := r.interfaceByPathPrefix(rec.Path)
		if iface == nil {
			r.log.Debugf("dropping neighbor %s: no owning interface", rec.Path)
			continue
		}
		iface.AddNeighbor(easymesh.NewNeighbor(rec.Path, rec.Parameters))
	}
}

// selectControllerBackhaul picks the controller's backhaul interface:
// the first Ethernet interface with at least one neighbor, falling back
// to the first Ethernet interface when no neighbors were reported yet.
func (r *resolver) selectControllerBackhaul() {
	for _, agent := range r.agents {
		if r.controllerID == "" || agent.ID() != r.controllerID {
			continue
		}
		r.controllerAgent = agent
		var fallback *easymesh.Interface
		for _, iface := range agent.Interfaces() {
			if !easymesh.IsEthernetMedia(iface.MediaType) {
				continue
			}
			if len(iface.Neighbors()) > 0 {
				r.controllerBackhaul = iface
				break
			}
			if fallback == nil {
				fallback = iface
			}
		}
		if r.controllerBackhaul == nil {
			r.controllerBackhaul = fallback
		}
		if r.controllerBackhaul != nil {
			r.controllerBackhaul.Orientation = easymesh.OrientationDown
		}
		return
	}
}

// linkBackhaul processes point-to-point backhaul link records, wiring
// the interface spanning tree and the agent parent/child forest.
func (r *resolver) linkBackhaul() {
	for _, rec := range r.records {
		if !backhaulPattern.MatchString(rec.Path) {
			continue
		}
		switch rec.Parameters.String("LinkType") {
		case "Ethernet":
			r.linkEthernetBackhaul(rec)
		case "Wi-Fi":
			r.linkWiFiBackhaul(rec)
		default:
			// "None" or unknown: device has no backhaul link.
		}
	}
}

// linkEthernetBackhaul roots a wired backhaul link at the controller's
// backhaul interface. Ethernet links always attach to the controller,
// regardless of which device reported them.
//
// The reporting interface is matched by MAC first. Some controllers do
// not report the wired parent/child relation at all; for those the first
// interface of the reporting device stands in.
func (r *resolver) linkEthernetBackhaul(rec Record) {
	if r.controllerBackhaul == nil || r.controllerAgent == nil {
		r.log.Debugf("dropping wired backhaul %s: controller backhaul unresolved", rec.Path)
		return
	}
	child := r.interfaceByMAC(rec.Parameters.String("MACAddress"))
	if child == nil {
		if agent := r.agentByPathPrefix(rec.Path); agent != nil {
			for _, iface := range agent.Interfaces() {
				if iface.InterfaceNumber() == "1" {
					child = iface
					break
				}
			}
		}
	}
	if child == nil || child.MAC() == r.controllerBackhaul.MAC() {
		return
	}
	r.controllerBackhaul.AddChild(child)
	child.Orientation = easymesh.OrientationUp
	if parent := child.ParentAgent(); parent != nil {
		r.controllerAgent.AddChild(parent)
	}
}

// linkWiFiBackhaul links a wireless backhaul: the reporting interface is
// matched by its own MAC, its parent by the declared backhaul MAC.
func (r *resolver) linkWiFiBackhaul(rec Record) {
	child := r.interfaceByMAC(rec.Parameters.String("MACAddress"))
	parent := r.interfaceByMAC(rec.Parameters.String("BackhaulMACAddress"))
	if child == nil || parent == nil {
		r.log.Debugf("dropping wireless backhaul %s: endpoints unresolved", rec.Path)
		return
	}
	parent.AddChild(child)
	parent.Orientation = easymesh.OrientationDown
	child.Orientation = easymesh.OrientationUp
	parentAgent := parent.ParentAgent()
	childAgent := child.ParentAgent()
	if parentAgent != nil && childAgent != nil {
		parentAgent.AddChild(childAgent)
	}
}

// buildRadios attaches each radio record to the agent whose path
// prefixes it.
func (r *resolver) buildRadios() {
	for _, rec := range r.records {
		if !radioPattern.MatchString(rec.Path) {
			continue
		}
		agent := r.agentByPathPrefix(rec.Path)
		if agent == nil {
			r.log.Debugf("dropping radio %s: no owning device", rec.Path)
			continue
		}
		agent.AddRadio(easymesh.NewRadio(rec.Path, rec.Parameters))
	}
}

// buildBSSes attaches each cell to the radio whose path prefixes it and
// correlates the cell to a network interface.
//
// The correlation matches the radio's own RUID against interface MACs,
// not the BSSID: on virtual cells the BSSID differs from the physical
// interface MAC. When that fails, any interface on the same device index
// stands in as a best-effort repair; when that fails too the cell is
// exposed with no interface reference.
func (r *resolver) buildBSSes() {
	for _, rec := range r.records {
		if !bssPattern.MatchString(rec.Path) {
			continue
		}
		radio := r.radioByPathPrefix(rec.Path)
		if radio == nil {
			r.log.Debugf("dropping BSS %s: no owning radio", rec.Path)
			continue
		}
		bss := easymesh.NewBSS(rec.Path, rec.Parameters)
		if iface := r.interfaceByMAC(radio.RUID()); iface != nil {
			bss.InterfaceMAC = iface.MAC()
		} else if iface := r.interfaceOnDevice(ParseIndexByKey(rec.Path, "Device")); iface != nil {
			bss.InterfaceMAC = iface.MAC()
		}
		radio.AddBSS(bss)
	}
}

// buildStations attaches each station record to the cell whose path
// prefixes it, detects cross-cycle moves, and accumulates RSSI series.
//
// A station whose MAC is already listed as a child interface of the
// owning agent is a wireless mesh backhaul link misreported as a client:
// it stays under its BSS but is excluded from the interface and agent
// client lists. That check depends on the backhaul pass having already
// populated the child lists, so the pass order is load bearing.
func (r *resolver) buildStations() {
	for _, rec := range r.records {
		if !stationPattern.MatchString(rec.Path) {
			continue
		}
		radio, bss := r.bssByPathPrefix(rec.Path)
		if bss == nil {
			r.log.Debugf("dropping station %s: no owning BSS", rec.Path)
			continue
		}
		sta := easymesh.NewStation(rec.Path, rec.Parameters)
		r.stations = append(r.stations, sta)
		bss.AddStation(sta)

		mac := sta.MAC()
		ruid := radio.RUID()
		if r.history.HasStationMoved(mac, ruid) {
			prior, _ := r.history.StationRadio(mac)
			r.log.Debugf("station %s moved %s -> %s", mac, prior, ruid)
			r.history.markStationMoved(mac)
		}
		r.history.RecordStationRadio(mac, ruid)
		r.history.AppendRSSI(ruid, mac, sta.RSSI())

		iface := r.interfaceByMAC(bss.InterfaceMAC)
		if iface == nil {
			continue
		}
		iface.Orientation = easymesh.OrientationDown
		owner := iface.ParentAgent()
		if owner != nil && owner.IsChildAgent(mac) {
			continue
		}
		iface.AddStation(sta)
	}
}

// applySteerEvents marks stations reported as successfully steered.
// Steering state is re-derived each cycle from the events present in the
// cycle's dump, never carried over.
func (r *resolver) applySteerEvents() {
	for _, rec := range r.records {
		if !steerEventPattern.MatchString(rec.Path) {
			continue
		}
		if rec.Parameters.String("Result") != "Success" {
			continue
		}
		mac := rec.Parameters.String("DeviceId")
		for _, sta := range r.stations {
			if sta.MAC() == mac {
				sta.Steered = true
			}
		}
	}
}

// buildUnassociatedStations attaches sniffed stations to the radio that
// heard them and folds their readings into the same RSSI series used for
// associated stations, giving one series across both states.
func (r *resolver) buildUnassociatedStations() {
	for _, rec := range r.records {
		if !unassociatedPattern.MatchString(rec.Path) {
			continue
		}
		radio := r.radioByPathPrefix(rec.Path)
		if radio == nil {
			r.log.Debugf("dropping unassociated station %s: no owning radio", rec.Path)
			continue
		}
		sta := easymesh.NewUnassociatedStation(rec.Path, rec.Parameters)
		radio.AddUnassociatedStation(sta)
		sta.AddMeasurement(rec.Parameters)
		r.history.AppendRSSI(radio.RUID(), sta.MAC(), rec.Parameters.SignalStrength())
	}
}

func (r *resolver) agentByPath(path string) *easymesh.Agent {
	for _, agent := range r.agents {
		if agent.Path == path {
			return agent
		}
	}
	return nil
}

func (r *resolver) agentByPathPrefix(path string) *easymesh.Agent {
	for _, agent := range r.agents {
		if strings.HasPrefix(path, agent.Path) {
			return agent
		}
	}
	return nil
}

func (r *resolver) interfaceByPathPrefix(path string) *easymesh.Interface {
	for _, iface := range r.interfaces {
		if strings.HasPrefix(path, iface.Path) {
			return iface
		}
	}
	return nil
}

func (r *resolver) interfaceByMAC(mac string) *easymesh.Interface {
	if mac == "" {
		return nil
	}
	for _, iface := range r.interfaces {
		if iface.MAC() == mac {
			return iface
		}
	}
	return nil
}

// interfaceOnDevice returns the first interface belonging to the device
// with the given path index, or nil.
func (r *resolver) interfaceOnDevice(deviceIndex string) *easymesh.Interface {
	if deviceIndex == "" {
		return nil
	}
	for _, iface := range r.interfaces {
		if ParseIndexByKey(iface.Path, "Device") == deviceIndex {
			return iface
		}
	}
	return nil
}

func (r *resolver) radioByPathPrefix(path string) *easymesh.Radio {
	for _, agent := range r.agents {
		for _, radio := range agent.Radios() {
			if strings.HasPrefix(path, radio.Path) {
				return radio
			}
		}
	}
	return nil
}

func (r *resolver) bssByPathPrefix(path string) (*easymesh.Radio, *easymesh.BSS) {
	for _, agent := range r.agents {
		for _, radio := range agent.Radios() {
			for _, bss := range radio.BSSes() {
				if strings.HasPrefix(path, bss.Path) {
					return radio, bss
				}
			}
		}
	}
	return nil, nil
}
