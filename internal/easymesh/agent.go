package easymesh

import "sort"

const (
	radioListKey     = "Radios"
	interfaceListKey = "Interfaces"
)

// Agent represents a mesh device. The controller is the one agent in a
// topology with IsController set.
type Agent struct {
	Path   string
	Params Params

	IsController bool
	X, Y         float64

	radios     []*Radio
	interfaces []*Interface
	children   []*Agent
	stations   []*Station
}

// NewAgent creates an Agent from its data-model path and parameters.
func NewAgent(path string, params Params) *Agent {
	if params == nil {
		params = Params{}
	}
	a := &Agent{Path: path, Params: params}
	a.Params[radioListKey] = []Params{}
	a.Params[interfaceListKey] = []Params{}
	return a
}

// ID returns this agent's identifier (a MAC-like string), or "".
func (a *Agent) ID() string {
	return a.Params.String("ID")
}

// HashID returns the MD5 hash of this agent's ID, used as a node
// identifier by the external renderer.
func (a *Agent) HashID() string {
	return hashID(a.ID())
}

// Manufacturer returns the manufacturer model string, or "".
func (a *Agent) Manufacturer() string {
	return a.Params.String("ManufacturerModel")
}

// AddRadio attaches a radio to this agent. Adding the same path twice is
// a no-op.
func (a *Agent) AddRadio(radio *Radio) {
	for _, r := range a.radios {
		if r.Path == radio.Path {
			return
		}
	}
	a.radios = append(a.radios, radio)
	mirrored := make([]Params, len(a.radios))
	for i, r := range a.radios {
		mirrored[i] = r.Params
	}
	a.Params[radioListKey] = mirrored
}

// Radios returns all radios hosted on this agent.
func (a *Agent) Radios() []*Radio {
	return a.radios
}

// NumRadios returns the number of radios hosted on this agent.
func (a *Agent) NumRadios() int {
	return len(a.radios)
}

// AddInterface attaches an interface to this agent, keeping wired
// interfaces sorted before wireless ones for deterministic iteration.
// Adding the same path twice is a no-op.
func (a *Agent) AddInterface(iface *Interface) {
	for _, i := range a.interfaces {
		if i.Path == iface.Path {
			return
		}
	}
	a.interfaces = append(a.interfaces, iface)
	sort.SliceStable(a.interfaces, func(x, y int) bool {
		return a.interfaces[x].Wired && !a.interfaces[y].Wired
	})
	mirrored := make([]Params, len(a.interfaces))
	for i, ifc := range a.interfaces {
		mirrored[i] = ifc.Params
	}
	a.Params[interfaceListKey] = mirrored
}

// Interfaces returns all interfaces on this agent, regardless of PHY type.
func (a *Agent) Interfaces() []*Interface {
	return a.interfaces
}

// InterfacesByOrientation returns the interfaces on this agent with the
// given renderer orientation.
func (a *Agent) InterfacesByOrientation(o Orientation) []*Interface {
	var out []*Interface
	for _, i := range a.interfaces {
		if i.Orientation == o {
			out = append(out, i)
		}
	}
	return out
}

// AddChild links a child agent below this one in the mesh, keeping
// children sorted by ID. Adding the same ID twice is a no-op.
func (a *Agent) AddChild(child *Agent) {
	for _, c := range a.children {
		if c.ID() == child.ID() {
			return
		}
	}
	a.children = append(a.children, child)
	sort.Slice(a.children, func(x, y int) bool {
		return a.children[x].ID() < a.children[y].ID()
	})
}

// Children returns this agent's child agents.
func (a *Agent) Children() []*Agent {
	return a.children
}

// IsChildAgent reports whether any interface on this agent lists the
// given MAC as a child interface. Stations carrying such a MAC are mesh
// backhaul links misreported as clients, not real clients.
func (a *Agent) IsChildAgent(mac string) bool {
	for _, i := range a.interfaces {
		if i.HasChildInterface(mac) {
			return true
		}
	}
	return false
}

// AddStation appends a station to this agent's directly connected
// station list. Adding the same MAC twice is a no-op.
func (a *Agent) AddStation(station *Station) {
	for _, s := range a.stations {
		if s.MAC() == station.MAC() {
			return
		}
	}
	a.stations = append(a.stations, station)
}

// ConnectedStations returns the stations physically connected to some
// cell on this agent.
func (a *Agent) ConnectedStations() []*Station {
	return a.stations
}
