package easymesh

const connectedStationsKey = "STA(s)"

// BSS represents a wireless cell broadcast by a radio.
//
// The associated fronthaul/backhaul interface is stored as a MAC address
// rather than a pointer and resolved through the owning Topology, since
// the BSSID may differ from the physical interface MAC on virtual cells.
type BSS struct {
	Path   string
	Params Params

	// InterfaceMAC is the MAC of the network interface this cell was
	// correlated to, or "" when the join could not be resolved.
	InterfaceMAC string

	stations []*Station
}

// NewBSS creates a BSS from its data-model path and parameters.
func NewBSS(path string, params Params) *BSS {
	if params == nil {
		params = Params{}
	}
	b := &BSS{Path: path, Params: params}
	b.Params[connectedStationsKey] = []Params{}
	return b
}

// BSSID returns this cell's BSSID, or "" if the record lacks one.
func (b *BSS) BSSID() string {
	return b.Params.String("BSSID")
}

// SSID returns the network name this cell advertises.
func (b *BSS) SSID() string {
	return b.Params.String("SSID")
}

// IsVBSS reports whether this cell is a per-client virtual BSS.
func (b *BSS) IsVBSS() bool {
	return b.Params.Bool("IsVBSS")
}

// AddStation appends a station to this cell's connected station list.
// Adding the same MAC twice is a no-op.
func (b *BSS) AddStation(station *Station) {
	for _, s := range b.stations {
		if s.MAC() == station.MAC() {
			return
		}
	}
	b.stations = append(b.stations, station)
	b.syncStationParams()
}

// Stations returns the stations connected to this cell.
func (b *BSS) Stations() []*Station {
	return b.stations
}

// NumStations returns the number of stations connected to this cell.
func (b *BSS) NumStations() int {
	return len(b.stations)
}

func (b *BSS) syncStationParams() {
	mirrored := make([]Params, len(b.stations))
	for i, s := range b.stations {
		mirrored[i] = s.Params
	}
	b.Params[connectedStationsKey] = mirrored
}
