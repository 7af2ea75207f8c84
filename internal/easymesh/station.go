package easymesh

// Station represents a client device associated with a BSS.
type Station struct {
	Path    string
	Params  Params
	Steered bool
	X, Y    float64
}

// NewStation creates a Station from its data-model path and parameters.
func NewStation(path string, params Params) *Station {
	if params == nil {
		params = Params{}
	}
	return &Station{Path: path, Params: params}
}

// MAC returns the station's MAC address, or "" if the record lacks one.
func (s *Station) MAC() string {
	return s.Params.String("MACAddress")
}

// HashMAC returns the MD5 hash of the station's MAC address, used as a
// stable node identifier by the external renderer.
func (s *Station) HashMAC() string {
	return hashID(s.MAC())
}

// RSSI returns the station's last signal strength measurement relative
// to the agent it is connected to.
func (s *Station) RSSI() int {
	return s.Params.SignalStrength()
}

// RSSIMeasurement is a point-in-time unassociated link metrics sample:
// the signal strength of a station as heard by a radio it is not
// associated with.
type RSSIMeasurement struct {
	Station        string
	SignalStrength int
	ChannelNumber  int
	Timestamp      int
	RUID           string
}

// UnassociatedStation represents a client sniffed by a radio without
// being associated to any of its BSSes.
type UnassociatedStation struct {
	Path   string
	Params Params

	parentRUID   string
	measurements []RSSIMeasurement
}

// NewUnassociatedStation creates an UnassociatedStation from its
// data-model path and parameters.
func NewUnassociatedStation(path string, params Params) *UnassociatedStation {
	if params == nil {
		params = Params{}
	}
	return &UnassociatedStation{Path: path, Params: params}
}

// MAC returns the unassociated station's MAC address.
func (u *UnassociatedStation) MAC() string {
	return u.Params.String("MACAddress")
}

// ParentRUID returns the RUID of the radio that sniffed this station.
func (u *UnassociatedStation) ParentRUID() string {
	return u.parentRUID
}

// AddMeasurement appends a link metrics sample from a raw parameter bag.
// Absent fields default to zero values.
func (u *UnassociatedStation) AddMeasurement(params Params) {
	strength, _ := params.Int("SignalStrength")
	channel, _ := params.Int("ChannelNumber")
	timestamp, _ := params.Int("Timestamp")
	u.measurements = append(u.measurements, RSSIMeasurement{
		Station:        u.MAC(),
		SignalStrength: strength,
		ChannelNumber:  channel,
		Timestamp:      timestamp,
		RUID:           u.parentRUID,
	})
}

// Measurements returns all link metrics samples recorded for this station.
func (u *UnassociatedStation) Measurements() []RSSIMeasurement {
	return u.measurements
}
