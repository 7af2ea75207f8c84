package easymesh

const bssListKey = "BSS"

// Radio represents a physical wireless radio on an agent, identified by
// its RUID.
type Radio struct {
	Path   string
	Params Params

	bsses        []*BSS
	unassociated []*UnassociatedStation
}

// NewRadio creates a Radio from its data-model path and parameters.
func NewRadio(path string, params Params) *Radio {
	if params == nil {
		params = Params{}
	}
	r := &Radio{Path: path, Params: params}
	r.Params[bssListKey] = []Params{}
	return r
}

// RUID returns this radio's unique identifier, or "" if absent.
func (r *Radio) RUID() string {
	return r.Params.String("ID")
}

// AddBSS appends a cell to this radio. Adding the same path twice is a
// no-op.
func (r *Radio) AddBSS(bss *BSS) {
	for _, b := range r.bsses {
		if b.Path == bss.Path {
			return
		}
	}
	r.bsses = append(r.bsses, bss)
	mirrored := make([]Params, len(r.bsses))
	for i, b := range r.bsses {
		mirrored[i] = b.Params
	}
	r.Params[bssListKey] = mirrored
}

// BSSes returns all cells broadcast by this radio.
func (r *Radio) BSSes() []*BSS {
	return r.bsses
}

// AddUnassociatedStation attaches a sniffed, unassociated station to
// this radio. Adding the same MAC twice is a no-op.
func (r *Radio) AddUnassociatedStation(station *UnassociatedStation) {
	for _, s := range r.unassociated {
		if s.MAC() == station.MAC() {
			return
		}
	}
	station.parentRUID = r.RUID()
	r.unassociated = append(r.unassociated, station)
}

// UnassociatedStations returns all unassociated stations this radio is
// listening to.
func (r *Radio) UnassociatedStations() []*UnassociatedStation {
	return r.unassociated
}

// UnassociatedStationByMAC returns the unassociated station with the
// given MAC, or nil if this radio is not sniffing it.
func (r *Radio) UnassociatedStationByMAC(mac string) *UnassociatedStation {
	for _, s := range r.unassociated {
		if s.MAC() == mac {
			return s
		}
	}
	return nil
}
