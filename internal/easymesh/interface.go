package easymesh

import (
	"sort"
	"strings"
)

// Orientation is the position of an interface relative to its owning
// agent. It carries no topological meaning and is only consumed by the
// external renderer when laying out backhaul links.
type Orientation int

const (
	OrientationRight Orientation = iota
	OrientationUp
	OrientationDown
)

const (
	neighborsKey = "neighbors"
	childrenKey  = "children"
)

// Neighbor is a leaf record describing a device seen on an interface.
type Neighbor struct {
	Path   string
	Params Params
}

// NewNeighbor creates a Neighbor from its data-model path and parameters.
func NewNeighbor(path string, params Params) *Neighbor {
	if params == nil {
		params = Params{}
	}
	return &Neighbor{Path: path, Params: params}
}

// ID returns the neighbor's identifier (a MAC address), or "".
func (n *Neighbor) ID() string {
	return n.Params.String("ID")
}

// Interface represents a physical network port (PHY layer) on an agent.
type Interface struct {
	Path   string
	Params Params

	// MediaType is the normalized IEEE 1905.1 media type code.
	MediaType int
	Wired     bool
	Wireless  bool

	Orientation Orientation
	X, Y        float64

	neighbors []*Neighbor
	children  []*Interface
	stations  []*Station
	agent     *Agent
}

// NewInterface creates an Interface and derives its wired/wireless
// classification from the record's MediaType parameter.
func NewInterface(path string, params Params) *Interface {
	if params == nil {
		params = Params{}
	}
	i := &Interface{Path: path, Params: params}
	i.Params[neighborsKey] = []Params{}
	i.Params[childrenKey] = []Params{}
	i.Params[connectedStationsKey] = []Params{}

	i.MediaType = MediaTypeCode(params["MediaType"])
	i.setClassification(MediaTypeName(i.MediaType), IsWirelessMedia(i.MediaType))
	return i
}

func (i *Interface) setClassification(name string, wireless bool) {
	i.Wireless = wireless
	i.Wired = !wireless
	i.Params["MediaTypeString"] = name
	if wireless {
		i.Params["wired"] = 0
		i.Params["wireless"] = 1
	} else {
		i.Params["wired"] = 1
		i.Params["wireless"] = 0
	}
}

// MAC returns this interface's MAC address, or "".
func (i *Interface) MAC() string {
	return i.Params.String("MACAddress")
}

// HashID returns the MD5 hash of this interface's path, used as a node
// identifier by the external renderer.
func (i *Interface) HashID() string {
	return hashID(i.Path)
}

// MediaTypeString returns the readable name of this interface's media type.
func (i *Interface) MediaTypeString() string {
	return i.Params.String("MediaTypeString")
}

// InterfaceNumber returns this interface's index in its owning agent's
// interface table, parsed from the record path.
func (i *Interface) InterfaceNumber() string {
	tokens := strings.Split(strings.TrimSuffix(i.Path, "."), ".")
	if len(tokens) == 0 {
		return ""
	}
	return tokens[len(tokens)-1]
}

// SetParentAgent sets the agent that owns this interface.
func (i *Interface) SetParentAgent(agent *Agent) {
	i.agent = agent
}

// ParentAgent returns the agent that owns this interface.
func (i *Interface) ParentAgent() *Agent {
	return i.agent
}

// AddNeighbor attaches a neighbor record, keeping neighbors sorted by ID.
// Adding the same path twice is a no-op.
func (i *Interface) AddNeighbor(neighbor *Neighbor) {
	for _, n := range i.neighbors {
		if n.Path == neighbor.Path {
			return
		}
	}
	i.neighbors = append(i.neighbors, neighbor)
	sort.Slice(i.neighbors, func(a, b int) bool {
		return i.neighbors[a].ID() < i.neighbors[b].ID()
	})
	mirrored := make([]Params, len(i.neighbors))
	for idx, n := range i.neighbors {
		mirrored[idx] = n.Params
	}
	i.Params[neighborsKey] = mirrored
}

// Neighbors returns all neighbor records on this interface.
func (i *Interface) Neighbors() []*Neighbor {
	return i.neighbors
}

// AddChild links a child interface below this one, keeping children
// sorted by MAC. Adding the same MAC twice is a no-op.
//
// Some controllers link interfaces of differing media types directly
// (Ethernet to wireless). When that happens both ends are coerced to the
// classification of whichever side is not wireless.
func (i *Interface) AddChild(child *Interface) {
	if i.HasChildInterface(child.MAC()) {
		return
	}
	if i.Wireless && !child.Wireless {
		i.setClassification(child.MediaTypeString(), false)
	} else if child.Wireless && !i.Wireless {
		child.setClassification(i.MediaTypeString(), false)
	}
	i.children = append(i.children, child)
	sort.Slice(i.children, func(a, b int) bool {
		return i.children[a].MAC() < i.children[b].MAC()
	})
	mirrored := make([]Params, len(i.children))
	for idx, c := range i.children {
		mirrored[idx] = c.Params
	}
	i.Params[childrenKey] = mirrored
}

// Children returns the interfaces linked below this one.
func (i *Interface) Children() []*Interface {
	return i.children
}

// HasChildInterface reports whether an interface with the given MAC is a
// child of this one.
func (i *Interface) HasChildInterface(mac string) bool {
	for _, c := range i.children {
		if c.MAC() == mac {
			return true
		}
	}
	return false
}

// AddStation appends a station to this interface's connected station
// list and mirrors it into the owning agent's list. Adding the same MAC
// twice is a no-op.
func (i *Interface) AddStation(station *Station) {
	for _, s := range i.stations {
		if s.MAC() == station.MAC() {
			return
		}
	}
	if i.agent != nil {
		i.agent.AddStation(station)
	}
	i.stations = append(i.stations, station)
	mirrored := make([]Params, len(i.stations))
	for idx, s := range i.stations {
		mirrored[idx] = s.Params
	}
	i.Params[connectedStationsKey] = mirrored
}

// Stations returns the stations connected through this interface.
func (i *Interface) Stations() []*Station {
	return i.stations
}
