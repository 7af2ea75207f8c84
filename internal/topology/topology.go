// Package topology provides a read-only, fully linked view of an
// EasyMesh network as reconstructed from one controller poll cycle.
package topology

import (
	"github.com/fbettag/easymesh-monitor/internal/easymesh"
)

// Connection is one BSS to station edge in the topology graph.
type Connection struct {
	BSSID      string `json:"bssid"`
	StationMAC string `json:"station_mac"`
}

// Topology is the aggregate root of one resolved poll cycle: the full
// agent forest plus the designated controller. It is immutable once
// constructed; a new Topology is built every cycle and published by
// pointer swap.
type Topology struct {
	agents     []*easymesh.Agent
	controller *easymesh.Agent
}

// New builds a Topology over the given agents, flagging the agent whose
// ID matches controllerID as the controller. A controllerID that matches
// no agent leaves the topology without a controller.
func New(agents []*easymesh.Agent, controllerID string) *Topology {
	t := &Topology{agents: agents}
	for _, agent := range agents {
		if controllerID != "" && agent.ID() == controllerID {
			agent.IsController = true
			t.controller = agent
		}
	}
	return t
}

// Agents returns all known agents on the network, controller included.
func (t *Topology) Agents() []*easymesh.Agent {
	return t.agents
}

// Controller returns the controller agent, or nil if none was resolved.
func (t *Topology) Controller() *easymesh.Agent {
	return t.controller
}

// AgentByID returns the agent with the given ID MAC, or nil.
func (t *Topology) AgentByID(id string) *easymesh.Agent {
	for _, agent := range t.agents {
		if agent.ID() == id {
			return agent
		}
	}
	return nil
}

// AgentFromHash returns the agent whose hashed ID matches, or nil.
func (t *Topology) AgentFromHash(hashID string) *easymesh.Agent {
	for _, agent := range t.agents {
		if agent.HashID() == hashID {
			return agent
		}
	}
	return nil
}

// InterfaceFromHash returns the interface whose hashed path matches, or
// nil.
func (t *Topology) InterfaceFromHash(hashID string) *easymesh.Interface {
	for _, agent := range t.agents {
		for _, iface := range agent.Interfaces() {
			if iface.HashID() == hashID {
				return iface
			}
		}
	}
	return nil
}

// StationFromHash returns the station whose hashed MAC matches, or nil.
func (t *Topology) StationFromHash(hashID string) *easymesh.Station {
	for _, agent := range t.agents {
		for _, sta := range agent.ConnectedStations() {
			if sta.HashMAC() == hashID {
				return sta
			}
		}
	}
	return nil
}

// StationByMAC returns the station with the given MAC, or nil.
func (t *Topology) StationByMAC(mac string) *easymesh.Station {
	for _, sta := range t.Stations() {
		if sta.MAC() == mac {
			return sta
		}
	}
	return nil
}

// Stations returns every station associated with some BSS on the network.
func (t *Topology) Stations() []*easymesh.Station {
	var stations []*easymesh.Station
	for _, bss := range t.BSSes() {
		stations = append(stations, bss.Stations()...)
	}
	return stations
}

// NumStations returns the total number of associated stations.
func (t *Topology) NumStations() int {
	total := 0
	for _, bss := range t.BSSes() {
		total += bss.NumStations()
	}
	return total
}

// BSSes returns every known cell across all radios on all agents.
func (t *Topology) BSSes() []*easymesh.BSS {
	var bsses []*easymesh.BSS
	for _, radio := range t.Radios() {
		bsses = append(bsses, radio.BSSes()...)
	}
	return bsses
}

// Radios returns every known radio across all agents.
func (t *Topology) Radios() []*easymesh.Radio {
	var radios []*easymesh.Radio
	for _, agent := range t.agents {
		radios = append(radios, agent.Radios()...)
	}
	return radios
}

// Connections returns all BSS to station edges in the topology.
func (t *Topology) Connections() []Connection {
	var connections []Connection
	for _, bss := range t.BSSes() {
		for _, sta := range bss.Stations() {
			connections = append(connections, Connection{
				BSSID:      bss.BSSID(),
				StationMAC: sta.MAC(),
			})
		}
	}
	return connections
}

// NumConnections returns the number of BSS to station edges.
func (t *Topology) NumConnections() int {
	return len(t.Connections())
}

// AgentIDFromBSSID returns the ID of the agent holding the given BSSID,
// or "".
func (t *Topology) AgentIDFromBSSID(bssid string) string {
	for _, agent := range t.agents {
		for _, radio := range agent.Radios() {
			for _, bss := range radio.BSSes() {
				if bss.BSSID() == bssid {
					return agent.ID()
				}
			}
		}
	}
	return ""
}

// RUIDForStation returns the RUID of the radio the station is connected
// to, whether over a regular BSS or a VBSS, or "" if unassociated.
func (t *Topology) RUIDForStation(mac string) string {
	for _, radio := range t.Radios() {
		for _, bss := range radio.BSSes() {
			for _, sta := range bss.Stations() {
				if sta.MAC() == mac {
					return radio.RUID()
				}
			}
		}
	}
	return ""
}

// BSSIDForStation returns the BSSID the station is connected to, or "".
func (t *Topology) BSSIDForStation(mac string) string {
	for _, conn := range t.Connections() {
		if conn.StationMAC == mac {
			return conn.BSSID
		}
	}
	return ""
}

// RadioByRUID returns the radio with the given RUID, or nil.
func (t *Topology) RadioByRUID(ruid string) *easymesh.Radio {
	for _, radio := range t.Radios() {
		if radio.RUID() == ruid {
			return radio
		}
	}
	return nil
}

// AgentByRUID returns the agent hosting the radio with the given RUID,
// or nil.
func (t *Topology) AgentByRUID(ruid string) *easymesh.Agent {
	for _, agent := range t.agents {
		for _, radio := range agent.Radios() {
			if radio.RUID() == ruid {
				return agent
			}
		}
	}
	return nil
}

// BSSByBSSID returns the cell with the given BSSID, or nil.
func (t *Topology) BSSByBSSID(bssid string) *easymesh.BSS {
	for _, bss := range t.BSSes() {
		if bss.BSSID() == bssid {
			return bss
		}
	}
	return nil
}

// ValidateVBSSMoveRequest reports whether moving the station's VBSS to
// the target radio is meaningful: true unless the station already lives
// on targetRUID. Guards against issuing no-op moves.
func (t *Topology) ValidateVBSSMoveRequest(stationMAC, targetRUID string) bool {
	return t.RUIDForStation(stationMAC) != targetRUID
}

// NoSSIDFound is returned by SSID when the controller has no radios or
// cells to read a network name from.
const NoSSIDFound = "No SSID found"

// SSID returns the network name advertised by the controller's first
// radio's first cell. This is a display convenience, not a hard lookup:
// it degrades to NoSSIDFound rather than failing.
func (t *Topology) SSID() string {
	if t.controller == nil {
		return NoSSIDFound
	}
	radios := t.controller.Radios()
	if len(radios) == 0 || len(radios[0].BSSes()) == 0 {
		return NoSSIDFound
	}
	return radios[0].BSSes()[0].SSID()
}
