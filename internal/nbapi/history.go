package nbapi

import "sync"

// History is the cross-cycle memory of a controller connection: each
// poll yields an instantaneous view of the network, but move detection
// and signal strength plotting need state that survives cycles.
//
// It has a single writer (the resolver, once per poll) and concurrent
// readers (the HTTP query layer between polls), so every access goes
// through the lock.
type History struct {
	mu             sync.RWMutex
	stationToRadio map[string]string
	moved          []string
	rssi           map[string]map[string][]int
}

// NewHistory creates an empty History for a fresh controller connection.
func NewHistory() *History {
	return &History{
		stationToRadio: make(map[string]string),
		rssi:           make(map[string]map[string][]int),
	}
}

// RecordStationRadio registers that a station is currently associated to
// the given radio, for tracking moves on later cycles.
func (h *History) RecordStationRadio(mac, ruid string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stationToRadio[mac] = ruid
}

// HasStationMoved reports whether a station has a prior radio mapping
// that differs from the radio it is currently seen on.
func (h *History) HasStationMoved(mac, ruid string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	prior, ok := h.stationToRadio[mac]
	return ok && prior != ruid
}

// markStationMoved queues a move notification for the station and drops
// its stale radio mapping. The resolver must call this before recording
// the new mapping.
func (h *History) markStationMoved(mac string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.moved = append(h.moved, mac)
	delete(h.stationToRadio, mac)
}

// ConsumeMovedStations returns pending move notifications and clears
// them. Each move is delivered at most once.
func (h *History) ConsumeMovedStations() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	moved := h.moved
	h.moved = nil
	return moved
}

// StationRadio returns the last known radio for a station, if any.
func (h *History) StationRadio(mac string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ruid, ok := h.stationToRadio[mac]
	return ruid, ok
}

// AppendRSSI appends a signal strength reading for a station as measured
// on a radio. Series are append-only within a connection's lifetime.
func (h *History) AppendRSSI(ruid, mac string, value int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	byStation, ok := h.rssi[ruid]
	if !ok {
		byStation = make(map[string][]int)
		h.rssi[ruid] = byStation
	}
	byStation[mac] = append(byStation[mac], value)
}

// AllRSSI returns a copy of every accumulated signal strength series,
// keyed by radio then station MAC. Callers may not observe a series mid
// update, and mutating the returned map does not affect the store.
func (h *History) AllRSSI() map[string]map[string][]int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[string]map[string][]int, len(h.rssi))
	for ruid, byStation := range h.rssi {
		stations := make(map[string][]int, len(byStation))
		for mac, series := range byStation {
			copied := make([]int, len(series))
			copy(copied, series)
			stations[mac] = copied
		}
		out[ruid] = stations
	}
	return out
}

// Reset clears the accumulated signal strength series. Called when a new
// controller connection is established; station-to-radio mappings and
// pending moves are left intact.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rssi = make(map[string]map[string][]int)
}
