package topology

import (
	"testing"

	"github.com/fbettag/easymesh-monitor/internal/easymesh"
)

func buildTestTopology() *Topology {
	controller := easymesh.NewAgent("Device.WiFi.DataElements.Network.Device.1.",
		easymesh.Params{"ID": "aa:00:00:00:00:01"})
	extender := easymesh.NewAgent("Device.WiFi.DataElements.Network.Device.2.",
		easymesh.Params{"ID": "aa:00:00:00:00:02"})

	radio1 := easymesh.NewRadio("Device.WiFi.DataElements.Network.Device.1.Radio.1.",
		easymesh.Params{"ID": "bb:00:00:00:00:01"})
	bss1 := easymesh.NewBSS("Device.WiFi.DataElements.Network.Device.1.Radio.1.BSS.1.",
		easymesh.Params{"BSSID": "cc:00:00:00:00:01", "SSID": "MeshNet"})
	sta1 := easymesh.NewStation("Device.WiFi.DataElements.Network.Device.1.Radio.1.BSS.1.STA.1.",
		easymesh.Params{"MACAddress": "dd:00:00:00:00:01", "RSSI": float64(-42)})
	bss1.AddStation(sta1)
	radio1.AddBSS(bss1)
	controller.AddRadio(radio1)

	radio2 := easymesh.NewRadio("Device.WiFi.DataElements.Network.Device.2.Radio.1.",
		easymesh.Params{"ID": "bb:00:00:00:00:02"})
	bss2 := easymesh.NewBSS("Device.WiFi.DataElements.Network.Device.2.Radio.1.BSS.1.",
		easymesh.Params{"BSSID": "cc:00:00:00:00:02", "SSID": "MeshNet"})
	sta2 := easymesh.NewStation("Device.WiFi.DataElements.Network.Device.2.Radio.1.BSS.1.STA.1.",
		easymesh.Params{"MACAddress": "dd:00:00:00:00:02"})
	bss2.AddStation(sta2)
	radio2.AddBSS(bss2)
	extender.AddRadio(radio2)

	return New([]*easymesh.Agent{controller, extender}, "aa:00:00:00:00:01")
}

func TestNewFlagsController(t *testing.T) {
	topo := buildTestTopology()

	controller := topo.Controller()
	if controller == nil || controller.ID() != "aa:00:00:00:00:01" {
		t.Fatalf("Controller() = %v", controller)
	}
	if !controller.IsController {
		t.Error("controller agent not flagged")
	}
	if topo.AgentByID("aa:00:00:00:00:02").IsController {
		t.Error("extender wrongly flagged as controller")
	}
}

func TestNewWithoutMatchingController(t *testing.T) {
	agent := easymesh.NewAgent("Device.WiFi.DataElements.Network.Device.1.",
		easymesh.Params{"ID": "aa:00:00:00:00:01"})
	topo := New([]*easymesh.Agent{agent}, "ff:ff:ff:ff:ff:ff")

	if topo.Controller() != nil {
		t.Error("an unmatched controller ID should leave the topology headless")
	}
	if got := topo.SSID(); got != NoSSIDFound {
		t.Errorf("SSID() = %q, want %q", got, NoSSIDFound)
	}
}

func TestQuerySurface(t *testing.T) {
	topo := buildTestTopology()

	if len(topo.Radios()) != 2 || len(topo.BSSes()) != 2 {
		t.Errorf("Radios/BSSes = %d/%d, want 2/2", len(topo.Radios()), len(topo.BSSes()))
	}
	if topo.NumStations() != 2 || topo.NumConnections() != 2 {
		t.Errorf("NumStations/NumConnections = %d/%d, want 2/2", topo.NumStations(), topo.NumConnections())
	}

	if got := topo.RUIDForStation("dd:00:00:00:00:01"); got != "bb:00:00:00:00:01" {
		t.Errorf("RUIDForStation = %q", got)
	}
	if got := topo.BSSIDForStation("dd:00:00:00:00:02"); got != "cc:00:00:00:00:02" {
		t.Errorf("BSSIDForStation = %q", got)
	}
	if got := topo.RUIDForStation("unknown"); got != "" {
		t.Errorf("RUIDForStation(unknown) = %q, want empty", got)
	}

	if topo.RadioByRUID("bb:00:00:00:00:02") == nil {
		t.Error("RadioByRUID missed a known radio")
	}
	if agent := topo.AgentByRUID("bb:00:00:00:00:02"); agent == nil || agent.ID() != "aa:00:00:00:00:02" {
		t.Errorf("AgentByRUID = %v", agent)
	}
	if topo.BSSByBSSID("cc:00:00:00:00:01") == nil {
		t.Error("BSSByBSSID missed a known cell")
	}
	if got := topo.AgentIDFromBSSID("cc:00:00:00:00:01"); got != "aa:00:00:00:00:01" {
		t.Errorf("AgentIDFromBSSID = %q", got)
	}
	if got := topo.SSID(); got != "MeshNet" {
		t.Errorf("SSID() = %q", got)
	}
}

func TestHashLookups(t *testing.T) {
	topo := buildTestTopology()

	agent := topo.AgentByID("aa:00:00:00:00:01")
	if topo.AgentFromHash(agent.HashID()) != agent {
		t.Error("AgentFromHash roundtrip failed")
	}

	sta := topo.StationByMAC("dd:00:00:00:00:01")
	if sta == nil {
		t.Fatal("station missing")
	}
	// StationFromHash only sees stations on agent client lists.
	iface := easymesh.NewInterface("Device.WiFi.DataElements.Network.Device.1.Interface.1.",
		easymesh.Params{"MACAddress": "ee:00:00:00:00:01", "MediaType": float64(0x108)})
	iface.SetParentAgent(agent)
	agent.AddInterface(iface)
	iface.AddStation(sta)

	if topo.StationFromHash(sta.HashMAC()) != sta {
		t.Error("StationFromHash roundtrip failed")
	}
	if topo.InterfaceFromHash(iface.HashID()) != iface {
		t.Error("InterfaceFromHash roundtrip failed")
	}
	if topo.AgentFromHash("bogus") != nil || topo.StationFromHash("bogus") != nil {
		t.Error("hash lookups must return nil on unknown hashes")
	}
}

func TestValidateVBSSMoveRequest(t *testing.T) {
	topo := buildTestTopology()

	// Moving to the radio the station already lives on is a no-op.
	if topo.ValidateVBSSMoveRequest("dd:00:00:00:00:01", "bb:00:00:00:00:01") {
		t.Error("move onto the current radio should be rejected")
	}
	if !topo.ValidateVBSSMoveRequest("dd:00:00:00:00:01", "bb:00:00:00:00:02") {
		t.Error("move onto a different radio should be allowed")
	}
	// Unassociated stations can move anywhere.
	if !topo.ValidateVBSSMoveRequest("unknown", "bb:00:00:00:00:01") {
		t.Error("unknown stations should not be blocked")
	}
}
