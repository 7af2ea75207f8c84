package validation

import (
	"testing"

	"github.com/fbettag/easymesh-monitor/internal/easymesh"
	"github.com/fbettag/easymesh-monitor/internal/topology"
)

func TestIsIPv4(t *testing.T) {
	valid := []string{"192.168.1.1", "10.0.0.1", "255.255.255.255"}
	invalid := []string{"", "localhost", "192.168.1", "192.168.1.1.1", "2001:db8::1", "192.168.1.1:8080"}

	for _, s := range valid {
		if !IsIPv4(s) {
			t.Errorf("IsIPv4(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsIPv4(s) {
			t.Errorf("IsIPv4(%q) = true, want false", s)
		}
	}
}

func TestIsPort(t *testing.T) {
	valid := []string{"1", "8080", "65534"}
	invalid := []string{"", "0", "65535", "99999", "-1", "http"}

	for _, s := range valid {
		if !IsPort(s) {
			t.Errorf("IsPort(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsPort(s) {
			t.Errorf("IsPort(%q) = true, want false", s)
		}
	}
}

func TestIsMAC(t *testing.T) {
	valid := []string{
		"aa:bb:cc:dd:ee:ff",
		"AA:BB:CC:DD:EE:FF",
		"aa-bb-cc-dd-ee-ff",
		"aabbccddeeff",
	}
	invalid := []string{
		"",
		"aa:bb:cc:dd:ee",
		"aa:bb:cc:dd:ee:ff:00",
		"aa:bb-cc:dd:ee:ff", // mixed separators
		"gg:bb:cc:dd:ee:ff",
		"aa:bb:cc:dd:ee:f",
	}

	for _, s := range valid {
		if !IsMAC(s) {
			t.Errorf("IsMAC(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsMAC(s) {
			t.Errorf("IsMAC(%q) = true, want false", s)
		}
	}
}

func testTopology() *topology.Topology {
	agent := easymesh.NewAgent("Device.WiFi.DataElements.Network.Device.1.",
		easymesh.Params{"ID": "aa:00:00:00:00:01"})
	radio := easymesh.NewRadio("Device.WiFi.DataElements.Network.Device.1.Radio.1.",
		easymesh.Params{"ID": "bb:00:00:00:00:01"})
	bss := easymesh.NewBSS("Device.WiFi.DataElements.Network.Device.1.Radio.1.BSS.1.",
		easymesh.Params{"BSSID": "cc:00:00:00:00:01"})
	sta := easymesh.NewStation("Device.WiFi.DataElements.Network.Device.1.Radio.1.BSS.1.STA.1.",
		easymesh.Params{"MACAddress": "dd:00:00:00:00:01"})
	bss.AddStation(sta)
	radio.AddBSS(bss)
	agent.AddRadio(radio)
	return topology.New([]*easymesh.Agent{agent}, "aa:00:00:00:00:01")
}

func TestVBSSClientMAC(t *testing.T) {
	topo := testTopology()

	if ok, _ := VBSSClientMAC("dd:00:00:00:00:01", topo); !ok {
		t.Error("a known station MAC should validate")
	}
	if ok, reason := VBSSClientMAC("not-a-mac", topo); ok || reason == "" {
		t.Error("a malformed MAC should fail with a reason")
	}
	if ok, reason := VBSSClientMAC("dd:00:00:00:00:99", topo); ok || reason == "" {
		t.Error("an unknown station MAC should fail with a reason")
	}
}

func TestVBSSID(t *testing.T) {
	topo := testTopology()

	if ok, _ := VBSSID("cc:00:00:00:00:99", topo); !ok {
		t.Error("a fresh VBSSID should validate")
	}
	if ok, _ := VBSSID("cc:00:00:00:00:01", topo); ok {
		t.Error("an in-use BSSID must be rejected")
	}
	if ok, _ := VBSSID("nope", topo); ok {
		t.Error("a malformed VBSSID must be rejected")
	}
}

func TestVBSSPassword(t *testing.T) {
	if ok, _ := VBSSPassword("longenough"); !ok {
		t.Error("an 8+ character password should validate")
	}
	if ok, reason := VBSSPassword("short"); ok || reason == "" {
		t.Error("a short password should fail with a reason")
	}
}
