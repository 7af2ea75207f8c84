package nbapi

import "testing"

func TestPathPatterns(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		path    string
		match   bool
	}{
		{"network root", "network", "Device.WiFi.DataElements.Network.", true},
		{"network not device", "network", "Device.WiFi.DataElements.Network.Device.1.", false},
		{"device", "device", "Device.WiFi.DataElements.Network.Device.1.", true},
		{"device not radio", "device", "Device.WiFi.DataElements.Network.Device.1.Radio.1.", false},
		{"station", "station", "Device.WiFi.DataElements.Network.Device.1.Radio.1.BSS.1.STA.4.", true},
		{"station not unassociated", "station", "Device.WiFi.DataElements.Network.Device.1.Radio.1.UnassociatedSTA.4.", false},
		{"unassociated", "unassociated", "Device.WiFi.DataElements.Network.Device.1.Radio.1.UnassociatedSTA.4.", true},
		{"backhaul", "backhaul", "Device.WiFi.DataElements.Network.Device.2.MultiAPDevice.Backhaul.", true},
		{"steer event", "steer", "Device.WiFi.DataElements.Network.Device.1.Radio.1.BSS.1.STA.1.MultiAPSTA.SteeringSummaryStats.SteerEvent.1.", true},
	}

	patterns := map[string]interface{ MatchString(string) bool }{
		"network":      networkPattern,
		"device":       devicePattern,
		"station":      stationPattern,
		"unassociated": unassociatedPattern,
		"backhaul":     backhaulPattern,
		"steer":        steerEventPattern,
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := patterns[tt.pattern].MatchString(tt.path); got != tt.match {
				t.Errorf("%s.MatchString(%q) = %v, want %v", tt.pattern, tt.path, got, tt.match)
			}
		})
	}
}

func TestParseIndexByKey(t *testing.T) {
	tests := []struct {
		path string
		key  string
		want string
	}{
		{"Device.WiFi.DataElements.Network.Device.5.", "Device", "5"},
		{"Device.WiFi.DataElements.Network.Device.5.Radio.2.", "Radio", "2"},
		{"Device.WiFi.DataElements.Network.Device.5.Radio.2.BSS.3.", "BSS", "3"},
		{"Device.WiFi.DataElements.Network.", "Radio", ""},
		{"Device.WiFi.DataElements.Network.Device", "Device", ""},
		{"", "Device", ""},
	}

	for _, tt := range tests {
		if got := ParseIndexByKey(tt.path, tt.key); got != tt.want {
			t.Errorf("ParseIndexByKey(%q, %q) = %q, want %q", tt.path, tt.key, got, tt.want)
		}
	}
}
