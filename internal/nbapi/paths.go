package nbapi

import (
	"regexp"
	"strings"
)

// Path suffix patterns for the record types the resolver cares about.
// Every data-model record is addressed by a dot separated path such as
// "Device.WiFi.DataElements.Network.Device.1.Radio.2.BSS.3.STA.4.".
var (
	networkPattern      = regexp.MustCompile(`\.Network\.$`)
	devicePattern       = regexp.MustCompile(`\.Device\.\d{1,10}\.$`)
	interfacePattern    = regexp.MustCompile(`\.Interface\.\d{1,10}\.$`)
	neighborPattern     = regexp.MustCompile(`\.Neighbor\.\d{1,10}\.$`)
	backhaulPattern     = regexp.MustCompile(`\.MultiAPDevice\.Backhaul\.$`)
	radioPattern        = regexp.MustCompile(`\.Radio\.\d{1,10}\.$`)
	bssPattern          = regexp.MustCompile(`\.BSS\.\d{1,10}\.$`)
	stationPattern      = regexp.MustCompile(`\.STA\.\d{1,10}\.$`)
	steerEventPattern   = regexp.MustCompile(`\.SteerEvent\.\d{1,10}\.$`)
	unassociatedPattern = regexp.MustCompile(`\.UnassociatedSTA\.\d{1,10}\.$`)
)

// ParseIndexByKey returns the numeric index immediately following the
// first occurrence of a container keyword in a data-model path, e.g.
// ParseIndexByKey("Device.WiFi.DataElements.Network.Device.5.", "Device")
// returns "5". Every path is prefixed by a literal "Device" root segment
// that is not an index container, so the keyword's occurrence at
// position 0 is skipped. Returns "" when the keyword is absent or is the
// last token.
func ParseIndexByKey(path, key string) string {
	tokens := strings.Split(path, ".")
	for i, token := range tokens {
		if token != key {
			continue
		}
		if token == "Device" && i == 0 {
			continue
		}
		if i+1 < len(tokens) {
			return tokens[i+1]
		}
	}
	return ""
}
