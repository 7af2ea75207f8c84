package easymesh

// IEEE 1905.1 media type codes as reported by the data model.
const (
	MediaTypeFastEthernet    = 0x0
	MediaTypeGigabitEthernet = 0x1
	MediaType80211B          = 0x100
	MediaType80211AX         = 0x108
	MediaTypeUnknown         = 0xffff
)

var mediaTypeNames = map[int]string{
	0x0:    "Fast Ethernet",
	0x1:    "Gigabit Ethernet",
	0x100:  "B 2.4GHz",
	0x101:  "G 2.4GHz",
	0x102:  "A 5 GHz",
	0x103:  "N 2.4 GHz",
	0x104:  "N 5 GHz",
	0x105:  "AC 5 GHz",
	0x106:  "AD 60 GHz",
	0x107:  "AF",
	0x108:  "AX",
	0x200:  "IEEE_1901_WAVELET",
	0x201:  "IEEE_1901_FFT",
	0x300:  "MOCA_V1_1",
	0xffff: "UNKNOWN_MEDIA",
}

// Some controllers report media types as enum names instead of codes.
var mediaTypeAliases = map[string]int{
	"IEEE_802_3U_FAST_ETHERNET":     0x0,
	"IEEE_802_3AB_GIGABIT_ETHERNET": 0x1,
	"IEEE_802_11B_2_4_GHZ":          0x100,
	"IEEE_802_11G_2_4_GHZ":          0x101,
	"IEEE_802_11A_5_GHZ":            0x102,
	"IEEE_802_11N_2_4_GHZ":          0x103,
	"IEEE_802_11N_5_GHZ":            0x104,
	"IEEE_802_11AC_5_GHZ":           0x105,
	"IEEE_802_11AX":                 0x105,
	"IEEE_802_11AD_60_GHZ":          0x106,
	"IEEE_802_11AF":                 0x107,
}

// MediaTypeCode normalizes a raw MediaType parameter value to a numeric
// media type code. Unrecognized values map to MediaTypeUnknown.
func MediaTypeCode(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case int64:
		return int(t)
	case string:
		if code, ok := mediaTypeAliases[t]; ok {
			return code
		}
	}
	return MediaTypeUnknown
}

// MediaTypeName returns a human readable name for a media type code.
func MediaTypeName(code int) string {
	if name, ok := mediaTypeNames[code]; ok {
		return name
	}
	return "Unknown"
}

// IsWirelessMedia reports whether a media type code falls in the 802.11
// range. Codes outside the range, including unrecognized ones, classify
// as wired; this mirrors controller behavior and must not be tightened.
func IsWirelessMedia(code int) bool {
	return code >= MediaType80211B && code <= MediaType80211AX
}

// IsEthernetMedia reports whether a media type code is one of the two
// wired Ethernet variants.
func IsEthernetMedia(code int) bool {
	return code == MediaTypeFastEthernet || code == MediaTypeGigabitEthernet
}
