package easymesh

import (
	"crypto/md5"
	"encoding/hex"
)

// WeakSignalDBm is the sentinel signal strength reported when a record
// carries no usable measurement (-INT8_MAX, assuming dBm).
const WeakSignalDBm = -127

// Params is the attribute bag of a data-model record: parameter values
// keyed by name, passed through verbatim from the controller plus a few
// derived fields the resolver computes.
type Params map[string]any

// String returns the string value for key, or "" if absent or not a string.
func (p Params) String(key string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}

// Int returns the numeric value for key. JSON decoding produces float64,
// but fixture data may carry native ints, so both are accepted.
func (p Params) Int(key string) (int, bool) {
	switch v := p[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	}
	return 0, false
}

// Bool returns the boolean value for key, or false if absent.
func (p Params) Bool(key string) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return false
}

// SignalStrength resolves the signal strength of a record following the
// field fallback chain RSSI, SignalStrength, RCPI. The field name varies
// by vendor and by associated/unassociated state.
func (p Params) SignalStrength() int {
	for _, key := range []string{"RSSI", "SignalStrength", "RCPI"} {
		if v, ok := p.Int(key); ok {
			return v
		}
	}
	return WeakSignalDBm
}

func hashID(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
