// Package validation checks user supplied connection parameters and
// VBSS command arguments before they reach the controller.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fbettag/easymesh-monitor/internal/topology"
)

var (
	ipv4Pattern = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)
	portPattern = regexp.MustCompile(`^\d{1,5}$`)
	// One consistent separator throughout: colons, dashes, or none.
	macPattern = regexp.MustCompile(`^(?:[0-9a-f]{2}(?::[0-9a-f]{2}){5}|[0-9a-f]{2}(?:-[0-9a-f]{2}){5}|[0-9a-f]{12})$`)
)

// IsIPv4 reports whether s looks like a dotted-quad IPv4 address.
func IsIPv4(s string) bool {
	return ipv4Pattern.MatchString(s)
}

// IsPort reports whether s is a valid TCP port number.
func IsPort(s string) bool {
	if !portPattern.MatchString(s) {
		return false
	}
	port, err := strconv.Atoi(s)
	return err == nil && port > 0 && port < 65535
}

// IsMAC reports whether s is a MAC address of the form aa:bb:cc:dd:ee:ff.
func IsMAC(s string) bool {
	return macPattern.MatchString(strings.ToLower(s))
}

// VBSSClientMAC ensures a client MAC is well formed and known on the
// network.
func VBSSClientMAC(clientMAC string, topo *topology.Topology) (bool, string) {
	if !IsMAC(clientMAC) {
		return false, fmt.Sprintf("Client MAC '%s' is malformed.", clientMAC)
	}
	for _, sta := range topo.Stations() {
		if sta.MAC() == clientMAC {
			return true, ""
		}
	}
	return false, fmt.Sprintf("STA with MAC '%s' not known on the network", clientMAC)
}

// VBSSID ensures a VBSSID is well formed and not already in use.
func VBSSID(vbssid string, topo *topology.Topology) (bool, string) {
	if !IsMAC(vbssid) {
		return false, fmt.Sprintf("VBSSID '%s' is malformed.", vbssid)
	}
	for _, bss := range topo.BSSes() {
		if bss.BSSID() == vbssid {
			return false, fmt.Sprintf("VBSSID '%s' is already in use in this network.", vbssid)
		}
	}
	return true, ""
}

// VBSSPassword enforces the controller's minimum password length for
// VBSS creation.
func VBSSPassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters long."
	}
	return true, ""
}
