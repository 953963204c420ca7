package renderer

import "strings"

// IsGroundNet reports whether a net belongs to the ground family:
// GND, GND-prefixed or -suffixed names, and VSS-prefixed names.
func IsGroundNet(net string) bool {
	n := strings.ToUpper(strings.TrimSpace(net))
	return strings.HasPrefix(n, "GND") || strings.HasSuffix(n, "GND") || strings.HasPrefix(n, "VSS")
}

// IsNCNet reports whether a net marks a pin as not connected
func IsNCNet(net string) bool {
	n := strings.ToUpper(strings.TrimSpace(net))
	switch {
	case n == "", n == "NC", n == "N/C", n == "UNCONNECTED":
		return true
	case strings.HasPrefix(n, "NC_"):
		return true
	}
	return false
}
