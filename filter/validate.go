package filter

import (
	"net"
	"strconv"
	"strings"
)

// AddressValidator checks address tokens against the host environment's
// notion of a valid address or subnet.
type AddressValidator interface {
	// Host reports whether s is a plain IPv4 or IPv6 address.
	Host(s string) bool
	// Network parses s as CIDR notation and returns the canonical network,
	// e.g. "10.1.2.3/24" becomes "10.1.2.0/24".
	Network(s string) (string, bool)
}

// PortValidator checks port tokens.
type PortValidator interface {
	// Port reports whether s is a valid port number.
	Port(s string) bool
	// Range reports whether s is a valid low-high port range.
	Range(s string) bool
}

// NetValidator is the stdlib-backed default for both validator interfaces.
type NetValidator struct{}

func (NetValidator) Host(s string) bool {
	return net.ParseIP(s) != nil
}

func (NetValidator) Network(s string) (string, bool) {
	_, network, err := net.ParseCIDR(s)
	if err != nil {
		return "", false
	}
	return network.String(), true
}

func (NetValidator) Port(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n >= 1 && n <= 65535
}

func (v NetValidator) Range(s string) bool {
	low, high, found := strings.Cut(s, "-")
	if !found || !v.Port(low) || !v.Port(high) {
		return false
	}
	l, _ := strconv.Atoi(low)
	h, _ := strconv.Atoi(high)
	return l < h
}

var (
	addresses AddressValidator = NetValidator{}
	ports     PortValidator    = NetValidator{}
)

// SetValidators replaces the host-environment validators. Not safe to call
// concurrently with compilation.
func SetValidators(a AddressValidator, p PortValidator) {
	if a != nil {
		addresses = a
	}
	if p != nil {
		ports = p
	}
}
