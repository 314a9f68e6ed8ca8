package capfilter

import (
	"fmt"
	"net"
	"strings"
)

// Interface is one capturable network interface with a human-readable
// description for selection UIs.
type Interface struct {
	Name        string
	Description string
}

// netInterfaces is swapped out in tests.
var netInterfaces = net.Interfaces

// Interfaces lists the host's interfaces. The description is assembled from
// MTU, flags and addresses.
func Interfaces() ([]Interface, error) {
	ifaces, err := netInterfaces()
	if err != nil {
		return nil, fmt.Errorf("listing interfaces: %w", err)
	}
	out := make([]Interface, 0, len(ifaces))
	for _, iface := range ifaces {
		out = append(out, Interface{Name: iface.Name, Description: describe(iface)})
	}
	return out, nil
}

func describe(iface net.Interface) string {
	parts := []string{fmt.Sprintf("mtu %d", iface.MTU)}
	if iface.Flags&net.FlagUp != 0 {
		parts = append(parts, "up")
	}
	if iface.Flags&net.FlagLoopback != 0 {
		parts = append(parts, "loopback")
	}
	if addrs, err := iface.Addrs(); err == nil {
		for _, addr := range addrs {
			parts = append(parts, addr.String())
		}
	}
	return strings.Join(parts, ", ")
}
