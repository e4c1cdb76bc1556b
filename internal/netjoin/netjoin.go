// internal/netjoin/netjoin.go
package netjoin

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var ErrNoSSID = errors.New("netjoin: ssid not configured")

// Joiner associates the pod with its network and reports the address it
// was given.
type Joiner interface {
	Join(ctx context.Context, ssid, password string) (net.IP, error)
}

// HostJoiner is used when the host already manages the radio. It checks the
// credentials are present and resolves the outbound IPv4 toward Probe.
type HostJoiner struct {
	Probe string // host:port the pod will talk to
}

func (h HostJoiner) Join(ctx context.Context, ssid, _ string) (net.IP, error) {
	if ssid == "" {
		return nil, ErrNoSSID
	}

	// UDP dial sends nothing; it only selects a route.
	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp4", h.Probe)
	if err != nil {
		return nil, fmt.Errorf("netjoin: no route to %s: %w", h.Probe, err)
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || addr.IP.To4() == nil {
		return nil, fmt.Errorf("netjoin: no ipv4 address toward %s", h.Probe)
	}
	return addr.IP.To4(), nil
}
