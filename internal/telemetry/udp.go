// internal/telemetry/udp.go
package telemetry

import (
	"context"
	"fmt"
	"net"
)

// UDPOpener opens a connected datagram socket to the collector.
type UDPOpener struct {
	Address string
}

func (o UDPOpener) Open(ctx context.Context) (Transport, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", o.Address)
	if err != nil {
		return nil, fmt.Errorf("telemetry: udp dial %s: %w", o.Address, err)
	}
	return &udpTransport{conn: conn}, nil
}

type udpTransport struct {
	conn net.Conn
}

func (u *udpTransport) Send(b []byte) error {
	_, err := u.conn.Write(b)
	return err
}

func (u *udpTransport) Close() error { return u.conn.Close() }
