// internal/netjoin/netjoin_test.go
package netjoin

import (
	"context"
	"errors"
	"testing"
)

func TestHostJoiner_RequiresSSID(t *testing.T) {
	_, err := HostJoiner{Probe: "127.0.0.1:9"}.Join(context.Background(), "", "secret")
	if !errors.Is(err, ErrNoSSID) {
		t.Fatalf("expected ErrNoSSID, got %v", err)
	}
}

func TestHostJoiner_LoopbackRoute(t *testing.T) {
	ip, err := HostJoiner{Probe: "127.0.0.1:9"}.Join(context.Background(), "chapel", "")
	if err != nil {
		t.Fatalf("Join err=%v", err)
	}
	if !ip.IsLoopback() {
		t.Fatalf("expected loopback source address, got %v", ip)
	}
}

func TestHostJoiner_BadProbe(t *testing.T) {
	_, err := HostJoiner{Probe: "not-an-address"}.Join(context.Background(), "chapel", "")
	if err == nil {
		t.Fatalf("expected error for malformed probe")
	}
}
