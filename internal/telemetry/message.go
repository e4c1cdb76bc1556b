// internal/telemetry/message.go
package telemetry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ------------------------------------------------------------
// Wire format (LOCKED)
//
//   "<TYPE> <pod_id> <seq> <payload>"
//
// one message per datagram, plain ASCII
// ------------------------------------------------------------

// ProtocolVersion is the version of the message protocol spoken here.
const ProtocolVersion = "0.1.0.3"

type MessageType string

const (
	TypeBoot MessageType = "BOOT"
	TypeData MessageType = "DATA"
	TypeInfo MessageType = "INFO"
)

func (t MessageType) valid() bool {
	switch t {
	case TypeBoot, TypeData, TypeInfo:
		return true
	}
	return false
}

type Message struct {
	Type    MessageType
	PodID   int
	Seq     uint32
	Payload string
}

func (m Message) String() string {
	return fmt.Sprintf("%s %d %d %s", m.Type, m.PodID, m.Seq, m.Payload)
}

func (m Message) Encode() []byte { return []byte(m.String()) }

var ErrMalformed = errors.New("telemetry: malformed message")

// ParseMessage decodes one framed message. The payload is everything after
// the third space and may itself contain spaces.
func ParseMessage(s string) (Message, error) {
	parts := strings.SplitN(s, " ", 4)
	if len(parts) < 4 {
		return Message{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}

	t := MessageType(parts[0])
	if !t.valid() {
		return Message{}, fmt.Errorf("%w: unknown type %q", ErrMalformed, parts[0])
	}

	pod, err := strconv.Atoi(parts[1])
	if err != nil {
		return Message{}, fmt.Errorf("%w: pod id %q", ErrMalformed, parts[1])
	}

	seq, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return Message{}, fmt.Errorf("%w: seq %q", ErrMalformed, parts[2])
	}

	return Message{Type: t, PodID: pod, Seq: uint32(seq), Payload: parts[3]}, nil
}

// ---- payloads ----

func BootPayload(protocol, firmware string) string {
	return protocol + " " + firmware
}

func DataPayload(x, y float64, touch bool, count uint32) string {
	t := 0
	if touch {
		t = 1
	}
	return fmt.Sprintf("%.3f %.3f %d %d", x, y, t, count)
}
