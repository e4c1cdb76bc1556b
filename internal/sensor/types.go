// internal/sensor/types.go
package sensor

import (
	"time"

	"github.com/tamzrod/rfid-pod/internal/tagdir"
)

// ID is a sensor's stable index on the deck.
type ID int

// Health is the sensor lifecycle state.
type Health int

const (
	// Active sensors are initialized and scanned every cycle.
	Active Health = iota
	// Disabled sensors failed construction and are never scanned.
	Disabled
	// Faulted sensors failed their last read; they are retried next cycle.
	Faulted
)

func (h Health) String() string {
	switch h {
	case Active:
		return "active"
	case Disabled:
		return "disabled"
	case Faulted:
		return "faulted"
	default:
		return "unknown"
	}
}

type OutcomeKind int

const (
	NoTag OutcomeKind = iota
	Tag
	Command
	Unrecognized
)

// Outcome is the result of one ReadOnce.
type Outcome struct {
	Kind    OutcomeKind
	HexID   string
	Coord   tagdir.Coordinate // Kind == Tag
	Command string            // Kind == Command
	Reboot  bool              // a reboot command was acted on
	Err     error             // detection failure; Kind is NoTag
}

// Label is the metrics label for the outcome.
func (o Outcome) Label() string {
	if o.Err != nil {
		return "fault"
	}
	switch o.Kind {
	case Tag:
		return "tag"
	case Command:
		return "command"
	case Unrecognized:
		return "unrecognized"
	default:
		return "no_tag"
	}
}

// ---- collaborators ----

// Reader is one physical RFID reader behind an opaque bus handle.
type Reader interface {
	// Init brings the reader up and returns its firmware version.
	Init() (string, error)
	Configure() error
	// ReadPassiveTarget waits up to timeout for a tag. A nil UID with a nil
	// error means no tag was present.
	ReadPassiveTarget(timeout time.Duration) ([]byte, error)
	PowerDown() error
	Reset() error
}

// Directory resolves tag ids.
type Directory interface {
	Lookup(hexID string) (tagdir.Record, bool)
}

// Notifier carries diagnostic INFO messages to the collector.
type Notifier interface {
	SendInfo(level uint8, text string) error
}

// RebootReason is passed to the reboot collaborator.
type RebootReason int

const (
	ReasonCommandTag RebootReason = 1
	ReasonNoSensors  RebootReason = 10
)

// Rebooter restarts the pod. Implementations may not return.
type Rebooter interface {
	Reboot(reason RebootReason)
}

// Recorder receives per-read metrics.
type Recorder interface {
	ObserveRead(id int, outcome string)
}
