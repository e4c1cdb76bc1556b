// internal/pod/reboot.go
package pod

import (
	"os"

	"go.uber.org/zap"

	"github.com/tamzrod/rfid-pod/internal/indicator"
	"github.com/tamzrod/rfid-pod/internal/sensor"
)

const (
	// ActionExit terminates the process with the reason as exit code and
	// leaves the restart to the supervisor.
	ActionExit = "exit"
	// ActionRestart returns to the caller; the session unwinds with a
	// reboot error and cmd/pod boots a new one.
	ActionRestart = "restart"
)

// Rebooter is the terminal action for reboot tags and an empty deck.
type Rebooter struct {
	action string
	leds   indicator.Sink
	log    *zap.Logger
	exit   func(code int)

	last sensor.RebootReason
}

func NewRebooter(action string, leds indicator.Sink, log *zap.Logger) *Rebooter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Rebooter{action: action, leds: leds, log: log, exit: os.Exit}
}

func (r *Rebooter) Reboot(reason sensor.RebootReason) {
	r.last = reason
	r.log.Warn("reboot", zap.Int("reason", int(reason)), zap.String("action", r.action))

	if r.action != ActionExit {
		return
	}

	// deferred cleanup does not run past os.Exit
	if r.leds != nil {
		r.leds.Fill(indicator.Off)
	}
	_ = r.log.Sync()
	r.exit(int(reason))
}

// LastReason is the most recent reason passed to Reboot, zero if none.
func (r *Rebooter) LastReason() sensor.RebootReason { return r.last }
