// internal/pod/controller.go
package pod

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/rfid-pod/internal/deck"
	"github.com/tamzrod/rfid-pod/internal/indicator"
	"github.com/tamzrod/rfid-pod/internal/sensor"
	"github.com/tamzrod/rfid-pod/internal/telemetry"
)

// FirmwareVersion is announced in the BOOT message.
const FirmwareVersion = "0.6.2.2"

type State int

const (
	Booting State = iota
	Connecting
	Ready
	Scanning
	Stopped
)

func (s State) String() string {
	switch s {
	case Booting:
		return "booting"
	case Connecting:
		return "connecting"
	case Ready:
		return "ready"
	case Scanning:
		return "scanning"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ---- collaborators ----

type Link interface {
	Connect(ctx context.Context) error
	SendBoot(protocol, firmware string) error
	SendData(x, y float64, touch bool, count uint32) error
	SendInfo(level uint8, text string) error
	Close() error
}

type Deck interface {
	ScanCycle(dir sensor.Directory) error
	ScanOne(dir sensor.Directory) error
	FusedPosition() deck.FusedPosition
}

// DeckFactory builds the deck once the link is up, so sensor diagnostics
// have somewhere to go.
type DeckFactory func() (Deck, error)

type Recorder interface {
	ObserveScan(d time.Duration)
}

type Config struct {
	Strategy   string // cycle | single
	StatusSlot int    // indicator slot for touch and send state; < 0 disables
}

type Deps struct {
	Link      Link
	NewDeck   DeckFactory
	Directory sensor.Directory
	Indicator indicator.Sink
	Touch     Touch    // optional
	Recorder  Recorder // optional
	Log       *zap.Logger
}

// Controller runs one boot session: connect, announce, build the deck and
// scan until a reboot is requested, ctx ends or a fatal error occurs.
type Controller struct {
	cfg  Config
	deps Deps
	log  *zap.Logger

	state State
}

func NewController(cfg Config, deps Deps) *Controller {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	if deps.Touch == nil {
		deps.Touch = NoTouch{}
	}
	return &Controller{cfg: cfg, deps: deps, log: log}
}

func (c *Controller) State() State { return c.state }

// Run never returns nil. The indicator is cleared on every exit path.
func (c *Controller) Run(ctx context.Context) error {
	leds := c.deps.Indicator
	defer func() {
		c.setState(Stopped)
		leds.Fill(indicator.Off)
	}()

	c.setState(Booting)
	leds.Fill(indicator.Booting)

	c.setState(Connecting)
	if err := c.deps.Link.Connect(ctx); err != nil {
		return fmt.Errorf("pod: connect: %w", err)
	}
	defer func() {
		if err := c.deps.Link.Close(); err != nil {
			c.log.Debug("link close failed", zap.Error(err))
		}
	}()

	leds.Fill(indicator.Connected)
	if err := c.deps.Link.SendBoot(telemetry.ProtocolVersion, FirmwareVersion); err != nil {
		c.log.Warn("boot message failed", zap.Error(err))
	}

	c.setState(Ready)
	leds.Fill(indicator.Off)

	d, err := c.deps.NewDeck()
	if err != nil {
		return fmt.Errorf("pod: deck: %w", err)
	}

	c.setState(Scanning)
	scan := d.ScanCycle
	if c.cfg.Strategy == "single" {
		scan = d.ScanOne
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		if err := scan(c.deps.Directory); err != nil {
			return err
		}
		if c.deps.Recorder != nil {
			c.deps.Recorder.ObserveScan(time.Since(start))
		}

		touched := c.readTouch()
		c.setStatus(touched)

		pos := d.FusedPosition()
		if err := c.deps.Link.SendData(pos.X, pos.Y, touched, pos.Count); err != nil {
			// the loop keeps going; the slot shows it
			c.log.Warn("data send failed", zap.Error(err))
			if c.cfg.StatusSlot >= 0 {
				leds.SetSlot(c.cfg.StatusSlot, indicator.Fault)
			}
		}
	}
}

func (c *Controller) readTouch() bool {
	v, err := c.deps.Touch.Touched()
	if err != nil {
		c.log.Debug("touch read failed", zap.Error(err))
		return false
	}
	return v
}

func (c *Controller) setStatus(touched bool) {
	if c.cfg.StatusSlot < 0 {
		return
	}
	col := indicator.Off
	if touched {
		col = indicator.Touched
	}
	c.deps.Indicator.SetSlot(c.cfg.StatusSlot, col)
}

func (c *Controller) setState(s State) {
	c.state = s
	c.log.Info("pod state", zap.Stringer("state", s))
}

// IsReboot reports whether err ends a session through the reboot path.
func IsReboot(err error) bool {
	return errors.Is(err, deck.ErrRebootRequested) || errors.Is(err, deck.ErrNoActiveSensors)
}
