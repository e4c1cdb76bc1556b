// internal/deck/deck.go
package deck

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/rfid-pod/internal/indicator"
	"github.com/tamzrod/rfid-pod/internal/sensor"
)

// LevelSummary is the INFO level of the enabled-sensor summary.
const LevelSummary uint8 = 99

var (
	ErrNoActiveSensors = errors.New("deck: no active sensors")
	ErrRebootRequested = errors.New("deck: reboot requested")
)

// Spec describes one configured sensor slot.
type Spec struct {
	ID      sensor.ID
	Name    string
	Reader  sensor.Reader
	Timeout time.Duration
}

// Recorder receives deck level metrics in addition to per-read outcomes.
type Recorder interface {
	sensor.Recorder
	SetActiveSensors(n int)
	SetFusedCount(n int)
}

type Deps struct {
	Indicator indicator.Sink
	Notifier  sensor.Notifier
	Rebooter  sensor.Rebooter
	Recorder  Recorder // optional
	Log       *zap.Logger
}

// FusedPosition is the deck's aggregate estimate. Count is the number of
// sensors that contributed; zero means X and Y are carried over.
type FusedPosition struct {
	Count uint32
	X     float64
	Y     float64
}

// Deck owns the sensors of one pod.
type Deck struct {
	all    []*sensor.Sensor
	active []*sensor.Sensor
	next   int
	prev   FusedPosition

	rec Recorder
	log *zap.Logger
}

// New initializes every configured sensor in order and keeps the ones that
// came up. With no active sensors the rebooter is invoked once and
// ErrNoActiveSensors is returned if it comes back.
//
// Sensor diagnostics raised during construction are held back and only
// released once the deck is known to be usable.
func New(specs []Spec, deps Deps) (*Deck, error) {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	g := &gate{next: deps.Notifier}

	sdeps := sensor.Deps{
		Indicator: deps.Indicator,
		Notifier:  g,
		Rebooter:  deps.Rebooter,
		Log:       log,
	}
	if deps.Recorder != nil {
		sdeps.Recorder = deps.Recorder
	}

	d := &Deck{rec: deps.Recorder, log: log}

	for _, sp := range specs {
		sl := log
		if sp.Name != "" {
			sl = log.With(zap.String("sensor_name", sp.Name))
		}
		sd := sdeps
		sd.Log = sl

		s := sensor.New(sp.ID, sp.Reader, sp.Timeout, sd)
		d.all = append(d.all, s)

		if err := s.Initialize(); err != nil {
			sl.Warn("sensor disabled", zap.Int("sensor", int(sp.ID)), zap.Error(err))
			continue
		}
		d.active = append(d.active, s)
	}

	if d.rec != nil {
		d.rec.SetActiveSensors(len(d.active))
	}

	if len(d.active) == 0 {
		g.discard()
		log.Error("no enabled sensors", zap.Int("configured", len(specs)))
		if deps.Rebooter != nil {
			deps.Rebooter.Reboot(sensor.ReasonNoSensors)
		}
		return nil, ErrNoActiveSensors
	}

	g.release()
	if deps.Notifier != nil {
		_ = deps.Notifier.SendInfo(LevelSummary, fmt.Sprintf("SensorDeck has %d enabled sensors", len(d.active)))
	}
	log.Info("sensor deck ready", zap.Int("active", len(d.active)), zap.Int("configured", len(specs)))

	return d, nil
}

// Len is the number of configured sensors, disabled ones included.
func (d *Deck) Len() int { return len(d.all) }

// Active returns the active sensors in scan order.
func (d *Deck) Active() []*sensor.Sensor {
	out := make([]*sensor.Sensor, len(d.active))
	copy(out, d.active)
	return out
}

// ScanCycle reads every active sensor once in construction order. A reboot
// tag stops the cycle.
func (d *Deck) ScanCycle(dir sensor.Directory) error {
	for _, s := range d.active {
		if err := d.readOne(s, dir); err != nil {
			return err
		}
	}
	return nil
}

// ScanOne reads a single active sensor, advancing round-robin across calls.
func (d *Deck) ScanOne(dir sensor.Directory) error {
	s := d.active[d.next]
	d.next = (d.next + 1) % len(d.active)
	return d.readOne(s, dir)
}

func (d *Deck) readOne(s *sensor.Sensor, dir sensor.Directory) error {
	out := s.ReadOnce(dir)
	if out.Reboot {
		return fmt.Errorf("deck: sensor %d tag %s: %w", s.ID(), out.HexID, ErrRebootRequested)
	}
	return nil
}

// FusedPosition averages the current coordinate of every active sensor
// that has one. With no contributors the previous average is returned with
// Count zero.
func (d *Deck) FusedPosition() FusedPosition {
	var (
		n    uint32
		x, y float64
	)
	for _, s := range d.active {
		c, ok := s.Coordinate()
		if !ok {
			continue
		}
		n++
		x += c.X
		y += c.Y
	}

	if d.rec != nil {
		d.rec.SetFusedCount(int(n))
	}

	if n == 0 {
		return FusedPosition{X: d.prev.X, Y: d.prev.Y}
	}

	d.prev = FusedPosition{Count: n, X: x / float64(n), Y: y / float64(n)}
	return d.prev
}

// ------------------------------------------------------------
// gate holds INFO messages until the deck is known to be usable
// ------------------------------------------------------------

type heldInfo struct {
	level uint8
	text  string
}

type gate struct {
	next sensor.Notifier
	open bool
	held []heldInfo
}

func (g *gate) SendInfo(level uint8, text string) error {
	if g.next == nil {
		return nil
	}
	if g.open {
		return g.next.SendInfo(level, text)
	}
	g.held = append(g.held, heldInfo{level: level, text: text})
	return nil
}

func (g *gate) release() {
	g.open = true
	for _, h := range g.held {
		_ = g.next.SendInfo(h.level, h.text)
	}
	g.held = nil
}

func (g *gate) discard() { g.held = nil }
