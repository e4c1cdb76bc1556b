// internal/sensor/sensor.go
package sensor

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/rfid-pod/internal/indicator"
	"github.com/tamzrod/rfid-pod/internal/tagdir"
)

// INFO levels for sensor diagnostics. Higher is more important.
const (
	LevelInitFailed uint8 = 95
	LevelReadError  uint8 = 90
	LevelFirmware   uint8 = 60
	LevelTagRead    uint8 = 50
	LevelPostReset  uint8 = 42
)

// Deps are the capabilities a sensor is handed by its owner.
type Deps struct {
	Indicator indicator.Sink
	Notifier  Notifier
	Rebooter  Rebooter
	Recorder  Recorder // optional
	Log       *zap.Logger
}

// Sensor owns one reader and its indicator slot.
type Sensor struct {
	id      ID
	reader  Reader
	timeout time.Duration
	deps    Deps
	log     *zap.Logger

	health Health
	coord  *tagdir.Coordinate
}

// New creates an uninitialized sensor. Call Initialize before reading.
func New(id ID, r Reader, timeout time.Duration, deps Deps) *Sensor {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Sensor{
		id:      id,
		reader:  r,
		timeout: timeout,
		deps:    deps,
		log:     log.With(zap.Int("sensor", int(id))),
		health:  Active,
	}
}

func (s *Sensor) ID() ID         { return s.id }
func (s *Sensor) Health() Health { return s.health }

// Coordinate returns the coordinate from the most recent read, if any.
func (s *Sensor) Coordinate() (tagdir.Coordinate, bool) {
	if s.coord == nil {
		return tagdir.Coordinate{}, false
	}
	return *s.coord, true
}

// Initialize brings the reader up once. A failure disables the sensor for
// the life of the process.
func (s *Sensor) Initialize() error {
	s.setColor(indicator.Init)

	if s.reader == nil {
		return s.disable(errors.New("no reader"))
	}

	fw, err := s.reader.Init()
	if err != nil {
		return s.disable(err)
	}

	s.info(LevelFirmware, fmt.Sprintf("Sensor %d firmware_version %s", s.id, fw))
	s.log.Info("sensor initialized", zap.String("firmware", fw))

	if err := s.reader.Configure(); err != nil {
		return s.disable(err)
	}

	s.powerDown()
	s.setColor(indicator.Idle)
	s.health = Active
	return nil
}

func (s *Sensor) disable(cause error) error {
	s.health = Disabled
	s.log.Error("sensor not initializing", zap.Error(cause))
	s.info(LevelInitFailed, fmt.Sprintf("Sensor %d not initializing", s.id))
	s.setColor(indicator.Disabled)
	return fmt.Errorf("sensor %d: init: %w", s.id, cause)
}

// ReadOnce performs exactly one detection and resolves the tag.
// Errors never escape: a failed detection faults the sensor for this cycle.
func (s *Sensor) ReadOnce(dir Directory) Outcome {
	if s.health == Disabled {
		return Outcome{Kind: NoTag}
	}

	out := s.read(dir)
	if s.deps.Recorder != nil {
		s.deps.Recorder.ObserveRead(int(s.id), out.Label())
	}
	return out
}

func (s *Sensor) read(dir Directory) Outcome {
	// Faulted clears on the next attempt.
	s.health = Active
	s.setColor(indicator.Reading)
	s.coord = nil

	if err := s.reader.Reset(); err != nil {
		return s.fault(err)
	}

	uid, err := s.reader.ReadPassiveTarget(s.timeout)
	if err != nil {
		return s.fault(err)
	}

	s.powerDown()
	s.setColor(indicator.Idle)

	if len(uid) == 0 {
		return Outcome{Kind: NoTag}
	}

	hexID := tagdir.HexID(uid)
	rec, ok := dir.Lookup(hexID)

	tagData := "None"
	if ok {
		tagData = rec.String()
	}
	s.info(LevelTagRead, fmt.Sprintf("Sensor %d tag_id %s tag_data %s", s.id, hexID, tagData))

	if !ok {
		// bad read or a foreign tag
		s.log.Debug("unrecognized tag", zap.String("tag_id", hexID))
		s.setColor(indicator.Unrecognized)
		return Outcome{Kind: Unrecognized, HexID: hexID}
	}

	if rec.Kind == tagdir.KindCommand {
		out := Outcome{Kind: Command, HexID: hexID, Command: rec.Command}
		if rec.IsReboot() {
			s.log.Warn("reboot tag read", zap.String("tag_id", hexID))
			out.Reboot = true
			if s.deps.Rebooter != nil {
				s.deps.Rebooter.Reboot(ReasonCommandTag)
			}
		}
		// other commands are reserved
		return out
	}

	c := rec.Coord
	s.coord = &c
	s.setColor(indicator.Matched)
	return Outcome{Kind: Tag, HexID: hexID, Coord: c}
}

func (s *Sensor) fault(cause error) Outcome {
	s.setColor(indicator.Fault)
	s.log.Warn("sensor read failed", zap.Error(cause))
	s.info(LevelReadError, fmt.Sprintf("Sensor %d error", s.id))
	s.resetPostError()
	s.health = Faulted
	return Outcome{Kind: NoTag, Err: cause}
}

// ---- reader passthroughs ----

// Reset issues a reader reset; failures are logged.
func (s *Sensor) Reset() error {
	if err := s.reader.Reset(); err != nil {
		s.log.Debug("reset failed", zap.Error(err))
		return err
	}
	return nil
}

// PowerDown idles the reader; failures are logged.
func (s *Sensor) PowerDown() error {
	if err := s.reader.PowerDown(); err != nil {
		s.log.Debug("power down failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *Sensor) resetPostError() {
	s.info(LevelPostReset, "reset_post_error")
	_ = s.Reset()
}

func (s *Sensor) powerDown() { _ = s.PowerDown() }

func (s *Sensor) setColor(c indicator.Color) {
	if s.deps.Indicator != nil {
		s.deps.Indicator.SetSlot(int(s.id), c)
	}
}

func (s *Sensor) info(level uint8, text string) {
	if s.deps.Notifier == nil {
		return
	}
	if err := s.deps.Notifier.SendInfo(level, text); err != nil {
		s.log.Debug("info send failed", zap.Error(err))
	}
}
