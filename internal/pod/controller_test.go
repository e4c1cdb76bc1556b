// internal/pod/controller_test.go
package pod

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/rfid-pod/internal/deck"
	"github.com/tamzrod/rfid-pod/internal/indicator"
	"github.com/tamzrod/rfid-pod/internal/sensor"
	"github.com/tamzrod/rfid-pod/internal/tagdir"
	"github.com/tamzrod/rfid-pod/internal/telemetry"
)

// ---- fakes ----

type step struct {
	uid []byte
	err error
}

type scriptedReader struct {
	initErr error
	steps   []step
	reads   int
}

func (r *scriptedReader) Init() (string, error) { return "1.6.0.0", r.initErr }
func (r *scriptedReader) Configure() error      { return nil }
func (r *scriptedReader) PowerDown() error      { return nil }
func (r *scriptedReader) Reset() error          { return nil }

func (r *scriptedReader) ReadPassiveTarget(time.Duration) ([]byte, error) {
	i := r.reads
	r.reads++
	if i >= len(r.steps) {
		return nil, nil
	}
	return r.steps[i].uid, r.steps[i].err
}

// wire records every datagram and lets a test stop the loop.
type wire struct {
	sent   []string
	failOn map[int]bool
	onSend func(n int, msg string)
	closed bool
}

func (w *wire) Send(b []byte) error {
	n := len(w.sent)
	msg := string(b)
	w.sent = append(w.sent, msg)
	if w.onSend != nil {
		w.onSend(n, msg)
	}
	if w.failOn[n] {
		return errors.New("radio busy")
	}
	return nil
}

func (w *wire) Close() error { w.closed = true; return nil }

type wireOpener struct{ w *wire }

func (o wireOpener) Open(context.Context) (telemetry.Transport, error) { return o.w, nil }

type joiner struct{ err error }

func (j joiner) Join(context.Context, string, string) (net.IP, error) {
	if j.err != nil {
		return nil, j.err
	}
	return net.IPv4(192, 168, 4, 20), nil
}

type fixedTouch struct{ v bool }

func (t fixedTouch) Touched() (bool, error) { return t.v, nil }

// probeTouch runs fn each time the controller samples the input.
type probeTouch struct{ fn func() }

func (p probeTouch) Touched() (bool, error) {
	p.fn()
	return false, nil
}

var tags = tagdir.New(map[string]tagdir.Record{
	"04a1": tagdir.CoordinateRecord(1.0, 2.0),
	"04b2": tagdir.CoordinateRecord(3.0, 4.0),
	"04ff": tagdir.CommandRecord("!REBOOT! now"),
})

type rig struct {
	wire     *wire
	leds     *indicator.Memory
	rebooter *Rebooter
	exits    []int
	readers  []*scriptedReader
	ctrl     *Controller
	joinErr  error
	touch    Touch

	infoLevel uint8
}

func newRig(infoLevel uint8, readers ...*scriptedReader) *rig {
	r := &rig{wire: &wire{failOn: map[int]bool{}}, leds: indicator.NewMemory(5, nil), readers: readers}
	r.rebooter = NewRebooter(ActionRestart, r.leds, nil)
	r.rebooter.exit = func(code int) { r.exits = append(r.exits, code) }
	r.infoLevel = infoLevel
	return r
}

func (r *rig) build() *Controller {
	link := telemetry.NewLink(
		telemetry.Config{PodID: 1, InfoLevel: r.infoLevel, SSID: "chapel"},
		telemetry.Deps{
			Joiner: joiner{err: r.joinErr},
			Opener: wireOpener{w: r.wire},
			Sleep:  func(time.Duration) {},
		},
	)

	newDeck := func() (Deck, error) {
		specs := make([]deck.Spec, len(r.readers))
		for i, rd := range r.readers {
			specs[i] = deck.Spec{ID: sensor.ID(i), Reader: rd, Timeout: 10 * time.Millisecond}
		}
		d, err := deck.New(specs, deck.Deps{
			Indicator: r.leds,
			Notifier:  link,
			Rebooter:  r.rebooter,
		})
		if err != nil {
			return nil, err
		}
		return d, nil
	}

	r.ctrl = NewController(Config{Strategy: "cycle", StatusSlot: 4}, Deps{
		Link:      link,
		NewDeck:   newDeck,
		Directory: tags,
		Indicator: r.leds,
		Touch:     r.touch,
	})
	return r.ctrl
}

// stopAfter cancels the run once n DATA messages have been sent.
func (r *rig) stopAfter(n int, cancel context.CancelFunc) {
	seen := 0
	r.wire.onSend = func(_ int, msg string) {
		if strings.HasPrefix(msg, "DATA ") {
			seen++
			if seen == n {
				cancel()
			}
		}
	}
}

func (r *rig) data() []string {
	var out []string
	for _, m := range r.wire.sent {
		if strings.HasPrefix(m, "DATA ") {
			out = append(out, m)
		}
	}
	return out
}

func assertDark(t *testing.T, leds *indicator.Memory) {
	t.Helper()
	for i := 0; i < 5; i++ {
		assert.Equal(t, indicator.Off, leds.Slot(i), "slot %d not cleared", i)
	}
}

// ---- tests ----

// Four sensors, sensor 2 fails init; sensor 0 reads (1,2), sensor 1 nothing,
// sensor 3 an unknown tag. Next cycle sensor 0 times out and sensor 1 reads
// (3,4).
func TestRun_ScenarioDataMessages(t *testing.T) {
	r := newRig(100,
		&scriptedReader{steps: []step{{uid: []byte{0x04, 0xa1}}, {err: errors.New("timeout")}}},
		&scriptedReader{steps: []step{{}, {uid: []byte{0x04, 0xb2}}}},
		&scriptedReader{initErr: errors.New("no ack")},
		&scriptedReader{steps: []step{{uid: []byte{0xde, 0xad}}, {}}},
	)
	ctrl := r.build()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.stopAfter(2, cancel)

	err := ctrl.Run(ctx)

	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsReboot(err))
	assert.Equal(t, "BOOT 1 0 0.1.0.3 0.6.2.2", r.wire.sent[0])
	assert.Equal(t, []string{
		"DATA 1 1 1.000 2.000 0 1",
		"DATA 1 2 3.000 4.000 0 1",
	}, r.data())
	assert.Equal(t, Stopped, ctrl.State())
	assert.True(t, r.wire.closed)
	assertDark(t, r.leds)
}

func TestRun_InfoMessagesFollowThreshold(t *testing.T) {
	r := newRig(50, &scriptedReader{steps: []step{{uid: []byte{0x04, 0xa1}}}})
	ctrl := r.build()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.stopAfter(1, cancel)

	_ = ctrl.Run(ctx)

	assert.Equal(t, []string{
		"BOOT 1 0 0.1.0.3 0.6.2.2",
		"INFO 1 1 Sensor 0 firmware_version 1.6.0.0",
		"INFO 1 2 SensorDeck has 1 enabled sensors",
		"INFO 1 3 Sensor 0 tag_id 04a1 tag_data (1, 2)",
		"DATA 1 4 1.000 2.000 0 1",
	}, r.wire.sent)
}

func TestRun_RebootTagEndsSession(t *testing.T) {
	r := newRig(100,
		&scriptedReader{steps: []step{{uid: []byte{0x04, 0xff}}}},
		&scriptedReader{steps: []step{{uid: []byte{0x04, 0xa1}}}},
	)
	ctrl := r.build()

	err := ctrl.Run(context.Background())

	require.True(t, IsReboot(err), "got %v", err)
	assert.ErrorIs(t, err, deck.ErrRebootRequested)
	assert.Equal(t, sensor.ReasonCommandTag, r.rebooter.LastReason())
	assert.Empty(t, r.data())
	assert.Equal(t, 0, r.readers[1].reads)
	assertDark(t, r.leds)
}

func TestRun_NoSensorsRebootsWithoutInfoOrData(t *testing.T) {
	r := newRig(0,
		&scriptedReader{initErr: errors.New("a")},
		&scriptedReader{initErr: errors.New("b")},
	)
	ctrl := r.build()

	err := ctrl.Run(context.Background())

	require.ErrorIs(t, err, deck.ErrNoActiveSensors)
	assert.True(t, IsReboot(err))
	assert.Equal(t, sensor.ReasonNoSensors, r.rebooter.LastReason())
	// BOOT precedes the deck; nothing after it
	assert.Equal(t, []string{"BOOT 1 0 0.1.0.3 0.6.2.2"}, r.wire.sent)
	assertDark(t, r.leds)
}

func TestRun_ConnectFailureIsFatal(t *testing.T) {
	r := newRig(0, &scriptedReader{})
	r.joinErr = errors.New("association rejected")
	ctrl := r.build()

	err := ctrl.Run(context.Background())

	require.Error(t, err)
	assert.False(t, IsReboot(err))
	assert.Empty(t, r.wire.sent)
	assert.Equal(t, 0, r.readers[0].reads)
	assertDark(t, r.leds)
}

func TestRun_SendFailureKeepsScanning(t *testing.T) {
	r := newRig(100, &scriptedReader{})
	r.wire.failOn[1] = true // first DATA

	// slot 4 as seen at the start of each iteration's touch sample
	var seen []indicator.Color
	r.touch = probeTouch{fn: func() { seen = append(seen, r.leds.Slot(4)) }}
	ctrl := r.build()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.stopAfter(3, cancel)

	err := ctrl.Run(ctx)

	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, r.data(), 3)
	assert.Equal(t, "DATA 1 2 0.000 0.000 0 0", r.wire.sent[2])
	require.Len(t, seen, 3)
	assert.Equal(t, indicator.Fault, seen[1])
	assert.Equal(t, indicator.Off, seen[2])
}

func TestRun_TouchShownAndSent(t *testing.T) {
	r := newRig(100, &scriptedReader{})
	r.touch = fixedTouch{v: true}
	ctrl := r.build()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var slot indicator.Color
	r.wire.onSend = func(n int, _ string) {
		if n == 1 {
			slot = r.leds.Slot(4)
			cancel()
		}
	}

	_ = ctrl.Run(ctx)

	assert.Equal(t, "DATA 1 1 0.000 0.000 1 0", r.wire.sent[1])
	assert.Equal(t, indicator.Touched, slot)
}

func TestRebooter_ExitClearsIndicator(t *testing.T) {
	leds := indicator.NewMemory(3, nil)
	leds.Fill(indicator.Matched)

	var code int
	rb := NewRebooter(ActionExit, leds, nil)
	rb.exit = func(c int) { code = c }

	rb.Reboot(sensor.ReasonNoSensors)

	assert.Equal(t, 10, code)
	assert.Equal(t, indicator.Off, leds.Slot(0))
}

func TestRebooter_RestartReturns(t *testing.T) {
	called := false
	rb := NewRebooter(ActionRestart, nil, nil)
	rb.exit = func(int) { called = true }

	rb.Reboot(sensor.ReasonCommandTag)

	assert.False(t, called)
	assert.Equal(t, sensor.ReasonCommandTag, rb.LastReason())
}
