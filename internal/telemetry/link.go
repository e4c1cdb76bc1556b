// internal/telemetry/link.go
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/rfid-pod/internal/netjoin"
)

var ErrNotConnected = errors.New("telemetry: not connected")

// Transport carries one encoded message per Send. Delivery is best-effort.
type Transport interface {
	Send(b []byte) error
	Close() error
}

// Opener creates the single transport a link reuses for its lifetime.
type Opener interface {
	Open(ctx context.Context) (Transport, error)
}

// Recorder receives per-message metrics.
type Recorder interface {
	ObserveSend(msgType string, err error)
}

type Config struct {
	PodID     int
	MsgDelay  time.Duration
	InfoLevel uint8

	SSID     string
	Password string
}

type Deps struct {
	Joiner   netjoin.Joiner
	Opener   Opener
	Recorder Recorder              // optional
	Sleep    func(d time.Duration) // optional, defaults to time.Sleep
	Log      *zap.Logger
}

// Link owns the outbound transport and the sequence counter.
// It is not safe for concurrent use.
type Link struct {
	cfg  Config
	deps Deps
	log  *zap.Logger

	tr  Transport
	ip  net.IP
	seq uint32
}

func NewLink(cfg Config, deps Deps) *Link {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	if deps.Sleep == nil {
		deps.Sleep = time.Sleep
	}
	return &Link{
		cfg:  cfg,
		deps: deps,
		log:  log.With(zap.Int("pod_id", cfg.PodID)),
	}
}

// Connect joins the network and opens the transport. There is no retry.
func (l *Link) Connect(ctx context.Context) error {
	if l.deps.Joiner == nil || l.deps.Opener == nil {
		return errors.New("telemetry: joiner and opener are required")
	}

	l.log.Info("joining network", zap.String("ssid", l.cfg.SSID))
	ip, err := l.deps.Joiner.Join(ctx, l.cfg.SSID, l.cfg.Password)
	if err != nil {
		return fmt.Errorf("telemetry: join: %w", err)
	}

	tr, err := l.deps.Opener.Open(ctx)
	if err != nil {
		return fmt.Errorf("telemetry: open transport: %w", err)
	}

	l.ip = ip
	l.tr = tr
	l.log.Info("link connected", zap.Stringer("ip", ip))
	return nil
}

// IP is the address obtained by Connect.
func (l *Link) IP() net.IP { return l.ip }

// Seq is the sequence number the next message will carry.
func (l *Link) Seq() uint32 { return l.seq }

// SendBoot restarts the sequence at zero and announces the versions.
func (l *Link) SendBoot(protocol, firmware string) error {
	l.seq = 0
	return l.send(TypeBoot, BootPayload(protocol, firmware))
}

func (l *Link) SendData(x, y float64, touch bool, count uint32) error {
	return l.send(TypeData, DataPayload(x, y, touch, count))
}

// SendInfo sends text only when level is at or above the configured
// threshold. Suppressed messages do not consume a sequence number.
func (l *Link) SendInfo(level uint8, text string) error {
	if level < l.cfg.InfoLevel {
		return nil
	}
	return l.send(TypeInfo, text)
}

func (l *Link) send(t MessageType, payload string) error {
	if l.tr == nil {
		return ErrNotConnected
	}

	msg := Message{Type: t, PodID: l.cfg.PodID, Seq: l.seq, Payload: payload}
	err := l.tr.Send(msg.Encode())

	// the attempt consumes the number whether or not it was delivered
	l.seq++

	if l.deps.Recorder != nil {
		l.deps.Recorder.ObserveSend(string(t), err)
	}
	if err != nil {
		l.log.Warn("send failed", zap.String("type", string(t)), zap.Uint32("seq", msg.Seq), zap.Error(err))
	} else {
		l.log.Debug("sent", zap.Stringer("msg", msg))
	}

	l.deps.Sleep(l.cfg.MsgDelay)

	if err != nil {
		return fmt.Errorf("telemetry: send %s seq %d: %w", t, msg.Seq, err)
	}
	return nil
}

// Close releases the transport. The link may be connected again.
func (l *Link) Close() error {
	if l.tr == nil {
		return nil
	}
	err := l.tr.Close()
	l.tr = nil
	return err
}
