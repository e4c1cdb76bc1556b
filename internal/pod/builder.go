// internal/pod/builder.go
package pod

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/tamzrod/rfid-pod/internal/bus"
	"github.com/tamzrod/rfid-pod/internal/config"
	"github.com/tamzrod/rfid-pod/internal/deck"
	"github.com/tamzrod/rfid-pod/internal/indicator"
	"github.com/tamzrod/rfid-pod/internal/metrics"
	"github.com/tamzrod/rfid-pod/internal/netjoin"
	"github.com/tamzrod/rfid-pod/internal/sensor"
	smodbus "github.com/tamzrod/rfid-pod/internal/sensor/modbus"
	"github.com/tamzrod/rfid-pod/internal/tagdir"
	"github.com/tamzrod/rfid-pod/internal/telemetry"
)

// Build wires a controller from validated, normalized configuration.
// The tag directory is loaded here, once. Sensors and the link are
// (re)created per Run.
// The returned closer releases shared bus connections.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger, m *metrics.Collector) (*Controller, func() error, error) {
	if log == nil {
		log = zap.NewNop()
	}

	rfidTimeout := time.Duration(cfg.RFID.TimeoutMs) * time.Millisecond
	pool := bus.NewPool(rfidTimeout)

	// ---- indicator ----
	leds := buildIndicator(cfg.Indicator, pool, log)

	// ---- tag directory ----
	dir, err := LoadDirectory(ctx, cfg.Tags)
	if err != nil {
		_ = pool.Close()
		return nil, nil, err
	}
	log.Info("tag directory loaded", zap.String("source", cfg.Tags.Source), zap.Int("tags", dir.Len()))

	// ---- reboot ----
	rebooter := NewRebooter(cfg.Pod.OnReboot, leds, log)

	// ---- telemetry ----
	link, err := buildLink(cfg, log, m)
	if err != nil {
		_ = pool.Close()
		return nil, nil, err
	}

	// ---- touch ----
	var touch Touch = NoTouch{}
	if cfg.Touch.Enabled {
		ep, err := pool.Get(cfg.Touch.Endpoint)
		if err != nil {
			log.Warn("touch input unavailable", zap.String("endpoint", cfg.Touch.Endpoint), zap.Error(err))
		} else {
			touch = NewModbusTouch(ep, cfg.Touch.UnitID, cfg.Touch.Address)
		}
	}

	// ---- deck ----
	newDeck := func() (Deck, error) {
		specs := make([]deck.Spec, 0, len(cfg.Sensors))
		ep, epErr := pool.Get(cfg.RFID.Endpoint)
		if epErr != nil {
			log.Error("rfid gateway unavailable", zap.String("endpoint", cfg.RFID.Endpoint), zap.Error(epErr))
		}

		for i, s := range cfg.Sensors {
			var r sensor.Reader
			if epErr != nil {
				r = sensor.Unavailable(epErr)
			} else {
				r = smodbus.NewReader(ep, s.UnitID)
			}
			specs = append(specs, deck.Spec{ID: sensor.ID(i), Name: s.Name, Reader: r, Timeout: rfidTimeout})
		}

		d, err := deck.New(specs, deck.Deps{
			Indicator: leds,
			Notifier:  link,
			Rebooter:  rebooter,
			Recorder:  m,
			Log:       log,
		})
		if err != nil {
			return nil, err
		}
		return d, nil
	}

	ctrl := NewController(
		Config{
			Strategy:   cfg.Deck.Strategy,
			StatusSlot: statusSlot(cfg),
		},
		Deps{
			Link:      link,
			NewDeck:   newDeck,
			Directory: dir,
			Indicator: leds,
			Touch:     touch,
			Recorder:  m,
			Log:       log,
		},
	)

	return ctrl, pool.Close, nil
}

// LoadDirectory reads the tag table from the configured source.
func LoadDirectory(ctx context.Context, tc config.TagsConfig) (*tagdir.Directory, error) {
	switch tc.Source {
	case "file":
		return tagdir.LoadFile(tc.File)
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     tc.Redis.Addr,
			Password: tc.Redis.Password,
			DB:       tc.Redis.DB,
		})
		defer client.Close()
		return tagdir.LoadRedis(ctx, client, tc.Redis.Key)
	default:
		return nil, fmt.Errorf("pod: unknown tag source %q", tc.Source)
	}
}

func buildIndicator(ic config.IndicatorConfig, pool *bus.Pool, log *zap.Logger) indicator.Sink {
	if ic.Endpoint == "" {
		return indicator.NewMemory(ic.Slots, log)
	}
	ep, err := pool.Get(ic.Endpoint)
	if err != nil {
		// the strip is cosmetic; keep running without it
		log.Warn("indicator unavailable", zap.String("endpoint", ic.Endpoint), zap.Error(err))
		return indicator.NewMemory(ic.Slots, log)
	}
	return indicator.NewModbusSink(ep, indicator.ModbusConfig{
		UnitID:      ic.UnitID,
		BaseAddress: ic.BaseAddress,
		Slots:       ic.Slots,
		Brightness:  ic.Brightness,
	}, log)
}

func buildLink(cfg *config.Config, log *zap.Logger, m *metrics.Collector) (*telemetry.Link, error) {
	var (
		opener telemetry.Opener
		probe  string
	)

	switch cfg.Server.Transport {
	case "udp":
		opener = telemetry.UDPOpener{Address: cfg.Server.Address}
		probe = cfg.Server.Address
	case "mqtt":
		mc := cfg.Server.MQTT
		opener = telemetry.MQTTOpener{Config: telemetry.MQTTConfig{
			Broker:   mc.Broker,
			ClientID: mc.ClientID,
			Topic:    telemetry.Topic(mc.TopicPrefix, cfg.Pod.ID),
			Username: mc.Username,
			Password: mc.Password,
			Timeout:  time.Duration(mc.TimeoutMs) * time.Millisecond,
		}}
		host, err := brokerHost(mc.Broker)
		if err != nil {
			return nil, err
		}
		probe = host
	default:
		return nil, fmt.Errorf("pod: unknown transport %q", cfg.Server.Transport)
	}

	return telemetry.NewLink(
		telemetry.Config{
			PodID:     cfg.Pod.ID,
			MsgDelay:  time.Duration(cfg.Pod.MsgDelayMs) * time.Millisecond,
			InfoLevel: uint8(cfg.Pod.InfoLevel),
			SSID:      cfg.WiFi.SSID,
			Password:  cfg.WiFi.Password,
		},
		telemetry.Deps{
			Joiner:   netjoin.HostJoiner{Probe: probe},
			Opener:   opener,
			Recorder: m,
			Log:      log,
		},
	), nil
}

// brokerHost turns "tcp://host:port" into "host:port" for route probing.
func brokerHost(broker string) (string, error) {
	u, err := url.Parse(broker)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("pod: bad mqtt broker %q", broker)
	}
	if _, _, err := net.SplitHostPort(u.Host); err != nil {
		return net.JoinHostPort(u.Host, "1883"), nil
	}
	return u.Host, nil
}

// statusSlot picks the slot for touch and send state. A disabled touch
// input still gets the slot when it does not collide with a sensor.
func statusSlot(cfg *config.Config) int {
	s := cfg.Touch.Slot
	if s < len(cfg.Sensors) || s >= cfg.Indicator.Slots {
		return -1
	}
	return s
}
