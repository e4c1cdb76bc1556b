// internal/config/validate.go
package config

import (
	"fmt"
	"net"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}

	// ------------------------------------------------------------
	// POD
	// ------------------------------------------------------------

	if cfg.Pod.ID <= 0 {
		return fmt.Errorf("pod.id must be > 0, got %d", cfg.Pod.ID)
	}
	if cfg.Pod.MsgDelayMs < 0 {
		return fmt.Errorf("pod.msg_delay_ms must be >= 0, got %d", cfg.Pod.MsgDelayMs)
	}
	if cfg.Pod.InfoLevel < 0 || cfg.Pod.InfoLevel > 255 {
		return fmt.Errorf("pod.info_level must be 0..255, got %d", cfg.Pod.InfoLevel)
	}
	switch cfg.Pod.OnReboot {
	case "exit", "restart":
	default:
		return fmt.Errorf("pod.on_reboot must be exit or restart, got %q", cfg.Pod.OnReboot)
	}

	// ------------------------------------------------------------
	// TELEMETRY
	// ------------------------------------------------------------

	switch cfg.Server.Transport {
	case "udp":
		if _, _, err := net.SplitHostPort(cfg.Server.Address); err != nil {
			return fmt.Errorf("server.address %q: %v", cfg.Server.Address, err)
		}
	case "mqtt":
		if cfg.Server.MQTT.Broker == "" {
			return fmt.Errorf("server.mqtt.broker is required for mqtt transport")
		}
		if cfg.Server.MQTT.TimeoutMs <= 0 {
			return fmt.Errorf("server.mqtt.timeout_ms must be > 0, got %d", cfg.Server.MQTT.TimeoutMs)
		}
	default:
		return fmt.Errorf("server.transport must be udp or mqtt, got %q", cfg.Server.Transport)
	}

	if cfg.WiFi.SSID == "" {
		return fmt.Errorf("wifi.ssid is required")
	}

	// ------------------------------------------------------------
	// SENSORS
	// ------------------------------------------------------------

	if len(cfg.Sensors) == 0 {
		return fmt.Errorf("at least one sensor must be configured")
	}
	if cfg.RFID.Endpoint == "" {
		return fmt.Errorf("rfid.endpoint is required")
	}
	if cfg.RFID.TimeoutMs <= 0 {
		return fmt.Errorf("rfid.timeout_ms must be > 0, got %d", cfg.RFID.TimeoutMs)
	}

	units := make(map[uint8]int)
	for i, s := range cfg.Sensors {
		if prev, exists := units[s.UnitID]; exists {
			return fmt.Errorf(
				"sensor unit_id collision: unit_id=%d used by sensors %d and %d",
				s.UnitID,
				prev,
				i,
			)
		}
		units[s.UnitID] = i
	}

	switch cfg.Deck.Strategy {
	case "cycle", "single":
	default:
		return fmt.Errorf("deck.strategy must be cycle or single, got %q", cfg.Deck.Strategy)
	}

	// ------------------------------------------------------------
	// INDICATOR + TOUCH
	// ------------------------------------------------------------

	if cfg.Indicator.Brightness < 0 || cfg.Indicator.Brightness > 100 {
		return fmt.Errorf("indicator.brightness must be 0..100, got %d", cfg.Indicator.Brightness)
	}
	if cfg.Indicator.Slots < len(cfg.Sensors) {
		return fmt.Errorf(
			"indicator.slots (%d) must cover every sensor (%d)",
			cfg.Indicator.Slots,
			len(cfg.Sensors),
		)
	}
	if cfg.Touch.Enabled {
		if cfg.Touch.Slot < len(cfg.Sensors) || cfg.Touch.Slot >= cfg.Indicator.Slots {
			return fmt.Errorf(
				"touch.slot %d must be outside sensor slots 0..%d and below indicator.slots %d",
				cfg.Touch.Slot,
				len(cfg.Sensors)-1,
				cfg.Indicator.Slots,
			)
		}
	}

	// ------------------------------------------------------------
	// TAG DIRECTORY
	// ------------------------------------------------------------

	switch cfg.Tags.Source {
	case "file":
		if cfg.Tags.File == "" {
			return fmt.Errorf("tags.file is required for file source")
		}
	case "redis":
		if cfg.Tags.Redis.Addr == "" || cfg.Tags.Redis.Key == "" {
			return fmt.Errorf("tags.redis.addr and tags.redis.key are required for redis source")
		}
	default:
		return fmt.Errorf("tags.source must be file or redis, got %q", cfg.Tags.Source)
	}

	return nil
}
