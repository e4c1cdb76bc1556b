// internal/config/load.go
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Load builds the configuration: defaults, then the YAML file, then
// environment overrides. It does not validate.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := applyEnvOverrides(cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Defaults returns the values used for anything the file leaves out.
func Defaults() *Config {
	return &Config{
		Pod: PodConfig{
			MsgDelayMs: 50,
			InfoLevel:  50,
			OnReboot:   "exit",
		},
		Server: ServerConfig{
			Transport: "udp",
			MQTT: MQTTConfig{
				TopicPrefix: "pods",
				TimeoutMs:   2000,
			},
		},
		RFID: RFIDConfig{
			TimeoutMs: 100,
		},
		Deck: DeckConfig{
			Strategy: "cycle",
		},
		Indicator: IndicatorConfig{
			Slots:      5,
			Brightness: 20,
		},
		Touch: TouchConfig{
			Slot: 4,
		},
		Tags: TagsConfig{
			Source: "file",
			Redis: RedisConfig{
				Key: "pod:tags",
			},
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// ---- ENV OVERRIDES ----

type lookupFunc func(key string) (string, bool)

func applyEnvOverrides(cfg *Config, lookup lookupFunc) error {
	ints := []struct {
		key string
		dst *int
	}{
		{"POD_ID", &cfg.Pod.ID},
		{"POD_MSG_DELAY_MS", &cfg.Pod.MsgDelayMs},
		{"POD_INFO_LEVEL", &cfg.Pod.InfoLevel},
		{"POD_RFID_TIMEOUT_MS", &cfg.RFID.TimeoutMs},
		{"POD_LED_BRIGHTNESS", &cfg.Indicator.Brightness},
	}

	for _, e := range ints {
		v, ok := lookup(e.key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: env %s=%q is not an integer", e.key, v)
		}
		*e.dst = n
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"POD_SERVER_ADDR", &cfg.Server.Address},
		{"WIFI_SSID", &cfg.WiFi.SSID},
		{"WIFI_PASSWORD", &cfg.WiFi.Password},
	}

	for _, e := range strs {
		if v, ok := lookup(e.key); ok && v != "" {
			*e.dst = v
		}
	}

	return nil
}
