// internal/config/normalize.go
package config

import "fmt"

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	// Sensor names default to their deck index.
	for i := range cfg.Sensors {
		if cfg.Sensors[i].Name == "" {
			cfg.Sensors[i].Name = fmt.Sprintf("sensor-%d", i)
		}
	}

	// Touch input lives on the RFID gateway unless told otherwise.
	if cfg.Touch.Enabled && cfg.Touch.Endpoint == "" {
		cfg.Touch.Endpoint = cfg.RFID.Endpoint
	}

	if cfg.Server.MQTT.ClientID == "" {
		cfg.Server.MQTT.ClientID = fmt.Sprintf("pod-%d", cfg.Pod.ID)
	}
}
