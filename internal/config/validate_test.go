// internal/config/validate_test.go
package config

import "testing"

// helper to build a valid config quickly
func valid() *Config {
	cfg := Defaults()
	cfg.Pod.ID = 7
	cfg.Server.Address = "10.0.0.2:5005"
	cfg.WiFi.SSID = "sono"
	cfg.RFID.Endpoint = "10.0.0.3:502"
	cfg.Sensors = []SensorConfig{
		{UnitID: 1},
		{UnitID: 2},
		{UnitID: 3},
		{UnitID: 4},
	}
	cfg.Tags.File = "tags.yaml"
	return cfg
}

// ---- tests ----

func TestValidate_DefaultsPlusRequiredOK(t *testing.T) {
	if err := Validate(valid()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_MissingPodID(t *testing.T) {
	cfg := valid()
	cfg.Pod.ID = 0

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected pod.id error, got nil")
	}
}

func TestValidate_InfoLevelRange(t *testing.T) {
	cfg := valid()
	cfg.Pod.InfoLevel = 256

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected info_level error, got nil")
	}
}

func TestValidate_BadServerAddress(t *testing.T) {
	cfg := valid()
	cfg.Server.Address = "no-port"

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected server.address error, got nil")
	}
}

func TestValidate_MQTTNeedsBroker(t *testing.T) {
	cfg := valid()
	cfg.Server.Transport = "mqtt"
	cfg.Server.Address = ""

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected broker error, got nil")
	}

	cfg.Server.MQTT.Broker = "tcp://10.0.0.2:1883"
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_MQTTTimeoutMustBePositive(t *testing.T) {
	cfg := valid()
	cfg.Server.Transport = "mqtt"
	cfg.Server.MQTT.Broker = "tcp://10.0.0.2:1883"
	cfg.Server.MQTT.TimeoutMs = 0

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected timeout error, got nil")
	}

	// udp ignores the mqtt block
	cfg.Server.Transport = "udp"
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_UnitIDCollision(t *testing.T) {
	cfg := valid()
	cfg.Sensors[3].UnitID = 1

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected unit_id collision error, got nil")
	}
}

func TestValidate_NoSensors(t *testing.T) {
	cfg := valid()
	cfg.Sensors = nil

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected sensors error, got nil")
	}
}

func TestValidate_IndicatorMustCoverSensors(t *testing.T) {
	cfg := valid()
	cfg.Indicator.Slots = 3

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected indicator.slots error, got nil")
	}
}

func TestValidate_TouchSlotMustNotShadowSensor(t *testing.T) {
	cfg := valid()
	cfg.Touch.Enabled = true
	cfg.Touch.Slot = 2

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected touch.slot error, got nil")
	}

	cfg.Touch.Slot = 4
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_RedisSourceNeedsAddr(t *testing.T) {
	cfg := valid()
	cfg.Tags.Source = "redis"

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected redis addr error, got nil")
	}
}

func TestNormalize_FillsDerivedValues(t *testing.T) {
	cfg := valid()
	cfg.Touch.Enabled = true
	cfg.Sensors[1].Name = "left"

	Normalize(cfg)

	if cfg.Sensors[0].Name != "sensor-0" {
		t.Fatalf("sensor 0 name: got %q", cfg.Sensors[0].Name)
	}
	if cfg.Sensors[1].Name != "left" {
		t.Fatalf("explicit name overwritten: got %q", cfg.Sensors[1].Name)
	}
	if cfg.Touch.Endpoint != cfg.RFID.Endpoint {
		t.Fatalf("touch endpoint: got %q want %q", cfg.Touch.Endpoint, cfg.RFID.Endpoint)
	}
	if cfg.Server.MQTT.ClientID != "pod-7" {
		t.Fatalf("mqtt client id: got %q", cfg.Server.MQTT.ClientID)
	}
}
