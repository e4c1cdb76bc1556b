// internal/config/config.go
package config

type Config struct {
	Pod       PodConfig       `yaml:"pod"`
	Server    ServerConfig    `yaml:"server"`
	WiFi      WiFiConfig      `yaml:"wifi"`
	RFID      RFIDConfig      `yaml:"rfid"`
	Sensors   []SensorConfig  `yaml:"sensors"`
	Deck      DeckConfig      `yaml:"deck"`
	Indicator IndicatorConfig `yaml:"indicator"`
	Touch     TouchConfig     `yaml:"touch"`
	Tags      TagsConfig      `yaml:"tags"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ---- POD ----

type PodConfig struct {
	ID         int    `yaml:"id"`
	MsgDelayMs int    `yaml:"msg_delay_ms"`
	InfoLevel  int    `yaml:"info_level"` // 0..255, inclusive threshold
	OnReboot   string `yaml:"on_reboot"`  // exit | restart
}

// ---- SERVER (telemetry collector) ----

type ServerConfig struct {
	Address   string     `yaml:"address"`   // host:port
	Transport string     `yaml:"transport"` // udp | mqtt
	MQTT      MQTTConfig `yaml:"mqtt"`
}

type MQTTConfig struct {
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	TimeoutMs   int    `yaml:"timeout_ms"`
}

// ---- NETWORK JOIN ----

type WiFiConfig struct {
	SSID     string `yaml:"ssid"`
	Password string `yaml:"password"`
}

// ---- SENSORS ----

type RFIDConfig struct {
	Endpoint  string `yaml:"endpoint"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

type SensorConfig struct {
	Name   string `yaml:"name"`
	UnitID uint8  `yaml:"unit_id"`
}

type DeckConfig struct {
	Strategy string `yaml:"strategy"` // cycle | single
}

// ---- INDICATOR ----

type IndicatorConfig struct {
	Endpoint    string `yaml:"endpoint"` // empty => in-memory sink
	UnitID      uint8  `yaml:"unit_id"`
	BaseAddress uint16 `yaml:"base_address"`
	Slots       int    `yaml:"slots"`
	Brightness  int    `yaml:"brightness"` // percent
}

// ---- TOUCH INPUT ----

type TouchConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"` // defaults to rfid.endpoint
	UnitID   uint8  `yaml:"unit_id"`
	Address  uint16 `yaml:"address"`
	Slot     int    `yaml:"slot"`
}

// ---- TAG DIRECTORY ----

type TagsConfig struct {
	Source string      `yaml:"source"` // file | redis
	File   string      `yaml:"file"`
	Redis  RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

// ---- AMBIENT ----

type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // json | console
	File       string `yaml:"file"`   // optional rotated file
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

type MetricsConfig struct {
	Listen string `yaml:"listen"` // empty => disabled
}
