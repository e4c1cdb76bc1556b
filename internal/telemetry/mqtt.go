// internal/telemetry/mqtt.go
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTConfig selects a broker as the collector. Each message is published
// at QoS 0 on Topic, which keeps the fire-and-forget contract.
type MQTTConfig struct {
	Broker   string
	ClientID string
	Topic    string
	Username string
	Password string
	Timeout  time.Duration
}

// Topic builds the per-pod publish topic.
func Topic(prefix string, podID int) string {
	return fmt.Sprintf("%s/%d", prefix, podID)
}

type MQTTOpener struct {
	Config MQTTConfig
}

func (o MQTTOpener) Open(ctx context.Context) (Transport, error) {
	cfg := o.Config

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetConnectTimeout(cfg.Timeout)

	client := mqtt.NewClient(opts)

	tok := client.Connect()
	select {
	case <-tok.Done():
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("telemetry: mqtt connect %s: %w", cfg.Broker, err)
	}

	return &mqttTransport{client: client, topic: cfg.Topic, timeout: cfg.Timeout}, nil
}

type mqttTransport struct {
	client  mqtt.Client
	topic   string
	timeout time.Duration
}

func (m *mqttTransport) Send(b []byte) error {
	tok := m.client.Publish(m.topic, 0, false, b)
	if !tok.WaitTimeout(m.timeout) {
		return errors.New("telemetry: mqtt publish timed out")
	}
	return tok.Error()
}

func (m *mqttTransport) Close() error {
	m.client.Disconnect(250)
	return nil
}
