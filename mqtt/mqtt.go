// mqtt.go - Publishes discovery events to an MQTT broker

package mqtt

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"go-discovery-backend/config"
	"go-discovery-backend/logger"
)

// Event topics, relative to the configured prefix.
const (
	TopicResultCreated       = "results/created"
	TopicResultDeleted       = "results/deleted"
	TopicGenerationCompleted = "generation/completed"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
)

// Publisher sends a JSON-encoded payload to a topic.
type Publisher interface {
	Publish(topic string, payload any) error
}

// Noop drops every event. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(string, any) error { return nil }

// Topic joins prefix and name with a single slash.
func Topic(prefix, name string) string {
	prefix = strings.Trim(prefix, "/")
	name = strings.Trim(name, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

type Client struct {
	client paho.Client
	prefix string
	qos    byte
	log    *logger.Logger
}

// Connect dials the broker. An empty broker returns Noop.
func Connect(cfg config.MQTTConfig, log *logger.Logger) (Publisher, error) {
	if strings.TrimSpace(cfg.Broker) == "" {
		log.Info("mqtt broker not configured, events disabled")
		return Noop{}, nil
	}

	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Warn("mqtt connection lost", "error", err)
		})

	c := paho.NewClient(opts)
	token := c.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt connect to %s: timed out", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", cfg.Broker, err)
	}

	log.Info("mqtt connected", "broker", cfg.Broker, "client_id", cfg.ClientID)
	return newClient(c, cfg.TopicPrefix, log), nil
}

func newClient(c paho.Client, prefix string, log *logger.Logger) *Client {
	return &Client{client: c, prefix: prefix, qos: 1, log: log.With("component", "mqtt")}
}

// Publish sends payload as JSON under the configured prefix.
func (c *Client) Publish(topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", topic, err)
	}
	full := Topic(c.prefix, topic)
	token := c.client.Publish(full, c.qos, false, body)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish %s: timed out", full)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", full, err)
	}
	c.log.Debug("event published", "topic", full)
	return nil
}

// Close disconnects, waiting briefly for in-flight messages.
func (c *Client) Close() {
	c.client.Disconnect(250)
}
