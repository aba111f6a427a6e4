// Package mqtt implements the transport contract over an MQTT broker using
// the Eclipse Paho client.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/azziedev/promptrelay/pkg/transport"
)

const (
	// qosAtLeastOnce matches the at-least-once delivery contract the
	// orchestrator tolerates via idempotent saves.
	qosAtLeastOnce byte = 1

	connectTimeout    = 10 * time.Second
	disconnectQuiesce = 250 // milliseconds, paho's own unit
)

// Config holds broker connection settings and topic names.
type Config struct {
	BrokerURL     string
	Username      string
	Password      string
	ClientID      string
	PromptTopic   string
	ResponseTopic string
}

// Transport is the MQTT variant of the messaging transport.
type Transport struct {
	client pahomqtt.Client
	config Config
	logger *zap.Logger
}

// New connects to the broker and returns a ready transport.
func New(cfg Config, logger *zap.Logger) (*Transport, error) {
	opts := pahomqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetCleanSession(true).
		SetConnectTimeout(connectTimeout).
		SetAutoReconnect(true)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	client := pahomqtt.NewClient(opts)

	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connecting to MQTT broker %s: timeout", cfg.BrokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connecting to MQTT broker %s: %w", cfg.BrokerURL, err)
	}

	logger.Info("connected to MQTT broker",
		zap.String("broker", cfg.BrokerURL),
		zap.String("client_id", cfg.ClientID),
	)

	return &Transport{
		client: client,
		config: cfg,
		logger: logger,
	}, nil
}

// Name returns the variant name.
func (t *Transport) Name() string {
	return "mqtt"
}

// Subscribe consumes the prompt topic, normalizing each message before
// invoking the handler. MQTT messages carry no broker-assigned id, so
// payloads without one get a fresh id from the orchestrator.
func (t *Transport) Subscribe(ctx context.Context, handler transport.Handler) error {
	token := t.client.Subscribe(t.config.PromptTopic, qosAtLeastOnce, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		req, fallback := transport.Decode(msg.Payload(), "")
		if fallback {
			t.logger.Debug("inbound payload not structured, treating as raw prompt",
				zap.String("topic", msg.Topic()),
			)
		}

		handler(ctx, req)
	})

	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribing to %s: %w", t.config.PromptTopic, err)
	}

	t.logger.Info("subscribed to prompt topic", zap.String("topic", t.config.PromptTopic))
	return nil
}

// Publish sends an outbound response on the response topic.
func (t *Transport) Publish(_ context.Context, resp transport.Response) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshaling response: %w", err)
	}

	token := t.client.Publish(t.config.ResponseTopic, qosAtLeastOnce, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing to %s: %w", t.config.ResponseTopic, err)
	}

	t.logger.Info("sent MQTT response", zap.String("id", resp.ID))
	return nil
}

// PublishRetained publishes an arbitrary retained payload on the given topic.
// Used by the Home Assistant discovery announcement.
func (t *Transport) PublishRetained(topic string, payload []byte) error {
	token := t.client.Publish(topic, qosAtLeastOnce, true, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing retained message to %s: %w", topic, err)
	}

	return nil
}

// Close disconnects from the broker.
func (t *Transport) Close() error {
	t.client.Disconnect(disconnectQuiesce)
	return nil
}

var _ transport.Transport = (*Transport)(nil)
