// Package kafka implements the transport contract over a Kafka topic pair
// using segmentio/kafka-go. This is the queue/topic-broker variant: the
// broker message key carries the correlation id the way a JMS correlation id
// would.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	segmentio "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/azziedev/promptrelay/pkg/transport"
)

// fetchRetryDelay paces the consume loop after an unexpected fetch error so
// a persistently failing reader does not spin.
const fetchRetryDelay = time.Second

// Config holds broker connection settings and topic names.
type Config struct {
	Brokers       []string
	GroupID       string
	PromptTopic   string
	ResponseTopic string
}

// consumer is the slice of *segmentio.Reader the consume loop depends on.
type consumer interface {
	FetchMessage(ctx context.Context) (segmentio.Message, error)
	CommitMessages(ctx context.Context, msgs ...segmentio.Message) error
	Close() error
}

// Transport is the Kafka variant of the messaging transport.
type Transport struct {
	reader     consumer
	writer     *segmentio.Writer
	config     Config
	logger     *zap.Logger
	done       chan struct{}
	retryDelay time.Duration
}

// New builds a consumer-group reader on the prompt topic and a writer on the
// response topic. Connections are established lazily by kafka-go.
func New(cfg Config, logger *zap.Logger) (*Transport, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("at least one Kafka broker is required")
	}

	reader := segmentio.NewReader(segmentio.ReaderConfig{
		Brokers: cfg.Brokers,
		GroupID: cfg.GroupID,
		Topic:   cfg.PromptTopic,
	})

	writer := &segmentio.Writer{
		Addr:     segmentio.TCP(cfg.Brokers...),
		Topic:    cfg.ResponseTopic,
		Balancer: &segmentio.LeastBytes{},
	}

	return &Transport{
		reader:     reader,
		writer:     writer,
		config:     cfg,
		logger:     logger,
		done:       make(chan struct{}),
		retryDelay: fetchRetryDelay,
	}, nil
}

// Name returns the variant name.
func (t *Transport) Name() string {
	return "kafka"
}

// Subscribe starts a consumer loop on the prompt topic. Each message is
// normalized with the broker message key as fallback correlation id, then
// committed after the handler returns, giving at-least-once delivery.
func (t *Transport) Subscribe(ctx context.Context, handler transport.Handler) error {
	go func() {
		defer close(t.done)

		for {
			msg, err := t.reader.FetchMessage(ctx)
			if err != nil {
				// A closed reader surfaces as io.EOF; a canceled context
				// means shutdown. Neither is worth logging as a failure.
				if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
					return
				}

				// Anything else is transient from the loop's point of view:
				// log, pace, and keep consuming. Only shutdown ends the loop.
				t.logger.Error("failed to fetch message, retrying", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(t.retryDelay):
				}
				continue
			}

			req, fallback := transport.Decode(msg.Value, string(msg.Key))
			if fallback {
				t.logger.Debug("inbound payload not structured, treating as raw prompt",
					zap.String("topic", msg.Topic),
					zap.Int64("offset", msg.Offset),
				)
			}

			handler(ctx, req)

			if err := t.reader.CommitMessages(ctx, msg); err != nil {
				t.logger.Error("failed to commit message",
					zap.Int64("offset", msg.Offset),
					zap.Error(err),
				)
			}
		}
	}()

	t.logger.Info("consuming prompt topic",
		zap.String("topic", t.config.PromptTopic),
		zap.String("group", t.config.GroupID),
	)

	return nil
}

// Publish writes an outbound response keyed by correlation id.
func (t *Transport) Publish(ctx context.Context, resp transport.Response) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshaling response: %w", err)
	}

	err = t.writer.WriteMessages(ctx, segmentio.Message{
		Key:   []byte(resp.ID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("writing to %s: %w", t.config.ResponseTopic, err)
	}

	t.logger.Info("sent Kafka response", zap.String("id", resp.ID))
	return nil
}

// Close shuts down the reader and writer.
func (t *Transport) Close() error {
	readerErr := t.reader.Close()
	writerErr := t.writer.Close()

	if readerErr != nil {
		return readerErr
	}
	return writerErr
}

var _ transport.Transport = (*Transport)(nil)
