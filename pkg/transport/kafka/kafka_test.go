package kafka

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	segmentio "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/azziedev/promptrelay/pkg/transport"
)

// step is one scripted FetchMessage outcome.
type step struct {
	msg segmentio.Message
	err error
}

// stubReader replays a scripted sequence of fetch outcomes and records
// commits. Once the script runs out it reports a closed reader.
type stubReader struct {
	mu        sync.Mutex
	steps     []step
	committed []segmentio.Message
}

func (s *stubReader) FetchMessage(_ context.Context) (segmentio.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.steps) == 0 {
		return segmentio.Message{}, io.EOF
	}

	next := s.steps[0]
	s.steps = s.steps[1:]
	return next.msg, next.err
}

func (s *stubReader) CommitMessages(_ context.Context, msgs ...segmentio.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.committed = append(s.committed, msgs...)
	return nil
}

func (s *stubReader) Close() error { return nil }

func (s *stubReader) commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.committed)
}

var _ = Describe("Kafka Transport", func() {
	var (
		reader   *stubReader
		tr       *Transport
		mu       sync.Mutex
		handled  []transport.Request
		handler  transport.Handler
		runUntil func()
	)

	BeforeEach(func() {
		reader = &stubReader{}
		handled = nil
		tr = &Transport{
			reader:     reader,
			config:     Config{PromptTopic: "ai/prompts", GroupID: "promptrelay"},
			logger:     zap.NewNop(),
			done:       make(chan struct{}),
			retryDelay: time.Millisecond,
		}

		handler = func(_ context.Context, req transport.Request) {
			mu.Lock()
			defer mu.Unlock()
			handled = append(handled, req)
		}

		runUntil = func() {
			Expect(tr.Subscribe(context.Background(), handler)).To(Succeed())
			Eventually(tr.done).Should(BeClosed())
		}
	})

	requests := func() []transport.Request {
		mu.Lock()
		defer mu.Unlock()
		return append([]transport.Request(nil), handled...)
	}

	Describe("Subscribe", func() {
		It("delivers decoded messages and commits after handling", func() {
			reader.steps = []step{
				{msg: segmentio.Message{Value: []byte(`{"id": "corr-1", "text": "hello"}`)}},
			}

			runUntil()

			Expect(requests()).To(HaveLen(1))
			Expect(requests()[0].ID).To(Equal("corr-1"))
			Expect(requests()[0].Text).To(Equal("hello"))
			Expect(reader.commits()).To(Equal(1))
		})

		It("uses the message key as correlation id for raw payloads", func() {
			reader.steps = []step{
				{msg: segmentio.Message{Key: []byte("broker-msg-7"), Value: []byte("turn on the lights")}},
			}

			runUntil()

			Expect(requests()).To(HaveLen(1))
			Expect(requests()[0].ID).To(Equal("broker-msg-7"))
			Expect(requests()[0].Text).To(Equal("turn on the lights"))
		})

		It("keeps consuming after a transient fetch error", func() {
			reader.steps = []step{
				{err: errors.New("broker momentarily unavailable")},
				{msg: segmentio.Message{Value: []byte(`{"text": "still here"}`)}},
			}

			runUntil()

			Expect(requests()).To(HaveLen(1))
			Expect(requests()[0].Text).To(Equal("still here"))
			Expect(reader.commits()).To(Equal(1))
		})

		It("stops cleanly on context cancellation", func() {
			reader.steps = []step{
				{err: context.Canceled},
			}

			runUntil()

			Expect(requests()).To(BeEmpty())
			Expect(reader.commits()).To(BeZero())
		})
	})
})
