// Package worker provides the bounded worker pool that drains inbound
// transport requests through the orchestrator. The pool decouples broker
// delivery from the multi-minute completion call so several requests can be
// in flight at once without unbounded goroutine growth.
package worker

import (
	"context"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/azziedev/promptrelay/pkg/conversation"
	"github.com/azziedev/promptrelay/pkg/transport"
)

var (
	defaultNumWorkers   uint = 3
	defaultJobQueueSize uint = 256
)

// Processor runs the prompt pipeline for one request. Implemented by
// orchestrator.Orchestrator.
type Processor interface {
	ProcessPrompt(ctx context.Context, req transport.Request) (*conversation.Turn, error)
}

// Config is the configuration options for the worker pool.
type Config struct {
	// Processor handles each dequeued request.
	Processor Processor

	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 256).
	QueueSize uint

	// Logger is the provided zap logger.
	Logger *zap.Logger
}

// Pool processes inbound requests with bounded concurrency.
type Pool struct {
	config *Config
	queue  chan transport.Request
	wg     sync.WaitGroup
	logger *zap.Logger
}

// NewPool creates a pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	p := &Pool{
		config: c,
		queue:  make(chan transport.Request, c.QueueSize),
		logger: c.Logger,
	}

	p.wg.Add(int(c.NumWorkers))
	for i := uint(0); i < c.NumWorkers; i++ {
		go p.worker(i)
	}

	return p, nil
}

// Enqueue submits a request for processing. Returns true if enqueued, false
// if the queue is full and the request was dropped; the inbound broker's own
// redelivery is the only recovery for drops.
func (p *Pool) Enqueue(req transport.Request) bool {
	select {
	case p.queue <- req:
		p.logger.Debug("request queued",
			zap.String("id", req.ID),
			zap.String("thread_id", req.ThreadID),
		)
		return true
	default:
		p.logger.Error("request not queued, queue full, request dropped",
			zap.String("id", req.ID),
			zap.String("thread_id", req.ThreadID),
		)
		return false
	}
}

// Handler returns a transport.Handler that enqueues every inbound request.
// Pass this to the active transport's Subscribe.
func (p *Pool) Handler() transport.Handler {
	return func(_ context.Context, req transport.Request) {
		p.Enqueue(req)
	}
}

// Close signals workers to stop and waits for in-flight requests to drain.
// Call during graceful shutdown after the transport listener has stopped.
func (p *Pool) Close() {
	close(p.queue)
	p.wg.Wait()
}

// worker continuously pulls requests off the queue.
func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("worker started", zap.Uint("worker_id", id))

	for req := range p.queue {
		// The request context is deliberately detached from the broker
		// delivery: once accepted, a prompt runs to completion or failure.
		if _, err := p.config.Processor.ProcessPrompt(context.Background(), req); err != nil {
			p.logger.Error("prompt processing failed",
				zap.String("id", req.ID),
				zap.Error(err),
			)
		}
	}

	p.logger.Debug("worker stopped", zap.Uint("worker_id", id))
}
