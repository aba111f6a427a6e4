// Package orchestrator implements the prompt-orchestration pipeline: context
// assembly, backend invocation, turn state transition, and outbound dispatch.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/azziedev/promptrelay/pkg/completion"
	"github.com/azziedev/promptrelay/pkg/conversation"
	"github.com/azziedev/promptrelay/pkg/llm"
	"github.com/azziedev/promptrelay/pkg/transport"
)

// Config holds the generation defaults applied when a request carries no
// override. Only the system prompt is overridable per request; the token and
// temperature fields on the inbound shape are forward-compatible and not yet
// plumbed through.
type Config struct {
	Model        string
	MaxTokens    int
	Temperature  float64
	SystemPrompt string
}

// Orchestrator drives one prompt through the pipeline: history load, context
// window assembly, a single completion call, state transition, dispatch.
type Orchestrator struct {
	store  conversation.Store
	client completion.Client
	sender transport.Transport
	config Config
	logger *zap.Logger

	// now is swappable for deterministic timestamps in tests.
	now func() time.Time
}

// New creates an orchestrator. The outbound transport is attached separately
// via SetTransport: the transport's listener needs the orchestrator's handler
// first, so construction order breaks the reference cycle.
func New(store conversation.Store, client completion.Client, cfg Config, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		store:  store,
		client: client,
		config: cfg,
		logger: logger,
		now:    time.Now,
	}
}

// SetTransport attaches the transport that carries outbound responses. A nil
// or unset transport means completed turns are persisted but not announced.
func (o *Orchestrator) SetTransport(t transport.Transport) {
	o.sender = t
}

// ProcessPrompt runs the full pipeline for one inbound request and returns
// the terminal turn. The call blocks for the duration of the backend call.
//
// A store-write failure before the backend call is fatal to the request.
// A backend failure marks the turn FAILED with the error text as its
// response; no outbound publish occurs for failed turns. A publish failure
// is logged only; the turn's terminal state is already committed.
func (o *Orchestrator) ProcessPrompt(ctx context.Context, req transport.Request) (*conversation.Turn, error) {
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	threadID := req.ThreadID
	if threadID == "" {
		threadID = uuid.NewString()
	}

	o.logger.Info("processing prompt",
		zap.String("id", id),
		zap.String("thread_id", threadID),
	)

	history, err := o.store.FindByThread(ctx, threadID)
	if err != nil {
		o.logger.Error("failed to load thread history", zap.String("thread_id", threadID), zap.Error(err))
		return nil, fmt.Errorf("loading history for thread %s: %w", threadID, err)
	}

	messages := o.buildContext(history, req.Text, req.SystemPrompt)

	turn := &conversation.Turn{
		ID:          id,
		ThreadID:    threadID,
		Prompt:      req.Text,
		Status:      conversation.StatusPending,
		Timestamp:   o.now(),
		MaxTokens:   o.config.MaxTokens,
		Temperature: o.config.Temperature,
	}

	if err := o.store.Save(ctx, turn); err != nil {
		o.logger.Error("failed to persist pending turn", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("persisting pending turn %s: %w", id, err)
	}

	answer, err := o.client.Complete(ctx, completion.Request{
		Model:       o.config.Model,
		Messages:    messages,
		MaxTokens:   turn.MaxTokens,
		Temperature: turn.Temperature,
	})
	if err != nil {
		return o.failTurn(ctx, turn, err)
	}

	turn.Response = answer
	turn.Status = conversation.StatusCompleted

	if err := o.store.Save(ctx, turn); err != nil {
		o.logger.Error("failed to persist completed turn", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("persisting completed turn %s: %w", id, err)
	}

	o.dispatch(ctx, turn)

	return turn, nil
}

// buildContext assembles the context window: one system message first, then
// every prior turn as a user/assistant pair in order, then the current prompt
// as the trailing user message. The entire stored history is sent; unbounded
// growth per thread is a known scaling limit, not silently windowed here.
func (o *Orchestrator) buildContext(history []*conversation.Turn, promptText, systemOverride string) []llm.Message {
	system := o.config.SystemPrompt
	if strings.TrimSpace(systemOverride) != "" {
		system = systemOverride
	}

	messages := make([]llm.Message, 0, 2*len(history)+2)
	messages = append(messages, llm.System(system))

	for _, prior := range history {
		messages = append(messages, llm.User(prior.Prompt))
		messages = append(messages, llm.Assistant(prior.Response))
	}

	return append(messages, llm.User(promptText))
}

// failTurn records a backend failure: the turn goes FAILED with a
// human-readable error as its response, and nothing is published.
func (o *Orchestrator) failTurn(ctx context.Context, turn *conversation.Turn, cause error) (*conversation.Turn, error) {
	o.logger.Error("completion call failed",
		zap.String("id", turn.ID),
		zap.Error(cause),
	)

	turn.Response = "Error: " + cause.Error()
	turn.Status = conversation.StatusFailed

	if err := o.store.Save(ctx, turn); err != nil {
		o.logger.Error("failed to persist failed turn", zap.String("id", turn.ID), zap.Error(err))
		return nil, fmt.Errorf("persisting failed turn %s: %w", turn.ID, err)
	}

	return turn, nil
}

// dispatch publishes the completed turn. Publish failures are logged only:
// the turn is already durably COMPLETED, the answer is not lost, just not
// delivered this time.
func (o *Orchestrator) dispatch(ctx context.Context, turn *conversation.Turn) {
	if o.sender == nil {
		return
	}

	err := o.sender.Publish(ctx, transport.Response{
		ID:       turn.ID,
		ThreadID: turn.ThreadID,
		Response: turn.Response,
	})
	if err != nil {
		o.logger.Error("failed to publish response",
			zap.String("id", turn.ID),
			zap.String("transport", o.sender.Name()),
			zap.Error(err),
		)
	}
}
