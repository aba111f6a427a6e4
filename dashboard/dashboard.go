// Package dashboard provides the HTTP entry point: a form-submit endpoint
// that feeds the orchestrator and a read-only listing of stored threads.
package dashboard

import (
	"context"
	"sort"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/azziedev/promptrelay/pkg/conversation"
	"github.com/azziedev/promptrelay/pkg/transport"
)

// Config holds the dashboard server settings.
type Config struct {
	ListenAddr string
}

// Processor runs the prompt pipeline for one request. Implemented by
// orchestrator.Orchestrator.
type Processor interface {
	ProcessPrompt(ctx context.Context, req transport.Request) (*conversation.Turn, error)
}

// Server is the dashboard HTTP server.
type Server struct {
	config    Config
	store     conversation.Store
	processor Processor
	logger    *zap.Logger
	app       *fiber.App
}

// Thread is one conversation in the listing: its turns in timestamp order
// plus the id they share.
type Thread struct {
	ThreadID string               `json:"threadId"`
	Turns    []*conversation.Turn `json:"turns"`
}

// NewServer creates the dashboard server. The store is shared with the
// orchestrator; the processor is invoked synchronously on form submits.
func NewServer(config Config, store conversation.Store, processor Processor, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:    config,
		store:     store,
		processor: processor,
		logger:    logger,
		app:       app,
	}

	app.Get("/ping", s.handlePing)
	app.Get("/", s.handleConversations)
	app.Get("/conversations", s.handleConversations)
	app.Post("/send", s.handleSend)

	return s
}

// Run starts the server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting dashboard server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleConversations lists all turns grouped by thread, newest thread
// first, turns within a thread oldest first.
func (s *Server) handleConversations(c *fiber.Ctx) error {
	turns, err := s.store.FindAll(c.Context())
	if err != nil {
		s.logger.Error("failed to list conversations", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list conversations",
		})
	}

	return c.JSON(groupThreads(turns))
}

// handleSend accepts a browser form submit: prompt (required, may be empty),
// threadId and systemPrompt (optional). A fresh correlation id is always
// generated; a blank threadId starts a new thread. The pipeline runs
// synchronously, then the browser is sent back to the listing.
func (s *Server) handleSend(c *fiber.Ctx) error {
	// Only the absence of the field is an error. An empty prompt is a valid
	// submission and flows through the pipeline as-is.
	if !c.Request().PostArgs().Has("prompt") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "prompt is required",
		})
	}
	prompt := c.FormValue("prompt")

	req := transport.Request{
		ID:           uuid.NewString(),
		ThreadID:     c.FormValue("threadId"),
		Text:         prompt,
		SystemPrompt: c.FormValue("systemPrompt"),
	}

	if _, err := s.processor.ProcessPrompt(c.Context(), req); err != nil {
		s.logger.Error("form submit failed", zap.String("id", req.ID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to process prompt",
		})
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}

// groupThreads buckets turns by thread id and orders threads by their most
// recent turn, newest first. Turn order within a thread is preserved from
// the store (timestamp ascending).
func groupThreads(turns []*conversation.Turn) []Thread {
	byThread := make(map[string][]*conversation.Turn)
	for _, turn := range turns {
		byThread[turn.ThreadID] = append(byThread[turn.ThreadID], turn)
	}

	threads := make([]Thread, 0, len(byThread))
	for id, grouped := range byThread {
		threads = append(threads, Thread{ThreadID: id, Turns: grouped})
	}

	sort.Slice(threads, func(i, j int) bool {
		a := threads[i].Turns[len(threads[i].Turns)-1].Timestamp
		b := threads[j].Turns[len(threads[j].Turns)-1].Timestamp
		return a.After(b)
	})

	return threads
}
