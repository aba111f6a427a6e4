// Package servecmder provides the serve command that runs the bridge: the
// active transport listener, the prompt pipeline, and the dashboard server.
package servecmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/azziedev/promptrelay/dashboard"
	"github.com/azziedev/promptrelay/pkg/completion/openai"
	"github.com/azziedev/promptrelay/pkg/config"
	"github.com/azziedev/promptrelay/pkg/conversation"
	"github.com/azziedev/promptrelay/pkg/conversation/inmemory"
	"github.com/azziedev/promptrelay/pkg/conversation/postgres"
	"github.com/azziedev/promptrelay/pkg/conversation/sqlite"
	"github.com/azziedev/promptrelay/pkg/logger"
	"github.com/azziedev/promptrelay/pkg/orchestrator"
	"github.com/azziedev/promptrelay/pkg/orchestrator/worker"
	"github.com/azziedev/promptrelay/pkg/transport"
	"github.com/azziedev/promptrelay/pkg/transport/kafka"
	"github.com/azziedev/promptrelay/pkg/transport/mqtt"
	"github.com/azziedev/promptrelay/pkg/transport/nop"
)

type ServeCommander struct {
	debug     bool
	configDir string
	logger    *zap.Logger
}

const serveLongDesc string = `Run the promptrelay bridge.

Connects the configured messaging transport to the completion backend,
persists conversation turns, and serves the dashboard.`

const serveShortDesc string = "Run the promptrelay bridge"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			cmder.configDir, err = cmd.Flags().GetString("config")
			if err != nil {
				return fmt.Errorf("could not get config flag: %v", err)
			}
			return cmder.run()
		},
	}

	return cmd
}

func (c *ServeCommander) run() error {
	c.logger = logger.New("promptrelay", c.debug)
	defer c.logger.Sync()

	v, err := config.InitViper(c.configDir)
	if err != nil {
		return err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := c.createStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	client := openai.NewClient(openai.Config{
		BaseURL: cfg.Backend.BaseURL,
		APIKey:  cfg.Backend.APIKey,
	}, c.logger.Named("completion"))

	orch := orchestrator.New(store, client, orchestrator.Config{
		Model:        cfg.Backend.Model,
		MaxTokens:    cfg.Backend.MaxTokens,
		Temperature:  cfg.Backend.Temperature,
		SystemPrompt: cfg.Backend.SystemPrompt,
	}, c.logger.Named("orchestrator"))

	tr, err := c.createTransport(cfg)
	if err != nil {
		return err
	}

	// The transport carrying responses is selected by configuration, not by
	// which transport delivered a request.
	orch.SetTransport(tr)

	pool, err := worker.NewPool(&worker.Config{
		Processor:  orch,
		NumWorkers: cfg.Pool.Workers,
		QueueSize:  cfg.Pool.QueueSize,
		Logger:     c.logger.Named("worker"),
	})
	if err != nil {
		tr.Close()
		return fmt.Errorf("creating worker pool: %w", err)
	}
	// Deliveries stop before the queue drains, so the transport closes first.
	defer pool.Close()
	defer tr.Close()

	if err := tr.Subscribe(ctx, pool.Handler()); err != nil {
		return fmt.Errorf("subscribing transport: %w", err)
	}

	if cfg.Discovery.Enabled {
		if mq, ok := tr.(*mqtt.Transport); ok {
			mq.AnnounceDiscovery()
		} else {
			c.logger.Warn("discovery is enabled but the active transport is not MQTT, skipping")
		}
	}

	dash := dashboard.NewServer(dashboard.Config{
		ListenAddr: cfg.Dashboard.Listen,
	}, store, orch, c.logger.Named("dashboard"))

	errChan := make(chan error, 1)
	go func() {
		if err := dash.Run(); err != nil {
			errChan <- fmt.Errorf("dashboard error: %w", err)
		}
	}()
	defer dash.Shutdown()

	c.logger.Info("bridge running",
		zap.String("transport", tr.Name()),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("dashboard", cfg.Dashboard.Listen),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return nil
	}
}

func (c *ServeCommander) createStore(ctx context.Context, cfg config.StorageConfig) (conversation.Store, error) {
	switch cfg.Driver {
	case "sqlite":
		store, err := sqlite.NewStore(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("creating SQLite store: %w", err)
		}
		c.logger.Info("using SQLite storage", zap.String("path", cfg.SQLitePath))
		return store, nil

	case "postgres":
		store, err := postgres.NewStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("creating PostgreSQL store: %w", err)
		}
		c.logger.Info("using PostgreSQL storage")
		return store, nil

	case "memory", "":
		c.logger.Info("using in-memory storage")
		return inmemory.NewStore(), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// createTransport selects the single active transport variant. This is the
// explicit strategy selection done once at process start; every variant
// hides behind the same interface.
func (c *ServeCommander) createTransport(cfg *config.Config) (transport.Transport, error) {
	switch cfg.Messaging.Type {
	case "mqtt":
		return mqtt.New(mqtt.Config{
			BrokerURL:     cfg.Messaging.Broker,
			Username:      cfg.Messaging.Username,
			Password:      cfg.Messaging.Password,
			ClientID:      cfg.Messaging.ClientID,
			PromptTopic:   cfg.Messaging.PromptTopic,
			ResponseTopic: cfg.Messaging.ResponseTopic,
		}, c.logger.Named("mqtt"))

	case "kafka":
		return kafka.New(kafka.Config{
			Brokers:       strings.Split(cfg.Messaging.Broker, ","),
			GroupID:       cfg.Messaging.GroupID,
			PromptTopic:   cfg.Messaging.PromptTopic,
			ResponseTopic: cfg.Messaging.ResponseTopic,
		}, c.logger.Named("kafka"))

	case "none", "":
		c.logger.Info("messaging disabled, dashboard is the only entry point")
		return nop.New(), nil

	default:
		return nil, fmt.Errorf("unknown messaging type %q", cfg.Messaging.Type)
	}
}
