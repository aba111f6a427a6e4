package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// InitViper creates and returns a configured *viper.Viper. It sets defaults
// from NewDefaultConfig(), reads the config.toml file (if found via Dir
// resolution), and binds environment variables with the RELAY_ prefix.
//
// Config precedence (highest to lowest):
//  1. Environment variables (RELAY_MESSAGING_TYPE, RELAY_BACKEND_API_KEY, ...)
//  2. config.toml file values
//  3. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")

	target, err := Dir(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	v.AddConfigPath(target)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("RELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// Load unmarshals the resolved viper state into a Config.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of
// truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("messaging.type", d.Messaging.Type)
	v.SetDefault("messaging.broker", d.Messaging.Broker)
	v.SetDefault("messaging.username", d.Messaging.Username)
	v.SetDefault("messaging.password", d.Messaging.Password)
	v.SetDefault("messaging.client_id", d.Messaging.ClientID)
	v.SetDefault("messaging.group_id", d.Messaging.GroupID)
	v.SetDefault("messaging.prompt_topic", d.Messaging.PromptTopic)
	v.SetDefault("messaging.response_topic", d.Messaging.ResponseTopic)

	v.SetDefault("backend.base_url", d.Backend.BaseURL)
	v.SetDefault("backend.api_key", d.Backend.APIKey)
	v.SetDefault("backend.model", d.Backend.Model)
	v.SetDefault("backend.max_tokens", d.Backend.MaxTokens)
	v.SetDefault("backend.temperature", d.Backend.Temperature)
	v.SetDefault("backend.system_prompt", d.Backend.SystemPrompt)

	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.sqlite_path", d.Storage.SQLitePath)
	v.SetDefault("storage.postgres_dsn", d.Storage.PostgresDSN)

	v.SetDefault("dashboard.listen", d.Dashboard.Listen)

	v.SetDefault("discovery.enabled", d.Discovery.Enabled)

	v.SetDefault("pool.workers", d.Pool.Workers)
	v.SetDefault("pool.queue_size", d.Pool.QueueSize)
}
