// Package config defines the promptrelay configuration: TOML file in the
// dotdir, RELAY_-prefixed environment variables, and defaults, resolved
// through viper.
package config

// Config is the full configuration surface. The TOML layout uses sections
// for logical grouping; keys are the mapstructure names in dotted form
// (e.g. "messaging.type", "backend.model").
type Config struct {
	Messaging MessagingConfig `mapstructure:"messaging" toml:"messaging"`
	Backend   BackendConfig   `mapstructure:"backend" toml:"backend"`
	Storage   StorageConfig   `mapstructure:"storage" toml:"storage"`
	Dashboard DashboardConfig `mapstructure:"dashboard" toml:"dashboard"`
	Discovery DiscoveryConfig `mapstructure:"discovery" toml:"discovery"`
	Pool      PoolConfig      `mapstructure:"pool" toml:"pool"`
}

// MessagingConfig selects and configures the active transport variant.
type MessagingConfig struct {
	// Type is "mqtt", "kafka", or "none".
	Type string `mapstructure:"type" toml:"type"`

	// Broker is the broker endpoint. For MQTT a URL like
	// "tcp://localhost:1883"; for Kafka a comma-separated bootstrap list.
	Broker   string `mapstructure:"broker" toml:"broker"`
	Username string `mapstructure:"username" toml:"username,omitempty"`
	Password string `mapstructure:"password" toml:"password,omitempty"`

	// ClientID identifies the MQTT session; GroupID the Kafka consumer group.
	ClientID string `mapstructure:"client_id" toml:"client_id"`
	GroupID  string `mapstructure:"group_id" toml:"group_id"`

	PromptTopic   string `mapstructure:"prompt_topic" toml:"prompt_topic"`
	ResponseTopic string `mapstructure:"response_topic" toml:"response_topic"`
}

// BackendConfig configures the completion backend and generation defaults.
type BackendConfig struct {
	BaseURL      string  `mapstructure:"base_url" toml:"base_url"`
	APIKey       string  `mapstructure:"api_key" toml:"api_key,omitempty"`
	Model        string  `mapstructure:"model" toml:"model"`
	MaxTokens    int     `mapstructure:"max_tokens" toml:"max_tokens"`
	Temperature  float64 `mapstructure:"temperature" toml:"temperature"`
	SystemPrompt string  `mapstructure:"system_prompt" toml:"system_prompt"`
}

// StorageConfig selects the conversation store backend.
type StorageConfig struct {
	// Driver is "memory", "sqlite", or "postgres".
	Driver      string `mapstructure:"driver" toml:"driver"`
	SQLitePath  string `mapstructure:"sqlite_path" toml:"sqlite_path,omitempty"`
	PostgresDSN string `mapstructure:"postgres_dsn" toml:"postgres_dsn,omitempty"`
}

// DashboardConfig holds the dashboard HTTP server settings.
type DashboardConfig struct {
	Listen string `mapstructure:"listen" toml:"listen"`
}

// DiscoveryConfig controls the Home Assistant announcement. Only meaningful
// with the MQTT transport.
type DiscoveryConfig struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled"`
}

// PoolConfig sizes the inbound worker pool.
type PoolConfig struct {
	Workers   uint `mapstructure:"workers" toml:"workers"`
	QueueSize uint `mapstructure:"queue_size" toml:"queue_size"`
}
