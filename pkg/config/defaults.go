package config

const (
	defaultMessagingType = "mqtt"
	defaultBroker        = "tcp://localhost:1883"
	defaultClientID      = "promptrelay"
	defaultGroupID       = "promptrelay"
	defaultPromptTopic   = "ai/prompts"
	defaultResponseTopic = "ai/responses"

	defaultBackendBaseURL = "https://api.openai.com/v1"
	defaultModel          = "gpt-4o-mini"
	defaultMaxTokens      = 500
	defaultTemperature    = 0.7
	defaultSystemPrompt   = "You are a helpful assistant."

	defaultStorageDriver = "sqlite"
	defaultSQLitePath    = "promptrelay.db"

	defaultDashboardListen = ":8085"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Messaging: MessagingConfig{
			Type:          defaultMessagingType,
			Broker:        defaultBroker,
			ClientID:      defaultClientID,
			GroupID:       defaultGroupID,
			PromptTopic:   defaultPromptTopic,
			ResponseTopic: defaultResponseTopic,
		},
		Backend: BackendConfig{
			BaseURL:      defaultBackendBaseURL,
			Model:        defaultModel,
			MaxTokens:    defaultMaxTokens,
			Temperature:  defaultTemperature,
			SystemPrompt: defaultSystemPrompt,
		},
		Storage: StorageConfig{
			Driver:     defaultStorageDriver,
			SQLitePath: defaultSQLitePath,
		},
		Dashboard: DashboardConfig{
			Listen: defaultDashboardListen,
		},
		Discovery: DiscoveryConfig{
			Enabled: false,
		},
	}
}
