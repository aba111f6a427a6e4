// Package relaycmder provides the root promptrelay command.
package relaycmder

import (
	"github.com/spf13/cobra"

	initcmder "github.com/azziedev/promptrelay/cmd/promptrelay/initialize"
	servecmder "github.com/azziedev/promptrelay/cmd/promptrelay/serve"
	versioncmder "github.com/azziedev/promptrelay/cmd/version"
)

const relayLongDesc string = `PromptRelay bridges pub/sub messaging to a chat-completion backend.

Devices publish prompts on a broker topic; promptrelay resolves the thread's
prior turns, calls the completion backend, persists the exchange, and
publishes the answer back.

  promptrelay init     Write a default config.toml
  promptrelay serve    Run the bridge`

const relayShortDesc string = "PromptRelay - messaging to AI bridge"

func NewRelayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promptrelay",
		Short: relayShortDesc,
		Long:  relayLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().StringP("config", "c", "", "Override config directory (default: ./.promptrelay or ~/.promptrelay)")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
