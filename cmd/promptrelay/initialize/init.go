// Package initcmder provides the init command that seeds a dotdir with a
// default config.toml.
package initcmder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/azziedev/promptrelay/pkg/config"
)

type InitCommander struct {
	force bool
}

func NewInitCmd() *cobra.Command {
	cmder := &InitCommander{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "write a default config.toml",
		Long:  "Writes a default config.toml into the resolved .promptrelay/ directory.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, err := cmd.Flags().GetString("config")
			if err != nil {
				return fmt.Errorf("could not get config flag: %v", err)
			}
			return cmder.run(configDir)
		},
	}

	cmd.Flags().BoolVarP(&cmder.force, "force", "f", false, "Overwrite an existing config.toml")

	return cmd
}

func (c *InitCommander) run(configDir string) error {
	target, err := config.Dir(configDir)
	if err != nil {
		return fmt.Errorf("resolving config dir: %w", err)
	}

	path := filepath.Join(target, "config.toml")

	if !c.force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking %s: %w", path, err)
		}
	}

	if err := config.Save(path, config.NewDefaultConfig()); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", path)
	return nil
}
