// Package versioncmder prints build metadata.
package versioncmder

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/azziedev/promptrelay/pkg/utils"
)

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print build information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "promptrelay %s (%s) built %s with %s\n",
				utils.Version, utils.Sha, utils.Buildtime, runtime.Version())
		},
	}
}
