package main

import (
	"os"

	relaycmder "github.com/azziedev/promptrelay/cmd/promptrelay"
)

func main() {
	cmd := relaycmder.NewRelayCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
