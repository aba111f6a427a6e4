// Package utils holds build metadata injected at link time.
package utils

// Overridden via -ldflags "-X github.com/azziedev/promptrelay/pkg/utils.Version=..."
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)
