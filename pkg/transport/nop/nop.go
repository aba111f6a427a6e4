// Package nop provides a no-op transport for dashboard-only deployments and
// tests.
package nop

import (
	"context"

	"github.com/azziedev/promptrelay/pkg/transport"
)

// Transport accepts every call and does nothing.
type Transport struct{}

// New creates a no-op transport.
func New() *Transport {
	return &Transport{}
}

// Name returns the variant name.
func (t *Transport) Name() string {
	return "nop"
}

// Subscribe registers nothing; no messages ever arrive.
func (t *Transport) Subscribe(_ context.Context, _ transport.Handler) error {
	return nil
}

// Publish discards the response.
func (t *Transport) Publish(_ context.Context, _ transport.Response) error {
	return nil
}

// Close is a no-op.
func (t *Transport) Close() error {
	return nil
}

var _ transport.Transport = (*Transport)(nil)
