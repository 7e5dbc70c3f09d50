// Package vectorizer defines the best-effort embedding hook the service
// calls when a task is submitted. The default implementation is a no-op;
// a real implementation can be wired in without touching the service
// layer, which only ever sees the Client interface.
package vectorizer

import "context"

// Client indexes task context as embeddings in some external store.
// Implementations must never block the caller for long and must treat
// every failure as non-fatal to the caller's mutation.
type Client interface {
	Index(ctx context.Context, taskID, text string) error
}

// Noop is the default Client: it does nothing and never errors.
type Noop struct{}

func (Noop) Index(ctx context.Context, taskID, text string) error { return nil }
