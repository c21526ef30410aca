package adapter

import (
	"context"

	"github.com/zen-systems/reviewgate/pkg/conversation"
)

// Adapter defines the interface for LLM provider adapters.
type Adapter interface {
	// Generate sends a conversation to the model and returns the response.
	// Adapters must be safe to call repeatedly with independent
	// conversations; no state leaks between calls.
	Generate(ctx context.Context, model string, conv conversation.Conversation) (*Response, error)

	// Name returns the adapter's identifier.
	Name() string

	// Models returns the list of supported models.
	Models() []string
}

// AdapterInfo holds metadata about an adapter.
type AdapterInfo struct {
	Name   string
	Models []ModelInfo
}

// ModelInfo holds metadata about a model.
type ModelInfo struct {
	ID          string
	Description string
}
