package adapter

import (
	"context"
	"fmt"

	"github.com/zen-systems/reviewgate/pkg/conversation"
)

// MockAdapter returns deterministic responses for local runs and tests.
// Responses are keyed by the text of the last message in the conversation.
type MockAdapter struct {
	responses       map[string]string
	defaultResponse string
	Usage           *Usage
}

// NewMockAdapter creates a mock adapter with a default response.
func NewMockAdapter() *MockAdapter {
	return &MockAdapter{
		responses:       make(map[string]string),
		defaultResponse: "mock response:",
	}
}

// NewMockAdapterWithResponses creates a mock adapter with predefined responses.
func NewMockAdapterWithResponses(responses map[string]string, defaultResponse string) *MockAdapter {
	if defaultResponse == "" {
		defaultResponse = "mock response:"
	}
	return &MockAdapter{responses: responses, defaultResponse: defaultResponse}
}

// Name returns the adapter identifier.
func (a *MockAdapter) Name() string {
	return "mock"
}

// Models returns the list of supported mock models.
func (a *MockAdapter) Models() []string {
	return []string{"mock-1"}
}

// Generate returns a deterministic response for the conversation. The
// output is a pure function of the last message, so repeated runs over
// identical input produce identical results.
func (a *MockAdapter) Generate(_ context.Context, model string, conv conversation.Conversation) (*Response, error) {
	if model == "" {
		model = "mock-1"
	}
	last, ok := conv.Last()
	if !ok {
		return nil, fmt.Errorf("mock adapter requires a non-empty conversation")
	}
	if response, ok := a.responses[last.Text]; ok {
		return &Response{Text: response, Usage: a.Usage}, nil
	}
	content := fmt.Sprintf("%s\n%s", a.defaultResponse, last.Text)
	return &Response{Text: content, Usage: a.Usage}, nil
}
