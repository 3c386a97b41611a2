package extract

import (
	"context"
)

// MockExtractor is a configurable mock for testing extraction callers.
// Set ExtractFunc to control behavior in tests.
type MockExtractor struct {
	// ExtractFunc is called when Extract is invoked.
	// If nil, returns nil labels and nil error.
	ExtractFunc func(ctx context.Context, text string) ([]string, error)

	// Call tracking for verification
	ExtractCalls int
	Inputs       []string
}

// NewMockExtractor creates a new mock extractor.
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{}
}

// Extract implements TechExtractor.
func (m *MockExtractor) Extract(ctx context.Context, text string) ([]string, error) {
	m.ExtractCalls++
	m.Inputs = append(m.Inputs, text)
	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, text)
	}
	return nil, nil
}

// Reset clears call tracking.
func (m *MockExtractor) Reset() {
	m.ExtractCalls = 0
	m.Inputs = nil
}

// Ensure MockExtractor implements TechExtractor at compile time.
var _ TechExtractor = (*MockExtractor)(nil)
