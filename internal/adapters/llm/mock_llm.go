package llm

import (
	"context"
	"fmt"

	"github.com/agrichat/agrichat/internal/domain"
)

// MockLLM is a deterministic Generator for local development and tests.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) GenerateReply(ctx context.Context, message string) (string, error) {
	return fmt.Sprintf("Here is some general advice about %q: start with a soil test and adjust from there.", message), nil
}

func (m *MockLLM) ListModels(ctx context.Context) ([]domain.ModelInfo, error) {
	return []domain.ModelInfo{
		{Name: "models/mock-advisor", DisplayName: "Mock Advisor"},
	}, nil
}
