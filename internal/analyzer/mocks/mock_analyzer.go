package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"receiptscan/internal/analyzer"
)

type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, contentType string, data []byte) (*analyzer.Extraction, error) {
	args := m.Called(ctx, contentType, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analyzer.Extraction), args.Error(1)
}
