package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"receiptscan/internal/service"
)

type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) ProcessBatch(ctx context.Context, batchSize int) (*service.ProcessReport, error) {
	args := m.Called(ctx, batchSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProcessReport), args.Error(1)
}

func (m *MockProcessor) ProcessNext(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockProcessor) RecoverStale(ctx context.Context, staleness time.Duration) (int, error) {
	args := m.Called(ctx, staleness)
	return args.Int(0), args.Error(1)
}
