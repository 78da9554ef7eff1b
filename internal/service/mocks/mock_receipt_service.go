package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"receiptscan/internal/model"
	"receiptscan/internal/service"
)

type MockReceiptService struct {
	mock.Mock
}

func (m *MockReceiptService) Upload(ctx context.Context, r io.Reader, fileName string, contentType string, size int64) (*model.Receipt, error) {
	args := m.Called(ctx, r, fileName, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Receipt), args.Error(1)
}

func (m *MockReceiptService) FindAll(ctx context.Context) ([]model.Receipt, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Receipt), args.Error(1)
}

func (m *MockReceiptService) FindFile(ctx context.Context, id string) (*service.ReceiptFile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReceiptFile), args.Error(1)
}

func (m *MockReceiptService) PresignFile(ctx context.Context, id string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, id, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockReceiptService) Approve(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReceiptService) RepeatAnalysis(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReceiptService) UpdateFields(ctx context.Context, id string, patch service.FieldPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockReceiptService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
