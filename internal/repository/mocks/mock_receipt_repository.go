package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"receiptscan/internal/model"
)

type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) ExistsByName(ctx context.Context, fileName string) (bool, error) {
	args := m.Called(ctx, fileName)
	return args.Bool(0), args.Error(1)
}

func (m *MockReceiptRepository) FindAll(ctx context.Context) ([]model.Receipt, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindByID(ctx context.Context, id string) (*model.Receipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindOneByStateAndUpdatedBefore(ctx context.Context, state model.State, updatedBefore time.Time) (*model.Receipt, error) {
	args := m.Called(ctx, state, updatedBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindByStateLimited(ctx context.Context, state model.State, limit int) ([]model.Receipt, error) {
	args := m.Called(ctx, state, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) Insert(ctx context.Context, r *model.Receipt) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReceiptRepository) Update(ctx context.Context, r *model.Receipt) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReceiptRepository) UpdateBatch(ctx context.Context, receipts []*model.Receipt) error {
	args := m.Called(ctx, receipts)
	return args.Error(0)
}

func (m *MockReceiptRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
