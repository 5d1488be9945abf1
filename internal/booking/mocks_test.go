package booking

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, b *Booking) error {
	args := m.Called(ctx, b)
	b.ID = "new-booking"
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, b *Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockRepository) ListByBooker(ctx context.Context, bookerID string, q ListQuery) ([]*Booking, int, error) {
	args := m.Called(ctx, bookerID, q)
	list, _ := args.Get(0).([]*Booking)
	return list, args.Int(1), args.Error(2)
}

func (m *MockRepository) ListByOwner(ctx context.Context, ownerID string, q ListQuery) ([]*Booking, int, error) {
	args := m.Called(ctx, ownerID, q)
	list, _ := args.Get(0).([]*Booking)
	return list, args.Int(1), args.Error(2)
}

func (m *MockRepository) FindLastEnded(ctx context.Context, itemIDs []string, now time.Time, statuses []Status) (map[string]*item.BookingSummary, error) {
	args := m.Called(ctx, itemIDs, now, statuses)
	result, _ := args.Get(0).(map[string]*item.BookingSummary)
	return result, args.Error(1)
}

func (m *MockRepository) FindCurrent(ctx context.Context, itemIDs []string, now time.Time, statuses []Status) (map[string]*item.BookingSummary, error) {
	args := m.Called(ctx, itemIDs, now, statuses)
	result, _ := args.Get(0).(map[string]*item.BookingSummary)
	return result, args.Error(1)
}

func (m *MockRepository) FindNext(ctx context.Context, itemIDs []string, now time.Time, statuses []Status) (map[string]*item.BookingSummary, error) {
	args := m.Called(ctx, itemIDs, now, statuses)
	result, _ := args.Get(0).(map[string]*item.BookingSummary)
	return result, args.Error(1)
}

func (m *MockRepository) ExistsFinished(ctx context.Context, bookerID, itemID string, now time.Time) (bool, error) {
	args := m.Called(ctx, bookerID, itemID, now)
	return args.Bool(0), args.Error(1)
}

type MockItems struct {
	mock.Mock
}

func (m *MockItems) GetByID(ctx context.Context, id string) (*item.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*item.Item), args.Error(1)
}

func (m *MockItems) ExistsByOwner(ctx context.Context, ownerID string) (bool, error) {
	args := m.Called(ctx, ownerID)
	return args.Bool(0), args.Error(1)
}

type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) GetByID(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishJSON(ctx context.Context, key string, v any) error {
	return m.Called(ctx, key, v).Error(0)
}
