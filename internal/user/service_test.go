package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	u.ID = "generated-id"
	return args.Error(0)
}

func (m *MockRepository) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	return m.Called(ctx, id, t).Error(0)
}

var testNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func newTestService(repo Repository) Service {
	return NewService(repo, auth.NewBcryptPasswordHasherWithCost(4), clock.Fixed(testNow))
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes and stores hashed password", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByEmail", ctx, "ann@example.com").Return(nil, ErrNotFound)
		repo.On("Create", ctx, mock.MatchedBy(func(u *User) bool {
			return u.Email == "ann@example.com" && u.Name == "Ann" && u.PasswordHash != "password1"
		})).Return(nil)

		u, err := newTestService(repo).Register(ctx, "  Ann@Example.com ", "password1", " Ann ")
		require.NoError(t, err)
		assert.Equal(t, "generated-id", u.ID)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByEmail", ctx, "ann@example.com").Return(&User{ID: "u1"}, nil)

		_, err := newTestService(repo).Register(ctx, "ann@example.com", "password1", "Ann")
		assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("validation", func(t *testing.T) {
		svc := newTestService(new(MockRepository))

		_, err := svc.Register(ctx, " ", "password1", "Ann")
		assert.ErrorIs(t, err, ErrEmailRequired)
		_, err = svc.Register(ctx, "a@b.c", "password1", "")
		assert.ErrorIs(t, err, ErrNameRequired)
		_, err = svc.Register(ctx, "a@b.c", "short", "Ann")
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	hash, err := auth.NewBcryptPasswordHasherWithCost(4).Hash("password1")
	require.NoError(t, err)
	stored := &User{ID: "u1", Email: "ann@example.com", PasswordHash: hash}

	t.Run("success records last login", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByEmail", ctx, "ann@example.com").Return(stored, nil)
		repo.On("UpdateLastLogin", ctx, "u1", testNow).Return(nil)

		u, err := newTestService(repo).Login(ctx, "ann@example.com", "password1")
		require.NoError(t, err)
		require.NotNil(t, u.LastLoginAt)
		assert.Equal(t, testNow, *u.LastLoginAt)
	})

	t.Run("bookkeeping failure does not fail login", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByEmail", ctx, "ann@example.com").Return(&User{ID: "u1", PasswordHash: hash}, nil)
		repo.On("UpdateLastLogin", ctx, "u1", testNow).Return(errors.New("db down"))

		_, err := newTestService(repo).Login(ctx, "ann@example.com", "password1")
		assert.NoError(t, err)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByEmail", ctx, "ann@example.com").Return(stored, nil)
		repo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, ErrNotFound)
		svc := newTestService(repo)

		_, err := svc.Login(ctx, "ann@example.com", "nope-nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = svc.Login(ctx, "ghost@example.com", "password1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
