package itemrequest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, r *Request) error {
	args := m.Called(ctx, r)
	r.ID = "new-request"
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Request), args.Error(1)
}

func (m *MockRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ListByRequester(ctx context.Context, requesterID string) ([]*Request, error) {
	args := m.Called(ctx, requesterID)
	list, _ := args.Get(0).([]*Request)
	return list, args.Error(1)
}

func (m *MockRepository) ListExcludingRequester(ctx context.Context, requesterID string, page request.Page) ([]*Request, int, error) {
	args := m.Called(ctx, requesterID, page)
	list, _ := args.Get(0).([]*Request)
	return list, args.Int(1), args.Error(2)
}

type MockItems struct {
	mock.Mock
}

func (m *MockItems) ListByRequestIDs(ctx context.Context, requestIDs []string) ([]*item.Item, error) {
	args := m.Called(ctx, requestIDs)
	items, _ := args.Get(0).([]*item.Item)
	return items, args.Error(1)
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

func strptr(s string) *string { return &s }

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("stores trimmed description", func(t *testing.T) {
		repo, users := new(MockRepository), new(MockUsers)
		users.On("GetByID", ctx, "u1").Return(&user.User{ID: "u1"}, nil)
		repo.On("Create", ctx, mock.MatchedBy(func(r *Request) bool {
			return r.Description == "a ladder" && r.RequesterID == "u1"
		})).Return(nil)

		req, err := NewService(repo, new(MockItems), users).Create(ctx, "u1", " a ladder ")
		require.NoError(t, err)
		assert.Equal(t, "new-request", req.ID)
	})

	t.Run("blank description", func(t *testing.T) {
		_, err := NewService(new(MockRepository), new(MockItems), new(MockUsers)).Create(ctx, "u1", "  ")
		assert.ErrorIs(t, err, ErrEmptyDescription)
	})

	t.Run("unknown requester", func(t *testing.T) {
		users := new(MockUsers)
		users.On("GetByID", ctx, "ghost").Return(nil, user.ErrNotFound)

		_, err := NewService(new(MockRepository), new(MockItems), users).Create(ctx, "ghost", "a ladder")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestListOthersAttachesItemsInOneQuery(t *testing.T) {
	ctx := context.Background()
	page := request.Page{Limit: 10}

	repo, items, users := new(MockRepository), new(MockItems), new(MockUsers)
	users.On("GetByID", ctx, "u1").Return(&user.User{ID: "u1"}, nil)
	repo.On("ListExcludingRequester", ctx, "u1", page).Return([]*Request{{ID: "r2"}, {ID: "r1"}}, 2, nil)
	items.On("ListByRequestIDs", ctx, []string{"r2", "r1"}).Return([]*item.Item{
		{ID: "i1", RequestID: strptr("r1")},
		{ID: "i2", RequestID: strptr("r1")},
	}, nil).Once()

	list, total, err := NewService(repo, items, users).ListOthers(ctx, "u1", page)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 2)
	assert.Empty(t, list[0].Items)
	assert.Len(t, list[1].Items, 2)
	items.AssertNumberOfCalls(t, "ListByRequestIDs", 1)
}

func TestListOwnEmpty(t *testing.T) {
	ctx := context.Background()

	repo, items, users := new(MockRepository), new(MockItems), new(MockUsers)
	users.On("GetByID", ctx, "u1").Return(&user.User{ID: "u1"}, nil)
	repo.On("ListByRequester", ctx, "u1").Return(nil, nil)

	list, err := NewService(repo, items, users).ListOwn(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
	items.AssertNotCalled(t, "ListByRequestIDs", mock.Anything, mock.Anything)
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("missing request", func(t *testing.T) {
		repo, users := new(MockRepository), new(MockUsers)
		users.On("GetByID", ctx, "u1").Return(&user.User{ID: "u1"}, nil)
		repo.On("GetByID", ctx, "nope").Return(nil, ErrNotFound)

		_, err := NewService(repo, new(MockItems), users).GetByID(ctx, "nope", "u1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("with items", func(t *testing.T) {
		repo, items, users := new(MockRepository), new(MockItems), new(MockUsers)
		users.On("GetByID", ctx, "u1").Return(&user.User{ID: "u1"}, nil)
		repo.On("GetByID", ctx, "r1").Return(&Request{ID: "r1", RequesterID: "u2"}, nil)
		items.On("ListByRequestIDs", ctx, []string{"r1"}).Return([]*item.Item{{ID: "i1", RequestID: strptr("r1")}}, nil)

		w, err := NewService(repo, items, users).GetByID(ctx, "r1", "u1")
		require.NoError(t, err)
		assert.Equal(t, "r1", w.Request.ID)
		assert.Len(t, w.Items, 1)
	})
}

func TestOthersQuery(t *testing.T) {
	query, args, err := othersQuery("u1", request.Page{Offset: 10, Limit: 10}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "WHERE requester_id <> $1")
	assert.Contains(t, query, "ORDER BY created_at DESC, id DESC")
	assert.Contains(t, query, "LIMIT 10 OFFSET 10")
	assert.Equal(t, []any{"u1"}, args)
}
