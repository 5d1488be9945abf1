package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, req item.CreateRequest) (*item.Item, error) {
	args := m.Called(ctx, req)
	it, _ := args.Get(0).(*item.Item)
	return it, args.Error(1)
}

func (m *MockService) Update(ctx context.Context, id, actorID string, req item.UpdateRequest) (*item.Item, error) {
	args := m.Called(ctx, id, actorID, req)
	it, _ := args.Get(0).(*item.Item)
	return it, args.Error(1)
}

func (m *MockService) GetByID(ctx context.Context, id, requesterID string) (*item.Details, error) {
	args := m.Called(ctx, id, requesterID)
	d, _ := args.Get(0).(*item.Details)
	return d, args.Error(1)
}

func (m *MockService) ListByOwner(ctx context.Context, ownerID string, page request.Page) ([]*item.Details, int, error) {
	args := m.Called(ctx, ownerID, page)
	list, _ := args.Get(0).([]*item.Details)
	return list, args.Int(1), args.Error(2)
}

func (m *MockService) Search(ctx context.Context, text string, page request.Page) ([]*item.Item, int, error) {
	args := m.Called(ctx, text, page)
	list, _ := args.Get(0).([]*item.Item)
	return list, args.Int(1), args.Error(2)
}

func (m *MockService) AddComment(ctx context.Context, itemID, authorID, text string) (*item.Comment, error) {
	args := m.Called(ctx, itemID, authorID, text)
	cm, _ := args.Get(0).(*item.Comment)
	return cm, args.Error(1)
}

const itemID = "0b6c2f4e-8d1a-4e7b-9c3f-5a2d1e0f9b84"

func setupRouter(svc item.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	fakeAuth := func(c *gin.Context) {
		auth.SetIdentity(c, "u1", "u1@example.com")
		c.Next()
	}
	RegisterRoutes(r.Group("/v1"), NewHandler(svc), fakeAuth)
	return r
}

func do(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAddComment(t *testing.T) {
	t.Run("without finished booking", func(t *testing.T) {
		svc := new(MockService)
		svc.On("AddComment", mock.Anything, itemID, "u1", "great drill").Return(nil, item.ErrNotBorrowed)

		w := do(setupRouter(svc), http.MethodPost, "/v1/items/"+itemID+"/comment", `{"text":"great drill"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var body response.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "NOT_AVAILABLE", body.Code)
	})

	t.Run("created", func(t *testing.T) {
		svc := new(MockService)
		created := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
		svc.On("AddComment", mock.Anything, itemID, "u1", "great drill").
			Return(&item.Comment{ID: "c1", ItemID: itemID, AuthorID: "u1", AuthorName: "Bea", Text: "great drill", CreatedAt: created}, nil)

		w := do(setupRouter(svc), http.MethodPost, "/v1/items/"+itemID+"/comment", `{"text":"great drill"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"id":"c1","text":"great drill","author_name":"Bea","created":"2026-10-18T12:00:00Z"}`, w.Body.String())
	})

	t.Run("missing text", func(t *testing.T) {
		svc := new(MockService)
		w := do(setupRouter(svc), http.MethodPost, "/v1/items/"+itemID+"/comment", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "AddComment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestListOwn(t *testing.T) {
	svc := new(MockService)
	svc.On("ListByOwner", mock.Anything, "u1", request.Page{Offset: 0, Limit: 10}).Return([]*item.Details{
		{
			Item:        &item.Item{ID: itemID, Name: "Drill", OwnerID: "u1", Available: true},
			LastBooking: &item.BookingSummary{ID: "b1", BookerID: "u2"},
			Comments:    []*item.Comment{{ID: "c1", Text: "ok", AuthorName: "Bea"}},
		},
		{Item: &item.Item{ID: "i2", Name: "Ladder", OwnerID: "u1"}},
	}, 2, nil)

	w := do(setupRouter(svc), http.MethodGet, "/v1/items", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var body response.PageResponse[DetailsResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Total)
	require.Len(t, body.Items, 2)

	assert.Equal(t, "Drill", body.Items[0].Name)
	require.NotNil(t, body.Items[0].LastBooking)
	assert.Equal(t, "u2", body.Items[0].LastBooking.BookerID)
	assert.Nil(t, body.Items[0].NextBooking)
	assert.Len(t, body.Items[0].Comments, 1)

	assert.Nil(t, body.Items[1].LastBooking)
	assert.NotNil(t, body.Items[1].Comments)
	assert.Contains(t, w.Body.String(), `"next_booking":null`)
}

func TestGet(t *testing.T) {
	t.Run("rejects malformed id", func(t *testing.T) {
		svc := new(MockService)
		w := do(setupRouter(svc), http.MethodGet, "/v1/items/not-a-uuid", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockService)
		svc.On("GetByID", mock.Anything, itemID, "u1").Return(nil, item.ErrNotFound)

		w := do(setupRouter(svc), http.MethodGet, "/v1/items/"+itemID, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCreate(t *testing.T) {
	t.Run("availability is required", func(t *testing.T) {
		svc := new(MockService)
		w := do(setupRouter(svc), http.MethodPost, "/v1/items", `{"name":"Drill","description":"cordless"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("owner comes from the token", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Create", mock.Anything, item.CreateRequest{OwnerID: "u1", Name: "Drill", Description: "cordless", Available: false}).
			Return(&item.Item{ID: itemID, Name: "Drill", Description: "cordless", OwnerID: "u1"}, nil)

		w := do(setupRouter(svc), http.MethodPost, "/v1/items", `{"name":"Drill","description":"cordless","available":false}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"owner_id":"u1"`)
	})
}

func TestSearch(t *testing.T) {
	svc := new(MockService)
	svc.On("Search", mock.Anything, "drill", request.Page{Offset: 10, Limit: 5}).
		Return([]*item.Item{{ID: itemID, Name: "Drill", Available: true}}, 11, nil)

	w := do(setupRouter(svc), http.MethodGet, "/v1/items/search?text=drill&from=12&size=5", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var body response.PageResponse[ItemResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 10, body.From)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "Drill", body.Items[0].Name)
}

func TestUpdateForbidden(t *testing.T) {
	svc := new(MockService)
	svc.On("Update", mock.Anything, itemID, "u1", mock.AnythingOfType("item.UpdateRequest")).Return(nil, item.ErrNotOwner)

	w := do(setupRouter(svc), http.MethodPatch, "/v1/items/"+itemID, `{"name":"Saw"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
