package itemrequest

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.NotFound("item request not found")
	ErrUserNotFound     = apperror.NotFound("user not found")
	ErrEmptyDescription = apperror.InvalidArgument("description cannot be empty")
)

// Request is a "wanted" post. Owners answer it by creating items that reference it.
type Request struct {
	ID          string
	Description string
	RequesterID string
	CreatedAt   time.Time
}

// WithItems is a request together with the items created in answer to it.
type WithItems struct {
	Request *Request
	Items   []*item.Item
}
