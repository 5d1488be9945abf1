package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

type CreateRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Description string  `json:"description" binding:"required,max=1000"`
	Available   *bool   `json:"available" binding:"required"`
	RequestID   *string `json:"request_id" binding:"omitempty,uuid"`
}

type UpdateRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Available   *bool   `json:"available"`
}

type SearchRequest struct {
	request.ListParams
	Text string `form:"text"`
}

type CommentRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

type ItemResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Available   bool      `json:"available"`
	OwnerID     string    `json:"owner_id"`
	RequestID   *string   `json:"request_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ItemTag is a brief representation of an item.
type ItemTag struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type BookingSummaryResponse struct {
	ID       string `json:"id"`
	BookerID string `json:"booker_id"`
}

type CommentResponse struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created"`
}

// DetailsResponse is an item with its booking summaries and comments.
type DetailsResponse struct {
	ItemResponse
	LastBooking *BookingSummaryResponse `json:"last_booking"`
	NextBooking *BookingSummaryResponse `json:"next_booking"`
	Comments    []CommentResponse       `json:"comments"`
}

func NewItemResponse(it *item.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		OwnerID:     it.OwnerID,
		RequestID:   it.RequestID,
		CreatedAt:   it.CreatedAt,
	}
}

func newBookingSummary(b *item.BookingSummary) *BookingSummaryResponse {
	if b == nil {
		return nil
	}
	return &BookingSummaryResponse{ID: b.ID, BookerID: b.BookerID}
}

func NewCommentResponse(cm *item.Comment) CommentResponse {
	return CommentResponse{
		ID:         cm.ID,
		Text:       cm.Text,
		AuthorName: cm.AuthorName,
		CreatedAt:  cm.CreatedAt,
	}
}

func NewDetailsResponse(d *item.Details) DetailsResponse {
	comments := make([]CommentResponse, len(d.Comments))
	for i, cm := range d.Comments {
		comments[i] = NewCommentResponse(cm)
	}
	return DetailsResponse{
		ItemResponse: NewItemResponse(d.Item),
		LastBooking:  newBookingSummary(d.LastBooking),
		NextBooking:  newBookingSummary(d.NextBooking),
		Comments:     comments,
	}
}
