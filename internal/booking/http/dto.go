package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	itemHttp "github.com/nekogravitycat/shareit-backend/internal/item/http"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	userHttp "github.com/nekogravitycat/shareit-backend/internal/user/http"
)

// CreateBookingRequest is the payload for POST /v1/bookings.
type CreateBookingRequest struct {
	ItemID    string    `json:"item_id" binding:"required,uuid"`
	StartTime time.Time `json:"start" binding:"required"`
	EndTime   time.Time `json:"end" binding:"required"`
}

// ApproveRequest holds the owner's decision for PATCH /v1/bookings/:id.
type ApproveRequest struct {
	Approved *bool `form:"approved" binding:"required"`
}

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.ListParams
	State string `form:"state"`
}

type BookingResponse struct {
	ID        string           `json:"id"`
	Item      itemHttp.ItemTag `json:"item"`
	Booker    userHttp.UserTag `json:"booker"`
	StartTime time.Time        `json:"start"`
	EndTime   time.Time        `json:"end"`
	Status    string           `json:"status"`
	Window    string           `json:"window"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		Item:      itemHttp.ItemTag{ID: b.ItemID, Name: b.ItemName},
		Booker:    userHttp.UserTag{ID: b.BookerID, Name: b.BookerName},
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Status:    string(b.Status),
		Window:    b.Window.String(),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
