package item

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.NotFound("item not found")
	ErrUserNotFound     = apperror.NotFound("user not found")
	ErrRequestNotFound  = apperror.NotFound("item request not found")
	ErrNotOwner         = apperror.Forbidden("only the owner can change an item")
	ErrEmptyName        = apperror.InvalidArgument("name cannot be empty")
	ErrEmptyDescription = apperror.InvalidArgument("description cannot be empty")
	ErrEmptyPatch       = apperror.InvalidArgument("no item fields to update")
	ErrEmptyComment     = apperror.InvalidArgument("comment text cannot be empty")
	ErrNotBorrowed      = apperror.NotAvailable("only users whose booking of the item has ended can comment on it")
)

// Item is a physical thing an owner lends out.
// Available is a plain flag set by the owner; it is never derived from bookings.
type Item struct {
	ID          string
	Name        string
	Description string
	Available   bool
	OwnerID     string
	RequestID   *string
	CreatedAt   time.Time
}

// Comment is feedback left by a former borrower.
type Comment struct {
	ID         string
	ItemID     string
	AuthorID   string
	AuthorName string
	Text       string
	CreatedAt  time.Time
}

// BookingSummary is the minimal booking projection attached to item views.
type BookingSummary struct {
	ID       string
	BookerID string
}

// BookingPair holds the last and next booking of one item. Either may be nil.
type BookingPair struct {
	Last *BookingSummary
	Next *BookingSummary
}

// Details is an item as shown on detail and owner listing pages.
type Details struct {
	Item        *Item
	LastBooking *BookingSummary
	NextBooking *BookingSummary
	Comments    []*Comment
}
