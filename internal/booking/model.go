package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

var (
	ErrNotFound         = apperror.NotFound("booking not found")
	ErrItemNotFound     = apperror.NotFound("item not found")
	ErrUserNotFound     = apperror.NotFound("user not found")
	ErrOwnItem          = apperror.NotFound("item not found")
	ErrNotAvailable     = apperror.NotAvailable("item is not available for booking")
	ErrInvalidTimeRange = apperror.InvalidArgument("start time must be before end time")
	ErrStartInPast      = apperror.InvalidArgument("booking cannot start in the past")
	ErrNotItemOwner     = apperror.Forbidden("only the item owner can approve or reject a booking")
	ErrAlreadyDecided   = apperror.AlreadyDone("booking status has already been decided")
)

type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	// StatusCanceled is accepted from storage but nothing transitions into it.
	StatusCanceled Status = "CANCELED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusWaiting, StatusApproved, StatusRejected, StatusCanceled:
		return true
	default:
		return false
	}
}

// State is the listing filter. It mixes time windows with statuses.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// ParseState reads a state token case-insensitively. An empty token means ALL.
func ParseState(s string) (State, error) {
	token := strings.ToUpper(strings.TrimSpace(s))
	if token == "" {
		return StateAll, nil
	}
	st := State(token)
	if !st.Valid() {
		return "", unknownStateError(State(s))
	}
	return st, nil
}

func unknownStateError(s State) error {
	return apperror.InvalidArgument(fmt.Sprintf("Unknown state: %s", string(s)))
}

func (s State) Valid() bool {
	switch s {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return true
	default:
		return false
	}
}

type Booking struct {
	ID          string
	ItemID      string
	ItemName    string
	ItemOwnerID string
	BookerID    string
	BookerName  string
	StartTime   time.Time
	EndTime     time.Time
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Window is where the booking stood when it was read. Not persisted.
	Window Window
}

func classifyAll(bookings []*Booking, now time.Time) {
	for _, b := range bookings {
		b.Window = Classify(b.StartTime, b.EndTime, now)
	}
}

// ListQuery selects one page of bookings in a state, evaluated at Now.
type ListQuery struct {
	State State
	Now   time.Time
	Page  request.Page
}
