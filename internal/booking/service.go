package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/metrics"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// ItemReader is the part of the item store bookings depend on.
type ItemReader interface {
	GetByID(ctx context.Context, id string) (*item.Item, error)
	ExistsByOwner(ctx context.Context, ownerID string) (bool, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

type CreateRequest struct {
	ItemID    string
	BookerID  string
	StartTime time.Time
	EndTime   time.Time
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	Approve(ctx context.Context, id, actorID string, approved bool) (*Booking, error)
	GetByID(ctx context.Context, id, requesterID string) (*Booking, error)
	ListForBooker(ctx context.Context, bookerID string, state State, page request.Page) ([]*Booking, int, error)
	ListForOwner(ctx context.Context, ownerID string, state State, page request.Page) ([]*Booking, int, error)
}

type service struct {
	repo   Repository
	items  ItemReader
	users  UserReader
	events EventPublisher
	clock  clock.Clock
}

func NewService(repo Repository, items ItemReader, users UserReader, events EventPublisher, clk clock.Clock) Service {
	if events == nil {
		events = NopPublisher()
	}
	return &service{
		repo:   repo,
		items:  items,
		users:  users,
		events: events,
		clock:  clk,
	}
}

func (s *service) requireUser(ctx context.Context, id string) (*user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// Create books an item for a user. Checks run in a fixed order and the first
// failure is returned; nothing is written before all of them pass.
// Overlapping bookings of one item are allowed.
func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	// 1. Item exists
	it, err := s.items.GetByID(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, item.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	// 2. Booker exists
	booker, err := s.requireUser(ctx, req.BookerID)
	if err != nil {
		return nil, err
	}

	// 3. Owners cannot book their own item; reported as a missing item
	if it.OwnerID == booker.ID {
		slog.InfoContext(ctx, "booking of own item rejected", "item_id", it.ID, "user_id", booker.ID)
		return nil, ErrOwnItem
	}

	// 4. Item is offered
	if !it.Available {
		slog.InfoContext(ctx, "booking of unavailable item rejected", "item_id", it.ID, "user_id", booker.ID)
		return nil, ErrNotAvailable
	}

	// 5. Time range, which may not start before now
	now := s.clock.Now()
	if !req.StartTime.Before(req.EndTime) {
		return nil, ErrInvalidTimeRange
	}
	if req.StartTime.Before(now) {
		slog.InfoContext(ctx, "booking in the past rejected", "item_id", it.ID, "user_id", booker.ID)
		return nil, ErrStartInPast
	}

	b := &Booking{
		ItemID:      it.ID,
		ItemName:    it.Name,
		ItemOwnerID: it.OwnerID,
		BookerID:    booker.ID,
		BookerName:  booker.Name,
		StartTime:   req.StartTime.UTC(),
		EndTime:     req.EndTime.UTC(),
		Status:      StatusWaiting,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	b.Window = Classify(b.StartTime, b.EndTime, now)

	metrics.RecordBookingCreated()
	s.publish(ctx, EventCreated, b, now)

	return b, nil
}

// Approve records the owner's decision on a waiting booking.
// Concurrent decisions on the same booking are not serialized; the last write wins.
func (s *service) Approve(ctx context.Context, id, actorID string, approved bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if b.ItemOwnerID != actorID {
		slog.InfoContext(ctx, "booking decision by non-owner rejected", "booking_id", id, "user_id", actorID)
		return nil, ErrNotItemOwner
	}

	if b.Status != StatusWaiting {
		slog.InfoContext(ctx, "booking already decided", "booking_id", id, "status", b.Status)
		return nil, ErrAlreadyDecided
	}

	event := EventRejected
	b.Status = StatusRejected
	if approved {
		event = EventApproved
		b.Status = StatusApproved
	}

	if err := s.repo.UpdateStatus(ctx, b); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	b.Window = Classify(b.StartTime, b.EndTime, now)

	metrics.RecordBookingDecision(string(b.Status))
	s.publish(ctx, event, b, now)

	return b, nil
}

// GetByID returns a booking to its booker or the item owner.
// Anyone else is told it does not exist.
func (s *service) GetByID(ctx context.Context, id, requesterID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.BookerID != requesterID && b.ItemOwnerID != requesterID {
		return nil, ErrNotFound
	}
	b.Window = Classify(b.StartTime, b.EndTime, s.clock.Now())
	return b, nil
}

func (s *service) ListForBooker(ctx context.Context, bookerID string, state State, page request.Page) ([]*Booking, int, error) {
	if !state.Valid() {
		return nil, 0, unknownStateError(state)
	}
	if _, err := s.requireUser(ctx, bookerID); err != nil {
		return nil, 0, err
	}

	return s.list(state, page, func(q ListQuery) ([]*Booking, int, error) {
		return s.repo.ListByBooker(ctx, bookerID, q)
	})
}

// ListForOwner lists bookings of every item the owner has.
// An owner without items gets an empty page and no booking query is made.
func (s *service) ListForOwner(ctx context.Context, ownerID string, state State, page request.Page) ([]*Booking, int, error) {
	if !state.Valid() {
		return nil, 0, unknownStateError(state)
	}
	if _, err := s.requireUser(ctx, ownerID); err != nil {
		return nil, 0, err
	}

	owns, err := s.items.ExistsByOwner(ctx, ownerID)
	if err != nil {
		return nil, 0, err
	}
	if !owns {
		return nil, 0, nil
	}

	return s.list(state, page, func(q ListQuery) ([]*Booking, int, error) {
		return s.repo.ListByOwner(ctx, ownerID, q)
	})
}

// list runs one listing at a single instant and classifies the rows against it.
func (s *service) list(state State, page request.Page, fetch func(ListQuery) ([]*Booking, int, error)) ([]*Booking, int, error) {
	q := ListQuery{State: state, Now: s.clock.Now(), Page: page}
	bookings, total, err := fetch(q)
	if err != nil {
		return nil, 0, err
	}
	classifyAll(bookings, q.Now)
	return bookings, total, nil
}
