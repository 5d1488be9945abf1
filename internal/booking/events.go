package booking

import (
	"context"
	"log/slog"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/metrics"
)

const (
	EventCreated  = "booking.created"
	EventApproved = "booking.approved"
	EventRejected = "booking.rejected"
)

// Event is the message published after a booking changes.
type Event struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id"`
	ItemID     string    `json:"item_id"`
	OwnerID    string    `json:"owner_id"`
	BookerID   string    `json:"booker_id"`
	Status     Status    `json:"status"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher delivers events to interested consumers.
// *mq.Publisher satisfies it.
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

type nopPublisher struct{}

func (nopPublisher) PublishJSON(context.Context, string, any) error { return nil }

// NopPublisher drops every event.
func NopPublisher() EventPublisher { return nopPublisher{} }

func newEvent(eventType string, b *Booking, now time.Time) Event {
	return Event{
		Type:       eventType,
		BookingID:  b.ID,
		ItemID:     b.ItemID,
		OwnerID:    b.ItemOwnerID,
		BookerID:   b.BookerID,
		Status:     b.Status,
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
		OccurredAt: now,
	}
}

// publish never fails the caller; the booking is already stored.
func (s *service) publish(ctx context.Context, eventType string, b *Booking, now time.Time) {
	if err := s.events.PublishJSON(ctx, eventType, newEvent(eventType, b, now)); err != nil {
		metrics.RecordEventPublishFailure(eventType)
		slog.WarnContext(ctx, "publish booking event failed",
			"event", eventType,
			"booking_id", b.ID,
			"err", err,
		)
	}
}
