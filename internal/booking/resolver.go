package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
)

// resolvableStatuses are the statuses that count as an item's last or next booking.
var resolvableStatuses = []Status{StatusWaiting, StatusApproved}

// Resolver answers item-level booking questions. It implements item.BookingLookup.
type Resolver struct {
	repo Repository
}

func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// ResolveLastNext computes the last and next booking of every item with three
// store queries, whatever the number of items. A booking containing now takes
// precedence over one that already ended. Items without either are absent from
// the result.
func (r *Resolver) ResolveLastNext(ctx context.Context, itemIDs []string, now time.Time) (map[string]item.BookingPair, error) {
	pairs := make(map[string]item.BookingPair)
	if len(itemIDs) == 0 {
		return pairs, nil
	}

	last, err := r.repo.FindLastEnded(ctx, itemIDs, now, resolvableStatuses)
	if err != nil {
		return nil, fmt.Errorf("find last bookings: %w", err)
	}
	current, err := r.repo.FindCurrent(ctx, itemIDs, now, resolvableStatuses)
	if err != nil {
		return nil, fmt.Errorf("find current bookings: %w", err)
	}
	next, err := r.repo.FindNext(ctx, itemIDs, now, resolvableStatuses)
	if err != nil {
		return nil, fmt.Errorf("find next bookings: %w", err)
	}

	for _, id := range itemIDs {
		pair := item.BookingPair{Last: current[id], Next: next[id]}
		if pair.Last == nil {
			pair.Last = last[id]
		}
		if pair.Last != nil || pair.Next != nil {
			pairs[id] = pair
		}
	}
	return pairs, nil
}

// HasFinishedBooking reports whether userID booked itemID for a period that
// ended before now, in any status.
func (r *Resolver) HasFinishedBooking(ctx context.Context, userID, itemID string, now time.Time) (bool, error) {
	return r.repo.ExistsFinished(ctx, userID, itemID, now)
}

var _ item.BookingLookup = (*Resolver)(nil)
