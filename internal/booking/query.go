package booking

import (
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var bookingColumns = []string{
	"b.id", "b.item_id", "i.name", "i.owner_id", "b.booker_id", "u.name",
	"b.start_time", "b.end_time", "b.status", "b.created_at", "b.updated_at",
}

func selectBookings(extra ...string) squirrel.SelectBuilder {
	columns := append(append([]string{}, bookingColumns...), extra...)
	return psql.Select(columns...).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Join("public.users u ON b.booker_id = u.id")
}

func getByIDQuery(id string) squirrel.SelectBuilder {
	return selectBookings().Where(squirrel.Eq{"b.id": id})
}

// windowCondition selects the bookings that Classify places in w at now.
func windowCondition(w Window, now time.Time) squirrel.Sqlizer {
	switch w {
	case WindowPast:
		return squirrel.Lt{"b.end_time": now}
	case WindowFuture:
		return squirrel.Gt{"b.start_time": now}
	default:
		return squirrel.And{
			squirrel.LtOrEq{"b.start_time": now},
			squirrel.GtOrEq{"b.end_time": now},
		}
	}
}

// stateCondition translates a listing state into a WHERE clause. ALL yields nil.
func stateCondition(state State, now time.Time) (squirrel.Sqlizer, error) {
	switch state {
	case StateAll:
		return nil, nil
	case StatePast:
		return windowCondition(WindowPast, now), nil
	case StateCurrent:
		return windowCondition(WindowCurrent, now), nil
	case StateFuture:
		return windowCondition(WindowFuture, now), nil
	case StateWaiting:
		return squirrel.Eq{"b.status": string(StatusWaiting)}, nil
	case StateRejected:
		return squirrel.Eq{"b.status": string(StatusRejected)}, nil
	default:
		return nil, fmt.Errorf("unknown booking state %q", state)
	}
}

// listQuery pages bookings matching owner in the given state, newest start first.
func listQuery(owner squirrel.Sqlizer, q ListQuery) (squirrel.SelectBuilder, error) {
	cond, err := stateCondition(q.State, q.Now)
	if err != nil {
		return squirrel.SelectBuilder{}, err
	}

	qb := selectBookings("count(*) OVER() AS total_count").Where(owner)
	if cond != nil {
		qb = qb.Where(cond)
	}
	return qb.
		OrderBy("b.start_time DESC", "b.id DESC").
		Limit(uint64(q.Page.Limit)).
		Offset(uint64(q.Page.Offset)), nil
}

func statusStrings(statuses []Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// summaryQuery returns at most one (item_id, id, booker_id) row per item.
// The first ORDER BY term after item_id picks the winner.
func summaryQuery(itemIDs []string, statuses []Status, where squirrel.Sqlizer, order ...string) squirrel.SelectBuilder {
	return psql.Select("b.item_id", "b.id", "b.booker_id").
		Options("DISTINCT ON (b.item_id)").
		From("public.bookings b").
		Where(squirrel.Eq{"b.item_id": itemIDs}).
		Where(squirrel.Eq{"b.status": statusStrings(statuses)}).
		Where(where).
		OrderBy(append([]string{"b.item_id"}, order...)...)
}

// lastEndedQuery picks, per item, the booking that ended most recently before now.
func lastEndedQuery(itemIDs []string, now time.Time, statuses []Status) squirrel.SelectBuilder {
	return summaryQuery(itemIDs, statuses,
		windowCondition(WindowPast, now),
		"b.end_time DESC", "b.id DESC")
}

// currentQuery picks, per item, the latest-starting booking that contains now.
func currentQuery(itemIDs []string, now time.Time, statuses []Status) squirrel.SelectBuilder {
	return summaryQuery(itemIDs, statuses,
		windowCondition(WindowCurrent, now),
		"b.start_time DESC", "b.id DESC")
}

// nextQuery picks, per item, the earliest booking starting after now.
func nextQuery(itemIDs []string, now time.Time, statuses []Status) squirrel.SelectBuilder {
	return summaryQuery(itemIDs, statuses,
		windowCondition(WindowFuture, now),
		"b.start_time ASC", "b.id ASC")
}

func existsFinishedQuery(bookerID, itemID string, now time.Time) squirrel.SelectBuilder {
	return psql.Select("1").
		Prefix("SELECT EXISTS (").
		From("public.bookings").
		Where(squirrel.Eq{"booker_id": bookerID, "item_id": itemID}).
		Where(squirrel.Lt{"end_time": now}).
		Suffix(")")
}
