package item

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// BookingLookup answers the booking-derived questions item views need.
type BookingLookup interface {
	// ResolveLastNext returns the last and next booking of every item that has one.
	ResolveLastNext(ctx context.Context, itemIDs []string, now time.Time) (map[string]BookingPair, error)
	// HasFinishedBooking reports whether userID has a booking of itemID that ended before now.
	HasFinishedBooking(ctx context.Context, userID, itemID string, now time.Time) (bool, error)
}

// RequestChecker reports whether an item request exists.
type RequestChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// UserReader is the part of the user module items depend on.
type UserReader interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

type CreateRequest struct {
	OwnerID     string
	Name        string
	Description string
	Available   bool
	RequestID   *string
}

type UpdateRequest struct {
	Name        *string
	Description *string
	Available   *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Item, error)
	Update(ctx context.Context, id, actorID string, req UpdateRequest) (*Item, error)
	GetByID(ctx context.Context, id, requesterID string) (*Details, error)
	ListByOwner(ctx context.Context, ownerID string, page request.Page) ([]*Details, int, error)
	Search(ctx context.Context, text string, page request.Page) ([]*Item, int, error)
	AddComment(ctx context.Context, itemID, authorID, text string) (*Comment, error)
}

type service struct {
	repo     Repository
	users    UserReader
	requests RequestChecker
	bookings BookingLookup
	clock    clock.Clock
}

func NewService(repo Repository, users UserReader, requests RequestChecker, bookings BookingLookup, clk clock.Clock) Service {
	return &service{
		repo:     repo,
		users:    users,
		requests: requests,
		bookings: bookings,
		clock:    clk,
	}
}

// requireUser maps a missing user to the item module's not-found error.
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

func (s *service) Create(ctx context.Context, req CreateRequest) (*Item, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, ErrEmptyDescription
	}

	if _, err := s.requireUser(ctx, req.OwnerID); err != nil {
		return nil, err
	}

	if req.RequestID != nil {
		ok, err := s.requests.Exists(ctx, *req.RequestID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrRequestNotFound
		}
	}

	it := &Item{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Available:   req.Available,
		OwnerID:     req.OwnerID,
		RequestID:   req.RequestID,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) Update(ctx context.Context, id, actorID string, req UpdateRequest) (*Item, error) {
	if _, err := s.requireUser(ctx, actorID); err != nil {
		return nil, err
	}

	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if it.OwnerID != actorID {
		slog.InfoContext(ctx, "item update by non-owner", "item_id", id, "user_id", actorID)
		return nil, ErrNotOwner
	}

	if req.Name == nil && req.Description == nil && req.Available == nil {
		return nil, ErrEmptyPatch
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		it.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			return nil, ErrEmptyDescription
		}
		it.Description = strings.TrimSpace(*req.Description)
	}
	if req.Available != nil {
		it.Available = *req.Available
	}

	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

// GetByID returns an item with its comments.
// Booking summaries are only revealed to the owner.
func (s *service) GetByID(ctx context.Context, id, requesterID string) (*Details, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	details := &Details{Item: it}

	if it.OwnerID == requesterID {
		pairs, err := s.bookings.ResolveLastNext(ctx, []string{it.ID}, s.clock.Now())
		if err != nil {
			return nil, fmt.Errorf("resolve bookings of item %s: %w", it.ID, err)
		}
		pair := pairs[it.ID]
		details.LastBooking = pair.Last
		details.NextBooking = pair.Next
	}

	comments, err := s.repo.ListCommentsByItems(ctx, []string{it.ID})
	if err != nil {
		return nil, err
	}
	details.Comments = comments

	return details, nil
}

// ListByOwner returns one page of the owner's items, each annotated with its
// last and next booking and its comments. The number of store round trips does
// not depend on the page size.
func (s *service) ListByOwner(ctx context.Context, ownerID string, page request.Page) ([]*Details, int, error) {
	if _, err := s.requireUser(ctx, ownerID); err != nil {
		return nil, 0, err
	}

	items, total, err := s.repo.ListByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, 0, err
	}
	if len(items) == 0 {
		return nil, total, nil
	}

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}

	pairs, err := s.bookings.ResolveLastNext(ctx, ids, s.clock.Now())
	if err != nil {
		return nil, 0, fmt.Errorf("resolve bookings of owner %s: %w", ownerID, err)
	}

	comments, err := s.repo.ListCommentsByItems(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	byItem := make(map[string][]*Comment, len(items))
	for _, cm := range comments {
		byItem[cm.ItemID] = append(byItem[cm.ItemID], cm)
	}

	result := make([]*Details, len(items))
	for i, it := range items {
		pair := pairs[it.ID]
		result[i] = &Details{
			Item:        it,
			LastBooking: pair.Last,
			NextBooking: pair.Next,
			Comments:    byItem[it.ID],
		}
	}
	return result, total, nil
}

func (s *service) Search(ctx context.Context, text string, page request.Page) ([]*Item, int, error) {
	if strings.TrimSpace(text) == "" {
		return nil, 0, nil
	}
	return s.repo.Search(ctx, strings.TrimSpace(text), page)
}

// AddComment stores a comment if the author has a finished booking of the item.
func (s *service) AddComment(ctx context.Context, itemID, authorID, text string) (*Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}

	author, err := s.requireUser(ctx, authorID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(ctx, itemID); err != nil {
		return nil, err
	}

	ok, err := s.bookings.HasFinishedBooking(ctx, authorID, itemID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		slog.InfoContext(ctx, "comment without finished booking", "item_id", itemID, "user_id", authorID)
		return nil, ErrNotBorrowed
	}

	cm := &Comment{
		ItemID:     itemID,
		AuthorID:   authorID,
		AuthorName: author.Name,
		Text:       text,
	}
	if err := s.repo.CreateComment(ctx, cm); err != nil {
		return nil, err
	}
	return cm, nil
}
