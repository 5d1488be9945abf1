package itemrequest

import (
	"context"
	"errors"
	"strings"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// ItemReader loads the items answering a set of requests.
type ItemReader interface {
	ListByRequestIDs(ctx context.Context, requestIDs []string) ([]*item.Item, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

type Service interface {
	Create(ctx context.Context, requesterID, description string) (*Request, error)
	GetByID(ctx context.Context, id, requesterID string) (*WithItems, error)
	ListOwn(ctx context.Context, requesterID string) ([]*WithItems, error)
	ListOthers(ctx context.Context, requesterID string, page request.Page) ([]*WithItems, int, error)
}

type service struct {
	repo  Repository
	items ItemReader
	users UserReader
}

func NewService(repo Repository, items ItemReader, users UserReader) Service {
	return &service{
		repo:  repo,
		items: items,
		users: users,
	}
}

func (s *service) requireUser(ctx context.Context, id string) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *service) Create(ctx context.Context, requesterID, description string) (*Request, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}
	if err := s.requireUser(ctx, requesterID); err != nil {
		return nil, err
	}

	req := &Request{Description: description, RequesterID: requesterID}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *service) GetByID(ctx context.Context, id, requesterID string) (*WithItems, error) {
	if err := s.requireUser(ctx, requesterID); err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	list, err := s.attachItems(ctx, []*Request{req})
	if err != nil {
		return nil, err
	}
	return list[0], nil
}

func (s *service) ListOwn(ctx context.Context, requesterID string) ([]*WithItems, error) {
	if err := s.requireUser(ctx, requesterID); err != nil {
		return nil, err
	}

	reqs, err := s.repo.ListByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, reqs)
}

func (s *service) ListOthers(ctx context.Context, requesterID string, page request.Page) ([]*WithItems, int, error) {
	if err := s.requireUser(ctx, requesterID); err != nil {
		return nil, 0, err
	}

	reqs, total, err := s.repo.ListExcludingRequester(ctx, requesterID, page)
	if err != nil {
		return nil, 0, err
	}
	list, err := s.attachItems(ctx, reqs)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// attachItems loads the answering items of all requests in one query.
func (s *service) attachItems(ctx context.Context, reqs []*Request) ([]*WithItems, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	ids := make([]string, len(reqs))
	for i, r := range reqs {
		ids[i] = r.ID
	}

	items, err := s.items.ListByRequestIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byRequest := make(map[string][]*item.Item, len(reqs))
	for _, it := range items {
		if it.RequestID != nil {
			byRequest[*it.RequestID] = append(byRequest[*it.RequestID], it)
		}
	}

	list := make([]*WithItems, len(reqs))
	for i, r := range reqs {
		list[i] = &WithItems{Request: r, Items: byRequest[r.ID]}
	}
	return list, nil
}
