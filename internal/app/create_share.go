package app

import (
	"context"
	"fmt"

	"healthweb/internal/domain"
)

// CreateShareService is the controller for the create-share form.
type CreateShareService struct {
	inflight *Inflight
}

// NewCreateShareService creates a CreateShareService.
func NewCreateShareService(inflight *Inflight) *CreateShareService {
	return &CreateShareService{inflight: inflight}
}

// Options lists the user's items of the named content type.
func (s *CreateShareService) Options(ctx context.Context, ps *PageSession, contentType string) (domain.ContentType, []domain.ContentItem, error) {
	ct, ok := domain.ParseContentType(contentType)
	if !ok {
		return "", nil, fmt.Errorf("%w: unknown content type %q", domain.ErrValidation, contentType)
	}
	items, err := ps.API.ContentOptions(ctx, ct)
	if err != nil {
		return ct, nil, ps.Check(ctx, fmt.Errorf("load %s options: %w", ct, err))
	}
	return ct, items, nil
}

// Preview returns the item that would be shared.
func (s *CreateShareService) Preview(items []domain.ContentItem, contentID int64) (*domain.ContentItem, error) {
	for i := range items {
		if items[i].ID == contentID {
			return &items[i], nil
		}
	}
	return nil, fmt.Errorf("item %d: %w", contentID, domain.ErrNotFound)
}

// Create validates in and publishes the share.
func (s *CreateShareService) Create(ctx context.Context, ps *PageSession, in domain.ShareInput) (*domain.Share, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var share *domain.Share
	key := fmt.Sprintf("%s/%d", in.ContentType, in.ContentID)
	err := s.inflight.Do(ps.ClientID, "share", key, func() error {
		var err error
		share, err = ps.API.CreateShare(ctx, in)
		return err
	})
	return share, ps.Check(ctx, err)
}
