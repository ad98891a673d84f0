package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"healthweb/internal/domain"

	"golang.org/x/sync/errgroup"
)

// ShareData is what the share detail page renders.
type ShareData struct {
	Share       *domain.Share
	Comments    []domain.Comment
	CommentsErr string
	Likes       []domain.Like
	Liked       bool
	Demo        bool
}

// ShareService is the controller for the share detail page.
type ShareService struct {
	inflight *Inflight
	offline  bool
}

// NewShareService creates a ShareService. With offline set, demo data is
// shown when the backend cannot be reached.
func NewShareService(inflight *Inflight, offline bool) *ShareService {
	return &ShareService{inflight: inflight, offline: offline}
}

func (s *ShareService) fallback(err error) bool {
	return s.offline && errors.Is(err, domain.ErrUnavailable)
}

// Load fetches share id, then its comments and likes concurrently.
func (s *ShareService) Load(ctx context.Context, ps *PageSession, id int64) (*ShareData, error) {
	share, err := ps.API.GetShare(ctx, id)
	if err != nil {
		switch {
		case s.fallback(err):
			log.Printf("share %d: backend unavailable, showing demo data: %v", id, err)
			return s.demo(ctx, ps, id), nil
		case errors.Is(err, domain.ErrForbidden):
			err = &MessageError{Msg: "This share is private.", Err: err}
		case errors.Is(err, domain.ErrNotFound):
			err = &MessageError{Msg: "This share does not exist or has been deleted.", Err: err}
		}
		return nil, ps.Check(ctx, fmt.Errorf("load share %d: %w", id, err))
	}

	data := &ShareData{Share: share, Liked: share.IsLiked}
	var likesErr error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		comments, err := ps.API.ListComments(gctx, id)
		switch {
		case err == nil:
			data.Comments = comments
		case errors.Is(err, domain.ErrUnauthorized):
			return err
		case s.fallback(err):
			data.Comments = DemoComments()
			data.Demo = true
		default:
			data.CommentsErr = Describe(err)
		}
		return nil
	})
	g.Go(func() error {
		likes, err := ps.API.ListLikes(gctx, id)
		if errors.Is(err, domain.ErrUnauthorized) {
			return err
		}
		data.Likes, likesErr = likes, err
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, ps.Check(ctx, err)
	}

	if uid, ok := ps.UserID(ctx); ok && likesErr == nil {
		data.Liked = false
		for _, l := range data.Likes {
			if l.UserID == uid {
				data.Liked = true
				break
			}
		}
	} else if likesErr != nil {
		log.Printf("share %d: likes: %v", id, likesErr)
	}
	if err := ps.Likes.UpdateLocal(ctx, id, data.Liked); err != nil {
		log.Printf("likes: update %d: %v", id, err)
	}
	ps.Loaded = true
	return data, nil
}

func (s *ShareService) demo(ctx context.Context, ps *PageSession, id int64) *ShareData {
	share := DemoShare(id)
	shares := []domain.Share{share}
	ps.Likes.Prime(ctx, shares)
	ps.Loaded = true
	return &ShareData{Share: &shares[0], Comments: DemoComments(), Liked: shares[0].IsLiked, Demo: true}
}

// ToggleLike flips the user's like on the share.
func (s *ShareService) ToggleLike(ctx context.Context, ps *PageSession, shareID int64, prev LikeState) (LikeState, error) {
	return toggleLike(ctx, ps, s.inflight, shareID, prev)
}

// PostComment adds a comment to shareID, or a reply when parentID is set.
func (s *ShareService) PostComment(ctx context.Context, ps *PageSession, shareID int64, content string, parentID *int64) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return fmt.Errorf("%w: comment cannot be empty", domain.ErrValidation)
	}
	action, resource := "comment", shareID
	if parentID != nil {
		action, resource = "reply", *parentID
	}
	err := s.inflight.Do(ps.ClientID, action, resource, func() error {
		return ps.API.PostComment(ctx, shareID, content, parentID)
	})
	return ps.Check(ctx, err)
}

// DeleteComment removes one of the user's comments.
func (s *ShareService) DeleteComment(ctx context.Context, ps *PageSession, commentID int64) error {
	err := s.inflight.Do(ps.ClientID, "delete-comment", commentID, func() error {
		return ps.API.DeleteComment(ctx, commentID)
	})
	return ps.Check(ctx, err)
}
