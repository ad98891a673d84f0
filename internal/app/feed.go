package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"healthweb/internal/domain"
)

// FeedPageSize is the number of shares per feed page.
const FeedPageSize = 10

// FeedData is one rendered page of the social feed.
type FeedData struct {
	Shares      []domain.Share
	Filter      domain.ContentType
	CurrentPage int
	Pages       int
	Total       int
	HasMore     bool
	Demo        bool
}

// FeedService is the controller for the social feed.
type FeedService struct {
	inflight *Inflight
	offline  bool
}

// NewFeedService creates a FeedService. With offline set, demo shares are
// shown when the backend cannot be reached.
func NewFeedService(inflight *Inflight, offline bool) *FeedService {
	return &FeedService{inflight: inflight, offline: offline}
}

// ParseFilter returns the content type filter named s. "all" and unknown
// names mean no filter.
func ParseFilter(s string) domain.ContentType {
	if ct, ok := domain.ParseContentType(s); ok {
		return ct
	}
	return ""
}

// Load fetches one page of the feed and reconciles the like cache with it.
func (s *FeedService) Load(ctx context.Context, ps *PageSession, page int, filter string) (*FeedData, error) {
	if page < 1 {
		page = 1
	}
	ps.Page = page
	ps.Filter = ParseFilter(filter)

	res, err := ps.API.ListShares(ctx, page, FeedPageSize, ps.Filter)
	if err != nil {
		if s.offline && errors.Is(err, domain.ErrUnavailable) {
			log.Printf("feed: backend unavailable, showing demo data: %v", err)
			shares := DemoShares(ps.Filter)
			ps.Likes.Prime(ctx, shares)
			ps.Loaded = true
			return &FeedData{Shares: shares, Filter: ps.Filter, CurrentPage: 1, Pages: 1, Total: len(shares), Demo: true}, nil
		}
		return nil, ps.Check(ctx, fmt.Errorf("load shares: %w", err))
	}

	if _, err := ps.Likes.Sync(ctx, res.Shares); err != nil {
		log.Printf("likes: sync: %v", err)
	}
	ps.Loaded = true
	return &FeedData{
		Shares:      res.Shares,
		Filter:      ps.Filter,
		CurrentPage: res.CurrentPage,
		Pages:       res.Pages,
		Total:       res.Total,
		HasMore:     res.CurrentPage < res.Pages,
	}, nil
}

// ToggleLike flips the user's like on a share shown in the feed.
func (s *FeedService) ToggleLike(ctx context.Context, ps *PageSession, shareID int64, prev LikeState) (LikeState, error) {
	return toggleLike(ctx, ps, s.inflight, shareID, prev)
}
