package app

import (
	"context"
	"encoding/json"
	"log"
	"slices"

	"healthweb/internal/domain"
)

// LikeCache is the set of share IDs the browser believes the user has liked.
// Server state wins whenever it is known.
type LikeCache struct {
	store domain.Storage
}

// NewLikeCache keeps the set under the liked_shares key of store.
func NewLikeCache(store domain.Storage) *LikeCache {
	return &LikeCache{store: store}
}

func (c *LikeCache) load(ctx context.Context) map[int64]bool {
	set := map[int64]bool{}
	raw, ok, err := c.store.Get(ctx, KeyLikedShare)
	if err != nil {
		log.Printf("likes: read: %v", err)
		return set
	}
	if !ok || raw == "" {
		return set
	}
	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return set
	}
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func (c *LikeCache) save(ctx context.Context, set map[int64]bool) error {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	b, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, KeyLikedShare, string(b))
}

// Has reports whether id is in the set.
func (c *LikeCache) Has(ctx context.Context, id int64) bool {
	return c.load(ctx)[id]
}

// IDs returns the set in ascending order.
func (c *LikeCache) IDs(ctx context.Context) []int64 {
	set := c.load(ctx)
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// UpdateLocal adds or removes id. Storage is only written when membership
// changes.
func (c *LikeCache) UpdateLocal(ctx context.Context, id int64, liked bool) error {
	set := c.load(ctx)
	if set[id] == liked {
		return nil
	}
	if liked {
		set[id] = true
	} else {
		delete(set, id)
	}
	return c.save(ctx, set)
}

// Sync makes the set agree with the is_liked flags of shares. IDs not among
// shares are kept. It reports whether storage was written.
func (c *LikeCache) Sync(ctx context.Context, shares []domain.Share) (bool, error) {
	set := c.load(ctx)
	changed := false
	for _, s := range shares {
		if set[s.ID] == s.IsLiked {
			continue
		}
		changed = true
		if s.IsLiked {
			set[s.ID] = true
		} else {
			delete(set, s.ID)
		}
	}
	if !changed {
		return false, nil
	}
	return true, c.save(ctx, set)
}

// Prime sets the is_liked flag of shares that have no server state from the
// local set. Only demo data goes through Prime.
func (c *LikeCache) Prime(ctx context.Context, shares []domain.Share) {
	set := c.load(ctx)
	for i := range shares {
		if set[shares[i].ID] {
			shares[i].IsLiked = true
		}
	}
}
