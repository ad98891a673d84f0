package app

import (
	"context"
	"log"
)

// LikeState is the like button state of one share.
type LikeState struct {
	Liked bool `json:"liked"`
	Count int  `json:"likes_count"`
}

// toggleLike flips the like on shareID. The new state is applied to the cache
// before the backend call and reverted when the call fails, in which case the
// previous state is returned along with the error.
func toggleLike(ctx context.Context, ps *PageSession, inflight *Inflight, shareID int64, prev LikeState) (LikeState, error) {
	next := LikeState{Liked: !prev.Liked, Count: prev.Count}
	if next.Liked {
		next.Count++
	} else if next.Count > 0 {
		next.Count--
	}
	if err := ps.Likes.UpdateLocal(ctx, shareID, next.Liked); err != nil {
		log.Printf("likes: update %d: %v", shareID, err)
	}

	err := inflight.Do(ps.ClientID, "like", shareID, func() error {
		if prev.Liked {
			return ps.API.Unlike(ctx, shareID)
		}
		return ps.API.Like(ctx, shareID)
	})
	if err != nil {
		if rerr := ps.Likes.UpdateLocal(ctx, shareID, prev.Liked); rerr != nil {
			log.Printf("likes: rollback %d: %v", shareID, rerr)
		}
		return prev, ps.Check(ctx, err)
	}
	return next, nil
}
