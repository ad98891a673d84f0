package app

import (
	"context"
	"log"
	"time"

	"healthweb/internal/domain"
)

// PurgeState removes the state of clients with no write within ttl.
func PurgeState(ctx context.Context, repo domain.StateRepository, ttl time.Duration, now time.Time) (int64, error) {
	return repo.PurgeStateBefore(ctx, now.Add(-ttl))
}

// RunStatePurge calls PurgeState every interval until ctx is done.
func RunStatePurge(ctx context.Context, repo domain.StateRepository, ttl, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := PurgeState(ctx, repo, ttl, now)
			if err != nil {
				log.Printf("state purge: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("state purge: removed %d entries", n)
			}
		}
	}
}
