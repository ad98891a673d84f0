package app

import (
	"time"

	"healthweb/internal/domain"
)

// Demo data is shown only in offline mode when the backend is unreachable.
// Every entry is marked as demo content.

func demoTime(ago time.Duration) string {
	return time.Now().Add(-ago).UTC().Format(time.RFC3339)
}

// DemoShares returns the demo feed, filtered to ct when set.
func DemoShares(ct domain.ContentType) []domain.Share {
	all := []domain.Share{
		{ID: 9001, UserID: 1, Username: "demo_alice", ContentType: domain.ContentHealthRecord, ContentID: 1,
			Description: "[demo] Morning check-in", CreatedAt: demoTime(2 * time.Hour), LikesCount: 3, CommentsCount: 2, IsValid: true},
		{ID: 9002, UserID: 2, Username: "demo_bob", ContentType: domain.ContentExerciseRecord, ContentID: 4,
			Description: "[demo] 5k run", CreatedAt: demoTime(26 * time.Hour), LikesCount: 5, IsValid: true},
		{ID: 9003, UserID: 3, Username: "demo_carol", ContentType: domain.ContentWaterIntake, ContentID: 2,
			Description: "[demo] Hit my water goal", CreatedAt: demoTime(72 * time.Hour), LikesCount: 1, CommentsCount: 1, IsValid: true},
	}
	if ct == "" {
		return all
	}
	var out []domain.Share
	for _, s := range all {
		if s.ContentType == ct {
			out = append(out, s)
		}
	}
	return out
}

// DemoShare returns demo share id, or the first demo share for unknown IDs.
func DemoShare(id int64) domain.Share {
	all := DemoShares("")
	for _, s := range all {
		if s.ID == id {
			return s
		}
	}
	s := all[0]
	s.ID = id
	return s
}

// DemoComments returns a demo comment thread.
func DemoComments() []domain.Comment {
	parent := int64(9101)
	return []domain.Comment{
		{ID: 9101, UserID: 2, Username: "demo_bob", Content: "[demo] Nice progress!", CreatedAt: demoTime(90 * time.Minute),
			Replies: []domain.Comment{
				{ID: 9102, UserID: 1, Username: "demo_alice", Content: "[demo] Thanks!", ParentID: &parent, CreatedAt: demoTime(80 * time.Minute)},
			}},
	}
}
