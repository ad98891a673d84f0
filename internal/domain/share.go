package domain

import (
	"context"
	"fmt"
)

// ContentType is the closed set of record kinds a share can point at.
type ContentType string

const (
	ContentHealthRecord     ContentType = "health_record"
	ContentDietRecord       ContentType = "diet_record"
	ContentExerciseRecord   ContentType = "exercise_record"
	ContentHealthGoal       ContentType = "health_goal"
	ContentWaterIntake      ContentType = "water_intake"
	ContentMedicationRecord ContentType = "medication_record"
	ContentHealthReport     ContentType = "health_report"
)

// ContentInfo describes how a content type is presented and where its
// shareable items come from.
type ContentInfo struct {
	Icon   string
	Label  string
	Source string // backend endpoint listing the user's items
	detail string // printf pattern taking the content ID
}

var contentTypes = map[ContentType]ContentInfo{
	ContentHealthRecord:     {Icon: "bi-clipboard-pulse", Label: "Health record", Source: "/api/health/records", detail: "/health/records?id=%d"},
	ContentDietRecord:       {Icon: "bi-cup-hot", Label: "Diet record", Source: "/api/diet/records", detail: "/records?type=diet&id=%d"},
	ContentExerciseRecord:   {Icon: "bi-activity", Label: "Exercise record", Source: "/api/exercise/records", detail: "/records?type=exercise&id=%d"},
	ContentHealthGoal:       {Icon: "bi-bullseye", Label: "Health goal", Source: "/api/health/goals", detail: "/records?type=goal&id=%d"},
	ContentWaterIntake:      {Icon: "bi-droplet", Label: "Water intake", Source: "/api/water/records", detail: "/records?type=water&id=%d"},
	ContentMedicationRecord: {Icon: "bi-capsule", Label: "Medication record", Source: "/api/medication/records", detail: "/records?type=medication&id=%d"},
	ContentHealthReport:     {Icon: "bi-file-medical", Label: "Health report", Source: "/api/health-report/reports", detail: "/health-report?id=%d"},
}

// ContentTypes lists every content type in display order.
func ContentTypes() []ContentType {
	return []ContentType{
		ContentHealthRecord, ContentDietRecord, ContentExerciseRecord, ContentHealthGoal,
		ContentWaterIntake, ContentMedicationRecord, ContentHealthReport,
	}
}

// ParseContentType returns the content type named s.
func ParseContentType(s string) (ContentType, bool) {
	ct := ContentType(s)
	_, ok := contentTypes[ct]
	return ct, ok
}

// Info returns the presentation data for ct. ok is false for unknown types.
func (ct ContentType) Info() (ContentInfo, bool) {
	info, ok := contentTypes[ct]
	return info, ok
}

// DetailRoute returns the deep link for the shared item, or "" for unknown types.
func (ct ContentType) DetailRoute(contentID int64) string {
	info, ok := contentTypes[ct]
	if !ok {
		return ""
	}
	return fmt.Sprintf(info.detail, contentID)
}

// Share is a user's pointer to one of their records, as listed in the feed.
type Share struct {
	ID            int64       `json:"id"`
	UserID        int64       `json:"user_id"`
	Username      string      `json:"username"`
	ContentType   ContentType `json:"content_type"`
	ContentID     int64       `json:"content_id"`
	Description   string      `json:"description"`
	Visibility    string      `json:"visibility,omitempty"`
	CreatedAt     string      `json:"created_at"`
	LikesCount    int         `json:"likes_count"`
	CommentsCount int         `json:"comments_count"`
	IsValid       bool        `json:"is_valid"`
	IsLiked       bool        `json:"is_liked"`
}

// ShareInput is the body of a create-share request.
type ShareInput struct {
	ContentType ContentType `json:"content_type"`
	ContentID   int64       `json:"content_id"`
	Description string      `json:"description"`
	Visibility  string      `json:"visibility"`
}

// Validate checks the input before it is sent.
func (in *ShareInput) Validate() error {
	if _, ok := ParseContentType(string(in.ContentType)); !ok {
		return fmt.Errorf("%w: choose what to share", ErrValidation)
	}
	if in.ContentID <= 0 {
		return fmt.Errorf("%w: choose what to share", ErrValidation)
	}
	switch in.Visibility {
	case "":
		in.Visibility = "public"
	case "public", "friends", "private":
	default:
		return fmt.Errorf("%w: unknown visibility %q", ErrValidation, in.Visibility)
	}
	return nil
}

// SharePage is one page of the feed.
type SharePage struct {
	Shares      []Share `json:"shares"`
	Total       int     `json:"total"`
	Pages       int     `json:"pages"`
	CurrentPage int     `json:"current_page"`
}

// Like is one user's endorsement of a share.
type Like struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	ShareID   int64  `json:"share_id"`
	CreatedAt string `json:"created_at"`
}

// Comment is a comment on a share. Replies never carry replies of their own.
type Comment struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	ParentID  *int64    `json:"parent_id,omitempty"`
	CreatedAt string    `json:"created_at"`
	IsAuthor  bool      `json:"is_author"`
	Replies   []Comment `json:"replies,omitempty"`
}

// ContentItem is one shareable item from a content type's source endpoint.
// Only the fields relevant to its type are set.
type ContentItem struct {
	ID             int64    `json:"id"`
	RecordDate     string   `json:"record_date"`
	RecordType     string   `json:"record_type"`
	CreatedAt      string   `json:"created_at"`
	MealType       string   `json:"meal_type"`
	ExerciseType   string   `json:"exercise_type"`
	Duration       *float64 `json:"duration"`
	CaloriesBurned *float64 `json:"calories_burned"`
	GoalType       string   `json:"goal_type"`
	TargetValue    *float64 `json:"target_value"`
	Unit           string   `json:"unit"`
	Value          *float64 `json:"value"`
	StartDate      string   `json:"start_date"`
	EndDate        string   `json:"end_date"`
	Amount         *float64 `json:"amount"`
	MedicationName string   `json:"medication_name"`
	Dosage         *float64 `json:"dosage"`
	DosageUnit     string   `json:"dosage_unit"`
	ReportType     string   `json:"report_type"`
}

// SocialAPI is the port for the backend's share, like and comment endpoints.
type SocialAPI interface {
	ListShares(ctx context.Context, page, perPage int, filter ContentType) (*SharePage, error)
	GetShare(ctx context.Context, id int64) (*Share, error)
	CreateShare(ctx context.Context, in ShareInput) (*Share, error)
	Like(ctx context.Context, shareID int64) error
	Unlike(ctx context.Context, shareID int64) error
	ListLikes(ctx context.Context, shareID int64) ([]Like, error)
	ListComments(ctx context.Context, shareID int64) ([]Comment, error)
	PostComment(ctx context.Context, shareID int64, content string, parentID *int64) error
	DeleteComment(ctx context.Context, commentID int64) error
}

// ContentAPI is the port for the per-type option source endpoints.
type ContentAPI interface {
	ContentOptions(ctx context.Context, ct ContentType) ([]ContentItem, error)
}

// Backend is everything a page controller may call, bound to one user's token.
type Backend interface {
	HealthAPI
	SocialAPI
	ContentAPI
}
