package render

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"healthweb/internal/domain"
)

const (
	defaultDescription = "Shared health data"
	unavailableContent = "This content is no longer available"
	anonymous          = "anonymous"
	noContent          = "(no content)"
)

// AvatarURL returns the generated avatar for a user's initial.
func AvatarURL(username string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(initial(username)) + "&background=0D8ABC&color=fff"
}

// ShareCard is a share as shown in the feed and on the detail page.
type ShareCard struct {
	ID            int64
	Username      string
	AvatarURL     string
	When          string
	Description   string
	Available     bool
	Icon          string
	Label         string
	ContentURL    string
	Unavailable   string
	Liked         bool
	LikesCount    int
	CommentsCount int
}

// DetailURL is the share's own page.
func (c ShareCard) DetailURL() string { return fmt.Sprintf("/social/share/%d", c.ID) }

// NewShareCard builds the card for s. Invalid shares and unknown content
// types render as unavailable.
func NewShareCard(s domain.Share, now time.Time) ShareCard {
	name := s.Username
	if strings.TrimSpace(name) == "" {
		name = anonymous
	}
	c := ShareCard{
		ID:            s.ID,
		Username:      name,
		AvatarURL:     AvatarURL(name),
		When:          RelativeTime(s.CreatedAt, now),
		Description:   s.Description,
		Liked:         s.IsLiked,
		LikesCount:    s.LikesCount,
		CommentsCount: s.CommentsCount,
	}
	if strings.TrimSpace(c.Description) == "" {
		c.Description = defaultDescription
	}
	info, ok := s.ContentType.Info()
	if !ok || !s.IsValid {
		c.Unavailable = unavailableContent
		return c
	}
	c.Available = true
	c.Icon = info.Icon
	c.Label = info.Label
	c.ContentURL = s.ContentType.DetailRoute(s.ContentID)
	return c
}

// ShareCards builds the feed.
func ShareCards(shares []domain.Share, now time.Time) []ShareCard {
	cards := make([]ShareCard, 0, len(shares))
	for _, s := range shares {
		cards = append(cards, NewShareCard(s, now))
	}
	return cards
}

// CommentView is one comment of a thread. Only top-level comments have
// replies and a reply action.
type CommentView struct {
	ID        int64
	Username  string
	AvatarURL string
	Content   string
	When      string
	IsAuthor  bool
	ReplyURL  string
	Replies   []CommentView
}

func commentView(c domain.Comment, now time.Time) CommentView {
	v := CommentView{
		ID:       c.ID,
		Username: c.Username,
		Content:  c.Content,
		When:     RelativeTime(c.CreatedAt, now),
		IsAuthor: c.IsAuthor,
	}
	if strings.TrimSpace(v.Username) == "" {
		v.Username = anonymous
	}
	if strings.TrimSpace(v.Content) == "" {
		v.Content = noContent
	}
	v.AvatarURL = AvatarURL(v.Username)
	return v
}

// CommentThread orders the comments of share shareID as top-level comments
// followed by their replies. Replies listed at the top level are moved under
// their parent.
func CommentThread(shareID int64, comments []domain.Comment, now time.Time) []CommentView {
	parents := map[int64]int{}
	var out []CommentView
	var orphans []domain.Comment
	for _, c := range comments {
		if c.ParentID != nil {
			orphans = append(orphans, c)
			continue
		}
		v := commentView(c, now)
		v.ReplyURL = fmt.Sprintf("/social/share/%d/comment", shareID)
		for _, r := range c.Replies {
			v.Replies = append(v.Replies, commentView(r, now))
		}
		parents[c.ID] = len(out)
		out = append(out, v)
	}
	for _, c := range orphans {
		i, ok := parents[*c.ParentID]
		if !ok {
			out = append(out, commentView(c, now))
			continue
		}
		out[i].Replies = append(out[i].Replies, commentView(c, now))
	}
	return out
}

// Option is one entry of the create-share item list.
type Option struct {
	ID       int64
	Label    string
	Selected bool
}

// OptionLabel names item in the create-share list.
func OptionLabel(ct domain.ContentType, it domain.ContentItem) string {
	switch ct {
	case domain.ContentHealthRecord:
		return Date(it.RecordDate) + " - " + text(it.RecordType)
	case domain.ContentDietRecord:
		return Date(it.RecordDate) + " - " + text(it.MealType)
	case domain.ContentExerciseRecord:
		return Date(it.RecordDate) + " - " + text(it.ExerciseType)
	case domain.ContentHealthGoal:
		return text(it.GoalType) + " - " + num(it.TargetValue) + it.Unit
	case domain.ContentWaterIntake:
		return Date(it.RecordDate) + " - " + num(it.Amount) + " ml"
	case domain.ContentMedicationRecord:
		return Date(it.RecordDate) + " - " + text(it.MedicationName)
	case domain.ContentHealthReport:
		return Date(it.CreatedAt) + " - " + text(it.ReportType)
	default:
		return fmt.Sprintf("ID: %d", it.ID)
	}
}

// Options builds the create-share list, marking selected.
func Options(ct domain.ContentType, items []domain.ContentItem, selected int64) []Option {
	out := make([]Option, 0, len(items))
	for _, it := range items {
		out = append(out, Option{ID: it.ID, Label: OptionLabel(ct, it), Selected: it.ID == selected})
	}
	return out
}

// Field is a labelled value of the share preview.
type Field struct {
	Label string
	Value string
}

func withUnit(v *float64, unit string) string {
	if v == nil {
		return missing
	}
	if unit == "" {
		return num(v)
	}
	return num(v) + " " + unit
}

// Preview lists the fields of item shown before it is shared.
func Preview(ct domain.ContentType, it domain.ContentItem) []Field {
	switch ct {
	case domain.ContentHealthRecord:
		return []Field{
			{"Record date", Date(it.RecordDate)},
			{"Record type", text(it.RecordType)},
			{"Value", withUnit(it.Value, it.Unit)},
		}
	case domain.ContentDietRecord:
		return []Field{
			{"Record date", Date(it.RecordDate)},
			{"Meal", text(it.MealType)},
		}
	case domain.ContentExerciseRecord:
		return []Field{
			{"Record date", Date(it.RecordDate)},
			{"Exercise", text(it.ExerciseType)},
			{"Duration", withUnit(it.Duration, "min")},
			{"Calories burned", withUnit(it.CaloriesBurned, "kcal")},
		}
	case domain.ContentHealthGoal:
		return []Field{
			{"Goal", text(it.GoalType)},
			{"Target", withUnit(it.TargetValue, it.Unit)},
			{"Start date", Date(it.StartDate)},
			{"End date", Date(it.EndDate)},
		}
	case domain.ContentWaterIntake:
		return []Field{
			{"Record date", Date(it.RecordDate)},
			{"Amount", withUnit(it.Amount, "ml")},
		}
	case domain.ContentMedicationRecord:
		return []Field{
			{"Record date", Date(it.RecordDate)},
			{"Medication", text(it.MedicationName)},
			{"Dosage", withUnit(it.Dosage, it.DosageUnit)},
		}
	case domain.ContentHealthReport:
		return []Field{
			{"Report date", Date(it.CreatedAt)},
			{"Report type", text(it.ReportType)},
		}
	default:
		return nil
	}
}

// TypeOption is an entry of a content type selector.
type TypeOption struct {
	Value    string
	Label    string
	Icon     string
	Selected bool
}

// TypeOptions lists every content type, optionally led by "all".
func TypeOptions(selected domain.ContentType, withAll bool) []TypeOption {
	var out []TypeOption
	if withAll {
		out = append(out, TypeOption{Value: "all", Label: "All", Icon: "bi-grid", Selected: selected == ""})
	}
	for _, ct := range domain.ContentTypes() {
		info, _ := ct.Info()
		out = append(out, TypeOption{Value: string(ct), Label: info.Label, Icon: info.Icon, Selected: ct == selected})
	}
	return out
}
