package adapthttp

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"healthweb/internal/app"
	"healthweb/internal/domain"
	"healthweb/internal/render"
)

func feedURL(page int, filter domain.ContentType) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if filter != "" {
		q.Set("type", string(filter))
	}
	return "/social?" + q.Encode()
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	ps := s.pageSession(r)
	data, err := s.feed.Load(r.Context(), ps, intQuery(r, "page", 1), r.URL.Query().Get("type"))
	if errors.Is(err, domain.ErrUnauthorized) {
		s.fail(w, r, err, "/login")
		return
	}

	page := render.SocialPage{Base: s.base(r, ps, "Community", "social")}
	page.Types = render.TypeOptions(ps.Filter, true)
	page.Filter = string(ps.Filter)
	page.Page = ps.Page
	if err != nil {
		page.Toasts = append(page.Toasts, render.Toast{Level: render.LevelDanger, Message: app.Describe(err)})
	} else {
		now := s.now()
		page.Cards = render.ShareCards(data.Shares, now)
		page.Demo = data.Demo
		page.HasMore = data.HasMore
		if data.HasMore {
			page.NextURL = feedURL(data.CurrentPage+1, data.Filter)
		}
		if data.CurrentPage > 1 {
			page.PrevURL = feedURL(data.CurrentPage-1, data.Filter)
		}
	}
	s.renderPage(w, http.StatusOK, "social", page)
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	ps := s.pageSession(r)
	data, err := s.share.Load(r.Context(), ps, id)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			s.fail(w, r, err, "/login")
			return
		}
		status := statusFor(err)
		if status == http.StatusBadGateway {
			status = http.StatusOK
		}
		s.renderPage(w, status, "error", render.ErrorPage{
			Base:    s.base(r, ps, "Share", "social"),
			Message: app.Describe(err),
			Back:    "/social",
		})
		return
	}

	now := s.now()
	share := *data.Share
	share.IsLiked = data.Liked
	page := render.SharePage{
		Base:        s.base(r, ps, "Share", "social"),
		Card:        render.NewShareCard(share, now),
		Comments:    render.CommentThread(id, data.Comments, now),
		CommentsErr: data.CommentsErr,
	}
	page.Demo = data.Demo
	for _, l := range data.Likes {
		if l.Username != "" {
			page.Likers = append(page.Likers, l.Username)
		}
	}
	s.renderPage(w, http.StatusOK, "share", page)
}

type likeRequest struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	var req likeRequest
	if isJSONBody(r) {
		if err := parseJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": app.Describe(err)})
			return
		}
	} else {
		req.Liked = r.PostFormValue("liked") == "true"
		req.LikesCount, _ = strconv.Atoi(r.PostFormValue("likes_count"))
	}

	ps := s.pageSession(r)
	state, err := s.feed.ToggleLike(r.Context(), ps, id, app.LikeState{Liked: req.Liked, Count: req.LikesCount})
	if wantsJSON(r) {
		if err != nil {
			reply := map[string]any{
				"error":       app.Describe(err),
				"liked":       state.Liked,
				"likes_count": state.Count,
			}
			if errors.Is(err, domain.ErrUnauthorized) {
				reply["redirect"] = "/login"
			}
			writeJSON(w, statusFor(err), reply)
			return
		}
		writeJSON(w, http.StatusOK, state)
		return
	}
	back := backTo(r, fmt.Sprintf("/social/share/%d", id))
	if err != nil {
		s.fail(w, r, err, back)
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (s *Server) handlePostComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	var parentID *int64
	if p, ok := formInt64(r, "parent_id"); ok {
		parentID = &p
	}
	ps := s.pageSession(r)
	back := fmt.Sprintf("/social/share/%d", id)
	if err := s.share.PostComment(r.Context(), ps, id, r.PostFormValue("content"), parentID); err != nil {
		s.fail(w, r, err, back)
		return
	}
	msg := "Comment posted."
	if parentID != nil {
		msg = "Reply posted."
	}
	s.flash(r, render.LevelSuccess, msg)
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	ps := s.pageSession(r)
	back := backTo(r, "/social")
	if err := s.share.DeleteComment(r.Context(), ps, id); err != nil {
		s.fail(w, r, err, back)
		return
	}
	s.flash(r, render.LevelSuccess, "Comment deleted.")
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (s *Server) handleNewShare(w http.ResponseWriter, r *http.Request) {
	ps := s.pageSession(r)
	q := r.URL.Query()
	ct := app.ParseFilter(q.Get("type"))

	var items []domain.ContentItem
	var optionsErr string
	if ct != "" {
		var err error
		_, items, err = s.create.Options(r.Context(), ps, string(ct))
		if errors.Is(err, domain.ErrUnauthorized) {
			s.fail(w, r, err, "/login")
			return
		}
		if err != nil {
			optionsErr = app.Describe(err)
		}
	}

	page := render.NewSharePage{
		Base:       s.base(r, ps, "Share", "social"),
		Types:      render.TypeOptions(ct, false),
		Type:       string(ct),
		OptionsErr: optionsErr,
	}
	if ct != "" {
		contentID, _ := strconv.ParseInt(q.Get("content_id"), 10, 64)
		page.Options = render.Options(ct, items, contentID)
		if contentID > 0 {
			if item, err := s.create.Preview(items, contentID); err == nil {
				page.ContentID = contentID
				page.Preview = render.Preview(ct, *item)
			}
		}
	}
	s.renderPage(w, http.StatusOK, "new_share", page)
}

func (s *Server) handleCreateShare(w http.ResponseWriter, r *http.Request) {
	ps := s.pageSession(r)
	contentID, _ := strconv.ParseInt(r.PostFormValue("content_id"), 10, 64)
	in := domain.ShareInput{
		ContentType: domain.ContentType(r.PostFormValue("content_type")),
		ContentID:   contentID,
		Description: strings.TrimSpace(r.PostFormValue("description")),
		Visibility:  r.PostFormValue("visibility"),
	}
	share, err := s.create.Create(r.Context(), ps, in)
	if err != nil {
		back := "/social/new"
		if in.ContentType != "" {
			back += "?type=" + url.QueryEscape(string(in.ContentType))
		}
		s.fail(w, r, err, back)
		return
	}
	s.flash(r, render.LevelSuccess, "Shared!")
	if share != nil && share.ID > 0 {
		http.Redirect(w, r, fmt.Sprintf("/social/share/%d", share.ID), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/social", http.StatusSeeOther)
}
