package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"healthweb/internal/domain"
)

const socialPath = "/api/social"

// ListShares returns one page of the feed. An empty filter lists every type.
func (c *Client) ListShares(ctx context.Context, page, perPage int, filter domain.ContentType) (*domain.SharePage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	if filter != "" {
		q.Set("content_type", string(filter))
	}
	var resp domain.SharePage
	if err := c.do(ctx, http.MethodGet, socialPath+"/shares", q, nil, &resp); err != nil {
		return nil, err
	}
	if resp.CurrentPage == 0 {
		resp.CurrentPage = page
	}
	return &resp, nil
}

// GetShare returns a single share.
func (c *Client) GetShare(ctx context.Context, id int64) (*domain.Share, error) {
	var s domain.Share
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/share/%d", socialPath, id), nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateShare publishes a share. The returned share may be nil when the
// backend does not echo it back.
func (c *Client) CreateShare(ctx context.Context, in domain.ShareInput) (*domain.Share, error) {
	var resp struct {
		Share *domain.Share `json:"share"`
	}
	if err := c.do(ctx, http.MethodPost, socialPath+"/share", nil, in, &resp); err != nil {
		return nil, err
	}
	return resp.Share, nil
}

// Like records the user's like on a share.
func (c *Client) Like(ctx context.Context, shareID int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("%s/share/%d/like", socialPath, shareID), nil, nil, nil)
}

// Unlike withdraws the user's like. The backend replies 404 when there was
// no like to withdraw.
func (c *Client) Unlike(ctx context.Context, shareID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/share/%d/like", socialPath, shareID), nil, nil, nil)
}

// ListLikes returns the likes on a share.
func (c *Client) ListLikes(ctx context.Context, shareID int64) ([]domain.Like, error) {
	var resp struct {
		Likes []domain.Like `json:"likes"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/share/%d/likes", socialPath, shareID), nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Likes, nil
}

// ListComments returns the top-level comments on a share with their replies.
func (c *Client) ListComments(ctx context.Context, shareID int64) ([]domain.Comment, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/share/%d/comments", socialPath, shareID), nil, nil, &raw); err != nil {
		return nil, err
	}
	return decodeComments(raw)
}

// decodeComments accepts either a bare array or an object with a comments field.
func decodeComments(raw json.RawMessage) ([]domain.Comment, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var out []domain.Comment
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("%w: decode comments: %v", domain.ErrUnavailable, err)
		}
		return out, nil
	}
	var wrapped struct {
		Comments []domain.Comment `json:"comments"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: decode comments: %v", domain.ErrUnavailable, err)
	}
	return wrapped.Comments, nil
}

// PostComment adds a comment, or a reply when parentID is set.
func (c *Client) PostComment(ctx context.Context, shareID int64, content string, parentID *int64) error {
	body := struct {
		Content  string `json:"content"`
		ParentID *int64 `json:"parent_id,omitempty"`
	}{content, parentID}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("%s/share/%d/comment", socialPath, shareID), nil, body, nil)
}

// DeleteComment removes one of the user's comments.
func (c *Client) DeleteComment(ctx context.Context, commentID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/comment/%d", socialPath, commentID), nil, nil, nil)
}
