package app_test

import (
	"context"
	"sync"

	"healthweb/internal/app"
	"healthweb/internal/domain"
)

// ---------------------------------------------------------------------------
// In-memory Storage
// ---------------------------------------------------------------------------

type mapStorage struct {
	mu     sync.Mutex
	m      map[string]string
	writes int
}

func newMapStorage() *mapStorage { return &mapStorage{m: map[string]string{}} }

func (s *mapStorage) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *mapStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	s.writes++
	return nil
}

func (s *mapStorage) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

// ---------------------------------------------------------------------------
// Mock backend (function-fields pattern)
// ---------------------------------------------------------------------------

type mockBackend struct {
	listRecordsFn    func(ctx context.Context) ([]domain.HealthRecord, error)
	getRecordFn      func(ctx context.Context, id int64) (*domain.HealthRecord, error)
	createRecordFn   func(ctx context.Context, in domain.RecordInput) error
	updateRecordFn   func(ctx context.Context, id int64, in domain.RecordInput) error
	deleteRecordFn   func(ctx context.Context, id int64) error
	listSharesFn     func(ctx context.Context, page, perPage int, filter domain.ContentType) (*domain.SharePage, error)
	getShareFn       func(ctx context.Context, id int64) (*domain.Share, error)
	createShareFn    func(ctx context.Context, in domain.ShareInput) (*domain.Share, error)
	likeFn           func(ctx context.Context, id int64) error
	unlikeFn         func(ctx context.Context, id int64) error
	listLikesFn      func(ctx context.Context, id int64) ([]domain.Like, error)
	listCommentsFn   func(ctx context.Context, id int64) ([]domain.Comment, error)
	postCommentFn    func(ctx context.Context, id int64, content string, parentID *int64) error
	deleteCommentFn  func(ctx context.Context, id int64) error
	contentOptionsFn func(ctx context.Context, ct domain.ContentType) ([]domain.ContentItem, error)
}

func (m *mockBackend) ListRecords(ctx context.Context) ([]domain.HealthRecord, error) {
	if m.listRecordsFn != nil {
		return m.listRecordsFn(ctx)
	}
	return nil, nil
}

func (m *mockBackend) GetRecord(ctx context.Context, id int64) (*domain.HealthRecord, error) {
	if m.getRecordFn != nil {
		return m.getRecordFn(ctx, id)
	}
	return &domain.HealthRecord{ID: id, RecordDate: "2026-01-01"}, nil
}

func (m *mockBackend) CreateRecord(ctx context.Context, in domain.RecordInput) error {
	if m.createRecordFn != nil {
		return m.createRecordFn(ctx, in)
	}
	return nil
}

func (m *mockBackend) UpdateRecord(ctx context.Context, id int64, in domain.RecordInput) error {
	if m.updateRecordFn != nil {
		return m.updateRecordFn(ctx, id, in)
	}
	return nil
}

func (m *mockBackend) DeleteRecord(ctx context.Context, id int64) error {
	if m.deleteRecordFn != nil {
		return m.deleteRecordFn(ctx, id)
	}
	return nil
}

func (m *mockBackend) ListShares(ctx context.Context, page, perPage int, filter domain.ContentType) (*domain.SharePage, error) {
	if m.listSharesFn != nil {
		return m.listSharesFn(ctx, page, perPage, filter)
	}
	return &domain.SharePage{CurrentPage: page}, nil
}

func (m *mockBackend) GetShare(ctx context.Context, id int64) (*domain.Share, error) {
	if m.getShareFn != nil {
		return m.getShareFn(ctx, id)
	}
	return &domain.Share{ID: id, ContentType: domain.ContentHealthRecord, ContentID: 1, IsValid: true}, nil
}

func (m *mockBackend) CreateShare(ctx context.Context, in domain.ShareInput) (*domain.Share, error) {
	if m.createShareFn != nil {
		return m.createShareFn(ctx, in)
	}
	return &domain.Share{ID: 1, ContentType: in.ContentType, ContentID: in.ContentID}, nil
}

func (m *mockBackend) Like(ctx context.Context, id int64) error {
	if m.likeFn != nil {
		return m.likeFn(ctx, id)
	}
	return nil
}

func (m *mockBackend) Unlike(ctx context.Context, id int64) error {
	if m.unlikeFn != nil {
		return m.unlikeFn(ctx, id)
	}
	return nil
}

func (m *mockBackend) ListLikes(ctx context.Context, id int64) ([]domain.Like, error) {
	if m.listLikesFn != nil {
		return m.listLikesFn(ctx, id)
	}
	return nil, nil
}

func (m *mockBackend) ListComments(ctx context.Context, id int64) ([]domain.Comment, error) {
	if m.listCommentsFn != nil {
		return m.listCommentsFn(ctx, id)
	}
	return nil, nil
}

func (m *mockBackend) PostComment(ctx context.Context, id int64, content string, parentID *int64) error {
	if m.postCommentFn != nil {
		return m.postCommentFn(ctx, id, content, parentID)
	}
	return nil
}

func (m *mockBackend) DeleteComment(ctx context.Context, id int64) error {
	if m.deleteCommentFn != nil {
		return m.deleteCommentFn(ctx, id)
	}
	return nil
}

func (m *mockBackend) ContentOptions(ctx context.Context, ct domain.ContentType) ([]domain.ContentItem, error) {
	if m.contentOptionsFn != nil {
		return m.contentOptionsFn(ctx, ct)
	}
	return nil, nil
}

// newPageSession returns a logged-in page session over a fresh storage.
func newPageSession(api domain.Backend) (*app.PageSession, *mapStorage) {
	st := newMapStorage()
	uid := int64(42)
	ss := app.NewSessionStore(st, false)
	_ = ss.SaveLogin(context.Background(), &domain.Session{Token: "tok", User: domain.UserInfo{ID: &uid, Username: "alice"}})
	return &app.PageSession{
		ClientID: "client-1",
		Session:  ss,
		Likes:    app.NewLikeCache(st),
		API:      api,
	}, st
}
