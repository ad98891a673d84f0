package adapthttp_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	adapthttp "healthweb/internal/adapter/http"
	"healthweb/internal/adapter/memory"
	"healthweb/internal/domain"
	"healthweb/internal/render"

	"github.com/golang-jwt/jwt/v4"
)

// ---------------------------------------------------------------------------
// Mock backend (function-fields pattern)
// ---------------------------------------------------------------------------

type mockAuth struct {
	loginFn    func(ctx context.Context, identifier, password string) (*domain.Session, error)
	registerFn func(ctx context.Context, in domain.RegisterInput) error
}

func (m *mockAuth) Login(ctx context.Context, identifier, password string) (*domain.Session, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, identifier, password)
	}
	id := int64(7)
	return &domain.Session{Token: "tok-" + identifier, User: domain.UserInfo{ID: &id, Username: identifier}}, nil
}

func (m *mockAuth) Register(ctx context.Context, in domain.RegisterInput) error {
	if m.registerFn != nil {
		return m.registerFn(ctx, in)
	}
	return nil
}

type mockBackend struct {
	listRecordsFn  func(ctx context.Context) ([]domain.HealthRecord, error)
	getRecordFn    func(ctx context.Context, id int64) (*domain.HealthRecord, error)
	createRecordFn func(ctx context.Context, in domain.RecordInput) error
	updateRecordFn func(ctx context.Context, id int64, in domain.RecordInput) error
	deleteRecordFn func(ctx context.Context, id int64) error

	listSharesFn    func(ctx context.Context, page, perPage int, filter domain.ContentType) (*domain.SharePage, error)
	getShareFn      func(ctx context.Context, id int64) (*domain.Share, error)
	createShareFn   func(ctx context.Context, in domain.ShareInput) (*domain.Share, error)
	likeFn          func(ctx context.Context, shareID int64) error
	unlikeFn        func(ctx context.Context, shareID int64) error
	listLikesFn     func(ctx context.Context, shareID int64) ([]domain.Like, error)
	listCommentsFn  func(ctx context.Context, shareID int64) ([]domain.Comment, error)
	postCommentFn   func(ctx context.Context, shareID int64, content string, parentID *int64) error
	deleteCommentFn func(ctx context.Context, commentID int64) error

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
	return &domain.HealthRecord{ID: id, RecordDate: "2026-01-02"}, nil
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
	return &domain.SharePage{CurrentPage: page, Pages: 1}, nil
}

func (m *mockBackend) GetShare(ctx context.Context, id int64) (*domain.Share, error) {
	if m.getShareFn != nil {
		return m.getShareFn(ctx, id)
	}
	return &domain.Share{ID: id, Username: "bob", ContentType: domain.ContentHealthRecord, ContentID: 1, IsValid: true}, nil
}

func (m *mockBackend) CreateShare(ctx context.Context, in domain.ShareInput) (*domain.Share, error) {
	if m.createShareFn != nil {
		return m.createShareFn(ctx, in)
	}
	return &domain.Share{ID: 1}, nil
}

func (m *mockBackend) Like(ctx context.Context, shareID int64) error {
	if m.likeFn != nil {
		return m.likeFn(ctx, shareID)
	}
	return nil
}

func (m *mockBackend) Unlike(ctx context.Context, shareID int64) error {
	if m.unlikeFn != nil {
		return m.unlikeFn(ctx, shareID)
	}
	return nil
}

func (m *mockBackend) ListLikes(ctx context.Context, shareID int64) ([]domain.Like, error) {
	if m.listLikesFn != nil {
		return m.listLikesFn(ctx, shareID)
	}
	return nil, nil
}

func (m *mockBackend) ListComments(ctx context.Context, shareID int64) ([]domain.Comment, error) {
	if m.listCommentsFn != nil {
		return m.listCommentsFn(ctx, shareID)
	}
	return nil, nil
}

func (m *mockBackend) PostComment(ctx context.Context, shareID int64, content string, parentID *int64) error {
	if m.postCommentFn != nil {
		return m.postCommentFn(ctx, shareID, content, parentID)
	}
	return nil
}

func (m *mockBackend) DeleteComment(ctx context.Context, commentID int64) error {
	if m.deleteCommentFn != nil {
		return m.deleteCommentFn(ctx, commentID)
	}
	return nil
}

func (m *mockBackend) ContentOptions(ctx context.Context, ct domain.ContentType) ([]domain.ContentItem, error) {
	if m.contentOptionsFn != nil {
		return m.contentOptionsFn(ctx, ct)
	}
	return nil, nil
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

type testEnv struct {
	srv    *httptest.Server
	client *http.Client
	tokens []string
}

func newTestServer(t *testing.T, auth *mockAuth, api *mockBackend, tweak func(*adapthttp.Options)) *testEnv {
	t.Helper()
	rdr, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	opts := adapthttp.Options{
		WebDir:   t.TempDir(),
		HashKey:  []byte("0123456789abcdef0123456789abcdef"),
		BlockKey: []byte("fedcba9876543210fedcba9876543210"),
	}
	if tweak != nil {
		tweak(&opts)
	}
	env := &testEnv{}
	backendFor := func(token string) domain.Backend {
		env.tokens = append(env.tokens, token)
		return api
	}
	env.srv = httptest.NewServer(adapthttp.New(auth, backendFor, rdr, opts).Handler())
	t.Cleanup(env.srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	env.client = &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body io.Reader, header map[string]string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, e.srv.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(b)
}

func (e *testEnv) get(t *testing.T, path string) (*http.Response, string) {
	return e.do(t, http.MethodGet, path, nil, nil)
}

func (e *testEnv) postForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	return e.do(t, http.MethodPost, path, strings.NewReader(form.Encode()),
		map[string]string{"Content-Type": "application/x-www-form-urlencoded"})
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	resp, _ := e.postForm(t, "/login", url.Values{"identifier": {"alice"}, "password": {"pw"}})
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/dashboard" {
		t.Fatalf("login: expected 303 to /dashboard, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func wantRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != location {
		t.Fatalf("expected redirect to %q, got %q", location, got)
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestHealthEndpoint(t *testing.T) {
	env := newTestServer(t, &mockAuth{}, &mockBackend{}, nil)
	resp, body := env.get(t, "/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["ok"] != true {
		t.Fatalf("expected ok=true, got %v", got["ok"])
	}
}

func TestGuardRedirects(t *testing.T) {
	env := newTestServer(t, &mockAuth{}, &mockBackend{}, nil)

	for _, path := range []string{"/dashboard", "/social", "/social/share/3", "/social/new"} {
		resp, _ := env.get(t, path)
		wantRedirect(t, resp, "/login")
	}
	resp, _ := env.get(t, "/")
	wantRedirect(t, resp, "/login")

	resp, _ = env.get(t, "/login")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login page: expected 200, got %d", resp.StatusCode)
	}

	env.login(t)
	resp, _ = env.get(t, "/login")
	wantRedirect(t, resp, "/dashboard")
	resp, _ = env.get(t, "/")
	wantRedirect(t, resp, "/dashboard")
}

func TestGuardJSONUnauthorized(t *testing.T) {
	env := newTestServer(t, &mockAuth{}, &mockBackend{}, nil)
	resp, body := env.do(t, http.MethodPost, "/social/share/1/like", strings.NewReader(`{"liked":false,"likes_count":0}`),
		map[string]string{"Content-Type": "application/json", "Accept": "application/json"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, `"redirect":"/login"`) {
		t.Fatalf("expected redirect hint in body, got %s", body)
	}
}

func TestLoginBindsToken(t *testing.T) {
	var gotIdentifier string
	auth := &mockAuth{loginFn: func(_ context.Context, identifier, password string) (*domain.Session, error) {
		gotIdentifier = identifier
		return &domain.Session{Token: "secret", User: domain.UserInfo{Username: "alice"}}, nil
	}}
	api := &mockBackend{listRecordsFn: func(context.Context) ([]domain.HealthRecord, error) {
		w := 71.5
		return []domain.HealthRecord{{ID: 1, RecordDate: "2026-03-01", Weight: &w}}, nil
	}}
	env := newTestServer(t, auth, api, nil)
	env.login(t)
	if gotIdentifier != "alice" {
		t.Fatalf("expected identifier alice, got %q", gotIdentifier)
	}

	resp, body := env.get(t, "/dashboard")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Welcome back!") {
		t.Error("expected login toast on the dashboard")
	}
	if !strings.Contains(body, "71.5") {
		t.Error("expected the record weight on the dashboard")
	}
	if last := env.tokens[len(env.tokens)-1]; last != "secret" {
		t.Fatalf("expected backend bound to token %q, got %q", "secret", last)
	}

	// Flashes are shown once.
	_, body = env.get(t, "/dashboard")
	if strings.Contains(body, "Welcome back!") {
		t.Error("toast shown twice")
	}
}

func TestLoginFailure(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantText string
	}{
		{"rejected", fmt.Errorf("login: %w", domain.ErrRejected), "Login failed."},
		{"unavailable", fmt.Errorf("login: %w", domain.ErrUnavailable), "The service is unavailable."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			auth := &mockAuth{loginFn: func(context.Context, string, string) (*domain.Session, error) {
				return nil, tc.err
			}}
			env := newTestServer(t, auth, &mockBackend{}, nil)
			resp, body := env.postForm(t, "/login", url.Values{"identifier": {"alice"}, "password": {"bad"}})
			if resp.StatusCode != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", resp.StatusCode)
			}
			if !strings.Contains(body, tc.wantText) {
				t.Fatalf("expected %q in body", tc.wantText)
			}
			if !strings.Contains(body, `value="alice"`) {
				t.Error("expected identifier to be kept in the form")
			}
		})
	}
}

func TestRegisterPasswordMismatch(t *testing.T) {
	called := false
	auth := &mockAuth{registerFn: func(context.Context, domain.RegisterInput) error {
		called = true
		return nil
	}}
	env := newTestServer(t, auth, &mockBackend{}, nil)
	resp, body := env.postForm(t, "/register", url.Values{"username": {"bob"}, "password": {"a"}, "confirm": {"b"}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if called {
		t.Fatal("register should not reach the backend")
	}
	if !strings.Contains(body, "passwords do not match") {
		t.Fatal("expected mismatch message")
	}

	resp, _ = env.postForm(t, "/register", url.Values{"username": {"bob"}, "password": {"a"}, "confirm": {"a"}})
	wantRedirect(t, resp, "/login")
	if !called {
		t.Fatal("expected register call")
	}
}

func TestUnauthorizedBackendLogsOut(t *testing.T) {
	api := &mockBackend{listRecordsFn: func(context.Context) ([]domain.HealthRecord, error) {
		return nil, fmt.Errorf("list: %w", domain.ErrUnauthorized)
	}}
	env := newTestServer(t, &mockAuth{}, api, nil)
	env.login(t)

	resp, _ := env.get(t, "/dashboard")
	wantRedirect(t, resp, "/login")

	resp, body := env.get(t, "/login")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected login page after logout, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Your session has expired.") {
		t.Error("expected session expired toast")
	}
}

func TestExpiredTokenIsCleared(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	auth := &mockAuth{loginFn: func(context.Context, string, string) (*domain.Session, error) {
		return &domain.Session{Token: tok}, nil
	}}
	env := newTestServer(t, auth, &mockBackend{}, nil)
	resp, _ := env.postForm(t, "/login", url.Values{"identifier": {"alice"}, "password": {"pw"}})
	wantRedirect(t, resp, "/dashboard")

	resp, _ = env.get(t, "/dashboard")
	wantRedirect(t, resp, "/login")
}

func TestCreateRecord(t *testing.T) {
	var got domain.RecordInput
	api := &mockBackend{createRecordFn: func(_ context.Context, in domain.RecordInput) error {
		got = in
		return nil
	}}
	env := newTestServer(t, &mockAuth{}, api, nil)
	env.login(t)

	resp, _ := env.postForm(t, "/dashboard/records", url.Values{
		"record_date": {"2026-03-01"}, "weight": {"70"}, "height": {"175"}, "heart_rate": {"62"},
	})
	wantRedirect(t, resp, "/dashboard")
	if got.RecordDate != "2026-03-01" || got.Weight == nil || *got.Weight != 70 {
		t.Fatalf("unexpected input: %+v", got)
	}
	if got.BMI == nil || *got.BMI != 22.9 {
		t.Fatalf("expected derived BMI 22.9, got %v", got.BMI)
	}

	// Invalid numbers never reach the backend.
	got = domain.RecordInput{}
	resp, _ = env.postForm(t, "/dashboard/records", url.Values{"record_date": {"2026-03-01"}, "weight": {"heavy"}})
	wantRedirect(t, resp, "/dashboard")
	if got.RecordDate != "" {
		t.Fatal("invalid form reached the backend")
	}
	_, body := env.get(t, "/dashboard")
	if !strings.Contains(body, "weight must be a number") {
		t.Error("expected validation toast")
	}

	for _, v := range []string{"NaN", "Inf", "+Inf"} {
		resp, _ = env.postForm(t, "/dashboard/records", url.Values{"record_date": {"2026-03-01"}, "weight": {v}, "height": {"175"}})
		wantRedirect(t, resp, "/dashboard")
		if got.RecordDate != "" {
			t.Fatalf("weight %s reached the backend", v)
		}
	}
}

func TestToggleLikeJSON(t *testing.T) {
	var liked, unliked int64
	api := &mockBackend{
		likeFn:   func(_ context.Context, id int64) error { liked = id; return nil },
		unlikeFn: func(_ context.Context, id int64) error { unliked = id; return nil },
	}
	env := newTestServer(t, &mockAuth{}, api, nil)
	env.login(t)

	jsonHeader := map[string]string{"Content-Type": "application/json", "Accept": "application/json"}
	resp, body := env.do(t, http.MethodPost, "/social/share/5/like", strings.NewReader(`{"liked":false,"likes_count":3}`), jsonHeader)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	var state struct {
		Liked bool `json:"liked"`
		Count int  `json:"likes_count"`
	}
	if err := json.Unmarshal([]byte(body), &state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !state.Liked || state.Count != 4 || liked != 5 {
		t.Fatalf("unexpected like result %+v (liked id %d)", state, liked)
	}

	_, body = env.do(t, http.MethodPost, "/social/share/5/like", strings.NewReader(`{"liked":true,"likes_count":4}`), jsonHeader)
	if err := json.Unmarshal([]byte(body), &state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state.Liked || state.Count != 3 || unliked != 5 {
		t.Fatalf("unexpected unlike result %+v (unliked id %d)", state, unliked)
	}
}

func TestToggleLikeFailureKeepsState(t *testing.T) {
	api := &mockBackend{likeFn: func(context.Context, int64) error {
		return fmt.Errorf("like: %w", domain.ErrUnavailable)
	}}
	env := newTestServer(t, &mockAuth{}, api, nil)
	env.login(t)

	resp, body := env.do(t, http.MethodPost, "/social/share/5/like", strings.NewReader(`{"liked":false,"likes_count":3}`),
		map[string]string{"Content-Type": "application/json", "Accept": "application/json"})
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, `"liked":false`) || !strings.Contains(body, `"likes_count":3`) {
		t.Fatalf("expected previous state in reply, got %s", body)
	}
}

func TestToggleLikeUnauthorizedJSON(t *testing.T) {
	api := &mockBackend{likeFn: func(context.Context, int64) error {
		return fmt.Errorf("like: %w", domain.ErrUnauthorized)
	}}
	env := newTestServer(t, &mockAuth{}, api, nil)
	env.login(t)

	resp, body := env.do(t, http.MethodPost, "/social/share/5/like", strings.NewReader(`{"liked":false,"likes_count":3}`),
		map[string]string{"Content-Type": "application/json", "Accept": "application/json"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	var reply struct {
		Redirect string `json:"redirect"`
		Liked    bool   `json:"liked"`
		Count    int    `json:"likes_count"`
	}
	if err := json.Unmarshal([]byte(body), &reply); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if reply.Redirect != "/login" {
		t.Fatalf("expected redirect to /login, got %q in %s", reply.Redirect, body)
	}
	if reply.Liked || reply.Count != 3 {
		t.Fatalf("expected previous state, got %+v", reply)
	}

	// The session is gone, so the next page goes to login too.
	resp, _ = env.get(t, "/dashboard")
	wantRedirect(t, resp, "/login")
}

func TestToggleLikeForm(t *testing.T) {
	env := newTestServer(t, &mockAuth{}, &mockBackend{}, nil)
	env.login(t)
	resp, _ := env.postForm(t, "/social/share/5/like", url.Values{"liked": {"false"}, "likes_count": {"0"}})
	wantRedirect(t, resp, "/social/share/5")
}

func TestFeedOfflineShowsDemo(t *testing.T) {
	api := &mockBackend{listSharesFn: func(context.Context, int, int, domain.ContentType) (*domain.SharePage, error) {
		return nil, fmt.Errorf("list: %w", domain.ErrUnavailable)
	}}

	env := newTestServer(t, &mockAuth{}, api, func(o *adapthttp.Options) { o.Offline = true })
	env.login(t)
	resp, body := env.get(t, "/social")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "demo data") || !strings.Contains(body, "Morning check-in") {
		t.Fatal("expected demo banner and demo shares")
	}

	env = newTestServer(t, &mockAuth{}, api, nil)
	env.login(t)
	_, body = env.get(t, "/social")
	if strings.Contains(body, "Morning check-in") {
		t.Fatal("demo shares shown without offline mode")
	}
	if !strings.Contains(body, "The service is unavailable.") {
		t.Fatal("expected unavailable toast")
	}
}

func TestUnauthorizedPageKeepsPendingToasts(t *testing.T) {
	api := &mockBackend{
		listSharesFn: func(context.Context, int, int, domain.ContentType) (*domain.SharePage, error) {
			return nil, fmt.Errorf("list: %w", domain.ErrUnauthorized)
		},
		contentOptionsFn: func(context.Context, domain.ContentType) ([]domain.ContentItem, error) {
			return nil, fmt.Errorf("options: %w", domain.ErrUnauthorized)
		},
	}
	for _, path := range []string{"/social", "/social/new?type=water_intake"} {
		t.Run(path, func(t *testing.T) {
			env := newTestServer(t, &mockAuth{}, api, nil)
			env.login(t)

			resp, _ := env.get(t, path)
			wantRedirect(t, resp, "/login")

			_, body := env.get(t, "/login")
			if !strings.Contains(body, "Welcome back!") {
				t.Error("toast queued before the redirect was lost")
			}
			if !strings.Contains(body, "Your session has expired.") {
				t.Error("expected session expired toast")
			}
		})
	}
}

func TestFeedPagination(t *testing.T) {
	var gotPage int
	var gotFilter domain.ContentType
	api := &mockBackend{listSharesFn: func(_ context.Context, page, perPage int, filter domain.ContentType) (*domain.SharePage, error) {
		gotPage, gotFilter = page, filter
		return &domain.SharePage{
			Shares:      []domain.Share{{ID: 11, Username: "bob", ContentType: domain.ContentWaterIntake, IsValid: true, Description: "two liters"}},
			CurrentPage: page, Pages: 3, Total: 25,
		}, nil
	}}
	env := newTestServer(t, &mockAuth{}, api, nil)
	env.login(t)

	_, body := env.get(t, "/social?page=2&type=water_intake")
	if gotPage != 2 || gotFilter != domain.ContentWaterIntake {
		t.Fatalf("expected page 2 of water_intake, got %d %q", gotPage, gotFilter)
	}
	for _, want := range []string{"two liters", "/social?page=3&amp;type=water_intake", "/social?page=1&amp;type=water_intake"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in body", want)
		}
	}
}

func TestShareDetailErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantText   string
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound, "This share does not exist or has been deleted."},
		{"private", domain.ErrForbidden, http.StatusForbidden, "This share is private."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			api := &mockBackend{getShareFn: func(context.Context, int64) (*domain.Share, error) {
				return nil, fmt.Errorf("get share: %w", tc.err)
			}}
			env := newTestServer(t, &mockAuth{}, api, nil)
			env.login(t)
			resp, body := env.get(t, "/social/share/9")
			if resp.StatusCode != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, resp.StatusCode)
			}
			if !strings.Contains(body, tc.wantText) {
				t.Fatalf("expected %q in body", tc.wantText)
			}
		})
	}
}

func TestShareDetailComments(t *testing.T) {
	parent := int64(1)
	api := &mockBackend{
		listCommentsFn: func(context.Context, int64) ([]domain.Comment, error) {
			return []domain.Comment{
				{ID: 1, Username: "carol", Content: "nice work"},
				{ID: 2, Username: "dave", Content: "agreed", ParentID: &parent},
			}, nil
		},
		listLikesFn: func(context.Context, int64) ([]domain.Like, error) {
			return []domain.Like{{UserID: 3, Username: "erin"}}, nil
		},
	}
	env := newTestServer(t, &mockAuth{}, api, nil)
	env.login(t)
	resp, body := env.get(t, "/social/share/4")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	for _, want := range []string{"nice work", "agreed", "erin"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in body", want)
		}
	}
}

func TestPostComment(t *testing.T) {
	var gotContent string
	var gotParent *int64
	api := &mockBackend{postCommentFn: func(_ context.Context, _ int64, content string, parentID *int64) error {
		gotContent, gotParent = content, parentID
		return nil
	}}
	env := newTestServer(t, &mockAuth{}, api, nil)
	env.login(t)

	resp, _ := env.postForm(t, "/social/share/4/comment", url.Values{"content": {"  hi  "}, "parent_id": {"8"}})
	wantRedirect(t, resp, "/social/share/4")
	if gotContent != "hi" || gotParent == nil || *gotParent != 8 {
		t.Fatalf("unexpected comment %q parent %v", gotContent, gotParent)
	}

	gotContent = ""
	resp, _ = env.postForm(t, "/social/share/4/comment", url.Values{"content": {"   "}})
	wantRedirect(t, resp, "/social/share/4")
	if gotContent != "" {
		t.Fatal("blank comment reached the backend")
	}
}

func TestCreateShare(t *testing.T) {
	var got domain.ShareInput
	api := &mockBackend{createShareFn: func(_ context.Context, in domain.ShareInput) (*domain.Share, error) {
		got = in
		return &domain.Share{ID: 77}, nil
	}}
	env := newTestServer(t, &mockAuth{}, api, nil)
	env.login(t)

	resp, _ := env.postForm(t, "/social/share", url.Values{
		"content_type": {"health_record"}, "content_id": {"3"}, "description": {"my week"},
	})
	wantRedirect(t, resp, "/social/share/77")
	if got.ContentType != domain.ContentHealthRecord || got.ContentID != 3 || got.Visibility != "public" {
		t.Fatalf("unexpected share input %+v", got)
	}
}

func TestNewShareOptions(t *testing.T) {
	api := &mockBackend{contentOptionsFn: func(_ context.Context, ct domain.ContentType) ([]domain.ContentItem, error) {
		w := 3.0
		return []domain.ContentItem{{ID: 2, CreatedAt: "2026-03-01T08:00:00", Amount: &w}}, nil
	}}
	env := newTestServer(t, &mockAuth{}, api, nil)
	env.login(t)
	resp, body := env.get(t, "/social/new?type=water_intake&content_id=2")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Preview") {
		t.Error("expected preview for the selected item")
	}
	if !strings.Contains(body, `<option value="2" selected>`) {
		t.Error("expected selected option")
	}
}

func TestStateRepositoryMode(t *testing.T) {
	db := memory.New()
	env := newTestServer(t, &mockAuth{}, &mockBackend{}, func(o *adapthttp.Options) { o.State = db })
	env.login(t)

	resp, _ := env.get(t, "/dashboard")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	n, err := db.PurgeStateBefore(context.Background(), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n == 0 {
		t.Fatal("expected login state in the repository")
	}
	resp, _ = env.get(t, "/dashboard")
	wantRedirect(t, resp, "/login")
}

func TestCookieKeyRotation(t *testing.T) {
	oldHash := []byte("0123456789abcdef0123456789abcdef")
	oldBlock := []byte("fedcba9876543210fedcba9876543210")
	rotate := func(withOld bool) func(*adapthttp.Options) {
		return func(o *adapthttp.Options) {
			o.HashKey = []byte("rotated-hash-key-rotated-hash-ke")
			o.BlockKey = []byte("rotated-block-key-rotated-block-")
			if withOld {
				o.OldKeys = [][]byte{oldHash, oldBlock}
			}
		}
	}
	tests := []struct {
		name    string
		withOld bool
		want    int
	}{
		{"old keys accepted", true, http.StatusOK},
		{"old keys dropped", false, http.StatusSeeOther},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := newTestServer(t, &mockAuth{}, &mockBackend{}, nil)
			before.login(t)

			after := newTestServer(t, &mockAuth{}, &mockBackend{}, rotate(tc.withOld))
			after.client = before.client
			resp, _ := after.get(t, "/dashboard")
			if resp.StatusCode != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.StatusCode)
			}
		})
	}
}

func TestLogout(t *testing.T) {
	env := newTestServer(t, &mockAuth{}, &mockBackend{}, nil)
	env.login(t)
	resp, _ := env.postForm(t, "/logout", nil)
	wantRedirect(t, resp, "/login")
	resp, _ = env.get(t, "/dashboard")
	wantRedirect(t, resp, "/login")
}

func TestUnknownPage(t *testing.T) {
	env := newTestServer(t, &mockAuth{}, &mockBackend{}, nil)
	env.login(t)
	resp, body := env.get(t, "/nowhere")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "does not exist") {
		t.Fatal("expected not found message")
	}
}
