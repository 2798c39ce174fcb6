package auth_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/lumenpress/lumen/internal/auth"
	"github.com/lumenpress/lumen/internal/shared"
	_ "github.com/lumenpress/lumen/testing"
)

type stubRepo struct {
	user  *auth.User
	roles []string
}

func (s *stubRepo) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	if s.user == nil || s.user.Username != username {
		return nil, shared.ErrInvalidCredentials
	}
	return s.user, nil
}

func (s *stubRepo) FindWithRoles(ctx context.Context, userID int64) (*auth.User, []string, error) {
	if s.user == nil || s.user.ID != userID {
		return nil, nil, &shared.NotFound{Kind: "user", ID: "?"}
	}
	return s.user, s.roles, nil
}

func newAuthHandler(t *testing.T, repo auth.RepositoryPort) (*auth.Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionManager := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false)
	csrfManager := shared.NewCSRFManager("csrfsecret")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := auth.NewHandler(logger, auth.NewService(repo), sessionManager, csrfManager)
	return handler, sessionManager
}

func withSession(t *testing.T, sm *shared.SessionManager, req *http.Request) (*http.Request, *shared.Session) {
	t.Helper()
	sess, err := sm.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	ctx := shared.ContextWithSession(req.Context(), sess)
	ctx = shared.ContextWithActor(ctx, shared.Anonymous())
	return req.WithContext(ctx), sess
}

func TestSessionAnonymous(t *testing.T) {
	handler, sessionManager := newAuthHandler(t, &stubRepo{})

	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	req, sess := withSession(t, sessionManager, req)

	res := httptest.NewRecorder()
	handler.HandleSessionForTest(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	var body struct {
		Authenticated bool   `json:"authenticated"`
		CSRFToken     string `json:"csrf_token"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Authenticated {
		t.Fatalf("expected anonymous session")
	}
	if body.CSRFToken == "" {
		t.Fatalf("expected csrf token to be issued")
	}
	if sess.Get(shared.CSRFSessionKey) != body.CSRFToken {
		t.Fatalf("token in session does not match response")
	}
}

func TestLoginSuccess(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := &stubRepo{
		user:  &auth.User{ID: 9, Username: "editor", PasswordHash: string(hashed)},
		roles: []string{"Editor"},
	}
	handler, sessionManager := newAuthHandler(t, repo)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"editor","password":"correct horse"}`))
	req.Header.Set("Content-Type", "application/json")
	req, sess := withSession(t, sessionManager, req)

	res := httptest.NewRecorder()
	handler.HandleLoginForTest(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if sess.User() != 9 {
		t.Fatalf("expected session bound to user 9, got %d", sess.User())
	}
	var body struct {
		Authenticated bool     `json:"authenticated"`
		Roles         []string `json:"roles"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Authenticated {
		t.Fatalf("expected authenticated response")
	}
	if len(body.Roles) != 1 || body.Roles[0] != "editor" {
		t.Fatalf("expected normalized roles, got %v", body.Roles)
	}
}

func TestLoginIssuesCSRFToken(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := &stubRepo{
		user:  &auth.User{ID: 9, Username: "editor", PasswordHash: string(hashed)},
		roles: []string{"Editor"},
	}
	handler, sessionManager := newAuthHandler(t, repo)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"editor","password":"correct horse"}`))
	req.Header.Set("Content-Type", "application/json")
	req, sess := withSession(t, sessionManager, req)

	res := httptest.NewRecorder()
	handler.HandleLoginForTest(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	var body struct {
		CSRFToken string `json:"csrf_token"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.CSRFToken == "" {
		t.Fatalf("expected csrf token in login response")
	}
	if sess.Get(shared.CSRFSessionKey) != body.CSRFToken {
		t.Fatalf("token in session does not match response")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := &stubRepo{user: &auth.User{ID: 9, Username: "editor", PasswordHash: string(hashed)}}
	handler, sessionManager := newAuthHandler(t, repo)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"editor","password":"wrong password"}`))
	req.Header.Set("Content-Type", "application/json")
	req, sess := withSession(t, sessionManager, req)

	res := httptest.NewRecorder()
	handler.HandleLoginForTest(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
	if sess.User() != 0 {
		t.Fatalf("expected session to stay anonymous")
	}
}

func TestLogoutDestroysSession(t *testing.T) {
	handler, sessionManager := newAuthHandler(t, &stubRepo{})

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req, sess := withSession(t, sessionManager, req)
	sess.SetUser(9)

	res := httptest.NewRecorder()
	handler.HandleLogoutForTest(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if err := sessionManager.Commit(req.Context(), res, req, sess); err != nil {
		t.Fatalf("commit session: %v", err)
	}
	cookieCleared := false
	// res.Result() snapshots headers at the handler's WriteHeader, before
	// Commit writes the clear-cookie; parse the live header map instead.
	for _, c := range (&http.Response{Header: res.Header()}).Cookies() {
		if c.Name == sessionManager.CookieName() && c.MaxAge < 0 {
			cookieCleared = true
		}
	}
	if !cookieCleared {
		t.Fatalf("expected session cookie to be cleared")
	}
}
