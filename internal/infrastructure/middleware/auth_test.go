package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clivewatts/stock-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type stubUsers struct {
	byToken map[string]*domain.User
}

func (s *stubUsers) GetByID(_ context.Context, id string) (*domain.User, error)  { return nil, nil }
func (s *stubUsers) List(_ context.Context) ([]*domain.User, error)              { return nil, nil }
func (s *stubUsers) Create(_ context.Context, u *domain.User) error              { return nil }
func (s *stubUsers) Update(_ context.Context, u *domain.User) error              { return nil }
func (s *stubUsers) Delete(_ context.Context, id string) error                   { return nil }
func (s *stubUsers) GetByToken(_ context.Context, token string) (*domain.User, error) {
	return s.byToken[token], nil
}

func newAuthedRouter(users *stubUsers, adminOnly bool) http.Handler {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := domain.UserFromContext(r.Context())
		if user == nil {
			http.Error(w, "no user in context", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	var h http.Handler = inner
	if adminOnly {
		h = RequireAdmin(h)
	}
	return RequireAuth(users, zerolog.Nop())(h)
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	h := newAuthedRouter(&stubUsers{}, false)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuthRejectsUnknownToken(t *testing.T) {
	h := newAuthedRouter(&stubUsers{byToken: map[string]*domain.User{}}, false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuthAcceptsBearerAndHeaderToken(t *testing.T) {
	users := &stubUsers{byToken: map[string]*domain.User{
		"tok": {ID: "u1", Role: domain.RoleUser},
	}}
	h := newAuthedRouter(users, false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("bearer: expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-API-Token", "tok")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("header token: expected 200, got %d", rec.Code)
	}
}

func TestRequireAdminGatesByRole(t *testing.T) {
	users := &stubUsers{byToken: map[string]*domain.User{
		"staff": {ID: "u1", Role: domain.RoleUser},
		"admin": {ID: "u2", Role: domain.RoleAdmin},
	}}
	h := newAuthedRouter(users, true)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer staff")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("staff: expected 403, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer admin")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin: expected 200, got %d", rec.Code)
	}
}
