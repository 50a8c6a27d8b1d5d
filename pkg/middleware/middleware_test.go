package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"computer-booking/internal/data/entity"
	"computer-booking/pkg/clock"
	"computer-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func okHandler(seen *context.Context) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			*seen = r.Context()
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth(t *testing.T) {
	tokens := utils.NewTokenManager(utils.JWTConfig{Secret: "test-secret", ExpiryHours: 1}, clock.Real())
	userID := uuid.New()
	valid, _, err := tokens.Generate(userID, "user")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + valid, http.StatusOK},
		{"lowercase scheme", "bearer " + valid, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"no token", "Bearer ", http.StatusUnauthorized},
		{"garbage", "Bearer not.a.jwt", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen context.Context
			handler := Auth(tokens, zap.NewNop())(okHandler(&seen))

			req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				got, ok := utils.GetUserIDFromContext(seen)
				assert.True(t, ok)
				assert.Equal(t, userID, got)
				role, _ := utils.GetRoleFromContext(seen)
				assert.Equal(t, "user", role)
				token, ok := utils.GetTokenFromContext(seen)
				assert.True(t, ok)
				assert.Equal(t, valid, token)
			}
		})
	}
}

type mockUserRepository struct {
	findByIDFunc func(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func TestAdmin(t *testing.T) {
	tests := []struct {
		name string
		role entity.UserRole
		want int
	}{
		{"admin", entity.RoleAdmin, http.StatusOK},
		{"user", entity.RoleUser, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockUserRepository{
				findByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.User, error) {
					return &entity.User{Role: tt.role}, nil
				},
			}
			handler := Admin(repo, zap.NewNop())(okHandler(nil))

			req := httptest.NewRequest(http.MethodPost, "/api/admin/users", nil)
			req = req.WithContext(utils.SetUserContext(req.Context(), uuid.New(), "admin"))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestClientKey(t *testing.T) {
	guarded := ClientKey("s3cret", zap.NewNop())(okHandler(nil))

	req := httptest.NewRequest(http.MethodPost, "/api/client/unlock", nil)
	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/client/unlock", nil)
	req.Header.Set(ClientKeyHeader, "s3cret")
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	open := ClientKey("", zap.NewNop())(okHandler(nil))
	rec = httptest.NewRecorder()
	open.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/client/unlock", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORS_Preflight(t *testing.T) {
	handler := CORS()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight must not reach the handler")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/client/unlock", nil)
	req.Header.Set("Origin", "http://lab.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, "+ClientKeyHeader)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), ClientKeyHeader)
	assert.Equal(t, "300", rec.Header().Get("Access-Control-Max-Age"))
}

func TestRecover(t *testing.T) {
	handler := Recover(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
