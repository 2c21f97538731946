package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelops/reclamations-backend/internal/auth"
	"github.com/hotelops/reclamations-backend/internal/reclamations"
	"github.com/hotelops/reclamations-backend/internal/users"
	pkgAuth "github.com/hotelops/reclamations-backend/pkg/auth"
	"github.com/hotelops/reclamations-backend/pkg/config"
	"github.com/hotelops/reclamations-backend/pkg/db/models"
	"github.com/hotelops/reclamations-backend/pkg/enums"
	"github.com/hotelops/reclamations-backend/pkg/metrics"
)

var testJWT = config.JWTConfig{Secret: "router-secret", Issuer: "hotel-test", ExpirationMinutes: 5}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type allowAllSessions struct{}

func (allowAllSessions) HasSession(context.Context, string) (bool, error) { return true, nil }

type stubAuth struct{}

func (stubAuth) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{User: &users.UserDTO{Name: req.Name}}, nil
}

func (stubAuth) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.TokenPair, error) {
	return &auth.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil
}

func (stubAuth) Logout(ctx context.Context, token string) error { return nil }

type stubUsers struct{ deleted int }

func (s *stubUsers) Create(ctx context.Context, actor *users.Actor, in users.CreateInput) (*users.UserDTO, string, error) {
	return &users.UserDTO{Name: in.Name}, "", nil
}

func (s *stubUsers) List(ctx context.Context) ([]users.UserDTO, error) {
	return []users.UserDTO{}, nil
}

func (s *stubUsers) Get(ctx context.Context, id uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{ID: id}, nil
}

func (s *stubUsers) Update(ctx context.Context, actor *users.Actor, id uuid.UUID, in users.UpdateInput) (*users.UserDTO, error) {
	return &users.UserDTO{ID: id}, nil
}

func (s *stubUsers) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleted++
	return nil
}

func (s *stubUsers) AttachPlayerID(ctx context.Context, id uuid.UUID, playerID string) (*users.UserDTO, error) {
	return &users.UserDTO{ID: id}, nil
}

type stubReclamations struct{}

func (stubReclamations) Create(ctx context.Context, in reclamations.CreateInput) (*models.Reclamation, error) {
	return &models.Reclamation{ID: uuid.New(), Subject: in.Subject}, nil
}

func (stubReclamations) UpdateStatus(ctx context.Context, id uuid.UUID, in reclamations.StatusInput) (*models.Reclamation, error) {
	return &models.Reclamation{ID: id}, nil
}

func (stubReclamations) Update(ctx context.Context, id uuid.UUID, in reclamations.UpdateInput) (*models.Reclamation, error) {
	return &models.Reclamation{ID: id}, nil
}

func (stubReclamations) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (stubReclamations) List(ctx context.Context) ([]models.Reclamation, error) {
	return []models.Reclamation{{Subject: "listed"}}, nil
}

func (stubReclamations) ListByUser(ctx context.Context, userID string) ([]models.Reclamation, error) {
	return []models.Reclamation{}, nil
}

func newTestRouter(t *testing.T, enforce bool, db stubPinger) (http.Handler, *stubUsers) {
	t.Helper()
	cfg := &config.Config{
		App:          config.AppConfig{Env: "dev", CORSOrigins: "*"},
		JWT:          testJWT,
		FeatureFlags: config.FeatureFlagsConfig{EnforceAuth: enforce},
	}
	reg := prometheus.NewRegistry()
	usersSvc := &stubUsers{}
	router := NewRouter(RouterParams{
		Config:              cfg,
		DB:                  db,
		Sessions:            allowAllSessions{},
		AuthService:         stubAuth{},
		UsersService:        usersSvc,
		ReclamationsService: stubReclamations{},
		Socket: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}),
		Gatherer:    reg,
		HTTPMetrics: metrics.NewHTTPMetrics(reg),
	})
	return router, usersSvc
}

func tokenFor(t *testing.T, role enums.Role) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(testJWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Name:   "tester",
		Role:   role,
		JTI:    uuid.NewString(),
	})
	require.NoError(t, err)
	return token
}

func serve(h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndMetrics(t *testing.T) {
	router, _ := newTestRouter(t, false, stubPinger{})

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health/live", "", "").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health/ready", "", "").Code)

	serve(router, http.MethodGet, "/api/reclamations/", "", "")
	rec := serve(router, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_request_duration_seconds")
}

func TestReadyFailsWhenDatabaseDown(t *testing.T) {
	router, _ := newTestRouter(t, false, stubPinger{err: errors.New("down")})
	assert.Equal(t, http.StatusServiceUnavailable, serve(router, http.MethodGet, "/health/ready", "", "").Code)
}

func TestOpenModeAllowsAnonymousAccess(t *testing.T) {
	router, usersSvc := newTestRouter(t, false, stubPinger{})

	rec := serve(router, http.MethodGet, "/api/reclamations/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "listed")

	rec = serve(router, http.MethodDelete, "/api/users/"+uuid.NewString(), "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, usersSvc.deleted)

	rec = serve(router, http.MethodGet, "/api/reclamations/", "", "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEnforcedModeRequiresTokensAndAdmin(t *testing.T) {
	router, usersSvc := newTestRouter(t, true, stubPinger{})

	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/api/reclamations/", "", "").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodPost, "/api/users/login", `{"name":"a","password":"b"}`, "").Code)

	staff := tokenFor(t, enums.RoleStaff)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/reclamations/", "", staff).Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/users/get", "", staff).Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/users/"+uuid.NewString(), "", staff).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/api/users/"+uuid.NewString(), "", "").Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodDelete, "/api/users/"+uuid.NewString(), "", staff).Code)
	assert.Equal(t, 0, usersSvc.deleted)

	admin := tokenFor(t, enums.RoleAdmin)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodDelete, "/api/users/"+uuid.NewString(), "", admin).Code)
	assert.Equal(t, 1, usersSvc.deleted)
}

func TestSocketRouteMounted(t *testing.T) {
	router, _ := newTestRouter(t, true, stubPinger{})
	assert.Equal(t, http.StatusTeapot, serve(router, http.MethodGet, "/socket", "", "").Code)
}
