package controllers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/hotelops/reclamations-backend/internal/auth"
	"github.com/hotelops/reclamations-backend/internal/reclamations"
	"github.com/hotelops/reclamations-backend/internal/users"
	"github.com/hotelops/reclamations-backend/pkg/db/models"
)

type stubAuthService struct {
	loginFn   func(auth.LoginRequest) (*auth.LoginResponse, error)
	refreshFn func(auth.RefreshRequest) (*auth.TokenPair, error)
	logoutFn  func(token string) error
}

func (s stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return s.loginFn(req)
}

func (s stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.TokenPair, error) {
	return s.refreshFn(req)
}

func (s stubAuthService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(token)
}

type stubUsersService struct {
	createFn func(actor *users.Actor, in users.CreateInput) (*users.UserDTO, string, error)
	updateFn func(actor *users.Actor, id uuid.UUID, in users.UpdateInput) (*users.UserDTO, error)
	deleteFn func(id uuid.UUID) error
	getFn    func(id uuid.UUID) (*users.UserDTO, error)
	attachFn func(id uuid.UUID, playerID string) (*users.UserDTO, error)
	list     []users.UserDTO
}

func (s stubUsersService) Create(ctx context.Context, actor *users.Actor, in users.CreateInput) (*users.UserDTO, string, error) {
	return s.createFn(actor, in)
}

func (s stubUsersService) List(ctx context.Context) ([]users.UserDTO, error) {
	return s.list, nil
}

func (s stubUsersService) Get(ctx context.Context, id uuid.UUID) (*users.UserDTO, error) {
	return s.getFn(id)
}

func (s stubUsersService) Update(ctx context.Context, actor *users.Actor, id uuid.UUID, in users.UpdateInput) (*users.UserDTO, error) {
	return s.updateFn(actor, id, in)
}

func (s stubUsersService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(id)
}

func (s stubUsersService) AttachPlayerID(ctx context.Context, id uuid.UUID, playerID string) (*users.UserDTO, error) {
	return s.attachFn(id, playerID)
}

type stubReclamationsService struct {
	createFn     func(in reclamations.CreateInput) (*models.Reclamation, error)
	statusFn     func(id uuid.UUID, in reclamations.StatusInput) (*models.Reclamation, error)
	updateFn     func(id uuid.UUID, in reclamations.UpdateInput) (*models.Reclamation, error)
	deleteFn     func(id uuid.UUID) error
	listByUserFn func(userID string) ([]models.Reclamation, error)
	list         []models.Reclamation
}

func (s stubReclamationsService) Create(ctx context.Context, in reclamations.CreateInput) (*models.Reclamation, error) {
	return s.createFn(in)
}

func (s stubReclamationsService) UpdateStatus(ctx context.Context, id uuid.UUID, in reclamations.StatusInput) (*models.Reclamation, error) {
	return s.statusFn(id, in)
}

func (s stubReclamationsService) Update(ctx context.Context, id uuid.UUID, in reclamations.UpdateInput) (*models.Reclamation, error) {
	return s.updateFn(id, in)
}

func (s stubReclamationsService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(id)
}

func (s stubReclamationsService) List(ctx context.Context) ([]models.Reclamation, error) {
	return s.list, nil
}

func (s stubReclamationsService) ListByUser(ctx context.Context, userID string) ([]models.Reclamation, error) {
	return s.listByUserFn(userID)
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	return env
}
