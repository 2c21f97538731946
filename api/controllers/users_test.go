package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hotelops/reclamations-backend/api/middleware"
	"github.com/hotelops/reclamations-backend/internal/users"
	"github.com/hotelops/reclamations-backend/pkg/enums"
	pkgerrors "github.com/hotelops/reclamations-backend/pkg/errors"
)

func TestUsersCreatePassesActorAndReturnsTempPassword(t *testing.T) {
	adminID := uuid.New()
	var gotActor *users.Actor
	svc := stubUsersService{createFn: func(actor *users.Actor, in users.CreateInput) (*users.UserDTO, string, error) {
		gotActor = actor
		if in.Name != "bob" || len(in.Departments) != 1 {
			t.Fatalf("unexpected input %+v", in)
		}
		return &users.UserDTO{ID: uuid.New(), Name: in.Name}, "Temp-1234", nil
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/users/create",
		strings.NewReader(`{"name":"bob","email":"bob@hotel.test","departments":["IT"]}`))
	req = req.WithContext(middleware.WithUser(req.Context(), adminID.String(), "root", string(enums.RoleAdmin)))
	rec := httptest.NewRecorder()
	UsersCreate(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if gotActor == nil || gotActor.ID != adminID || !gotActor.IsAdmin() || gotActor.Name != "root" {
		t.Fatalf("unexpected actor %+v", gotActor)
	}
	env := decodeEnvelope(t, rec)
	if !strings.Contains(string(env.Data), `"temporaryPassword":"Temp-1234"`) || !strings.Contains(string(env.Data), `"name":"bob"`) {
		t.Fatalf("unexpected payload %s", env.Data)
	}
}

func TestUsersCreateAnonymousHasNilActor(t *testing.T) {
	called := false
	svc := stubUsersService{createFn: func(actor *users.Actor, in users.CreateInput) (*users.UserDTO, string, error) {
		called = true
		if actor != nil {
			t.Fatalf("expected nil actor")
		}
		return &users.UserDTO{}, "", nil
	}}
	req := httptest.NewRequest(http.MethodPost, "/api/users/create",
		strings.NewReader(`{"name":"a","email":"a@hotel.test","password":"x","departments":["IT"]}`))
	rec := httptest.NewRecorder()
	UsersCreate(svc, nil).ServeHTTP(rec, req)
	if !called || rec.Code != http.StatusCreated {
		t.Fatalf("expected create, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "temporaryPassword") {
		t.Fatalf("temporary password should be omitted")
	}
}

func TestUsersCreateConflict(t *testing.T) {
	svc := stubUsersService{createFn: func(*users.Actor, users.CreateInput) (*users.UserDTO, string, error) {
		return nil, "", pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
	}}
	req := httptest.NewRequest(http.MethodPost, "/api/users/create",
		strings.NewReader(`{"name":"a","email":"a@hotel.test","password":"x"}`))
	rec := httptest.NewRecorder()
	UsersCreate(svc, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
}

func TestUsersUpdateAndDeleteRouteParams(t *testing.T) {
	target := uuid.New()
	var updatedID, deletedID uuid.UUID
	svc := stubUsersService{
		updateFn: func(actor *users.Actor, id uuid.UUID, in users.UpdateInput) (*users.UserDTO, error) {
			updatedID = id
			if in.Name == nil || *in.Name != "renamed" || in.Email != nil {
				t.Fatalf("unexpected update input %+v", in)
			}
			return &users.UserDTO{ID: id, Name: *in.Name}, nil
		},
		deleteFn: func(id uuid.UUID) error {
			deletedID = id
			return nil
		},
	}

	r := chi.NewRouter()
	r.Put("/users/update/{id}", UsersUpdate(svc, nil))
	r.Delete("/users/{id}", UsersDelete(svc, nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/users/update/"+target.String(), strings.NewReader(`{"name":"renamed"}`)))
	if rec.Code != http.StatusOK || updatedID != target {
		t.Fatalf("update failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/users/"+target.String(), nil))
	if rec.Code != http.StatusOK || deletedID != target {
		t.Fatalf("delete failed: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/users/not-a-uuid", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", rec.Code)
	}
}

func TestUsersGet(t *testing.T) {
	known := uuid.New()
	svc := stubUsersService{getFn: func(id uuid.UUID) (*users.UserDTO, error) {
		if id != known {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return &users.UserDTO{ID: id, Name: "alice"}, nil
	}}

	r := chi.NewRouter()
	r.Get("/users/{id}", UsersGet(svc, nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/"+known.String(), nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"alice"`) {
		t.Fatalf("get failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/"+uuid.NewString(), nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/42", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestUsersUpdatePlayerID(t *testing.T) {
	userID := uuid.New()
	svc := stubUsersService{attachFn: func(id uuid.UUID, playerID string) (*users.UserDTO, error) {
		if id != userID || playerID != "device-1" {
			t.Fatalf("unexpected attach %s %s", id, playerID)
		}
		return &users.UserDTO{ID: id, PlayerIDs: []string{playerID}}, nil
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/users/update-player-id",
		strings.NewReader(`{"userId":"`+userID.String()+`","playerId":"device-1"}`))
	rec := httptest.NewRecorder()
	UsersUpdatePlayerID(svc, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/users/update-player-id",
		strings.NewReader(`{"userId":"nope","playerId":"device-1"}`))
	rec = httptest.NewRecorder()
	UsersUpdatePlayerID(svc, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestUsersList(t *testing.T) {
	svc := stubUsersService{list: []users.UserDTO{{Name: "a"}, {Name: "b"}}}
	rec := httptest.NewRecorder()
	UsersList(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/get", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("password leaked: %s", rec.Body.String())
	}
}
