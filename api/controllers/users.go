package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/hotelops/reclamations-backend/api/responses"
	"github.com/hotelops/reclamations-backend/api/validators"
	"github.com/hotelops/reclamations-backend/internal/users"
	pkgerrors "github.com/hotelops/reclamations-backend/pkg/errors"
	"github.com/hotelops/reclamations-backend/pkg/logger"
)

type createUserRequest struct {
	Name        string   `json:"name" validate:"required,max=120"`
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password"`
	Role        string   `json:"role" validate:"omitempty,role"`
	Departments []string `json:"departments" validate:"omitempty,dive,department"`
}

type createUserResponse struct {
	*users.UserDTO
	TemporaryPassword string `json:"temporaryPassword,omitempty"`
}

type updateUserRequest struct {
	Name        *string   `json:"name" validate:"omitempty,max=120"`
	Email       *string   `json:"email" validate:"omitempty,email"`
	Password    *string   `json:"password"`
	Role        *string   `json:"role" validate:"omitempty,role"`
	Departments *[]string `json:"departments" validate:"omitempty,dive,department"`
}

type playerIDRequest struct {
	UserID   string `json:"userId" validate:"required"`
	PlayerID string `json:"playerId" validate:"required"`
}

// UsersCreate registers an account. When the caller is an admin the password
// may be omitted and a temporary one is returned.
func UsersCreate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createUserRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, temp, err := svc.Create(r.Context(), actorFromContext(r.Context()), users.CreateInput{
			Name:        body.Name,
			Email:       body.Email,
			Password:    body.Password,
			Role:        body.Role,
			Departments: body.Departments,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, createUserResponse{UserDTO: dto, TemporaryPassword: temp})
	}
}

func UsersList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func UsersGet(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func UsersUpdate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateUserRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Update(r.Context(), actorFromContext(r.Context()), id, users.UpdateInput{
			Name:        body.Name,
			Email:       body.Email,
			Password:    body.Password,
			Role:        body.Role,
			Departments: body.Departments,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func UsersDelete(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// UsersUpdatePlayerID attaches a push subscription token to an account.
func UsersUpdatePlayerID(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body playerIDRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := uuid.Parse(body.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "user not found"))
			return
		}

		dto, err := svc.AttachPlayerID(r.Context(), id, body.PlayerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
