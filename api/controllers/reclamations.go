package controllers

import (
	"net/http"
	"strings"

	"github.com/hotelops/reclamations-backend/api/middleware"
	"github.com/hotelops/reclamations-backend/api/responses"
	"github.com/hotelops/reclamations-backend/api/validators"
	"github.com/hotelops/reclamations-backend/internal/reclamations"
	"github.com/hotelops/reclamations-backend/pkg/logger"
)

type createReclamationRequest struct {
	Subject     string   `json:"subject" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Departments []string `json:"departments" validate:"required,min=1,dive,department"`
	Priority    *int     `json:"priority" validate:"omitempty,min=1,max=3"`
	Status      *string  `json:"status" validate:"omitempty,reclamation_status"`
	Location    string   `json:"location" validate:"required"`
	AssignedTo  string   `json:"assignedTo"`
	CreatedBy   string   `json:"createdBy"`
}

type statusRequest struct {
	Status     string  `json:"status" validate:"required,reclamation_status"`
	AssignedTo *string `json:"assignedTo"`
}

type updateReclamationRequest struct {
	Subject     *string   `json:"subject"`
	Description *string   `json:"description"`
	Departments *[]string `json:"departments" validate:"omitempty,min=1,dive,department"`
	Priority    *int      `json:"priority" validate:"omitempty,min=1,max=3"`
	Status      *string   `json:"status" validate:"omitempty,reclamation_status"`
	Location    *string   `json:"location"`
	AssignedTo  *string   `json:"assignedTo"`
}

// ReclamationsCreate opens a ticket. When createdBy is omitted the caller's
// name from the access token is used.
func ReclamationsCreate(svc reclamations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createReclamationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		createdBy := body.CreatedBy
		if strings.TrimSpace(createdBy) == "" {
			createdBy = middleware.UserNameFromContext(r.Context())
		}

		rec, err := svc.Create(r.Context(), reclamations.CreateInput{
			Subject:     body.Subject,
			Description: body.Description,
			Departments: body.Departments,
			Priority:    body.Priority,
			Status:      body.Status,
			Location:    body.Location,
			AssignedTo:  body.AssignedTo,
			CreatedBy:   createdBy,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, rec)
	}
}

func ReclamationsList(svc reclamations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ReclamationsByUser lists what the user in ?userId= is allowed to see.
func ReclamationsByUser(svc reclamations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListByUser(r.Context(), r.URL.Query().Get("userId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func ReclamationsUpdateStatus(svc reclamations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body statusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rec, err := svc.UpdateStatus(r.Context(), id, reclamations.StatusInput{
			Status:     body.Status,
			AssignedTo: body.AssignedTo,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rec)
	}
}

func ReclamationsUpdate(svc reclamations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateReclamationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rec, err := svc.Update(r.Context(), id, reclamations.UpdateInput{
			Subject:     body.Subject,
			Description: body.Description,
			Departments: body.Departments,
			Priority:    body.Priority,
			Status:      body.Status,
			Location:    body.Location,
			AssignedTo:  body.AssignedTo,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rec)
	}
}

func ReclamationsDelete(svc reclamations.Service, logg *logger.Logger) http.HandlerFunc {
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
