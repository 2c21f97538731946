package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hotelops/reclamations-backend/api/middleware"
	"github.com/hotelops/reclamations-backend/internal/users"
	"github.com/hotelops/reclamations-backend/pkg/enums"
	pkgerrors "github.com/hotelops/reclamations-backend/pkg/errors"
)

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+name).
			WithDetails(map[string]any{"field": name})
	}
	return id, nil
}

// actorFromContext returns the authenticated caller, or nil for anonymous
// requests.
func actorFromContext(ctx context.Context) *users.Actor {
	raw := middleware.UserIDFromContext(ctx)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &users.Actor{
		ID:   id,
		Name: middleware.UserNameFromContext(ctx),
		Role: enums.Role(middleware.RoleFromContext(ctx)),
	}
}
