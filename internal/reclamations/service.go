package reclamations

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hotelops/reclamations-backend/internal/notifications"
	"github.com/hotelops/reclamations-backend/internal/realtime"
	"github.com/hotelops/reclamations-backend/internal/users"
	"github.com/hotelops/reclamations-backend/pkg/db/models"
	dbtypes "github.com/hotelops/reclamations-backend/pkg/db/types"
	"github.com/hotelops/reclamations-backend/pkg/enums"
	pkgerrors "github.com/hotelops/reclamations-backend/pkg/errors"
	"github.com/hotelops/reclamations-backend/pkg/logger"
)

const (
	reclamationNotFoundMessage = "reclamation not found"
	userNotFoundMessage        = "user not found"
)

type reclamationRepository interface {
	Create(ctx context.Context, rec *models.Reclamation) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Reclamation, error)
	List(ctx context.Context) ([]models.Reclamation, error)
	Save(ctx context.Context, rec *models.Reclamation) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type userDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type createdNotifier interface {
	NotifyReclamationCreated(ctx context.Context, r models.Reclamation, resolve notifications.RecipientResolver)
}

type eventPublisher interface {
	Publish(ctx context.Context, evt realtime.Event)
}

// Service drives the reclamation lifecycle.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Reclamation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, input StatusInput) (*models.Reclamation, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Reclamation, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]models.Reclamation, error)
	ListByUser(ctx context.Context, userID string) ([]models.Reclamation, error)
}

// CreateInput describes a new reclamation. Priority and Status fall back to
// their defaults when nil.
type CreateInput struct {
	Subject     string
	Description string
	Departments []string
	Priority    *int
	Status      *string
	Location    string
	AssignedTo  string
	CreatedBy   string
}

// StatusInput moves a reclamation to a new status. A nil AssignedTo keeps the
// current assignee.
type StatusInput struct {
	Status     string
	AssignedTo *string
}

// UpdateInput carries a partial edit; nil fields are left untouched.
type UpdateInput struct {
	Subject     *string
	Description *string
	Departments *[]string
	Priority    *int
	Status      *string
	Location    *string
	AssignedTo  *string
}

type service struct {
	repo      reclamationRepository
	users     userDirectory
	notifier  createdNotifier
	publisher eventPublisher
	logg      *logger.Logger
	now       func() time.Time
}

// ServiceParams bundles the dependencies required to build the lifecycle
// service. Notifier and Publisher are optional.
type ServiceParams struct {
	Repo      reclamationRepository
	Users     userDirectory
	Notifier  createdNotifier
	Publisher eventPublisher
	Logger    *logger.Logger
}

// NewService constructs the reclamation lifecycle service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("reclamation repository is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user directory is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		repo:      params.Repo,
		users:     params.Users,
		notifier:  params.Notifier,
		publisher: params.Publisher,
		logg:      params.Logger,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Reclamation, error) {
	subject, err := requireText("subject", input.Subject)
	if err != nil {
		return nil, err
	}
	description, err := requireText("description", input.Description)
	if err != nil {
		return nil, err
	}
	location, err := requireText("location", input.Location)
	if err != nil {
		return nil, err
	}
	createdBy, err := requireText("createdBy", input.CreatedBy)
	if err != nil {
		return nil, err
	}
	departments, err := parseDepartments(input.Departments)
	if err != nil {
		return nil, err
	}

	priority := enums.DefaultPriority
	if input.Priority != nil {
		if priority, err = parsePriority(*input.Priority); err != nil {
			return nil, err
		}
	}
	status := enums.ReclamationStatusNew
	if input.Status != nil && strings.TrimSpace(*input.Status) != "" {
		if status, err = parseStatus(*input.Status); err != nil {
			return nil, err
		}
	}

	rec := &models.Reclamation{
		ID:          uuid.New(),
		Subject:     subject,
		Description: description,
		Departments: dbtypes.StringArray(departments),
		Priority:    priority,
		Status:      status,
		Location:    location,
		AssignedTo:  s.resolveAssignee(ctx, input.AssignedTo),
		CreatedBy:   createdBy,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create reclamation")
	}

	ctx = s.logg.WithReclamationID(ctx, rec.ID.String())
	s.logg.Info(ctx, "reclamations.created")

	s.notifyCreated(ctx, *rec)
	s.publish(ctx)
	return rec, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, input StatusInput) (*models.Reclamation, error) {
	status, err := parseStatus(input.Status)
	if err != nil {
		return nil, err
	}
	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	rec.Status = status
	if input.AssignedTo != nil {
		rec.AssignedTo = s.resolveAssignee(ctx, *input.AssignedTo)
	}
	if err := s.save(ctx, rec); err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"reclamation_id": rec.ID.String(),
		"status":         string(rec.Status),
	}), "reclamations.status_changed")
	s.publish(ctx)
	return rec, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Reclamation, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Subject != nil {
		if rec.Subject, err = requireText("subject", *input.Subject); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		if rec.Description, err = requireText("description", *input.Description); err != nil {
			return nil, err
		}
	}
	if input.Location != nil {
		if rec.Location, err = requireText("location", *input.Location); err != nil {
			return nil, err
		}
	}
	if input.Departments != nil {
		departments, err := parseDepartments(*input.Departments)
		if err != nil {
			return nil, err
		}
		rec.Departments = dbtypes.StringArray(departments)
	}
	if input.Priority != nil {
		if rec.Priority, err = parsePriority(*input.Priority); err != nil {
			return nil, err
		}
	}
	if input.Status != nil {
		if rec.Status, err = parseStatus(*input.Status); err != nil {
			return nil, err
		}
	}
	if input.AssignedTo != nil {
		rec.AssignedTo = s.resolveAssignee(ctx, *input.AssignedTo)
	}

	if err := s.save(ctx, rec); err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithReclamationID(ctx, rec.ID.String()), "reclamations.updated")
	s.publish(ctx)
	return rec, nil
}

// Delete removes the reclamation. A missing id is not an error.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete reclamation")
	}
	if deleted {
		s.logg.Info(s.logg.WithReclamationID(ctx, id.String()), "reclamations.deleted")
	}
	s.publish(ctx)
	return nil
}

func (s *service) List(ctx context.Context) ([]models.Reclamation, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reclamations")
	}
	return list, nil
}

// ListByUser returns the reclamations visible to the user, newest first.
func (s *service) ListByUser(ctx context.Context, userID string) ([]models.Reclamation, error) {
	id, err := uuid.Parse(strings.TrimSpace(userID))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, userNotFoundMessage)
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if users.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, userNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return ScopeFor(user).Filter(list), nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Reclamation, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, reclamationNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load reclamation")
	}
	return rec, nil
}

func (s *service) save(ctx context.Context, rec *models.Reclamation) error {
	now := s.now()
	rec.UpdatedAt = &now
	if err := s.repo.Save(ctx, rec); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update reclamation")
	}
	return nil
}

// resolveAssignee turns a user id into that user's current name. Anything
// that is not the id of an existing user is stored as given.
func (s *service) resolveAssignee(ctx context.Context, raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return value
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if !users.IsNotFound(err) {
			s.logg.Warn(s.logg.WithField(ctx, "assignee", value), "reclamations.assignee_lookup_failed: "+err.Error())
		}
		return value
	}
	return user.Name
}

func (s *service) notifyCreated(ctx context.Context, rec models.Reclamation) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyReclamationCreated(context.WithoutCancel(ctx), rec, s.recipientsFor(rec))
}

// recipientsFor defers the directory scan to the notification job so the
// request never waits on it.
func (s *service) recipientsFor(rec models.Reclamation) notifications.RecipientResolver {
	return func(ctx context.Context) ([]notifications.Recipient, error) {
		all, err := s.users.List(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list notification recipients")
		}
		recipients := make([]notifications.Recipient, 0, len(all))
		for i := range all {
			u := &all[i]
			if !ScopeFor(u).Allows(rec) {
				continue
			}
			recipients = append(recipients, notifications.Recipient{
				Name:      u.Name,
				Email:     u.Email,
				PlayerIDs: []string(u.PlayerIDs),
			})
		}
		return recipients, nil
	}
}

func (s *service) publish(ctx context.Context) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, realtime.Event{Name: realtime.EventReclamationsUpdated})
}

func requireText(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, field+" is required")
	}
	return trimmed, nil
}

func parseDepartments(values []string) ([]string, error) {
	departments, err := enums.NormalizeDepartments(values)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid department")
	}
	if len(departments) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one department is required")
	}
	return departments, nil
}

func parsePriority(value int) (enums.Priority, error) {
	p, err := enums.ParsePriority(value)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "priority must be between 1 and 3")
	}
	return p, nil
}

func parseStatus(value string) (enums.ReclamationStatus, error) {
	status, err := enums.ParseReclamationStatus(value)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
	}
	return status, nil
}
