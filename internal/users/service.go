package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hotelops/reclamations-backend/internal/notifications"
	"github.com/hotelops/reclamations-backend/pkg/config"
	"github.com/hotelops/reclamations-backend/pkg/db"
	"github.com/hotelops/reclamations-backend/pkg/db/models"
	dbtypes "github.com/hotelops/reclamations-backend/pkg/db/types"
	"github.com/hotelops/reclamations-backend/pkg/enums"
	pkgerrors "github.com/hotelops/reclamations-backend/pkg/errors"
	"github.com/hotelops/reclamations-backend/pkg/logger"
	"github.com/hotelops/reclamations-backend/pkg/security"
)

const (
	userNotFoundMessage  = "user not found"
	emailInUseMessage    = "email already in use"
	staffNeedsDepartment = "staff accounts need at least one department"
)

type userRepository interface {
	Create(ctx context.Context, dto CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	AddPlayerID(ctx context.Context, id uuid.UUID, playerID string) (*models.User, error)
}

type credentialsNotifier interface {
	NotifyCredentials(ctx context.Context, notice notifications.CredentialsNotice)
}

type sessionRevoker interface {
	RevokeUser(ctx context.Context, userID string) error
}

// Service exposes account management.
type Service interface {
	Create(ctx context.Context, actor *Actor, input CreateInput) (*UserDTO, string, error)
	List(ctx context.Context) ([]UserDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	Update(ctx context.Context, actor *Actor, id uuid.UUID, input UpdateInput) (*UserDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AttachPlayerID(ctx context.Context, id uuid.UUID, playerID string) (*UserDTO, error)
}

// CreateInput captures a new account. Password may be empty when an admin
// creates the account; a temporary password is then generated.
type CreateInput struct {
	Name        string
	Email       string
	Password    string
	Role        string
	Departments []string
}

// UpdateInput carries the fields to change; nil fields are left untouched.
type UpdateInput struct {
	Name        *string
	Email       *string
	Password    *string
	Role        *string
	Departments *[]string
}

type service struct {
	repo        userRepository
	notifier    credentialsNotifier
	sessions    sessionRevoker
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

// ServiceParams bundles the dependencies required to build a users service.
// Notifier and Sessions are optional.
type ServiceParams struct {
	Repo           userRepository
	Notifier       credentialsNotifier
	Sessions       sessionRevoker
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
}

// NewService constructs the account service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		repo:        params.Repo,
		notifier:    params.Notifier,
		sessions:    params.Sessions,
		passwordCfg: params.PasswordConfig,
		logg:        params.Logger,
	}, nil
}

func (s *service) Create(ctx context.Context, actor *Actor, input CreateInput) (*UserDTO, string, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, "", err
	}
	role, departments, err := resolveRoleAndDepartments(input.Role, input.Departments)
	if err != nil {
		return nil, "", err
	}

	password := input.Password
	generated := ""
	if password == "" {
		if !actor.IsAdmin() {
			return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "password is required")
		}
		generated, err = security.GenerateTempPassword(s.passwordCfg.TempLength)
		if err != nil {
			return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate temp password")
		}
		password = generated
	}

	if err := s.ensureEmailFree(ctx, email, uuid.Nil); err != nil {
		return nil, "", err
	}

	hash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.repo.Create(ctx, CreateUserDTO{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Departments:  departments,
		AddedBy:      actor.displayName(),
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, "", pkgerrors.Wrap(pkgerrors.CodeConflict, err, emailInUseMessage)
		}
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"target_user_id": user.ID.String(),
		"role":           string(user.Role),
	}), "users.created")

	s.notify(ctx, notifications.CredentialsNotice{
		Action:      notifications.CredentialsCreated,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		Departments: []string(user.Departments),
		Password:    password,
		AdminName:   nameOf(actor),
	})

	return FromModel(user), generated, nil
}

func (s *service) List(ctx context.Context) ([]UserDTO, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	return FromModels(list), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) Update(ctx context.Context, actor *Actor, id uuid.UUID, input UpdateInput) (*UserDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		user.Name = name
	}
	if input.Email != nil {
		email, err := normalizeEmail(*input.Email)
		if err != nil {
			return nil, err
		}
		if email != user.Email {
			if err := s.ensureEmailFree(ctx, email, user.ID); err != nil {
				return nil, err
			}
		}
		user.Email = email
	}

	if input.Role != nil || input.Departments != nil {
		rawRole := string(user.Role)
		if input.Role != nil {
			rawRole = *input.Role
		}
		rawDepartments := []string(user.Departments)
		if input.Departments != nil {
			rawDepartments = *input.Departments
		}
		role, departments, err := resolveRoleAndDepartments(rawRole, rawDepartments)
		if err != nil {
			return nil, err
		}
		user.Role = role
		user.Departments = dbtypes.StringArray(departments)
	}

	newPassword := ""
	if input.Password != nil && *input.Password != "" {
		hash, err := security.HashPassword(*input.Password, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		user.PasswordHash = hash
		newPassword = *input.Password
	}

	if modifier := actor.displayName(); modifier != nil {
		user.ModifiedBy = modifier
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, emailInUseMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user")
	}

	if newPassword != "" {
		s.revokeSessions(ctx, user.ID)
	}

	s.notify(ctx, notifications.CredentialsNotice{
		Action:      notifications.CredentialsUpdated,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		Departments: []string(user.Departments),
		Password:    newPassword,
		AdminName:   nameOf(actor),
	})

	return FromModel(user), nil
}

// Delete removes the account. Deleting a missing account succeeds.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
	}
	if deleted {
		s.revokeSessions(ctx, id)
	}
	return nil
}

func (s *service) AttachPlayerID(ctx context.Context, id uuid.UUID, playerID string) (*UserDTO, error) {
	if strings.TrimSpace(playerID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "playerId is required")
	}
	user, err := s.repo.AddPlayerID(ctx, id, playerID)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, userNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "attach player id")
	}
	return FromModel(user), nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, userNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return user, nil
}

func (s *service) ensureEmailFree(ctx context.Context, email string, self uuid.UUID) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.ID != self {
			return pkgerrors.New(pkgerrors.CodeConflict, emailInUseMessage)
		}
		return nil
	case IsNotFound(err):
		return nil
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup email")
	}
}

func (s *service) notify(ctx context.Context, notice notifications.CredentialsNotice) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyCredentials(ctx, notice)
}

func (s *service) revokeSessions(ctx context.Context, id uuid.UUID) {
	if s.sessions == nil {
		return
	}
	if err := s.sessions.RevokeUser(ctx, id.String()); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "target_user_id", id.String()), "users.revoke_sessions_failed: "+err.Error())
	}
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
	}
	return email, nil
}

// resolveRoleAndDepartments applies the account rules: role defaults to staff,
// staff need at least one known department, admins carry none.
func resolveRoleAndDepartments(rawRole string, rawDepartments []string) (enums.Role, []string, error) {
	role := enums.RoleStaff
	if strings.TrimSpace(rawRole) != "" {
		parsed, err := enums.ParseRole(rawRole)
		if err != nil {
			return "", nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role")
		}
		role = parsed
	}
	if role == enums.RoleAdmin {
		return role, []string{}, nil
	}
	departments, err := enums.NormalizeDepartments(rawDepartments)
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid department")
	}
	if len(departments) == 0 {
		return "", nil, pkgerrors.New(pkgerrors.CodeValidation, staffNeedsDepartment)
	}
	return role, departments, nil
}

func nameOf(actor *Actor) string {
	if actor == nil {
		return ""
	}
	return actor.Name
}
