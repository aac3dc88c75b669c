package service

import (
	"strings"

	"hotel-backoffice/internal/apperrors"
	"hotel-backoffice/internal/audit"
	"hotel-backoffice/internal/models"
	"hotel-backoffice/internal/repository"
	"hotel-backoffice/internal/utils"
	"hotel-backoffice/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StaffService owns the admin-only staff administration surface.
type StaffService struct {
	users *repository.UserRepository
	trail *audit.Trail // may be nil (tests)
}

func NewStaffService(users *repository.UserRepository, trail *audit.Trail) *StaffService {
	return &StaffService{
		users: users,
		trail: trail,
	}
}

type CreateStaffInput struct {
	Name       string
	Email      string
	Password   string
	Phone      string
	Address    string
	Department string
	Role       string
}

type UpdateStaffInput struct {
	Name       *string
	Phone      *string
	Department *string
	Role       *string
}

func (s *StaffService) record(actor *models.User, action string, entityID uuid.UUID) {
	if s.trail == nil {
		return
	}
	if err := s.trail.Record(audit.Entry{
		ActorID:   actor.ID.String(),
		ActorRole: string(actor.Role),
		Action:    action,
		Entity:    "user",
		EntityID:  entityID.String(),
	}); err != nil {
		logger.Log.Warn("Audit record failed",
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

// CreateStaff creates an account with an admin-chosen staff role. Guest is
// not a staff role and is rejected.
func (s *StaffService) CreateStaff(actor *models.User, input CreateStaffInput) (*models.User, error) {
	if actor.Role != models.RoleAdmin {
		return nil, apperrors.Forbidden("only admin can create staff")
	}

	if input.Name == "" || input.Email == "" || input.Password == "" ||
		input.Phone == "" || input.Address == "" || input.Department == "" || input.Role == "" {
		return nil, apperrors.Validation("please fill all the fields")
	}

	role, ok := models.ParseRole(input.Role)
	if !ok || !role.IsStaff() {
		return nil, apperrors.Validation("invalid role specified")
	}

	email := NormalizeEmail(input.Email)

	existing, err := s.users.GetUserByEmail(email)
	if err != nil {
		return nil, apperrors.Internal("staff creation failed", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("user already exists")
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, apperrors.Internal("staff creation failed", err)
	}

	staff := &models.User{
		ID:           newID(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(input.Phone),
		Address:      strings.TrimSpace(input.Address),
		Department:   strings.TrimSpace(input.Department),
		Role:         role,
		IsActive:     true,
	}

	if err := s.users.CreateUser(staff); err != nil {
		logger.Log.Error("Failed to create staff",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, apperrors.Internal("staff creation failed", err)
	}

	logger.Log.Info("Staff created",
		zap.String("staff_id", staff.ID.String()),
		zap.String("role", string(role)),
		zap.String("admin_id", actor.ID.String()),
	)
	s.record(actor, "staff_created", staff.ID)

	return staff, nil
}

// ListStaff returns every non-guest account, newest first.
func (s *StaffService) ListStaff(actor *models.User) ([]*models.User, error) {
	if actor.Role != models.RoleAdmin {
		return nil, apperrors.Forbidden("only admin can list staff")
	}

	staff, err := s.users.ListStaff()
	if err != nil {
		return nil, apperrors.Internal("failed to fetch staff", err)
	}
	return staff, nil
}

// UpdateStaff applies a partial update; absent fields keep their values.
func (s *StaffService) UpdateStaff(actor *models.User, id uuid.UUID, input UpdateStaffInput) (*models.User, error) {
	if actor.Role != models.RoleAdmin {
		return nil, apperrors.Forbidden("only admin can update staff")
	}

	user, err := s.users.GetUserByID(id)
	if err != nil {
		return nil, apperrors.Internal("staff update failed", err)
	}
	if user == nil {
		return nil, apperrors.NotFound("staff not found")
	}

	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil && strings.TrimSpace(*input.Phone) != "" {
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Department != nil {
		user.Department = strings.TrimSpace(*input.Department)
	}
	if input.Role != nil {
		role, ok := models.ParseRole(*input.Role)
		if !ok || !role.IsStaff() {
			return nil, apperrors.Validation("invalid role specified")
		}
		user.Role = role
	}

	if err := s.users.SaveUser(user); err != nil {
		return nil, apperrors.Internal("staff update failed", err)
	}

	logger.Log.Info("Staff updated",
		zap.String("staff_id", user.ID.String()),
		zap.String("admin_id", actor.ID.String()),
	)
	s.record(actor, "staff_updated", user.ID)

	return user, nil
}

// DeleteStaff hard-deletes the account.
func (s *StaffService) DeleteStaff(actor *models.User, id uuid.UUID) error {
	if actor.Role != models.RoleAdmin {
		return apperrors.Forbidden("only admin can delete staff")
	}

	user, err := s.users.GetUserByID(id)
	if err != nil {
		return apperrors.Internal("staff deletion failed", err)
	}
	if user == nil {
		return apperrors.NotFound("staff not found")
	}

	if err := s.users.DeleteUser(id); err != nil {
		return apperrors.Internal("staff deletion failed", err)
	}

	logger.Log.Info("Staff deleted",
		zap.String("staff_id", id.String()),
		zap.String("admin_id", actor.ID.String()),
	)
	s.record(actor, "staff_deleted", id)

	return nil
}

// SetStaffActive toggles the active flag only; no other field changes.
func (s *StaffService) SetStaffActive(actor *models.User, id uuid.UUID, isActive bool) (*models.User, error) {
	if actor.Role != models.RoleAdmin {
		return nil, apperrors.Forbidden("only admin can change staff status")
	}

	user, err := s.users.GetUserByID(id)
	if err != nil {
		return nil, apperrors.Internal("staff status update failed", err)
	}
	if user == nil {
		return nil, apperrors.NotFound("staff not found")
	}

	user.IsActive = isActive

	if err := s.users.SaveUser(user); err != nil {
		return nil, apperrors.Internal("staff status update failed", err)
	}

	logger.Log.Info("Staff active flag changed",
		zap.String("staff_id", user.ID.String()),
		zap.Bool("is_active", isActive),
		zap.String("admin_id", actor.ID.String()),
	)
	s.record(actor, "staff_status_changed", user.ID)

	return user, nil
}
