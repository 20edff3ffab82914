package service

import (
	"errors"
	"fmt"

	"github.com/chowkidaar/nvr-backend-go/internal/models"
	"github.com/chowkidaar/nvr-backend-go/internal/repository"
)

// ErrLastAdmin is returned when an operation would leave the system
// with no active admin account.
var ErrLastAdmin = errors.New("cannot remove the last active admin")

// UserService handles business logic for user administration
type UserService struct {
	repo *repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// List retrieves users with filtering
func (s *UserService) List(filter models.UserFilter) ([]models.User, error) {
	return s.repo.List(filter)
}

// GetByID retrieves a user; returns nil when not found
func (s *UserService) GetByID(id int64) (*models.User, error) {
	return s.repo.GetByID(id)
}

// Create validates and creates a new user
func (s *UserService) Create(req models.CreateUserRequest) (*models.User, error) {
	role := req.Role
	if role == "" {
		role = models.RoleViewer
	}
	switch role {
	case models.RoleAdmin, models.RoleOperator, models.RoleViewer:
	default:
		return nil, fmt.Errorf("unknown role: %s", role)
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         role,
		IsActive:     true,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update applies the set fields of req to the user
func (s *UserService) Update(id int64, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	demoting := false
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Password != nil {
		hash, err := HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Role != nil && *req.Role != user.Role {
		switch *req.Role {
		case models.RoleAdmin, models.RoleOperator, models.RoleViewer:
		default:
			return nil, fmt.Errorf("unknown role: %s", *req.Role)
		}
		demoting = user.Role == models.RoleAdmin
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		if !*req.IsActive && user.Role == models.RoleAdmin {
			demoting = true
		}
		user.IsActive = *req.IsActive
	}

	if demoting {
		admins, err := s.repo.CountAdmins()
		if err != nil {
			return nil, err
		}
		if admins <= 1 {
			return nil, ErrLastAdmin
		}
	}

	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user, refusing to delete the last active admin
func (s *UserService) Delete(id int64) error {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}
	if user.Role == models.RoleAdmin && user.IsActive {
		admins, err := s.repo.CountAdmins()
		if err != nil {
			return err
		}
		if admins <= 1 {
			return ErrLastAdmin
		}
	}
	return s.repo.Delete(id)
}

// EnsureSeedAdmin creates the initial admin account when no users
// exist yet, so a fresh install is reachable.
func (s *UserService) EnsureSeedAdmin(username, password string) error {
	users, err := s.repo.List(models.UserFilter{Limit: 1})
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}

	_, err = s.Create(models.CreateUserRequest{
		Username: username,
		Email:    username + "@localhost",
		Password: password,
		Role:     models.RoleAdmin,
	})
	return err
}
