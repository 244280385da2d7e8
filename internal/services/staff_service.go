package services

import (
	"context"
	"errors"
	"fmt"

	"warehouse-backend/internal/auth"
	"warehouse-backend/internal/models"
	"warehouse-backend/internal/repositories"
)

// StaffService handles staff CRUD and the admin PIN login.
type StaffService struct {
	Repo      *repositories.StaffRepository
	Directory *StaffDirectoryService
	JWT       *auth.JWTManager
}

func NewStaffService(repo *repositories.StaffRepository, directory *StaffDirectoryService, jwt *auth.JWTManager) *StaffService {
	return &StaffService{Repo: repo, Directory: directory, JWT: jwt}
}

func (s *StaffService) List(ctx context.Context, activeOnly bool) ([]*models.Staff, error) {
	return s.Repo.List(ctx, activeOnly)
}

func (s *StaffService) Create(ctx context.Context, req *models.CreateStaffRequest) (*models.Staff, error) {
	if req.Name == "" {
		return nil, errors.New("name is required")
	}
	if req.Role != models.RoleTechnician && req.Role != models.RolePacker {
		return nil, fmt.Errorf("role must be %q or %q", models.RoleTechnician, models.RolePacker)
	}

	staff := &models.Staff{
		Name:       req.Name,
		Role:       req.Role,
		EmployeeID: req.EmployeeID,
	}
	if err := s.Repo.Create(ctx, staff); err != nil {
		return nil, err
	}
	s.Directory.Invalidate(ctx)
	return staff, nil
}

func (s *StaffService) Update(ctx context.Context, req *models.UpdateStaffRequest) (*models.Staff, error) {
	if req.ID == 0 {
		return nil, errors.New("id is required")
	}
	if req.Role != nil && *req.Role != models.RoleTechnician && *req.Role != models.RolePacker {
		return nil, fmt.Errorf("role must be %q or %q", models.RoleTechnician, models.RolePacker)
	}
	if err := s.Repo.Update(ctx, req); err != nil {
		return nil, err
	}
	s.Directory.Invalidate(ctx)
	return s.Repo.Get(ctx, req.ID)
}

// Deactivate soft-deletes a staff member. History rows keep their id.
func (s *StaffService) Deactivate(ctx context.Context, id int) error {
	if err := s.Repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.Directory.Invalidate(ctx)
	return nil
}

// SetPin stores a new admin PIN for a staff member. Setting a PIN grants
// admin access.
func (s *StaffService) SetPin(ctx context.Context, id int, pin string) error {
	if len(pin) < 4 {
		return errors.New("pin must be at least 4 digits")
	}
	hash, err := auth.HashPin(pin)
	if err != nil {
		return err
	}
	return s.Repo.SetPin(ctx, id, hash)
}

// Login authenticates an admin by employee id and PIN. The error message does
// not distinguish unknown id from wrong PIN.
func (s *StaffService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if req.EmployeeID == "" || req.PIN == "" {
		return nil, errors.New("employee_id and pin are required")
	}

	staff, err := s.Repo.GetByEmployeeID(ctx, req.EmployeeID)
	if err != nil {
		return nil, errors.New("invalid credentials")
	}
	if !staff.Active || staff.PinHash == "" {
		return nil, errors.New("invalid credentials")
	}
	if !auth.VerifyPin(staff.PinHash, req.PIN) {
		return nil, errors.New("invalid credentials")
	}

	token, err := s.JWT.GenerateToken(staff)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &models.AuthResponse{Token: token, Staff: staff}, nil
}
