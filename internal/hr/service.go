package hr

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Service validates HR inputs before handing them to the store.
type Service struct {
	store Store
}

// NewService constructs the HR service.
func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, errors.New("hr: store is required")
	}
	return &Service{store: store}, nil
}

func (s *Service) CreateEmployee(ctx context.Context, e Employee) (*Employee, error) {
	e.FirstName = strings.TrimSpace(e.FirstName)
	e.LastName = strings.TrimSpace(e.LastName)
	e.Email = strings.TrimSpace(strings.ToLower(e.Email))
	e.JobTitle = strings.TrimSpace(e.JobTitle)
	if e.FirstName == "" || e.LastName == "" {
		return nil, fmt.Errorf("%w: first and last name are required", ErrInvalidInput)
	}
	if e.Email == "" || !strings.Contains(e.Email, "@") {
		return nil, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	if e.HireDate.IsZero() {
		return nil, fmt.Errorf("%w: hire_date is required", ErrInvalidInput)
	}
	if e.JobTitle == "" {
		return nil, fmt.Errorf("%w: job_title is required", ErrInvalidInput)
	}
	return s.store.CreateEmployee(ctx, &e)
}

func (s *Service) GetEmployee(ctx context.Context, id int64) (*Employee, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: employee id is required", ErrInvalidInput)
	}
	return s.store.GetEmployee(ctx, id)
}

func (s *Service) ListEmployees(ctx context.Context, offset, limit int) ([]*Employee, error) {
	return s.store.ListEmployees(ctx, offset, limit)
}

func (s *Service) UpdateEmployee(ctx context.Context, id int64, upd EmployeeUpdate) (*Employee, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: employee id is required", ErrInvalidInput)
	}
	if upd.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*upd.Email))
		if email == "" || !strings.Contains(email, "@") {
			return nil, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
		}
		upd.Email = &email
	}
	return s.store.UpdateEmployee(ctx, id, upd)
}

func (s *Service) DeleteEmployee(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: employee id is required", ErrInvalidInput)
	}
	return s.store.DeleteEmployee(ctx, id)
}

func (s *Service) CreateDepartment(ctx context.Context, d Department) (*Department, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	if d.Name == "" {
		return nil, fmt.Errorf("%w: department name is required", ErrInvalidInput)
	}
	return s.store.CreateDepartment(ctx, &d)
}

func (s *Service) GetDepartment(ctx context.Context, id int64) (*Department, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: department id is required", ErrInvalidInput)
	}
	return s.store.GetDepartment(ctx, id)
}

func (s *Service) ListDepartments(ctx context.Context, offset, limit int) ([]*Department, error) {
	return s.store.ListDepartments(ctx, offset, limit)
}

func (s *Service) UpdateDepartment(ctx context.Context, id int64, upd NamedUpdate) (*Department, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: department id is required", ErrInvalidInput)
	}
	if err := validateNamedUpdate(&upd); err != nil {
		return nil, err
	}
	return s.store.UpdateDepartment(ctx, id, upd)
}

func (s *Service) DeleteDepartment(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: department id is required", ErrInvalidInput)
	}
	return s.store.DeleteDepartment(ctx, id)
}

func (s *Service) CreatePosition(ctx context.Context, p Position) (*Position, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	if p.Name == "" {
		return nil, fmt.Errorf("%w: position name is required", ErrInvalidInput)
	}
	return s.store.CreatePosition(ctx, &p)
}

func (s *Service) GetPosition(ctx context.Context, id int64) (*Position, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: position id is required", ErrInvalidInput)
	}
	return s.store.GetPosition(ctx, id)
}

func (s *Service) ListPositions(ctx context.Context, offset, limit int) ([]*Position, error) {
	return s.store.ListPositions(ctx, offset, limit)
}

func (s *Service) UpdatePosition(ctx context.Context, id int64, upd NamedUpdate) (*Position, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: position id is required", ErrInvalidInput)
	}
	if err := validateNamedUpdate(&upd); err != nil {
		return nil, err
	}
	return s.store.UpdatePosition(ctx, id, upd)
}

func (s *Service) DeletePosition(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: position id is required", ErrInvalidInput)
	}
	return s.store.DeletePosition(ctx, id)
}

func (s *Service) CreateBranch(ctx context.Context, b Branch) (*Branch, error) {
	b.Name = strings.TrimSpace(b.Name)
	b.Address = strings.TrimSpace(b.Address)
	if b.Name == "" {
		return nil, fmt.Errorf("%w: branch name is required", ErrInvalidInput)
	}
	return s.store.CreateBranch(ctx, &b)
}

func (s *Service) GetBranch(ctx context.Context, id int64) (*Branch, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: branch id is required", ErrInvalidInput)
	}
	return s.store.GetBranch(ctx, id)
}

func (s *Service) ListBranches(ctx context.Context, offset, limit int) ([]*Branch, error) {
	return s.store.ListBranches(ctx, offset, limit)
}

func (s *Service) UpdateBranch(ctx context.Context, id int64, upd BranchUpdate) (*Branch, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: branch id is required", ErrInvalidInput)
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: branch name is required", ErrInvalidInput)
		}
		upd.Name = &name
	}
	return s.store.UpdateBranch(ctx, id, upd)
}

func (s *Service) DeleteBranch(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: branch id is required", ErrInvalidInput)
	}
	return s.store.DeleteBranch(ctx, id)
}

// CreateLeaveRequest stores a new request in the pending state.
func (s *Service) CreateLeaveRequest(ctx context.Context, lr LeaveRequest) (*LeaveRequest, error) {
	if lr.EmployeeID <= 0 {
		return nil, fmt.Errorf("%w: employee_id is required", ErrInvalidInput)
	}
	if lr.StartDate.IsZero() || lr.EndDate.IsZero() {
		return nil, fmt.Errorf("%w: start_date and end_date are required", ErrInvalidInput)
	}
	if lr.EndDate.Before(lr.StartDate.Time) {
		return nil, fmt.Errorf("%w: end_date precedes start_date", ErrInvalidInput)
	}
	lr.Reason = strings.TrimSpace(lr.Reason)
	lr.Status = LeaveStatusPending
	return s.store.CreateLeaveRequest(ctx, &lr)
}

func (s *Service) GetLeaveRequest(ctx context.Context, id int64) (*LeaveRequest, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: leave request id is required", ErrInvalidInput)
	}
	return s.store.GetLeaveRequest(ctx, id)
}

// ListLeaveRequests pages through requests, optionally filtered by employee.
func (s *Service) ListLeaveRequests(ctx context.Context, employeeID int64, offset, limit int) ([]*LeaveRequest, error) {
	return s.store.ListLeaveRequests(ctx, employeeID, offset, limit)
}

// SetLeaveStatus transitions a pending request to approved or rejected.
func (s *Service) SetLeaveStatus(ctx context.Context, id int64, status string) (*LeaveRequest, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: leave request id is required", ErrInvalidInput)
	}
	status = strings.TrimSpace(strings.ToLower(status))
	if status != LeaveStatusApproved && status != LeaveStatusRejected {
		return nil, fmt.Errorf("%w: status must be %s or %s", ErrInvalidInput, LeaveStatusApproved, LeaveStatusRejected)
	}
	current, err := s.store.GetLeaveRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != LeaveStatusPending {
		return nil, fmt.Errorf("%w: leave request is already %s", ErrConflict, current.Status)
	}
	return s.store.UpdateLeaveStatus(ctx, id, status)
}

func validateNamedUpdate(upd *NamedUpdate) error {
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return fmt.Errorf("%w: name is required", ErrInvalidInput)
		}
		upd.Name = &name
	}
	if upd.Description != nil {
		desc := strings.TrimSpace(*upd.Description)
		upd.Description = &desc
	}
	return nil
}
