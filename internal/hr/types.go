package hr

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("resource conflict")
	ErrInvalidInput = errors.New("invalid input")
)

// Employee is the HR profile of a member of staff, optionally linked to an
// auth user account.
type Employee struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	HireDate     Date      `json:"hire_date"`
	JobTitle     string    `json:"job_title"`
	Salary       *float64  `json:"salary,omitempty"`
	PositionID   *int64    `json:"position_id,omitempty"`
	DepartmentID *int64    `json:"department_id,omitempty"`
	BranchID     *int64    `json:"branch_id,omitempty"`
	UserID       *int64    `json:"user_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Department groups employees under a unique name.
type Department struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Position is a job position with a unique name.
type Position struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Branch is an office location.
type Branch struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Leave request states. Only pending requests may transition.
const (
	LeaveStatusPending  = "pending"
	LeaveStatusApproved = "approved"
	LeaveStatusRejected = "rejected"
)

// LeaveRequest is a dated leave application by one employee.
type LeaveRequest struct {
	ID         int64     `json:"id"`
	EmployeeID int64     `json:"employee_id"`
	StartDate  Date      `json:"start_date"`
	EndDate    Date      `json:"end_date"`
	Reason     string    `json:"reason,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// EmployeeUpdate is a partial update; nil fields are left untouched.
type EmployeeUpdate struct {
	FirstName    *string  `json:"first_name"`
	LastName     *string  `json:"last_name"`
	Email        *string  `json:"email"`
	Phone        *string  `json:"phone"`
	HireDate     *Date    `json:"hire_date"`
	JobTitle     *string  `json:"job_title"`
	Salary       *float64 `json:"salary"`
	PositionID   *int64   `json:"position_id"`
	DepartmentID *int64   `json:"department_id"`
	BranchID     *int64   `json:"branch_id"`
	UserID       *int64   `json:"user_id"`
}

// NamedUpdate is a partial update for name/description entities.
type NamedUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// BranchUpdate is a partial update for branches.
type BranchUpdate struct {
	Name     *string `json:"name"`
	Address  *string `json:"address"`
	IsActive *bool   `json:"is_active"`
}
