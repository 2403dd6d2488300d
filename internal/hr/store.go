package hr

import "context"

// Store describes persistence for the HR entities. Implementations enforce
// name/email uniqueness atomically and surface duplicates as ErrConflict,
// broken references as ErrNotFound.
type Store interface {
	CreateEmployee(ctx context.Context, e *Employee) (*Employee, error)
	GetEmployee(ctx context.Context, id int64) (*Employee, error)
	ListEmployees(ctx context.Context, offset, limit int) ([]*Employee, error)
	UpdateEmployee(ctx context.Context, id int64, upd EmployeeUpdate) (*Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error

	CreateDepartment(ctx context.Context, d *Department) (*Department, error)
	GetDepartment(ctx context.Context, id int64) (*Department, error)
	ListDepartments(ctx context.Context, offset, limit int) ([]*Department, error)
	UpdateDepartment(ctx context.Context, id int64, upd NamedUpdate) (*Department, error)
	DeleteDepartment(ctx context.Context, id int64) error

	CreatePosition(ctx context.Context, p *Position) (*Position, error)
	GetPosition(ctx context.Context, id int64) (*Position, error)
	ListPositions(ctx context.Context, offset, limit int) ([]*Position, error)
	UpdatePosition(ctx context.Context, id int64, upd NamedUpdate) (*Position, error)
	DeletePosition(ctx context.Context, id int64) error

	CreateBranch(ctx context.Context, b *Branch) (*Branch, error)
	GetBranch(ctx context.Context, id int64) (*Branch, error)
	ListBranches(ctx context.Context, offset, limit int) ([]*Branch, error)
	UpdateBranch(ctx context.Context, id int64, upd BranchUpdate) (*Branch, error)
	DeleteBranch(ctx context.Context, id int64) error

	CreateLeaveRequest(ctx context.Context, lr *LeaveRequest) (*LeaveRequest, error)
	GetLeaveRequest(ctx context.Context, id int64) (*LeaveRequest, error)
	ListLeaveRequests(ctx context.Context, employeeID int64, offset, limit int) ([]*LeaveRequest, error)
	UpdateLeaveStatus(ctx context.Context, id int64, status string) (*LeaveRequest, error)
}
