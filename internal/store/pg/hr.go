package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"hrsys.org/internal/hr"
)

var _ hr.Store = (*Store)(nil)

const employeeColumns = `id, first_name, last_name, email, phone, hire_date, job_title, salary,
	position_id, department_id, branch_id, user_id, created_at, updated_at`

func (s *Store) CreateEmployee(ctx context.Context, e *hr.Employee) (*hr.Employee, error) {
	row := s.db.QueryRowContext(ctx, `
		insert into employees (first_name, last_name, email, phone, hire_date, job_title, salary,
			position_id, department_id, branch_id, user_id)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		returning `+employeeColumns+`
	`, e.FirstName, e.LastName, e.Email, nullString(e.Phone), e.HireDate, e.JobTitle, e.Salary,
		e.PositionID, e.DepartmentID, e.BranchID, e.UserID)
	return scanEmployee(row)
}

func (s *Store) GetEmployee(ctx context.Context, id int64) (*hr.Employee, error) {
	row := s.db.QueryRowContext(ctx, `
		select `+employeeColumns+`
		from employees
		where id = $1
	`, id)
	return scanEmployee(row)
}

func (s *Store) ListEmployees(ctx context.Context, offset, limit int) ([]*hr.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
		select `+employeeColumns+`
		from employees
		order by id
		offset $1 limit $2
	`, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []*hr.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (s *Store) UpdateEmployee(ctx context.Context, id int64, upd hr.EmployeeUpdate) (*hr.Employee, error) {
	sets := make([]string, 0, 8)
	args := make([]any, 0, 9)
	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if upd.FirstName != nil {
		appendSet("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		appendSet("last_name", *upd.LastName)
	}
	if upd.Email != nil {
		appendSet("email", *upd.Email)
	}
	if upd.Phone != nil {
		appendSet("phone", *upd.Phone)
	}
	if upd.HireDate != nil {
		appendSet("hire_date", *upd.HireDate)
	}
	if upd.JobTitle != nil {
		appendSet("job_title", *upd.JobTitle)
	}
	if upd.Salary != nil {
		appendSet("salary", *upd.Salary)
	}
	if upd.PositionID != nil {
		appendSet("position_id", *upd.PositionID)
	}
	if upd.DepartmentID != nil {
		appendSet("department_id", *upd.DepartmentID)
	}
	if upd.BranchID != nil {
		appendSet("branch_id", *upd.BranchID)
	}
	if upd.UserID != nil {
		appendSet("user_id", *upd.UserID)
	}
	if len(sets) == 0 {
		return s.GetEmployee(ctx, id)
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)
	query := fmt.Sprintf(`update employees set %s where id = $%d returning `+employeeColumns,
		strings.Join(sets, ", "), len(args))
	return scanEmployee(s.db.QueryRowContext(ctx, query, args...))
}

func (s *Store) DeleteEmployee(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "employees", id)
}

func (s *Store) CreateDepartment(ctx context.Context, d *hr.Department) (*hr.Department, error) {
	row := s.db.QueryRowContext(ctx, `
		insert into departments (name, description)
		values ($1, $2)
		returning id, name, description, created_at, updated_at
	`, d.Name, d.Description)
	var created hr.Department
	if err := scanNamed(row, &created.ID, &created.Name, &created.Description, &created.CreatedAt, &created.UpdatedAt); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Store) GetDepartment(ctx context.Context, id int64) (*hr.Department, error) {
	row := s.db.QueryRowContext(ctx, `
		select id, name, description, created_at, updated_at
		from departments
		where id = $1
	`, id)
	var d hr.Department
	if err := scanNamed(row, &d.ID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) ListDepartments(ctx context.Context, offset, limit int) ([]*hr.Department, error) {
	rows, err := s.queryNamed(ctx, "departments", offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*hr.Department
	for rows.Next() {
		var d hr.Department
		if err := scanNamed(rows, &d.ID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &d)
	}
	return result, rows.Err()
}

func (s *Store) UpdateDepartment(ctx context.Context, id int64, upd hr.NamedUpdate) (*hr.Department, error) {
	row, err := s.updateNamed(ctx, "departments", id, upd)
	if err != nil {
		return nil, err
	}
	var d hr.Department
	if err := scanNamed(row, &d.ID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) DeleteDepartment(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "departments", id)
}

func (s *Store) CreatePosition(ctx context.Context, p *hr.Position) (*hr.Position, error) {
	row := s.db.QueryRowContext(ctx, `
		insert into positions (name, description)
		values ($1, $2)
		returning id, name, description, created_at, updated_at
	`, p.Name, p.Description)
	var created hr.Position
	if err := scanNamed(row, &created.ID, &created.Name, &created.Description, &created.CreatedAt, &created.UpdatedAt); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Store) GetPosition(ctx context.Context, id int64) (*hr.Position, error) {
	row := s.db.QueryRowContext(ctx, `
		select id, name, description, created_at, updated_at
		from positions
		where id = $1
	`, id)
	var p hr.Position
	if err := scanNamed(row, &p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) ListPositions(ctx context.Context, offset, limit int) ([]*hr.Position, error) {
	rows, err := s.queryNamed(ctx, "positions", offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*hr.Position
	for rows.Next() {
		var p hr.Position
		if err := scanNamed(rows, &p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &p)
	}
	return result, rows.Err()
}

func (s *Store) UpdatePosition(ctx context.Context, id int64, upd hr.NamedUpdate) (*hr.Position, error) {
	row, err := s.updateNamed(ctx, "positions", id, upd)
	if err != nil {
		return nil, err
	}
	var p hr.Position
	if err := scanNamed(row, &p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) DeletePosition(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "positions", id)
}

func (s *Store) CreateBranch(ctx context.Context, b *hr.Branch) (*hr.Branch, error) {
	row := s.db.QueryRowContext(ctx, `
		insert into branches (name, address, is_active)
		values ($1, $2, $3)
		returning id, name, address, is_active, created_at, updated_at
	`, b.Name, b.Address, b.IsActive)
	return scanBranch(row)
}

func (s *Store) GetBranch(ctx context.Context, id int64) (*hr.Branch, error) {
	row := s.db.QueryRowContext(ctx, `
		select id, name, address, is_active, created_at, updated_at
		from branches
		where id = $1
	`, id)
	return scanBranch(row)
}

func (s *Store) ListBranches(ctx context.Context, offset, limit int) ([]*hr.Branch, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, name, address, is_active, created_at, updated_at
		from branches
		order by id
		offset $1 limit $2
	`, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var branches []*hr.Branch
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}
	return branches, rows.Err()
}

func (s *Store) UpdateBranch(ctx context.Context, id int64, upd hr.BranchUpdate) (*hr.Branch, error) {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)
	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if upd.Name != nil {
		appendSet("name", *upd.Name)
	}
	if upd.Address != nil {
		appendSet("address", *upd.Address)
	}
	if upd.IsActive != nil {
		appendSet("is_active", *upd.IsActive)
	}
	if len(sets) == 0 {
		return s.GetBranch(ctx, id)
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)
	query := fmt.Sprintf(`update branches set %s where id = $%d returning id, name, address, is_active, created_at, updated_at`,
		strings.Join(sets, ", "), len(args))
	return scanBranch(s.db.QueryRowContext(ctx, query, args...))
}

func (s *Store) DeleteBranch(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "branches", id)
}

const leaveColumns = `id, employee_id, start_date, end_date, reason, status, created_at, updated_at`

func (s *Store) CreateLeaveRequest(ctx context.Context, lr *hr.LeaveRequest) (*hr.LeaveRequest, error) {
	row := s.db.QueryRowContext(ctx, `
		insert into leave_requests (employee_id, start_date, end_date, reason, status)
		values ($1, $2, $3, $4, $5)
		returning `+leaveColumns+`
	`, lr.EmployeeID, lr.StartDate, lr.EndDate, lr.Reason, lr.Status)
	return scanLeave(row)
}

func (s *Store) GetLeaveRequest(ctx context.Context, id int64) (*hr.LeaveRequest, error) {
	row := s.db.QueryRowContext(ctx, `
		select `+leaveColumns+`
		from leave_requests
		where id = $1
	`, id)
	return scanLeave(row)
}

func (s *Store) ListLeaveRequests(ctx context.Context, employeeID int64, offset, limit int) ([]*hr.LeaveRequest, error) {
	query := `
		select ` + leaveColumns + `
		from leave_requests`
	args := []any{offset, limit}
	if employeeID > 0 {
		query += `
		where employee_id = $3`
		args = append(args, employeeID)
	}
	query += `
		order by id
		offset $1 limit $2`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*hr.LeaveRequest
	for rows.Next() {
		lr, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}

func (s *Store) UpdateLeaveStatus(ctx context.Context, id int64, status string) (*hr.LeaveRequest, error) {
	row := s.db.QueryRowContext(ctx, `
		update leave_requests
		set status = $1, updated_at = now()
		where id = $2
		returning `+leaveColumns+`
	`, status, id)
	return scanLeave(row)
}

func (s *Store) deleteByID(ctx context.Context, table string, id int64) error {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`delete from %s where id = $1`, table), id)
	if err != nil {
		return mapHRError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return hr.ErrNotFound
	}
	return nil
}

func scanEmployee(row rowScanner) (*hr.Employee, error) {
	var (
		e     hr.Employee
		phone sql.NullString
	)
	if err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &phone, &e.HireDate,
		&e.JobTitle, &e.Salary, &e.PositionID, &e.DepartmentID, &e.BranchID, &e.UserID,
		&e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, hr.ErrNotFound
		}
		return nil, mapHRError(err)
	}
	e.Phone = phone.String
	return &e, nil
}

func scanBranch(row rowScanner) (*hr.Branch, error) {
	var b hr.Branch
	if err := row.Scan(&b.ID, &b.Name, &b.Address, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, hr.ErrNotFound
		}
		return nil, mapHRError(err)
	}
	return &b, nil
}

func scanLeave(row rowScanner) (*hr.LeaveRequest, error) {
	var lr hr.LeaveRequest
	if err := row.Scan(&lr.ID, &lr.EmployeeID, &lr.StartDate, &lr.EndDate, &lr.Reason,
		&lr.Status, &lr.CreatedAt, &lr.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, hr.ErrNotFound
		}
		return nil, mapHRError(err)
	}
	return &lr, nil
}

// scanNamed scans an id/name/description row, translating no-rows and
// constraint violations into the hr sentinels.
func scanNamed(row rowScanner, dest ...any) error {
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return hr.ErrNotFound
		}
		return mapHRError(err)
	}
	return nil
}

// queryNamed pages id/name/description tables (departments, positions).
func (s *Store) queryNamed(ctx context.Context, table string, offset, limit int) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, fmt.Sprintf(`
		select id, name, description, created_at, updated_at
		from %s
		order by id
		offset $1 limit $2
	`, table), offset, limit)
}

// updateNamed applies a partial name/description update and returns the row.
func (s *Store) updateNamed(ctx context.Context, table string, id int64, upd hr.NamedUpdate) (*sql.Row, error) {
	sets := make([]string, 0, 2)
	args := make([]any, 0, 3)
	if upd.Name != nil {
		args = append(args, *upd.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if upd.Description != nil {
		args = append(args, *upd.Description)
		sets = append(sets, fmt.Sprintf("description = $%d", len(args)))
	}
	if len(sets) == 0 {
		return s.db.QueryRowContext(ctx, fmt.Sprintf(`
			select id, name, description, created_at, updated_at from %s where id = $1
		`, table), id), nil
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)
	query := fmt.Sprintf(`update %s set %s where id = $%d returning id, name, description, created_at, updated_at`,
		table, strings.Join(sets, ", "), len(args))
	return s.db.QueryRowContext(ctx, query, args...), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func mapHRError(err error) error {
	if pgErr, ok := maybePgError(err); ok {
		switch pgErr.Code {
		case pgErrUniqueViolation:
			return fmt.Errorf("%w: %s", hr.ErrConflict, conflictField(pgErr.ConstraintName))
		case pgErrForeignKeyViolation:
			return fmt.Errorf("%w: referenced row missing", hr.ErrNotFound)
		}
	}
	return err
}
