package hr

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// memStore is an in-memory Store for service tests.
type memStore struct {
	employees   map[int64]*Employee
	departments map[int64]*Department
	positions   map[int64]*Position
	branches    map[int64]*Branch
	leaves      map[int64]*LeaveRequest
	nextID      int64
}

func newMemStore() *memStore {
	return &memStore{
		employees:   make(map[int64]*Employee),
		departments: make(map[int64]*Department),
		positions:   make(map[int64]*Position),
		branches:    make(map[int64]*Branch),
		leaves:      make(map[int64]*LeaveRequest),
		nextID:      1,
	}
}

func (m *memStore) id() int64 {
	id := m.nextID
	m.nextID++
	return id
}

func (m *memStore) CreateEmployee(_ context.Context, e *Employee) (*Employee, error) {
	for _, existing := range m.employees {
		if existing.Email == e.Email {
			return nil, fmt.Errorf("%w: email already exists", ErrConflict)
		}
	}
	created := *e
	created.ID = m.id()
	m.employees[created.ID] = &created
	return &created, nil
}

func (m *memStore) GetEmployee(_ context.Context, id int64) (*Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

func (m *memStore) ListEmployees(_ context.Context, _, _ int) ([]*Employee, error) {
	var out []*Employee
	for id := int64(1); id < m.nextID; id++ {
		if e, ok := m.employees[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) UpdateEmployee(_ context.Context, id int64, upd EmployeeUpdate) (*Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Email != nil {
		e.Email = *upd.Email
	}
	if upd.JobTitle != nil {
		e.JobTitle = *upd.JobTitle
	}
	return e, nil
}

func (m *memStore) DeleteEmployee(_ context.Context, id int64) error {
	if _, ok := m.employees[id]; !ok {
		return ErrNotFound
	}
	delete(m.employees, id)
	return nil
}

func (m *memStore) CreateDepartment(_ context.Context, d *Department) (*Department, error) {
	for _, existing := range m.departments {
		if existing.Name == d.Name {
			return nil, fmt.Errorf("%w: name already exists", ErrConflict)
		}
	}
	created := *d
	created.ID = m.id()
	m.departments[created.ID] = &created
	return &created, nil
}

func (m *memStore) GetDepartment(_ context.Context, id int64) (*Department, error) {
	d, ok := m.departments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return d, nil
}

func (m *memStore) ListDepartments(_ context.Context, _, _ int) ([]*Department, error) {
	var out []*Department
	for id := int64(1); id < m.nextID; id++ {
		if d, ok := m.departments[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memStore) UpdateDepartment(_ context.Context, id int64, upd NamedUpdate) (*Department, error) {
	d, ok := m.departments[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Name != nil {
		d.Name = *upd.Name
	}
	if upd.Description != nil {
		d.Description = *upd.Description
	}
	return d, nil
}

func (m *memStore) DeleteDepartment(_ context.Context, id int64) error {
	if _, ok := m.departments[id]; !ok {
		return ErrNotFound
	}
	delete(m.departments, id)
	return nil
}

func (m *memStore) CreatePosition(_ context.Context, p *Position) (*Position, error) {
	created := *p
	created.ID = m.id()
	m.positions[created.ID] = &created
	return &created, nil
}

func (m *memStore) GetPosition(_ context.Context, id int64) (*Position, error) {
	p, ok := m.positions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *memStore) ListPositions(_ context.Context, _, _ int) ([]*Position, error) {
	var out []*Position
	for id := int64(1); id < m.nextID; id++ {
		if p, ok := m.positions[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) UpdatePosition(_ context.Context, id int64, upd NamedUpdate) (*Position, error) {
	p, ok := m.positions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	return p, nil
}

func (m *memStore) DeletePosition(_ context.Context, id int64) error {
	if _, ok := m.positions[id]; !ok {
		return ErrNotFound
	}
	delete(m.positions, id)
	return nil
}

func (m *memStore) CreateBranch(_ context.Context, b *Branch) (*Branch, error) {
	created := *b
	created.ID = m.id()
	m.branches[created.ID] = &created
	return &created, nil
}

func (m *memStore) GetBranch(_ context.Context, id int64) (*Branch, error) {
	b, ok := m.branches[id]
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

func (m *memStore) ListBranches(_ context.Context, _, _ int) ([]*Branch, error) {
	var out []*Branch
	for id := int64(1); id < m.nextID; id++ {
		if b, ok := m.branches[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) UpdateBranch(_ context.Context, id int64, upd BranchUpdate) (*Branch, error) {
	b, ok := m.branches[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Name != nil {
		b.Name = *upd.Name
	}
	if upd.IsActive != nil {
		b.IsActive = *upd.IsActive
	}
	return b, nil
}

func (m *memStore) DeleteBranch(_ context.Context, id int64) error {
	if _, ok := m.branches[id]; !ok {
		return ErrNotFound
	}
	delete(m.branches, id)
	return nil
}

func (m *memStore) CreateLeaveRequest(_ context.Context, lr *LeaveRequest) (*LeaveRequest, error) {
	created := *lr
	created.ID = m.id()
	m.leaves[created.ID] = &created
	return &created, nil
}

func (m *memStore) GetLeaveRequest(_ context.Context, id int64) (*LeaveRequest, error) {
	lr, ok := m.leaves[id]
	if !ok {
		return nil, ErrNotFound
	}
	return lr, nil
}

func (m *memStore) ListLeaveRequests(_ context.Context, employeeID int64, _, _ int) ([]*LeaveRequest, error) {
	var out []*LeaveRequest
	for id := int64(1); id < m.nextID; id++ {
		if lr, ok := m.leaves[id]; ok {
			if employeeID > 0 && lr.EmployeeID != employeeID {
				continue
			}
			out = append(out, lr)
		}
	}
	return out, nil
}

func (m *memStore) UpdateLeaveStatus(_ context.Context, id int64, status string) (*LeaveRequest, error) {
	lr, ok := m.leaves[id]
	if !ok {
		return nil, ErrNotFound
	}
	lr.Status = status
	return lr, nil
}

func newTestService(t *testing.T) (*Service, *memStore) {
	t.Helper()
	store := newMemStore()
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, store
}

func TestCreateEmployeeValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	valid := Employee{
		FirstName: "Jan",
		LastName:  "Kovacs",
		Email:     "Jan.Kovacs@Example.COM",
		HireDate:  NewDate(2025, time.June, 1),
		JobTitle:  "Engineer",
	}

	created, err := svc.CreateEmployee(ctx, valid)
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}
	if created.Email != "jan.kovacs@example.com" {
		t.Errorf("email not normalized: %q", created.Email)
	}

	cases := []struct {
		name   string
		mutate func(*Employee)
	}{
		{"missing first name", func(e *Employee) { e.FirstName = " " }},
		{"missing last name", func(e *Employee) { e.LastName = "" }},
		{"bad email", func(e *Employee) { e.Email = "not-an-email" }},
		{"missing hire date", func(e *Employee) { e.HireDate = Date{} }},
		{"missing job title", func(e *Employee) { e.JobTitle = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := valid
			e.Email = "other@example.com"
			tc.mutate(&e)
			if _, err := svc.CreateEmployee(ctx, e); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("got %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestLeaveStatusTransitions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	lr, err := svc.CreateLeaveRequest(ctx, LeaveRequest{
		EmployeeID: 1,
		StartDate:  NewDate(2026, time.July, 1),
		EndDate:    NewDate(2026, time.July, 10),
		Reason:     "vacation",
		Status:     "approved", // caller-supplied status is ignored
	})
	if err != nil {
		t.Fatalf("CreateLeaveRequest: %v", err)
	}
	if lr.Status != LeaveStatusPending {
		t.Fatalf("new request status = %q, want pending", lr.Status)
	}

	approved, err := svc.SetLeaveStatus(ctx, lr.ID, "APPROVED")
	if err != nil {
		t.Fatalf("SetLeaveStatus: %v", err)
	}
	if approved.Status != LeaveStatusApproved {
		t.Errorf("status = %q, want approved", approved.Status)
	}

	// A decided request cannot transition again.
	if _, err := svc.SetLeaveStatus(ctx, lr.ID, LeaveStatusRejected); !errors.Is(err, ErrConflict) {
		t.Errorf("second transition = %v, want ErrConflict", err)
	}

	// Only approved/rejected are accepted as targets.
	if _, err := svc.SetLeaveStatus(ctx, lr.ID, "pending"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("transition to pending = %v, want ErrInvalidInput", err)
	}
}

func TestCreateLeaveRequestDateOrder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateLeaveRequest(ctx, LeaveRequest{
		EmployeeID: 1,
		StartDate:  NewDate(2026, time.July, 10),
		EndDate:    NewDate(2026, time.July, 1),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("end before start = %v, want ErrInvalidInput", err)
	}

	_, err = svc.CreateLeaveRequest(ctx, LeaveRequest{
		EmployeeID: 1,
		StartDate:  NewDate(2026, time.July, 1),
		EndDate:    NewDate(2026, time.July, 1),
	})
	if err != nil {
		t.Errorf("single-day leave: %v", err)
	}
}

func TestUpdateDepartment(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	d, err := svc.CreateDepartment(ctx, Department{Name: "Engineering"})
	if err != nil {
		t.Fatalf("CreateDepartment: %v", err)
	}

	blank := "  "
	if _, err := svc.UpdateDepartment(ctx, d.ID, NamedUpdate{Name: &blank}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("blank name = %v, want ErrInvalidInput", err)
	}

	renamed := "Platform Engineering"
	updated, err := svc.UpdateDepartment(ctx, d.ID, NamedUpdate{Name: &renamed})
	if err != nil {
		t.Fatalf("UpdateDepartment: %v", err)
	}
	if updated.Name != renamed {
		t.Errorf("name = %q, want %q", updated.Name, renamed)
	}

	if _, err := svc.UpdateDepartment(ctx, 9999, NamedUpdate{Name: &renamed}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id = %v, want ErrNotFound", err)
	}
}
