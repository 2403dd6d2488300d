package pg

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"hrsys.org/internal/hr"
)

func TestCreateEmployeeDuplicateEmail(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`insert into employees`)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "employees_email_key"})

	_, err := store.CreateEmployee(context.Background(), &hr.Employee{
		FirstName: "Jan",
		LastName:  "Kovacs",
		Email:     "jan@example.com",
		HireDate:  hr.NewDate(2025, time.June, 1),
		JobTitle:  "Engineer",
	})
	if !errors.Is(err, hr.ErrConflict) {
		t.Errorf("got %v, want ErrConflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCreateLeaveRequestBrokenReference(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`insert into leave_requests`)).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "leave_requests_employee_id_fkey"})

	_, err := store.CreateLeaveRequest(context.Background(), &hr.LeaveRequest{
		EmployeeID: 9999,
		StartDate:  hr.NewDate(2026, time.July, 1),
		EndDate:    hr.NewDate(2026, time.July, 2),
		Status:     hr.LeaveStatusPending,
	})
	if !errors.Is(err, hr.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestDeleteDepartmentUnknownID(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`delete from departments`)).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.DeleteDepartment(context.Background(), 404); !errors.Is(err, hr.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestListLeaveRequestsEmployeeFilter(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "employee_id", "start_date", "end_date", "reason", "status", "created_at", "updated_at",
	}).AddRow(int64(1), int64(7), now, now, "vacation", "pending", now, now)

	mock.ExpectQuery(`where employee_id`).
		WithArgs(0, 100, int64(7)).
		WillReturnRows(rows)

	requests, err := store.ListLeaveRequests(context.Background(), 7, 0, 100)
	if err != nil {
		t.Fatalf("ListLeaveRequests: %v", err)
	}
	if len(requests) != 1 || requests[0].EmployeeID != 7 {
		t.Errorf("unexpected result: %+v", requests)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
