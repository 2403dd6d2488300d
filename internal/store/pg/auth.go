package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"hrsys.org/internal/auth"
)

var _ auth.Store = (*Store)(nil)

const userColumns = `id, username, email, full_name, disabled, password_hash, created_at, updated_at`

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*auth.User, error) {
	row := s.db.QueryRowContext(ctx, `
		select `+userColumns+`
		from users
		where username = $1
	`, username)
	return s.scanUserWithRoles(ctx, row)
}

func (s *Store) FindUserByID(ctx context.Context, id int64) (*auth.User, error) {
	row := s.db.QueryRowContext(ctx, `
		select `+userColumns+`
		from users
		where id = $1
	`, id)
	return s.scanUserWithRoles(ctx, row)
}

func (s *Store) ListUsers(ctx context.Context, offset, limit int) ([]*auth.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		select `+userColumns+`
		from users
		order by id
		offset $1 limit $2
	`, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*auth.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, u := range users {
		roles, err := s.rolesForUser(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		u.Roles = roles
	}
	return users, nil
}

func (s *Store) CreateUser(ctx context.Context, u *auth.User, roleIDs []int64) (*auth.User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var created auth.User
	row := tx.QueryRowContext(ctx, `
		insert into users (username, email, full_name, disabled, password_hash)
		values ($1, $2, $3, $4, $5)
		returning `+userColumns+`
	`, u.Username, u.Email, u.FullName, u.Disabled, u.PasswordHash)
	if err := row.Scan(&created.ID, &created.Username, &created.Email, &created.FullName,
		&created.Disabled, &created.PasswordHash, &created.CreatedAt, &created.UpdatedAt); err != nil {
		return nil, mapAuthError(err)
	}

	if err := insertAssignments(ctx, tx, created.ID, roleIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	roles, err := s.rolesForUser(ctx, created.ID)
	if err != nil {
		return nil, err
	}
	created.Roles = roles
	return &created, nil
}

func (s *Store) UpdateUser(ctx context.Context, id int64, upd auth.UserUpdate) (*auth.User, error) {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if upd.Email != nil {
		appendSet("email", *upd.Email)
	}
	if upd.FullName != nil {
		appendSet("full_name", *upd.FullName)
	}
	if upd.Password != nil {
		appendSet("password_hash", *upd.Password)
	}
	if upd.Disabled != nil {
		appendSet("disabled", *upd.Disabled)
	}

	if len(sets) > 0 {
		sets = append(sets, "updated_at = now()")
		args = append(args, id)
		query := fmt.Sprintf(`update users set %s where id = $%d`, strings.Join(sets, ", "), len(args))
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, mapAuthError(err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			return nil, auth.ErrNotFound
		}
	}
	if upd.RoleIDs != nil {
		if err := s.ReplaceRoleAssignments(ctx, id, upd.RoleIDs); err != nil {
			return nil, err
		}
	}
	return s.FindUserByID(ctx, id)
}

// ReplaceRoleAssignments swaps the full assignment set in one transaction;
// an unknown role id rolls the whole replacement back.
func (s *Store) ReplaceRoleAssignments(ctx context.Context, userID int64, roleIDs []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	if err := tx.QueryRowContext(ctx, `select exists(select 1 from users where id = $1)`, userID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: user %d", auth.ErrNotFound, userID)
	}
	if _, err := tx.ExecContext(ctx, `delete from user_roles where user_id = $1`, userID); err != nil {
		return err
	}
	if err := insertAssignments(ctx, tx, userID, roleIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) FindRoleByID(ctx context.Context, id int64) (*auth.Role, error) {
	return scanRole(s.db.QueryRowContext(ctx, `
		select id, name, description, created_at, updated_at
		from roles
		where id = $1
	`, id))
}

func (s *Store) FindRoleByName(ctx context.Context, name string) (*auth.Role, error) {
	return scanRole(s.db.QueryRowContext(ctx, `
		select id, name, description, created_at, updated_at
		from roles
		where name = $1
	`, name))
}

func (s *Store) CreateRole(ctx context.Context, r *auth.Role) (*auth.Role, error) {
	var created auth.Role
	row := s.db.QueryRowContext(ctx, `
		insert into roles (name, description)
		values ($1, $2)
		returning id, name, description, created_at, updated_at
	`, r.Name, r.Description)
	if err := row.Scan(&created.ID, &created.Name, &created.Description, &created.CreatedAt, &created.UpdatedAt); err != nil {
		return nil, mapAuthError(err)
	}
	return &created, nil
}

func (s *Store) ListRoles(ctx context.Context, offset, limit int) ([]*auth.Role, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, name, description, created_at, updated_at
		from roles
		order by id
		offset $1 limit $2
	`, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*auth.Role
	for rows.Next() {
		var r auth.Role
		if err := rows.Scan(&r.ID, &r.Name, &r.Description, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, &r)
	}
	return roles, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*auth.User, error) {
	var u auth.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName,
		&u.Disabled, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func scanRole(row rowScanner) (*auth.Role, error) {
	var r auth.Role
	if err := row.Scan(&r.ID, &r.Name, &r.Description, &r.CreatedAt, &r.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (s *Store) scanUserWithRoles(ctx context.Context, row rowScanner) (*auth.User, error) {
	u, err := scanUser(row)
	if err != nil {
		return nil, err
	}
	roles, err := s.rolesForUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.Roles = roles
	return u, nil
}

func (s *Store) rolesForUser(ctx context.Context, userID int64) ([]auth.Role, error) {
	rows, err := s.db.QueryContext(ctx, `
		select r.id, r.name, r.description, r.created_at, r.updated_at
		from roles r
		join user_roles ur on ur.role_id = r.id
		where ur.user_id = $1
		order by r.name
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []auth.Role
	for rows.Next() {
		var r auth.Role
		if err := rows.Scan(&r.ID, &r.Name, &r.Description, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// insertAssignments links roleIDs to userID; a role id with no matching row
// aborts the caller's transaction with NotFound naming the id.
func insertAssignments(ctx context.Context, tx execer, userID int64, roleIDs []int64) error {
	for _, roleID := range roleIDs {
		res, err := tx.ExecContext(ctx, `
			insert into user_roles (user_id, role_id)
			select $1, id from roles where id = $2
		`, userID, roleID)
		if err != nil {
			return mapAuthError(err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("%w: role %d", auth.ErrNotFound, roleID)
		}
	}
	return nil
}

func mapAuthError(err error) error {
	if pgErr, ok := maybePgError(err); ok {
		switch pgErr.Code {
		case pgErrUniqueViolation:
			return fmt.Errorf("%w: %s", auth.ErrConflict, conflictField(pgErr.ConstraintName))
		case pgErrForeignKeyViolation:
			return fmt.Errorf("%w: referenced row missing", auth.ErrNotFound)
		}
	}
	return err
}

func conflictField(constraint string) string {
	switch {
	case strings.Contains(constraint, "username"):
		return "username already exists"
	case strings.Contains(constraint, "email"):
		return "email already exists"
	case strings.Contains(constraint, "name"):
		return "name already exists"
	default:
		return "duplicate value"
	}
}
