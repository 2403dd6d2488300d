package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Bootstrap roles ensured at startup. The superuser is granted both
// explicitly; the role gate never grants admin an implicit bypass.
const (
	RoleSystem = "system"
	RoleAdmin  = "admin"
)

// Service orchestrates credential checks, token issuance and session
// resolution on top of the persistence Store. It holds no identity state of
// its own: every resolution re-fetches from the store so role and disabled
// changes take effect on the next request.
type Service struct {
	store  Store
	tokens *Tokens
}

// NewService constructs the auth service.
func NewService(store Store, tokens *Tokens) (*Service, error) {
	if store == nil {
		return nil, errors.New("auth: store is required")
	}
	if tokens == nil {
		return nil, errors.New("auth: token issuer is required")
	}
	return &Service{store: store, tokens: tokens}, nil
}

// Authenticate checks username and password and returns the user with its
// resolved role set. Unknown username and wrong password both surface as
// ErrInvalidCredentials. The disabled flag is deliberately not checked here;
// RequireActive keeps "wrong credentials" and "inactive account" distinct.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.store.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Login runs the full credential flow: authenticate, reject disabled
// accounts, issue a token.
func (s *Service) Login(ctx context.Context, username, password string) (string, time.Time, *User, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", time.Time{}, nil, err
	}
	if err := s.RequireActive(user); err != nil {
		return "", time.Time{}, nil, err
	}
	token, expiresAt, err := s.tokens.Issue(user.Username, user.RoleNames())
	if err != nil {
		return "", time.Time{}, nil, err
	}
	return token, expiresAt, user, nil
}

// Resolve turns a bearer token back into a live user record. The subject is
// re-fetched from the store rather than trusted from the token so that role
// and disabled changes are always current; a token whose subject no longer
// exists is invalid even before its natural expiry.
func (s *Service) Resolve(ctx context.Context, token string) (*User, error) {
	subject, err := s.tokens.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.store.FindUserByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

// RequireActive rejects disabled identities with a reason distinct from
// invalid credentials or tokens.
func (s *Service) RequireActive(user *User) error {
	if user == nil {
		return ErrInvalidToken
	}
	if user.Disabled {
		return ErrAccountDisabled
	}
	return nil
}

// RequireRole returns a check that passes iff the resolved user carries the
// exact role name. Policy is strict: no implicit admin bypass; grant admin
// each fine-grained role explicitly instead.
func (s *Service) RequireRole(role string) func(*User) error {
	role = strings.TrimSpace(role)
	return func(user *User) error {
		if user == nil {
			return ErrInvalidToken
		}
		if role == "" || !user.HasRole(role) {
			return fmt.Errorf("%w: missing required role %q", ErrForbidden, role)
		}
		return nil
	}
}

// CreateUser validates input, hashes the password and stores the user with
// its initial role set. The plaintext is discarded immediately.
func (s *Service) CreateUser(ctx context.Context, in NewUser) (*User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if len(in.Username) < MinUsernameLength {
		return nil, fmt.Errorf("%w: username must be at least %d characters", ErrInvalidInput, MinUsernameLength)
	}
	if len(in.Password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	roleIDs, err := dedupeIDs(in.RoleIDs)
	if err != nil {
		return nil, err
	}
	user := &User{
		Username:     in.Username,
		Email:        strings.TrimSpace(strings.ToLower(in.Email)),
		FullName:     strings.TrimSpace(in.FullName),
		Disabled:     in.Disabled,
		PasswordHash: hash,
	}
	return s.store.CreateUser(ctx, user, roleIDs)
}

// UpdateUser applies a partial update, re-hashing the password when present.
func (s *Service) UpdateUser(ctx context.Context, id int64, upd UserUpdate) (*User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if upd.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*upd.Email))
		upd.Email = &email
	}
	if upd.FullName != nil {
		name := strings.TrimSpace(*upd.FullName)
		upd.FullName = &name
	}
	if upd.Password != nil {
		if len(*upd.Password) < MinPasswordLength {
			return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
		}
		hash, err := HashPassword(*upd.Password)
		if err != nil {
			return nil, err
		}
		upd.Password = &hash
	}
	if upd.RoleIDs != nil {
		roleIDs, err := dedupeIDs(upd.RoleIDs)
		if err != nil {
			return nil, err
		}
		if roleIDs == nil {
			// an explicit empty list clears the assignment set
			roleIDs = []int64{}
		}
		upd.RoleIDs = roleIDs
	}
	return s.store.UpdateUser(ctx, id, upd)
}

// SetUserRoles replaces the user's full assignment set.
func (s *Service) SetUserRoles(ctx context.Context, userID int64, roleIDs []int64) (*User, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	deduped, err := dedupeIDs(roleIDs)
	if err != nil {
		return nil, err
	}
	if err := s.store.ReplaceRoleAssignments(ctx, userID, deduped); err != nil {
		return nil, err
	}
	return s.store.FindUserByID(ctx, userID)
}

// GetUser fetches one user by id.
func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.store.FindUserByID(ctx, id)
}

// ListUsers pages through users.
func (s *Service) ListUsers(ctx context.Context, offset, limit int) ([]*User, error) {
	return s.store.ListUsers(ctx, offset, limit)
}

// CreateRole validates and stores a new role.
func (s *Service) CreateRole(ctx context.Context, in NewRole) (*Role, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: role name is required", ErrInvalidInput)
	}
	role := &Role{Name: in.Name, Description: strings.TrimSpace(in.Description)}
	return s.store.CreateRole(ctx, role)
}

// GetRole fetches one role by id.
func (s *Service) GetRole(ctx context.Context, id int64) (*Role, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: role id is required", ErrInvalidInput)
	}
	return s.store.FindRoleByID(ctx, id)
}

// ListRoles pages through roles.
func (s *Service) ListRoles(ctx context.Context, offset, limit int) ([]*Role, error) {
	return s.store.ListRoles(ctx, offset, limit)
}

// EnsureSuperuser makes startup idempotent: the system and admin roles exist
// and the initial superuser carries both. Existing accounts are left alone.
func (s *Service) EnsureSuperuser(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil
	}
	roleIDs := make([]int64, 0, 2)
	for _, name := range []string{RoleSystem, RoleAdmin} {
		role, err := s.store.FindRoleByName(ctx, name)
		if errors.Is(err, ErrNotFound) {
			role, err = s.store.CreateRole(ctx, &Role{Name: name, Description: "bootstrap role"})
		}
		if err != nil {
			return fmt.Errorf("ensure role %s: %w", name, err)
		}
		roleIDs = append(roleIDs, role.ID)
	}
	_, err := s.store.FindUserByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	_, err = s.CreateUser(ctx, NewUser{
		Username: username,
		Password: password,
		RoleIDs:  roleIDs,
	})
	if err != nil {
		return fmt.Errorf("create superuser: %w", err)
	}
	return nil
}

func dedupeIDs(ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	seen := make(map[int64]struct{}, len(ids))
	var out []int64
	for _, id := range ids {
		if id <= 0 {
			return nil, fmt.Errorf("%w: role id %d is not a valid id", ErrInvalidInput, id)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
