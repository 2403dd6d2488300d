package httpapi

import (
	"net/http"

	"hrsys.org/internal/auth"
)

// User and role administration requires the system role throughout.

func (a *API) handleUsers(w http.ResponseWriter, r *http.Request) {
	if !a.requireRole(w, r, auth.RoleSystem) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		offset, limit := pagination(r)
		users, err := a.auth.ListUsers(r.Context(), offset, limit)
		if err != nil {
			a.authError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"users": users})
	case http.MethodPost:
		var in auth.NewUser
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		user, err := a.auth.CreateUser(r.Context(), in)
		if err != nil {
			a.authError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, user)
	default:
		methodNotAllowed(w, r)
	}
}

func (a *API) handleUserScoped(w http.ResponseWriter, r *http.Request) {
	if !a.requireRole(w, r, auth.RoleSystem) {
		return
	}
	id, rest, ok := scopedPath(r.URL.Path, "/v1/users/")
	if !ok {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	switch rest {
	case "":
		switch r.Method {
		case http.MethodGet:
			user, err := a.auth.GetUser(r.Context(), id)
			if err != nil {
				a.authError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, user)
		case http.MethodPut:
			var upd auth.UserUpdate
			if err := decodeJSON(r, &upd); err != nil {
				writeError(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error())
				return
			}
			user, err := a.auth.UpdateUser(r.Context(), id, upd)
			if err != nil {
				a.authError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, user)
		default:
			methodNotAllowed(w, r)
		}
	case "roles":
		if r.Method != http.MethodPut {
			methodNotAllowed(w, r)
			return
		}
		var in struct {
			RoleIDs []int64 `json:"role_ids"`
		}
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		user, err := a.auth.SetUserRoles(r.Context(), id, in.RoleIDs)
		if err != nil {
			a.authError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	default:
		writeError(w, r, http.StatusNotFound, "not found")
	}
}

func (a *API) handleRoles(w http.ResponseWriter, r *http.Request) {
	if !a.requireRole(w, r, auth.RoleSystem) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		offset, limit := pagination(r)
		roles, err := a.auth.ListRoles(r.Context(), offset, limit)
		if err != nil {
			a.authError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"roles": roles})
	case http.MethodPost:
		var in auth.NewRole
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		role, err := a.auth.CreateRole(r.Context(), in)
		if err != nil {
			a.authError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, role)
	default:
		methodNotAllowed(w, r)
	}
}

func (a *API) handleRoleScoped(w http.ResponseWriter, r *http.Request) {
	if !a.requireRole(w, r, auth.RoleSystem) {
		return
	}
	id, rest, ok := scopedPath(r.URL.Path, "/v1/roles/")
	if !ok || rest != "" {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}
	role, err := a.auth.GetRole(r.Context(), id)
	if err != nil {
		a.authError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, role)
}
