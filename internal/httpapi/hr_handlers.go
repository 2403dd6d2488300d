package httpapi

import (
	"net/http"
	"strconv"

	"hrsys.org/internal/hr"
)

// Entity gates: employees are readable by the employee role, writable by
// manager, deletable by admin. Reference data (departments, positions) and
// branch writes belong to the system role. Leave approval is a manager call.
const (
	roleEmployee = "employee"
	roleManager  = "manager"
	roleAdmin    = "admin"
	roleSystem   = "system"
)

func (a *API) handleEmployees(w http.ResponseWriter, r *http.Request) {
	if a.hr == nil {
		writeError(w, r, http.StatusServiceUnavailable, "storage is not configured")
		return
	}
	switch r.Method {
	case http.MethodGet:
		if !a.requireRole(w, r, roleEmployee) {
			return
		}
		offset, limit := pagination(r)
		employees, err := a.hr.ListEmployees(r.Context(), offset, limit)
		if err != nil {
			a.hrError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"employees": employees})
	case http.MethodPost:
		if !a.requireRole(w, r, roleManager) {
			return
		}
		var in hr.Employee
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		employee, err := a.hr.CreateEmployee(r.Context(), in)
		if err != nil {
			a.hrError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, employee)
	default:
		methodNotAllowed(w, r)
	}
}

func (a *API) handleEmployeeScoped(w http.ResponseWriter, r *http.Request) {
	if a.hr == nil {
		writeError(w, r, http.StatusServiceUnavailable, "storage is not configured")
		return
	}
	id, rest, ok := scopedPath(r.URL.Path, "/v1/employees/")
	if !ok || rest != "" {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		if !a.requireRole(w, r, roleEmployee) {
			return
		}
		employee, err := a.hr.GetEmployee(r.Context(), id)
		if err != nil {
			a.hrError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, employee)
	case http.MethodPut:
		if !a.requireRole(w, r, roleManager) {
			return
		}
		var upd hr.EmployeeUpdate
		if err := decodeJSON(r, &upd); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		employee, err := a.hr.UpdateEmployee(r.Context(), id, upd)
		if err != nil {
			a.hrError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, employee)
	case http.MethodDelete:
		if !a.requireRole(w, r, roleAdmin) {
			return
		}
		if err := a.hr.DeleteEmployee(r.Context(), id); err != nil {
			a.hrError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
	default:
		methodNotAllowed(w, r)
	}
}

func (a *API) handleDepartments(w http.ResponseWriter, r *http.Request) {
	if a.hr == nil {
		writeError(w, r, http.StatusServiceUnavailable, "storage is not configured")
		return
	}
	if !a.requireRole(w, r, roleSystem) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		offset, limit := pagination(r)
		departments, err := a.hr.ListDepartments(r.Context(), offset, limit)
		if err != nil {
			a.hrError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"departments": departments})
	case http.MethodPost:
		var in hr.Department
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		department, err := a.hr.CreateDepartment(r.Context(), in)
		if err != nil {
			a.hrError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, department)
	default:
		methodNotAllowed(w, r)
	}
}

func (a *API) handleDepartmentScoped(w http.ResponseWriter, r *http.Request) {
	if a.hr == nil {
		writeError(w, r, http.StatusServiceUnavailable, "storage is not configured")
		return
	}
	if !a.requireRole(w, r, roleSystem) {
		return
	}
	id, rest, ok := scopedPath(r.URL.Path, "/v1/departments/")
	if !ok || rest != "" {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		department, err := a.hr.GetDepartment(r.Context(), id)
		if err != nil {
			a.hrError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, department)
	case http.MethodPut:
		var upd hr.NamedUpdate
		if err := decodeJSON(r, &upd); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		department, err := a.hr.UpdateDepartment(r.Context(), id, upd)
		if err != nil {
			a.hrError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, department)
	case http.MethodDelete:
		if err := a.hr.DeleteDepartment(r.Context(), id); err != nil {
			a.hrError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
	default:
		methodNotAllowed(w, r)
	}
}

func (a *API) handlePositions(w http.ResponseWriter, r *http.Request) {
	if a.hr == nil {
		writeError(w, r, http.StatusServiceUnavailable, "storage is not configured")
		return
	}
	if !a.requireRole(w, r, roleSystem) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		offset, limit := pagination(r)
		positions, err := a.hr.ListPositions(r.Context(), offset, limit)
		if err != nil {
			a.hrError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"positions": positions})
	case http.MethodPost:
		var in hr.Position
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		position, err := a.hr.CreatePosition(r.Context(), in)
		if err != nil {
			a.hrError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, position)
	default:
		methodNotAllowed(w, r)
	}
}

func (a *API) handlePositionScoped(w http.ResponseWriter, r *http.Request) {
	if a.hr == nil {
		writeError(w, r, http.StatusServiceUnavailable, "storage is not configured")
		return
	}
	if !a.requireRole(w, r, roleSystem) {
		return
	}
	id, rest, ok := scopedPath(r.URL.Path, "/v1/positions/")
	if !ok || rest != "" {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		position, err := a.hr.GetPosition(r.Context(), id)
		if err != nil {
			a.hrError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, position)
	case http.MethodPut:
		var upd hr.NamedUpdate
		if err := decodeJSON(r, &upd); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		position, err := a.hr.UpdatePosition(r.Context(), id, upd)
		if err != nil {
			a.hrError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, position)
	case http.MethodDelete:
		if err := a.hr.DeletePosition(r.Context(), id); err != nil {
			a.hrError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
	default:
		methodNotAllowed(w, r)
	}
}

func (a *API) handleBranches(w http.ResponseWriter, r *http.Request) {
	if a.hr == nil {
		writeError(w, r, http.StatusServiceUnavailable, "storage is not configured")
		return
	}
	switch r.Method {
	case http.MethodGet:
		if !a.requireRole(w, r, roleEmployee) {
			return
		}
		offset, limit := pagination(r)
		branches, err := a.hr.ListBranches(r.Context(), offset, limit)
		if err != nil {
			a.hrError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"branches": branches})
	case http.MethodPost:
		if !a.requireRole(w, r, roleSystem) {
			return
		}
		var in hr.Branch
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		branch, err := a.hr.CreateBranch(r.Context(), in)
		if err != nil {
			a.hrError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, branch)
	default:
		methodNotAllowed(w, r)
	}
}

func (a *API) handleBranchScoped(w http.ResponseWriter, r *http.Request) {
	if a.hr == nil {
		writeError(w, r, http.StatusServiceUnavailable, "storage is not configured")
		return
	}
	id, rest, ok := scopedPath(r.URL.Path, "/v1/branches/")
	if !ok || rest != "" {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		if !a.requireRole(w, r, roleEmployee) {
			return
		}
		branch, err := a.hr.GetBranch(r.Context(), id)
		if err != nil {
			a.hrError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, branch)
	case http.MethodPut:
		if !a.requireRole(w, r, roleSystem) {
			return
		}
		var upd hr.BranchUpdate
		if err := decodeJSON(r, &upd); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		branch, err := a.hr.UpdateBranch(r.Context(), id, upd)
		if err != nil {
			a.hrError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, branch)
	case http.MethodDelete:
		if !a.requireRole(w, r, roleSystem) {
			return
		}
		if err := a.hr.DeleteBranch(r.Context(), id); err != nil {
			a.hrError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
	default:
		methodNotAllowed(w, r)
	}
}

func (a *API) handleLeaves(w http.ResponseWriter, r *http.Request) {
	if a.hr == nil {
		writeError(w, r, http.StatusServiceUnavailable, "storage is not configured")
		return
	}
	if !a.requireRole(w, r, roleEmployee) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		offset, limit := pagination(r)
		var employeeID int64
		if raw := r.URL.Query().Get("employee_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				writeError(w, r, http.StatusBadRequest, "invalid employee_id")
				return
			}
			employeeID = id
		}
		leaves, err := a.hr.ListLeaveRequests(r.Context(), employeeID, offset, limit)
		if err != nil {
			a.hrError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"leave_requests": leaves})
	case http.MethodPost:
		var in hr.LeaveRequest
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		leave, err := a.hr.CreateLeaveRequest(r.Context(), in)
		if err != nil {
			a.hrError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, leave)
	default:
		methodNotAllowed(w, r)
	}
}

func (a *API) handleLeaveScoped(w http.ResponseWriter, r *http.Request) {
	if a.hr == nil {
		writeError(w, r, http.StatusServiceUnavailable, "storage is not configured")
		return
	}
	id, rest, ok := scopedPath(r.URL.Path, "/v1/leaves/")
	if !ok {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	switch rest {
	case "":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r)
			return
		}
		if !a.requireRole(w, r, roleEmployee) {
			return
		}
		leave, err := a.hr.GetLeaveRequest(r.Context(), id)
		if err != nil {
			a.hrError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, leave)
	case "status":
		if r.Method != http.MethodPut {
			methodNotAllowed(w, r)
			return
		}
		if !a.requireRole(w, r, roleManager) {
			return
		}
		var in struct {
			Status string `json:"status"`
		}
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		leave, err := a.hr.SetLeaveStatus(r.Context(), id, in.Status)
		if err != nil {
			a.hrError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, leave)
	default:
		writeError(w, r, http.StatusNotFound, "not found")
	}
}
