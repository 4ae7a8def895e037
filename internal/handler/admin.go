package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vitrinecms/vitrine/internal/auth"
	"github.com/vitrinecms/vitrine/internal/model"
	"github.com/vitrinecms/vitrine/internal/server/middleware"
	"github.com/vitrinecms/vitrine/internal/store"
)

// AdminHandler serves admin account management. All routes behind it are
// super-admin only.
type AdminHandler struct {
	store  *store.Store
	logger *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(st *store.Store, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{store: st, logger: logger}
}

type adminRequest struct {
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	FullName     string   `json:"fullName"`
	Password     string   `json:"password"`
	IsSuperAdmin bool     `json:"isSuperAdmin"`
	IsActive     *bool    `json:"isActive"`
	Regions      []string `json:"regions"`
}

func (req *adminRequest) normalize() {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	for i, code := range req.Regions {
		req.Regions[i] = strings.ToUpper(strings.TrimSpace(code))
	}
}

// List handles GET /admin/accounts. Password hashes never serialize; the
// model field is tagged out.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	admins, err := h.store.ListAdmins(r.Context())
	if err != nil {
		h.logger.Error("list admins failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load accounts")
		return
	}
	writeJSON(w, http.StatusOK, model.ListResponse{
		Resource: admins,
		Meta:     &model.ResponseMeta{Count: len(admins)},
	})
}

// Get handles GET /admin/accounts/{id}.
func (h *AdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	admin, err := h.store.GetAdmin(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Account not found")
		return
	}
	if err != nil {
		h.logger.Error("get admin failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load account")
		return
	}
	writeJSON(w, http.StatusOK, admin)
}

// Create handles POST /admin/accounts.
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req adminRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.normalize()
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username, email, and password are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("password hash failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	admin := &model.Admin{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: hash,
		IsSuperAdmin: req.IsSuperAdmin,
		IsActive:     active,
		Regions:      req.Regions,
	}
	if err := h.store.CreateAdmin(r.Context(), admin); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			writeError(w, http.StatusConflict, "Username or email already in use")
			return
		}
		h.logger.Error("create admin failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	middleware.GetAuditor(r.Context())(model.ActivityEntry{
		Action: "create", Entity: "admin", EntityID: admin.ID, Detail: admin.Username,
	})
	writeJSON(w, http.StatusCreated, admin)
}

// Update handles PUT /admin/accounts/{id}. An empty password leaves the stored
// hash untouched.
func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	var req adminRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.normalize()

	admin, err := h.store.GetAdmin(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Account not found")
		return
	}
	if err != nil {
		h.logger.Error("load admin failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update account")
		return
	}

	if req.Email != "" {
		admin.Email = req.Email
	}
	if req.FullName != "" {
		admin.FullName = req.FullName
	}
	if req.Regions != nil {
		admin.Regions = req.Regions
	}
	if req.IsActive != nil {
		admin.IsActive = *req.IsActive
	}
	admin.IsSuperAdmin = req.IsSuperAdmin

	admin.PasswordHash = ""
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			h.logger.Error("password hash failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to update account")
			return
		}
		admin.PasswordHash = hash
	}

	if err := h.store.UpdateAdmin(r.Context(), admin); err != nil {
		h.logger.Error("update admin failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update account")
		return
	}

	middleware.GetAuditor(r.Context())(model.ActivityEntry{
		Action: "update", Entity: "admin", EntityID: id, Detail: admin.Username,
	})

	updated, err := h.store.GetAdmin(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /admin/accounts/{id}. Self-deletion is refused so a
// super admin cannot lock everyone out by removing the last working account.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	if claims := middleware.GetClaims(r.Context()); claims != nil && claims.UserID == id {
		writeError(w, http.StatusBadRequest, "Cannot delete your own account")
		return
	}

	err := h.store.DeleteAdmin(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Account not found")
		return
	}
	if err != nil {
		h.logger.Error("delete admin failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete account")
		return
	}

	middleware.GetAuditor(r.Context())(model.ActivityEntry{
		Action: "delete", Entity: "admin", EntityID: id,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
