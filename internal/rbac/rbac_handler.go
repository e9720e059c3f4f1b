package rbac

import (
	"errors"
	"net/http"
	"strings"

	"verticx/internal/domain"
	"verticx/internal/middleware"
	"verticx/internal/shared/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	service Service
	repo    Repository
}

func NewHandler(service Service, repo Repository) *Handler {
	return &Handler{service: service, repo: repo}
}

func (h *Handler) Enforce(c *gin.Context) {
	var req EnforceRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	req.UserID = strings.TrimSpace(req.UserID)
	req.BranchID = strings.TrimSpace(req.BranchID)
	req.Resource = strings.TrimSpace(req.Resource)
	req.Action = strings.TrimSpace(req.Action)

	if req.UserID == "" || req.BranchID == "" || req.Resource == "" || req.Action == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "user_id, branch_id, resource, and action are required", nil)
		return
	}

	allowed, err := h.service.Enforce(domain.EnforceRequest{
		UserID:   req.UserID,
		BranchID: req.BranchID,
		Resource: req.Resource,
		Action:   req.Action,
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, EnforceResponse{
		Allowed: allowed,
	}, nil)
}

func (h *Handler) ListRoles(c *gin.Context) {
	branchID := c.GetString(string(middleware.ContextBranchID))

	roles, err := h.repo.ListRoles(branchID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	out := make([]domain.RoleResponse, 0, len(roles))
	for _, role := range roles {
		perms, err := h.repo.GetPermissionsByRoleID(role.ID)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
			return
		}
		out = append(out, mapRoleResponse(role, perms))
	}

	response.Success(c, http.StatusOK, out, nil)
}

func (h *Handler) GetRole(c *gin.Context) {
	role, err := h.repo.GetRoleByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "ROLE_NOT_FOUND", "Role not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	perms, err := h.repo.GetPermissionsByRoleID(role.ID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, mapRoleResponse(*role, perms), nil)
}

func (h *Handler) CreateRole(c *gin.Context) {
	branchID := c.GetString(string(middleware.ContextBranchID))

	var req domain.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	if existing, err := h.repo.GetRoleByName(branchID, req.Name); err == nil && existing != nil {
		response.Error(c, http.StatusConflict, "ROLE_EXISTS", "A role with this name already exists", nil)
		return
	}

	role := RoleRow{
		BranchID:    branchID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.repo.CreateRole(&role); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	if len(req.Permissions) > 0 {
		if err := h.repo.UpdateRolePermissions(role.ID, req.Permissions); err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
			return
		}
	}

	perms, _ := h.repo.GetPermissionsByRoleID(role.ID)
	response.Success(c, http.StatusCreated, mapRoleResponse(role, perms), nil)
}

func (h *Handler) UpdateRole(c *gin.Context) {
	var req domain.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	role, err := h.repo.GetRoleByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "ROLE_NOT_FOUND", "Role not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	if req.Name != "" {
		role.Name = req.Name
	}
	if req.Description != "" {
		role.Description = req.Description
	}
	if err := h.repo.UpdateRole(role); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	if req.Permissions != nil {
		if err := h.repo.UpdateRolePermissions(role.ID, req.Permissions); err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
			return
		}
	}

	perms, _ := h.repo.GetPermissionsByRoleID(role.ID)
	response.Success(c, http.StatusOK, mapRoleResponse(*role, perms), nil)
}

func (h *Handler) DeleteRole(c *gin.Context) {
	if _, err := h.repo.GetRoleByID(c.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "ROLE_NOT_FOUND", "Role not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	if err := h.repo.DeleteRole(c.Param("id")); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) ListPermissions(c *gin.Context) {
	perms, err := h.repo.ListPermissions()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	out := make([]domain.PermissionResponse, 0, len(perms))
	for _, p := range perms {
		out = append(out, domain.PermissionResponse{
			ID:       p.ID,
			Resource: p.Resource,
			Action:   p.Action,
			Label:    p.Label,
			Category: p.Category,
		})
	}

	response.Success(c, http.StatusOK, out, nil)
}

func mapRoleResponse(role RoleRow, perms []PermissionRow) domain.RoleResponse {
	ids := make([]string, 0, len(perms))
	for _, p := range perms {
		ids = append(ids, p.ID)
	}
	return domain.RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		Permissions: ids,
	}
}
