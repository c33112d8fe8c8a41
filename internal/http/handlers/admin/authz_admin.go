package admin

import (
	"strconv"

	"github.com/lumishop/lumishop/internal/http/response"

	"github.com/gin-gonic/gin"
)

type authzRolePayload struct {
	Role string `json:"role" binding:"required"`
}

type authzPolicyPayload struct {
	Role   string `json:"role" binding:"required"`
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

type authzSetAdminRolesPayload struct {
	Roles []string `json:"roles"`
}

// ListAuthzRoles 获取角色列表
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.Success(c, roles)
}

// CreateAuthzRole 创建角色
func (h *Handler) CreateAuthzRole(c *gin.Context) {
	var req authzRolePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	role, err := h.AuthzService.EnsureRole(req.Role)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	response.Success(c, gin.H{"role": role})
}

// GetAuthzRolePolicies 获取角色的权限点列表
func (h *Handler) GetAuthzRolePolicies(c *gin.Context) {
	role := c.Param("role")
	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	response.Success(c, policies)
}

// GrantAuthzPolicy 给角色授予权限点
func (h *Handler) GrantAuthzPolicy(c *gin.Context) {
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.AuthzService.GrantRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	requestLog(c).Infow("authz_policy_granted", "role", req.Role, "object", req.Object, "action", req.Action)
	response.Success(c, nil)
}

// RevokeAuthzPolicy 撤销角色的权限点
func (h *Handler) RevokeAuthzPolicy(c *gin.Context) {
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.AuthzService.RevokeRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	requestLog(c).Infow("authz_policy_revoked", "role", req.Role, "object", req.Object, "action", req.Action)
	response.Success(c, nil)
}

// ListAuthzAdmins 获取管理员及其角色列表
func (h *Handler) ListAuthzAdmins(c *gin.Context) {
	admins, err := h.AdminRepo.List()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}

	items := make([]gin.H, 0, len(admins))
	for _, item := range admins {
		roles, roleErr := h.AuthzService.GetAdminRoles(item.ID)
		if roleErr != nil {
			respondError(c, response.CodeInternal, "error.internal_error", roleErr)
			return
		}
		items = append(items, gin.H{
			"id":            item.ID,
			"username":      item.Username,
			"is_super":      item.IsSuper,
			"last_login_at": item.LastLoginAt,
			"created_at":    item.CreatedAt,
			"roles":         roles,
		})
	}
	response.Success(c, items)
}

// SetAuthzAdminRoles 覆盖式设置管理员的角色
func (h *Handler) SetAuthzAdminRoles(c *gin.Context) {
	adminID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || adminID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	var req authzSetAdminRolesPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.AuthzService.SetAdminRoles(uint(adminID), req.Roles); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	requestLog(c).Infow("authz_admin_roles_set", "target_admin_id", adminID, "roles", req.Roles)
	response.Success(c, nil)
}
