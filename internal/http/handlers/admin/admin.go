package admin

import (
	"errors"
	"time"

	"github.com/lumishop/lumishop/internal/constants"
	handlershared "github.com/lumishop/lumishop/internal/http/handlers/shared"
	"github.com/lumishop/lumishop/internal/http/response"
	"github.com/lumishop/lumishop/internal/i18n"
	"github.com/lumishop/lumishop/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest 后台登录请求
type LoginRequest struct {
	Username       string                              `json:"username" binding:"required"`
	Password       string                              `json:"password" binding:"required"`
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// LoginResponse 后台登录响应
type LoginResponse struct {
	Token     string `json:"token"`
	User      gin.H  `json:"user"`
	ExpiresAt string `json:"expires_at"`
}

// verifyLoginCaptcha 登录场景验证码校验，失败时已写响应并返回 false
func (h *Handler) verifyLoginCaptcha(c *gin.Context, payload handlershared.CaptchaPayloadRequest) bool {
	if h.CaptchaService == nil {
		return true
	}
	err := h.CaptchaService.Verify(constants.CaptchaSceneLogin, payload.ToServicePayload())
	switch {
	case err == nil:
		return true
	case errors.Is(err, service.ErrCaptchaRequired):
		respondError(c, response.CodeBadRequest, "error.captcha_required", nil)
	case errors.Is(err, service.ErrCaptchaInvalid):
		respondError(c, response.CodeBadRequest, "error.captcha_invalid", nil)
	default:
		respondError(c, response.CodeInternal, "error.internal_error", err)
	}
	return false
}

// AdminLogin 管理员登录
func (h *Handler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if !h.verifyLoginCaptcha(c, req.CaptchaPayload) {
		return
	}

	admin, token, expiresAt, err := h.AuthService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, response.CodeUnauthorized, "error.invalid_credentials", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}

	response.Success(c, LoginResponse{
		Token:     token,
		User:      gin.H{"id": admin.ID, "username": admin.Username},
		ExpiresAt: expiresAt.Format(time.RFC3339),
	})
}

// UpdatePasswordRequest 改密请求
type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// respondWeakPassword 把密码策略错误翻译成带参数的本地化文案
func respondWeakPassword(c *gin.Context, err error) {
	if perr, ok := err.(interface {
		Key() string
		Args() []any
	}); ok {
		msg := i18n.Sprintf(i18n.ResolveLocale(c), perr.Key(), perr.Args()...)
		respondErrorWithMsg(c, response.CodeBadRequest, msg, nil)
		return
	}
	respondError(c, response.CodeBadRequest, "error.password_weak", nil)
}

// UpdateAdminPassword 修改当前管理员密码
func (h *Handler) UpdateAdminPassword(c *gin.Context) {
	id, ok := getAdminID(c)
	if !ok {
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.AuthService.ChangePassword(id, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			respondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, response.CodeBadRequest, "error.invalid_credentials", nil)
		case errors.Is(err, service.ErrWeakPassword):
			respondWeakPassword(c, err)
		default:
			respondError(c, response.CodeInternal, "error.internal_error", err)
		}
		return
	}

	response.Success(c, nil)
}

// GetAdminProfile 当前管理员信息与角色列表
func (h *Handler) GetAdminProfile(c *gin.Context) {
	id, ok := getAdminID(c)
	if !ok {
		return
	}

	admin, err := h.AdminRepo.GetByID(id)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	if admin == nil {
		respondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return
	}

	// 角色查询失败不影响基本资料返回
	roles, err := h.AuthzService.GetAdminRoles(id)
	if err != nil {
		requestLog(c).Warnw("admin_roles_fetch_failed", "admin_id", id, "error", err)
		roles = nil
	}

	response.Success(c, gin.H{
		"id":            admin.ID,
		"username":      admin.Username,
		"last_login_at": admin.LastLoginAt,
		"roles":         roles,
	})
}
