package public

import (
	"errors"
	"time"

	"github.com/lumishop/lumishop/internal/constants"
	handlershared "github.com/lumishop/lumishop/internal/http/handlers/shared"
	"github.com/lumishop/lumishop/internal/http/response"
	"github.com/lumishop/lumishop/internal/i18n"
	"github.com/lumishop/lumishop/internal/models"
	"github.com/lumishop/lumishop/internal/service"

	"github.com/gin-gonic/gin"
)

// CaptchaPayloadRequest 验证码请求载荷
type CaptchaPayloadRequest = handlershared.CaptchaPayloadRequest

// UserRegisterRequest 注册请求
type UserRegisterRequest struct {
	Email          string                `json:"email" binding:"required"`
	Password       string                `json:"password" binding:"required"`
	Locale         string                `json:"locale"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// UserRegister 用户注册
func (h *Handler) UserRegister(c *gin.Context) {
	var req UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if h.CaptchaService != nil {
		if err := h.CaptchaService.Verify(constants.CaptchaSceneRegister, req.CaptchaPayload.ToServicePayload()); err != nil {
			respondUserAuthCaptchaError(c, err)
			return
		}
	}

	user, token, expiresAt, err := h.UserAuthService.Register(req.Email, req.Password, req.Locale)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, response.CodeBadRequest, "error.subscribe_email_invalid", nil)
		case errors.Is(err, service.ErrEmailTaken):
			respondError(c, response.CodeBadRequest, "error.email_taken", nil)
		case errors.Is(err, service.ErrWeakPassword):
			respondWeakPasswordError(c, err)
		default:
			respondError(c, response.CodeInternal, "error.internal_error", err)
		}
		return
	}

	response.Success(c, buildUserSessionPayload(user, token, expiresAt))
}

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	Email          string                `json:"email" binding:"required"`
	Password       string                `json:"password" binding:"required"`
	RememberMe     bool                  `json:"remember_me"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// UserLogin 用户登录
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if h.CaptchaService != nil {
		if err := h.CaptchaService.Verify(constants.CaptchaSceneLogin, req.CaptchaPayload.ToServicePayload()); err != nil {
			respondUserAuthCaptchaError(c, err)
			return
		}
	}

	user, token, expiresAt, err := h.UserAuthService.LoginWithRememberMe(req.Email, req.Password, req.RememberMe)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail), errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, response.CodeUnauthorized, "error.invalid_credentials", nil)
		case errors.Is(err, service.ErrUserDisabled):
			respondError(c, response.CodeForbidden, "error.user_disabled", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal_error", err)
		}
		return
	}

	response.Success(c, buildUserSessionPayload(user, token, expiresAt))
}

// UserChangePasswordRequest 修改密码请求
type UserChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// UserChangePassword 修改密码
func (h *Handler) UserChangePassword(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req UserChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.UserAuthService.ChangePassword(uid, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, response.CodeBadRequest, "error.invalid_credentials", nil)
		case errors.Is(err, service.ErrWeakPassword):
			respondWeakPasswordError(c, err)
		default:
			respondError(c, response.CodeInternal, "error.internal_error", err)
		}
		return
	}
	response.Success(c, nil)
}

// UserProfileUpdateRequest 资料更新请求
type UserProfileUpdateRequest struct {
	Nickname *string `json:"nickname"`
	Locale   *string `json:"locale"`
}

// GetUserProfile 获取当前用户资料
func (h *Handler) GetUserProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.UserAuthService.GetUserByID(uid)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.Success(c, user)
}

// UpdateUserProfile 更新当前用户资料
func (h *Handler) UpdateUserProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req UserProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, err := h.UserAuthService.UpdateProfile(uid, req.Nickname, req.Locale)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.Success(c, user)
}

func respondWeakPasswordError(c *gin.Context, err error) {
	locale := i18n.ResolveLocale(c)
	if perr, ok := err.(interface {
		Key() string
		Args() []interface{}
	}); ok {
		msg := i18n.Sprintf(locale, perr.Key(), perr.Args()...)
		respondErrorWithMsg(c, response.CodeBadRequest, msg, nil)
		return
	}
	respondError(c, response.CodeBadRequest, "error.password_weak", nil)
}

func respondUserAuthCaptchaError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCaptchaRequired):
		respondError(c, response.CodeBadRequest, "error.captcha_required", nil)
	case errors.Is(err, service.ErrCaptchaInvalid):
		respondError(c, response.CodeBadRequest, "error.captcha_invalid", nil)
	default:
		respondError(c, response.CodeInternal, "error.internal_error", err)
	}
}

func buildUserSessionPayload(user *models.User, token string, expiresAt time.Time) gin.H {
	return gin.H{
		"user": gin.H{
			"id":           user.ID,
			"email":        user.Email,
			"display_name": user.DisplayName,
			"locale":       user.Locale,
		},
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
	}
}
