package public

import (
	"github.com/lumishop/lumishop/internal/constants"
	"github.com/lumishop/lumishop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetCaptcha 返回验证码配置与挑战。
// provider 为 none 或指定场景未开启时只返回开关信息，不生成图片
func (h *Handler) GetCaptcha(c *gin.Context) {
	scene := c.DefaultQuery("scene", constants.CaptchaSceneLogin)

	payload := gin.H{
		"provider": h.CaptchaService.Provider(),
		"enabled":  h.CaptchaService.IsSceneEnabled(scene),
	}
	if !h.CaptchaService.IsSceneEnabled(scene) {
		response.Success(c, payload)
		return
	}

	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	payload["captcha_id"] = challenge.CaptchaID
	payload["image_base64"] = challenge.ImageBase64
	response.Success(c, payload)
}
