package shared

import (
	"github.com/lumishop/lumishop/internal/http/response"
	"github.com/lumishop/lumishop/internal/i18n"
	"github.com/lumishop/lumishop/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 返回带 request_id 字段的日志实例，便于串联同一请求的日志
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

func respond(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// RespondError 按请求语言翻译 key 后写错误响应，err 非空时记日志
func RespondError(c *gin.Context, code int, key string, err error) {
	respond(c, code, i18n.T(i18n.ResolveLocale(c), key), err)
}

// RespondErrorWithMsg 写自定义消息的错误响应，err 非空时记日志
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	respond(c, code, msg, err)
}
