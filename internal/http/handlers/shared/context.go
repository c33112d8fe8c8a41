package shared

import (
	"github.com/lumishop/lumishop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetContextUintWithKeys 从 gin 上下文取鉴权中间件注入的 uint 身份值，
// 取不到或类型不对时直接写错误响应并返回 false
func GetContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}

	// 中间件写入的是 uint；int/float64 兼容测试与 JSON 反序列化注入
	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v >= 0 {
			return uint(v), true
		}
	case float64:
		if v >= 0 {
			return uint(v), true
		}
	default:
		RespondError(c, response.CodeInternal, typeInvalidKey, nil)
		return 0, false
	}
	RespondError(c, response.CodeBadRequest, invalidKey, nil)
	return 0, false
}
