package public

import (
	handlershared "github.com/lumishop/lumishop/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

// getUserID 取用户鉴权中间件注入的 user_id，取不到时已写好错误响应
func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, "user_id", "error.user_id_invalid", "error.user_id_type_invalid")
}
