package admin

import (
	handlershared "github.com/lumishop/lumishop/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

// getAdminID 取后台鉴权中间件注入的 admin_id，取不到时已写好错误响应
func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, "admin_id", "error.admin_id_invalid", "error.admin_id_type_invalid")
}
