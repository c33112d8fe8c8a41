package public

import "github.com/lumishop/lumishop/internal/provider"

// Handler 前台（游客 + 登录用户）API 入口，直接嵌 Container 取各服务
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
