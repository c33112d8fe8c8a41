package admin

import "github.com/lumishop/lumishop/internal/provider"

// Handler 后台管理 API 入口，直接嵌 Container 取各服务
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
