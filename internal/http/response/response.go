package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应体。HTTP 状态永远是 200，业务结果由 status_code 表达，
// 前端据此弹提示，0 表示成功
type Response struct {
	StatusCode int    `json:"status_code"`
	Msg        string `json:"msg"`
	Data       any    `json:"data"`
}

// PageResponse 带分页信息的列表响应体
type PageResponse struct {
	StatusCode int        `json:"status_code"`
	Msg        string     `json:"msg"`
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Pagination 分页信息
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"total_page"`
}

func emit(c *gin.Context, statusCode int, msg string, data any) {
	c.JSON(http.StatusOK, Response{StatusCode: statusCode, Msg: msg, Data: data})
}

// Success 成功响应
func Success(c *gin.Context, data any) {
	emit(c, 0, "success", data)
}

// SuccessWithMsg 成功响应（自定义消息）
func SuccessWithMsg(c *gin.Context, msg string, data any) {
	emit(c, 0, msg, data)
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, data any, pagination Pagination) {
	c.JSON(http.StatusOK, PageResponse{
		StatusCode: 0,
		Msg:        "success",
		Data:       data,
		Pagination: pagination,
	})
}

// Error 错误响应，data 里带上 request_id 方便排查
func Error(c *gin.Context, statusCode int, msg string) {
	emit(c, statusCode, msg, attachRequestID(c, nil))
}

// ErrorWithData 错误响应（附加数据）
func ErrorWithData(c *gin.Context, statusCode int, msg string, data any) {
	emit(c, statusCode, msg, attachRequestID(c, data))
}

// NotFound 404响应
func NotFound(c *gin.Context, msg string) {
	Error(c, CodeNotFound, msg)
}

// Unauthorized 401响应
func Unauthorized(c *gin.Context, msg string) {
	Error(c, CodeUnauthorized, msg)
}

// Forbidden 403响应
func Forbidden(c *gin.Context, msg string) {
	Error(c, CodeForbidden, msg)
}

// BadRequest 400响应
func BadRequest(c *gin.Context, msg string) {
	Error(c, CodeBadRequest, msg)
}

// attachRequestID 把链路 request_id 塞进错误数据，已有同名键时不覆盖
func attachRequestID(c *gin.Context, data any) any {
	var requestID string
	if c != nil {
		if value, ok := c.Get("request_id"); ok {
			requestID, _ = value.(string)
		}
	}
	if requestID == "" {
		return data
	}
	switch v := data.(type) {
	case nil:
		return gin.H{"request_id": requestID}
	case gin.H:
		if _, ok := v["request_id"]; !ok {
			v["request_id"] = requestID
		}
		return v
	case map[string]any:
		if _, ok := v["request_id"]; !ok {
			v["request_id"] = requestID
		}
		return v
	default:
		return gin.H{"request_id": requestID, "data": data}
	}
}
