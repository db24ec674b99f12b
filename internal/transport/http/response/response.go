package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Resp 统一响应信封
type Resp struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message"`
	Meta    any    `json:"meta,omitempty"`
}

// New 构造函数（保证 data 不为 null）
func New(success bool, msg string, data any) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Success: success, Message: msg, Data: data}
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, New(true, "OK", data))
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, New(true, "created", data))
}

// OKWithMeta 带 meta 段（分页/批量元信息）
func OKWithMeta(c *gin.Context, data any, meta any) {
	r := New(true, "OK", data)
	r.Meta = meta
	c.JSON(http.StatusOK, r)
}

// Fail 业务错误统一出口：按错误分类映射 HTTP 状态
func Fail(c *gin.Context, err error) {
	status, payload := classify(err)
	c.JSON(status, payload)
}

// Abort 中间件用：立即终止并写信封
func Abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, New(false, msg, nil))
}
