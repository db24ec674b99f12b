package handler

import (
	"github.com/gin-gonic/gin"

	"go-cms-api/pkg/pagination"
)

// pageFrom 解析 ?page=&limit=；缺省/非数字落组件默认值，limit=0 哨兵保留
func pageFrom(c *gin.Context, defaultLimit int) pagination.Page {
	return pagination.ResolveStrings(c.Query("page"), c.Query("limit"), defaultLimit)
}

// bulkRequest 批量生命周期请求体。Limit 用指针区分"缺省"与哨兵 0
type bulkRequest struct {
	IDs   []string `json:"ids" binding:"required"`
	Page  int      `json:"page"`
	Limit *int     `json:"limit"`
}

func (r bulkRequest) page(defaultLimit int) pagination.Page {
	limit := defaultLimit
	if r.Limit != nil {
		limit = *r.Limit
	}
	return pagination.Resolve(r.Page, limit, defaultLimit)
}
