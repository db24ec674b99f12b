package handler

import (
	"github.com/gin-gonic/gin"

	"go-cms-api/internal/domain"
	"go-cms-api/internal/service"
	mdw "go-cms-api/internal/transport/http/middleware"
	resp "go-cms-api/internal/transport/http/response"
)

// AdminHandler 特权面：全量投影、级联恢复、硬删、全局批量
type AdminHandler struct {
	users    *service.UserService
	articles *service.ArticleService
}

func NewAdminHandler(users *service.UserService, articles *service.ArticleService) *AdminHandler {
	return &AdminHandler{users: users, articles: articles}
}

func (h *AdminHandler) MountAdmin(admin *gin.RouterGroup) {
	admin.GET("/users", h.listUsers)
	admin.GET("/users/search", h.searchUsers)
	admin.DELETE("/users/:id", h.cascadeDeleteUser)
	admin.POST("/users/:id/recover", h.cascadeRecoverUser)
	admin.DELETE("/users/:id/hard", h.hardDeleteUser)
	admin.POST("/users/bulk-delete", h.bulkCascadeDeleteUsers)

	admin.GET("/articles", h.listArticles)
	admin.DELETE("/articles/:id/hard", h.hardDeleteArticle)
	admin.POST("/articles/bulk-delete", h.bulkDeleteArticles)
	admin.POST("/articles/bulk-recover", h.bulkRecoverArticles)
}

func (h *AdminHandler) listUsers(c *gin.Context) {
	items, meta, err := h.users.List(
		c.Request.Context(), mdw.Principal(c), pageFrom(c, service.DefaultUserPageSize))
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OKWithMeta(c, items, meta)
}

func (h *AdminHandler) searchUsers(c *gin.Context) {
	items, meta, err := h.users.Search(
		c.Request.Context(), c.Query("q"), pageFrom(c, service.DefaultUserPageSize))
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OKWithMeta(c, items, meta)
}

func (h *AdminHandler) cascadeDeleteUser(c *gin.Context) {
	res, err := h.users.CascadeDelete(c.Request.Context(), mdw.Principal(c), c.Param("id"))
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OKWithMeta(c, res, gin.H{"transitioned": res.Transitioned})
}

func (h *AdminHandler) cascadeRecoverUser(c *gin.Context) {
	res, err := h.users.CascadeRecover(c.Request.Context(), mdw.Principal(c), c.Param("id"))
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OKWithMeta(c, res, gin.H{"transitioned": res.Transitioned})
}

func (h *AdminHandler) bulkCascadeDeleteUsers(c *gin.Context) {
	var in bulkRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, domain.Validation(err.Error()))
		return
	}
	meta, err := h.users.BulkCascadeDelete(c.Request.Context(), mdw.Principal(c), in.IDs)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OKWithMeta(c, gin.H{"deleted": meta.TotalDeleted}, meta)
}

func (h *AdminHandler) hardDeleteUser(c *gin.Context) {
	if err := h.users.HardDelete(c.Request.Context(), mdw.Principal(c), c.Param("id")); err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, gin.H{"id": c.Param("id")})
}

func (h *AdminHandler) listArticles(c *gin.Context) {
	items, meta, err := h.articles.List(
		c.Request.Context(), mdw.Principal(c), pageFrom(c, service.DefaultArticlePageSize))
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OKWithMeta(c, items, meta)
}

func (h *AdminHandler) hardDeleteArticle(c *gin.Context) {
	if err := h.articles.HardDelete(c.Request.Context(), mdw.Principal(c), c.Param("id")); err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, gin.H{"id": c.Param("id")})
}

func (h *AdminHandler) bulkDeleteArticles(c *gin.Context)  { h.bulkArticles(c, service.BulkSoftDelete) }
func (h *AdminHandler) bulkRecoverArticles(c *gin.Context) { h.bulkArticles(c, service.BulkRecover) }

func (h *AdminHandler) bulkArticles(c *gin.Context, action service.BulkAction) {
	var in bulkRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, domain.Validation(err.Error()))
		return
	}
	res, err := h.articles.BulkTransition(
		c.Request.Context(), mdw.Principal(c), in.IDs, action, in.page(service.DefaultArticlePageSize))
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OKWithMeta(c, res.Articles, res.Meta)
}
