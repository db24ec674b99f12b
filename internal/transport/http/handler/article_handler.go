package handler

import (
	"github.com/gin-gonic/gin"

	"go-cms-api/internal/domain"
	"go-cms-api/internal/service"
	mdw "go-cms-api/internal/transport/http/middleware"
	resp "go-cms-api/internal/transport/http/response"
	"go-cms-api/pkg/pagination"
)

type ArticleHandler struct {
	articles *service.ArticleService
}

func NewArticleHandler(articles *service.ArticleService) *ArticleHandler {
	return &ArticleHandler{articles: articles}
}

func (h *ArticleHandler) MountAPI(public, authed *gin.RouterGroup) {
	public.GET("/articles", h.list)
	public.GET("/articles/search", h.search)
	public.GET("/articles/:id", h.get)

	authed.POST("/articles", h.create)
	authed.PUT("/articles/:id", h.update)
	authed.DELETE("/articles/:id", h.softDelete)
	authed.POST("/articles/:id/recover", h.recover)
	authed.POST("/articles/bulk-delete", h.bulkDelete)
	authed.POST("/articles/bulk-recover", h.bulkRecover)
}

func (h *ArticleHandler) list(c *gin.Context) {
	p := mdw.Principal(c)
	page := pageFrom(c, service.DefaultArticlePageSize)

	var (
		items []domain.Article
		meta  pagination.Meta
		err   error
	)
	if author := c.Query("author"); author != "" {
		items, meta, err = h.articles.ListByAuthor(c.Request.Context(), p, author, page)
	} else {
		items, meta, err = h.articles.List(c.Request.Context(), p, page)
	}
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OKWithMeta(c, items, meta)
}

func (h *ArticleHandler) search(c *gin.Context) {
	items, meta, err := h.articles.Search(
		c.Request.Context(), c.Query("q"), pageFrom(c, service.DefaultArticlePageSize))
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OKWithMeta(c, items, meta)
}

func (h *ArticleHandler) get(c *gin.Context) {
	a, err := h.articles.Get(c.Request.Context(), mdw.Principal(c), c.Param("id"))
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, a)
}

func (h *ArticleHandler) create(c *gin.Context) {
	var in service.CreateArticleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, domain.Validation(err.Error()))
		return
	}
	a, err := h.articles.Create(c.Request.Context(), mdw.Principal(c), in)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.Created(c, a)
}

func (h *ArticleHandler) update(c *gin.Context) {
	var in service.UpdateArticleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, domain.Validation(err.Error()))
		return
	}
	a, err := h.articles.Update(c.Request.Context(), mdw.Principal(c), c.Param("id"), in)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, a)
}

func (h *ArticleHandler) softDelete(c *gin.Context) {
	if err := h.articles.Delete(c.Request.Context(), mdw.Principal(c), c.Param("id")); err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, gin.H{"id": c.Param("id")})
}

func (h *ArticleHandler) recover(c *gin.Context) {
	if err := h.articles.Recover(c.Request.Context(), mdw.Principal(c), c.Param("id")); err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, gin.H{"id": c.Param("id")})
}

func (h *ArticleHandler) bulkDelete(c *gin.Context) {
	h.bulk(c, service.BulkSoftDelete)
}

func (h *ArticleHandler) bulkRecover(c *gin.Context) {
	h.bulk(c, service.BulkRecover)
}

func (h *ArticleHandler) bulk(c *gin.Context, action service.BulkAction) {
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
