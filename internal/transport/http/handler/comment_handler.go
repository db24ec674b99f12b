package handler

import (
	"github.com/gin-gonic/gin"

	"go-cms-api/internal/domain"
	"go-cms-api/internal/service"
	mdw "go-cms-api/internal/transport/http/middleware"
	resp "go-cms-api/internal/transport/http/response"
)

type CommentHandler struct {
	comments *service.CommentService
}

func NewCommentHandler(comments *service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

func (h *CommentHandler) MountAPI(public, authed *gin.RouterGroup) {
	public.GET("/articles/:id/comments", h.listByArticle)
	authed.POST("/articles/:id/comments", h.create)
	authed.DELETE("/comments/:id", h.delete)
}

func (h *CommentHandler) listByArticle(c *gin.Context) {
	items, meta, err := h.comments.ListByArticle(
		c.Request.Context(), c.Param("id"), pageFrom(c, service.DefaultCommentPageSize))
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OKWithMeta(c, items, meta)
}

func (h *CommentHandler) create(c *gin.Context) {
	var in service.CreateCommentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, domain.Validation(err.Error()))
		return
	}
	cm, err := h.comments.Create(c.Request.Context(), mdw.Principal(c), c.Param("id"), in)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.Created(c, cm)
}

func (h *CommentHandler) delete(c *gin.Context) {
	if err := h.comments.Delete(c.Request.Context(), mdw.Principal(c), c.Param("id")); err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, gin.H{"id": c.Param("id")})
}
