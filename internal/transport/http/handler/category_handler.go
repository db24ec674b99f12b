package handler

import (
	"github.com/gin-gonic/gin"

	"go-cms-api/internal/domain"
	"go-cms-api/internal/service"
	mdw "go-cms-api/internal/transport/http/middleware"
	resp "go-cms-api/internal/transport/http/response"
)

type CategoryHandler struct {
	categories *service.CategoryService
}

func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

func (h *CategoryHandler) MountAPI(public *gin.RouterGroup) {
	public.GET("/categories", h.list)
	public.GET("/categories/:id", h.get)
}

// MountAdmin 分类增删改只开给管理端
func (h *CategoryHandler) MountAdmin(admin *gin.RouterGroup) {
	admin.POST("/categories", h.create)
	admin.PUT("/categories/:id", h.update)
	admin.DELETE("/categories/:id", h.delete)
}

func (h *CategoryHandler) list(c *gin.Context) {
	items, meta, err := h.categories.List(c.Request.Context(), pageFrom(c, service.DefaultCategoryPageSize))
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OKWithMeta(c, items, meta)
}

func (h *CategoryHandler) get(c *gin.Context) {
	cat, err := h.categories.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, cat)
}

func (h *CategoryHandler) create(c *gin.Context) {
	var in service.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, domain.Validation(err.Error()))
		return
	}
	cat, err := h.categories.Create(c.Request.Context(), mdw.Principal(c), in)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.Created(c, cat)
}

func (h *CategoryHandler) update(c *gin.Context) {
	var in service.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, domain.Validation(err.Error()))
		return
	}
	cat, err := h.categories.Update(c.Request.Context(), mdw.Principal(c), c.Param("id"), in)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, cat)
}

func (h *CategoryHandler) delete(c *gin.Context) {
	if err := h.categories.Delete(c.Request.Context(), mdw.Principal(c), c.Param("id")); err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, gin.H{"id": c.Param("id")})
}
