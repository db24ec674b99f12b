package handler

import (
	"github.com/gin-gonic/gin"

	"go-cms-api/internal/domain"
	"go-cms-api/internal/service"
	mdw "go-cms-api/internal/transport/http/middleware"
	resp "go-cms-api/internal/transport/http/response"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) MountAPI(public, authed *gin.RouterGroup) {
	public.GET("/users/:id", h.get)
	authed.PUT("/users/:id", h.update)
	authed.DELETE("/users/:id", h.cascadeDelete)
}

func (h *UserHandler) get(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), mdw.Principal(c), c.Param("id"))
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, u)
}

func (h *UserHandler) update(c *gin.Context) {
	var in service.UpdateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, domain.Validation(err.Error()))
		return
	}
	u, err := h.users.UpdateProfile(c.Request.Context(), mdw.Principal(c), c.Param("id"), in)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, u)
}

// cascadeDelete 用户软删联动名下文章
func (h *UserHandler) cascadeDelete(c *gin.Context) {
	res, err := h.users.CascadeDelete(c.Request.Context(), mdw.Principal(c), c.Param("id"))
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OKWithMeta(c, res, gin.H{"transitioned": res.Transitioned})
}
