package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-cms-api/internal/core/auth"
	"go-cms-api/internal/core/cache"
	"go-cms-api/internal/domain"
	"go-cms-api/internal/service"
	mdw "go-cms-api/internal/transport/http/middleware"
	resp "go-cms-api/internal/transport/http/response"
	"go-cms-api/pkg/utils"
)

type AuthHandler struct {
	users   *service.UserService
	jwter   *auth.JWTer
	revoked *cache.Cache
	log     *zap.Logger
}

func NewAuthHandler(users *service.UserService, jwter *auth.JWTer, revoked *cache.Cache, log *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, jwter: jwter, revoked: revoked, log: log}
}

// Mount public 无需登录；authed 已过 AuthJWT
func (h *AuthHandler) Mount(public, authed *gin.RouterGroup) {
	public.POST("/auth/register", h.register)
	public.POST("/auth/login", h.login)
	authed.POST("/auth/logout", h.logout)
	authed.GET("/me", h.me)
}

func (h *AuthHandler) register(c *gin.Context) {
	var in service.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, domain.Validation(err.Error()))
		return
	}
	u, err := h.users.Register(c.Request.Context(), in)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.Created(c, u)
}

type loginIn struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) login(c *gin.Context) {
	var in loginIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, domain.Validation(err.Error()))
		return
	}
	u, err := h.users.Authenticate(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	token, err := h.jwter.Issue(u.ID, u.Role, utils.NewID())
	if err != nil || token == "" {
		resp.Fail(c, domain.Datastore("issue token", err))
		return
	}
	resp.OK(c, gin.H{"token": token, "user": u})
}

// logout jti 进吊销缓存，TTL 对齐 token 剩余有效期。
// 缓存写失败只记日志：登出是 fire-and-forget，核心不依赖它
func (h *AuthHandler) logout(c *gin.Context) {
	v, _ := c.Get("claims")
	claims, ok := v.(*auth.Claims)
	if !ok || claims.ID == "" {
		resp.OK(c, gin.H{"loggedOut": true})
		return
	}
	if h.revoked != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if ttl > 0 {
			if err := h.revoked.SetFlag(c.Request.Context(), mdw.RevokeKey(claims.ID), ttl); err != nil {
				h.log.Warn("revocation cache set failed", zap.Error(err))
			}
		}
	}
	resp.OK(c, gin.H{"loggedOut": true})
}

func (h *AuthHandler) me(c *gin.Context) {
	p := mdw.Principal(c)
	if p == nil {
		resp.Fail(c, domain.Unauthorized("login required"))
		return
	}
	u, err := h.users.Get(c.Request.Context(), p, p.ID)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, u)
}
