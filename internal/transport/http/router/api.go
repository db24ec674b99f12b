package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-cms-api/internal/core/auth"
	"go-cms-api/internal/core/cache"
	"go-cms-api/internal/transport/http/handler"
	mdw "go-cms-api/internal/transport/http/middleware"
)

type APIDeps struct {
	Log     *zap.Logger
	JWTer   *auth.JWTer
	Revoked *cache.Cache

	Auth       *handler.AuthHandler
	Users      *handler.UserHandler
	Articles   *handler.ArticleHandler
	Categories *handler.CategoryHandler
	Comments   *handler.CommentHandler
}

// NewAPIEngine 用户端引擎：匿名可读，写操作要登录
func NewAPIEngine(d APIDeps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(4<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(d.Log, true),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
		cors.Default(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	api := r.Group("/api/v1")
	// 带合法 token 的读请求能解锁特权投影（admin）
	api.Use(mdw.AuthOptional(d.JWTer, d.Revoked))

	authed := api.Group("")
	authed.Use(mdw.AuthJWT(d.JWTer, d.Revoked))

	d.Auth.Mount(api, authed)
	d.Users.MountAPI(api, authed)
	d.Articles.MountAPI(api, authed)
	d.Categories.MountAPI(api)
	d.Comments.MountAPI(api, authed)

	return r
}
