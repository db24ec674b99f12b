package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-cms-api/internal/core/auth"
	"go-cms-api/internal/core/cache"
	"go-cms-api/internal/domain"
	"go-cms-api/internal/transport/http/handler"
	mdw "go-cms-api/internal/transport/http/middleware"
)

type AdminDeps struct {
	Log     *zap.Logger
	JWTer   *auth.JWTer
	Revoked *cache.Cache

	Admin      *handler.AdminHandler
	Categories *handler.CategoryHandler
}

// NewAdminEngine 管理端引擎：统一要求 admin 权限
func NewAdminEngine(d AdminDeps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimitPerIP(50, 100),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(4<<20),
		mdw.Timeout(10*time.Second),
		mdw.SimpleRecovery(),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := r.Group("/admin/v1")
	admin.Use(
		mdw.AuthJWT(d.JWTer, d.Revoked),
		mdw.RequirePerm(domain.PermReadDeleted),
	)

	d.Admin.MountAdmin(admin)
	d.Categories.MountAdmin(admin)

	return r
}
