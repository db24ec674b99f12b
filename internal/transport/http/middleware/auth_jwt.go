package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-cms-api/internal/core/auth"
	"go-cms-api/internal/core/cache"
	"go-cms-api/internal/domain"
	resp "go-cms-api/internal/transport/http/response"
)

const keyPrincipal = "principal"

// AuthJWT 解析 Bearer token 并挂出主体。
// jti 命中吊销缓存的 token 按无效处理；缓存不可用时放行（核心不依赖它）。
func AuthJWT(j *auth.JWTer, revoked *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c, j, revoked)
		if !ok {
			resp.Abort(c, http.StatusUnauthorized, "invalid token")
			return
		}
		c.Set(keyPrincipal, claims.Principal())
		c.Set("claims", claims)
		c.Next()
	}
}

// AuthOptional 匿名放行；带了合法 token 就挂主体（admin 解锁特权投影）
func AuthOptional(j *auth.JWTer, revoked *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ah := c.GetHeader("Authorization"); strings.HasPrefix(ah, "Bearer ") {
			if claims, ok := parseBearer(c, j, revoked); ok {
				c.Set(keyPrincipal, claims.Principal())
			}
		}
		c.Next()
	}
}

// RequirePerm 权限门：统一走 Role.Can，不再散落字符串比较
func RequirePerm(perm domain.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := Principal(c)
		if p == nil {
			resp.Abort(c, http.StatusUnauthorized, "login required")
			return
		}
		if !p.Role.Can(perm) {
			resp.Abort(c, http.StatusForbidden, "forbidden")
			return
		}
		c.Next()
	}
}

// Principal 从上下文取已认证主体；匿名返回 nil
func Principal(c *gin.Context) *domain.Principal {
	if v, ok := c.Get(keyPrincipal); ok {
		if p, ok := v.(*domain.Principal); ok {
			return p
		}
	}
	return nil
}

func parseBearer(c *gin.Context, j *auth.JWTer, revoked *cache.Cache) (*auth.Claims, bool) {
	ah := c.GetHeader("Authorization")
	if !strings.HasPrefix(ah, "Bearer ") {
		return nil, false
	}
	claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
	if err != nil {
		return nil, false
	}
	if revoked != nil && claims.ID != "" && revoked.Exists(c.Request.Context(), revokeKey(claims.ID)) {
		return nil, false
	}
	return claims, true
}

// RevokeKey 登出侧与校验侧共用的吊销键
func RevokeKey(jti string) string { return revokeKey(jti) }

func revokeKey(jti string) string { return "cms:revoked:" + jti }
