package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
	"github.com/xiebiao/bookoutlet/pkg/jwt"
	"github.com/xiebiao/bookoutlet/pkg/logger"
	"github.com/xiebiao/bookoutlet/pkg/response"
)

const (
	ctxUserID   = "user_id"
	ctxEmail    = "email"
	ctxNickname = "nickname"
	ctxToken    = "access_token"
)

// TokenBlacklist 登出Token黑名单,由redis.SessionStore或memory.SessionStore实现
type TokenBlacklist interface {
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware JWT认证中间件
// 1. 从Header提取Token
// 2. 检查Token黑名单
// 3. 验证Token并把用户信息写入Context
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	blacklist  TokenBlacklist
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, blacklist TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		blacklist:  blacklist,
	}
}

// RequireAuth 要求登录,失败时返回HTTP 401
//
//	authorized := r.Group("/api/v1")
//	authorized.Use(authMiddleware.RequireAuth())
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, apperrors.ErrUnauthorized)
			return
		}

		claims, err := m.verify(c.Request.Context(), token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, err)
			return
		}

		setIdentity(c, claims, token)
		c.Next()
	}
}

// OptionalAuth 可选登录
// Token有效时写入用户信息,无效或缺失时按匿名用户继续
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := m.verify(c.Request.Context(), token); err == nil {
				setIdentity(c, claims, token)
			}
		}
		c.Next()
	}
}

func (m *AuthMiddleware) verify(ctx context.Context, token string) (*jwt.Claims, error) {
	blacklisted, err := m.blacklist.IsInBlacklist(ctx, token)
	if err != nil {
		logger.FromContext(ctx).Error("检查Token黑名单失败", zap.Error(err))
		return nil, apperrors.ErrInvalidToken
	}
	if blacklisted {
		return nil, apperrors.ErrTokenExpired
	}
	return m.jwtManager.ParseToken(token)
}

// 格式: Authorization: Bearer <token>
func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func setIdentity(c *gin.Context, claims *jwt.Claims, token string) {
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxEmail, claims.Email)
	c.Set(ctxNickname, claims.Nickname)
	c.Set(ctxToken, token)

	log := logger.FromContext(c.Request.Context()).With(zap.Uint("user_id", claims.UserID))
	c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), log))
}

// GetUserID 当前登录用户ID,未登录返回0
func GetUserID(c *gin.Context) uint {
	return c.GetUint(ctxUserID)
}

// GetAccessToken 当前请求的Access Token
func GetAccessToken(c *gin.Context) string {
	return c.GetString(ctxToken)
}

// MustGetUserID 用于已经通过RequireAuth的Handler
func MustGetUserID(c *gin.Context) uint {
	userID := GetUserID(c)
	if userID == 0 {
		panic("user_id not found in context")
	}
	return userID
}
