package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-social/internal/container"
	handlers "github.com/oksasatya/go-ddd-social/internal/interface/http"
	"github.com/oksasatya/go-ddd-social/internal/interface/middleware"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	Auth    gin.HandlerFunc
}

func NewAuthModule(h *handlers.AuthHandler, auth gin.HandlerFunc) *AuthModule {
	return &AuthModule{Handler: h, Auth: auth}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public with IP-based rate limits
	signupLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIP(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/signup", signupLimiter, m.Handler.Signup)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	auth := rg.Group("/")
	auth.Use(m.Auth)
	{
		auth.POST("/logout", m.Handler.Logout)
	}
}
