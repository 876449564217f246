package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-social/internal/container"
	handlers "github.com/oksasatya/go-ddd-social/internal/interface/http"
	"github.com/oksasatya/go-ddd-social/internal/interface/middleware"
)

type AssetModule struct {
	Handler *handlers.AssetHandler
	Auth    gin.HandlerFunc
}

func NewAssetModule(h *handlers.AssetHandler, auth gin.HandlerFunc) *AssetModule {
	return &AssetModule{Handler: h, Auth: auth}
}

func (m *AssetModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 600, time.Minute, middleware.KeyByIP(), nil)
	rg.GET("/assets/*ref", m.Auth, rl, m.Handler.Get)
}
