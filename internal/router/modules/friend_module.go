package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-social/internal/container"
	handlers "github.com/oksasatya/go-ddd-social/internal/interface/http"
	"github.com/oksasatya/go-ddd-social/internal/interface/middleware"
)

type FriendModule struct {
	Handler *handlers.FriendHandler
	Auth    gin.HandlerFunc
}

func NewFriendModule(h *handlers.FriendHandler, auth gin.HandlerFunc) *FriendModule {
	return &FriendModule{Handler: h, Auth: auth}
}

func (m *FriendModule) Register(rg *gin.RouterGroup) {
	friends := rg.Group("/friends")
	friends.Use(m.Auth)
	friends.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		friends.GET("", m.Handler.ListFriends)
		friends.GET("/suggestions", m.Handler.Suggestions)
		friends.GET("/requests", m.Handler.ListRequests)
		// sending requests is the spammable path, so it gets its own budget
		friends.POST("/requests/:id",
			middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUserID(), nil),
			m.Handler.SendRequest,
		)
		friends.POST("/requests/:id/accept", m.Handler.Accept)
		friends.POST("/requests/:id/reject", m.Handler.Reject)
		friends.DELETE("/:id", m.Handler.Remove)
	}
}
