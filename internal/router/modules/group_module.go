package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-social/internal/container"
	handlers "github.com/oksasatya/go-ddd-social/internal/interface/http"
	"github.com/oksasatya/go-ddd-social/internal/interface/middleware"
)

// GroupModule also serves group posts, which live on the post handler
type GroupModule struct {
	Handler *handlers.GroupHandler
	Posts   *handlers.PostHandler
	Auth    gin.HandlerFunc
}

func NewGroupModule(h *handlers.GroupHandler, posts *handlers.PostHandler, auth gin.HandlerFunc) *GroupModule {
	return &GroupModule{Handler: h, Posts: posts, Auth: auth}
}

func (m *GroupModule) Register(rg *gin.RouterGroup) {
	groups := rg.Group("/groups")
	groups.Use(m.Auth)
	groups.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		groups.POST("", m.Handler.Create)
		groups.GET("", m.Handler.List)
		groups.GET("/search", m.Handler.Search)
		groups.GET("/:groupId", m.Handler.Get)
		groups.PUT("/:groupId", m.Handler.Update)
		groups.GET("/:groupId/members", m.Handler.Members)
		groups.POST("/:groupId/members/:userId", m.Handler.AddMember)
		groups.POST("/:groupId/join", m.Handler.Join)
		groups.POST("/:groupId/leave", m.Handler.Leave)
		groups.GET("/:groupId/posts", m.Posts.ListInGroup)
		groups.POST("/:groupId/posts", m.Posts.CreateInGroup)
	}
}
