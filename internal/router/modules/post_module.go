package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-social/internal/container"
	handlers "github.com/oksasatya/go-ddd-social/internal/interface/http"
	"github.com/oksasatya/go-ddd-social/internal/interface/middleware"
)

// PostModule wires posts, reactions and comments
type PostModule struct {
	Handler  *handlers.PostHandler
	Comments *handlers.CommentHandler
	Auth     gin.HandlerFunc
}

func NewPostModule(h *handlers.PostHandler, comments *handlers.CommentHandler, auth gin.HandlerFunc) *PostModule {
	return &PostModule{Handler: h, Comments: comments, Auth: auth}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(m.Auth)
	auth.Use(middleware.RateLimit(container.GetRedis(), 240, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/posts/feed", m.Handler.Feed)
		auth.POST("/posts", m.Handler.Create)
		auth.GET("/posts/:postId", m.Handler.Get)
		auth.DELETE("/posts/:postId", m.Handler.Delete)
		auth.POST("/posts/:postId/like", m.Handler.Like)
		auth.DELETE("/posts/:postId/like", m.Handler.Unlike)
		auth.POST("/posts/:postId/dislike", m.Handler.Dislike)
		auth.DELETE("/posts/:postId/dislike", m.Handler.Undislike)

		auth.GET("/posts/:postId/comments", m.Comments.List)
		auth.POST("/posts/:postId/comments", m.Comments.Create)
		auth.PUT("/comments/:commentId", m.Comments.Update)
		auth.DELETE("/comments/:commentId", m.Comments.Delete)
	}
}
