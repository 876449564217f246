package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	app "github.com/oksasatya/go-ddd-social/internal/application"
	"github.com/oksasatya/go-ddd-social/internal/container"
	repo "github.com/oksasatya/go-ddd-social/internal/domain/repository"
	"github.com/oksasatya/go-ddd-social/internal/infrastructure/gcs"
	"github.com/oksasatya/go-ddd-social/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-ddd-social/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-social/internal/infrastructure/rabbitmq"
	redisinfra "github.com/oksasatya/go-ddd-social/internal/infrastructure/redis"
	"github.com/oksasatya/go-ddd-social/internal/infrastructure/search"
	handlers "github.com/oksasatya/go-ddd-social/internal/interface/http"
	"github.com/oksasatya/go-ddd-social/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-social/internal/router/modules"
)

// Backends bundles the storage and side-channel adapters the services run on.
// Index and Notifier may be nil.
type Backends struct {
	Users     repo.UserRepository
	Relations repo.RelationshipRepository
	Groups    repo.GroupRepository
	Posts     repo.PostRepository
	Comments  repo.CommentRepository
	Sessions  repo.SessionRepository
	Assets    app.AssetStore
	Index     app.SearchIndex
	Notifier  app.Notifier
}

// MemoryBackends keeps everything in process. Sessions and assets follow
// the same store so a single binary runs without external services.
func MemoryBackends() Backends {
	store := memory.New()
	return Backends{
		Users:     store.Users(),
		Relations: store.Relations(),
		Groups:    store.Groups(),
		Posts:     store.Posts(),
		Comments:  store.Comments(),
		Sessions:  store.Sessions(),
		Assets:    memory.NewAssetStore(),
	}
}

// backendsFromContainer picks adapters from whatever clients main managed to set up
func backendsFromContainer() Backends {
	cfg := container.GetConfig()

	var b Backends
	if cfg.StoreDriver == "memory" || container.GetPGPool() == nil {
		b = MemoryBackends()
	} else {
		pool := container.GetPGPool()
		b = Backends{
			Users:     pginfra.NewUserRepository(pool),
			Relations: pginfra.NewRelationshipRepository(pool),
			Groups:    pginfra.NewGroupRepository(pool),
			Posts:     pginfra.NewPostRepository(pool),
			Comments:  pginfra.NewCommentRepository(pool),
			Sessions:  memory.New().Sessions(),
			Assets:    memory.NewAssetStore(),
		}
	}
	if rdb := container.GetRedis(); rdb != nil {
		b.Sessions = redisinfra.NewSessionStore(rdb)
	}
	if gc := container.GetGCS(); gc != nil && cfg.GCSBucket != "" {
		b.Assets = gcs.NewAssetStore(gc, cfg.GCSBucket)
	}
	if es := container.GetES(); es != nil {
		b.Index = search.NewIndex(es, cfg.ESUsersIndex, cfg.ESGroupsIndex)
	}
	if pub := container.GetRabbitPub(); pub != nil && cfg.MailSendEnabled {
		b.Notifier = rabbitmq.NewNotifier(pub)
	}
	return b
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	InitModulesWith(r, backendsFromContainer())
}

// InitModulesWith builds services and handlers on top of b
func InitModulesWith(r *Registry, b Backends) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	jwt := container.GetJWT()
	notify := app.NotifyOptions{Notifier: b.Notifier, AppName: cfg.AppName, AppURL: cfg.AppURL}

	users := app.NewUserService(b.Users, b.Sessions, jwt, b.Assets, b.Index, logger, cfg.SessionTTL)
	friends := app.NewFriendService(b.Users, b.Relations, logger, notify)
	groups := app.NewGroupService(b.Groups, b.Users, b.Assets, b.Index, logger, notify)
	posts := app.NewPostService(b.Posts, b.Groups, b.Relations, b.Assets, logger)
	comments := app.NewCommentService(b.Comments, b.Posts, b.Groups, logger)
	assets := app.NewAssetService(b.Assets)

	auth := middleware.Auth(b.Sessions, jwt)
	postHandler := handlers.NewPostHandler(posts, logger, cfg.MaxImageBytes)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(users, logger, cfg.CookieDomain, cfg.CookieSecure), auth))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(users, logger, cfg.CookieDomain, cfg.CookieSecure, cfg.MaxImageBytes), auth))
	r.Add(modules.NewFriendModule(handlers.NewFriendHandler(friends, logger), auth))
	r.Add(modules.NewGroupModule(handlers.NewGroupHandler(groups, logger, cfg.MaxImageBytes), postHandler, auth))
	r.Add(modules.NewPostModule(postHandler, handlers.NewCommentHandler(comments, logger), auth))
	r.Add(modules.NewAssetModule(handlers.NewAssetHandler(assets, logger), auth))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
	r.Engine.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
}
