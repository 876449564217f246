package main

import (
	"context"
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-social/config"
	app "github.com/oksasatya/go-ddd-social/internal/application"
	"github.com/oksasatya/go-ddd-social/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-social/internal/domain/repository"
	"github.com/oksasatya/go-ddd-social/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-ddd-social/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-social/pkg/helpers"
)

const seedPassword = "password123"

var seedUsers = []app.SignupInput{
	{Email: "alice@example.com", Name: "Alice", Age: 29},
	{Email: "bob@example.com", Name: "Bob", Age: 34},
	{Email: "carol@example.com", Name: "Carol", Age: 41},
	{Email: "dave@example.com", Name: "Dave", Age: 23},
}

type seeder struct {
	users   *app.UserService
	friends *app.FriendService
	groups  *app.GroupService
	posts   *app.PostService
	logger  *logrus.Logger
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	ctx := context.Background()

	var (
		userRepo  repo.UserRepository
		relations repo.RelationshipRepository
		groupRepo repo.GroupRepository
		postRepo  repo.PostRepository
	)
	if cfg.StoreDriver == "memory" {
		// useful only as a dry run of the seed flow
		store := memory.New()
		userRepo, relations, groupRepo, postRepo = store.Users(), store.Relations(), store.Groups(), store.Posts()
	} else {
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to postgres")
		}
		defer pool.Close()
		userRepo = pginfra.NewUserRepository(pool)
		relations = pginfra.NewRelationshipRepository(pool)
		groupRepo = pginfra.NewGroupRepository(pool)
		postRepo = pginfra.NewPostRepository(pool)
	}

	jwt := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)
	s := seeder{
		users:   app.NewUserService(userRepo, memory.New().Sessions(), jwt, nil, nil, logger, time.Hour),
		friends: app.NewFriendService(userRepo, relations, logger, app.NotifyOptions{}),
		groups:  app.NewGroupService(groupRepo, userRepo, nil, nil, logger, app.NotifyOptions{}),
		posts:   app.NewPostService(postRepo, groupRepo, relations, nil, logger),
		logger:  logger,
	}
	if err := s.run(ctx, userRepo); err != nil {
		logger.WithError(err).Fatal("seed failed")
	}
	logger.WithField("password", seedPassword).Info("seed complete")
}

// run is safe to repeat: existing users are reused and duplicate
// relationships are skipped.
func (s seeder) run(ctx context.Context, users repo.UserRepository) error {
	seeded := make([]*entity.User, 0, len(seedUsers))
	for _, in := range seedUsers {
		in.Password = seedPassword
		u, err := s.users.Signup(ctx, in)
		if errors.Is(err, app.ErrEmailTaken) {
			u, err = users.GetByEmail(ctx, in.Email)
		}
		if err != nil {
			return err
		}
		s.logger.WithFields(logrus.Fields{"id": u.ID, "email": u.Email}).Info("seeded user")
		seeded = append(seeded, u)
	}
	alice, bob, carol, dave := seeded[0], seeded[1], seeded[2], seeded[3]

	// alice-bob and bob-carol are friends; dave has a pending request to alice
	for _, pair := range [][2]*entity.User{{alice, bob}, {bob, carol}} {
		if err := s.befriend(ctx, pair[0], pair[1]); err != nil {
			return err
		}
	}
	if err := s.friends.SendFriendRequest(ctx, dave.ID, alice.ID); err != nil && !errors.Is(err, app.ErrAlreadyRelated) {
		return err
	}

	existing, err := s.groups.ListGroupsForUser(ctx, alice.ID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		s.logger.Info("groups already seeded")
		return nil
	}
	g, err := s.groups.CreateGroup(ctx, alice.ID, app.CreateGroupInput{Name: "Book Club", Description: "Monthly reads"})
	if err != nil {
		return err
	}
	if _, err := s.groups.JoinGroup(ctx, g.ID, carol.ID); err != nil {
		return err
	}
	if _, err := s.posts.CreatePost(ctx, bob.ID, app.CreatePostInput{Content: "Hello from Bob"}); err != nil {
		return err
	}
	if _, err := s.posts.CreateGroupPost(ctx, g.ID, carol.ID, app.CreatePostInput{Content: "First pick: Dune"}); err != nil {
		return err
	}
	s.logger.WithField("group_id", g.ID).Info("seeded group")
	return nil
}

func (s seeder) befriend(ctx context.Context, a, b *entity.User) error {
	err := s.friends.SendFriendRequest(ctx, a.ID, b.ID)
	if errors.Is(err, app.ErrAlreadyRelated) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.friends.AcceptFriendRequest(ctx, b.ID, a.ID)
}
