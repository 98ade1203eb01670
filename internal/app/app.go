package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/templui/inkpost/internal/authsync"
	"github.com/templui/inkpost/internal/backend"
	"github.com/templui/inkpost/internal/config"
	"github.com/templui/inkpost/internal/db"
	"github.com/templui/inkpost/internal/repository"
	"github.com/templui/inkpost/internal/routes"
	"github.com/templui/inkpost/internal/service"
	"github.com/templui/inkpost/internal/session"
	"github.com/templui/inkpost/internal/storage"
)

type App struct {
	Cfg *config.Config
	DB  *sqlx.DB

	Store     *session.Store
	Auth      *backend.Auth
	Bridge    *authsync.Bridge
	Navigator *routes.Navigator

	PostService       *service.PostService
	CommentService    *service.CommentService
	AttachmentService *service.AttachmentService

	feed  backend.Feed
	redis *redis.Client
}

// New wires the backend adapters and starts syncing the session.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	a := &App{
		Cfg:   cfg,
		DB:    database,
		Store: session.NewStore(),
	}

	// Session persistence and auth events
	keeper, err := a.sessionBackend(ctx)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize session: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	postRepository := repository.NewPostRepository(database)
	commentRepository := repository.NewCommentRepository(database)

	// Storage connects on first upload so read-only commands work without it
	fileStorage := &lazyStorage{init: func() (storage.Storage, error) {
		return storage.New(ctx, cfg)
	}}

	// Services
	a.Auth = backend.NewAuth(userRepository, keeper, a.feed, cfg.JWTSecret, cfg.JWTExpiry)
	a.PostService = service.NewPostService(postRepository)
	a.CommentService = service.NewCommentService(commentRepository)
	a.AttachmentService = service.NewAttachmentService(fileStorage, cfg.AttachmentMaxSize)

	// The navigator subscribes before the bridge applies the first session
	a.Navigator = routes.NewNavigator(a.Store, routes.Home)
	a.Bridge = authsync.NewBridge(a.Auth, a.Store)
	a.Bridge.Start(ctx)

	return a, nil
}

func (a *App) sessionBackend(ctx context.Context) (backend.Keeper, error) {
	switch a.Cfg.Session.Driver {
	case "file":
		a.feed = backend.NewMemoryFeed()
		return backend.NewFileKeeper(a.Cfg.Session.File), nil
	case "redis":
		opts, err := redis.ParseURL(a.Cfg.Session.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		a.redis = redis.NewClient(opts)
		if err := a.redis.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}

		feed, err := backend.NewRedisFeed(ctx, a.redis, a.Cfg.Session.Key)
		if err != nil {
			return nil, err
		}
		a.feed = feed
		return backend.NewRedisKeeper(a.redis, a.Cfg.Session.Key, a.Cfg.JWTExpiry), nil
	default:
		return nil, fmt.Errorf("unknown session driver %q", a.Cfg.Session.Driver)
	}
}

// Close stops the session sync and releases connections.
func (a *App) Close() error {
	var errs []error

	if a.Bridge != nil {
		a.Bridge.Stop()
	}
	if a.Navigator != nil {
		a.Navigator.Close()
	}
	if a.feed != nil {
		errs = append(errs, a.feed.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}

	return errors.Join(errs...)
}

// lazyStorage defers connecting to the object store until it is used.
type lazyStorage struct {
	init func() (storage.Storage, error)

	once    sync.Once
	storage storage.Storage
	err     error
}

func (s *lazyStorage) get() (storage.Storage, error) {
	s.once.Do(func() {
		s.storage, s.err = s.init()
	})
	return s.storage, s.err
}

func (s *lazyStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	st, err := s.get()
	if err != nil {
		return err
	}
	return st.Upload(ctx, key, body, size, contentType)
}

func (s *lazyStorage) PublicURL(ctx context.Context, key string) (string, error) {
	st, err := s.get()
	if err != nil {
		return "", err
	}
	return st.PublicURL(ctx, key)
}
