package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/lumenpress/lumen/internal/app"
	"github.com/lumenpress/lumen/internal/auth"
	"github.com/lumenpress/lumen/internal/authz"
	"github.com/lumenpress/lumen/internal/groups"
	"github.com/lumenpress/lumen/internal/media"
	"github.com/lumenpress/lumen/internal/observability"
	"github.com/lumenpress/lumen/internal/platform/cache"
	"github.com/lumenpress/lumen/internal/platform/db"
	"github.com/lumenpress/lumen/internal/plugins"
	"github.com/lumenpress/lumen/internal/posts"
	"github.com/lumenpress/lumen/internal/shared"
	"github.com/lumenpress/lumen/internal/themes"
	"github.com/lumenpress/lumen/internal/users"
	"github.com/lumenpress/lumen/jobs"
)

// publishEvents bridges the posts workflow to the job queue.
type publishEvents struct {
	client *jobs.Client
	logger *slog.Logger
}

func (e publishEvents) PostPublished(ctx context.Context, post posts.Post) {
	if e.client == nil {
		return
	}
	_, err := e.client.EnqueuePublishNotify(ctx, jobs.PublishNotifyPayload{
		PostID:   post.ID,
		Title:    post.Title,
		AuthorID: post.AuthorID,
	})
	if err != nil && e.logger != nil {
		e.logger.Warn("enqueue publish notify", slog.Any("error", err))
	}
}

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if err := authz.ValidateMatrix(); err != nil {
		logger.Error("permission matrix invalid", slog.Any("error", err))
		os.Exit(1)
	}

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "lumen_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	metrics := observability.NewMetrics()
	gate := authz.Middleware{Logger: logger, Metrics: metrics}

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	postsService := posts.NewService(posts.NewRepository(dbpool))
	postsService.SetEvents(publishEvents{client: jobClient, logger: logger})
	postsHandler := posts.NewHandler(logger, postsService)

	mediaHandler := media.NewHandler(logger, media.NewService(media.NewRepository(dbpool)))
	themesHandler := themes.NewHandler(logger, themes.NewService(themes.NewRepository(dbpool)))
	pluginsHandler := plugins.NewHandler(logger, plugins.NewService(plugins.NewRepository(dbpool)))
	usersHandler := users.NewHandler(logger, users.NewService(users.NewRepository(dbpool)))
	groupsHandler := groups.NewHandler(logger, groups.NewService(groups.NewRepository(dbpool)))

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		Actors:         authService,
		AuthHandler:    authHandler,
		PostsHandler:   postsHandler,
		MediaHandler:   mediaHandler,
		ThemesHandler:  themesHandler,
		PluginsHandler: pluginsHandler,
		UsersHandler:   usersHandler,
		GroupsHandler:  groupsHandler,
		JobsHandler:    jobsHandler,
		Gate:           gate,
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("server exit", slog.Any("error", err))
		os.Exit(1)
	}
}
