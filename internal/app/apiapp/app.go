package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kpramod0/SkillLinkr-sub000/internal/config"
	pgrepo "github.com/kpramod0/SkillLinkr-sub000/internal/repo/postgres"
	redrepo "github.com/kpramod0/SkillLinkr-sub000/internal/repo/redis"
	applicationsvc "github.com/kpramod0/SkillLinkr-sub000/internal/services/applications"
	authsvc "github.com/kpramod0/SkillLinkr-sub000/internal/services/auth"
	interactionsvc "github.com/kpramod0/SkillLinkr-sub000/internal/services/interactions"
	notifysvc "github.com/kpramod0/SkillLinkr-sub000/internal/services/notify"
	ratesvc "github.com/kpramod0/SkillLinkr-sub000/internal/services/rate"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	rateRepo := redrepo.NewRateRepo(redisClient)
	swipeRepo := pgrepo.NewSwipeRepo(pool)
	matchRepo := pgrepo.NewMatchRepo(pool)
	starRepo := pgrepo.NewStarRepo(pool)
	teamRepo := pgrepo.NewTeamRepo(pool)
	applicationRepo := pgrepo.NewApplicationRepo(pool)
	membershipRepo := pgrepo.NewMembershipRepo(pool)
	notificationRepo := pgrepo.NewNotificationRepo(pool)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	authService := authsvc.NewService(jwtManager, cfg.Auth.LegacyActorParam)
	dispatcher := notifysvc.NewDispatcher(notificationRepo, log)
	rateLimiter := ratesvc.NewLimiter(
		rateRepo,
		cfg.Limits.LikesPerMinute,
		cfg.Limits.LikesPer10Seconds,
	)
	interactionService := interactionsvc.NewService(interactionsvc.Dependencies{
		SwipeStore:  swipeRepo,
		MatchStore:  matchRepo,
		StarStore:   starRepo,
		Notifier:    dispatcher,
		RateLimiter: rateLimiter,
	})
	applicationService := applicationsvc.NewService(applicationsvc.Dependencies{
		TeamStore:        teamRepo,
		ApplicationStore: applicationRepo,
		MembershipStore:  membershipRepo,
		MatchStore:       matchRepo,
		Notifier:         dispatcher,
		Logger:           log,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		AuthService:        authService,
		InteractionService: interactionService,
		ApplicationService: applicationService,
		Dispatcher:         dispatcher,
		Logger:             log,
		Config:             cfg,
	})

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
