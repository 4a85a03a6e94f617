package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/malprimis/petanchiki/internal/config"
	"github.com/malprimis/petanchiki/internal/db"
	authdomain "github.com/malprimis/petanchiki/internal/domain/auth"
	categorydomain "github.com/malprimis/petanchiki/internal/domain/category"
	groupdomain "github.com/malprimis/petanchiki/internal/domain/group"
	reportdomain "github.com/malprimis/petanchiki/internal/domain/report"
	transactiondomain "github.com/malprimis/petanchiki/internal/domain/transaction"
	userdomain "github.com/malprimis/petanchiki/internal/domain/user"
	"github.com/malprimis/petanchiki/internal/events"
	"github.com/malprimis/petanchiki/internal/repository/inmemory"
	categoryrepo "github.com/malprimis/petanchiki/internal/repository/postgres/category"
	grouprepo "github.com/malprimis/petanchiki/internal/repository/postgres/group"
	reportrepo "github.com/malprimis/petanchiki/internal/repository/postgres/report"
	transactionrepo "github.com/malprimis/petanchiki/internal/repository/postgres/transaction"
	userrepo "github.com/malprimis/petanchiki/internal/repository/postgres/user"
	"github.com/malprimis/petanchiki/internal/transport/httpserver"
	"github.com/malprimis/petanchiki/internal/transport/httpserver/handler"
	"github.com/malprimis/petanchiki/internal/transport/httpserver/middleware"
	"github.com/malprimis/petanchiki/pkg/logger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	redis      *redis.Client
	amqp       *events.AMQPPublisher
	log        logger.Logger
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	log.Info("app: applying migrations")
	if err := db.Migrate(dbConn, log); err != nil {
		closeDB(dbConn)
		return nil, fmt.Errorf("migrate: %w", err)
	}

	application := &App{cfg: cfg, db: dbConn, log: log}

	var publisher events.Publisher = events.Noop{}
	if cfg.RabbitMQ.URL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, log)
		if err != nil {
			log.Warn("app: rabbitmq unavailable, audit events disabled", "err", err)
		} else {
			application.amqp = amqpPublisher
			publisher = amqpPublisher
		}
	}

	var limiter middleware.Limiter
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn("app: redis unavailable, rate limiting disabled", "addr", cfg.Redis.Addr, "err", err)
			_ = client.Close()
		} else {
			application.redis = client
			limiter = middleware.NewRedisLimiter(client, cfg.RateLimit)
		}
	}

	log.Info("app: initializing services")
	hasher := authdomain.NewBcryptHasher(cfg.Auth.BcryptCost)
	users := userdomain.NewService(userrepo.NewPostgres(dbConn), hasher, publisher)
	groups := groupdomain.NewService(grouprepo.NewPostgres(dbConn), publisher, groupdomain.Options{
		ProtectLastAdmin: cfg.Group.ProtectLastAdmin,
	})
	tokens := authdomain.NewTokens(authdomain.TokenConfig{
		Secret:        cfg.Auth.JWTSecret,
		TTL:           cfg.Auth.AccessTTL,
		RefreshWindow: cfg.Auth.RefreshWindow,
	})

	handlers := handler.New(handler.Services{
		Auth:         authdomain.NewService(users, hasher, tokens),
		Users:        users,
		Groups:       groups,
		Categories:   categorydomain.NewService(categoryrepo.NewPostgres(dbConn), groups, inmemory.NewCategoryCache(), cfg.Cache.CategoriesTTL),
		Transactions: transactiondomain.NewService(transactionrepo.NewPostgres(dbConn), groups),
		Reports:      reportdomain.NewService(reportrepo.NewPostgres(dbConn), groups),
	}, log)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, limiter, log)

	log.Info("app: initializing http server")
	application.httpServer = httpserver.New(cfg, router)

	return application, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	var errs []error
	if a.amqp != nil {
		if err := a.amqp.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close rabbitmq: %w", err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if a.db != nil {
		sqlDB, err := a.db.DB()
		if err != nil {
			errs = append(errs, err)
		} else if err := sqlDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close db: %w", err))
		}
	}
	return errors.Join(errs...)
}

func closeDB(dbConn *gorm.DB) {
	if sqlDB, err := dbConn.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
