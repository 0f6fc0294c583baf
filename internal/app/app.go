// Package app wires configuration, storage, services and HTTP engines for
// both entry points.
package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"careerflow-api/internal/core/auth"
	"careerflow-api/internal/core/cache"
	"careerflow-api/internal/core/config"
	"careerflow-api/internal/core/database"
	"careerflow-api/internal/core/logger"
	"careerflow-api/internal/core/metrics"
	"careerflow-api/internal/core/server"
	"careerflow-api/internal/repo"
	"careerflow-api/internal/security"
	"careerflow-api/internal/service"
	"careerflow-api/internal/storage"
	"careerflow-api/internal/transport/http/handler"
	"careerflow-api/internal/transport/http/router"
	"careerflow-api/pkg/utils"
)

type App struct {
	Config  *config.Config
	Log     *zap.Logger
	DB      *gorm.DB
	Cache   *cache.Cache
	Metrics *prometheus.Registry

	Gate         *service.Gate
	Accounts     *service.AccountService
	Jobs         *service.JobService
	Applications *service.ApplicationService
	Admin        *service.AdminService
}

// NewLogger 按配置构建 zap，可选 lumberjack 文件切割
func NewLogger(cfg *config.Config) (*zap.Logger, func()) {
	return logger.Build(logger.Options{
		Level:       cfg.Log.Level,
		JSON:        cfg.Log.JSON,
		AddCaller:   true,
		Development: !cfg.Log.JSON,
		Rotate: logger.FileRotate{
			Enable:     cfg.Log.File.Enable,
			Filename:   cfg.Log.File.Filename,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
}

// OpenDB connects and, when db.auto_migrate is set, migrates the schema.
func OpenDB(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		return nil, err
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver), zap.String("dsn", database.MaskDSN(cfg.DB.DSN)))
	if cfg.DB.AutoMigrate {
		if err := repo.AutoMigrate(db); err != nil {
			return nil, err
		}
		l.Info("automigrate done")
	}
	return db, nil
}

// openCache returns nil when redis is not configured or unreachable; job
// reads then go straight to the database.
func openCache(ctx context.Context, cfg *config.Config, l *zap.Logger) *cache.Cache {
	if cfg.Redis.Addr == "" {
		return nil
	}
	c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.KeyPrefix)
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		l.Warn("redis unavailable, job cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		_ = c.Close()
		return nil
	}
	l.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	return c
}

func New(ctx context.Context, cfg *config.Config, l *zap.Logger, db *gorm.DB) *App {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rec := metrics.NewCollector(reg)

	accounts := repo.NewAccountRepo(db)
	jobs := repo.NewJobRepo(db)
	apps := repo.NewApplicationRepo(db)

	tokens := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}
	markup := security.NewPolicy()
	files := storage.NewLocal(cfg.Upload.Dir, cfg.App.PublicBaseURL, cfg.Upload.MaxBytes)
	jc := openCache(ctx, cfg, l)
	ttl := time.Duration(cfg.Redis.JobTTLSec) * time.Second

	return &App{
		Config:  cfg,
		Log:     l,
		DB:      db,
		Cache:   jc,
		Metrics: reg,

		Gate:         service.NewGate(tokens, accounts),
		Accounts:     service.NewAccountService(accounts, utils.NewPasswordHasher(cfg.Auth.BcryptCost), tokens, files, markup, rec, l),
		Jobs:         service.NewJobService(jobs, apps, accounts, jc, ttl, markup, rec, l),
		Applications: service.NewApplicationService(apps, jobs, accounts, jc, markup, rec, l),
		Admin:        service.NewAdminService(accounts, jobs, apps),
	}
}

func (a *App) deps() router.Deps {
	limits := router.DefaultLimits()
	// multipart 头部余量
	if need := a.Config.Upload.MaxBytes + 1<<20; need > limits.MaxBodyBytes {
		limits.MaxBodyBytes = need
	}
	return router.Deps{
		Log: a.Log,
		Server: server.Options{
			Name:        a.Config.App.Name,
			Mode:        server.ModeFor(a.Config.App.Env),
			CORSOrigins: a.Config.App.CORSOrigins,
		},
		Limits:     limits,
		Resolver:   a.Gate,
		Registerer: a.Metrics,
		Gatherer:   a.Metrics,
	}
}

func (a *App) APIEngine() *gin.Engine {
	d := a.deps()
	d.UploadDir = a.Config.Upload.Dir
	d.Modules = (&router.Registry{}).Register(
		handler.NewAuthHandler(a.Accounts),
		handler.NewUserHandler(a.Accounts),
		handler.NewJobHandler(a.Jobs),
		handler.NewApplicationHandler(a.Applications),
	)
	return router.NewAPIEngine(d)
}

func (a *App) AdminEngine() *gin.Engine {
	d := a.deps()
	d.Modules = (&router.Registry{}).Register(handler.NewAdminHandler(a.Admin))
	return router.NewAdminEngine(d)
}

// Close releases the cache client and the database pool.
func (a *App) Close() {
	if a.Cache != nil {
		_ = a.Cache.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
