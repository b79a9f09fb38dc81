package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"werkzeugverwaltung/cache"
	"werkzeugverwaltung/db"
	"werkzeugverwaltung/livingapps"
	"werkzeugverwaltung/logger"
	"werkzeugverwaltung/memstore"
	"werkzeugverwaltung/models"
	"werkzeugverwaltung/refs"
	"werkzeugverwaltung/services"
	"werkzeugverwaltung/store"
)

type Ctx = gin.Context
type H = gin.H

// App aggregates the dependencies shared by the handlers.
type App struct {
	Router *gin.Engine
	Log    *zap.Logger
	Config Config
	Refs   refs.Resolver

	// Store invalidates the snapshot cache on every successful write.
	Store  *store.Store
	Memory *memstore.Memory // memory backend only
	DB     *gorm.DB         // nil without DB_HOST
	Repo   *db.Repo         // nil without DB_HOST
	RDB    *redis.Client    // nil without REDIS_ADDR

	Audit     *services.Auditor
	Checkouts *services.CheckoutService
	Dashboard *services.DashboardService
}

func MustNew() *App {
	cfg := LoadConfig()
	log := logger.Must(logger.Config{Development: cfg.Development(), Level: cfg.LogLevel})
	a, err := New(cfg, log)
	if err != nil {
		log.Fatal("startup failed", zap.Error(err))
	}
	return a
}

func New(cfg Config, log *zap.Logger) (*App, error) {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("APP_TZ: %w", err)
	}
	models.SetZone(loc)

	a := &App{
		Log:    log,
		Config: cfg,
		Refs:   refs.NewResolver(cfg.LivingApps.BaseURL, cfg.LivingApps.Apps),
	}

	// --- DB: Postgres (backend and/or audit log) ---
	if cfg.DB.Host != "" {
		if a.DB, err = db.Connect(cfg.DB, log); err != nil {
			return nil, err
		}
		a.Repo = db.NewRepo(a.DB, a.Refs)
	}

	// --- record store ---
	var backend *store.Store
	switch cfg.Backend {
	case BackendLivingApps:
		if cfg.LivingApps.APIKey == "" {
			log.Warn("LA_API_KEY is empty; requests to the record store will likely be rejected")
		}
		backend = livingapps.New(cfg.LivingApps, log.Named("livingapps")).Store()
	case BackendPostgres:
		if a.Repo == nil {
			return nil, fmt.Errorf("STORE_BACKEND=postgres needs DB_HOST")
		}
		backend = a.Repo.Store()
	case BackendMemory:
		a.Memory = memstore.New(a.Refs)
		backend = a.Memory.Store()
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.Backend)
	}

	// --- Redis snapshot cache ---
	var snapCache services.SnapshotCache
	if cfg.RedisAddr != "" {
		a.RDB = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := a.RDB.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		snapCache = cache.NewSnapshotCache(a.RDB, cfg.SnapshotTTL, cfg.Backend)
	}

	a.Dashboard = services.NewDashboardService(backend, snapCache, a.Refs, log.Named("dashboard"), cfg.InspectionHorizonDays, cfg.ActivityLimit)
	a.Store = store.Invalidating(backend, a.Dashboard.Invalidate)

	var sink services.AuditLog
	if a.Repo != nil {
		sink = a.Repo
	}
	a.Audit = services.NewAuditor(sink, log.Named("audit"))
	a.Checkouts = services.NewCheckoutService(a.Store, a.Refs, a.Audit, log.Named("checkouts"), cfg.StrictCheckouts)

	// --- Gin ---
	if !cfg.Development() && gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(log.Named("http")))
	useCORS(r, cfg.WebOrigin)
	a.Router = r

	if len(cfg.APIKeys) == 0 && len(cfg.AdminAPIKeys) == 0 {
		log.Warn("API_KEYS and ADMIN_API_KEYS are empty; the API is open")
	}
	log.Info("app ready",
		zap.String("backend", cfg.Backend),
		zap.Bool("cache", snapCache != nil),
		zap.Bool("audit_db", a.Repo != nil),
		zap.Bool("strict_checkouts", cfg.StrictCheckouts),
	)
	return a, nil
}

func (a *App) Close() {
	if a.RDB != nil {
		_ = a.RDB.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = a.Log.Sync()
}
