package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/qualis/internal/engine"
	"github.com/wonny/qualis/internal/provider"
	"github.com/wonny/qualis/internal/scoringconfig"
	"github.com/wonny/qualis/internal/service"
	"github.com/wonny/qualis/internal/store"
	"github.com/wonny/qualis/pkg/config"
	"github.com/wonny/qualis/pkg/database"
	"github.com/wonny/qualis/pkg/httputil"
	"github.com/wonny/qualis/pkg/logger"
	"github.com/wonny/qualis/pkg/redis"
)

// runtime holds the shared collaborators a command needs.
// ⭐ SSOT: 커맨드 의존성 조립은 여기서만
type runtime struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *database.DB
	rdb      *redis.Client
	reports  *store.ReportRepository
	analysis *service.Analysis
}

// newRuntime loads configuration and wires the analysis stack. The
// database is optional unless requireDB is set; Redis is optional always.
func newRuntime(requireDB bool) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	scoring, err := loadScoringConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("load scoring calibration: %w", err)
	}

	rt := &runtime{cfg: cfg, log: log}

	var financials *store.FinancialsRepository
	if cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			if requireDB {
				return nil, fmt.Errorf("connect to database: %w", err)
			}
			log.WithError(err).Warn("Database unavailable, running without persistence")
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := store.EnsureSchema(ctx, db.Pool); err != nil {
				db.Close()
				return nil, err
			}
			rt.db = db
			financials = store.NewFinancialsRepository(db.Pool)
			rt.reports = store.NewReportRepository(db.Pool)
		}
	} else if requireDB {
		return nil, fmt.Errorf("DATABASE_URL is required for this command")
	}

	rdb, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, running without cache")
	} else {
		rt.rdb = rdb
	}
	var cache *redis.Cache
	if rt.rdb != nil {
		cache = redis.NewCache(rt.rdb, "qualis")
	}

	httpClient := httputil.NewWithTimeout(cfg, log, cfg.Provider.Timeout)
	if rt.rdb != nil && rt.rdb.Enabled() {
		// Distributed limit on top of the client-side limiter, so several
		// processes sharing one Redis cannot overrun the provider together.
		limiter := redis.NewRateLimiter(rt.rdb, "qualis")
		httpClient = httpClient.WithRateLimiter(limiter, redis.ProviderRateLimit)
	}
	prov := provider.NewClient(cfg, httpClient, log)
	analyzer := engine.NewAnalyzer(scoring, log)

	rt.analysis = service.NewAnalysis(prov, analyzer, financials, rt.reports, cache, log)
	return rt, nil
}

// Close releases runtime resources.
func (r *runtime) Close() {
	if r.db != nil {
		r.db.Close()
	}
	if r.rdb != nil {
		r.rdb.Close()
	}
}

// loadScoringConfig loads the YAML calibration, falling back to the
// built-in defaults when no path is configured.
func loadScoringConfig(cfg *config.Config) (*scoringconfig.Config, error) {
	if cfg.Scoring.CalibrationPath == "" {
		return scoringconfig.Default(), nil
	}
	scoring, _, err := scoringconfig.Load(cfg.Scoring.CalibrationPath)
	return scoring, err
}
