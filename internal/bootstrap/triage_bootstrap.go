// Package bootstrap wires the dependency graph and assembles the HTTP app.
package bootstrap

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/redis/go-redis/v9"

	httpin "triage_server/adapter/in/http"
	"triage_server/adapter/in/worker"
	"triage_server/adapter/out/persistence"
	"triage_server/adapter/out/provider"
	"triage_server/config"
	"triage_server/core/domain"
	"triage_server/core/port/out"
	"triage_server/core/service/analytics"
	"triage_server/core/service/classification"
	"triage_server/core/service/intake"
	"triage_server/core/service/registry"
	"triage_server/infra/middleware"
	"triage_server/pkg/logger"
	"triage_server/pkg/ratelimit"
	"triage_server/pkg/snowflake"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Dependencies is the wired object graph.
type Dependencies struct {
	Redis     *redis.Client
	Registry  *registry.Registry
	Intake    *intake.Service
	Analytics *analytics.Service
	Pool      *worker.AnalyzerPool
	Limiter   ratelimit.Limiter
}

// NewDependencies builds the graph. The returned cleanup closes external
// connections.
func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	deps := &Dependencies{}
	cleanup := func() {
		if deps.Redis != nil {
			deps.Redis.Close()
		}
	}

	deps.Redis = connectRedis(cfg)

	var selectionStore out.DomainSelectionStore
	if deps.Redis != nil {
		selectionStore = persistence.NewRedisSelectionStore(deps.Redis)
	} else {
		selectionStore = persistence.NewMemorySelectionStore()
	}

	reg, err := registry.New(domain.BuiltinDomains(), selectionStore)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	reg.Restore(context.Background())
	deps.Registry = reg

	model := buildScoringModel(cfg)

	ids, err := snowflake.NewGenerator(cfg.WorkerID)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	repo := persistence.NewMemoryComplaintRepository()
	deps.Intake = intake.NewService(repo, reg, model, ids, logger.Default(), cfg.ScoringTimeout)
	deps.Analytics = analytics.NewService(repo, reg)
	deps.Pool = worker.NewAnalyzerPool(deps.Intake, deps.Intake.PendingAnalyses(), cfg.AnalyzerWorkers)

	if cfg.RateLimitPerMinute > 0 {
		if deps.Redis != nil {
			deps.Limiter = ratelimit.NewRedisLimiter(deps.Redis, cfg.RateLimitPerMinute)
		} else {
			deps.Limiter = ratelimit.NewMemoryLimiter(cfg.RateLimitPerMinute)
		}
	}

	return deps, cleanup, nil
}

// buildScoringModel selects the classification backend: LLM with keyword
// fallback when an API key is configured, keyword-only otherwise.
func buildScoringModel(cfg *config.Config) out.ScoringModel {
	keyword := classification.NewKeywordModel()
	if cfg.OpenAIAPIKey == "" {
		logger.Info("no LLM configured, classification runs on the keyword model")
		return keyword
	}

	llm, err := provider.NewOpenAIModel(provider.OpenAIConfig{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
	}, logger.Default())
	if err != nil {
		logger.WithError(err).Warn("LLM setup failed, falling back to keyword model")
		return keyword
	}
	return classification.NewFallbackModel(llm, keyword, logger.Default())
}

func connectRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.WithError(err).Warn("invalid REDIS_URL, running without redis")
		return nil
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("redis unreachable, running without redis")
		client.Close()
		return nil
	}

	logger.Info("redis connected")
	return client
}

// NewAPI assembles the fiber application over the dependency graph.
func NewAPI(cfg *config.Config, deps *Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "triage-server",
		ErrorHandler:          middleware.ErrorHandler,
		DisableStartupMessage: cfg.IsProduction(),
		ReadBufferSize:        16384,
		WriteBufferSize:       16384,
		BodyLimit:             1 * 1024 * 1024,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	})

	// Order matters: recovery outermost, then ids, then logging.
	app.Use(middleware.NewRecover())
	app.Use(middleware.NewRequestID())
	app.Use(middleware.NewRequestLogger())
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: "GET,POST,PUT,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept," + middleware.RequestIDHeader,
	}))

	httpin.NewHealthHandler(Version).Register(app)

	submitLimit := func(c *fiber.Ctx) error { return c.Next() }
	if deps.Limiter != nil {
		submitLimit = middleware.NewRateLimit(deps.Limiter)
	}

	api := app.Group("/api/v1")
	httpin.NewDomainHandler(deps.Registry).Register(api)
	httpin.NewComplaintHandler(deps.Intake).Register(api, submitLimit)
	httpin.NewAnalyticsHandler(deps.Analytics).Register(api)

	return app
}
