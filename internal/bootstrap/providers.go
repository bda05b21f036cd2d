package bootstrap

import (
	"context"

	"bodyfat/internal/adapters/config"
	errnoop "bodyfat/internal/adapters/errors/noop"
	"bodyfat/internal/adapters/errors/sentry"
	"bodyfat/internal/adapters/kafka"
	"bodyfat/internal/api"
	"bodyfat/internal/api/dashboard"
	"bodyfat/internal/api/health"
	"bodyfat/internal/events"
	"bodyfat/internal/metrics"
	"bodyfat/internal/ml/registry"
	"bodyfat/internal/services/history"
	"bodyfat/internal/services/prediction"
	"bodyfat/pkg/errors"
	"bodyfat/pkg/logger"
)

// ========================================
// Phase 1: Configuration & Logging
// ========================================

// MustInitConfig loads configuration and initializes logger
func (c *Container) MustInitConfig() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	c.Config = cfg

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}

	c.Log = logger.Get()
	c.Log.Infof("Starting %s %s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Env)

	c.ErrorTracker = provideErrorTracker(cfg, c.Log)
	logger.SetErrorTracker(c.ErrorTracker)
}

// ========================================
// Phase 2: Models
// ========================================

// MustInitModels loads both estimators and the importance table.
// Any configuration problem is fatal.
func (c *Container) MustInitModels() {
	c.Log.Info("Loading models...")

	reg, err := registry.Load(c.Config.Models.Assets())
	if err != nil {
		c.Log.Fatalf("failed to load models: %v", err)
	}
	c.Registry = reg

	c.Log.Infow("✓ Models loaded",
		"with_density", c.Config.Models.WithDensityPath,
		"without_density", c.Config.Models.NoDensityPath,
		"importance", c.Config.Models.ImportancePath,
	)
}

// ========================================
// Phase 3: External Adapters
// ========================================

// MustInitAdapters wires the optional Kafka event publisher
func (c *Container) MustInitAdapters() {
	if !c.Config.Kafka.Enabled() {
		c.Log.Info("Kafka brokers not configured, prediction events disabled")
		return
	}

	c.Adapters.KafkaProducer = provideKafkaProducer(c.Config, c.Log)
	c.Adapters.Publisher = events.NewPublisher(c.Adapters.KafkaProducer, c.Config.Kafka.PredictionsTopic, c.Log)
	c.Log.Infow("✓ Prediction events enabled", "topic", c.Config.Kafka.PredictionsTopic)
}

// ========================================
// Phase 4: Domain Services
// ========================================

// MustInitServices creates the session history and the prediction engine
func (c *Container) MustInitServices() {
	c.Services.History = history.NewStore()

	var opts []prediction.Option
	if c.Adapters.Publisher != nil {
		opts = append(opts, prediction.WithPublisher(c.Adapters.Publisher))
	}
	c.Services.Prediction = prediction.NewService(c.Registry, c.Services.History, c.Log, opts...)

	c.Log.Info("✓ Services initialized")
}

// ========================================
// Phase 5: Application Layer
// ========================================

// MustInitApplication initializes health probes, the dashboard and the HTTP server
func (c *Container) MustInitApplication() {
	c.Application.HealthHandler = health.New(c.Log, c.Config.App.Name, c.Config.App.Version, provideHealthChecks(c)...)

	c.Application.Dashboard = dashboard.NewHandler(
		c.Services.Prediction,
		c.Services.History,
		c.Registry.Importance(),
		c.Config.History.RecentLimit,
		c.Log,
	)

	serverCfg := api.ServerConfig{
		Addr:           c.Config.HTTP.Addr,
		ReadTimeout:    c.Config.HTTP.ReadTimeout,
		WriteTimeout:   c.Config.HTTP.WriteTimeout,
		RateLimitRPS:   c.Config.HTTP.RateLimitRPS,
		RateLimitBurst: c.Config.HTTP.RateLimitBurst,
	}
	router := api.NewRouter(serverCfg, c.Application.Dashboard, c.Application.HealthHandler, c.Log)
	c.Application.HTTPServer = api.NewServer(serverCfg, router, c.Log)
	c.Lifecycle.httpTimeout = c.Config.HTTP.ShutdownTimeout

	metrics.Init()
	metrics.RegisterHistoryCollector(metrics.NewHistoryCollector(c.Services.History))
	c.Log.Info("✓ Metrics initialized")

	c.Log.Info("✓ Application layer initialized")
}

// ========================================
// Providers
// ========================================

func provideErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.Provider == config.ProviderNoop {
		log.Infow("Error tracking disabled", "provider", cfg.ErrorTracking.Provider)
		return errnoop.New()
	}

	tracker, err := sentry.New(sentry.Options{
		DSN:         cfg.ErrorTracking.SentryDSN,
		Environment: cfg.ErrorTracking.Environment,
		Release:     cfg.App.Name + "@" + cfg.App.Version,
	})
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return errnoop.New()
	}

	log.Info("✓ Error tracking initialized (Sentry)")
	return tracker
}

func provideKafkaProducer(cfg *config.Config, log *logger.Logger) *kafka.Producer {
	log.Infow("Initializing Kafka producer...", "brokers", cfg.Kafka.Brokers)
	return kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      cfg.Kafka.Brokers,
		WriteTimeout: cfg.Kafka.WriteTimeout,
	}, log)
}

// provideHealthChecks: models gate readiness, Kafka only degrades /health
func provideHealthChecks(c *Container) []health.Check {
	checks := []health.Check{
		{
			Name:     "models",
			Required: true,
			Probe: func(ctx context.Context) error {
				return c.Registry.Ready()
			},
		},
	}

	if producer := c.Adapters.KafkaProducer; producer != nil {
		checks = append(checks, health.Check{
			Name:  "kafka",
			Probe: producer.Ping,
		})
	}
	return checks
}
