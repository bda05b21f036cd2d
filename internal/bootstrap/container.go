package bootstrap

import (
	"context"
	"sync"

	"bodyfat/internal/adapters/config"
	"bodyfat/internal/adapters/kafka"
	"bodyfat/internal/api"
	"bodyfat/internal/api/dashboard"
	"bodyfat/internal/api/health"
	"bodyfat/internal/events"
	"bodyfat/internal/ml/registry"
	"bodyfat/internal/services/history"
	"bodyfat/internal/services/prediction"
	"bodyfat/pkg/errors"
	"bodyfat/pkg/logger"
)

// Container holds all application dependencies and their lifecycle
// Components are organized in initialization order
type Container struct {
	// Core configuration & logging
	Config       *config.Config
	Log          *logger.Logger
	ErrorTracker errors.Tracker

	// Models: estimators and the importance table, immutable after load
	Registry *registry.Registry

	// Domain Layer - Services
	Services *Services

	// External Adapters
	Adapters *Adapters

	// Application Layer
	Application *Application

	// Lifecycle management
	Lifecycle *Lifecycle
	WG        *sync.WaitGroup
	Context   context.Context
	Cancel    context.CancelFunc
}

// Services groups domain services
type Services struct {
	History    *history.Store
	Prediction *prediction.Service
}

// Adapters groups external adapters; both are nil when Kafka is not configured
type Adapters struct {
	KafkaProducer *kafka.Producer
	Publisher     *events.Publisher
}

// Application groups application layer components
type Application struct {
	HTTPServer    *api.Server
	HealthHandler *health.Handler
	Dashboard     *dashboard.Handler
}

// NewContainer creates a new dependency container
func NewContainer() *Container {
	ctx, cancel := context.WithCancel(context.Background())

	return &Container{
		Services:    &Services{},
		Adapters:    &Adapters{},
		Application: &Application{},
		Lifecycle:   NewLifecycle(),
		WG:          &sync.WaitGroup{},
		Context:     ctx,
		Cancel:      cancel,
	}
}

// MustInit initializes all components in the correct order
// Panics on any initialization error (fail-fast at startup)
func (c *Container) MustInit() {
	c.MustInitConfig()
	c.MustInitModels()
	c.MustInitAdapters()
	c.MustInitServices()
	c.MustInitApplication()
}

// Start starts the HTTP server in the background
func (c *Container) Start() error {
	c.Log.Info("Starting all systems...")

	c.WG.Add(1)
	go func() {
		defer c.WG.Done()
		if err := c.Application.HTTPServer.Start(); err != nil {
			c.Log.Errorf("HTTP server failed: %v", err)
			c.Cancel() // Trigger shutdown on fatal HTTP error
		}
	}()

	c.Log.Info("✓ All systems operational")
	return nil
}

// Shutdown performs graceful shutdown in the correct order
func (c *Container) Shutdown() {
	c.Log.Info("Initiating graceful shutdown...")

	c.Cancel()

	c.Lifecycle.Shutdown(
		c.WG,
		c.Application.HTTPServer,
		c.Adapters.KafkaProducer,
		c.Registry,
		c.ErrorTracker,
		c.Log,
	)
}
