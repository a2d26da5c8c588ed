// Package app wires the application dependencies together.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/opsdesk/aws-agent/config"
	"github.com/opsdesk/aws-agent/middleware"
	"github.com/opsdesk/aws-agent/providers/aws"
	"github.com/opsdesk/aws-agent/repositories"
	"github.com/opsdesk/aws-agent/repositories/postgres"
	"github.com/opsdesk/aws-agent/services/agent"
	"github.com/opsdesk/aws-agent/services/audit"
	"github.com/opsdesk/aws-agent/services/intent"
)

// ServiceName identifies this service in health and log output
const ServiceName = "aws-agent"

// Version is the service version, overridable at build time with
// -ldflags "-X github.com/opsdesk/aws-agent/app.Version=..."
var Version = "0.1.0"

// Dependencies holds all application dependencies. This is the central wiring
// point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Cloud inventory
	Cloud agent.Cloud

	// Services
	Classifier *intent.Classifier
	Audit      *audit.Service
	Agent      *agent.Service

	// Auth
	AuthMiddleware *middleware.AuthMiddleware
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initCloud(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize cloud provider: %w", err)
	}

	if err := deps.initAudit(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize audit store: %w", err)
	}

	deps.initServices(cfg)

	logger.Info("all dependencies initialized")
	return deps, nil
}

// initCloud loads the AWS configuration and builds the inventory service
func (d *Dependencies) initCloud(ctx context.Context, cfg *config.Config) error {
	svc, err := aws.NewService(ctx, aws.LoadOptions{
		Profile: cfg.AWS.Profile,
		Region:  cfg.AWS.Region,
	}, d.Logger)
	if err != nil {
		return err
	}

	d.Cloud = svc
	d.Logger.Info("cloud provider initialized",
		zap.String("region", svc.Region()),
		zap.String("account", svc.AccountID()))
	return nil
}

// initAudit connects the audit database when one is configured. Auditing is
// optional; without it queries are served but not recorded.
func (d *Dependencies) initAudit(ctx context.Context, cfg *config.Config) error {
	var repo repositories.QueryRepository

	if cfg.AuditDatabase != nil {
		db, err := postgres.NewDB(*cfg.AuditDatabase, d.Logger)
		if err != nil {
			return fmt.Errorf("failed to connect audit database: %w", err)
		}
		if err := db.InitSchema(ctx); err != nil {
			return fmt.Errorf("failed to initialize audit schema: %w", err)
		}
		d.DB = db
		repo = postgres.NewQueryRepository(db, d.Logger)
	} else {
		d.Logger.Info("audit database not configured, query auditing disabled")
	}

	d.Audit = audit.NewService(repo, d.Logger)
	return nil
}

// initServices wires the classifier, agent, and auth middleware
func (d *Dependencies) initServices(cfg *config.Config) {
	d.Classifier = intent.NewClassifier(d.Cloud)

	var recorder agent.Recorder
	if d.Audit.Enabled() {
		recorder = d.Audit
	}
	d.Agent = agent.NewService(d.Cloud, d.Classifier, recorder, cfg.AWS.MetricLookback, d.Logger)

	d.AuthMiddleware = middleware.NewAuthMiddleware(cfg.Auth, d.Logger)
	if !d.AuthMiddleware.Enabled() {
		d.Logger.Warn("authentication not configured, chat endpoint is open")
	}
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close audit database: %w", err))
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
