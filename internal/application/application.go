// Package application assembles the dashboard from config and runs its servers.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"melidash/internal/config"
	"melidash/internal/domain/service/admin"
	"melidash/internal/domain/service/assistant"
	"melidash/internal/domain/service/pricing"
	"melidash/internal/domain/service/reputation"
	"melidash/internal/domain/service/trends"
	"melidash/internal/infrastructure/competitor"
	"melidash/internal/infrastructure/events"
	"melidash/internal/infrastructure/mailer"
	"melidash/internal/infrastructure/marketplace"
	"melidash/internal/infrastructure/mockdata"
	"melidash/internal/infrastructure/notifier"
	"melidash/internal/infrastructure/persistence"
	"melidash/internal/worker"
	"melidash/pkg/application/connectors"
	"melidash/pkg/application/modules"
	"melidash/pkg/contextx"
	"melidash/pkg/logx"
	"melidash/pkg/probe"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type taskQueue interface {
	EnqueueRun(ctx context.Context, productIDs []string) (string, error)
}

type Application struct {
	cfg      config.Config
	log      *slog.Logger
	registry *prometheus.Registry
	checks   map[string]probe.Check
	closers  []func(context.Context)

	pricing    *pricing.Service
	trends     *trends.Service
	reputation *reputation.Service
	assistant  *assistant.Service
	admin      *admin.Service
	scheduler  *worker.PricingScheduler
	taskQueue  taskQueue
}

// New connects the optional backends named in cfg and builds the services.
// Missing Postgres, Redis or marketplace settings fall back to in-memory stores.
func New(ctx context.Context, cfg config.Config) (*Application, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a := &Application{
		cfg:      cfg,
		log:      logger(ctx),
		registry: registry,
		checks:   make(map[string]probe.Check),
	}

	if err := a.build(ctx); err != nil {
		a.Close(ctx)
		return nil, err
	}

	return a, nil
}

func (a *Application) build(ctx context.Context) error {
	users, invites, resets, err := a.adminStores(ctx)
	if err != nil {
		return err
	}

	cache, err := a.competitorCache(ctx)
	if err != nil {
		return err
	}

	now := time.Now()

	a.pricing = pricing.NewService(a.marketplace(now), competitor.NewSource(cache)).
		WithCostBasisRatio(a.cfg.Pricing.CostBasisRatio).
		WithAlertThreshold(a.cfg.Pricing.AlertThreshold).
		WithMetrics(pricing.NewMetrics(a.registry))

	if a.cfg.Kafka.Enabled() {
		k := &connectors.Kafka{
			Brokers:      a.cfg.Kafka.Brokers,
			Topic:        a.cfg.Kafka.Topic,
			BatchTimeout: a.cfg.Kafka.BatchTimeout,
		}
		a.closers = append(a.closers, k.Close)
		a.pricing.WithEventPublisher(events.NewKafkaPublisher(k.Writer(ctx)))
	}

	if a.cfg.Bot.Enabled() {
		bot, err := notifier.NewTelegramBot(a.cfg.Bot.Token, a.cfg.Bot.ChatID)
		if err != nil {
			return fmt.Errorf("notifier.NewTelegramBot: %w", err)
		}

		if err := bot.SendText(ctx, "melidash "+a.cfg.App.Version+" started, pricing alerts will be posted here."); err != nil {
			a.log.Warn("telegram notifier is unreachable", logx.Error(err))
		}

		a.pricing.WithAlertNotifier(bot)
	}

	presets, err := loadRulePresets(a.cfg.Pricing.RulesFile)
	if err != nil {
		return err
	}

	if _, err := SeedRules(ctx, a.pricing, presets); err != nil {
		return err
	}

	a.trends = trends.NewService(mockdata.Trends(now), mockdata.Competitors())
	a.reputation = reputation.NewService(mockdata.Reviews(now), mockdata.SellerRates())
	a.assistant = assistant.NewService(a.pricing, a.pricing, a.reputation, a.trends)

	a.admin = admin.NewService(
		users,
		invites,
		resets,
		mailer.NewLogMailer(a.cfg.Auth.InviteBaseURL),
		admin.NewTokenIssuer(a.cfg.Auth.JWTSecret, a.cfg.Auth.TokenTTL),
	).WithInviteTTL(a.cfg.Auth.InviteTTL)

	if err := a.admin.EnsureBootstrapAdmin(ctx, a.cfg.Auth.BootstrapEmail, a.cfg.Auth.BootstrapPassword); err != nil {
		return fmt.Errorf("admin.EnsureBootstrapAdmin: %w", err)
	}

	a.scheduler = worker.NewPricingScheduler(a.pricing, a.cfg.Pricing.SchedulerInterval)

	return nil
}

func (a *Application) adminStores(ctx context.Context) (admin.UserRepository, admin.InviteRepository, admin.PasswordResetRepository, error) {
	if !a.cfg.Postgres.Enabled() {
		a.log.Warn("PG_DSN is empty, users and invites are kept in memory")

		users := persistence.NewMemoryUserRepository()

		return users,
			persistence.NewMemoryInviteRepository(users),
			persistence.NewMemoryPasswordResetRepository(),
			nil
	}

	pg := &connectors.Postgres{
		DSN:             a.cfg.Postgres.DSN,
		MaxOpenConns:    a.cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    a.cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: a.cfg.Postgres.ConnMaxLifetime,
	}

	db, err := pg.Client(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("postgres.Client: %w", err)
	}

	a.closers = append(a.closers, pg.Close)
	a.checks["postgres"] = pg.Ping

	if err := persistence.Migrate(ctx, db); err != nil {
		return nil, nil, nil, fmt.Errorf("persistence.Migrate: %w", err)
	}

	return persistence.NewUserRepository(db),
		persistence.NewInviteRepository(db),
		persistence.NewPasswordResetRepository(db),
		nil
}

func (a *Application) competitorCache(ctx context.Context) (competitor.Cache, error) {
	if !a.cfg.Redis.Enabled() {
		return competitor.NewMemoryCache(a.cfg.Redis.CompetitorTTL), nil
	}

	rc := &connectors.Redis{
		Username:           a.cfg.Redis.Username,
		Password:           a.cfg.Redis.Password,
		Address:            a.cfg.Redis.Address,
		DatabaseNumber:     a.cfg.Redis.DatabaseNumber,
		PoolSize:           a.cfg.Redis.PoolSize,
		MinIdleConnections: a.cfg.Redis.MinIdleConnections,
		MaxIdleConnections: a.cfg.Redis.MaxIdleConnections,
	}

	client, err := rc.Client(ctx)
	if err != nil {
		return nil, fmt.Errorf("redis.Client: %w", err)
	}

	a.closers = append(a.closers, rc.Close)
	a.checks["redis"] = rc.Ping

	// The shared connection stays open when the asynq client is closed.
	a.taskQueue = worker.NewTaskQueue(asynq.NewClientFromRedisClient(client))

	return competitor.NewRedisCache(client, a.cfg.Redis.CompetitorTTL), nil
}

func (a *Application) marketplace(now time.Time) pricing.Marketplace {
	if a.cfg.Marketplace.BaseURL == "" {
		a.log.Warn("MARKETPLACE_BASE_URL is empty, serving mock listings")
		return marketplace.NewMemory(mockdata.Products(now))
	}

	return marketplace.NewClient(marketplace.ClientConfig{
		BaseURL:         a.cfg.Marketplace.BaseURL,
		Token:           a.cfg.Marketplace.Token,
		Timeout:         a.cfg.Marketplace.Timeout,
		LogFieldMaxLen:  a.cfg.Log.FieldMax,
		SkipBodyLogging: a.cfg.Marketplace.SkipBodyLogging,
	})
}

// Run serves HTTP, probes, metrics and queued runs until ctx is done.
func (a *Application) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if a.cfg.Pricing.SchedulerAutostart {
		if err := a.scheduler.Start(ctx); err != nil {
			return fmt.Errorf("scheduler.Start: %w", err)
		}
	}

	g.Go(func() error {
		<-ctx.Done()
		a.scheduler.Stop()

		return nil
	})

	modules.HTTPServer{
		ListenAddress:   a.cfg.HTTP.ListenAddress,
		ShutdownTimeout: a.cfg.HTTP.ShutdownTimeout,
	}.Run(ctx, g, a.Router())

	modules.ProbeServer{
		Name:          a.cfg.App.Name,
		Version:       a.cfg.App.Version,
		ListenAddress: a.cfg.HTTP.ProbeListenAddress,
		Checks:        a.checks,
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: a.cfg.HTTP.MetricsListenAddress,
		Gatherer:      a.registry,
	}.Run(ctx, g)

	if a.cfg.Redis.Enabled() {
		modules.AsynqServer{
			RedisUsername: a.cfg.Redis.Username,
			RedisPassword: a.cfg.Redis.Password,
			RedisAddress:  a.cfg.Redis.Address,
			RedisDB:       a.cfg.Redis.DatabaseNumber,
			Concurrency:   a.cfg.Redis.AsynqConcurrency,
		}.Run(ctx, g, modules.AsynqQueues{worker.QueuePricing: 1}, modules.AsynqHandler{
			Pattern: worker.TypeRunAutomation,
			Handle:  worker.RunAutomationHandler(a.pricing),
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("errgroup.Wait: %w", err)
	}

	return nil
}

// Close releases the backends in reverse order of acquisition.
func (a *Application) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i](ctx)
	}

	a.closers = nil
}

// Migrate applies the schema without starting the servers.
func Migrate(ctx context.Context, cfg config.Config) error {
	if !cfg.Postgres.Enabled() {
		return errors.New("PG_DSN is not set")
	}

	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	defer pg.Close(ctx)

	db, err := pg.Client(ctx)
	if err != nil {
		return fmt.Errorf("postgres.Client: %w", err)
	}

	if err := persistence.Migrate(ctx, db); err != nil {
		return fmt.Errorf("persistence.Migrate: %w", err)
	}

	logger(ctx).Info("migrations applied")

	return nil
}
