package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	audiencesGraph "lookalike-audience-service/internal/audiences/adapters/graph"
	audiencesHttp "lookalike-audience-service/internal/audiences/adapters/http/fiber"
	audiencesRepoPg "lookalike-audience-service/internal/audiences/adapters/postgres"
	audiencesPorts "lookalike-audience-service/internal/audiences/core/ports"
	audiencesUsecase "lookalike-audience-service/internal/audiences/core/usecase"

	historyHttp "lookalike-audience-service/internal/history/adapters/http/fiber"
	historyRepoPg "lookalike-audience-service/internal/history/adapters/postgres"
	historyPorts "lookalike-audience-service/internal/history/core/ports"
	historyUsecase "lookalike-audience-service/internal/history/core/usecase"

	"lookalike-audience-service/internal/config"
	"lookalike-audience-service/internal/logging"
	"lookalike-audience-service/internal/telemetry"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"golang.org/x/time/rate"

	_ "lookalike-audience-service/docs"
)

// Deps are the collaborators NewApp wires together. Recorders and History
// are optional.
type Deps struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Metrics *telemetry.Collectors
	Gateway audiencesPorts.AudienceGatewayPort
	Pacer   audiencesPorts.Pacer

	Recorders []audiencesPorts.ResultRecorderPort
	History   historyPorts.HistoryReaderPort
}

// App is a fully wired server plus the resources it owns.
type App struct {
	Fiber *fiber.App
	DB    *sql.DB
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// Build creates the real dependencies from cfg: Graph client, pacer, and
// Postgres with migrations when a DSN is configured.
func Build(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	metrics := telemetry.New()

	gateway, err := audiencesGraph.NewClient(audiencesGraph.Config{
		BaseURL:     cfg.GraphBaseURL,
		APIVersion:  cfg.GraphAPIVersion,
		AccessToken: cfg.AccessToken,
		Timeout:     cfg.HTTPTimeout,
	},
		audiencesGraph.WithCollectors(metrics),
		audiencesGraph.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	deps := Deps{
		Config:    cfg,
		Logger:    logger,
		Metrics:   metrics,
		Gateway:   gateway,
		Pacer:     NewPacer(cfg.CreateInterval),
		Recorders: []audiencesPorts.ResultRecorderPort{metrics},
	}

	app := &App{}
	if cfg.HistoryEnabled() {
		db, err := OpenPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		app.DB = db

		deps.Recorders = append(deps.Recorders, audiencesRepoPg.NewResultRecorder(audiencesRepoPg.NewSQLDB(db)))
		deps.History = historyRepoPg.NewHistoryRepository(historyRepoPg.NewSQLDB(db))
		logger.Info().Msg("result history enabled")
	} else {
		logger.Info().Msg("POSTGRES_DSN not set, result history disabled")
	}

	app.Fiber = NewApp(deps)
	return app, nil
}

// NewPacer spaces create calls at least interval apart. Zero disables pacing.
func NewPacer(interval time.Duration) audiencesPorts.Pacer {
	if interval <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

func OpenPostgres(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := Migrate(cfg.MigrationsPath, cfg.PostgresDSN); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate brings the schema to the latest version.
func Migrate(source, dsn string) error {
	m, err := migrate.New(source, dsn)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

func NewApp(d Deps) *fiber.App {
	listUC := audiencesUsecase.NewListAudiencesUseCase(d.Gateway, d.Config.AudienceCacheTTL)
	createUC := audiencesUsecase.NewCreateLookalikeUseCase(
		d.Gateway,
		d.Pacer,
		d.Config.MaxBatchSize,
		d.Logger,
		d.Recorders...,
	)

	app := fiber.New(fiber.Config{
		AppName:               "lookalike-audience-service",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logging.RequestLogger(d.Logger))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if d.Metrics != nil {
		app.Get("/metrics", d.Metrics.Handler())
	}

	// UI + audiences endpoints
	audiencesHandler := audiencesHttp.NewAudienceHandler(listUC, createUC, d.Config.AdAccountID)
	app.Get("/", audiencesHandler.Index)
	app.Post("/", audiencesHandler.Submit)
	app.Get("/audiences", audiencesHandler.ListAudiences)
	app.Post("/lookalikes", audiencesHandler.CreateLookalike)
	app.Post("/lookalikes/bulk", audiencesHandler.BulkCreateLookalikes)

	// history endpoints
	if d.History != nil {
		historyHandler := historyHttp.NewHistoryHandler(historyUsecase.NewGetHistoryUseCase(d.History))
		app.Get("/history", historyHandler.GetHistory)
	}

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	return app
}
