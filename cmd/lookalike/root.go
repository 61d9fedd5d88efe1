package main

import (
	"context"
	"database/sql"

	audiencesGraph "lookalike-audience-service/internal/audiences/adapters/graph"
	audiencesRepoPg "lookalike-audience-service/internal/audiences/adapters/postgres"
	"lookalike-audience-service/internal/audiences/core/ports"
	"lookalike-audience-service/internal/audiences/core/usecase"
	"lookalike-audience-service/internal/config"
	"lookalike-audience-service/internal/logging"
	"lookalike-audience-service/internal/server"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	secrets string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "lookalike",
		Short:         "Batch-create Facebook lookalike audiences",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.secrets, "secrets", "", "path to the TOML secrets file (default "+config.DefaultSecretsFile+")")

	root.AddCommand(newAudiencesCmd(opts))
	root.AddCommand(newCreateCmd(opts))
	root.AddCommand(newCheckCmd(opts))

	return root
}

// env holds what every subcommand needs once config is loaded.
type env struct {
	cfg    *config.Config
	logger zerolog.Logger
	db     *sql.DB
	listUC *usecase.ListAudiencesUseCase
	create *usecase.CreateLookalikeUseCase
}

func (e *env) Close() {
	if e.db != nil {
		e.db.Close()
	}
}

func (o *rootOptions) load() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(o.secrets)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if cfg.SecretsFile == "" {
		logger.Warn().Str("path", config.SecretsPath(o.secrets)).Msg("secrets file not found, using environment only")
	}
	return cfg, logger, nil
}

func (o *rootOptions) env(ctx context.Context) (*env, error) {
	cfg, logger, err := o.load()
	if err != nil {
		return nil, err
	}

	gateway, err := audiencesGraph.NewClient(audiencesGraph.Config{
		BaseURL:     cfg.GraphBaseURL,
		APIVersion:  cfg.GraphAPIVersion,
		AccessToken: cfg.AccessToken,
		Timeout:     cfg.HTTPTimeout,
	}, audiencesGraph.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, logger: logger}

	var recorders []ports.ResultRecorderPort
	if cfg.HistoryEnabled() {
		db, err := server.OpenPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		e.db = db
		recorders = append(recorders, audiencesRepoPg.NewResultRecorder(audiencesRepoPg.NewSQLDB(db)))
	}

	e.listUC = usecase.NewListAudiencesUseCase(gateway, cfg.AudienceCacheTTL)
	e.create = usecase.NewCreateLookalikeUseCase(gateway, server.NewPacer(cfg.CreateInterval), cfg.MaxBatchSize, logger, recorders...)
	return e, nil
}

func (e *env) account(flag string) string {
	if flag == "" {
		return e.cfg.AdAccountID
	}
	return flag
}
