package app

import (
	"context"
	"log/slog"

	"demand-tracker/internal/adapter/mysql"
	"demand-tracker/internal/adapter/s3"
	"demand-tracker/internal/config"
	"demand-tracker/internal/migrate"
	"demand-tracker/internal/usecase"
)

// App wires adapters and use cases.
type App struct {
	log     *slog.Logger
	store   *mysql.Client
	demands *usecase.DemandUseCase
	tracker *usecase.TrackerUseCase
	reports *usecase.ReportUseCase
}

func New(ctx context.Context, log *slog.Logger, cfg config.Config) (*App, error) {
	// Run migrations before opening the store for use.
	if err := migrate.Run(ctx, cfg.MySQL.DSN, log); err != nil {
		return nil, err
	}
	store, err := mysql.NewClient(ctx, cfg.MySQL.DSN, log)
	if err != nil {
		return nil, err
	}
	blobs, err := s3.NewClient(ctx, cfg.S3.Bucket, cfg.S3.Region, log)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &App{
		log:   log,
		store: store,
		demands: &usecase.DemandUseCase{
			Log:         log,
			Store:       store,
			WorkLogs:    store,
			Blobs:       blobs,
			AllowedExts: cfg.Uploads.AllowedExts,
		},
		tracker: &usecase.TrackerUseCase{
			Log:     log,
			Store:   store,
			Demands: store,
		},
		reports: &usecase.ReportUseCase{
			Log:   log,
			Store: store,
		},
	}, nil
}

func (a *App) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}
