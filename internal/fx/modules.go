package fx

import (
	"fmt"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"hunt-tracker/internal/backup"
	"hunt-tracker/internal/bestiary"
	"hunt-tracker/internal/config"
	"hunt-tracker/internal/database"
	"hunt-tracker/internal/ingest"
	"hunt-tracker/internal/logger"
	"hunt-tracker/internal/normalize"
	"hunt-tracker/internal/repository"
	"hunt-tracker/internal/server"
	"hunt-tracker/internal/service"
)

// ProvideStore picks the configured persistence backend: JSONL files by
// default, SQLite when requested.
func ProvideStore(cfg *config.Config, log zerolog.Logger) (repository.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		db, err := database.Open(cfg.DBPath, log)
		if err != nil {
			return nil, err
		}
		return repository.NewSQLiteStore(db, log), nil
	case config.BackendFile:
		return repository.NewFileStore(cfg.DataDir, log)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func ProvideDifficulty(cfg *config.Config, log zerolog.Logger) (map[string]string, error) {
	return bestiary.LoadDifficulty(cfg.BestiaryCSV, log)
}

func ProvideBalanceParser() normalize.BalanceParser {
	return normalize.KeywordBalanceParser{}
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(ProvideStore),
	fx.Provide(ProvideDifficulty),
	fx.Provide(ProvideBalanceParser),
	// core
	fx.Provide(ingest.NewIngestor),
	fx.Provide(backup.NewCodec),
	// svc
	fx.Provide(service.NewHuntService),
	// server
	fx.Provide(server.NewHuntServer),
)
