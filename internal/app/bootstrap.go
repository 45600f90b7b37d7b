package app

import (
	"log/slog"

	"mt_console/internal/infra"
	"mt_console/internal/infra/storage"
)

// Bootstrap orchestrates the application startup sequence.
type Bootstrap struct {
	Config  *infra.Config
	Journal *storage.Storage // nil when journaling is disabled
}

// NewBootstrap creates a new Bootstrap instance.
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads configuration, installs the logger and opens the command
// journal.
func (b *Bootstrap) Initialize(configPath string) error {
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	if cfg.Journal.Enabled {
		journal, err := storage.NewStorage(cfg.Journal.Path)
		if err != nil {
			return err
		}
		b.Journal = journal
		slog.Info("Command journal initialized", slog.String("path", cfg.Journal.Path))
	}

	return nil
}
