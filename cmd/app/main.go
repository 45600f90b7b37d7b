package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mt_console/internal/app"
	"mt_console/internal/domain"
	"mt_console/internal/infra/backend"

	"github.com/joho/godotenv"
)

// journalOrNil avoids handing the session a typed-nil interface when
// journaling is disabled.
func journalOrNil(b *app.Bootstrap) domain.CommandJournal {
	if b.Journal == nil {
		return nil
	}
	return b.Journal
}

func main() {
	// .env is optional; real deployments use environment variables directly.
	godotenv.Load()

	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath); err != nil {
		slog.Error("Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess := app.NewSession(bootstrap.Config, journalOrNil(bootstrap), nil, func(s backend.Status) {
		slog.Info("Connection status changed", slog.String("status", string(s)))
	})

	if err := sess.Start(ctx); err != nil {
		slog.Error("Failed to start session", slog.Any("error", err))
		os.Exit(1)
	}
	defer sess.Stop()

	slog.Info("Session started", slog.String("backend", bootstrap.Config.Backend.WSURL))

	// Headless summary loop; an attached view layer replaces this with its
	// own render cycle.
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("Shutting down gracefully")
			if recs, err := sess.RecentHistory(5); err == nil {
				for _, rec := range recs {
					slog.Info("Recent command",
						slog.String("instrument", rec.Instrument),
						slog.String("command", rec.Command),
						slog.String("outcome", rec.Outcome))
				}
			}
			return
		case <-ticker.C:
			if account, ok := sess.Store.Account(); ok {
				slog.Info("Session summary",
					slog.String("balance", account.Balance.String()),
					slog.String("equity", account.Equity.String()),
					slog.String("floating_profit", account.FloatingProfit.String()),
					slog.Int("watched", len(sess.Registry.Watched())),
					slog.String("selected", sess.Registry.Selected()),
				)
			}
		}
	}
}
