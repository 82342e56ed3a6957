package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/p-n-ai/pratico-importer/internal/bank"
	"github.com/p-n-ai/pratico-importer/internal/batch"
	"github.com/p-n-ai/pratico-importer/internal/importer"
	"github.com/p-n-ai/pratico-importer/internal/platform/cache"
	"github.com/p-n-ai/pratico-importer/internal/platform/config"
	"github.com/p-n-ai/pratico-importer/internal/platform/database"
	"github.com/p-n-ai/pratico-importer/internal/platform/metrics"
	"github.com/p-n-ai/pratico-importer/internal/report"
)

// run executes one import and publishes its reports. Only the import's own
// fatal error is returned; report failures are logged.
func run(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	dir, err := batch.NewDir(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("%w: %w", importer.ErrSource, err)
	}

	driver := importer.New(newBank(cfg), dir, importer.Options{
		AdminName:   cfg.API.AdminName,
		Email:       cfg.API.Email,
		Password:    cfg.API.Password,
		SkipInvalid: cfg.SkipInvalid,
		DryRun:      cfg.DryRun,
	})

	slog.Info("importing", "api", cfg.API.URL, "data_dir", dir.Root(), "dry_run", cfg.DryRun)
	res, runErr := driver.Run(ctx)

	publish(ctx, cfg, stdout, res, runErr)
	return runErr
}

func newBank(cfg *config.Config) bank.Bank {
	if cfg.DryRun {
		return bank.NewDryRun()
	}
	return bank.NewClient(cfg.API.URL,
		bank.WithTimeout(time.Duration(cfg.API.TimeoutSeconds)*time.Second),
	)
}

func publish(ctx context.Context, cfg *config.Config, stdout io.Writer, res *importer.Result, runErr error) {
	// An aborted login leaves nothing worth summarizing.
	if errors.Is(runErr, importer.ErrAuth) {
		return
	}

	if err := report.WriteSummary(stdout, res); err != nil {
		slog.Warn("summary not written", "error", err)
	}

	if cfg.Report.XLSXPath != "" {
		if err := report.WriteXLSX(cfg.Report.XLSXPath, res); err != nil {
			slog.Warn("xlsx report not written", "path", cfg.Report.XLSXPath, "error", err)
		} else {
			slog.Info("xlsx report written", "path", cfg.Report.XLSXPath)
		}
	}

	sinkCtx := context.WithoutCancel(ctx)

	journal, closeJournal := openJournal(sinkCtx, cfg)
	defer closeJournal()
	report.Publish(sinkCtx, journal, report.NewEntry(res, runErr))

	if cfg.Metrics.PushgatewayURL != "" {
		m := metrics.New()
		m.Observe(report.RunStats(res, runErr))
		if err := m.Push(sinkCtx, cfg.Metrics.PushgatewayURL, cfg.Metrics.Job); err != nil {
			slog.Warn("metrics not pushed", "error", err)
		}
	}
}

// openJournal connects the configured journals. Journals that cannot be
// reached are logged and left out.
func openJournal(ctx context.Context, cfg *config.Config) (report.Journal, func()) {
	var (
		journals report.MultiJournal
		closers  []func()
	)

	if cfg.Database.URL != "" {
		db, err := database.New(ctx, cfg.Database)
		switch {
		case err != nil:
			slog.Warn("postgres journal unavailable", "error", err)
		default:
			closers = append(closers, db.Close)
			if err := db.EnsureSchema(ctx); err != nil {
				slog.Warn("postgres journal unavailable", "error", err)
			} else {
				journals = append(journals, report.NewPostgresJournal(db.Pool))
			}
		}
	}

	if cfg.Cache.URL != "" {
		c, err := cache.New(ctx, cfg.Cache)
		if err != nil {
			slog.Warn("redis journal unavailable", "error", err)
		} else {
			closers = append(closers, func() { c.Close() })
			journals = append(journals, report.NewRedisJournal(c.Client, c.TTL))
		}
	}

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	if len(journals) == 0 {
		return report.NopJournal{}, closeAll
	}
	return journals, closeAll
}
