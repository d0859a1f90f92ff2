package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/email-extractor/internal/captcha"
	"github.com/JakeFAU/email-extractor/internal/config"
	"github.com/JakeFAU/email-extractor/internal/extract"
	"github.com/JakeFAU/email-extractor/internal/extractor"
	"github.com/JakeFAU/email-extractor/internal/firecrawl"
	"github.com/JakeFAU/email-extractor/internal/history"
	"github.com/JakeFAU/email-extractor/internal/history/postgres"
	"github.com/JakeFAU/email-extractor/internal/logging"
)

// appKeyType is the key for storing the app in the command context.
type appKeyType string

const appKey appKeyType = "app"

// app holds what every subcommand needs once config and logging are up.
type app struct {
	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "emailextractor",
		Short: "Extract contact email addresses from websites via Firecrawl.",
		Long: `emailextractor fetches a website through the Firecrawl API, either a single
page (fast) or a small crawl (deep), and returns the email addresses found in it.
It runs as an HTTP service guarded by Cloudflare Turnstile, or once from the shell.`,
		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := logging.New(logging.Config{
				Development: cfg.Logging.Development,
				File:        cfg.Logging.File,
				MaxSizeMB:   cfg.Logging.MaxSizeMB,
				MaxBackups:  cfg.Logging.MaxBackups,
				MaxAgeDays:  cfg.Logging.MaxAgeDays,
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			zap.ReplaceGlobals(logger)

			ctx := context.WithValue(cmd.Context(), appKey, &app{cfg: cfg, logger: logger})
			cmd.SetContext(ctx)
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a, ok := cmd.Context().Value(appKey).(*app); ok && a != nil {
				_ = a.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (YAML); "+config.EnvPrefix+"_* environment variables override it")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newExtractCmd())

	return cmd
}

func resolveApp(ctx context.Context) (*app, error) {
	a, ok := ctx.Value(appKey).(*app)
	if !ok || a == nil {
		return nil, errors.New("application not initialized")
	}
	return a, nil
}

// buildService wires the extraction pipeline from config. The returned store
// must be closed by the caller.
func buildService(ctx context.Context, a *app) (*extractor.Service, history.Store, error) {
	cfg := a.cfg

	var store history.Store = history.NoOp{}
	if cfg.History.Enabled() {
		pg, err := postgres.New(ctx, postgres.Config{
			DSN:      cfg.History.DSN,
			Table:    cfg.History.Table,
			MaxConns: int32(cfg.History.MaxConns),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("init history store: %w", err)
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, nil, fmt.Errorf("init history schema: %w", err)
		}
		store = pg
		a.logger.Info("extraction history enabled", zap.String("table", cfg.History.Table))
	}

	scraper := firecrawl.New(firecrawl.Config{
		BaseURL: cfg.Firecrawl.BaseURL,
		APIKey:  cfg.Firecrawl.APIKey,
		Timeout: cfg.Firecrawl.Timeout,
	}, nil, a.logger.Named("firecrawl"))

	verifier := captcha.NewTurnstile(captcha.Config{
		SecretKey: cfg.Captcha.SecretKey,
		VerifyURL: cfg.Captcha.VerifyURL,
		Bypass:    cfg.Captcha.Bypass,
		Timeout:   cfg.Captcha.Timeout,
	}, nil, a.logger.Named("captcha"))

	if !scraper.Configured() {
		a.logger.Warn("firecrawl.api_key is not set; extractions will fail")
	}
	if !verifier.Bypassed() && !verifier.Configured() {
		a.logger.Warn("captcha.secret_key is not set; public requests will fail")
	}

	svc := extractor.NewService(
		scraper,
		verifier,
		extract.NewFilter(cfg.Extract.BlockedDomains),
		store,
		nil,
		nil,
		a.logger.Named("extractor"),
	)
	return svc, store, nil
}
