package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/veenapanicker/nexus/internal/access"
	"github.com/veenapanicker/nexus/internal/api"
	"github.com/veenapanicker/nexus/internal/auth"
	"github.com/veenapanicker/nexus/internal/config"
	"github.com/veenapanicker/nexus/internal/database"
	"github.com/veenapanicker/nexus/internal/enrollment"
	"github.com/veenapanicker/nexus/internal/license"
	"github.com/veenapanicker/nexus/internal/notify"
	"github.com/veenapanicker/nexus/internal/report"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.SeedCatalog(db); err != nil {
		logger.Fatal("failed to seed report catalog", zap.Error(err))
	}
	if cfg.Seed.Demo {
		if err := database.SeedDemo(db); err != nil {
			logger.Fatal("failed to seed demo data", zap.Error(err))
		}
	}

	notifier := notify.New(&notify.Config{
		SlackToken:   cfg.Notify.Slack.Token,
		SlackChannel: cfg.Notify.Slack.Channel,
		SMTPHost:     cfg.Notify.Email.SMTPHost,
		SMTPPort:     cfg.Notify.Email.SMTPPort,
		EmailFrom:    cfg.Notify.Email.From,
		Password:     cfg.Notify.Email.Password,
	}, logger.Named("notify"))

	reportMgr := report.NewManager(db, logger.Named("report"), cfg.Report.GenerateDelay)
	licenseMgr := license.NewManager(db, logger.Named("license"))
	enrollmentMgr := enrollment.NewManager(db, logger.Named("enrollment"))
	adminMgr := access.NewManager(db, notifier, logger.Named("access"))
	authSvc := auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry, adminMgr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go enrollment.NewSyncWorker(enrollmentMgr, logger.Named("sync"), cfg.Sync.Interval).Start(ctx)
	go license.NewExpiryWorker(licenseMgr, notifier, logger.Named("expiry"), cfg.License.ScanInterval).Start(ctx)

	server := api.NewServer(reportMgr, licenseMgr, enrollmentMgr, adminMgr, authSvc, logger.Named("api"))
	logger.Info("starting server", zap.Int("port", cfg.Server.Port))
	if err := server.Start(cfg.Server.Port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
