package app

import (
	"context"

	"github.com/shashiranjanraj/agromart/app/routes"
	"github.com/shashiranjanraj/agromart/config"
	"github.com/shashiranjanraj/agromart/internal/server"
	"github.com/shashiranjanraj/agromart/pkg/grpc"
	"github.com/shashiranjanraj/agromart/pkg/logger"
	"github.com/shashiranjanraj/agromart/pkg/schedule"
)

// Serve runs the HTTP server, the optional gRPC health server (GRPC_PORT)
// and the backup schedule (BACKUP_CRON) until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	limiters := routes.NewLimiters()
	defer limiters.Stop()

	k, err := a.Kernel(limiters)
	if err != nil {
		return err
	}

	if port := config.GRPCPort(); port != "" {
		g, err := grpc.Start(port, a.checkStore)
		if err != nil {
			return err
		}
		defer g.Stop()
	}

	sched := schedule.New()
	if err := a.ScheduleBackups(sched); err != nil {
		return err
	}
	sched.Start(ctx)
	defer sched.Stop()

	return server.Start(ctx, ":"+config.AppPort(), k.Handler())
}

func (a *App) checkStore(ctx context.Context) error {
	_, err := a.Repo.Ping(ctx)
	return err
}

// ScheduleBackups registers the BACKUP_CRON backup task on s. An empty
// BACKUP_CRON registers nothing.
func (a *App) ScheduleBackups(s *schedule.Scheduler) error {
	expr := config.BackupCron()
	if expr == "" {
		return nil
	}
	return s.Cron(expr).Name("catalog-backup").WithoutOverlapping().Run(func(ctx context.Context) {
		path, err := a.Catalog.Backup(ctx, a.Backups)
		if err != nil {
			logger.Error("scheduled backup failed", "error", err)
			return
		}
		logger.Info("scheduled backup written", "path", path)
	})
}
