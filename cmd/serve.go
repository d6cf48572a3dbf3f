package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"studyhub/core/loader"
	"studyhub/core/logger"
	"studyhub/core/metrics"
	"studyhub/core/middleware/auth"
	"studyhub/core/middleware/rayid"
	"studyhub/core/models"
	"studyhub/core/notify"
	"studyhub/feature/backup"
	"studyhub/feature/groups"
	"studyhub/feature/integrity"
	"studyhub/feature/tasks"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "studyhub/docs/swagger"
)

// @title StudyHub API
// @version 1.0
// @description Local API for the StudyHub app shell: tasks, study groups and backups.
// @host localhost:8080
// @BasePath /

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local API server",
	Long:  `Starts the HTTP server for the app shell, arms pending reminders and loads all enabled features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := setup(ctx)
		if err != nil {
			return err
		}
		logg := e.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if !e.cfg.Server.IsLoopback() && e.cfg.Server.ApiKey == "" {
			logg.Warn("API reachable off-device without an API key", zap.String("host", e.cfg.Server.Host))
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m := metrics.New(reg)

		target, client, err := e.backupTarget(ctx)
		if err != nil {
			return err
		}
		prefix := ""
		if client != nil {
			prefix = e.cfg.Backup.BucketPrefix
		}

		scheduler := notify.NewLocal(logg, nil)
		defer scheduler.Stop()

		taskFeature := tasks.NewFeature(e.store, scheduler, e.calendarAdapter(ctx), e.cfg.Calendar, e.cfg.Notify, logg)
		if n, err := taskFeature.Service().RescheduleAll(ctx); err != nil {
			logg.Warn("Failed to re-arm reminders", zap.Error(err))
		} else {
			logg.Info("Reminders armed", zap.Int("count", n))
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager(logg)
		mgr.Register(groups.NewFeature(e.store, m, logg))
		mgr.Register(taskFeature)
		backupFeature := backup.NewFeature(e.store, target, e.cfg.Backup.Prefix, m, logg)
		backupFeature.Service().OnImport(func(ctx context.Context, previous []models.Task) error {
			n, err := taskFeature.Service().SyncReminders(ctx, previous)
			if err != nil {
				return err
			}
			logg.Info("Reminders re-armed after import", zap.Int("count", n))
			return nil
		})
		mgr.Register(backupFeature)
		mgr.Register(integrity.NewFeature(e.store, e.store.DB(), client, e.cfg.Storage, prefix, logg))

		// RayID first so every log line carries it
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Public
		app.Get("/swagger/*", swagger.HandlerDefault)
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

		app.Use(auth.New(auth.Config{ApiKey: e.cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		go func() {
			logg.Info("Starting server", zap.String("addr", e.cfg.Server.Addr()))
			if err := app.Listen(e.cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
