package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yukikurage/task-reminder-api/internal/database"
	"github.com/yukikurage/task-reminder-api/internal/handlers"
	"go.uber.org/zap"
)

var (
	skipMigrate   bool
	skipScheduler bool
)

func init() {
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not run database migrations on start")
	serveCmd.Flags().BoolVar(&skipScheduler, "no-scheduler", false, "do not run the due-task scheduler in this process")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the due-task scheduler",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	if !skipMigrate {
		if err := database.Migrate(a.db, logger); err != nil {
			return err
		}
	}

	gin.SetMode(cfg.GinMode)
	deps, err := a.dependencies()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !skipScheduler {
		due, err := a.dueTaskScheduler()
		if err != nil {
			return err
		}
		go due.Start(ctx)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handlers.NewRouter(*deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
