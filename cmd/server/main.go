// Package main runs the task reminder API and its batch commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yukikurage/task-reminder-api/internal/config"
	"github.com/yukikurage/task-reminder-api/internal/logging"
	"go.uber.org/zap"
)

var (
	// configPath points at an optional .env or YAML file
	configPath string
	version    = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "task-reminder-api",
	Short: "Task management API with evening Web Push reminders",
	Long: `task-reminder-api serves the task management HTTP API and runs the
evening due-task reminder scheduler. The remaining subcommands run single
batch jobs for use from cron.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (.env or YAML); environment variables take precedence")
}

// bootstrap loads configuration and builds the process logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return cfg, logger, nil
}
