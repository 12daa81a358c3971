package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yukikurage/task-reminder-api/internal/database"
	"github.com/yukikurage/task-reminder-api/internal/push"
	"go.uber.org/zap"
)

func init() {
	rootCmd.AddCommand(migrateCmd, checkDueCmd, expireTasksCmd, vapidKeysCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		a, err := newApp(cfg, logger)
		if err != nil {
			return err
		}
		defer a.close()

		return database.Migrate(a.db, logger)
	},
}

var checkDueCmd = &cobra.Command{
	Use:   "check-due",
	Short: "Send reminders for tasks due today if inside the evening window",
	Long: `Run the due-task scheduler once. Outside the reminder window this does
nothing; inside it every task due today that is neither completed nor
expired triggers a Web Push reminder to its owner.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		a, err := newApp(cfg, logger)
		if err != nil {
			return err
		}
		defer a.close()

		due, err := a.dueTaskScheduler()
		if err != nil {
			return err
		}
		result, err := due.RunOnce(cmd.Context())
		if err != nil {
			return err
		}
		if !result.InWindow {
			fmt.Fprintln(cmd.OutOrStdout(), "Outside reminder window, nothing to do")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Checked %d due tasks for today, sent %d notifications\n", result.Checked, result.Sent)
		return nil
	},
}

var expireTasksCmd = &cobra.Command{
	Use:   "expire-tasks",
	Short: "Mark in-progress tasks past their due date as expired",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		a, err := newApp(cfg, logger)
		if err != nil {
			return err
		}
		defer a.close()

		n, err := a.expirySweeper().Sweep(cmd.Context())
		if err != nil {
			return err
		}
		logger.Info("expire-tasks finished", zap.Int64("expired", n))
		fmt.Fprintf(cmd.OutOrStdout(), "Expired %d tasks\n", n)
		return nil
	},
}

var vapidKeysCmd = &cobra.Command{
	Use:   "vapid-keys",
	Short: "Generate a VAPID key pair for Web Push",
	RunE: func(cmd *cobra.Command, _ []string) error {
		public, private, err := push.GenerateVAPIDKeys()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "VAPID_PUBLIC_KEY=%s\nVAPID_PRIVATE_KEY=%s\n", public, private)
		return nil
	},
}
