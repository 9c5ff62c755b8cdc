package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payengine <transactions.csv>",
		Short: "Replay a transaction log and print the account snapshot",
		Long: `payengine replays deposits, withdrawals, disputes, resolves and chargebacks
from a CSV file in order and prints the final state of every client account.

Logs go to the log file (LOG_FILE, default log.txt); stdout carries only the snapshot.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runReplay,
	}

	cmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (env LOG_LEVEL)")
	cmd.PersistentFlags().String("log-format", "", "log format: json or console (env LOG_FORMAT)")
	cmd.PersistentFlags().String("log-file", "", `log file, "-" for stderr (env LOG_FILE)`)
	cmd.PersistentFlags().String("metrics-file", "", "write Prometheus metrics to this file after the run (env METRICS_FILE)")
	cmd.Flags().StringP("output", "o", "", "snapshot format: csv, json or none (env OUTPUT_FORMAT)")

	cmd.AddCommand(newServeCmd(), newMigrateCmd())

	return cmd
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	uc, result, err := a.replay(cmd.Context(), args[0])
	if err != nil {
		a.logger.Error().Err(err).Msg("replay failed")
		return err
	}

	if err := uc.Export(cmd.Context(), result); err != nil {
		return err
	}

	return a.writeMetrics()
}
