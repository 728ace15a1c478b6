package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "amagambo-bot",
	Short: "Kinyarwanda vocabulary trainer for Telegram",
	Long: `amagambo-bot teaches Kinyarwanda words with spaced repetition.

Words come from the Gemini API or from a local catalog, and every learner's
review schedule is kept in PostgreSQL, SQLite or memory.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(runCmd, dueCmd, migrateCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
