package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aliskhannn/amagambo-bot/internal/repository"
	"github.com/aliskhannn/amagambo-bot/internal/srs"
)

var dueCmd = &cobra.Command{
	Use:   "due [identity]",
	Short: "Print the facts an identity has due today",
	Long: `Prints the due set of a stored identity, ordered by level and fact ID.
Telegram users are stored as tg:<user id>.

Example:
  amagambo-bot due tg:123456789`,
	Args: cobra.ExactArgs(1),
	RunE: printDue,
}

func printDue(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	today := a.scheduler.Today()
	state, err := a.states.Load(ctx, args[0], today)
	if err != nil {
		if errors.Is(err, repository.ErrStateNotFound) {
			return fmt.Errorf("no stored state for %q", args[0])
		}
		return err
	}

	out := cmd.OutOrStdout()
	due := srs.DueSet(state, today)
	fmt.Fprintf(out, "%s (%s): %d due on %s\n", args[0], state.DisplayName, len(due), today.Format("2006-01-02"))
	for _, d := range due {
		fmt.Fprintf(out, "  %-9s %-20s interval=%dd ease=%.2f reps=%d due=%s\n",
			d.Level, d.FactID, d.Record.IntervalDays, d.Record.EaseFactor, d.Record.Repetitions,
			d.Record.NextReviewDue.Format("2006-01-02"),
		)
	}
	return nil
}
