package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aliskhannn/amagambo-bot/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/amagambo-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/amagambo-bot/internal/repository"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Upgrade every stored legacy state to the current schema",
	Long: `States are upgraded lazily when a learner comes back. migrate upgrades all
of them at once. With the postgres driver the upgrade runs in one transaction.`,
	Args: cobra.NoArgs,
	RunE: migrateStates,
}

func migrateStates(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	today := a.scheduler.Today()

	var migrated int
	if a.transactor != nil {
		err = a.transactor.WithinTx(ctx, func(ctx context.Context, tx postgres.DBTX) error {
			repo := repository.NewStateRepository(pgrepo.NewStateStore(tx), a.logger)
			migrated, err = repo.MigrateAll(ctx, today)
			return err
		})
		if err != nil {
			migrated = 0 // rolled back
		}
	} else {
		migrated, err = a.states.MigrateAll(ctx, today)
	}

	a.logger.Info("migration finished", zap.Int("migrated", migrated))
	if err != nil {
		return fmt.Errorf("migrate states: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "migrated %d state(s)\n", migrated)
	return nil
}
