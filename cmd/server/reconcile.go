package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/amar-295/student-finance-db-sub001/internal/storage/sqlite"
)

func reconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute stored account balances from their transactions",
		RunE:  runReconcile,
	}
	cmd.Flags().String("account", "", "reconcile a single account by id")
	cmd.Flags().Bool("all", false, "reconcile every account")
	cmd.MarkFlagsMutuallyExclusive("account", "all")
	cmd.MarkFlagsOneRequired("account", "all")
	return cmd
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	accountID, _ := cmd.Flags().GetString("account")
	ctx := cmd.Context()

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	ids := []string{accountID}
	if accountID == "" {
		if ids, err = store.ListAccountIDs(ctx); err != nil {
			return err
		}
	}

	var errs []error
	for _, id := range ids {
		balance, err := store.ReconcileAccountBalance(ctx, id)
		if err != nil {
			errs = append(errs, fmt.Errorf("account %s: %w", id, err))
			continue
		}
		slog.Info("Account reconciled", "account_id", id, "balance", balance)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Reconciled %d of %d account(s)\n", len(ids)-len(errs), len(ids))
	return errors.Join(errs...)
}
