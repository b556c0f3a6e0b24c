package main

import (
	"fmt"

	"github.com/Veraticus/pointage/internal/cli"
	"github.com/Veraticus/pointage/internal/common"
	"github.com/Veraticus/pointage/internal/model"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse archived ledgers",
		Long:  `List, show and delete ledgers archived with 'pointage process --archive'.`,
	}

	cmd.AddCommand(historyListCmd())
	cmd.AddCommand(historyShowCmd())
	cmd.AddCommand(historyDeleteCmd())

	return cmd
}

func historyListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			store, err := openStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.GetRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderRuns(runs))
			return err
		},
	}

	cmd.Flags().IntP("limit", "n", 20, "maximum number of runs to show (0 = all)")
	return cmd
}

func historyShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the ledger rows of an archived run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verifyOnly, _ := cmd.Flags().GetBool("verify-only")

			store, err := openStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			run, err := store.GetRun(cmd.Context(), args[0])
			if err != nil {
				return common.NewUserError("unknown run "+args[0], err)
			}
			rows, err := store.GetRunRows(cmd.Context(), run.ID)
			if err != nil {
				return fmt.Errorf("failed to load run rows: %w", err)
			}

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintln(out, cli.RenderRuns([]model.Run{*run})); err != nil {
				return err
			}
			if verifyOnly {
				_, err = fmt.Fprintln(out, cli.RenderVerifyList(rows))
			} else {
				_, err = fmt.Fprintln(out, cli.RenderLedger(rows))
			}
			return err
		},
	}

	cmd.Flags().Bool("verify-only", false, "only show rows that need verification")
	return cmd
}

func historyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete an archived run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteRun(cmd.Context(), args[0]); err != nil {
				return common.NewUserError("failed to delete run "+args[0], err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted run "+args[0]))
			return err
		},
	}
}
