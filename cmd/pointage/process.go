package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/Veraticus/pointage/internal/aggregate"
	"github.com/Veraticus/pointage/internal/cli"
	"github.com/Veraticus/pointage/internal/common"
	"github.com/Veraticus/pointage/internal/config"
	"github.com/Veraticus/pointage/internal/engine"
	"github.com/Veraticus/pointage/internal/ingest"
	"github.com/Veraticus/pointage/internal/model"
	"github.com/Veraticus/pointage/internal/report"
	"github.com/Veraticus/pointage/internal/service"
	"github.com/Veraticus/pointage/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func processCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <file>...",
		Short: "Compute the attendance ledger from punch exports",
		Long: `Read one or more time clock exports (;-delimited CSV, .xlsx or .xls),
compute worked time, shortfall and overtime for every employee-day and write
the styled report workbook.

Rows with five punches are repaired and flagged for verification. Rows whose
date cannot be read are dropped and reported.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runProcess,
	}

	cmd.Flags().StringP("output", "o", "", "report workbook path (default: Etat_de_pointage.xlsx)")
	cmd.Flags().String("encoding", "", "CSV input encoding (utf-8, windows-1252, iso-8859-1)")
	cmd.Flags().Bool("no-sort", false, "keep input order instead of sorting by employee and date")
	cmd.Flags().Bool("show-verify", false, "list the rows that need verification")
	cmd.Flags().Bool("show-totals", false, "print shortfall and overtime totals per employee")
	cmd.Flags().Bool("sheets", false, "also export the ledger to Google Sheets")
	cmd.Flags().Bool("archive", false, "archive the ledger in the local history database")
	cmd.Flags().Bool("no-progress", false, "do not draw a progress bar")
	cmd.Flags().Int("concurrency", 0, "maximum input files read at once (0 = all)")

	cmd.Flags().String("standard-work", "", "standard workday (HH:MM)")
	cmd.Flags().String("standard-break", "", "standard break (HH:MM)")

	_ = viper.BindPFlag(config.KeyOutputPath, cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag(config.KeyInputEncoding, cmd.Flags().Lookup("encoding"))
	_ = viper.BindPFlag(config.KeyStandardWork, cmd.Flags().Lookup("standard-work"))
	_ = viper.BindPFlag(config.KeyStandardBreak, cmd.Flags().Lookup("standard-break"))

	return cmd
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	schedule, err := config.LoadSchedule()
	if err != nil {
		return common.NewUserError("invalid schedule configuration", err)
	}

	noSort, _ := cmd.Flags().GetBool("no-sort")
	noProgress, _ := cmd.Flags().GetBool("no-progress")
	showVerify, _ := cmd.Flags().GetBool("show-verify")
	showTotals, _ := cmd.Flags().GetBool("show-totals")
	toSheets, _ := cmd.Flags().GetBool("sheets")
	toArchive, _ := cmd.Flags().GetBool("archive")
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	opts := processOptions{
		Sources:  args,
		Schedule: schedule,
		Sort:     viper.GetBool(config.KeyInputSort) && !noSort,
		Input: ingest.Options{
			Encoding:    viper.GetString(config.KeyInputEncoding),
			Concurrency: concurrency,
		},
	}
	if !noProgress {
		opts.Progress = cli.NewProgress(cmd.ErrOrStderr(), "Computing entries").Update
	}

	result, err := buildReport(ctx, opts)
	if err != nil {
		return common.NewUserError("failed to read punch data", err)
	}

	outputPath := config.ExpandPath(viper.GetString(config.KeyOutputPath))
	writers := []service.ReportWriter{report.NewWorkbook(outputPath, slog.Default())}

	if toSheets {
		sheetsConfig, err := config.LoadSheetsConfig()
		if err != nil {
			return common.NewUserError("Google Sheets is not configured; run 'pointage auth sheets' or set sheets.* in the config", err)
		}
		writer, err := sheets.NewWriter(ctx, *sheetsConfig, slog.Default())
		if err != nil {
			return common.NewUserError("failed to connect to Google Sheets", err)
		}
		writers = append(writers, writer)
	}

	var store service.Storage
	if toArchive {
		s, err := openStorage(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()
		store = s
	}

	if err := publish(ctx, result, writers, store); err != nil {
		return err
	}

	summary := cli.Summary{
		Output:   outputPath,
		Range:    result.Report.Range,
		Sources:  result.Run.Sources,
		Rows:     result.Run.RowCount,
		Verify:   result.Run.VerifyCount,
		Skipped:  result.Run.SkippedCount,
		Exported: toSheets,
	}
	if store != nil {
		summary.Archived = result.Run.ID
	}
	if err := printProcessSummary(cmd.OutOrStdout(), summary, result.Report.Rows, showVerify); err != nil {
		return err
	}
	if showTotals {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderTotals(result.Totals))
	}
	return err
}

// processOptions carries everything buildReport needs, already resolved from
// flags and configuration.
type processOptions struct {
	Progress engine.ProgressFunc
	Sources  []string
	Input    ingest.Options
	Schedule model.Schedule
	Sort     bool
}

type processResult struct {
	Report  *model.Report
	Run     *model.Run
	Skipped []engine.Skipped
	Totals  []aggregate.RunningTotal
}

// buildReport reads the sources and runs the engine and the aggregator.
func buildReport(ctx context.Context, opts processOptions) (*processResult, error) {
	table, err := ingest.ReadFiles(ctx, opts.Sources, opts.Input)
	if err != nil {
		return nil, err
	}
	slog.Debug("Input read", "files", len(opts.Sources), "records", len(table.Records))

	result := engine.New(opts.Schedule, engine.WithProgress(opts.Progress)).Process(table.Records)
	for _, s := range result.Skipped {
		common.LogWarn("Dropped row", common.Fields{
			"row":      s.Row + 1,
			"employee": s.EmployeeID,
			"date":     s.Date,
			"reason":   s.Reason,
		})
	}

	entries := result.Entries
	if opts.Sort {
		aggregate.SortByEmployee(entries)
	}

	rows := aggregate.Aggregate(entries)
	rep := &model.Report{
		Range: aggregate.ReportRange(entries),
		Input: table.Raw,
		Rows:  rows,
	}

	sources := make([]string, len(opts.Sources))
	for i, src := range opts.Sources {
		sources[i] = filepath.Base(src)
	}

	return &processResult{
		Report:  rep,
		Skipped: result.Skipped,
		Totals:  aggregate.Totals(entries),
		Run: &model.Run{
			Sources:      sources,
			Range:        rep.Range,
			RowCount:     len(rows),
			VerifyCount:  result.VerifyCount(),
			SkippedCount: len(result.Skipped),
		},
	}, nil
}

// publish hands the report to every writer in order, then archives it.
func publish(ctx context.Context, result *processResult, writers []service.ReportWriter, store service.Storage) error {
	for _, w := range writers {
		if err := w.Write(ctx, result.Report); err != nil {
			return common.NewUserError("failed to write report", err)
		}
	}

	if store != nil {
		if err := store.SaveRun(ctx, result.Run, result.Report.Rows); err != nil {
			return common.NewUserError("failed to archive ledger", err)
		}
		common.LogInfo("Ledger archived", common.Fields{"run": result.Run.ID, "rows": result.Run.RowCount})
	}
	return nil
}

func printProcessSummary(out io.Writer, summary cli.Summary, rows []model.LedgerRow, showVerify bool) error {
	if _, err := fmt.Fprintln(out, cli.RenderSummary(summary)); err != nil {
		return err
	}
	if showVerify && summary.Verify > 0 {
		if _, err := fmt.Fprintln(out, cli.RenderVerifyList(rows)); err != nil {
			return err
		}
	}
	return nil
}
