package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/wastewise/internal/cli"
	"github.com/Veraticus/wastewise/internal/engine"
	"github.com/Veraticus/wastewise/internal/service"
	"github.com/Veraticus/wastewise/internal/verify"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report waste from photos",
	}

	cmd.AddCommand(reportSubmitCmd())
	cmd.AddCommand(reportBatchCmd())
	cmd.AddCommand(reportListCmd())

	return cmd
}

// reporterFor wires a Reporter from config. The cleanup closes everything it opened.
func reporterFor(cmd *cobra.Command) (*engine.Reporter, service.Storage, func(), error) {
	store, err := initStorage(cmd.Context())
	if err != nil {
		return nil, nil, nil, err
	}

	client, closeClient, err := newClassifier(cmd.Context())
	if err != nil {
		_ = store.Close()
		return nil, nil, nil, err
	}

	logger := slog.Default()
	reporter := engine.NewReporter(store, verify.NewAnalyzer(client, logger), logger)
	cleanup := func() {
		closeClient()
		_ = store.Close()
	}
	return reporter, store, cleanup, nil
}

func reportSubmitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit <image>",
		Short: "Submit a waste report from a photo",
		Long: `Analyze a photo of waste and file a report at the given location.
The waste type and amount come from the classifier.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location, _ := cmd.Flags().GetString("location")

			reporter, store, cleanup, err := reporterFor(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, err := withSession(cmd.Context(), store)
			if err != nil {
				return err
			}

			report, err := reporter.Submit(ctx, location, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
				"Report #%d filed: %s, %s at %s", report.ID, report.WasteType, report.Amount, report.Location)))
			return nil
		},
	}

	cmd.Flags().StringP("location", "l", "", "where the waste is (required)")
	_ = cmd.MarkFlagRequired("location")

	return cmd
}

func reportBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <image>...",
		Short: "Submit several photos taken at one location",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location, _ := cmd.Flags().GetString("location")

			reporter, store, cleanup, err := reporterFor(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, err := withSession(cmd.Context(), store)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			bar := cli.NewProgressBar(out, len(args), "Analyzing photos...")
			results, err := reporter.SubmitBatch(ctx, location, args, cli.ProgressCallback(bar))

			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%s: %v", r.Path, r.Err)))
				}
			}
			fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("%d of %d photos reported", len(results)-failed, len(args))))
			return err
		},
	}

	cmd.Flags().StringP("location", "l", "", "where the waste is (required)")
	_ = cmd.MarkFlagRequired("location")

	return cmd
}

func reportListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent reports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			reports, err := store.GetRecentReports(cmd.Context(), limit)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderTasks(reports))
			return nil
		},
	}

	cmd.Flags().Int("limit", 10, "number of reports to show")

	return cmd
}
