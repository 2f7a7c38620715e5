package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/wastewise/internal/cli"
	"github.com/Veraticus/wastewise/internal/config"
	"github.com/Veraticus/wastewise/internal/engine"
	"github.com/Veraticus/wastewise/internal/llm"
	"github.com/Veraticus/wastewise/internal/model"
	"github.com/Veraticus/wastewise/internal/service"
	"github.com/Veraticus/wastewise/internal/verify"
	"github.com/spf13/cobra"
)

func taskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Find, claim and verify collection tasks",
	}

	cmd.AddCommand(taskListCmd())
	cmd.AddCommand(taskClaimCmd())
	cmd.AddCommand(taskCompleteCmd())
	cmd.AddCommand(taskVerifyCmd())

	return cmd
}

func taskListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List collection tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			statusFlag, _ := cmd.Flags().GetString("status")
			search, _ := cmd.Flags().GetString("search")
			limit, _ := cmd.Flags().GetInt("limit")
			offset, _ := cmd.Flags().GetInt("offset")

			filter := service.TaskFilter{Location: search, Limit: limit, Offset: offset}
			if statusFlag != "" {
				status, err := model.ParseTaskStatus(statusFlag)
				if err != nil {
					return err
				}
				filter.Status = status
			}

			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			tasks, err := store.GetCollectionTasks(cmd.Context(), filter)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderTasks(tasks))
			return nil
		},
	}

	cmd.Flags().String("status", "", "only tasks in this status (pending, in_progress, completed, verified)")
	cmd.Flags().String("search", "", "only tasks whose location contains this text")
	cmd.Flags().Int("limit", 20, "page size (0 for all)")
	cmd.Flags().Int("offset", 0, "tasks to skip")

	return cmd
}

func taskTransitionCmd(use, short string, move func(*engine.Collector, *cobra.Command, int64) (*model.Report, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ctx, err := withSession(cmd.Context(), store)
			if err != nil {
				return err
			}
			cmd.SetContext(ctx)

			// Status changes never reach the classifier.
			collector := engine.NewCollector(store, nil, slog.Default())
			report, err := move(collector, cmd, id)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Task #%d is now %s", report.ID, report.Status)))
			return nil
		},
	}
}

func taskClaimCmd() *cobra.Command {
	return taskTransitionCmd("claim <id>", "Claim a pending task",
		func(c *engine.Collector, cmd *cobra.Command, id int64) (*model.Report, error) {
			return c.Claim(cmd.Context(), id)
		})
}

func taskCompleteCmd() *cobra.Command {
	return taskTransitionCmd("complete <id>", "Mark a claimed task as collected",
		func(c *engine.Collector, cmd *cobra.Command, id int64) (*model.Report, error) {
			return c.Complete(cmd.Context(), id)
		})
}

func taskVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <id> <image>",
		Short: "Verify a collection with a photo",
		Long: `Send a photo of the collected waste to the classifier and compare it
with the task's report. A match earns tokens and marks the task verified.
Anything else leaves the task as it was, so you can try again.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			image, err := llm.LoadImage(args[1])
			if err != nil {
				return err
			}

			policy, err := config.LoadVerifyConfig()
			if err != nil {
				return err
			}

			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ctx, err := withSession(cmd.Context(), store)
			if err != nil {
				return err
			}

			client, closeClient, err := newClassifier(ctx)
			if err != nil {
				return err
			}
			defer closeClient()

			logger := slog.Default()
			collector := engine.NewCollector(store, verify.NewVerifier(client, policy, logger), logger)

			outcome, err := collector.VerifyTask(ctx, id, image)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderOutcome(outcome))
			return nil
		},
	}
}
