package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jryandunlap/brain-dump/internal/app"
	"github.com/jryandunlap/brain-dump/internal/logger"
	"github.com/jryandunlap/brain-dump/internal/models/task"
	"github.com/jryandunlap/brain-dump/internal/stats"
)

func tasksCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Inspect a user's tasks",
	}

	var userID string
	var frenzy bool
	top := &cobra.Command{
		Use:   "top",
		Short: "Show the dashboard summary and the highest priority pending tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return fmt.Errorf("--user is required")
			}
			cfg, err := load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			repository, closeRepo, err := app.OpenRepository(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeRepo()

			tasks, err := repository.ListByUser(cmd.Context(), userID)
			if err != nil {
				return fmt.Errorf("list tasks: %w", err)
			}
			renderSummary(os.Stdout, stats.Compute(tasks, time.Now(), frenzy))
			return nil
		},
	}
	top.Flags().StringVar(&userID, "user", "", "user id")
	top.Flags().BoolVar(&frenzy, "frenzy", false, "only tasks of five minutes or less")

	cmd.AddCommand(top)
	return cmd
}

func renderSummary(out io.Writer, summary stats.Summary) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"#", "Title", "Urgency", "Effort", "Priority"})
	for i, t := range summary.Top {
		tw.AppendRow(table.Row{i + 1, t.Title, t.Urgency, effortCell(t), t.Priority})
	}
	tw.AppendFooter(table.Row{"", fmt.Sprintf("streak %d, %d done this week", summary.Streak, summary.CompletedThisWeek),
		fmt.Sprintf("%d quick wins", summary.QuickWins), "points", summary.TotalPoints})
	tw.Render()
}

func effortCell(t *task.Task) string {
	if t.Effort == nil {
		return "-"
	}
	return *t.Effort
}
