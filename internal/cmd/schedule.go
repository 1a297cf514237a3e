package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/tgienger/pomo/internal/models"
	"github.com/tgienger/pomo/internal/planner"
)

func init() {
	var day string
	var timeline bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the schedule for a day",
		Example: `
pomo schedule
pomo schedule --timeline
pomo schedule --date 2024-03-01
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if day != "" {
				if _, err := time.ParseInLocation(models.DateLayout, day, time.Local); err != nil {
					return fmt.Errorf("--date must look like %s: %w", models.DateLayout, err)
				}
			}
			e, err := setup(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()

			day := day
			if day == "" {
				day = e.planner.Today()
			}
			out := cmd.OutOrStdout()
			bold := color.New(color.Bold)
			fmt.Fprintln(out, bold.Sprint(day))

			if timeline {
				rows := e.planner.Rows(day)
				if len(rows) == 0 {
					fmt.Fprintln(out, "Nothing scheduled.")
					return nil
				}
				fmt.Fprintln(out, timelineTable(rows))
				return nil
			}

			cards := e.planner.Cards(day)
			if len(cards) == 0 {
				fmt.Fprintln(out, "Nothing scheduled.")
				return nil
			}
			fmt.Fprintln(out, cardTable(cards))
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "date", "", "Day to show as YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&timeline, "timeline", false, "Show one row per session with its start time")

	rootCmd.AddCommand(cmd)
}

func taskLabel(task, project string, removed bool) string {
	if removed {
		return color.RedString("(deleted task)")
	}
	if project != "" {
		return project + " — " + task
	}
	return task
}

func cardTable(cards []planner.Card) *uitable.Table {
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Task"), bold.Sprint("Done"))
	for _, c := range cards {
		if c.IsOpen() {
			tbl.AddRow(color.New(color.Faint).Sprint("open slot"), "")
			continue
		}
		pips := strings.Repeat("●", c.Completed) + strings.Repeat("○", c.Total-c.Completed)
		tbl.AddRow(taskLabel(c.Task, c.Project, c.Removed), fmt.Sprintf("%s %d/%d", pips, c.Completed, c.Total))
	}
	return tbl
}

func timelineTable(rows []planner.Row) *uitable.Table {
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Start"), bold.Sprint("Task"), "")
	for _, r := range rows {
		if r.IsOpen() {
			tbl.AddRow(r.Time, color.New(color.Faint).Sprint("open"), "")
			continue
		}
		mark := " "
		if r.Done {
			mark = color.GreenString("✓")
		}
		tbl.AddRow(r.Time, taskLabel(r.Task, r.Project, r.Removed), mark)
	}
	return tbl
}
