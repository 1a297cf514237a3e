package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/tgienger/pomo/internal/models"
)

func init() {
	var day string

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Print the sessions logged on a day",
		Example: `
pomo log
pomo log --date 2024-03-01
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
			sessions := e.planner.History(day)
			if len(sessions) == 0 {
				fmt.Fprintf(out, "No sessions logged on %s.\n", day)
				return nil
			}

			bold := color.New(color.Bold)
			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.AddRow(bold.Sprint("Time"), bold.Sprint("Activity"), bold.Sprint("Minutes"))
			total := 0
			for _, s := range sessions {
				at := time.UnixMilli(s.Timestamp).Local().Format("15:04")
				tbl.AddRow(at, s.Activity, s.Duration)
				total += s.Duration
			}
			tbl.RightAlign(2)
			fmt.Fprintln(out, tbl)
			fmt.Fprintf(out, "\n%d session(s), %d minutes", len(sessions), total)
			if streak := e.planner.Sessions().Streak(time.Now()); streak > 1 {
				fmt.Fprintf(out, ", %s", color.YellowString("%d day streak", streak))
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "date", "", "Day to show as YYYY-MM-DD (default today)")

	rootCmd.AddCommand(cmd)
}
