package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tgienger/pomo/internal/models"
	"github.com/tgienger/pomo/internal/planner"
	"github.com/tgienger/pomo/internal/schedule"
	"github.com/tgienger/pomo/internal/timer"
)

var errInterrupted = errors.New("session interrupted")

func init() {
	var activity string
	var noBreak bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one work session without the interface",
		Long: `run counts down one work period in the terminal and logs it like the
interface would: against the first unfinished task on today's schedule, or
under the name given with --activity (asked for on stdin otherwise).
The break follows unless --no-break is set.`,
		Example: `
pomo run
pomo run --activity "emails" --no-break
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd, true)
			if err != nil {
				return err
			}
			defer e.Close()

			if _, err := e.planner.Init(); err != nil {
				e.logger.Error("failed to schedule recurring tasks", "error", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ticks := timer.Ticks(ctx, e.cfg.Timer.TickInterval())
			err = runSession(ctx, e.planner, ticks, cmd.InOrStdin(), cmd.OutOrStdout(), activity, noBreak)
			if errors.Is(err, errInterrupted) {
				e.planner.Pause()
				e.logger.Info("headless session interrupted")
			}
			return err
		},
	}

	cmd.Flags().StringVar(&activity, "activity", "", "Name to log the session under when no scheduled task is active")
	cmd.Flags().BoolVar(&noBreak, "no-break", false, "Stop after the work period instead of running the break")

	rootCmd.AddCommand(cmd)
}

// runSession drives p from ticks until the work period (and, unless
// noBreak, the following break) has finished.
func runSession(ctx context.Context, p *planner.Planner, ticks <-chan time.Time, in io.Reader, out io.Writer, activity string, noBreak bool) error {
	if !p.Start() {
		return errors.New("timer could not be started")
	}
	if a := p.Active(); a.Status == schedule.StatusActive {
		fmt.Fprintf(out, "Working on %s\n", describeActive(a))
	}

	reader := bufio.NewReader(in)
	last := ""
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return errInterrupted
		case _, ok := <-ticks:
			if !ok {
				return errInterrupted
			}
		}

		res := p.Tick()
		if st := p.Timer(); st.Display() != last {
			last = st.Display()
			label := "work "
			if st.IsBreak {
				label = "break"
			}
			fmt.Fprintf(out, "\r%s %s", label, last)
		}

		switch res.Event {
		case timer.EventWorkEnd:
			fmt.Fprintln(out)
			if res.NeedsActivity {
				session, err := nameSession(p, reader, out, activity)
				if err != nil {
					p.Reset()
					return err
				}
				res.Logged = &session
			}
			fmt.Fprintf(out, "%s %s (%d min)\n", color.GreenString("Logged"), res.Logged.Activity, res.Logged.Duration)
			if noBreak {
				p.Reset()
				return nil
			}
			last = ""
		case timer.EventBreakEnd:
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Break over.")
			return nil
		}
	}
}

func nameSession(p *planner.Planner, reader *bufio.Reader, out io.Writer, activity string) (s models.Session, err error) {
	if strings.TrimSpace(activity) != "" {
		return p.LogActivity(activity)
	}
	for {
		fmt.Fprint(out, "What did you work on? ")
		line, readErr := reader.ReadString('\n')
		if strings.TrimSpace(line) != "" {
			return p.LogActivity(line)
		}
		if readErr != nil {
			return s, fmt.Errorf("no activity name given: %w", readErr)
		}
	}
}

func describeActive(a planner.ActiveSlot) string {
	name := a.Task
	if a.Project != "" {
		name = a.Project + " — " + a.Task
	}
	return fmt.Sprintf("%s (%s)", name, a.Progress())
}
