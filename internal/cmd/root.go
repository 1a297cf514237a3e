package cmd

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tgienger/pomo/internal/config"
	"github.com/tgienger/pomo/internal/logging"
	"github.com/tgienger/pomo/internal/notify"
	"github.com/tgienger/pomo/internal/planner"
	"github.com/tgienger/pomo/internal/store"
	"github.com/tgienger/pomo/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "pomo",
	Short: "Pomodoro timer with a daily schedule",
	Long: `pomo runs a pomodoro timer next to a schedule of the day's work
sessions. Finished sessions are logged against the task they belong to,
unfinished tasks can be carried over to the next day and recurring tasks
are scheduled automatically.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/pomo/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("POMO")
	// POMO_TIMER_WORK_MINUTES for timer.work_minutes
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = viper.ReadInConfig()
}

// env is everything a command needs, opened from the loaded config
type env struct {
	cfg     *config.Config
	logger  *logging.Logger
	backend store.Backend
	planner *planner.Planner
}

// setup loads the config and opens the logger, the store and the planner.
// bell enables the terminal bell notifier when notify.bell is set.
func setup(cmd *cobra.Command, bell bool) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logPath, err := cfg.LogFile()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewLogger(logPath, cfg.Logging.Level)
	if err != nil {
		return nil, err
	}

	backend, err := store.Open(cfg.Storage)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	notifiers := notify.Multi{notify.NewLog(logger)}
	if bell && cfg.Notify.Bell {
		notifiers = append(notifiers, notify.NewBell(cmd.OutOrStdout()))
	}

	p := planner.New(backend, planner.Options{
		Work:     cfg.Timer.WorkDuration(),
		Break:    cfg.Timer.BreakDuration(),
		Notifier: notifiers,
		Logger:   logger,
	})
	logger.Info("pomo started", "command", cmd.Name(), "backend", cfg.Storage.Backend, "version", version)
	return &env{cfg: cfg, logger: logger, backend: backend, planner: p}, nil
}

func (e *env) Close() {
	if err := e.backend.Close(); err != nil {
		e.logger.Error("failed to close store", "error", err)
	}
	_ = e.logger.Close()
}

func runTUI(cmd *cobra.Command, _ []string) error {
	e, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	if _, err := e.planner.Init(); err != nil {
		e.logger.Error("failed to schedule recurring tasks", "error", err)
	}

	app := ui.NewApp(e.planner, ui.Options{
		TickInterval:  e.cfg.Timer.TickInterval(),
		DragThreshold: e.cfg.UI.DragThreshold,
	})
	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		return err
	}
	return nil
}
