package cli

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/tomodo/internal/config"
	"github.com/sadopc/tomodo/internal/logging"
	"github.com/sadopc/tomodo/internal/pomodoro"
	"github.com/sadopc/tomodo/internal/store"
	"github.com/sadopc/tomodo/internal/tui"
)

// RootCommand is the tomodo command tree.
type RootCommand struct {
	cmd     *cobra.Command
	cfg     *config.Config
	cfgPath string

	// runTUI starts the interactive program; replaced in tests.
	runTUI func(s *session) error
}

// NewRootCommand builds the root command and its subcommands.
func NewRootCommand() *RootCommand {
	root := &RootCommand{}
	root.runTUI = root.startTUI

	root.cmd = &cobra.Command{
		Use:   "tomodo",
		Short: "A pomodoro timer with a task list",
		Long: `tomodo is a terminal pomodoro timer. Pick a task, start the countdown and
every finished work phase is credited to the task and to today's statistics.

CONFIGURATION:
  Priority order: command-line flags > environment variables > config file > defaults

    TOMODO_WORK_MINUTES       Work phase length (default: 25)
    TOMODO_BREAK_MINUTES      Break phase length (default: 5)
    TOMODO_REQUIRE_TASK       Refuse to start without a selected task (default: true)
    TOMODO_START_MUTED        Start with the completion bell off (default: false)
    TOMODO_BACKEND            Storage backend: sqlite or json (default: sqlite)
    TOMODO_DB_PATH            Storage file (default: under the user config dir)
    TOMODO_DEBUG              Write debug logs to the log file
    TOMODO_LOG_FILE           Debug log file

EXAMPLES:
  tomodo                          # Open the timer
  tomodo add "Write the report"   # Add a task
  tomodo list                     # Show tasks
  tomodo stats --days 30          # Daily statistics for the last 30 days
  tomodo export --format json     # Export tasks and statistics`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.loadConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(root.cfg)
			if err != nil {
				return err
			}
			defer s.Close()
			return root.runTUI(s)
		},
	}

	root.addGlobalFlags()
	root.cmd.AddCommand(
		root.newAddCommand(),
		root.newListCommand(),
		root.newStatsCommand(),
		root.newExportCommand(),
	)

	return root
}

// Execute runs the command tree with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

func (r *RootCommand) Execute() error {
	return r.cmd.Execute()
}

// SetArgs, SetOut and SetErr expose cobra's test hooks.
func (r *RootCommand) SetArgs(args []string) { r.cmd.SetArgs(args) }
func (r *RootCommand) SetOut(w io.Writer)    { r.cmd.SetOut(w) }
func (r *RootCommand) SetErr(w io.Writer)    { r.cmd.SetErr(w) }

func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "Config file (default: $XDG_CONFIG_HOME/tomodo/config.yaml)")
	flags.String("backend", "", "Storage backend: sqlite or json (overrides TOMODO_BACKEND)")
	flags.String("db", "", "Storage file (overrides TOMODO_DB_PATH)")
	flags.Int("work", 0, "Work phase minutes (overrides TOMODO_WORK_MINUTES)")
	flags.Int("break", 0, "Break phase minutes (overrides TOMODO_BREAK_MINUTES)")
	flags.Bool("require-task", true, "Require a selected task to start (overrides TOMODO_REQUIRE_TASK)")
	flags.Bool("debug", false, "Write debug logs (overrides TOMODO_DEBUG)")
}

// loadConfig layers defaults, the config file, the environment and changed flags.
func (r *RootCommand) loadConfig(cmd *cobra.Command) error {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var o config.Overrides
	if flags.Changed("backend") {
		v, _ := flags.GetString("backend")
		o.Backend = &v
	}
	if flags.Changed("db") {
		v, _ := flags.GetString("db")
		o.Path = &v
	}
	if flags.Changed("work") {
		v, _ := flags.GetInt("work")
		o.WorkMinutes = &v
	}
	if flags.Changed("break") {
		v, _ := flags.GetInt("break")
		o.BreakMinutes = &v
	}
	if flags.Changed("require-task") {
		v, _ := flags.GetBool("require-task")
		o.RequireTask = &v
	}
	if flags.Changed("debug") {
		v, _ := flags.GetBool("debug")
		o.Debug = &v
	}
	if err := cfg.Apply(o); err != nil {
		return err
	}

	r.cfg = cfg
	r.cfgPath = path

	logging.SetDebug(cfg.Debug)
	logging.UseWriter(cmd.ErrOrStderr())
	return nil
}

func (r *RootCommand) startTUI(s *session) error {
	logFile, err := logging.Setup(r.cfg.LogPath(), r.cfg.Debug)
	if err != nil && r.cfg.Debug {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	clk := tui.NewClock()
	engine := pomodoro.NewEngine(r.cfg.Engine(), s.tasks, s.stats, clk, tui.NewBell(os.Stderr))
	defer engine.Close()

	logging.Debugf("starting tui: backend=%s work=%dm break=%dm", r.cfg.Storage.Backend, r.cfg.Timer.WorkMinutes, r.cfg.Timer.BreakMinutes)

	app := tui.NewApp(engine, clk, r.cfg, r.cfgPath)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// session is an open store with the task registry and ledger loaded from it.
type session struct {
	backend store.Backend
	tasks   *pomodoro.Registry
	stats   *pomodoro.Ledger
}

func openSession(cfg *config.Config) (*session, error) {
	b, err := store.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return &session{
		backend: b,
		tasks:   pomodoro.NewRegistry(b),
		stats:   pomodoro.NewLedger(b),
	}, nil
}

func (s *session) Close() error {
	return s.backend.Close()
}
