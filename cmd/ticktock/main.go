package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ticktock/internal/app"
	"ticktock/internal/config"
	"ticktock/internal/tracker"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config, applies environment overrides and creates an
// App. The caller must close it, usually through finish.
// operation identifies the CLI command being run (e.g. "StartTimer", "Status").
func newApp(operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	a, err := app.New(cfg, defaults["config_path"], operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	if err := a.LoadErr(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\nStarting with no projects; the unreadable file was kept as %s.corrupt\n",
			err, a.Store().DataFile())
	}
	return a, nil
}

// finish closes the app and reports the close error unless the command
// already failed.
func finish(a *app.App, err *error) {
	if cerr := a.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}

var rootCmd = &cobra.Command{
	Use:          "ticktock",
	Short:        "Track time per project and sub-activity",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if env, _ := cmd.Flags().GetString("env"); env != "" {
			parsed, err := config.ParseEnvironment(env)
			if err != nil {
				return err
			}
			cfg.Env = parsed
		}
		if locked, _ := cmd.Flags().GetBool("locked"); locked {
			cfg.Locked = true
		}

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Environment: %s\n", cfg.Environment())
		fmt.Printf("Base Dir:    %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
		if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
			return err
		}

		env := cfg.Environment()
		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Environment:   %s\n", env)
		fmt.Printf("Locked:        %t\n", cfg.Locked)
		fmt.Printf("Base Dir:      %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:       %s\n", cfg.LogDir)
		fmt.Printf("Data File:     %s\n", cfg.DataFile(env))
		fmt.Printf("Auto Save:     %s\n", cfg.AutoSaveInterval())
		fmt.Printf("Backups:       %t (keep %d, %s)\n", cfg.BackupEnabled(), cfg.MaxBackups(), cfg.BackupDirectory())
		fmt.Printf("Journal:       %s\n", cfg.Journal.Type)
		fmt.Printf("Debug:         %t\n", cfg.IsDebug())
		return nil
	},
}

// project command
var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		alias, _ := cmd.Flags().GetString("alias")
		ref, _ := cmd.Flags().GetString("ref")
		bare, _ := cmd.Flags().GetBool("bare")

		a, err := newApp("AddProject")
		if err != nil {
			return err
		}
		defer finish(a, &err)

		p, err := a.AddProject(args[0], ref, alias, !bare)
		if err != nil {
			return err
		}
		fmt.Printf("Added project %s (%s)\n", p.Name, p.Alias)
		return nil
	},
}

var projectRemoveCmd = &cobra.Command{
	Use:   "rm ALIAS",
	Short: "Remove a project and all its records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp("RemoveProject")
		if err != nil {
			return err
		}
		defer finish(a, &err)

		if err := a.RemoveProject(args[0]); err != nil {
			return err
		}
		fmt.Printf("Removed project %s\n", args[0])
		return nil
	},
}

var projectEditCmd = &cobra.Command{
	Use:   "edit ALIAS",
	Short: "Edit a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp("UpdateProject")
		if err != nil {
			return err
		}
		defer finish(a, &err)

		p := a.Store().Project(args[0])
		if p == nil {
			return fmt.Errorf("project %q: %w", args[0], tracker.ErrProjectNotFound)
		}
		name, ref := p.Name, p.Reference
		if cmd.Flags().Changed("name") {
			name, _ = cmd.Flags().GetString("name")
		}
		if cmd.Flags().Changed("ref") {
			ref, _ = cmd.Flags().GetString("ref")
		}
		newAlias, _ := cmd.Flags().GetString("alias")

		if err := a.UpdateProject(args[0], name, ref, newAlias); err != nil {
			return err
		}
		fmt.Printf("Updated project %s\n", args[0])
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List projects with today's totals",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp("ListProjects")
		if err != nil {
			return err
		}
		defer finish(a, &err)

		snap := a.Store().Snapshot()
		if len(snap.Projects) == 0 {
			fmt.Println("No projects.")
			return nil
		}

		today := tracker.DateKey(snap.TakenAt)
		live := a.Store()
		for _, p := range snap.Projects {
			marker := " "
			if p.Alias == snap.CurrentProjectAlias {
				marker = "*"
			}
			running := ""
			if lp := live.Project(p.Alias); lp != nil && lp.RunningRecord() != nil {
				running = "  [running]"
			}
			fmt.Printf("%s %-15s %s  %-30s %s%s\n", marker, p.Alias, todayTotal(p.Record(today)), p.Name, p.Reference, running)
			for _, sub := range p.SubActivities() {
				subMarker := " "
				if p.Alias == snap.CurrentProjectAlias && sub.Alias == snap.CurrentSubActivityAlias {
					subMarker = "*"
				}
				fmt.Printf("    %s %-11s %s  %s\n", subMarker, sub.Alias, todayTotal(sub.Record(today)), sub.Name)
			}
		}
		return nil
	},
}

func todayTotal(r *tracker.TimeRecord) string {
	if r == nil {
		return tracker.FormatSeconds(0)
	}
	return tracker.FormatSeconds(r.TotalSeconds)
}

// sub command
var subCmd = &cobra.Command{
	Use:   "sub",
	Short: "Manage sub-activities",
}

var subAddCmd = &cobra.Command{
	Use:   "add PROJECT NAME ALIAS",
	Short: "Add a sub-activity to a project",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp("AddSubActivity")
		if err != nil {
			return err
		}
		defer finish(a, &err)

		sub, err := a.AddSubActivity(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Printf("Added sub-activity %s (%s) to %s\n", sub.Name, sub.Alias, args[0])
		return nil
	},
}

var subRemoveCmd = &cobra.Command{
	Use:   "rm PROJECT ALIAS",
	Short: "Remove a sub-activity",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp("RemoveSubActivity")
		if err != nil {
			return err
		}
		defer finish(a, &err)

		if err := a.RemoveSubActivity(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Removed sub-activity %s from %s\n", args[1], args[0])
		return nil
	},
}

// selection and timers
var selectCmd = &cobra.Command{
	Use:   "select PROJECT [SUB]",
	Short: "Select the current project and sub-activity",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp("Select")
		if err != nil {
			return err
		}
		defer finish(a, &err)

		sub := ""
		if len(args) == 2 {
			sub = args[1]
		}
		if err := a.Select(args[0], sub); err != nil {
			return err
		}
		printStatus(a.Status())
		return nil
	},
}

var startCmd = &cobra.Command{
	Use:   "start [PROJECT [SUB]]",
	Short: "Start the timer of the current or given selection",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp("StartTimer")
		if err != nil {
			return err
		}
		defer finish(a, &err)

		var project, sub string
		if len(args) > 0 {
			project = args[0]
		}
		if len(args) > 1 {
			sub = args[1]
		}
		if err := a.Start(project, sub); err != nil {
			return err
		}
		printStatus(a.Status())
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop all timers",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp("StopTimers")
		if err != nil {
			return err
		}
		defer finish(a, &err)

		n := a.Stop()
		fmt.Printf("Stopped %d timer(s)\n", n)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current selection and today's totals",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		watch, _ := cmd.Flags().GetBool("watch")

		a, err := newApp("Status")
		if err != nil {
			return err
		}
		defer finish(a, &err)

		if !watch {
			printStatus(a.Status())
			return nil
		}
		return watchStatus(cmd.Context(), a)
	},
}

// watchStatus refreshes the status once per second and runs the autosave
// cycle until interrupted. On a terminal the line is redrawn in place.
// Autosave failures are reported and the loop keeps going.
func watchStatus(ctx context.Context, a *app.App) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	inPlace := term.IsTerminal(int(os.Stdout.Fd()))
	err := a.Watch(ctx, time.Second, func(st tracker.Status, saveErr error) {
		if saveErr != nil {
			if inPlace {
				fmt.Println()
			}
			fmt.Fprintf(os.Stderr, "warning: autosave failed: %v\n", saveErr)
		}
		line := statusLine(st)
		if inPlace {
			fmt.Printf("\r\033[K%s", line)
		} else {
			fmt.Println(line)
		}
	})
	if inPlace {
		fmt.Println()
	}
	return err
}

func statusLine(st tracker.Status) string {
	if st.ProjectAlias == "" {
		return fmt.Sprintf("[%s] no project selected", st.Environment)
	}
	state := "stopped"
	if st.Running {
		state = "running"
	}
	line := fmt.Sprintf("[%s] %s %s %s", st.Environment, state, st.ProjectAlias, tracker.FormatSeconds(st.ProjectSeconds))
	if st.SubActivityAlias != "" {
		line += fmt.Sprintf("  %s %s", st.SubActivityAlias, tracker.FormatSeconds(st.SubActivitySeconds))
	}
	return line
}

func printStatus(st tracker.Status) {
	fmt.Println(statusLine(st))
}

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Write the data file now",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp("Save")
		if err != nil {
			return err
		}
		defer finish(a, &err)

		if err := a.Save(); err != nil {
			return err
		}
		fmt.Printf("Saved %s\n", a.Store().DataFile())
		return nil
	},
}

// env command
var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Manage environments",
}

var envShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active environment",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp("ShowEnvironment")
		if err != nil {
			return err
		}
		defer finish(a, &err)

		fmt.Printf("%s\t%s\n", a.Store().Environment(), a.Store().DataFile())
		return nil
	},
}

var envSwitchCmd = &cobra.Command{
	Use:   "switch ENV",
	Short: "Save, then switch to another environment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp("SwitchEnvironment")
		if err != nil {
			return err
		}
		defer finish(a, &err)

		if err := a.SwitchEnvironment(args[0]); err != nil {
			return err
		}
		fmt.Printf("Switched to %s (%d projects)\n", a.Store().Environment(), len(a.Store().Projects()))
		return nil
	},
}

var envMigrateCmd = &cobra.Command{
	Use:   "migrate SRC DST",
	Short: "Copy one environment's data file over another's",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp("MigrateData")
		if err != nil {
			return err
		}
		defer finish(a, &err)

		if err := a.Migrate(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Copied %s data to %s\n", args[0], args[1])
		return nil
	},
}

var envCopyCmd = &cobra.Command{
	Use:   "copy ENV",
	Short: "Save and copy the active environment's data to ENV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp("CopyData")
		if err != nil {
			return err
		}
		defer finish(a, &err)

		if err := a.CopyTo(args[0]); err != nil {
			return err
		}
		fmt.Printf("Copied %s data to %s\n", a.Store().Environment(), args[0])
		return nil
	},
}

var envPromoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Copy development data over production",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp("Promote")
		if err != nil {
			return err
		}
		defer finish(a, &err)

		if err := a.Promote(); err != nil {
			return err
		}
		fmt.Println("Promoted development data to production")
		return nil
	},
}

var envDevCopyCmd = &cobra.Command{
	Use:   "devcopy",
	Short: "Copy production data over development",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp("DevCopy")
		if err != nil {
			return err
		}
		defer finish(a, &err)

		if err := a.DevCopy(); err != nil {
			return err
		}
		fmt.Println("Copied production data to development")
		return nil
	},
}

// backup command
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage data file backups",
}

var backupListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List backups of the active data file",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp("ListBackups")
		if err != nil {
			return err
		}
		defer finish(a, &err)

		names, err := a.Backups()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("No backups.")
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore NAME",
	Short: "Replace the active data file with a backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp("RestoreBackup")
		if err != nil {
			return err
		}
		defer finish(a, &err)

		if err := a.RestoreBackup(args[0]); err != nil {
			return err
		}
		fmt.Printf("Restored %s (%d projects)\n", args[0], len(a.Store().Projects()))
		return nil
	},
}

// report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show monthly totals",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		monthFlag, _ := cmd.Flags().GetString("month")
		month := time.Now()
		if monthFlag != "" {
			month, err = time.Parse("2006-01", monthFlag)
			if err != nil {
				return fmt.Errorf("invalid month %q, want YYYY-MM", monthFlag)
			}
		}

		a, err := newApp("Report")
		if err != nil {
			return err
		}
		defer finish(a, &err)

		printReport(a.MonthlyReport(month.Year(), month.Month()))
		return nil
	},
}

func printReport(m *tracker.MonthlyTotals) {
	fmt.Printf("%s %d\n\n", m.Month, m.Year)
	if m.GrandTotal == 0 {
		fmt.Println("No time recorded.")
		return
	}

	for _, p := range m.Projects {
		if p.Total == 0 {
			continue
		}
		fmt.Printf("%-20s %s  %s\n", p.Alias, tracker.FormatSeconds(p.Total), p.Reference)
		if p.GeneralTotal > 0 {
			fmt.Printf("  %-18s %s\n", "(general)", tracker.FormatSeconds(p.GeneralTotal))
		}
		for _, sub := range p.SubActivities {
			if sub.Total > 0 {
				fmt.Printf("  %-18s %s\n", sub.Alias, tracker.FormatSeconds(sub.Total))
			}
		}
	}

	fmt.Println()
	var days []string
	for d, v := range m.DailyTotals {
		if v > 0 {
			days = append(days, fmt.Sprintf("%02d %s", d+1, tracker.FormatSeconds(v)))
		}
	}
	fmt.Println(strings.Join(days, "\n"))
	fmt.Printf("\n%-20s %s\n", "total", tracker.FormatSeconds(m.GrandTotal))
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View recorded timer sessions",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("History")
		if err != nil {
			return err
		}
		defer finish(a, &err)

		sessions, err := a.History(limit)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions recorded.")
			return nil
		}

		for _, s := range sessions {
			sub := s.SubActivityAlias
			if sub == "" {
				sub = "-"
			}
			fmt.Printf("%s  %s-%s  %-11s %-15s %-11s %s\n",
				s.Date,
				s.StartedAt.Local().Format("15:04:05"),
				s.StoppedAt.Local().Format("15:04:05"),
				s.Environment,
				s.ProjectAlias,
				sub,
				tracker.FormatSeconds(s.Seconds),
			)
		}
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().String("env", "", "Initial environment (development, production, test, prototype)")
	configInitCmd.Flags().Bool("locked", false, "Pin the configuration to the prototype policy")
	configCmd.AddCommand(configListCmd)

	// project subcommands
	projectCmd.AddCommand(projectAddCmd)
	projectAddCmd.Flags().StringP("alias", "a", "", "Short alias (defaults to the name)")
	projectAddCmd.Flags().StringP("ref", "r", "", "Reference number")
	projectAddCmd.Flags().Bool("bare", false, "Do not create the default sub-activity")
	projectCmd.AddCommand(projectRemoveCmd)
	projectCmd.AddCommand(projectEditCmd)
	projectEditCmd.Flags().String("name", "", "New name")
	projectEditCmd.Flags().StringP("ref", "r", "", "New reference number")
	projectEditCmd.Flags().StringP("alias", "a", "", "New alias")
	projectCmd.AddCommand(projectListCmd)

	// sub subcommands
	subCmd.AddCommand(subAddCmd)
	subCmd.AddCommand(subRemoveCmd)

	// env subcommands
	envCmd.AddCommand(envShowCmd)
	envCmd.AddCommand(envSwitchCmd)
	envCmd.AddCommand(envMigrateCmd)
	envCmd.AddCommand(envCopyCmd)
	envCmd.AddCommand(envPromoteCmd)
	envCmd.AddCommand(envDevCopyCmd)

	// backup subcommands
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(subCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolP("watch", "w", false, "Refresh every second and autosave until interrupted")
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringP("month", "m", "", "Month to report as YYYY-MM (default: current month)")
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of sessions to show")
}
