package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/tomodo/internal/export"
	"github.com/sadopc/tomodo/internal/pomodoro"
)

const shortIDLen = 8

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// withSession opens storage for the duration of fn.
func (r *RootCommand) withSession(fn func(s *session) error) error {
	s, err := openSession(r.cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

func (r *RootCommand) newAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add [task text]",
		Short: "Add a task",
		Long:  "Add a task to the list. Text is trimmed and limited to 100 characters.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withSession(func(s *session) error {
				task, ok := s.tasks.Add(strings.Join(args, " "))
				if !ok {
					return errors.New("task text cannot be empty")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", shortID(task.ID), task.Text)
				return nil
			})
		},
	}
}

func (r *RootCommand) newListCommand() *cobra.Command {
	var pending bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withSession(func(s *session) error {
				tasks := s.tasks.List()
				out := cmd.OutOrStdout()
				if len(tasks) == 0 {
					fmt.Fprintln(out, "No tasks.")
					return nil
				}

				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tDONE\tPOMODOROS\tTASK")
				for _, t := range tasks {
					if pending && t.Completed {
						continue
					}
					done := ""
					if t.Completed {
						done = "x"
					}
					fmt.Fprintf(w, "%s\t%s\t%d/%d\t%s\n", shortID(t.ID), done, t.CompletedPomodoros, t.EstimatedPomodoros, t.Text)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().BoolVar(&pending, "pending", false, "Hide completed tasks")
	return cmd
}

func (r *RootCommand) newStatsCommand() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show daily pomodoro statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return fmt.Errorf("--days must be at least 1, got %d", days)
			}
			return r.withSession(func(s *session) error {
				now := time.Now()
				from := pomodoro.DateKey(now.AddDate(0, 0, 1-days))
				to := pomodoro.DateKey(now.AddDate(0, 0, 1))
				entries := s.stats.Between(from, to)

				out := cmd.OutOrStdout()
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "DATE\tPOMODOROS\tFOCUS")
				poms, mins := 0, 0
				for _, e := range entries {
					poms += e.CompletedPomodoros
					mins += e.TotalFocusTime
					fmt.Fprintf(w, "%s\t%d\t%s\n", e.Date, e.CompletedPomodoros, pomodoro.FormatFocus(e.TotalFocusTime))
				}
				fmt.Fprintf(w, "last %d days\t%d\t%s\n", days, poms, pomodoro.FormatFocus(mins))
				if err := w.Flush(); err != nil {
					return err
				}

				allPoms, allMins := s.stats.Totals()
				fmt.Fprintf(out, "\nAll time: %d pomodoros, %s focused\n", allPoms, pomodoro.FormatFocus(allMins))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "Number of days to show, ending today")
	return cmd
}

func (r *RootCommand) newExportCommand() *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export statistics (csv) or tasks and statistics (json)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if format != "csv" && format != "json" {
				return fmt.Errorf("unknown format %q. Expected csv or json", format)
			}
			return r.withSession(func(s *session) error {
				tasks := s.tasks.List()
				stats := s.stats.All()

				if output == "" {
					if format == "csv" {
						return export.WriteCSV(cmd.OutOrStdout(), stats)
					}
					return export.WriteJSON(cmd.OutOrStdout(), tasks, stats)
				}

				var err error
				if format == "csv" {
					err = export.ToCSV(stats, output)
				} else {
					err = export.ToJSON(tasks, stats, output)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Output format: csv or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}
