package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/propmaint/backend/internal/client"
	"github.com/propmaint/backend/internal/models"
	"github.com/propmaint/backend/internal/reconcile"
	"github.com/propmaint/backend/internal/schedule"
)

func tasksCmd() *cobra.Command {
	t := &cobra.Command{Use: "tasks", Short: "Preventive maintenance tasks"}
	t.AddCommand(tasksListCmd())
	t.AddCommand(tasksShowCmd())
	t.AddCommand(tasksToggleCmd())
	t.AddCommand(tasksCompleteCmd())
	t.AddCommand(tasksReportCmd())
	return t
}

func tasksListCmd() *cobra.Command {
	var status, taskType string
	var overdue bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks; any filter switches to agenda order",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := schedule.Filter{Type: taskType, OverdueOnly: overdue}
			if status != "" {
				st, err := models.ParseTaskStatus(status)
				if err != nil {
					return err
				}
				f.Status = st
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *client.Client) error {
				tasks, err := c.ListMaintenance(ctx, f)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(os.Stdout, tasks)
				}
				renderTasks(os.Stdout, tasks, models.DateOf(time.Now()))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&status, "estado", "", "status filter")
	cmd.Flags().StringVar(&taskType, "tipo", "", "type filter")
	cmd.Flags().BoolVar(&overdue, "vencidas", false, "only overdue tasks")
	return cmd
}

func tasksShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *client.Client) error {
				task, err := c.GetMaintenance(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(os.Stdout, task)
			})
		},
	}
}

func tasksToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id> <apartment>",
		Short: "Check or uncheck one apartment of a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *client.Client) error {
				task, err := c.GetMaintenance(ctx, args[0])
				if err != nil {
					return err
				}
				tracker := reconcile.NewTracker(c)
				tracker.Observe([]models.MaintenanceTask{*task})
				written, err := tracker.Toggle(ctx, *task, args[1])
				if err != nil {
					return err
				}
				fmt.Printf("apartamentosCompletados: %q\n", written)
				return nil
			})
		},
	}
}

func tasksCompleteCmd() *cobra.Command {
	var notes string
	var photos []string
	cmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Close the current cycle and schedule the next one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *client.Client) error {
				task, err := c.CompleteMaintenance(ctx, args[0], notes, photos)
				if err != nil {
					return err
				}
				next := ""
				if task.ScheduledDate != nil {
					next = task.ScheduledDate.String()
				}
				fmt.Printf("%s: %s, next %s\n", task.Task, task.Status, next)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&notes, "notas", "", "execution notes")
	cmd.Flags().StringSliceVar(&photos, "foto", nil, "photo URL (repeatable)")
	return cmd
}

func tasksReportCmd() *cobra.Command {
	var urgency string
	cmd := &cobra.Command{
		Use:   "report <id> <apartment> <description>",
		Short: "File an incident found while working on a task",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u models.Urgency
			if urgency != "" {
				parsed, err := models.ParseUrgency(urgency)
				if err != nil {
					return err
				}
				u = parsed
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *client.Client) error {
				inc, err := c.ReportTaskIncident(ctx, args[0], args[1], args[2], u)
				if err != nil {
					return err
				}
				return printJSON(os.Stdout, inc)
			})
		},
	}
	cmd.Flags().StringVar(&urgency, "urgencia", "", "urgency (defaults to Media)")
	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Overdue, due this week and open task counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *client.Client) error {
				s, err := c.MaintenanceStats(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(os.Stdout, s)
				}
				renderStats(os.Stdout, s)
				return nil
			})
		},
	}
}

func watchCmd() *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reprint the task list on every refresh until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return withClient(ctx, func(ctx context.Context, c *client.Client) error {
				w := client.NewWatcher(c, reconcile.NewTracker(c))
				w.Interval = interval
				w.OnSnapshot = func(tasks []models.MaintenanceTask) {
					now := time.Now()
					fmt.Printf("\n%s\n", now.Format(time.RFC3339))
					renderTasks(os.Stdout, tasks, models.DateOf(now))
				}
				w.OnError = func(err error) {
					fmt.Println("error:", err)
				}
				if err := w.Run(ctx); err != nil && ctx.Err() == nil {
					return err
				}
				return nil
			})
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", client.DefaultPollInterval, "refresh interval")
	return cmd
}
