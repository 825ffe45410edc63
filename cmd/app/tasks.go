package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/BuzzLyutic/taskboard/internal/drag"
	"github.com/BuzzLyutic/taskboard/internal/model"
	"github.com/BuzzLyutic/taskboard/internal/transfer"
	"github.com/BuzzLyutic/taskboard/internal/view"
)

func addCmd(a *app) *cobra.Command {
	var (
		form     model.TaskForm
		status   string
		priority string
		due      string
	)
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			form.Title = args[0]
			form.Status = model.Status(status)
			form.Priority = model.Priority(priority)
			form.DueDate = model.DateOf(time.Now())
			if due != "" {
				d, err := model.ParseDate(due)
				if err != nil {
					return err
				}
				form.DueDate = d
			}

			t, err := a.tasks.Create(cmd.Context(), form, s.User.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&form.Description, "description", "d", "", "task description")
	cmd.Flags().StringVarP(&status, "status", "s", string(model.StatusTodo), "todo, in-progress or done")
	cmd.Flags().StringVarP(&priority, "priority", "p", string(model.PriorityMedium), "low, medium or high")
	cmd.Flags().StringVar(&due, "due", "", "due date, YYYY-MM-DD (default today)")
	return cmd
}

func listCmd(a *app) *cobra.Command {
	var (
		search, status, priority, sortBy, order string
		board, asJSON                           bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			c, err := view.ParseCriteria(search, status, priority, sortBy, order)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if board {
				b := a.tasks.Board(s.User.ID, c)
				if asJSON {
					return writeJSON(out, b)
				}
				return printBoard(out, b)
			}

			tasks := a.tasks.List(s.User.ID, c)
			if asJSON {
				return writeJSON(out, tasks)
			}
			if len(tasks) == 0 {
				e := view.EmptyState(c)
				fmt.Fprintf(out, "%s. %s\n", e.Title, e.Description)
				return nil
			}
			return printTasks(out, tasks)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "q", "", "match title or description")
	cmd.Flags().StringVar(&status, "status", "", "all, todo, in-progress or done")
	cmd.Flags().StringVar(&priority, "priority", "", "all, low, medium or high")
	cmd.Flags().StringVar(&sortBy, "sort", "", "dueDate, priority or createdAt")
	cmd.Flags().StringVar(&order, "order", "", "asc or desc")
	cmd.Flags().BoolVarP(&board, "board", "b", false, "group by status column")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func editCmd(a *app) *cobra.Command {
	var title, description, priority, due string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			var patch model.TaskPatch
			flags := cmd.Flags()
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if flags.Changed("priority") {
				p := model.Priority(priority)
				patch.Priority = &p
			}
			if flags.Changed("due") {
				d, err := model.ParseDate(due)
				if err != nil {
					return err
				}
				patch.DueDate = &d
			}

			t, err := a.tasks.Update(cmd.Context(), s.User.ID, args[0], patch)
			if err != nil {
				return err
			}
			return printTasks(cmd.OutOrStdout(), []model.Task{t})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "low, medium or high")
	cmd.Flags().StringVar(&due, "due", "", "due date, YYYY-MM-DD")
	return cmd
}

// moveCmd drags a card onto another column.
func moveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <status>",
		Short: "Move a task to another column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			task, err := a.tasks.Get(s.User.ID, args[0])
			if err != nil {
				return err
			}
			target, err := model.ParseStatus(args[1])
			if err != nil {
				return err
			}

			p := drag.NewProtocol(a.tasks.StatusSetter(s.User.ID), a.logger.Named("drag"))
			if err := p.Start(task); err != nil {
				return err
			}
			moved, err := p.Drop(cmd.Context(), drag.ColumnTarget(target))
			if err != nil {
				return err
			}
			if !moved {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is already in %s\n", task.ID, target)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s moved to %s\n", task.ID, target)
			return nil
		},
	}
}

func rmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			if !a.tasks.Delete(cmd.Context(), s.User.ID, args[0]) {
				fmt.Fprintf(cmd.OutOrStdout(), "no task %s\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func exportCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write your tasks as JSON or YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			f := transfer.JSON
			if len(args) == 1 {
				file, err := os.Create(args[0])
				if err != nil {
					return err
				}
				defer file.Close()
				out = file
				f = transfer.FormatOf(args[0])
			}
			if format != "" {
				var err error
				if f, err = transfer.ParseFormat(format); err != nil {
					return err
				}
			}
			return transfer.Encode(out, a.tasks.Owned(s.User.ID), f)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "json or yaml (default from file extension)")
	return cmd
}

func importCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace your tasks with the contents of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			tasks, err := transfer.Decode(file, transfer.FormatOf(args[0]))
			if err != nil {
				return err
			}
			if err := a.tasks.ReplaceAll(cmd.Context(), s.User.ID, tasks); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d tasks\n", len(tasks))
			return nil
		},
	}
}

func printTasks(w io.Writer, tasks []model.Task) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tPRIORITY\tDUE\tTITLE")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Status, t.Priority, t.DueDate, t.Title)
	}
	return tw.Flush()
}

func printBoard(w io.Writer, b view.Board) error {
	if b.Empty != nil {
		fmt.Fprintf(w, "%s. %s\n", b.Empty.Title, b.Empty.Description)
		return nil
	}
	for _, col := range b.Columns {
		fmt.Fprintf(w, "== %s (%d)\n", col.Title, len(col.Tasks))
		for _, t := range col.Tasks {
			fmt.Fprintf(w, "  [%s] %s  %s  due %s\n", t.Priority, t.ID, t.Title, t.DueDate)
		}
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
