package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studydesk/internal/projects"
	"github.com/abhisek/studydesk/internal/store"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage tracker accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Register an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := projects.RegisterInput{Username: args[0]}
		in.Email, _ = cmd.Flags().GetString("email")
		in.Password, _ = cmd.Flags().GetString("password")
		in.FirstName, _ = cmd.Flags().GetString("first-name")
		in.LastName, _ = cmd.Flags().GetString("last-name")
		in.Phone, _ = cmd.Flags().GetString("phone")
		return withProjects(cmd, false, func(ctx context.Context, svc *projects.Service, _ *store.User) error {
			u, err := svc.Register(ctx, in)
			if err != nil {
				return err
			}
			fmt.Printf("Registered %s (#%d).\n", u.Username, u.ID)
			return nil
		})
	},
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects of a user",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProjects(cmd, true, func(ctx context.Context, svc *projects.Service, u *store.User) error {
			ps, err := svc.Projects(ctx, u.ID)
			if err != nil {
				return err
			}
			if len(ps) == 0 {
				fmt.Println("No projects.")
				return nil
			}
			for _, p := range ps {
				fmt.Printf("%-5d  %-32s  %s\n", p.ID, truncate(p.Name, 32), truncate(p.Description, 40))
			}
			return nil
		})
	},
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a project",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		desc, _ := cmd.Flags().GetString("description")
		return withProjects(cmd, true, func(ctx context.Context, svc *projects.Service, u *store.User) error {
			p, err := svc.CreateProject(ctx, u.ID, projects.ProjectInput{Name: strings.Join(args, " "), Description: desc})
			if err != nil {
				return err
			}
			fmt.Printf("Created project %s (#%d).\n", p.Name, p.ID)
			return nil
		})
	},
}

var projectRemoveCmd = &cobra.Command{
	Use:   "rm <project-id>",
	Short: "Delete a project and its tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withProjects(cmd, true, func(ctx context.Context, svc *projects.Service, u *store.User) error {
			return svc.DeleteProject(ctx, u.ID, id)
		})
	},
}

var projectTimelineCmd = &cobra.Command{
	Use:   "timeline <project-id>",
	Short: "Show dated tasks of a project in deadline order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withProjects(cmd, true, func(ctx context.Context, svc *projects.Service, u *store.User) error {
			tl, err := svc.Timeline(ctx, u.ID, id)
			if err != nil {
				return err
			}
			if len(tl.Points) == 0 {
				fmt.Println("No tasks with a deadline.")
				return nil
			}
			fmt.Printf("%s to %s\n", tl.Start.Format("2006-01-02"), tl.End.Format("2006-01-02"))
			for _, p := range tl.Points {
				marker := strings.Repeat("●", max(1, p.Size/4))
				status := " "
				if p.Done {
					status = "✓"
				}
				fmt.Printf("%s  %s %-6s  %s\n", p.Deadline.Format("2006-01-02"), status, marker, p.Title)
			}
			return nil
		})
	},
}

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks of a user",
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks, optionally of one project",
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, _ := cmd.Flags().GetUint("project")
		return withProjects(cmd, true, func(ctx context.Context, svc *projects.Service, u *store.User) error {
			var (
				ts  []store.Task
				err error
			)
			if projectID != 0 {
				ts, err = svc.ProjectTasks(ctx, u.ID, projectID)
			} else {
				ts, err = svc.Tasks(ctx, u.ID)
			}
			if err != nil {
				return err
			}
			if len(ts) == 0 {
				fmt.Println("No tasks.")
				return nil
			}
			for _, t := range ts {
				status := " "
				if t.Done {
					status = "✓"
				}
				due := "-"
				if t.Deadline != nil {
					due = t.Deadline.Format(projects.DeadlineLayout)
				}
				fmt.Printf("%-5d  %s  %-16s  %-5d  %s\n", t.ID, status, due, t.ProjectID, t.Title)
			}
			return nil
		})
	},
}

var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task to a project",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := projects.TaskInput{Title: strings.Join(args, " ")}
		in.ProjectID, _ = cmd.Flags().GetUint("project")
		in.Description, _ = cmd.Flags().GetString("description")
		in.Deadline, _ = cmd.Flags().GetString("deadline")
		if in.ProjectID == 0 {
			return errors.New("--project is required")
		}
		return withProjects(cmd, true, func(ctx context.Context, svc *projects.Service, u *store.User) error {
			t, err := svc.CreateTask(ctx, u.ID, in)
			if err != nil {
				return err
			}
			fmt.Printf("Created task %s (#%d).\n", t.Title, t.ID)
			return nil
		})
	},
}

var taskEditCmd = &cobra.Command{
	Use:   "edit <task-id>",
	Short: "Change a task; every change is kept in its history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		var up projects.TaskUpdate
		flags := cmd.Flags()
		for name, dst := range map[string]**string{
			"title":       &up.Title,
			"description": &up.Description,
			"deadline":    &up.Deadline,
			"move-to":     &up.Project,
		} {
			if flags.Changed(name) {
				v, _ := flags.GetString(name)
				*dst = &v
			}
		}
		if flags.Changed("done") {
			v, _ := flags.GetBool("done")
			up.Done = &v
		}
		return withProjects(cmd, true, func(ctx context.Context, svc *projects.Service, u *store.User) error {
			changes, err := svc.UpdateTask(ctx, u.ID, id, up)
			if err != nil {
				return err
			}
			if len(changes) == 0 {
				fmt.Println("No changes.")
				return nil
			}
			printHistory(changes)
			return nil
		})
	},
}

var taskRemoveCmd = &cobra.Command{
	Use:   "rm <task-id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withProjects(cmd, true, func(ctx context.Context, svc *projects.Service, u *store.User) error {
			return svc.DeleteTask(ctx, u.ID, id)
		})
	},
}

var taskHistoryCmd = &cobra.Command{
	Use:   "history <task-id>",
	Short: "Show the change history of a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withProjects(cmd, true, func(ctx context.Context, svc *projects.Service, u *store.User) error {
			hs, err := svc.TaskHistory(ctx, u.ID, id)
			if err != nil {
				return err
			}
			if len(hs) == 0 {
				fmt.Println("No changes recorded.")
				return nil
			}
			printHistory(hs)
			return nil
		})
	},
}

// withProjects opens the tracker. When needUser is set the --user flag
// must name an existing account, which is passed to fn.
func withProjects(cmd *cobra.Command, needUser bool, fn func(context.Context, *projects.Service, *store.User) error) error {
	e, err := openEnv(cmd, "cli")
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc := projects.NewService(e.store.ProjectRepo(), e.cfg.Server.JWTSecret, e.log)

	var u *store.User
	if needUser {
		name, _ := cmd.Flags().GetString("user")
		if name == "" {
			return errors.New("--user is required")
		}
		if u, err = svc.UserByUsername(ctx, name); err != nil {
			return fmt.Errorf("user %q: %w", name, err)
		}
	}
	return fn(ctx, svc, u)
}

func printHistory(hs []store.TaskHistory) {
	for _, h := range hs {
		fmt.Printf("%-19s  %-11s  %q -> %q\n",
			h.ChangedAt.Local().Format("2006-01-02 15:04:05"), h.Attribute, h.OldValue, h.NewValue)
	}
}

func init() {
	userAddCmd.Flags().String("email", "", "Email address")
	userAddCmd.Flags().String("password", "", "Password")
	userAddCmd.Flags().String("first-name", "", "First name")
	userAddCmd.Flags().String("last-name", "", "Last name")
	userAddCmd.Flags().String("phone", "", "Phone number")
	userCmd.AddCommand(userAddCmd)

	projectCmd.PersistentFlags().StringP("user", "u", "", "Username that owns the projects")
	projectAddCmd.Flags().String("description", "", "Project description")
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectRemoveCmd)
	projectCmd.AddCommand(projectTimelineCmd)

	taskCmd.PersistentFlags().StringP("user", "u", "", "Username that owns the tasks")
	taskListCmd.Flags().Uint("project", 0, "Only tasks of this project")
	taskAddCmd.Flags().Uint("project", 0, "Project id")
	taskAddCmd.Flags().String("description", "", "Task description")
	taskAddCmd.Flags().String("deadline", "", "Deadline, e.g. \"2026-05-01 17:00\"")
	taskEditCmd.Flags().String("title", "", "New title")
	taskEditCmd.Flags().String("description", "", "New description")
	taskEditCmd.Flags().String("deadline", "", "New deadline (empty clears it)")
	taskEditCmd.Flags().String("move-to", "", "Move to the project with this name")
	taskEditCmd.Flags().Bool("done", false, "Mark done (--done=false reopens)")
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskEditCmd)
	taskCmd.AddCommand(taskRemoveCmd)
	taskCmd.AddCommand(taskHistoryCmd)
}
