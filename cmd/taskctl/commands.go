package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/ghaggin/taskboard/internal/client"
	"github.com/ghaggin/taskboard/internal/model"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

func loginCmd(c **client.Client, register bool) *cli.Command {
	var username string
	name, usage := "login", "Log in and keep the session"
	if register {
		name, usage = "register", "Create an account and keep the session"
	}
	return &cli.Command{
		Name:  name,
		Usage: usage + " (password is read from the terminal)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "username",
				Aliases:     []string{"u", "user"},
				Destination: &username,
				Required:    true,
			},
		},
		Action: func(ctx *cli.Context) error {
			password, err := readPassword()
			if err != nil {
				return err
			}
			if register {
				return (*c).Register(ctx.Context, username, password)
			}
			return (*c).Login(ctx.Context, username, password)
		},
	}
}

func readPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", errors.New("empty password")
	}
	return string(b), nil
}

func logoutCmd(c **client.Client) *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Drop the current session",
		Action: func(ctx *cli.Context) error {
			(*c).Logout(ctx.Context)
			return nil
		},
	}
}

func meCmd(c **client.Client) *cli.Command {
	return &cli.Command{
		Name:  "me",
		Usage: "Show the logged in user",
		Action: func(ctx *cli.Context) error {
			u, err := (*c).Me(ctx.Context)
			if err != nil {
				return err
			}
			fmt.Printf("%d\t%s\n", u.ID, u.Username)
			return nil
		},
	}
}

func listCmd(c **client.Client) *cli.Command {
	var filter string
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List tasks",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "filter",
				Aliases:     []string{"f"},
				Usage:       "all, active or completed",
				Value:       string(model.FilterAll),
				Destination: &filter,
			},
		},
		Action: func(ctx *cli.Context) error {
			tasks, err := (*c).ListTasks(ctx.Context, model.ParseTaskFilter(filter))
			if err != nil {
				return err
			}
			printTasks(tasks...)
			return nil
		},
	}
}

func taskFlags(in *client.TaskInput) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "title",
			Aliases:     []string{"t"},
			Destination: &in.Title,
		},
		&cli.StringFlag{
			Name:        "due",
			Usage:       "Due date, YYYY-MM-DD",
			Destination: &in.DueDate,
		},
		&cli.PathFlag{
			Name:        "attach",
			Aliases:     []string{"a"},
			Usage:       "File to upload with the task",
			Destination: &in.Attachment,
		},
	}
}

func addCmd(c **client.Client) *cli.Command {
	var in client.TaskInput
	return &cli.Command{
		Name:  "add",
		Usage: "Create a task",
		Flags: taskFlags(&in),
		Action: func(ctx *cli.Context) error {
			if in.Title == "" {
				return errors.New("--title is required")
			}
			task, err := (*c).CreateTask(ctx.Context, in)
			if err != nil {
				return err
			}
			printTasks(*task)
			return nil
		},
	}
}

func editCmd(c **client.Client) *cli.Command {
	var in client.TaskInput
	var done bool
	flags := append(taskFlags(&in), &cli.BoolFlag{
		Name:        "done",
		Usage:       "Set the completed state",
		Destination: &done,
	})
	return &cli.Command{
		Name:      "edit",
		Usage:     "Change a task",
		ArgsUsage: "ID",
		Flags:     flags,
		Action: func(ctx *cli.Context) error {
			id, err := taskArg(ctx)
			if err != nil {
				return err
			}
			if ctx.IsSet("done") {
				in.Completed = &done
			}
			task, err := (*c).UpdateTask(ctx.Context, id, in)
			if err != nil {
				return err
			}
			printTasks(*task)
			return nil
		},
	}
}

func toggleCmd(c **client.Client) *cli.Command {
	return &cli.Command{
		Name:      "toggle",
		Usage:     "Flip the completed state of a task",
		ArgsUsage: "ID",
		Action: func(ctx *cli.Context) error {
			id, err := taskArg(ctx)
			if err != nil {
				return err
			}
			task, err := (*c).ToggleTask(ctx.Context, id)
			if err != nil {
				return err
			}
			printTasks(*task)
			return nil
		},
	}
}

func deleteCmd(c **client.Client) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a task",
		ArgsUsage: "ID",
		Action: func(ctx *cli.Context) error {
			id, err := taskArg(ctx)
			if err != nil {
				return err
			}
			return (*c).DeleteTask(ctx.Context, id)
		},
	}
}

func taskArg(ctx *cli.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Args().First())
	if err != nil {
		return 0, fmt.Errorf("expected a task id, got %q", ctx.Args().First())
	}
	return id, nil
}

func printTasks(tasks ...model.Task) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	for _, t := range tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		due := ""
		if t.DueDate != nil {
			due = *t.DueDate
		}
		attachment := ""
		if t.Attachment != nil {
			attachment = *t.Attachment
		}
		fmt.Fprintf(tw, "%d\t[%s]\t%s\t%s\t%s\n", t.ID, mark, t.Title, due, attachment)
	}
}
