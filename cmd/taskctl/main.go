package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/ghaggin/taskboard/internal/client"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	var c *client.Client
	var server, session string

	app := &cli.App{
		Name:  "taskctl",
		Usage: "Manage tasks on a taskboard server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "server",
				Aliases:     []string{"s"},
				Usage:       "Base URL of the taskboard server",
				Value:       "http://localhost:3000",
				EnvVars:     []string{"TASKBOARD_URL"},
				Destination: &server,
			},
			&cli.StringFlag{
				Name:        "session",
				Usage:       "File that keeps the session cookie between runs",
				Value:       defaultSessionFile(),
				Destination: &session,
			},
		},
		Before: func(ctx *cli.Context) error {
			var err error
			c, err = client.New(server, client.NewTerminalPrompter(os.Stdin, os.Stderr), log,
				client.WithSessionFile(session))
			return err
		},
		Commands: []*cli.Command{
			loginCmd(&c, false),
			loginCmd(&c, true),
			logoutCmd(&c),
			meCmd(&c),
			listCmd(&c),
			addCmd(&c),
			editCmd(&c),
			toggleCmd(&c),
			deleteCmd(&c),
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "taskctl", "session.json")
}
