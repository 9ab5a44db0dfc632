package main

import (
	"context"
	"io"

	"github.com/gladysproject/gladys/internal/buildinfo"
	"github.com/gladysproject/gladys/internal/web"
)

// runServe handles the "gladys serve" subcommand. It boots the agent,
// starts the browser chat interface, and blocks until ctx is cancelled
// (SIGINT or SIGTERM), then shuts the server down gracefully.
func runServe(ctx context.Context, stdout io.Writer, stderr io.Writer, configPath string) error {
	app, err := buildApp(stdout, configPath)
	if err != nil {
		return err
	}
	defer app.Close()

	app.logger.Info("starting Gladys",
		"version", buildinfo.Version,
		"commit", buildinfo.GitCommit,
		"built", buildinfo.BuildTime,
	)

	srv := web.NewServer(app.agent, app.logger)
	addr := web.SplitHostPort(app.cfg.Web.Address, app.cfg.Web.Port)
	return srv.ListenAndServe(ctx, addr)
}
