package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/cinefav/internal/server"
	"github.com/desertthunder/cinefav/internal/shared"
	"github.com/desertthunder/cinefav/internal/web"
)

// ShareServe runs the shared list viewer until interrupted.
func (r *Runner) ShareServe(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = cmd.Int("port")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("%w: port %d", shared.ErrInvalidFlag, cfg.Port)
	}

	renderer, err := web.NewRenderer(r.posterURL)
	if err != nil {
		return err
	}

	logger := shared.WithLogger(r.logger, "component", "server")
	handler := server.NewSharedListHandler(r.listStore(), renderer, logger, r.config.Backend.Timeout())
	router := server.NewShareRouter(handler, logger)

	r.writePlain("Serving shared lists at http://%s/shared/{id}\n", cfg.Addr())
	return server.ListenAndServe(ctx, cfg.Addr(), router, logger)
}

// shareCommand serves shared lists over HTTP.
func shareCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "share",
		Usage: "Shared list viewer",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Serve shared lists as web pages",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "host",
						Usage: "Listen host (default: server.host)",
					},
					&cli.IntFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Usage:   "Listen port (default: server.port)",
					},
				},
				Action: r.ShareServe,
			},
		},
	}
}
