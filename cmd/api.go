package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/cinefav/internal/shared"
)

// APIGet makes a direct GET request to the favorites backend.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path, err := requireArg(cmd, "path")
	if err != nil {
		return err
	}

	r.logger.Info("GET request", "path", path)
	return r.rawRequest(ctx, http.MethodGet, path, nil, cmd.Bool("pretty"))
}

// APIPost makes a direct POST request with a JSON body.
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path, err := requireArg(cmd, "path")
	if err != nil {
		return err
	}
	data := cmd.String("data")
	if data == "" {
		return fmt.Errorf("%w: --data flag is required", shared.ErrMissingArgument)
	}

	r.logger.Info("POST request", "path", path)
	return r.rawRequest(ctx, http.MethodPost, path, []byte(data), true)
}

// APIDelete makes a direct DELETE request.
func (r *Runner) APIDelete(ctx context.Context, cmd *cli.Command) error {
	path, err := requireArg(cmd, "path")
	if err != nil {
		return err
	}

	r.logger.Info("DELETE request", "path", path)
	return r.rawRequest(ctx, http.MethodDelete, path, nil, true)
}

func (r *Runner) rawRequest(ctx context.Context, method, path string, body []byte, pretty bool) error {
	resp, err := r.favoritesAPI().Raw(ctx, method, path, body)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, pretty)
	}
	if len(resp.Body) == 0 {
		return r.writePlain("✓ %d %s\n", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return r.writePlain("%s\n", resp.Body)
}

// apiCommand handles direct calls to the favorites backend.
func apiCommand(r *Runner) *cli.Command {
	pathArg := func() []cli.Argument { return []cli.Argument{&cli.StringArg{Name: "path"}} }

	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the favorites API",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "GET a path, prints raw JSON",
				Arguments: pathArg(),
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:      "post",
				Usage:     "POST a JSON body",
				Arguments: pathArg(),
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
			{
				Name:      "delete",
				Usage:     "DELETE a path",
				Arguments: pathArg(),
				Action:    r.APIDelete,
			},
		},
	}
}
