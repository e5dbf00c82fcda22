package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/cinefav/internal/formatter"
	"github.com/desertthunder/cinefav/internal/models"
	"github.com/desertthunder/cinefav/internal/shared"
	"github.com/desertthunder/cinefav/internal/tasks"
)

// ListsLs prints every saved list, marking the active one.
func (r *Runner) ListsLs(ctx context.Context, cmd *cli.Command) error {
	c, err := r.initialized(ctx)
	if err != nil {
		return err
	}
	snap := c.Snapshot()

	if !snap.ListsLoaded {
		return fmt.Errorf("%w: %s", shared.ErrServiceUnavailable, snap.ListsError)
	}

	if cmd.Bool("json") {
		return r.writeJSON(snap.AllLists, true)
	}

	r.writePlainHeader("Saved Lists")
	if len(snap.AllLists) == 0 {
		return r.writePlain("No saved lists yet. Use 'cinefav favorites save' to create one.\n")
	}

	for _, l := range snap.AllLists {
		marker := " "
		if l.ID == snap.ActiveListID {
			marker = "*"
		}
		r.writePlain("%s %-36s  %-50s  %s  %s\n",
			marker, l.ID, l.Name,
			shared.Pluralize(len(l.Movies), "movie", "movies"),
			l.UpdatedAt.Format(time.DateOnly))
	}
	return nil
}

// ListsSelect makes a saved list the active favorites.
func (r *Runner) ListsSelect(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	c, err := r.initialized(ctx)
	if err != nil {
		return err
	}

	list, err := c.SelectList(ctx, id)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Selected '%s' (%s)\n", list.Name, shared.Pluralize(len(list.Movies), "movie", "movies"))
}

// ListsDelete removes a saved list from the backend.
func (r *Runner) ListsDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	if !cmd.Bool("yes") {
		return fmt.Errorf("%w: pass --yes to delete list %s", shared.ErrMissingArgument, id)
	}

	c, err := r.initialized(ctx)
	if err != nil {
		return err
	}

	if err := c.DeleteList(ctx, id); err != nil {
		return err
	}

	r.writePlain("✓ Deleted list %s\n", id)
	if active := c.Snapshot().ActiveList(); active != nil {
		r.writePlain("Active list is now '%s'\n", active.Name)
	}
	return nil
}

// ListsShow prints a single saved list.
func (r *Runner) ListsShow(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	list, err := r.listStore().Get(ctx, id)
	if err != nil {
		return tasks.NewUserError("show", err)
	}
	return r.writeList(list, cmd.Bool("json"))
}

// ListsShared prints a list fetched through its public share endpoint.
func (r *Runner) ListsShared(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	c, err := r.restored()
	if err != nil {
		return err
	}

	list, err := c.SharedList(ctx, id)
	if err != nil {
		return err
	}
	return r.writeList(list, cmd.Bool("json"))
}

// ListsShare prints the share link for a list and optionally opens it.
func (r *Runner) ListsShare(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	list, err := r.listStore().Get(ctx, id)
	if err != nil {
		return tasks.NewUserError("share", err)
	}

	link, err := r.shareLink(list)
	if err != nil {
		return err
	}
	r.writePlain("%s\n", link)

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(link); err != nil {
			r.logger.Warn("failed to open browser", "url", link, "error", err)
		}
	}
	return nil
}

// ListsExport writes saved lists to disk in the requested format.
func (r *Runner) ListsExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	store := r.listStore()
	ids := cmd.StringSlice("id")
	if cmd.Bool("all") {
		lists, err := store.ListAll(ctx)
		if err != nil {
			return tasks.NewUserError("export", err)
		}
		ids = make([]string, 0, len(lists))
		for _, l := range lists {
			ids = append(ids, l.ID)
		}
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: pass --id or --all", shared.ErrMissingArgument)
	}

	r.writePlain("Exporting %s as %s...\n\n", shared.Pluralize(len(ids), "list", "lists"), format)

	progress := make(chan tasks.Update, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range progress {
			r.writePlain("   %s\n", u.Message)
		}
	}()

	summary, err := tasks.ExportLists(ctx, store, ids, tasks.ExportOptions{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		PosterURL:  r.posterURL,
		Logger:     shared.WithLogger(r.logger, "component", "export"),
	}, progress)
	close(progress)
	<-done

	if err != nil {
		return err
	}

	r.writePlainln("")
	r.writePlainHeader("Export Complete")
	r.writePlain("Output: %s\n", summary.OutputDirectory)
	r.writePlain("Manifest: %s\n", summary.ManifestPath)
	r.writePlain("Succeeded: %d/%d\n", summary.SuccessfulExports, summary.TotalLists)

	if summary.FailedExports > 0 {
		r.writePlain("\nFailed:\n")
		for _, res := range summary.Results {
			if !res.Success {
				r.writePlain("  - %s: %s\n", res.ListID, res.Error)
			}
		}
	}
	return nil
}

func (r *Runner) writeList(list *models.FavoriteList, asJSON bool) error {
	if asJSON {
		return r.writeJSON(list, true)
	}

	r.writePlainHeader(list.Name)
	r.writePlain("ID: %s\n", list.ID)
	if !list.CreatedAt.IsZero() {
		r.writePlain("Created: %s\n", list.CreatedAt.Format(time.DateOnly))
	}
	r.writePlain("\n")

	if len(list.Movies) == 0 {
		return r.writePlain("This list has no movies.\n")
	}
	r.writeMovies(list.Movies, nil)
	return nil
}

// listsCommand manages saved lists on the backend.
func listsCommand(r *Runner) *cli.Command {
	idArg := func() []cli.Argument { return []cli.Argument{&cli.StringArg{Name: "id"}} }
	jsonFlag := func() cli.Flag { return &cli.BoolFlag{Name: "json", Usage: "Output raw JSON"} }

	return &cli.Command{
		Name:    "lists",
		Aliases: []string{"list"},
		Usage:   "Manage saved favorite lists",
		Commands: []*cli.Command{
			{
				Name:    "ls",
				Aliases: []string{"all"},
				Usage:   "List saved lists",
				Flags:   []cli.Flag{jsonFlag()},
				Action:  r.ListsLs,
			},
			{
				Name:      "select",
				Usage:     "Make a saved list the active favorites",
				Arguments: idArg(),
				Action:    r.ListsSelect,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a saved list",
				Arguments: idArg(),
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Confirm deletion",
					},
				},
				Action: r.ListsDelete,
			},
			{
				Name:      "show",
				Usage:     "Show a saved list",
				Arguments: idArg(),
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.ListsShow,
			},
			{
				Name:      "shared",
				Usage:     "Show a list through its public share link",
				Arguments: idArg(),
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.ListsShared,
			},
			{
				Name:      "share",
				Usage:     "Print the share link for a list",
				Arguments: idArg(),
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the link in the default browser",
					},
				},
				Action: r.ListsShare,
			},
			{
				Name:  "export",
				Usage: "Export saved lists to files",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "id",
						Usage: "List id to export (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Export every saved list",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (json, csv, markdown, txt)",
						Value:   string(formatter.FormatJSON),
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: cinefav_export_{timestamp})",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent writers",
						Value: 4,
					},
				},
				Action: r.ListsExport,
			},
		},
	}
}
