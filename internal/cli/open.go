package cli

import (
	"os"
	"time"

	"github.com/dealflow/dealgrid/internal/grid"
	"github.com/dealflow/dealgrid/internal/repo"
	"github.com/dealflow/dealgrid/internal/ui"
	"github.com/dealflow/dealgrid/internal/ui/gridview"
	"github.com/dealflow/dealgrid/internal/ui/table"
	"github.com/spf13/cobra"
)

func newOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open [view]",
		Short: "Browse a view in the interactive grid",
		Long: `Open a view of the project in the interactive grid (default: longlist).

Navigate with the arrow keys, select rows with space, filter with f,
sort with s and move the selection to another view with M. Press ? for
all key bindings.

When stdout is not a terminal the view is printed as a table instead.

Examples:
  dealgrid open                      # Longlist of the default project
  dealgrid open shortlist -p acme    # Shortlist of project acme
  dealgrid --db '' open              # In-memory demo data`,
		Args: cobra.MaximumNArgs(1),
		RunE: runOpen,
	}
}

func runOpen(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	r, err := openRepo(ctx, cmd)
	if err != nil {
		return err
	}
	defer r.Close()

	projectID := projectOf(cmd, r)
	viewID := viewArg(args, 0)

	if !isTerminal() {
		columns, rows, err := r.Export(ctx, projectID, viewID, repo.ExportOptions{})
		if err != nil {
			return err
		}
		return table.DisplayResults(os.Stdout, columns, rows, table.DisplayOptions{})
	}

	var ctl *grid.Controller
	err = ui.Run("Loading "+viewID, func() error {
		var lerr error
		ctl, lerr = r.Load(ctx, projectID, viewID)
		return lerr
	})
	if err != nil {
		return err
	}

	return gridview.Run(ctx, ctl, r.Store, gridview.Options{
		Title:          projectID + " @ " + r.URL(),
		SearchDebounce: time.Duration(r.Config.Grid.SearchDebounceMS) * time.Millisecond,
	})
}
