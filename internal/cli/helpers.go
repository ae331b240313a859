package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dealflow/dealgrid/internal/grid"
	"github.com/dealflow/dealgrid/internal/repo"
	"github.com/dealflow/dealgrid/internal/util"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// openRepo loads the config and connects to the data source the --db flag
// or the config selects.
// Caller must defer r.Close().
func openRepo(ctx context.Context, cmd *cobra.Command) (*repo.Repository, error) {
	url, _ := cmd.Flags().GetString("db")
	return repo.Open(ctx, repo.OpenOptions{
		DatabaseURL: url,
		URLSet:      cmd.Flags().Changed("db"),
	})
}

// projectOf returns the --project flag, falling back to project.default.
func projectOf(cmd *cobra.Command, r *repo.Repository) string {
	p, _ := cmd.Flags().GetString("project")
	return r.ProjectID(p)
}

func isVerbose(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("verbose")
	return v
}

// viewArg returns args[i], or the longlist when it is missing.
func viewArg(args []string, i int) string {
	if i < len(args) && args[i] != "" {
		return args[i]
	}
	return grid.ViewLonglist
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}

// selectRows marks uids in ctl. Every uid must be in the loaded view.
func selectRows(ctl *grid.Controller, uids []string) error {
	var missing []string
	for _, uid := range uids {
		if ctl.IsSelected(uid) {
			continue
		}
		if !ctl.ToggleRow(uid) {
			missing = append(missing, uid)
		}
	}
	if len(missing) > 0 {
		return util.NewError(fmt.Sprintf("%d row(s) not in view '%s'", len(missing), ctl.ViewID())).
			WithContext(strings.Join(missing, " ")).
			WithSuggestion(fmt.Sprintf("dealgrid export %s --raw    # List the view's rows", ctl.ViewID())).
			Wrap(grid.ErrRowNotFound)
	}
	return nil
}

// explainAction turns grid action errors into user-facing ones.
func explainAction(ctl *grid.Controller, target string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, grid.ErrSameView):
		return util.NewError("Rows are already in '" + target + "'").Wrap(err)
	case errors.Is(err, grid.ErrViewNotFound):
		return util.ViewNotFoundError(ctl.ProjectID(), target).Wrap(err)
	case errors.Is(err, grid.ErrNoTargetView):
		return util.MissingArgumentError("target-view", "dealgrid rows move shortlist <uid>...")
	case errors.Is(err, grid.ErrSystemView):
		return util.NewError("System views cannot be deleted").
			WithMessage("longlist, shortlist and discarded always exist").
			Wrap(err)
	}
	return err
}
