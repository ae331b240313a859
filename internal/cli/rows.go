package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dealflow/dealgrid/internal/grid"
	"github.com/dealflow/dealgrid/internal/repo"
	"github.com/dealflow/dealgrid/internal/ui/styles"
	"github.com/dealflow/dealgrid/internal/util"
	"github.com/spf13/cobra"
)

func newRowsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rows",
		Short: "Move, copy, edit and delete rows",
		Long: `Run the grid's bulk actions from the command line.

Rows are named by uid and must be in the --from view (default: longlist).

Examples:
  dealgrid rows move shortlist 01J9... 01J9...    # Promote two rows
  dealgrid rows copy custom_01J9... 01J9...       # Add a row to a custom view
  dealgrid rows set 01J9... status=active score=7
  dealgrid rows delete --force 01J9...`,
	}
	cmd.PersistentFlags().String("from", grid.ViewLonglist, "View the rows are taken from")

	move := &cobra.Command{
		Use:   "move <target-view> <uid>...",
		Short: "Move rows to another view",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRowsTransfer(cmd, grid.MutationMove, args[0], args[1:])
		},
	}
	cp := &cobra.Command{
		Use:   "copy <target-view> <uid>...",
		Short: "Copy rows to another view",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRowsTransfer(cmd, grid.MutationCopy, args[0], args[1:])
		},
	}
	del := &cobra.Command{
		Use:   "delete <uid>...",
		Short: "Delete rows from the project",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runRowsDelete,
	}
	del.Flags().BoolP("force", "f", false, "Delete without confirmation")

	set := &cobra.Command{
		Use:   "set <uid> <column=value>...",
		Short: "Edit fields of one row",
		Long: `Edit fields of one row. Values are typed the way the grid editor types
them: numbers and true/false are recognized, an empty value clears the
field and anything else is text.`,
		Args: cobra.MinimumNArgs(2),
		RunE: runRowsSet,
	}

	cmd.AddCommand(move, cp, del, set)
	return cmd
}

// loadSelection opens the --from view and selects uids in it.
func loadSelection(ctx context.Context, cmd *cobra.Command, uids []string) (*repo.Repository, *grid.Controller, error) {
	from, _ := cmd.Flags().GetString("from")

	r, err := openRepo(ctx, cmd)
	if err != nil {
		return nil, nil, err
	}
	ctl, err := r.Load(ctx, projectOf(cmd, r), from)
	if err != nil {
		r.Close()
		return nil, nil, err
	}
	if err := selectRows(ctl, uids); err != nil {
		r.Close()
		return nil, nil, err
	}
	return r, ctl, nil
}

func runRowsTransfer(cmd *cobra.Command, kind grid.MutationKind, target string, uids []string) error {
	ctx := cmd.Context()

	r, ctl, err := loadSelection(ctx, cmd, uids)
	if err != nil {
		return err
	}
	defer r.Close()

	n := ctl.SelectedCount()
	verb := "Moved"
	if kind == grid.MutationCopy {
		verb = "Copied"
		err = ctl.Copy(ctx, r.Store, target)
	} else {
		err = ctl.Move(ctx, r.Store, target)
	}
	if err != nil {
		return explainAction(ctl, target, err)
	}

	fmt.Println(styles.SuccessMsg(fmt.Sprintf("%s %d row(s) from %s to %s", verb, n, ctl.ViewID(), styles.ID(target, false))))
	if isVerbose(cmd) {
		fmt.Println(styles.Mutef("  %s now shows %d row(s)", ctl.ViewID(), ctl.RowCount()))
	}
	return nil
}

func runRowsDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	force, _ := cmd.Flags().GetBool("force")
	if !force {
		return util.ConfirmationRequiredError(fmt.Sprintf("delete %d row(s)", len(args)))
	}

	r, ctl, err := loadSelection(ctx, cmd, args)
	if err != nil {
		return err
	}
	defer r.Close()

	n := ctl.SelectedCount()
	if err := ctl.Delete(ctx, r.Store, true); err != nil {
		return explainAction(ctl, "", err)
	}
	fmt.Println(styles.SuccessMsg(fmt.Sprintf("Deleted %d row(s)", n)))
	return nil
}

// parseAssignments turns column=value pairs into typed updates.
func parseAssignments(args []string) (map[string]grid.Scalar, error) {
	updates := make(map[string]grid.Scalar, len(args))
	for _, a := range args {
		col, val, ok := strings.Cut(a, "=")
		col = strings.TrimSpace(col)
		if !ok || col == "" {
			return nil, util.NewError(fmt.Sprintf("Invalid assignment '%s'", a)).
				WithSuggestion("dealgrid rows set <uid> status=active").
				Wrap(util.ErrInvalidColumnArg)
		}
		updates[col] = grid.ParseScalar(val)
	}
	return updates, nil
}

func runRowsSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	uid := args[0]

	updates, err := parseAssignments(args[1:])
	if err != nil {
		return err
	}

	r, ctl, err := loadSelection(ctx, cmd, nil)
	if err != nil {
		return err
	}
	defer r.Close()

	if err := ctl.UpdateRow(ctx, r.Store, uid, updates); err != nil {
		switch {
		case errors.Is(err, grid.ErrRowNotFound):
			return util.NewError(fmt.Sprintf("Row '%s' not in view '%s'", uid, ctl.ViewID())).
				WithSuggestion("Pass --from with the view that holds the row").
				Wrap(err)
		case errors.Is(err, grid.ErrReservedColumn):
			return util.NewError("uid and list_id cannot be edited").Wrap(err)
		}
		return err
	}
	fmt.Println(styles.SuccessMsg(fmt.Sprintf("Updated %d field(s) of %s", len(updates), styles.ID(uid, false))))
	return nil
}
