package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/dealflow/dealgrid/internal/grid"
	"github.com/dealflow/dealgrid/internal/ui/styles"
	"github.com/dealflow/dealgrid/internal/util"
	"github.com/spf13/cobra"
)

func newViewsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "views",
		Short: "List, create and delete views",
		Long: `Manage the views of a project.

The system views longlist, shortlist and discarded always exist; each row
sits in at most one of them. Custom views hold any set of rows and can be
created and deleted freely.`,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the project's views with row counts",
		Args:  cobra.NoArgs,
		RunE:  runViewsList,
	}
	list.Flags().Bool("json", false, "Output as JSON")

	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a custom view",
		Args:  cobra.ExactArgs(1),
		RunE:  runViewsCreate,
	}
	create.Flags().String("icon", "", "Icon name shown next to the view")
	create.Flags().StringSlice("columns", nil, "Visible columns (default: all)")

	del := &cobra.Command{
		Use:   "delete <view-id>",
		Short: "Delete a custom view (its rows are kept)",
		Args:  cobra.ExactArgs(1),
		RunE:  runViewsDelete,
	}
	del.Flags().BoolP("force", "f", false, "Delete without confirmation")

	cmd.AddCommand(list, create, del)
	return cmd
}

func runViewsList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	asJSON, _ := cmd.Flags().GetBool("json")

	r, err := openRepo(ctx, cmd)
	if err != nil {
		return err
	}
	defer r.Close()

	projectID := projectOf(cmd, r)
	views, err := r.Store.ListViews(ctx, projectID)
	if err != nil {
		if errors.Is(err, grid.ErrProjectNotFound) {
			return util.ProjectNotFoundError(projectID).Wrap(err)
		}
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}

	width := 0
	for _, v := range views {
		width = max(width, len(v.ID))
	}
	for _, v := range views {
		system := v.Kind == grid.ViewSystem
		line := fmt.Sprintf("%s  %s %s",
			styles.ID(fmt.Sprintf("%-*s", width, v.ID), false),
			styles.View(v.Name, system),
			styles.Mutef("(%d)", v.RowCount))
		if !system && isVerbose(cmd) {
			if created, ok := util.IDTime(v.ID); ok {
				line += "  " + styles.Mute("created "+util.RelativeTime(created))
			}
			if len(v.VisibleColumns) > 0 {
				line += "\n" + styles.Indent(styles.Mute(strings.Join(v.VisibleColumns, ", ")), width+2)
			}
		}
		fmt.Println(line)
	}
	return nil
}

func runViewsCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	icon, _ := cmd.Flags().GetString("icon")
	columns, _ := cmd.Flags().GetStringSlice("columns")

	r, err := openRepo(ctx, cmd)
	if err != nil {
		return err
	}
	defer r.Close()

	projectID := projectOf(cmd, r)
	if len(columns) > 0 {
		known, err := r.Store.ListColumns(ctx, projectID)
		if err != nil {
			return err
		}
		for _, c := range columns {
			if !slices.Contains(known, c) {
				return util.NewError(fmt.Sprintf("Unknown column '%s'", c)).
					WithMessage("Columns: " + strings.Join(known, ", ")).
					Wrap(util.ErrInvalidColumnArg)
			}
		}
	}

	v, err := r.Store.CreateView(ctx, projectID, args[0], icon, columns)
	if err != nil {
		if errors.Is(err, grid.ErrProjectNotFound) {
			return util.ProjectNotFoundError(projectID).Wrap(err)
		}
		return err
	}
	fmt.Println(styles.SuccessMsg(fmt.Sprintf("Created view %s (%s)", styles.View(v.Name, false), styles.ID(v.ID, false))))
	return nil
}

func runViewsDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	force, _ := cmd.Flags().GetBool("force")
	viewID := args[0]

	if grid.IsSystemView(viewID) {
		return util.NewError("System views cannot be deleted").
			WithMessage("longlist, shortlist and discarded always exist").
			Wrap(grid.ErrSystemView)
	}
	if !force {
		return util.ConfirmationRequiredError("delete view " + viewID)
	}

	r, err := openRepo(ctx, cmd)
	if err != nil {
		return err
	}
	defer r.Close()

	projectID := projectOf(cmd, r)
	if err := r.Store.DeleteView(ctx, projectID, viewID); err != nil {
		switch {
		case errors.Is(err, grid.ErrProjectNotFound):
			return util.ProjectNotFoundError(projectID).Wrap(err)
		case errors.Is(err, grid.ErrViewNotFound):
			return util.ViewNotFoundError(projectID, viewID).Wrap(err)
		}
		return err
	}
	fmt.Println(styles.SuccessMsg("Deleted view " + styles.ID(viewID, false)))
	return nil
}
