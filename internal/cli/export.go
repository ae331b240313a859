package cli

import (
	"fmt"
	"os"

	"github.com/dealflow/dealgrid/internal/repo"
	"github.com/dealflow/dealgrid/internal/ui/styles"
	"github.com/dealflow/dealgrid/internal/ui/table"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [view]",
		Short: "Print a view after filtering, searching and sorting",
		Long: `Print the rows of a view (default: longlist) the way the grid would show
them, with the same filter, search and sort semantics.

Filters keep rows whose column value is one of the listed values; an empty
list after = keeps empty cells. Sort keys apply in the order given, nulls
last.

Examples:
  dealgrid export shortlist
  dealgrid export --filter status=active,pending --sort revenue:desc
  dealgrid export --search berlin --columns name,city --json
  dealgrid export --raw | cut -f1`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExport,
	}

	cmd.Flags().StringArray("filter", nil, "Column filter col=a,b (repeatable)")
	cmd.Flags().String("search", "", "Case-insensitive search across the searchable columns")
	cmd.Flags().StringArray("sort", nil, "Sort key col[:asc|desc] (repeatable)")
	cmd.Flags().StringSlice("columns", nil, "Columns to print (default: the view's visible columns)")
	cmd.Flags().Bool("uid", false, "Include the row uid as the first column")
	cmd.Flags().Bool("json", false, "Output as JSON")
	cmd.Flags().Bool("raw", false, "Output tab-separated values")
	cmd.Flags().Int("max-width", 0, "Maximum column width in table output (0 = fit terminal)")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	filters, _ := cmd.Flags().GetStringArray("filter")
	search, _ := cmd.Flags().GetString("search")
	sorts, _ := cmd.Flags().GetStringArray("sort")
	columns, _ := cmd.Flags().GetStringSlice("columns")
	withUID, _ := cmd.Flags().GetBool("uid")
	asJSON, _ := cmd.Flags().GetBool("json")
	raw, _ := cmd.Flags().GetBool("raw")
	maxWidth, _ := cmd.Flags().GetInt("max-width")

	opts := repo.ExportOptions{Search: search, Columns: columns}
	for _, f := range filters {
		cf, err := repo.ParseFilter(f)
		if err != nil {
			return err
		}
		opts.Filters = append(opts.Filters, cf)
	}
	for _, s := range sorts {
		k, err := repo.ParseSort(s)
		if err != nil {
			return err
		}
		opts.Sort = append(opts.Sort, k)
	}

	r, err := openRepo(ctx, cmd)
	if err != nil {
		return err
	}
	defer r.Close()

	cols, rows, err := r.Export(ctx, projectOf(cmd, r), viewArg(args, 0), opts)
	if err != nil {
		return err
	}

	err = table.DisplayResults(os.Stdout, cols, rows, table.DisplayOptions{
		JSON:     asJSON,
		Raw:      raw,
		MaxWidth: maxWidth,
		WithUID:  withUID,
	})
	if err != nil {
		return err
	}
	if isVerbose(cmd) && !asJSON && !raw {
		fmt.Fprintln(os.Stderr, styles.Mutef("%d row(s)", len(rows)))
	}
	return nil
}
