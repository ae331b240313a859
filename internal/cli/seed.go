package cli

import (
	"fmt"
	"time"

	"github.com/dealflow/dealgrid/internal/db"
	"github.com/dealflow/dealgrid/internal/ui"
	"github.com/dealflow/dealgrid/internal/ui/styles"
	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed [project]",
		Short: "Fill a project with synthetic companies",
		Long: `Create the project if needed and insert generated company rows.

About one row in ten lands in the shortlist and one in twenty in the
discarded list; the rest stay in the longlist. The same --seed always
produces the same field values.

Examples:
  dealgrid seed                      # 2000 rows into the default project
  dealgrid seed bench --rows 100000`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSeed,
	}

	cmd.Flags().IntP("rows", "n", db.DemoRows, "Number of rows to insert")
	cmd.Flags().Uint64("seed", 42, "Random seed")

	return cmd
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	n, _ := cmd.Flags().GetInt("rows")
	seed, _ := cmd.Flags().GetUint64("seed")
	if n <= 0 {
		return fmt.Errorf("--rows must be positive, got %d", n)
	}

	r, err := openRepo(ctx, cmd)
	if err != nil {
		return err
	}
	defer r.Close()

	projectID := projectOf(cmd, r)
	if len(args) > 0 {
		projectID = args[0]
	}

	if conn, ok := r.DB(); ok {
		if err := conn.SetBulkGUCs(ctx); err != nil && isVerbose(cmd) {
			fmt.Println(styles.WarningMsg("Could not tune session for bulk insert: " + err.Error()))
		}
		defer conn.ResetBulkGUCs(ctx)
	}

	start := time.Now()
	progress := ui.NewProgress("Seeding "+projectID, n)
	if err := db.SeedWithProgress(ctx, r.Store, projectID, n, seed, progress.Add); err != nil {
		fmt.Println()
		return err
	}
	progress.Done()

	fmt.Println(styles.SuccessMsg(fmt.Sprintf("Inserted %d rows into %s in %s",
		n, styles.ID(projectID, false), time.Since(start).Round(time.Millisecond))))
	if r.IsMemory() {
		fmt.Println(styles.WarningMsg("No database configured; the rows only lived for this run"))
	}
	return nil
}
