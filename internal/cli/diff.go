package cli

import (
	"fmt"

	"github.com/dealflow/dealgrid/internal/repo"
	"github.com/dealflow/dealgrid/internal/ui/styles"
	"github.com/spf13/cobra"
)

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <view> <view>",
		Short: "Show which rows differ between two views",
		Long: `Compare the row membership of two views of a project.

Rows are listed by uid with a label column; lines starting with - are only
in the first view, lines starting with + only in the second.

Examples:
  dealgrid diff longlist shortlist
  dealgrid diff shortlist custom_01J9... --label name --context 0
  dealgrid diff longlist discarded --stat`,
		Args: cobra.ExactArgs(2),
		RunE: runDiff,
	}

	cmd.Flags().IntP("context", "U", 3, "Unchanged rows shown around each change")
	cmd.Flags().String("label", "", "Column printed next to each uid (default: first column)")
	cmd.Flags().Bool("stat", false, "Only print the summary line")

	return cmd
}

func runDiff(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	contextLines, _ := cmd.Flags().GetInt("context")
	label, _ := cmd.Flags().GetString("label")
	stat, _ := cmd.Flags().GetBool("stat")

	r, err := openRepo(ctx, cmd)
	if err != nil {
		return err
	}
	defer r.Close()

	d, err := r.DiffViews(ctx, projectOf(cmd, r), args[0], args[1], repo.DiffOptions{
		Context: max(contextLines, 0),
		Label:   label,
	})
	if err != nil {
		return err
	}

	if stat {
		fmt.Printf("%s only in %s, %s only in %s, %d in both\n",
			styles.Red(fmt.Sprint(d.Removed)), d.From.Name,
			styles.Green(fmt.Sprint(d.Added)), d.To.Name,
			d.Common)
		return nil
	}
	if d.Added == 0 && d.Removed == 0 {
		fmt.Println(styles.MutedMsg(fmt.Sprintf("%s and %s hold the same %d row(s)", d.From.ID, d.To.ID, d.Common)))
		return nil
	}
	fmt.Print(repo.FormatDiff(d, styles.NoColor()))
	return nil
}
