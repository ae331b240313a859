package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dealflow/dealgrid/internal/db"
	"github.com/dealflow/dealgrid/internal/grid"
	"github.com/dealflow/dealgrid/internal/ui/styles"
	"github.com/dealflow/dealgrid/internal/util"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Create and list projects",
		Long: `A project is one independent set of rows with its own views.

Rows are added with 'dealgrid seed' (synthetic companies) or by any tool
writing to the dg_rows table.`,
	}

	create := &cobra.Command{
		Use:   "create <id> [name]",
		Short: "Create an empty project",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runProjectCreate,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE:  runProjectList,
	}
	list.Flags().Bool("stats", false, "Show per-list counts and storage (PostgreSQL only)")
	list.Flags().Bool("json", false, "Output in JSON format")

	cmd.AddCommand(create, list)
	return cmd
}

func runProjectCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	name := ""
	if len(args) > 1 {
		name = args[1]
	}

	r, err := openRepo(ctx, cmd)
	if err != nil {
		return err
	}
	defer r.Close()

	p, err := r.Store.CreateProject(ctx, args[0], name)
	if err != nil {
		if errors.Is(err, util.ErrProjectExists) {
			return util.NewError(fmt.Sprintf("Project '%s' already exists", args[0])).
				WithSuggestion("dealgrid project list").
				Wrap(err)
		}
		return err
	}
	fmt.Println(styles.SuccessMsg(fmt.Sprintf("Created project %s", styles.ID(p.ID, false))))
	if r.IsMemory() {
		fmt.Println(styles.WarningMsg("The demo data source is in memory; the project is gone when dealgrid exits"))
	}
	return nil
}

type projectInfo struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Rows    int              `json:"rows"`
	Columns []string         `json:"columns"`
	Created string           `json:"created"`
	Stats   *db.ProjectStats `json:"stats,omitempty"`
}

func runProjectList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	withStats, _ := cmd.Flags().GetBool("stats")
	asJSON, _ := cmd.Flags().GetBool("json")

	r, err := openRepo(ctx, cmd)
	if err != nil {
		return err
	}
	defer r.Close()

	projects, err := r.Store.ListProjects(ctx)
	if err != nil {
		return err
	}

	infos := make([]projectInfo, len(projects))
	for i, p := range projects {
		infos[i] = projectInfo{
			ID:      p.ID,
			Name:    p.Name,
			Rows:    p.RowCount,
			Columns: p.Columns,
			Created: p.CreatedAt.Format(time.RFC3339),
		}
	}

	if conn, ok := r.DB(); ok && withStats {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(4)
		for i := range infos {
			g.Go(func() error {
				s, err := conn.GetProjectStats(gctx, infos[i].ID)
				if err != nil {
					return err
				}
				infos[i].Stats = s
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	if len(infos) == 0 {
		fmt.Println(styles.MutedMsg("No projects"))
		fmt.Println(styles.HelpLine("dealgrid seed <id>", "create a project with sample rows"))
		return nil
	}

	def := r.Config.Project.Default
	for i, info := range infos {
		marker := " "
		if info.ID == def {
			marker = styles.Green("*")
		}
		name := ""
		if info.Name != "" && info.Name != info.ID {
			name = " " + info.Name
		}
		fmt.Printf("%s %s%s  %s rows  %s\n",
			marker, styles.ID(info.ID, false), name,
			styles.Count(info.Rows),
			styles.Mute(util.RelativeTime(projects[i].CreatedAt)))

		if s := info.Stats; s != nil {
			fmt.Printf("    longlist %d  shortlist %d  discarded %d  unlisted %d\n",
				s.ListCounts[grid.ViewLonglist], s.ListCounts[grid.ViewShortlist], s.ListCounts[grid.ViewDiscarded], s.Unlisted)
			fmt.Printf("    %d custom view(s), %d membership(s)\n", s.CustomViews, s.Memberships)
		}
		if isVerbose(cmd) {
			fmt.Println(styles.Indent(styles.Mutef("columns: %v", info.Columns), 4))
		}
	}

	if withStats {
		fmt.Println()
		if s := infos[0].Stats; s != nil {
			// table sizes cover every project in the database
			fmt.Println(styles.Mutef("storage on %s: rows %s, indexes %s",
				r.URL(), formatBytes(s.RowsTableSize), formatBytes(s.TotalIndexSize)))
		} else {
			fmt.Println(styles.MutedMsg("--stats needs a PostgreSQL data source"))
		}
	}
	return nil
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
