package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dealflow/dealgrid/internal/config"
	"github.com/dealflow/dealgrid/internal/db"
	"github.com/dealflow/dealgrid/internal/repo"
	"github.com/dealflow/dealgrid/internal/ui/styles"
	"github.com/dealflow/dealgrid/internal/util"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and database health",
		Long: `Run diagnostics to check if dealgrid is properly configured.

This command checks:
  - The config file
  - Database connectivity and schema version
  - Projects visible to the grid
  - Terminal capabilities`,
		Args: cobra.NoArgs,
		RunE: runDoctor,
	}
}

func checkOK(detail string) string     { return styles.Green("OK") + detail }
func checkFailed(detail string) string { return styles.Red("FAILED") + detail }
func checkWarn(detail string) string   { return styles.Yellow("WARN") + detail }

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	fmt.Println(styles.Boldf("dealgrid doctor"))
	fmt.Println()

	allOK := true

	fmt.Print("Checking config file... ")
	cfg, err := config.Load()
	if err != nil {
		fmt.Println(checkFailed(""))
		fmt.Println("  " + err.Error())
		return nil
	}
	if _, err := os.Stat(util.ConfigPath()); err != nil {
		fmt.Println(checkOK(styles.Mutef(" (defaults, %s not found)", util.ConfigPath())))
	} else {
		fmt.Println(checkOK(styles.Mutef(" (%s)", util.ConfigPath())))
	}

	url := cfg.DatabaseURL()
	if cmd.Flags().Changed("db") {
		url, _ = cmd.Flags().GetString("db")
	}

	fmt.Print("Checking database... ")
	if url == "" {
		fmt.Println(checkWarn(" (none configured, using in-memory demo data)"))
		fmt.Println("  Run 'dealgrid config database.url <url>' to use PostgreSQL")
	} else if !checkDatabase(ctx, url) {
		allOK = false
	}

	fmt.Print("Checking projects... ")
	r, err := repo.OpenWith(ctx, cfg, repo.OpenOptions{DatabaseURL: url, URLSet: true})
	if err != nil {
		fmt.Println(checkFailed(""))
		allOK = false
	} else {
		projects, err := r.Store.ListProjects(ctx)
		r.Close()
		if err != nil {
			fmt.Println(checkFailed(""))
			fmt.Println("  " + err.Error())
			allOK = false
		} else {
			found := false
			for _, p := range projects {
				found = found || p.ID == cfg.Project.Default
			}
			if found {
				fmt.Println(checkOK(fmt.Sprintf(" (%d, default '%s')", len(projects), cfg.Project.Default)))
			} else {
				fmt.Println(checkWarn(fmt.Sprintf(" (%d, default '%s' missing)", len(projects), cfg.Project.Default)))
				fmt.Printf("  Run 'dealgrid seed %s' or 'dealgrid project create %s'\n", cfg.Project.Default, cfg.Project.Default)
			}
		}
	}

	fmt.Print("Checking terminal... ")
	if isTerminal() {
		fmt.Println(checkOK(""))
	} else {
		fmt.Println(checkWarn(" (not a terminal; 'open' prints a table)"))
	}

	fmt.Println()
	if allOK {
		fmt.Println(styles.SuccessMsg("All checks passed"))
	} else {
		fmt.Println(styles.WarningMsg("Some checks failed"))
	}
	return nil
}

// checkDatabase reports connectivity and schema state, after the
// "Checking database... " prompt.
func checkDatabase(ctx context.Context, url string) bool {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	start := time.Now()
	conn, err := db.Connect(ctx, url)
	if err != nil {
		fmt.Println(checkFailed(""))
		fmt.Println("  " + err.Error())
		return false
	}
	defer conn.Close()
	if err := conn.Ping(ctx); err != nil {
		fmt.Println(checkFailed(""))
		fmt.Println("  " + err.Error())
		return false
	}
	fmt.Println(checkOK(styles.Mutef(" (%s, %s)", util.RedactURL(url), time.Since(start).Round(time.Millisecond))))

	fmt.Print("Checking schema... ")
	exists, err := conn.SchemaExists(ctx)
	switch {
	case err != nil:
		fmt.Println(checkFailed(""))
		fmt.Println("  " + err.Error())
		return false
	case !exists:
		fmt.Println(checkFailed(" (not initialized)"))
		fmt.Println("  Run 'dealgrid init'")
		return false
	}
	version, err := conn.GetMetadata(ctx, db.MetaKeySchemaVersion)
	if err != nil {
		fmt.Println(checkFailed(""))
		fmt.Println("  " + err.Error())
		return false
	}
	if version != strconv.Itoa(db.SchemaVersion) {
		fmt.Println(checkWarn(fmt.Sprintf(" (version %q, expected %d)", version, db.SchemaVersion)))
		fmt.Println("  Run 'dealgrid init' to upgrade")
		return true
	}
	fmt.Println(checkOK(fmt.Sprintf(" (version %s)", version)))
	return true
}
