package cli

import (
	"fmt"

	"github.com/dealflow/dealgrid/internal/config"
	"github.com/dealflow/dealgrid/internal/db"
	"github.com/dealflow/dealgrid/internal/repo"
	"github.com/dealflow/dealgrid/internal/ui"
	"github.com/dealflow/dealgrid/internal/ui/styles"
	"github.com/dealflow/dealgrid/internal/util"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the dealgrid tables in PostgreSQL",
		Long: `Create the dealgrid schema in the configured database.

The database is taken from --db, DEALGRID_DATABASE_URL or database.url,
in that order. Running init again is safe.

Examples:
  dealgrid --db postgres://me@localhost/deals init
  dealgrid --db postgres://me@localhost/deals init --save --seed`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}

	cmd.Flags().Bool("save", false, "Store the URL as database.url")
	cmd.Flags().Bool("seed", false, "Also create the demo project with sample rows")
	cmd.Flags().Bool("drop", false, "Drop all dealgrid tables first (needs --force)")
	cmd.Flags().BoolP("force", "f", false, "Confirm --drop")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	save, _ := cmd.Flags().GetBool("save")
	seed, _ := cmd.Flags().GetBool("seed")
	drop, _ := cmd.Flags().GetBool("drop")
	force, _ := cmd.Flags().GetBool("force")
	if drop && !force {
		return util.ConfirmationRequiredError("drop every project and view")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	url := cfg.DatabaseURL()
	if cmd.Flags().Changed("db") {
		url, _ = cmd.Flags().GetString("db")
	}

	conn, err := repo.ConnectDB(ctx, url)
	if err != nil {
		return err
	}
	defer conn.Close()

	if drop {
		if err := ui.Run("Dropping tables", func() error { return conn.DropSchema(ctx) }); err != nil {
			return err
		}
		fmt.Println(styles.WarningMsg("Dropped existing dealgrid tables"))
	}

	if err := ui.Run("Creating schema", func() error { return conn.InitSchema(ctx) }); err != nil {
		return util.NewError("Cannot create schema").
			WithContext(util.RedactURL(url)).
			WithCause("The user may lack CREATE privileges on the database").
			Wrap(err)
	}
	fmt.Println(styles.SuccessMsg("Initialized dealgrid schema in " + styles.Cyan(util.RedactURL(url))))

	if seed {
		progress := ui.NewProgress("Seeding "+db.DemoProject, db.DemoRows)
		if err := db.SeedWithProgress(ctx, conn, db.DemoProject, db.DemoRows, 42, progress.Add); err != nil {
			return err
		}
		progress.Done()
	}

	if save && cfg.Database.URL != url {
		cfg.Database.URL = url
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(styles.MutedMsg("Saved database.url to " + util.ConfigPath()))
	}
	return nil
}
