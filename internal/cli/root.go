package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/dealflow/dealgrid/internal/ui/styles"
	"github.com/dealflow/dealgrid/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "dealgrid",
	Short: "Browse and triage deal-flow tables in the terminal",
	Long: `dealgrid is an interactive data grid for company longlists.

Rows live in PostgreSQL (or, without a database URL, in an in-memory demo
project). Every project has three system views (longlist, shortlist,
discarded) plus any number of custom views. The grid filters, sorts,
selects and moves rows between views without leaving the keyboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       Version,
}

// Execute runs the command line. Ctrl-C cancels the context handed to
// commands, which aborts in-flight queries.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Check if it's a structured GridError
		var gridErr *util.GridError
		if errors.As(err, &gridErr) {
			fmt.Fprintln(os.Stderr, gridErr.Format())
		} else {
			// Simple error - still format nicely
			fmt.Fprintln(os.Stderr, styles.ErrorMsg(err.Error()))
		}
		return err
	}
	return nil
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().String("db", "", "PostgreSQL URL (overrides database.url; '' = demo data)")
	rootCmd.PersistentFlags().StringP("project", "p", "", "Project id (default: project.default)")

	// Version flag template to show more info
	rootCmd.SetVersionTemplate(fmt.Sprintf("dealgrid version %s\n  commit: %s\n  built:  %s\n", Version, CommitSHA, BuildDate))

	// Set up pre-run to handle global flags
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		noColor, _ := cmd.Flags().GetBool("no-color")
		if noColor {
			styles.SetNoColor(true)
		}
	}

	// Add all subcommands
	rootCmd.AddCommand(
		newVersionCmd(),
		newInitCmd(),
		newConfigCmd(),
		newOpenCmd(),
		newViewsCmd(),
		newRowsCmd(),
		newExportCmd(),
		newDiffCmd(),
		newProjectCmd(),
		newSeedCmd(),
		newDoctorCmd(),
		newCompletionCmd(),
	)
}

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for dealgrid.

To load completions:

Bash:
  $ source <(dealgrid completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ dealgrid completion bash > /etc/bash_completion.d/dealgrid
  # macOS:
  $ dealgrid completion bash > $(brew --prefix)/etc/bash_completion.d/dealgrid

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ dealgrid completion zsh > "${fpath[1]}/_dealgrid"

Fish:
  $ dealgrid completion fish | source

PowerShell:
  PS> dealgrid completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletion(os.Stdout)
			case "zsh":
				return rootCmd.GenZshCompletion(os.Stdout)
			case "fish":
				return rootCmd.GenFishCompletion(os.Stdout, true)
			case "powershell":
				return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dealgrid version %s\n", Version)
			fmt.Printf("  commit: %s\n", CommitSHA)
			fmt.Printf("  built:  %s\n", BuildDate)
		},
	}
}
