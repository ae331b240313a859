package cli

import (
	"fmt"
	"strings"

	"github.com/dealflow/dealgrid/internal/config"
	"github.com/dealflow/dealgrid/internal/ui/styles"
	"github.com/dealflow/dealgrid/internal/util"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config [key] [value]",
		Short: "Get and set options",
		Long: `Get and set dealgrid options in config.toml.

Available keys:
` + config.GenerateHelpText() + `
Examples:
  dealgrid config grid.default_width          # Get value
  dealgrid config grid.default_width 24       # Set value
  dealgrid config database.url postgres://me@localhost/deals
  dealgrid config --list                      # List all values`,
		Args: cobra.MaximumNArgs(2),
		RunE: runConfig,
	}

	cmd.Flags().BoolP("list", "l", false, "List all configuration")
	cmd.Flags().Bool("path", false, "Print the config file location")

	return cmd
}

func runConfig(cmd *cobra.Command, args []string) error {
	listAll, _ := cmd.Flags().GetBool("list")
	showPath, _ := cmd.Flags().GetBool("path")

	if showPath {
		fmt.Println(util.ConfigPath())
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if listAll {
		for _, key := range config.ListKeys() {
			value, _ := cfg.GetValue(key)
			if key == "database.url" {
				value = util.RedactURL(value)
			}
			fmt.Printf("%s=%s\n", key, value)
		}
		return nil
	}

	if len(args) == 0 {
		return util.MissingArgumentError("key", "dealgrid config --list")
	}

	key := strings.ToLower(args[0])
	if _, ok := config.FindField(key); !ok {
		return util.NewError(fmt.Sprintf("Unknown config key '%s'", key)).
			WithMessage("Keys: " + strings.Join(config.ListKeys(), ", "))
	}

	if len(args) == 1 {
		value, _ := cfg.GetValue(key)
		fmt.Println(value)
		return nil
	}

	if err := cfg.SetValue(key, args[1]); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Println(styles.SuccessMsg(fmt.Sprintf("Set %s", key)))
	return nil
}
