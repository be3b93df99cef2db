package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/disorder/pkg/config"
)

// ErrNoConfigFile is returned by config validate without a file to check.
var ErrNoConfigFile = errors.New("no config file given")

// NewConfigCommand creates the config command group.
func NewConfigCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate disorder configuration",
	}

	cmd.AddCommand(newConfigShowCommand(app), newConfigValidateCommand(app))

	return cmd
}

func newConfigShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return config.WriteYAML(cmd.OutOrStdout(), app.Config)
		},
	}
}

func newConfigValidateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:         "validate [file]",
		Short:       "Check a config file against the schema and value rules",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{annotationSkipSetup: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.ConfigPath
			if len(args) == 1 {
				path = args[0]
			}

			if path == "" {
				return ErrNoConfigFile
			}

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open config: %w", err)
			}

			defer f.Close()

			err = config.ValidateDocument(f)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			_, err = config.LoadConfig(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid\n", path)

			return nil
		},
	}
}
