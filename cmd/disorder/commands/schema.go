package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/disorder/pkg/config"
	"github.com/Sumatoshi-tech/disorder/pkg/report"
)

// Documents with a published schema.
const (
	schemaConfig  = "config"
	schemaProfile = "profile"
)

// ErrUnknownSchema is returned for a schema name other than config or profile.
var ErrUnknownSchema = errors.New("unknown schema")

// NewSchemaCommand creates the command printing JSON Schemas of config files
// and profile JSON output.
func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "schema <config|profile>",
		Short:       "Print the JSON Schema of config files or profile output",
		Args:        cobra.ExactArgs(1),
		ValidArgs:   []string{schemaConfig, schemaProfile},
		Annotations: map[string]string{annotationSkipSetup: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)

			switch args[0] {
			case schemaConfig:
				data = config.Schema()
			case schemaProfile:
				data, err = report.ProfileSchema()
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("%w: %q", ErrUnknownSchema, args[0])
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			if err != nil {
				return fmt.Errorf("write schema: %w", err)
			}

			return nil
		},
	}
}
