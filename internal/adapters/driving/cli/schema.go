package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newSchemaCmd creates the schema command.
func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the unified schema for the active configuration",
		Long: `Schema unifies the common fields with every active kind's
sub-schema and prints the result. Conflicting field declarations
across kinds are reported as an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := buildEngine()
			if err != nil {
				return err
			}
			defer eng.close()

			schema, err := eng.docs.Schema()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, name := range schema.FieldNames() {
				fmt.Fprintf(out, "%-16s %s\n", name, schema[name])
			}
			return nil
		},
	}
}
