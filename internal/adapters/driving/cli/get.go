package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

// newGetCmd creates the get command.
func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print one stored document by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine()
			if err != nil {
				return err
			}
			defer eng.close()

			doc, err := eng.docs.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "id:            %s\n", doc.ID)
			fmt.Fprintf(out, "kind:          %s\n", doc.Kind)
			fmt.Fprintf(out, "name:          %s\n", doc.Name)
			if doc.Fingerprint != "" {
				fmt.Fprintf(out, "fingerprint:   %s\n", doc.Fingerprint)
			}
			fmt.Fprintf(out, "created_time:  %s\n", doc.CreatedTime.Format(time.RFC3339))
			fmt.Fprintf(out, "modified_time: %s\n", doc.ModifiedTime.Format(time.RFC3339))
			fmt.Fprintf(out, "indexed_time:  %s\n", doc.IndexedTime.Format(time.RFC3339))

			names := make([]string, 0, len(doc.Fields))
			for name := range doc.Fields {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(out, "%s: %v\n", name, doc.Fields[name])
			}
			return nil
		},
	}
}
