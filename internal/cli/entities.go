package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/trialfacet/catalog"
)

// NewEntitiesCommand creates the entities command.
func NewEntitiesCommand(_ *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "entities",
		Short: "List the entity types and their filter fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range catalog.Names() {
				e, _ := catalog.Lookup(name)
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, strings.Join(e.Fields(), ", ")); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
