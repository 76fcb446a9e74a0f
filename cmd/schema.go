package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"storycraft/pkg/schema"
	"storycraft/pkg/utils"
)

func newSchemaCmd() *cobra.Command {
	var request bool
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the template catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := schema.CatalogSchema
			if request {
				s = schema.RequestSchema
			}
			fmt.Fprintln(cmd.OutOrStdout(), utils.PrettyJSON(s))
			return nil
		},
	}
	cmd.Flags().BoolVar(&request, "request", false, "print the creation request schema instead")
	return cmd
}
