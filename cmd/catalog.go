package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"storycraft/pkg/schema"
	"storycraft/pkg/utils"
)

func newCatalogCmd(opts *rootOptions) *cobra.Command {
	var export string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List story genres, poem styles and tones",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			c, _ := loadCatalog(cfg)

			if export != "" {
				if err := utils.Save(export, c); err != nil {
					return fmt.Errorf("failed to export catalog: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d entries to %s\n", c.Len(), export)
				return nil
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "genres:      %s\n", strings.Join(c.StoryGenres(), ", "))
			fmt.Fprintf(w, "poem styles: %s\n", strings.Join(c.PoemStyles(), ", "))
			fmt.Fprintf(w, "tones:       %s\n", strings.Join(schema.Tones, ", "))
			return nil
		},
	}
	cmd.Flags().StringVar(&export, "export", "", "write the effective catalog as JSON to this file")
	return cmd
}
