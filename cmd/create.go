package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"storycraft/pkg/schema"
)

func newCreateCmd(opts *rootOptions) *cobra.Command {
	var (
		category    string
		style       string
		tone        string
		protagonist string
		setting     string
		narrator    string
		special     string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Generate one story or poem and save its artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			cat, err := schema.ParseCategory(category)
			if err != nil {
				return err
			}
			nar, err := schema.ParseNarrator(narrator)
			if err != nil {
				return err
			}

			c, _ := loadCatalog(cfg)
			p, err := newPipeline(cmd.Context(), cfg, c)
			if err != nil {
				return err
			}

			out, err := p.Create(cmd.Context(), schema.CreationRequest{
				Category:           cat,
				StyleKey:           style,
				Tone:               tone,
				Protagonist:        protagonist,
				Setting:            setting,
				Narrator:           nar,
				SpecialRequirement: special,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, out.Text)
			fmt.Fprintln(w)
			if out.TextPath != "" {
				fmt.Fprintf(w, "text:     %s\n", out.TextPath)
			}
			if out.DocumentPath != "" {
				fmt.Fprintf(w, "document: %s\n", out.DocumentPath)
			}
			for _, msg := range out.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", msg)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&category, "category", string(schema.Story), "Story or Poem")
	f.StringVar(&style, "style", "", "story genre or poem style")
	f.StringVar(&tone, "tone", schema.Tones[0], "tone of the piece")
	f.StringVar(&protagonist, "protagonist", "", "main character (required)")
	f.StringVar(&setting, "setting", "", "where the piece takes place (required)")
	f.StringVar(&narrator, "narrator", string(schema.ThirdPerson), "First Person, Second Person or Third Person")
	f.StringVar(&special, "special", "", "optional special requirements")
	return cmd
}
