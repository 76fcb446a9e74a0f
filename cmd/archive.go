package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"storycraft/pkg/persist"
	"storycraft/pkg/utils"
)

func newArchiveCmd(opts *rootOptions) *cobra.Command {
	var entries bool
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Print the creation log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			archive := persist.NewArchive(cfg.Paths.LogFile)
			w := cmd.OutOrStdout()

			if entries {
				lines, err := archive.Entries()
				if err != nil {
					return err
				}
				fmt.Fprintln(w, utils.PrettyJSON(lines))
				return nil
			}

			data, err := archive.Read()
			if errors.Is(err, os.ErrNotExist) {
				fmt.Fprintln(w, "No creations archived yet.")
				return nil
			}
			if err != nil {
				return err
			}
			_, err = w.Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&entries, "entries", false, "print parsed entries as JSON")
	return cmd
}
