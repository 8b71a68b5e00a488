package cmd

import (
	"github.com/spf13/cobra"
)

func createListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Fetch & print all contacts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			a.store.List(commandContext(cmd))
			return printSnapshot(cmd, a.store.Snapshot(), true)
		},
	}
}
