package cmd

import (
	"github.com/spf13/cobra"
)

func createDeleteCmd() *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a contact after confirmation",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseContactID(args[0])
			if err != nil {
				return err
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			a.store.Delete(commandContext(cmd), id, promptConfirm(cmd, assumeYes))

			snapshot := a.store.Snapshot()
			return printSnapshot(cmd, snapshot, snapshot.Success != "")
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}
