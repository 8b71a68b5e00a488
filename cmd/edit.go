package cmd

import (
	"github.com/Daskott/agenda/form"
	"github.com/spf13/cobra"
)

func createEditCmd() *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update an existing contact",
		Long: `Loads contact <id>, applies only the fields given as flags and saves it.
The contact id itself can never be changed.`,
		Example: `  agenda edit 3 --notas "moved to Monterrey"`,
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

			contact, err := a.store.Fetch(commandContext(cmd), id)
			if err != nil {
				return formattedError("unable to load contact %d: %v", id, err)
			}

			f, err := form.NewEditForm(a.store, *contact)
			if err != nil {
				return err
			}

			err = flags.apply(cmd, f, false)
			if err != nil {
				return err
			}

			return submitForm(cmd, a, f)
		},
	}

	flags = addDraftFlags(cmd)

	return cmd
}
