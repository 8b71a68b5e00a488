package cmd

import (
	"github.com/Daskott/agenda/form"
	"github.com/spf13/cobra"
)

func createAddCmd() *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new contact",
		Long: `Validates the contact locally and, if valid, creates it in the collection.
Nothing is sent when a field is invalid.`,
		Example: `  agenda add --nombre "Ana López" --correo ana@x.com --telefono "+52 123 456 7890" --etiqueta familia`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			f, err := form.NewCreateForm(a.store)
			if err != nil {
				return err
			}

			err = flags.apply(cmd, f, true)
			if err != nil {
				return err
			}

			return submitForm(cmd, a, f)
		},
	}

	flags = addDraftFlags(cmd)

	return cmd
}
