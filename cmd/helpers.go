package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Daskott/agenda/colors"
	"github.com/Daskott/agenda/form"
	"github.com/Daskott/agenda/models"
	"github.com/Daskott/agenda/render"
	"github.com/Daskott/agenda/store"
	"github.com/spf13/cobra"
)

var errInvalidDraft = errors.New("contact has invalid fields")

// draftFlags holds the values of --nombre, --correo, ... keyed by field name
type draftFlags map[string]*string

func addDraftFlags(cmd *cobra.Command) draftFlags {
	usage := map[string]string{
		models.FIELD_NOMBRE:   "name i.e. letters, spaces & accents (1-80 characters)",
		models.FIELD_CORREO:   "email (max 120 characters)",
		models.FIELD_TELEFONO: "phone, 7-15 digits with an optional leading '+'",
		models.FIELD_ETIQUETA: "tag i.e. familia, trabajo, amigos or otro",
		models.FIELD_NOTAS:    "plain text notes, no markup (max 500 characters)",
	}

	flags := draftFlags{}
	for _, field := range models.Fields {
		flags[field] = cmd.Flags().String(field, "", usage[field])
	}

	return flags
}

// apply copies flag values into the form. Only flags set on the command line
// are applied unless all is true.
func (flags draftFlags) apply(cmd *cobra.Command, f *form.Form, all bool) error {
	for _, field := range models.Fields {
		if !all && !cmd.Flags().Changed(field) {
			continue
		}

		err := f.Change(field, *flags[field])
		if err != nil {
			return err
		}
	}
	return nil
}

// submitForm sends the form & prints the outcome
func submitForm(cmd *cobra.Command, a *app, f *form.Form) error {
	err := f.Submit(commandContext(cmd))

	validationErr := &store.ValidationError{}
	if errors.As(err, &validationErr) {
		fmt.Fprintln(cmd.OutOrStdout(), render.FieldErrors(validationErr.Errors))
		return errInvalidDraft
	}

	return printSnapshot(cmd, a.store.Snapshot(), true)
}

// printSnapshot prints notices & optionally the contact list. An error is returned
// when the snapshot carries an error message so the command exits non-zero.
func printSnapshot(cmd *cobra.Command, snapshot store.Snapshot, withList bool) error {
	out := cmd.OutOrStdout()

	if notices := render.Notices(snapshot); notices != "" {
		fmt.Fprintln(out, notices)
	}

	if withList {
		fmt.Fprintln(out, render.ContactTable(snapshot.Contacts))
		fmt.Fprintln(out, render.Footer(snapshot))
	}

	if snapshot.Error != "" {
		return formattedError("%s", snapshot.Error)
	}
	return nil
}

func parseContactID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid contact id %q", arg)
	}
	return id, nil
}

// promptConfirm asks on the command's input before a delete. Interrupting the
// command while waiting for an answer declines.
func promptConfirm(cmd *cobra.Command, assumeYes bool) store.ConfirmFunc {
	return func(ctx context.Context, id int) bool {
		if assumeYes {
			return true
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s Are you sure you want to delete contact %d? [y/N] ", colors.WarningLabel, id)

		// Reads from stdin cannot be interrupted, so on cancellation the reader
		// stays blocked until the process exits. Each command runs once.
		answer := make(chan string, 1)
		go func(in io.Reader) {
			line, _ := bufio.NewReader(in).ReadString('\n')
			answer <- line
		}(cmd.InOrStdin())

		select {
		case <-ctx.Done():
			return false
		case line := <-answer:
			line = strings.ToLower(strings.TrimSpace(line))
			return line == "y" || line == "yes"
		}
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
