// Package render turns store state into terminal text. Contact fields are
// always treated as plain text: control and escape sequences are dropped
// before anything is written to the terminal.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/Daskott/agenda/models"
	"github.com/Daskott/agenda/store"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	headers = []string{"ID", "NOMBRE", "CORREO", "TELEFONO", "ETIQUETA", "NOTAS"}
)

// PlainText neutralises a field value for display: line breaks become spaces
// and other control characters are removed.
func PlainText(value string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, value)
}

// ContactTable renders contacts as a table, or a placeholder if there are none
func ContactTable(contacts []models.Contact) string {
	if len(contacts) == 0 {
		return mutedStyle.Render("No contacts yet")
	}

	rows := make([][]string, 0, len(contacts))
	for _, contact := range contacts {
		rows = append(rows, []string{
			strconv.Itoa(contact.ID),
			PlainText(contact.Nombre),
			PlainText(contact.Correo),
			PlainText(contact.Telefono),
			PlainText(contact.Etiqueta),
			PlainText(contact.Notas),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

// Notices renders the error & success messages of a snapshot, one per line
func Notices(snapshot store.Snapshot) string {
	lines := []string{}
	if snapshot.Error != "" {
		lines = append(lines, errorStyle.Render("✗ "+PlainText(snapshot.Error)))
	}
	if snapshot.Success != "" {
		lines = append(lines, successStyle.Render("✓ "+PlainText(snapshot.Success)))
	}
	return strings.Join(lines, "\n")
}

// FieldErrors renders validation errors in field order
func FieldErrors(fieldErrors models.FieldErrors) string {
	lines := []string{}
	for _, field := range models.Fields {
		if msg, ok := fieldErrors[field]; ok {
			lines = append(lines, fmt.Sprintf("%s %s", errorStyle.Render(field+":"), msg))
		}
	}
	return strings.Join(lines, "\n")
}

// Footer summarises the list & session state
func Footer(snapshot store.Snapshot) string {
	footer := fmt.Sprintf("Total contacts: %d", len(snapshot.Contacts))
	if snapshot.Loading {
		footer += " (loading...)"
	}
	return mutedStyle.Render(footer)
}
