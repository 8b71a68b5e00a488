// Package colors holds the terminal colours shared by the agenda commands.
// Output is left uncoloured when stdout is not a terminal.
package colors

import "github.com/fatih/color"

var (
	Error   = color.New(color.FgRed).SprintFunc()
	Warning = color.New(color.FgYellow).SprintFunc()
	Heading = color.New(color.FgCyan, color.Bold).SprintFunc()

	WarningLabel = Warning("Warning:")
)

// Timestamp formats a watch refresh header, e.g. "[15:04:05]"
func Timestamp(clock string) string {
	return Heading("[" + clock + "]")
}
