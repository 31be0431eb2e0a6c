package internal

import (
	"fmt"
	"io"

	table "github.com/olekukonko/tablewriter"
)

// Exit codes for errors that stop the program.
const (
	ExitFailure = 1
	ExitConfig  = 2
	ExitConnect = 3
)

// Error is an error that carries the exit status the program should
// stop with.
type Error struct {
	Msg  string
	Code int
}

func (e *Error) Error() string {
	return e.Msg
}

// Errorf creates an Error with a formatted message.
func Errorf(code int, format string, v ...interface{}) *Error {
	return &Error{Msg: fmt.Sprintf(format, v...), Code: code}
}

// NewTable creates a table with some default parameters
func NewTable(r io.Writer) *table.Table {
	t := table.NewWriter(r)
	t.SetBorder(false)
	t.SetColumnSeparator("")
	t.SetAlignment(table.ALIGN_LEFT)
	t.SetAutoFormatHeaders(false)
	t.SetHeaderLine(false)
	t.SetHeaderAlignment(table.ALIGN_LEFT)
	t.SetAutoWrapText(false)
	return t
}

// SetTableHeader sets the table header and automatically manages header color.
func SetTableHeader(t *table.Table, header []string, color bool) {
	t.SetHeader(header)
	if color {
		headercolors := make([]table.Colors, len(header))
		for i := range header {
			headercolors[i] = table.Colors{table.FgCyanColor}
		}
		t.SetHeaderColor(headercolors...)
	}
}
