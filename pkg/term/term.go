package term

import (
	"fmt"
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
)

var escape string

const (
	FgRed    = 31
	FgYellow = 33
	FgCyan   = 36

	Bold = 1
)

func init() {
	if runtime.GOOS != "windows" {
		escape = "\x1b"
	}
}

// Supported reports whether the platform understands ANSI escapes.
func Supported() bool { return escape != "" }

// IsTerminal reports whether f is a terminal that will render colors.
// Pipes and regular files are not.
func IsTerminal(f *os.File) bool {
	if f == nil || !Supported() {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

// Cyan returns s but colored cyan
func Cyan(s string) string { return color(FgCyan, s) }

// Red returns s but colored red
func Red(s string) string { return color(FgRed, s) }

// Yellow returns s but colored yellow
func Yellow(s string) string { return color(FgYellow, s) }

// BoldRed returns s in bold red, used for fatal messages.
func BoldRed(s string) string {
	if escape == "" {
		return s
	}
	return fmt.Sprintf("%[1]s[%d;%dm%s%[1]s[0m", escape, FgRed, Bold, s)
}

func color(color int, s string) string {
	if escape == "" {
		return s
	}
	return fmt.Sprintf("%[1]s[%dm%s%[1]s[0m", escape, color, s)
}
