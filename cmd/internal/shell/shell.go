// Package shell is the interactive command loop of the project tracker.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/harrybrwn/hackbright/cmd/internal"
	"github.com/harrybrwn/hackbright/pkg/term"
	"github.com/harrybrwn/hackbright/tracker"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultPrompt is printed before every line is read.
	DefaultPrompt = "HBA Database> "
	// InvalidEntry is printed for an unknown command.
	InvalidEntry = "Invalid Entry. Try again."

	quitCmd = "quit"
	helpCmd = "help"
)

// Shell reads commands line by line and runs them against a Tracker.
type Shell struct {
	In     io.Reader
	Out    io.Writer
	Err    io.Writer
	Prompt string
	Color  bool
	Log    logrus.FieldLogger

	tracker *tracker.Tracker
}

// New creates a shell that reads from stdin and writes to stdout.
func New(t *tracker.Tracker) *Shell {
	l := logrus.New()
	l.Out = ioutil.Discard
	return &Shell{
		In:      os.Stdin,
		Out:     os.Stdout,
		Err:     os.Stderr,
		Prompt:  DefaultPrompt,
		Log:     l,
		tracker: t,
	}
}

// Run prompts for commands until quit is entered or the input ends.
// Lines have no length limit.
func (s *Shell) Run(ctx context.Context) error {
	r := bufio.NewReader(s.In)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.prompt()
		line, err := r.ReadString('\n')
		if err == io.EOF && line == "" {
			break
		} else if err != nil && err != io.EOF {
			return errors.Wrap(err, "could not read command")
		}
		if s.Exec(ctx, line) {
			return nil
		}
	}
	// end of input, finish the prompt line
	fmt.Fprintln(s.Out)
	s.Log.Info("end of input")
	return nil
}

// Exec runs one line of input and reports whether the shell should stop.
// Errors are printed and logged, never returned.
func (s *Shell) Exec(ctx context.Context, line string) (quit bool) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return false
	}
	name, args := tokens[0], tokens[1:]
	log := s.Log.WithField("command", name)
	switch name {
	case quitCmd:
		log.Info("quit")
		return true
	case helpCmd:
		s.help()
		return false
	}

	cmd, ok := Lookup(name)
	if !ok {
		log.Warn("invalid entry")
		fmt.Fprintln(s.Out, InvalidEntry)
		return false
	}
	log.WithField("args", args).Info("running command")
	if err := cmd.Exec(ctx, s.tracker, s.Out, args); err != nil {
		s.report(log, err)
	}
	return false
}

func (s *Shell) report(log logrus.FieldLogger, err error) {
	var usage *UsageError
	switch {
	case errors.As(err, &usage):
		log.WithError(err).Warn("bad arguments")
		fmt.Fprintf(s.Err, "%s %s\n", s.color(term.Yellow, "Usage:"), usage.Command.Usage())
	case errors.Is(err, tracker.ErrNotFound):
		log.WithError(err).Info("not found")
		fmt.Fprintf(s.Err, "%s %v\n", s.color(term.Red, "Error:"), err)
	default:
		log.WithError(err).Error("command failed")
		fmt.Fprintf(s.Err, "%s %v\n", s.color(term.Red, "Error:"), err)
	}
}

func (s *Shell) help() {
	tab := internal.NewTable(s.Out)
	internal.SetTableHeader(tab, []string{"command", "description"}, s.Color)
	for _, c := range Commands {
		tab.Append([]string{c.Usage(), c.Short})
	}
	tab.Append([]string{helpCmd, "Show this help"})
	tab.Append([]string{quitCmd, "Leave the tracker"})
	tab.Render()
}

func (s *Shell) prompt() {
	if s.Prompt == "" {
		return
	}
	fmt.Fprint(s.Out, s.color(term.Cyan, s.Prompt))
}

func (s *Shell) color(fn func(string) string, str string) string {
	if s.Color {
		return fn(str)
	}
	return str
}
