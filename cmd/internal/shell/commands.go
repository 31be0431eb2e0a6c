package shell

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/harrybrwn/hackbright/cmd/print"
	"github.com/harrybrwn/hackbright/tracker"
)

// Command is one tracker operation that can be typed at the prompt.
type Command struct {
	Name  string
	Args  []string
	Short string
	Run   func(ctx context.Context, t *tracker.Tracker, w io.Writer, args []string) error
}

// Usage returns the command name followed by its arguments.
func (c *Command) Usage() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " <" + strings.Join(c.Args, "> <") + ">"
}

// Exec checks the argument count and runs the command.
func (c *Command) Exec(ctx context.Context, t *tracker.Tracker, w io.Writer, args []string) error {
	if len(args) != len(c.Args) {
		return &UsageError{Command: c, Got: len(args)}
	}
	return c.Run(ctx, t, w, args)
}

// UsageError is returned when a command gets the wrong number of arguments.
type UsageError struct {
	Command *Command
	Got     int
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s takes %d arguments, got %d", e.Command.Name, len(e.Command.Args), e.Got)
}

// Commands is every tracker command in the order they are listed by help.
var Commands = []*Command{
	{
		Name:  "student",
		Args:  []string{"github"},
		Short: "Look up a student by github account",
		Run: func(ctx context.Context, t *tracker.Tracker, w io.Writer, args []string) error {
			s, err := t.StudentByGithub(ctx, args[0])
			if err != nil {
				return err
			}
			return print.Student(w, s)
		},
	},
	{
		Name:  "new_student",
		Args:  []string{"first", "last", "github"},
		Short: "Add a student",
		Run: func(ctx context.Context, t *tracker.Tracker, w io.Writer, args []string) error {
			s, err := t.NewStudent(ctx, args[0], args[1], args[2])
			if err != nil {
				return err
			}
			return print.StudentAdded(w, s)
		},
	},
	{
		Name:  "get_project_by_title",
		Args:  []string{"title"},
		Short: "Look up a project by title",
		Run: func(ctx context.Context, t *tracker.Tracker, w io.Writer, args []string) error {
			p, err := t.ProjectByTitle(ctx, args[0])
			if err != nil {
				return err
			}
			return print.Project(w, p)
		},
	},
	{
		Name:  "get_grade_by_github_title",
		Args:  []string{"github", "title"},
		Short: "Get a student's grade on a project",
		Run: func(ctx context.Context, t *tracker.Tracker, w io.Writer, args []string) error {
			g, err := t.GradeByGithubTitle(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return print.Grade(w, g)
		},
	},
	{
		Name:  "assign_grade",
		Args:  []string{"github", "title", "grade"},
		Short: "Assign a grade to a student's project",
		Run: func(ctx context.Context, t *tracker.Tracker, w io.Writer, args []string) error {
			g, err := t.AssignGrade(ctx, args[0], args[1], args[2])
			if err != nil {
				return err
			}
			return print.GradeAssigned(w, g)
		},
	},
}

// Lookup finds a command by exact name.
func Lookup(name string) (*Command, bool) {
	for _, c := range Commands {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}
