// Package print formats tracker results for the terminal.
package print

import (
	"fmt"
	"io"

	"github.com/harrybrwn/hackbright/tracker"
)

// Ungraded is printed in place of a grade that has not been given yet.
const Ungraded = "none"

// Student prints a student looked up by github.
func Student(w io.Writer, s *tracker.Student) error {
	_, err := fmt.Fprintf(w, "Student: %s %s\nGithub account: %s\n",
		s.FirstName, s.LastName, s.Github)
	return err
}

// StudentAdded confirms that a student was added.
func StudentAdded(w io.Writer, s *tracker.Student) error {
	_, err := fmt.Fprintf(w, "Successfully added student: %s %s\n", s.FirstName, s.LastName)
	return err
}

// Project prints a project's title and description.
func Project(w io.Writer, p *tracker.Project) error {
	_, err := fmt.Fprintf(w, "Project Title: %s. \nDescription: %s.\n", p.Title, p.Description)
	return err
}

// Grade prints a grade.
func Grade(w io.Writer, g *tracker.Grade) error {
	value := g.Value
	if !g.Graded {
		value = Ungraded
	}
	_, err := fmt.Fprintf(w, "Grade = %s.\n", value)
	return err
}

// GradeAssigned confirms a grade assignment.
func GradeAssigned(w io.Writer, g *tracker.Grade) error {
	_, err := fmt.Fprintf(w, "%s's project, %s, has been assigned a grade of %s.\n",
		g.Github, g.Title, g.Value)
	return err
}
