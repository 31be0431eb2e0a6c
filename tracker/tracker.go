// Package tracker implements the operations of the hackbright project
// tracker: looking up and adding students, looking up projects, and reading
// and assigning grades.
package tracker

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harrybrwn/errs"
	"github.com/harrybrwn/hackbright/db"
	"github.com/pkg/errors"
)

const (
	studentByGithub = `
		SELECT first_name, last_name, github
		FROM students
		WHERE github = :github`

	insertStudent = `
		INSERT INTO students (first_name, last_name, github)
		VALUES (:first_name, :last_name, :github)`

	projectByTitle = `
		SELECT title, COALESCE(description, '') AS description
		FROM projects
		WHERE title = :title`

	gradeByGithubTitle = `
		SELECT grade
		FROM grades
		WHERE student_github = :github AND project_title = :title`

	updateGrade = `
		UPDATE grades
		SET grade = :grade
		WHERE student_github = :github AND project_title = :title`
)

// ErrNotFound is matched by every error returned when a lookup or update
// finds no row.
var ErrNotFound = errors.New("not found")

// NotFoundError describes which row was missing.
type NotFoundError struct {
	msg string
}

func (e *NotFoundError) Error() string { return e.msg }

// Is makes errors.Is(err, ErrNotFound) true.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func notFound(format string, v ...interface{}) error {
	return &NotFoundError{msg: fmt.Sprintf(format, v...)}
}

// Student is a row of the students table.
type Student struct {
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Github    string `db:"github"`
}

// Project is a row of the projects table.
type Project struct {
	Title       string `db:"title"`
	Description string `db:"description"`
}

// Grade is the grade a student got on a project. Graded is false
// when the row exists but no grade has been given yet.
type Grade struct {
	Github string
	Title  string
	Value  string
	Graded bool
}

// Gateway is the database access the tracker needs.
type Gateway interface {
	Query(ctx context.Context, statement string, params db.Params) (*db.Cursor, error)
	Exec(ctx context.Context, statement string, params db.Params) (int64, error)
	Commit() error
	Rollback() error
}

// Tracker runs tracker operations against a database. Every operation
// is one statement and ends the transaction it ran in.
type Tracker struct {
	gw Gateway
}

// New creates a Tracker.
func New(gw Gateway) *Tracker {
	return &Tracker{gw: gw}
}

// StudentByGithub looks up a student by github account.
func (t *Tracker) StudentByGithub(ctx context.Context, github string) (*Student, error) {
	var s Student
	err := t.finish(t.fetch(ctx, studentByGithub, db.Params{"github": github}, &s))
	if errors.Is(err, db.ErrNoRows) {
		return nil, notFound("no student with github %q", github)
	}
	if err != nil {
		return nil, errors.WithMessage(err, "could not look up student")
	}
	return &s, nil
}

// NewStudent adds a student. Github accounts are unique by schema so
// adding one twice is reported by the database.
func (t *Tracker) NewStudent(ctx context.Context, first, last, github string) (*Student, error) {
	s := &Student{FirstName: first, LastName: last, Github: github}
	_, err := t.gw.Exec(ctx, insertStudent, db.Params{
		"first_name": first,
		"last_name":  last,
		"github":     github,
	})
	if err = t.finish(err); err != nil {
		return nil, errors.WithMessage(err, "could not add student")
	}
	return s, nil
}

// ProjectByTitle looks up a project by its title.
func (t *Tracker) ProjectByTitle(ctx context.Context, title string) (*Project, error) {
	var p Project
	err := t.finish(t.fetch(ctx, projectByTitle, db.Params{"title": title}, &p))
	if errors.Is(err, db.ErrNoRows) {
		return nil, notFound("no project titled %q", title)
	}
	if err != nil {
		return nil, errors.WithMessage(err, "could not look up project")
	}
	return &p, nil
}

// GradeByGithubTitle gets the grade a student got on a project.
func (t *Tracker) GradeByGithubTitle(ctx context.Context, github, title string) (*Grade, error) {
	var value sql.NullString
	c, err := t.gw.Query(ctx, gradeByGithubTitle, db.Params{"github": github, "title": title})
	if err == nil {
		err = c.FetchOne(&value)
	}
	err = t.finish(err)
	if errors.Is(err, db.ErrNoRows) {
		return nil, notFound("no grade for %q on %q", github, title)
	}
	if err != nil {
		return nil, errors.WithMessage(err, "could not look up grade")
	}
	return &Grade{
		Github: github,
		Title:  title,
		Value:  value.String,
		Graded: value.Valid,
	}, nil
}

// AssignGrade sets the grade on an existing grade row. A pair with no row
// is reported as not found and nothing is written.
func (t *Tracker) AssignGrade(ctx context.Context, github, title, grade string) (*Grade, error) {
	n, err := t.gw.Exec(ctx, updateGrade, db.Params{
		"grade":  grade,
		"github": github,
		"title":  title,
	})
	if err == nil && n == 0 {
		err = notFound("no grade for %q on %q", github, title)
	}
	if err = t.finish(err); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, errors.WithMessage(err, "could not assign grade")
	}
	return &Grade{Github: github, Title: title, Value: grade, Graded: true}, nil
}

func (t *Tracker) fetch(ctx context.Context, query string, params db.Params, dest interface{}) error {
	c, err := t.gw.Query(ctx, query, params)
	if err != nil {
		return err
	}
	return c.FetchStruct(dest)
}

// finish commits when err is nil and rolls back otherwise.
func (t *Tracker) finish(err error) error {
	if err != nil {
		if rerr := t.gw.Rollback(); rerr != nil {
			return errs.Pair(err, rerr)
		}
		return err
	}
	return t.gw.Commit()
}
