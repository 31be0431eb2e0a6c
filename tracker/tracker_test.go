package tracker

import (
	"context"
	"testing"

	"github.com/harrybrwn/hackbright/db"
	"github.com/harrybrwn/hackbright/db/dbtest"
	"github.com/pkg/errors"
)

func newTracker(t *testing.T) (*Tracker, *db.Gateway) {
	t.Helper()
	g := dbtest.Open(t)
	return New(g), g
}

func TestStudentByGithub(t *testing.T) {
	tr, _ := newTracker(t)
	ctx := context.Background()
	s, err := tr.StudentByGithub(ctx, "jhacks")
	if err != nil {
		t.Fatal(err)
	}
	exp := Student{FirstName: "Jane", LastName: "Hacker", Github: "jhacks"}
	if *s != exp {
		t.Errorf("got %+v; want %+v", *s, exp)
	}

	s, err = tr.StudentByGithub(ctx, "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected a not found error; got %v", err)
	}
	if s != nil {
		t.Error("expected a nil student")
	}
	if err.Error() != `no student with github "nobody"` {
		t.Errorf("wrong error message: %q", err.Error())
	}
}

func TestNewStudent(t *testing.T) {
	tr, _ := newTracker(t)
	ctx := context.Background()
	s, err := tr.NewStudent(ctx, "Ada", "Lovelace", "adalovelace")
	if err != nil {
		t.Fatal(err)
	}
	if s.FirstName != "Ada" || s.LastName != "Lovelace" || s.Github != "adalovelace" {
		t.Errorf("wrong student returned: %+v", s)
	}
	found, err := tr.StudentByGithub(ctx, "adalovelace")
	if err != nil {
		t.Fatal(err)
	}
	if *found != *s {
		t.Errorf("read back %+v; want %+v", *found, *s)
	}

	// github is the primary key in the reference schema
	_, err = tr.NewStudent(ctx, "Ada", "Again", "adalovelace")
	if err == nil {
		t.Fatal("expected an error for a duplicate github")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("duplicate insert should not look like a missing row")
	}
	// the failed insert must not leave a broken transaction behind
	if _, err = tr.StudentByGithub(ctx, "jhacks"); err != nil {
		t.Error(err)
	}
}

func TestProjectByTitle(t *testing.T) {
	tr, _ := newTracker(t)
	ctx := context.Background()
	p, err := tr.ProjectByTitle(ctx, "Markov")
	if err != nil {
		t.Fatal(err)
	}
	exp := Project{Title: "Markov", Description: "Tweets generated from Markov chains"}
	if *p != exp {
		t.Errorf("got %+v; want %+v", *p, exp)
	}
	if _, err = tr.ProjectByTitle(ctx, "Nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected a not found error; got %v", err)
	}
}

func TestProjectByTitle_NullColumns(t *testing.T) {
	tr, g := newTracker(t)
	ctx := context.Background()
	if _, err := g.Exec(ctx, `INSERT INTO projects (title) VALUES (:title)`, db.Params{"title": "Bare"}); err != nil {
		t.Fatal(err)
	}
	if err := g.Commit(); err != nil {
		t.Fatal(err)
	}
	p, err := tr.ProjectByTitle(ctx, "Bare")
	if err != nil {
		t.Fatal(err)
	}
	if p.Title != "Bare" || p.Description != "" {
		t.Errorf("expected empty columns; got %+v", p)
	}
}

func TestProjectByTitle_MinimalTable(t *testing.T) {
	ctx := context.Background()
	g, err := db.Open(ctx, ":memory:", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()
	err = g.Script(ctx, `
		CREATE TABLE projects (title VARCHAR(30) PRIMARY KEY, description TEXT);
		INSERT INTO projects (title, description) VALUES ('Markov', 'Tweets');`)
	if err != nil {
		t.Fatal(err)
	}
	if err = g.Commit(); err != nil {
		t.Fatal(err)
	}
	p, err := New(g).ProjectByTitle(ctx, "Markov")
	if err != nil {
		t.Fatal(err)
	}
	if p.Description != "Tweets" {
		t.Errorf("got %+v", p)
	}
}

func TestGrades(t *testing.T) {
	tr, g := newTracker(t)
	ctx := context.Background()

	grade, err := tr.GradeByGithubTitle(ctx, "jhacks", "Markov")
	if err != nil {
		t.Fatal(err)
	}
	if grade.Value != "10" || !grade.Graded {
		t.Errorf("wrong grade: %+v", grade)
	}
	if _, err = tr.GradeByGithubTitle(ctx, "jhacks", "Nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected a not found error; got %v", err)
	}

	if _, err = tr.NewStudent(ctx, "Ada", "Lovelace", "adalovelace"); err != nil {
		t.Fatal(err)
	}
	_, err = g.Exec(ctx, `INSERT INTO projects (title, description, max_grade) VALUES (:title, :desc, 100)`,
		db.Params{"title": "Project1", "desc": "The first project"})
	if err != nil {
		t.Fatal(err)
	}
	_, err = g.Exec(ctx, `INSERT INTO grades (student_github, project_title) VALUES (:github, :title)`,
		db.Params{"github": "adalovelace", "title": "Project1"})
	if err != nil {
		t.Fatal(err)
	}
	if err = g.Commit(); err != nil {
		t.Fatal(err)
	}

	grade, err = tr.GradeByGithubTitle(ctx, "adalovelace", "Project1")
	if err != nil {
		t.Fatal(err)
	}
	if grade.Graded {
		t.Errorf("new grade row should be ungraded: %+v", grade)
	}

	assigned, err := tr.AssignGrade(ctx, "adalovelace", "Project1", "100")
	if err != nil {
		t.Fatal(err)
	}
	exp := Grade{Github: "adalovelace", Title: "Project1", Value: "100", Graded: true}
	if *assigned != exp {
		t.Errorf("got %+v; want %+v", *assigned, exp)
	}
	grade, err = tr.GradeByGithubTitle(ctx, "adalovelace", "Project1")
	if err != nil {
		t.Fatal(err)
	}
	if *grade != exp {
		t.Errorf("read back %+v; want %+v", *grade, exp)
	}

	// other rows are untouched
	grade, err = tr.GradeByGithubTitle(ctx, "jhacks", "Markov")
	if err != nil {
		t.Fatal(err)
	}
	if grade.Value != "10" {
		t.Errorf("unrelated grade changed to %s", grade.Value)
	}
}

func TestAssignGrade_Missing(t *testing.T) {
	tr, _ := newTracker(t)
	ctx := context.Background()
	g, err := tr.AssignGrade(ctx, "adalovelace", "Project1", "100")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected a not found error; got %v", err)
	}
	if g != nil {
		t.Error("expected a nil grade")
	}
	if err.Error() != `no grade for "adalovelace" on "Project1"` {
		t.Errorf("wrong error message %q", err.Error())
	}
	if _, err = tr.GradeByGithubTitle(ctx, "adalovelace", "Project1"); !errors.Is(err, ErrNotFound) {
		t.Error("a missing grade row should not be created by AssignGrade")
	}
}

type failingGateway struct {
	err         error
	rolledBack  int
	committed   int
	queryCalled bool
}

func (f *failingGateway) Query(context.Context, string, db.Params) (*db.Cursor, error) {
	f.queryCalled = true
	return nil, f.err
}

func (f *failingGateway) Exec(context.Context, string, db.Params) (int64, error) { return 0, f.err }
func (f *failingGateway) Commit() error                                       { f.committed++; return nil }
func (f *failingGateway) Rollback() error                                     { f.rolledBack++; return nil }

func TestGatewayErrors(t *testing.T) {
	ctx := context.Background()
	gw := &failingGateway{err: errors.New("connection reset")}
	tr := New(gw)
	checks := []struct {
		name string
		fn   func() error
	}{
		{"student", func() error { _, err := tr.StudentByGithub(ctx, "jhacks"); return err }},
		{"new_student", func() error { _, err := tr.NewStudent(ctx, "a", "b", "c"); return err }},
		{"project", func() error { _, err := tr.ProjectByTitle(ctx, "Markov"); return err }},
		{"grade", func() error { _, err := tr.GradeByGithubTitle(ctx, "jhacks", "Markov"); return err }},
		{"assign", func() error { _, err := tr.AssignGrade(ctx, "jhacks", "Markov", "1"); return err }},
	}
	for i, c := range checks {
		t.Run(c.name, func(t *testing.T) {
			err := c.fn()
			if errors.Cause(err) != gw.err {
				t.Errorf("expected the gateway error; got %v", err)
			}
			if errors.Is(err, ErrNotFound) {
				t.Error("gateway error should not be a not found error")
			}
			if gw.rolledBack != i+1 {
				t.Errorf("expected %d rollbacks; got %d", i+1, gw.rolledBack)
			}
		})
	}
	if gw.committed != 0 {
		t.Errorf("nothing should have been committed; got %d commits", gw.committed)
	}
}
