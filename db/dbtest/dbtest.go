// Package dbtest provides seeded in-memory databases for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/harrybrwn/hackbright/db"
)

// Seed is the sample data loaded by Open and Load.
const Seed = `
INSERT INTO students (first_name, last_name, github) VALUES
    ('Jane', 'Hacker', 'jhacks'),
    ('Sarah', 'Developer', 'sdevelops');

INSERT INTO projects (title, description, max_grade) VALUES
    ('Markov', 'Tweets generated from Markov chains', 50),
    ('Blockly', 'Programmatic Logic Puzzle Game', 100);

INSERT INTO grades (student_github, project_title, grade) VALUES
    ('jhacks', 'Markov', 10),
    ('jhacks', 'Blockly', 2),
    ('sdevelops', 'Markov', 50),
    ('sdevelops', 'Blockly', 100);
`

// Open returns a gateway to a fresh in-memory database holding
// the reference schema and the sample data.
func Open(t testing.TB) *db.Gateway {
	t.Helper()
	return OpenURL(t, ":memory:")
}

// OpenURL is the same as Open but for any database url. The gateway
// is closed when the test finishes.
func OpenURL(t testing.TB, url string) *db.Gateway {
	t.Helper()
	g, err := db.Open(context.Background(), url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := g.Close(); err != nil {
			t.Error(err)
		}
	})
	Load(t, g)
	return g
}

// Load applies the schema and sample data and commits them.
func Load(t testing.TB, g *db.Gateway) {
	t.Helper()
	ctx := context.Background()
	for _, script := range []string{db.Schema, Seed} {
		if err := g.Script(ctx, script); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.Commit(); err != nil {
		t.Fatal(err)
	}
}
