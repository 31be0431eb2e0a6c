// Package db is the gateway between the tracker and its database.
//
// A Gateway owns exactly one connection for the lifetime of the process.
// Statements are written with named placeholders (":github") and bound by
// the driver. Every statement runs inside a transaction that is opened
// lazily and stays open until Commit or Rollback is called.
package db

import (
	"context"
	"database/sql"
	_ "embed" // for the reference schema
	"io/ioutil"
	"strings"

	"github.com/harrybrwn/errs"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	_ "github.com/lib/pq"                                 // postgres://
	_ "github.com/tursodatabase/libsql-client-go/libsql" // libsql://
	_ "modernc.org/sqlite"                               // files and :memory:
)

// Schema is the reference schema the tracker's queries are written against.
//
//go:embed schema.sql
var Schema string

// ErrNoRows is returned by a Cursor when the query matched nothing.
var ErrNoRows = errors.New("no rows in result set")

// Driver names.
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
	LibSQL   = "libsql"
)

func init() {
	// sqlx only knows the cgo sqlite driver name
	sqlx.BindDriver(SQLite, sqlx.QUESTION)
	sqlx.BindDriver(LibSQL, sqlx.QUESTION)
}

// Params maps placeholder names to values.
type Params map[string]interface{}

// Driver picks the driver for a database url and returns the
// data source name that should be handed to it.
func Driver(url string) (driver, source string) {
	switch {
	case hasPrefix(url, "postgres://", "postgresql://"):
		return Postgres, url
	case hasPrefix(url, "libsql://", "https://", "http://", "wss://", "ws://"):
		return LibSQL, url
	case strings.HasPrefix(url, "sqlite://"):
		return SQLite, strings.TrimPrefix(url, "sqlite://")
	case strings.HasPrefix(url, "sqlite:"):
		return SQLite, strings.TrimPrefix(url, "sqlite:")
	}
	return SQLite, url
}

// Gateway mediates all database access.
type Gateway struct {
	db  *sqlx.DB
	tx  *sqlx.Tx
	log logrus.FieldLogger
}

// Open connects to the database at url. The connection is checked before
// Open returns so a bad url or an unreachable server fails here and not on
// the first query.
func Open(ctx context.Context, url string, logger logrus.FieldLogger) (*Gateway, error) {
	driver, source := Driver(url)
	conn, err := sqlx.Open(driver, source)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open %s database", driver)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)
	if err = conn.PingContext(ctx); err != nil {
		return nil, errs.Pair(
			errors.Wrapf(err, "could not connect to %s database", driver),
			conn.Close(),
		)
	}
	g := New(conn, logger)
	g.log.WithField("driver", driver).Info("database connected")
	return g, nil
}

// New wraps an existing connection. The caller gives up ownership
// of conn, it is closed by Gateway.Close.
func New(conn *sqlx.DB, logger logrus.FieldLogger) *Gateway {
	if logger == nil {
		l := logrus.New()
		l.Out = ioutil.Discard
		logger = l
	}
	return &Gateway{db: conn, log: logger}
}

// DriverName returns the name of the driver in use.
func (g *Gateway) DriverName() string {
	return g.db.DriverName()
}

// Query runs a statement that returns rows.
func (g *Gateway) Query(ctx context.Context, statement string, params Params) (*Cursor, error) {
	tx, err := g.session(ctx)
	if err != nil {
		return nil, err
	}
	g.trace("query", statement, params)
	rows, err := sqlx.NamedQueryContext(ctx, tx, statement, map[string]interface{}(params))
	if err != nil {
		return nil, errors.Wrap(err, "query failed")
	}
	return &Cursor{rows: rows}, nil
}

// Exec runs a statement that does not return rows and reports how many rows
// it touched.
func (g *Gateway) Exec(ctx context.Context, statement string, params Params) (int64, error) {
	tx, err := g.session(ctx)
	if err != nil {
		return 0, err
	}
	g.trace("exec", statement, params)
	res, err := sqlx.NamedExecContext(ctx, tx, statement, map[string]interface{}(params))
	if err != nil {
		return 0, errors.Wrap(err, "statement failed")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "could not count affected rows")
	}
	return n, nil
}

// Script runs one or more statements with no placeholder binding.
func (g *Gateway) Script(ctx context.Context, script string) error {
	tx, err := g.session(ctx)
	if err != nil {
		return err
	}
	g.trace("script", script, nil)
	_, err = tx.ExecContext(ctx, script)
	return errors.Wrap(err, "script failed")
}

// Commit finalizes the pending transaction. It is a no-op when
// nothing has run since the last commit or rollback.
func (g *Gateway) Commit() error {
	if g.tx == nil {
		return nil
	}
	tx := g.tx
	g.tx = nil
	g.log.Debug("commit")
	return errors.Wrap(tx.Commit(), "commit failed")
}

// Rollback discards the pending transaction.
func (g *Gateway) Rollback() error {
	if g.tx == nil {
		return nil
	}
	tx := g.tx
	g.tx = nil
	g.log.Debug("rollback")
	err := tx.Rollback()
	if err == sql.ErrTxDone {
		return nil
	}
	return errors.Wrap(err, "rollback failed")
}

// Close discards anything uncommitted and closes the connection.
func (g *Gateway) Close() error {
	return errs.Pair(g.Rollback(), g.db.Close())
}

func (g *Gateway) session(ctx context.Context) (*sqlx.Tx, error) {
	if g.tx != nil {
		return g.tx, nil
	}
	tx, err := g.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not begin transaction")
	}
	g.tx = tx
	return tx, nil
}

func (g *Gateway) trace(kind, statement string, params Params) {
	g.log.WithFields(logrus.Fields{
		"statement": strings.Join(strings.Fields(statement), " "),
		"params":    params,
	}).Debug(kind)
}

// Cursor gives access to at most one row of a query result.
type Cursor struct {
	rows *sqlx.Rows
}

// FetchOne scans the first row into dest and closes the cursor.
func (c *Cursor) FetchOne(dest ...interface{}) error {
	return c.fetch(func() error { return c.rows.Scan(dest...) })
}

// FetchStruct scans the first row into the struct pointed
// to by dest, matching columns to `db` struct tags.
func (c *Cursor) FetchStruct(dest interface{}) error {
	return c.fetch(func() error { return c.rows.StructScan(dest) })
}

// Close releases the cursor without reading from it.
func (c *Cursor) Close() error {
	return c.rows.Close()
}

func (c *Cursor) fetch(scan func() error) error {
	if !c.rows.Next() {
		err := c.rows.Err()
		c.rows.Close()
		if err != nil {
			return errors.Wrap(err, "could not read row")
		}
		return ErrNoRows
	}
	err := scan()
	if e := c.rows.Close(); err == nil {
		err = e
	}
	return errors.Wrap(err, "could not read row")
}

func hasPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
