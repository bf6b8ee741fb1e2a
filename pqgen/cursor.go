package pqgen

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"golang.org/x/xerrors"

	"github.com/canastic/generator"
)

// Tx is the part of *sql.Tx a cursor needs. Cursors only live within a
// transaction.
type Tx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

type Scanner interface {
	Scan(dest ...interface{}) error
}

// A RowGenerator yields the rows of a query, scanned into T.
type RowGenerator[T any] struct {
	*generator.Generator[T]
	err *error
}

// Err returns the error that ended the generator, if any. It's only
// meaningful once the generator is exhausted.
func (g *RowGenerator[T]) Err() error {
	if !g.Done() {
		return nil
	}
	return *g.err
}

// Cursor declares a cursor named name for query in tx and returns a generator
// that fetches one row from it per call to Next. Nothing is
// sent to the database until the first call to Next.
//
// The cursor is closed when the rows run out, fetching fails, or ctx is
// stopped (see WithStop). Statements
// on the cursor only run while the consumer is blocked in Next, so tx may be
// used by the consumer between calls.
func Cursor[T any](
	ctx context.Context,
	tx Tx,
	name string,
	query string,
	args []interface{},
	scan func(Scanner) (T, error),
	options ...generator.SetOption,
) *RowGenerator[T] {
	errp := new(error)
	g := generator.New(func(c *generator.Context[T]) {
		*errp = iterCursor(ctx, c, tx, pq.QuoteIdentifier(name), query, args, scan)
	}, options...)
	return &RowGenerator[T]{Generator: g, err: errp}
}

func iterCursor[T any](
	ctx context.Context,
	c *generator.Context[T],
	tx Tx,
	cursor string,
	query string,
	args []interface{},
	scan func(Scanner) (T, error),
) (err error) {
	_, err = tx.ExecContext(ctx, "DECLARE "+cursor+" CURSOR FOR "+query, args...)
	if err != nil {
		return xerrors.Errorf("declaring cursor %s: %w", cursor, err)
	}
	defer func() {
		_, closeErr := tx.ExecContext(ctx, "CLOSE "+cursor)
		if err == nil && closeErr != nil {
			err = xerrors.Errorf("closing cursor %s: %w", cursor, closeErr)
		}
	}()

	for {
		// Fetch only while the consumer waits in Next, so they never use
		// tx at the same time.
		c.Await()
		if isStopped(ctx) {
			return ctx.Err()
		}
		v, ok, err := fetchNext(ctx, tx, cursor, scan)
		if err != nil || !ok {
			return err
		}
		c.Yield(v)
	}
}

func fetchNext[T any](ctx context.Context, tx Tx, cursor string, scan func(Scanner) (T, error)) (v T, ok bool, err error) {
	rows, err := tx.QueryContext(ctx, "FETCH NEXT FROM "+cursor)
	if err != nil {
		return v, false, xerrors.Errorf("fetching next from cursor: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return v, false, xerrors.Errorf("iterating rows: %w", err)
		}
		return v, false, nil
	}

	v, err = scan(rows)
	if err != nil {
		return v, false, xerrors.Errorf("scanning row: %w", err)
	}
	return v, true, nil
}
