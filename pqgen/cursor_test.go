package pqgen_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canastic/generator/pqgen"
)

var (
	postgresConnString = os.Getenv("PQGEN_TEST_POSTGRES_CONNSTRING")
	enabled            = os.Getenv("PQGEN_TEST_ENABLED") == "true"
)

func openTestDB(t *testing.T) *sql.DB {
	if !enabled {
		t.Skip("Set PQGEN_TEST_ENABLED=true to run")
	}
	db, err := sql.Open("postgres", postgresConnString)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Ping())
	return db
}

func TestCursor(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	g := pqgen.Cursor(ctx, tx, "numbers", "SELECT n, 'row ' || n FROM generate_series($1::int, $2::int) AS n", []interface{}{1, 5},
		func(s pqgen.Scanner) (string, error) {
			var n int
			var label string
			err := s.Scan(&n, &label)
			return fmt.Sprintf("%d:%s", n, label), err
		},
	)

	var got []string
	for row := range g.All() {
		got = append(got, row)

		// The consumer can use the transaction between rows.
		var one int
		require.NoError(t, tx.QueryRowContext(ctx, "SELECT 1").Scan(&one))
	}
	assert.NoError(t, g.Err())
	assert.Equal(t, []string{"1:row 1", "2:row 2", "3:row 3", "4:row 4", "5:row 5"}, got)
}

func TestCursorBadQuery(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	g := pqgen.Cursor(ctx, tx, "bad", "SELECT FROM no_such_table", nil,
		func(s pqgen.Scanner) (int, error) { return 0, nil },
	)

	_, ok := g.Next()
	assert.False(t, ok)
	require.Error(t, g.Err())
	assert.Contains(t, g.Err().Error(), "declaring cursor")
}

func TestNotificationsPostgres(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	l := pqgen.NewListener(postgresConnString, 0, 0, nil)
	defer l.Close()

	g, err := pqgen.Notifications(ctx, l, "pqgen_test")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := db.ExecContext(ctx, "SELECT pg_notify('pqgen_test', $1)", fmt.Sprint(i))
		require.NoError(t, err)
	}

	for i := 0; i < 3; i++ {
		n, ok := g.Next()
		require.True(t, ok)
		assert.Equal(t, fmt.Sprint(i), n.Extra)
	}
}
