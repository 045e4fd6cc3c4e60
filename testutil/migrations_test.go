package testutil_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kculafic/bikeThing/migrations"
	"github.com/kculafic/bikeThing/testutil"
)

// TestMigrations applies every migration, checks the segments table and its
// trip reference column exist, then rolls everything back.
func TestMigrations(t *testing.T) {
	db := testutil.NewSQLDB(t)

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	require.NoError(t, err, "create goose provider")

	ctx := context.Background()

	// Another package's TestMain may already have migrated the shared test DB.
	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "initial reset")

	results, err := provider.Up(ctx)
	require.NoError(t, err, "goose up")
	assert.Len(t, results, 2)

	assert.True(t, columnExists(t, db, "routes_segments", "id"))
	assert.True(t, columnExists(t, db, "routes_segments", "longtrips_id"))

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "goose down-to 0")

	assert.False(t, columnExists(t, db, "routes_segments", "id"))

	// Leave the schema migrated for packages that run after this one.
	_, err = migrations.Up(ctx, db)
	require.NoError(t, err, "re-apply migrations")
}

func columnExists(t *testing.T, db *sql.DB, table, column string) bool {
	t.Helper()

	const q = `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_schema = 'public'
			AND   table_name   = $1
			AND   column_name  = $2
		)`
	var exists bool
	err := db.QueryRowContext(context.Background(), q, table, column).Scan(&exists)
	require.NoError(t, err, "check column %s.%s", table, column)
	return exists
}
