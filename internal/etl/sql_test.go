package etl

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BartekS5/dataflow/pkg/database"
	"github.com/BartekS5/dataflow/pkg/logger"
	"github.com/BartekS5/dataflow/pkg/models"
)

func TestDialect_Placeholders(t *testing.T) {
	assert.Equal(t, "@p2", Dialect{Driver: database.DriverSQLServer}.Placeholder(2))
	assert.Equal(t, "$3", Dialect{Driver: database.DriverPostgres}.Placeholder(3))
	assert.Equal(t, "?", Dialect{Driver: database.DriverSQLite}.Placeholder(1))

	assert.Equal(t, "[user]", Dialect{Driver: database.DriverSQLServer}.Quote("user"))
	assert.Equal(t, `"user"`, Dialect{Driver: database.DriverPostgres}.Quote("user"))
}

func TestDialect_CreateTableSQL(t *testing.T) {
	mssql := Dialect{Driver: database.DriverSQLServer}.CreateTableSQL("processed")
	assert.Contains(t, mssql, "IF OBJECT_ID(N'processed', N'U') IS NULL")
	assert.Contains(t, mssql, "[is_active] BIT NOT NULL")

	pg := Dialect{Driver: database.DriverPostgres}.CreateTableSQL("processed")
	assert.Contains(t, pg, `CREATE TABLE IF NOT EXISTS "processed"`)
	assert.Contains(t, pg, `"is_active" BOOLEAN NOT NULL`)
}

func newSQLiteLoader(t *testing.T) *SQLLoader {
	t.Helper()
	db, err := database.ConnectSQL(database.DriverSQLite, filepath.Join(t.TempDir(), "sink.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	l := NewSQLLoader(db, database.DriverSQLite, "processed_records", logger.Discard())
	require.NoError(t, l.EnsureTable())
	require.NoError(t, l.EnsureTable())
	return l
}

func TestSQLLoader_InsertThenUpdate(t *testing.T) {
	l := newSQLiteLoader(t)

	batch := Accepted(NewTransformer(logger.Discard()).Transform(FixtureRecords()))
	n, err := l.Load(batch, "database://production/processed_data")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	var count int
	require.NoError(t, l.DB.QueryRow(`SELECT COUNT(*) FROM "processed_records"`).Scan(&count))
	assert.Equal(t, 3, count)

	var user string
	var value int
	var active bool
	require.NoError(t, l.DB.QueryRow(`SELECT "user", "value", "is_active" FROM "processed_records" WHERE "id" = ?`, "3").
		Scan(&user, &value, &active))
	assert.Equal(t, "GAMMA", user)
	assert.Equal(t, 0, value)
	assert.True(t, active)

	// second load of the same ids updates in place
	batch[1]["value"] = 999
	_, err = l.Load(batch, "database://production/processed_data")
	require.NoError(t, err)

	require.NoError(t, l.DB.QueryRow(`SELECT COUNT(*) FROM "processed_records"`).Scan(&count))
	assert.Equal(t, 3, count)
	require.NoError(t, l.DB.QueryRow(`SELECT "value" FROM "processed_records" WHERE "id" = ?`, "2").Scan(&value))
	assert.Equal(t, 999, value)
}

func TestSQLLoader_NullStatus(t *testing.T) {
	l := newSQLiteLoader(t)

	rec := models.Record{"id": "abc", "user": "X", "value": 1, "is_active": false}
	_, err := l.Load(models.Batch{rec}, "x")
	require.NoError(t, err)

	var status *string
	require.NoError(t, l.DB.QueryRow(`SELECT "status" FROM "processed_records" WHERE "id" = ?`, "abc").Scan(&status))
	assert.Nil(t, status)
}

func TestSQLLoader_MissingTable(t *testing.T) {
	l := newSQLiteLoader(t)
	l.Table = "nope"

	n, err := l.Load(models.Batch{{"id": 1, "user": "A", "value": 1, "is_active": true}}, "x")
	assert.Error(t, err)
	assert.Zero(t, n)
}
