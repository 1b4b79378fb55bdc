package etl

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/BartekS5/dataflow/pkg/database"
	"github.com/BartekS5/dataflow/pkg/logger"
	"github.com/BartekS5/dataflow/pkg/models"
)

// sqlColumns are the record fields persisted by SQLLoader, in column order.
// id is stored as text so any identifier type round-trips.
var sqlColumns = []string{
	models.FieldID,
	models.FieldUser,
	models.FieldValue,
	models.FieldStatus,
	models.FieldIsActive,
}

// Dialect hides the placeholder and quoting differences between drivers.
type Dialect struct {
	Driver string
}

func (d Dialect) Placeholder(n int) string {
	switch d.Driver {
	case database.DriverSQLServer:
		return fmt.Sprintf("@p%d", n)
	case database.DriverPostgres:
		return fmt.Sprintf("$%d", n)
	default:
		return "?"
	}
}

func (d Dialect) Quote(ident string) string {
	if d.Driver == database.DriverSQLServer {
		return "[" + ident + "]"
	}
	return `"` + ident + `"`
}

// CreateTableSQL returns DDL for the processed records table.
func (d Dialect) CreateTableSQL(table string) string {
	boolType, textType := "BOOLEAN", "VARCHAR(255)"
	if d.Driver == database.DriverSQLServer {
		boolType, textType = "BIT", "NVARCHAR(255)"
	}
	cols := []string{
		fmt.Sprintf("%s %s NOT NULL PRIMARY KEY", d.Quote(models.FieldID), textType),
		fmt.Sprintf("%s %s NOT NULL", d.Quote(models.FieldUser), textType),
		fmt.Sprintf("%s BIGINT NOT NULL", d.Quote(models.FieldValue)),
		fmt.Sprintf("%s %s NULL", d.Quote(models.FieldStatus), textType),
		fmt.Sprintf("%s %s NOT NULL", d.Quote(models.FieldIsActive), boolType),
	}
	body := strings.Join(cols, ", ")

	if d.Driver == database.DriverSQLServer {
		return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NULL CREATE TABLE %s (%s)", table, d.Quote(table), body)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", d.Quote(table), body)
}

// SQLLoader inserts or updates accepted records in a SQL table.
type SQLLoader struct {
	DB      *sql.DB
	Table   string
	Dialect Dialect
	Log     *logger.Logger
}

func NewSQLLoader(db *sql.DB, driver, table string, log *logger.Logger) *SQLLoader {
	return &SQLLoader{DB: db, Table: table, Dialect: Dialect{Driver: driver}, Log: log}
}

// EnsureTable creates the target table when it does not exist yet.
func (l *SQLLoader) EnsureTable() error {
	if _, err := l.DB.Exec(l.Dialect.CreateTableSQL(l.Table)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", l.Table, err)
	}
	return nil
}

func (l *SQLLoader) Load(batch models.Batch, destination string) (int, error) {
	log := orDefault(l.Log)
	log.Infof("Loading data to %s (sql table %s)...", destination, l.Table)

	loaded := 0
	for _, rec := range batch {
		id := fmt.Sprint(rec[models.FieldID])

		// 1. Check if row exists
		var exists int
		checkQuery := fmt.Sprintf("SELECT 1 FROM %s WHERE %s = %s",
			l.Dialect.Quote(l.Table), l.Dialect.Quote(models.FieldID), l.Dialect.Placeholder(1))
		err := l.DB.QueryRow(checkQuery, id).Scan(&exists)

		switch {
		case errors.Is(err, sql.ErrNoRows):
			err = l.insertRow(rec, id)
		case err == nil:
			err = l.updateRow(rec, id)
		default:
			err = fmt.Errorf("error checking row existence: %w", err)
		}
		if err != nil {
			return loaded, err
		}
		loaded++
	}

	log.Infof("Successfully loaded %d records to %s.", loaded, destination)
	return loaded, nil
}

func columnValue(rec models.Record, col string) interface{} {
	v := rec[col]
	if col == models.FieldStatus && v != nil {
		return fmt.Sprint(v)
	}
	return v
}

func (l *SQLLoader) insertRow(rec models.Record, id string) error {
	colNames := make([]string, 0, len(sqlColumns))
	placeholders := make([]string, 0, len(sqlColumns))
	args := make([]interface{}, 0, len(sqlColumns))

	for _, col := range sqlColumns {
		colNames = append(colNames, l.Dialect.Quote(col))
		placeholders = append(placeholders, l.Dialect.Placeholder(len(args)+1))
		if col == models.FieldID {
			args = append(args, id)
		} else {
			args = append(args, columnValue(rec, col))
		}
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		l.Dialect.Quote(l.Table), strings.Join(colNames, ", "), strings.Join(placeholders, ", "))

	if _, err := l.DB.Exec(query, args...); err != nil {
		return fmt.Errorf("error inserting record %s: %w", id, err)
	}
	return nil
}

func (l *SQLLoader) updateRow(rec models.Record, id string) error {
	var setClauses []string
	var args []interface{}

	for _, col := range sqlColumns[1:] {
		setClauses = append(setClauses, fmt.Sprintf("%s = %s", l.Dialect.Quote(col), l.Dialect.Placeholder(len(args)+1)))
		args = append(args, columnValue(rec, col))
	}

	// ID goes last for the WHERE clause
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		l.Dialect.Quote(l.Table), strings.Join(setClauses, ", "), l.Dialect.Quote(models.FieldID), l.Dialect.Placeholder(len(args)))

	if _, err := l.DB.Exec(query, args...); err != nil {
		return fmt.Errorf("error updating record %s: %w", id, err)
	}
	return nil
}

// SetLogger swaps the logger and returns the previous one.
func (l *SQLLoader) SetLogger(next *logger.Logger) *logger.Logger {
	prev := l.Log
	l.Log = next
	return prev
}
