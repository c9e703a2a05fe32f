package ddlfmt

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	pgxstdlib "github.com/jackc/pgx/v5/stdlib"
	mssql "github.com/microsoft/go-mssqldb"
)

// DB is the part of *sql.DB that applying DDL needs; taking the interface
// lets tests substitute fakes for a live server.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	Conn(ctx context.Context) (*sql.Conn, error)
	BeginTx(ctx context.Context, txOptions *sql.TxOptions) (*sql.Tx, error)
	Driver() driver.Driver
}

var _ DB = &sql.DB{}

// Apply executes every batch of a rendered file inside one transaction, so
// a half-applied script never survives a failure. SQL Server errors come
// back as ExecError with line numbers mapped to the source file.
func Apply(ctx context.Context, dbc DB, file RenderedFile) error {
	switch dbc.Driver().(type) {
	case *mssql.Driver, *pgxstdlib.Driver:
	default:
		return fmt.Errorf("cannot apply DDL through sql driver %T", dbc.Driver())
	}

	tx, err := dbc.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, b := range file.Batches {
		_, err := tx.ExecContext(ctx, b.Lines)
		if err != nil {
			_ = tx.Rollback()
			sqlerr, ok := err.(mssql.Error)
			if !ok {
				return err
			}
			return ExecError{
				Wrapped: sqlerr,
				Batch:   b,
			}
		}
	}
	return tx.Commit()
}
