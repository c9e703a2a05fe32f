package sqltest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"
)

type StdoutLogger struct {
}

func (s StdoutLogger) Printf(format string, v ...interface{}) {
	fmt.Printf(format, v...)
}

func (s StdoutLogger) Println(v ...interface{}) {
	fmt.Println(v...)
}

var _ mssql.Logger = StdoutLogger{}

// Fixture is a scratch database created for one test and dropped afterwards.
type Fixture struct {
	DB      *sql.DB
	DBName  string
	adminDB *sql.DB
}

// NewFixture connects to SQLSERVER_DSN and creates a scratch database with a
// random name. The test is skipped when the variable is not set, so the suite
// stays runnable without a server.
func NewFixture(t *testing.T) *Fixture {
	t.Helper()

	dsn := os.Getenv("SQLSERVER_DSN")
	if dsn == "" {
		t.Skip("SQLSERVER_DSN not set; skipping database tests")
	}
	dsn = dsn + "&log=3"

	mssql.SetLogger(StdoutLogger{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	var fixture Fixture
	var err error

	fixture.adminDB, err = sql.Open("sqlserver", dsn)
	if err != nil {
		t.Fatal(err)
	}
	fixture.DBName = "ddlfmt" + strings.ReplaceAll(uuid.Must(uuid.NewV4()).String(), "-", "")

	_, err = fixture.adminDB.ExecContext(ctx, fmt.Sprintf(`create database [%s]`, fixture.DBName))
	if err != nil {
		t.Fatal(err)
	}

	pdsn, err := msdsn.Parse(dsn)
	if err != nil {
		t.Fatal(err)
	}
	pdsn.Database = fixture.DBName

	fixture.DB, err = sql.Open("sqlserver", pdsn.URL().String())
	if err != nil {
		t.Fatal(err)
	}

	return &fixture
}

func (f *Fixture) Teardown() {
	if f.adminDB == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	_ = f.DB.Close()
	f.DB = nil
	_, _ = f.adminDB.ExecContext(ctx, fmt.Sprintf(`drop database [%s]`, f.DBName))
	_ = f.adminDB.Close()
	f.adminDB = nil
}
