package ddlfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vippsas/ddlfmt/sqlparser"
)

func TestEnsureOrReplace(t *testing.T) {
	test := func(input, expected string) func(*testing.T) {
		return func(t *testing.T) {
			got, err := Format(input, DefaultConfig())
			require.NoError(t, err)
			assert.Equal(t, expected, got)
		}
	}

	canonical := "CREATE OR REPLACE TABLE {{edw_db_name}}.b\n(\n    x INT\n);"

	t.Run("inserted when missing",
		test("create table a.b (\n  x int\n);", canonical))
	t.Run("kept when present",
		test("create or replace table a.b (\n  x int\n);", canonical))
	t.Run("if not exists removed",
		test("create table if not exists a.b (\n  x int\n);", canonical))
	t.Run("if not exists removed alongside or replace",
		test("create or replace table if not exists a.b (\n  x int\n);", canonical))
	t.Run("multi line guard removed",
		test("create table if   not\n  exists a.b (\n  x int\n);", canonical))
	t.Run("guard kept when a comment sits inside it",
		test("create table if /* keep me */ not exists a.b (\n  x int\n);",
			"CREATE OR REPLACE TABLE IF /* keep me */ NOT EXISTS {{edw_db_name}}.b\n(\n    x INT\n);"))
}

func TestQualifyName(t *testing.T) {
	test := func(input, expected string) func(*testing.T) {
		return func(t *testing.T) {
			got, err := Format(input, DefaultConfig())
			require.NoError(t, err)
			assert.Equal(t, expected, got)
		}
	}

	t.Run("bare name gets the variable prepended",
		test("create table orders (\n  id int\n);",
			"CREATE OR REPLACE TABLE {{edw_db_name}}.orders\n(\n    id INT\n);"))
	t.Run("first qualifier replaced",
		test("create table stage.orders (\n  id int\n);",
			"CREATE OR REPLACE TABLE {{edw_db_name}}.orders\n(\n    id INT\n);"))
	t.Run("only the first qualifier of a long name",
		test("create table dev.dbo.orders (\n  id int\n);",
			"CREATE OR REPLACE TABLE {{edw_db_name}}.dbo.orders\n(\n    id INT\n);"))
	t.Run("quoted first qualifier replaced",
		test("create table \"stage\".orders (\n  id int\n);",
			"CREATE OR REPLACE TABLE {{edw_db_name}}.orders\n(\n    id INT\n);"))
	t.Run("quoted bare name",
		test("create table [my table] (\n  id int\n);",
			"CREATE OR REPLACE TABLE {{edw_db_name}}.[my table]\n(\n    id INT\n);"))
	t.Run("variable already in place",
		test("create table {{edw_db_name}}.orders (\n  id int\n);",
			"CREATE OR REPLACE TABLE {{edw_db_name}}.orders\n(\n    id INT\n);"))
	t.Run("variable spelling normalized",
		test("create table {{ EDW_DB_NAME }}.orders (\n  id int\n);",
			"CREATE OR REPLACE TABLE {{edw_db_name}}.orders\n(\n    id INT\n);"))
	t.Run("foreign variable leaves the name alone",
		test("create table {{staging_db}}.orders (\n  id int\n);",
			"CREATE OR REPLACE TABLE {{staging_db}}.orders\n(\n    id INT\n);"))
}

func TestParenOnOwnLine(t *testing.T) {
	test := func(input, expected string) func(*testing.T) {
		return func(t *testing.T) {
			got, err := Format(input, DefaultConfig())
			require.NoError(t, err)
			assert.Equal(t, expected, got)
		}
	}

	t.Run("line ending paren moves",
		test("create table a.b (\n  x int\n);",
			"CREATE OR REPLACE TABLE {{edw_db_name}}.b\n(\n    x INT\n);"))
	t.Run("paren with content after it stays",
		test("create table a.b (x int,\n  y int\n);",
			"CREATE OR REPLACE TABLE {{edw_db_name}}.b (x INT\n    ,y INT\n);"))
	t.Run("single line statement stays on one line",
		test("create table a.b (x int);",
			"CREATE OR REPLACE TABLE {{edw_db_name}}.b (x INT);"))
	t.Run("create line indent carries over",
		test("  create table a.b (\n    x int\n  );",
			"  CREATE OR REPLACE TABLE {{edw_db_name}}.b\n  (\n      x INT\n  );"))
	t.Run("statement starting mid line has no indent",
		test("select 1; create table a.b (\n  x int\n);",
			"select 1; CREATE OR REPLACE TABLE {{edw_db_name}}.b\n(\n    x INT\n);"))
}

func TestReflowCommas(t *testing.T) {
	test := func(input, expected string) func(*testing.T) {
		return func(t *testing.T) {
			got, err := Format(input, DefaultConfig())
			require.NoError(t, err)
			assert.Equal(t, expected, got)
		}
	}

	t.Run("trailing comma becomes leading",
		test("create table a.b (\n  x int,\n  y int\n);",
			"CREATE OR REPLACE TABLE {{edw_db_name}}.b\n(\n    x INT\n    ,y INT\n);"))
	t.Run("dangling comma before closing paren dropped",
		test("create table a.b (\n  x int,\n);",
			"CREATE OR REPLACE TABLE {{edw_db_name}}.b\n(\n    x INT\n);"))
	t.Run("dangling comma with space dropped",
		test("create table a.b (\n  x int ,\n);",
			"CREATE OR REPLACE TABLE {{edw_db_name}}.b\n(\n    x INT\n);"))
	t.Run("trailing comment stays with its column",
		test("create table a.b (\n  id int, -- primary key\n  name varchar(5)\n);",
			"CREATE OR REPLACE TABLE {{edw_db_name}}.b\n(\n    id INT -- primary key\n    ,name VARCHAR(5)\n);"))
	t.Run("comment only line keeps its whitespace",
		test("create table a.b (\n  a int,\n  -- totals\n  b int\n);",
			"CREATE OR REPLACE TABLE {{edw_db_name}}.b\n(\n    a INT\n  -- totals\n    ,b INT\n);"))
	t.Run("blank line preserved",
		test("create table a.b (\n  a int,\n\n  b int\n);",
			"CREATE OR REPLACE TABLE {{edw_db_name}}.b\n(\n    a INT\n\n    ,b INT\n);"))
	t.Run("comma inside type arguments untouched",
		test("create table a.b (\n  x decimal(10,2),\n  y int\n);",
			"CREATE OR REPLACE TABLE {{edw_db_name}}.b\n(\n    x DECIMAL(10,2)\n    ,y INT\n);"))
	t.Run("line ending comma at any depth moves",
		test("create table a.b (\n  x int check (x in (1,\n  2)),\n  y int\n);",
			"CREATE OR REPLACE TABLE {{edw_db_name}}.b\n(\n    x INT CHECK (x IN (1\n    ,2))\n    ,y INT\n);"))
	t.Run("leading comma already in place",
		test("CREATE OR REPLACE TABLE {{edw_db_name}}.b\n(\n    x INT\n    ,y INT\n);",
			"CREATE OR REPLACE TABLE {{edw_db_name}}.b\n(\n    x INT\n    ,y INT\n);"))
}

func TestEachRuleIsIdempotent(t *testing.T) {
	input := "create table if not exists foo.bar (\n  id int,\n  name varchar(10), -- note\n  total decimal(10,2)\n);"
	for _, rule := range rewriteRules {
		t.Run(rule.name, func(t *testing.T) {
			doc := sqlparser.ParseString("test.sql", input)
			require.Len(t, doc.Statements, 1)
			st := doc.Statements[0]
			rule.apply(&st, DefaultConfig())
			once := st.String()
			rule.apply(&st, DefaultConfig())
			require.Equal(t, once, st.String())
		})
	}
}

func TestCreateLineIndent(t *testing.T) {
	test := func(input, expected string) func(*testing.T) {
		return func(t *testing.T) {
			doc := sqlparser.ParseString("test.sql", input)
			require.NotEmpty(t, doc.Statements)
			body := doc.Statements[len(doc.Statements)-1].Body
			assert.Equal(t, expected, createLineIndent(body))
		}
	}

	t.Run("column one", test("create table a.b (x int);", ""))
	t.Run("file leading spaces", test("  create table a.b (x int);", "  "))
	t.Run("tab and space after newline", test("\n\t create table a.b (x int);", "\t "))
	t.Run("after a comment line", test("-- header\n  create table a.b (x int);", "  "))
	t.Run("comment on the create line", test("/* c */ create table a.b (x int);", ""))
	t.Run("mid line after another statement", test("select 1; create table a.b (x int);", ""))
}
