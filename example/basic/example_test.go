package example

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vippsas/ddlfmt"
)

func TestFormatEmbedded(t *testing.T) {
	content, err := ddlfs.ReadFile("orders.sql")
	require.NoError(t, err)

	formatted, err := ddlfmt.Format(string(content), ddlfmt.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t,
		"CREATE OR REPLACE TABLE {{edw_db_name}}.orders\n"+
			"(\n"+
			"    order_id INT\n"+
			"    ,customer_id INT\n"+
			"    ,total DECIMAL(10,2)\n"+
			");\n",
		formatted)

	// Canonical output is a fixed point.
	again, err := ddlfmt.Format(formatted, ddlfmt.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, formatted, again)
}
