package example

import (
	"embed"
)

//go:embed *.sql
var ddlfs embed.FS
