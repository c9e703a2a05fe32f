package sqltest

import (
	"embed"
)

// The embedded tree is what the apply tests feed through WalkDDLFiles; an
// embed.FS is an fs.FS, so the walk works on it unchanged.
//
//go:embed testdata/*.sql
var ddlFS embed.FS
