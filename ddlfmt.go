// Package ddlfmt canonicalizes SQL DDL scripts. Create table/view statements
// are rewritten onto one standard shape: cased keywords, CREATE OR REPLACE,
// a template-variable database qualifier and leading-comma column lists.
// Every other statement, and every string literal, comment and quoted
// identifier, passes through byte for byte.
package ddlfmt

import (
	"github.com/vippsas/ddlfmt/sqlparser"
)

// KeywordCase is the casing applied to recognized keywords.
type KeywordCase int

const (
	KeywordUpper KeywordCase = iota
	KeywordLower
)

// Config controls the canonical shape. DefaultConfig returns the values the
// command line tool uses when no overrides are given.
type Config struct {
	// TemplateVariable takes over the first qualifier of every create
	// table/view name, e.g. "{{edw_db_name}}". Empty disables that rewrite.
	TemplateVariable string

	// IndentWidth is how many spaces column definitions are indented past
	// the CREATE line.
	IndentWidth int

	KeywordCase KeywordCase
}

func DefaultConfig() Config {
	return Config{
		TemplateVariable: "{{edw_db_name}}",
		IndentWidth:      4,
		KeywordCase:      KeywordUpper,
	}
}

// Format rewrites source into canonical form. The rewrite is all or nothing:
// if the input cannot be lexed the result is empty and the error is a
// ParseErrors listing every position the scanner could report. Input with no
// create table/view statements comes back unchanged; that is a normal
// outcome, not an error.
//
// Format keeps no state between calls and is safe to call concurrently.
func Format(source string, cfg Config) (string, error) {
	return FormatFile("<input>", source, cfg)
}

// FormatFile is Format with a file name for error positions.
func FormatFile(file sqlparser.FileRef, source string, cfg Config) (string, error) {
	if cfg.IndentWidth < 0 {
		cfg.IndentWidth = 0
	}
	doc := sqlparser.ParseString(file, source)
	if doc.HasErrors() {
		return "", ParseErrors{Errors: doc.Errors}
	}
	for i := range doc.Statements {
		if doc.Statements[i].Type == sqlparser.OtherStatement {
			continue
		}
		doc.Statements[i] = rewrite(doc.Statements[i], cfg)
	}
	return doc.String(), nil
}
