package ddlfmt

import (
	"strings"

	"github.com/vippsas/ddlfmt/sqlparser"
)

// A rewriteRule rewrites the token slice of one create statement. Rules run
// in the order listed in rewriteRules, each relying on the shape established
// by the ones before it, and each is idempotent: formatting already
// formatted text changes nothing.
type rewriteRule struct {
	name       string
	tablesOnly bool
	apply      func(st *sqlparser.Statement, cfg Config)
}

var rewriteRules = []rewriteRule{
	{name: "keyword-case", apply: caseKeywords},
	{name: "create-or-replace", apply: ensureOrReplace},
	{name: "qualify-name", apply: qualifyName},
	{name: "paren-own-line", tablesOnly: true, apply: parenOnOwnLine},
	{name: "leading-commas", apply: reflowCommas},
}

// rewrite runs every rule over a create statement, then re-derives the
// classification since the rules rewrite the statement head.
func rewrite(st sqlparser.Statement, cfg Config) sqlparser.Statement {
	for _, r := range rewriteRules {
		if r.tablesOnly && st.Type != sqlparser.CreateTableStatement {
			continue
		}
		r.apply(&st, cfg)
	}
	return sqlparser.Classify(st.Body)
}

func isKeyword(u sqlparser.Unparsed, word string) bool {
	return u.Type == sqlparser.KeywordToken && strings.EqualFold(u.RawValue, word)
}

// nextSignificant returns the index of the first significant token at or
// after i, or -1 when only trivia remains.
func nextSignificant(body []sqlparser.Unparsed, i int) int {
	for ; i < len(body); i++ {
		if body[i].Significant() {
			return i
		}
	}
	return -1
}

// isNewlineWhitespace reports whether u is a whitespace token containing a
// line break. The scanner emits whitespace runs as single tokens, so every
// line boundary outside comments and literals shows up as one of these.
func isNewlineWhitespace(u sqlparser.Unparsed) bool {
	return u.Type == sqlparser.WhitespaceToken && strings.ContainsRune(u.RawValue, '\n')
}

func insertAt(body []sqlparser.Unparsed, i int, toks ...sqlparser.Unparsed) []sqlparser.Unparsed {
	out := make([]sqlparser.Unparsed, 0, len(body)+len(toks))
	out = append(out, body[:i]...)
	out = append(out, toks...)
	out = append(out, body[i:]...)
	return out
}

func keywordText(cfg Config, word string) string {
	if cfg.KeywordCase == KeywordLower {
		return strings.ToLower(word)
	}
	return word
}

// tableOrViewIndex returns the index of the TABLE or VIEW keyword of a
// create statement body, walking CREATE [OR REPLACE]. -1 when the head does
// not have that shape.
func tableOrViewIndex(body []sqlparser.Unparsed) int {
	i := nextSignificant(body, 0)
	if i < 0 || !isKeyword(body[i], "create") {
		return -1
	}
	i = nextSignificant(body, i+1)
	if i >= 0 && isKeyword(body[i], "or") {
		i = nextSignificant(body, i+1)
		if i < 0 || !isKeyword(body[i], "replace") {
			return -1
		}
		i = nextSignificant(body, i+1)
	}
	if i < 0 || !(isKeyword(body[i], "table") || isKeyword(body[i], "view")) {
		return -1
	}
	return i
}

// nameIndex returns the index of the first object-name token, skipping a
// leading IF NOT EXISTS guard. -1 when the head is not a create table/view.
func nameIndex(body []sqlparser.Unparsed) int {
	i := tableOrViewIndex(body)
	if i < 0 {
		return -1
	}
	i = nextSignificant(body, i+1)
	if i >= 0 && isKeyword(body[i], "if") {
		i = nextSignificant(body, i+1)
		if i < 0 || !isKeyword(body[i], "not") {
			return -1
		}
		i = nextSignificant(body, i+1)
		if i < 0 || !isKeyword(body[i], "exists") {
			return -1
		}
		i = nextSignificant(body, i+1)
	}
	return i
}

// createLineIndent returns the leading whitespace of the line the CREATE
// keyword sits on; this anchors paren and column indentation. Empty when the
// statement starts mid-line or its line opens inside a multi-line comment.
func createLineIndent(body []sqlparser.Unparsed) string {
	ci := nextSignificant(body, 0)
	for j := ci - 1; j >= 0; j-- {
		raw := body[j].RawValue
		if k := strings.LastIndexByte(raw, '\n'); k >= 0 {
			if body[j].Type == sqlparser.WhitespaceToken {
				return raw[k+1:]
			}
			return ""
		}
	}
	if ci > 0 && body[0].Type == sqlparser.WhitespaceToken && body[0].Start.Col == 1 {
		return body[0].RawValue
	}
	return ""
}

// caseKeywords rewrites every keyword token to the configured case. Keywords
// are the only tokens whose spelling changes; identifiers, literals and
// comments keep their bytes.
func caseKeywords(st *sqlparser.Statement, cfg Config) {
	for i := range st.Body {
		if st.Body[i].Type != sqlparser.KeywordToken {
			continue
		}
		if cfg.KeywordCase == KeywordLower {
			st.Body[i].RawValue = strings.ToLower(st.Body[i].RawValue)
		} else {
			st.Body[i].RawValue = strings.ToUpper(st.Body[i].RawValue)
		}
	}
}

// ensureOrReplace inserts OR REPLACE after CREATE when it is missing, and
// removes an IF NOT EXISTS guard: the two are mutually exclusive on the
// target platform, and the canonical form always replaces.
func ensureOrReplace(st *sqlparser.Statement, cfg Config) {
	body := st.Body

	ci := nextSignificant(body, 0)
	if ci < 0 {
		return
	}
	if i := nextSignificant(body, ci+1); i >= 0 && !isKeyword(body[i], "or") {
		body = insertAt(body, ci+1,
			sqlparser.Synth(sqlparser.WhitespaceToken, " "),
			sqlparser.Synth(sqlparser.KeywordToken, keywordText(cfg, "OR")),
			sqlparser.Synth(sqlparser.WhitespaceToken, " "),
			sqlparser.Synth(sqlparser.KeywordToken, keywordText(cfg, "REPLACE")),
		)
	}
	st.Body = body

	tv := tableOrViewIndex(body)
	if tv < 0 {
		return
	}
	fi := nextSignificant(body, tv+1)
	if fi < 0 || !isKeyword(body[fi], "if") {
		return
	}
	ni := nextSignificant(body, fi+1)
	if ni < 0 || !isKeyword(body[ni], "not") {
		return
	}
	ei := nextSignificant(body, ni+1)
	if ei < 0 || !isKeyword(body[ei], "exists") {
		return
	}
	// never lose a comment: leave the guard alone if one sits inside it
	for j := fi; j <= ei; j++ {
		if !body[j].Significant() && body[j].Type != sqlparser.WhitespaceToken {
			return
		}
	}
	end := ei + 1
	if end < len(body) && body[end].Type == sqlparser.WhitespaceToken {
		end++
	}
	st.Body = append(body[:fi], body[end:]...)
}

// qualifyName puts the configured template variable in the name's first
// qualifier slot: bare names get it prepended, qualified names have their
// first qualifier replaced. A name already led by the variable only has its
// spelling normalized, and a different template variable means the name is
// managed elsewhere and the whole name is left alone.
func qualifyName(st *sqlparser.Statement, cfg Config) {
	if cfg.TemplateVariable == "" {
		return
	}
	body := st.Body
	p0 := nameIndex(body)
	if p0 < 0 {
		return
	}

	if body[p0].Type == sqlparser.TemplateVariableToken {
		if sameTemplateVariable(body[p0].RawValue, cfg.TemplateVariable) {
			body[p0].RawValue = cfg.TemplateVariable
		}
		return
	}

	if d := nextSignificant(body, p0+1); d >= 0 && body[d].Type == sqlparser.DotToken {
		body[p0] = sqlparser.Synth(sqlparser.TemplateVariableToken, cfg.TemplateVariable)
		return
	}

	st.Body = insertAt(body, p0,
		sqlparser.Synth(sqlparser.TemplateVariableToken, cfg.TemplateVariable),
		sqlparser.Synth(sqlparser.DotToken, "."),
	)
}

// sameTemplateVariable compares the names inside two {{...}} placeholders,
// so {{ EDW_DB_NAME }} and {{edw_db_name}} are the same variable.
func sameTemplateVariable(a, b string) bool {
	return variableName(a) == variableName(b)
}

// parenOnOwnLine moves a table's column-list opening paren onto its own
// line, indented like the CREATE line. Only a paren that already ends its
// line moves; `create table t (id int);` written on one line keeps its
// shape.
func parenOnOwnLine(st *sqlparser.Statement, cfg Config) {
	body := st.Body
	oi := -1
	for i := range body {
		if body[i].Type == sqlparser.LeftParenToken {
			oi = i
			break
		}
	}
	if oi < 0 || oi+1 >= len(body) || !isNewlineWhitespace(body[oi+1]) {
		return
	}
	indent := createLineIndent(body)
	if oi > 0 && body[oi-1].Type == sqlparser.WhitespaceToken {
		raw := body[oi-1].RawValue
		if k := strings.LastIndexByte(raw, '\n'); k >= 0 {
			body[oi-1].RawValue = raw[:k+1] + indent
		} else {
			body[oi-1].RawValue = "\n" + indent
		}
		return
	}
	st.Body = insertAt(body, oi, sqlparser.Synth(sqlparser.WhitespaceToken, "\n"+indent))
}

// reflowCommas rewrites every line-ending comma into a leading comma on the
// next content line; a comma left dangling before the list's closing paren
// or the statement's semicolon is dropped. Comments keep the line they were
// written on, so a trailing comment stays with its column. For tables the
// column list is then re-indented one level past the CREATE line.
func reflowCommas(st *sqlparser.Statement, cfg Config) {
	body := st.Body

	drop := make(map[int]bool)
	moveTo := make(map[int][]sqlparser.Unparsed)
	for k := range body {
		if body[k].Type != sqlparser.CommaToken {
			continue
		}
		if k > 0 && isNewlineWhitespace(body[k-1]) {
			// already leading
			continue
		}
		if !endsItsLine(body, k) {
			continue
		}
		t := nextSignificant(body, k+1)
		dangling := t < 0 ||
			body[t].Type == sqlparser.RightParenToken ||
			body[t].Type == sqlparser.SemicolonToken
		if !dangling {
			w := k
			for j := k + 1; j < t; j++ {
				if isNewlineWhitespace(body[j]) {
					w = j
				}
			}
			moveTo[w+1] = append(moveTo[w+1], body[k])
		}
		drop[k] = true
		if k > 0 && body[k-1].Type == sqlparser.WhitespaceToken && !isNewlineWhitespace(body[k-1]) {
			drop[k-1] = true
		}
	}
	if len(drop) > 0 {
		out := make([]sqlparser.Unparsed, 0, len(body))
		for i := range body {
			out = append(out, moveTo[i]...)
			if !drop[i] {
				out = append(out, body[i])
			}
		}
		body = out
	}

	if st.Type == sqlparser.CreateTableStatement {
		reindentColumns(body, cfg)
	}
	st.Body = body
}

// endsItsLine reports whether nothing but spaces and comments sit between
// token k and the end of its line (or of the statement). Line breaks inside
// multi-line comments do not count; only whitespace defines line boundaries
// the reflow may rewrite.
func endsItsLine(body []sqlparser.Unparsed, k int) bool {
	for j := k + 1; j < len(body); j++ {
		if isNewlineWhitespace(body[j]) {
			return true
		}
		if body[j].Significant() {
			return false
		}
	}
	return true
}

// reindentColumns normalizes indentation inside a table's column list:
// every line opening with column content is indented IndentWidth past the
// CREATE line. Lines holding only a comment, and the closing paren's line,
// keep their own whitespace.
func reindentColumns(body []sqlparser.Unparsed, cfg Config) {
	open := -1
	for i := range body {
		if body[i].Type == sqlparser.LeftParenToken {
			open = i
			break
		}
	}
	if open < 0 {
		return
	}
	closing := -1
	depth := 1
	for i := open + 1; i < len(body) && closing < 0; i++ {
		switch body[i].Type {
		case sqlparser.LeftParenToken:
			depth++
		case sqlparser.RightParenToken:
			depth--
			if depth == 0 {
				closing = i
			}
		}
	}
	if closing < 0 {
		return
	}

	indent := createLineIndent(body) + strings.Repeat(" ", cfg.IndentWidth)
	for w := open + 1; w < closing; w++ {
		if !isNewlineWhitespace(body[w]) {
			continue
		}
		if !lineHasContent(body, w+1, closing) {
			continue
		}
		raw := body[w].RawValue
		body[w].RawValue = raw[:strings.LastIndexByte(raw, '\n')+1] + indent
	}
}

// lineHasContent reports whether a significant token begins the line
// starting at from, before either the next line break or the column list's
// closing paren ends the scan.
func lineHasContent(body []sqlparser.Unparsed, from, closing int) bool {
	for j := from; j < closing; j++ {
		if isNewlineWhitespace(body[j]) {
			return false
		}
		if body[j].Significant() {
			return true
		}
	}
	return false
}
