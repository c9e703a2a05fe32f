package sqlparser

import (
	"io"
	"strings"
)

type StatementType int

const (
	// OtherStatement is any statement the formatter does not recognize.
	// It passes through untouched; it is a normal outcome, not an error.
	OtherStatement StatementType = iota
	CreateTableStatement
	CreateViewStatement
)

func (st StatementType) String() string {
	switch st {
	case CreateTableStatement:
		return "create table"
	case CreateViewStatement:
		return "create view"
	default:
		return "other"
	}
}

// Statement is a contiguous slice of the token stream ending at a top-level
// ';' (or end of input). Leading whitespace and comments belong to the
// statement that follows them, so a document's statements partition its
// tokens exactly.
type Statement struct {
	Type StatementType

	// Name is the dotted object name of a create statement as written in
	// the source (qualifiers, quoting and template variables included).
	// Empty for OtherStatement.
	Name PosString

	// Body contains every token of the statement, trivia included.
	Body []Unparsed
}

func (st Statement) Serialize(w io.StringWriter) error {
	for _, u := range st.Body {
		if _, err := w.WriteString(u.RawValue); err != nil {
			return err
		}
	}
	return nil
}

func (st Statement) String() string {
	var buf strings.Builder
	if err := st.Serialize(&buf); err != nil {
		panic(err)
	}
	return buf.String()
}

// Document is a source file split into statements. When no rewrite has run,
// String() reproduces the input byte for byte.
type Document struct {
	Statements []Statement
	Errors     []Error
}

func (d Document) HasErrors() bool {
	return len(d.Errors) > 0
}

func (d Document) Serialize(w io.StringWriter) error {
	for _, st := range d.Statements {
		if err := st.Serialize(w); err != nil {
			return err
		}
	}
	return nil
}

func (d Document) String() string {
	var buf strings.Builder
	if err := d.Serialize(&buf); err != nil {
		panic(err)
	}
	return buf.String()
}

func (d *Document) addError(s *Scanner, msg string) {
	d.Errors = append(d.Errors, Error{
		Pos:     s.Start(),
		Message: msg,
	})
}

// Parse consumes the scanner and splits the token stream into statements at
// top-level semicolons. A ';' nested inside parentheses does not terminate a
// statement, and semicolons inside strings, comments and quoted identifiers
// are never seen here at all since those are single tokens.
//
// On the first error token, parsing stops; the unterminated constructs all
// consume the rest of the input and the non-UTF-8 token cannot advance.
func Parse(s *Scanner, result *Document) {
	var body []Unparsed
	depth := 0

	flush := func() {
		if len(body) == 0 {
			return
		}
		result.Statements = append(result.Statements, Classify(body))
		body = nil
	}

	for {
		tt := s.NextToken()
		switch {
		case tt == EOFToken:
			flush()
			return
		case tt.IsError():
			var msg string
			switch tt {
			case UnterminatedStringErrorToken:
				msg = "unterminated string literal"
			case UnterminatedCommentErrorToken:
				msg = "unterminated block comment"
			case UnterminatedQuotedIdentifierErrorToken:
				msg = "unterminated quoted identifier"
			default:
				msg = "input is not valid UTF-8"
			}
			result.addError(s, msg)
			body = append(body, CreateUnparsed(s))
			flush()
			return
		case tt == LeftParenToken:
			depth++
			body = append(body, CreateUnparsed(s))
		case tt == RightParenToken:
			if depth > 0 {
				depth--
			}
			body = append(body, CreateUnparsed(s))
		case tt == SemicolonToken:
			body = append(body, CreateUnparsed(s))
			if depth == 0 {
				flush()
			}
		default:
			body = append(body, CreateUnparsed(s))
		}
	}
}

// ParseString parses the input into a Document.
func ParseString(filename FileRef, input string) (result Document) {
	Parse(NewScanner(filename, input), &result)
	return
}

// Classify decides whether a statement is a create table/view and extracts
// its object name. Anything that does not match
// `CREATE [OR REPLACE] TABLE|VIEW [IF NOT EXISTS] <name>` stays
// OtherStatement, including malformed creates; the formatter must never
// corrupt a statement shape it does not recognize.
//
// Rewrites that change the statement head call Classify again to refresh
// Type and Name.
func Classify(body []Unparsed) Statement {
	st := Statement{Type: OtherStatement, Body: body}

	i := 0
	next := func() *Unparsed {
		for i < len(body) {
			t := &body[i]
			i++
			if t.Significant() {
				return t
			}
		}
		return nil
	}
	isKeyword := func(t *Unparsed, word string) bool {
		return t != nil && t.Type == KeywordToken && strings.EqualFold(t.RawValue, word)
	}

	t := next()
	if !isKeyword(t, "create") {
		return st
	}
	t = next()
	if isKeyword(t, "or") {
		if t = next(); !isKeyword(t, "replace") {
			return st
		}
		t = next()
	}
	var typ StatementType
	switch {
	case isKeyword(t, "table"):
		typ = CreateTableStatement
	case isKeyword(t, "view"):
		typ = CreateViewStatement
	default:
		return st
	}
	t = next()
	if isKeyword(t, "if") {
		if t = next(); !isKeyword(t, "not") {
			return st
		}
		if t = next(); !isKeyword(t, "exists") {
			return st
		}
		t = next()
	}

	name, ok := objectName(t, next)
	if !ok {
		return st
	}
	st.Type = typ
	st.Name = name
	return st
}

// objectName collects a dotted identifier chain starting at t, in source
// spelling. Identifiers, quoted identifiers and template variables are all
// valid parts.
func objectName(t *Unparsed, next func() *Unparsed) (PosString, bool) {
	isPart := func(t *Unparsed) bool {
		if t == nil {
			return false
		}
		switch t.Type {
		case UnquotedIdentifierToken, QuotedIdentifierToken, TemplateVariableToken:
			return true
		default:
			return false
		}
	}

	if !isPart(t) {
		return PosString{}, false
	}
	name := PosString{Pos: t.Start, Value: t.RawValue}
	for {
		t = next()
		if t == nil || t.Type != DotToken {
			return name, true
		}
		t = next()
		if !isPart(t) {
			// trailing dot; not a name shape we recognize
			return PosString{}, false
		}
		name.Value += "." + t.RawValue
	}
}
