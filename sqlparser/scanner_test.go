package sqlparser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextToken(t *testing.T) {
	// just check that regexp should return nil if we didn't start to match...
	assert.Equal(t, []int(nil), numberRegexp.FindStringIndex("a123"))

	test := func(input string, expectedTokenType TokenType, expected string, extraAssertion ...func(s *Scanner)) func(*testing.T) {
		return func(t *testing.T) {
			prefix := "abcd"
			s := &Scanner{input: prefix + input, curIndex: len(prefix)}
			tt := s.NextToken()
			assert.Equal(t, expectedTokenType, tt)
			assert.Equal(t, expected, s.Token())
			for _, a := range extraAssertion {
				a(s)
			}
		}
	}

	t.Run("", test("    ", WhitespaceToken, "    "))
	t.Run("", test("     a   ", WhitespaceToken, "     "))
	t.Run("", test(" \t\t\n\n  \t \nasdf", WhitespaceToken, " \t\t\n\n  \t \n"))

	t.Run("", test("123", NumberToken, "123"))
	t.Run("", test("123;\n", NumberToken, "123"))
	t.Run("", test("123 ", NumberToken, "123"))
	t.Run("", test("+123.e-3_asdf", NumberToken, "+123.e-3"))
	t.Run("", test("-123.12e-35+a", NumberToken, "-123.12e-35"))
	t.Run("", test("-123.12;\n", NumberToken, "-123.12"))

	t.Run("", test("'hello world'", StringLiteralToken, "'hello world'"))
	t.Run("", test("'hello world'after", StringLiteralToken, "'hello world'"))
	t.Run("", test("'hello '' world'after", StringLiteralToken, "'hello '' world'"))
	t.Run("", test("''''", StringLiteralToken, "''''"))
	t.Run("", test("''", StringLiteralToken, "''"))

	t.Run("", test("'''hello", UnterminatedStringErrorToken, "'''hello"))
	t.Run("", test("'multi\nline;'x", StringLiteralToken, "'multi\nline;'"))

	t.Run("", test("[ quote \n quote]] hi]asdf", QuotedIdentifierToken, "[ quote \n quote]] hi]"))
	t.Run("", test("[][]", QuotedIdentifierToken, "[]"))
	t.Run("", test("[]]]", QuotedIdentifierToken, "[]]]"))
	t.Run("", test("[]]test", UnterminatedQuotedIdentifierErrorToken, "[]]test"))
	t.Run("", test(`"my name"rest`, QuotedIdentifierToken, `"my name"`))
	t.Run("", test(`"escaped "" quote"x`, QuotedIdentifierToken, `"escaped "" quote"`))
	t.Run("", test(`"oops`, UnterminatedQuotedIdentifierErrorToken, `"oops`))
	t.Run("", test("`backticked`x", QuotedIdentifierToken, "`backticked`"))

	t.Run("", test("/* comment\n\n */asdf", MultilineCommentToken, "/* comment\n\n */"))
	t.Run("", test("/* comment\n\n ****/asdf", MultilineCommentToken, "/* comment\n\n ****/"))
	t.Run("", test("/* star * inside */x", MultilineCommentToken, "/* star * inside */"))
	// unterminated multiline comment is a lex error
	t.Run("", test("/* comment\n\n asdf", UnterminatedCommentErrorToken, "/* comment\n\n asdf"))

	// single line comment .. trailing \n is not considered part of token
	t.Run("", test("-- test\nhello", SinglelineCommentToken, "-- test"))
	t.Run("", test("-- test", SinglelineCommentToken, "-- test"))

	t.Run("", test(``, EOFToken, ``))

	t.Run("", test("abc", UnquotedIdentifierToken, "abc"))
	t.Run("", test("abc_def$2 a", UnquotedIdentifierToken, "abc_def$2"))
	t.Run("", test("_leading on", UnquotedIdentifierToken, "_leading"))

	t.Run("", test("{{edw_db_name}}.bar", TemplateVariableToken, "{{edw_db_name}}"))
	t.Run("", test("{{EDW_DB_NAME}} x", TemplateVariableToken, "{{EDW_DB_NAME}}"))
	// no closing braces before end of line: back off to a lone '{'
	t.Run("", test("{{oops\n}}", OtherToken, "{"))
	t.Run("", test("{x", OtherToken, "{"))

	t.Run("", test("<select from", OtherToken, "<"))

	t.Run("", test("with,", KeywordToken, "with"))
	t.Run("", test("varchar(", KeywordToken, "varchar"))
	t.Run("", test("WItH,", KeywordToken, "WItH", func(s *Scanner) {
		assert.Equal(t, "with", s.Keyword())
	}))
	t.Run("", test("VarChar(10)", KeywordToken, "VarChar", func(s *Scanner) {
		assert.Equal(t, "varchar", s.Keyword())
	}))
	// reserved in some dialects, but not part of our fixed keyword list
	t.Run("", test("procedure x", UnquotedIdentifierToken, "procedure"))

	t.Run("", test("(", LeftParenToken, "("))
	t.Run("", test(")", RightParenToken, ")"))
	t.Run("", test(";", SemicolonToken, ";"))
	t.Run("", test(";;", SemicolonToken, ";"))
	t.Run("", test("=", EqualToken, "="))
	t.Run("", test(",", CommaToken, ","))
	t.Run("", test(",,", CommaToken, ","))
	t.Run("", test(".", DotToken, "."))
	t.Run("", test("..", DotToken, "."))
}

// Concatenating all scanned tokens must reproduce the input exactly; every
// byte of the source, whitespace included, belongs to exactly one token.
func TestScannerRoundTrip(t *testing.T) {
	inputs := []string{
		"create table foo.bar (\n  id int,\n  name varchar(10)\n);",
		"select 1; -- trailing\n/* block */ insert into x values ('a;b', ']]');\n",
		"create or replace view v as select * from {{edw_db_name}}.t;\n\n",
		"   \t\n",
		"`tick` \"quote\" [bracket]",
	}
	for _, input := range inputs {
		s := NewScanner("roundtrip.sql", input)
		var buf strings.Builder
		for {
			tt := s.NextToken()
			if tt == EOFToken {
				break
			}
			buf.WriteString(s.Token())
			if tt.IsError() {
				break
			}
		}
		assert.Equal(t, input, buf.String())
	}
}

func TestLineNumberAndColumn(t *testing.T) {
	s := NewScanner("test.sql", `create view x as
select 'a string
spanning lines' /* and
a comment */ from y;
`)
	type typeAndLine struct {
		tokenType   TokenType
		start, stop Pos
		value       string
	}
	var tokens []typeAndLine
	for {
		tt := s.NextToken()
		if tt == EOFToken {
			break
		}
		tokens = append(tokens, typeAndLine{tt, s.Start(), s.Stop(), s.Token()})
	}
	require.Equal(t, []typeAndLine{
		{KeywordToken, Pos{"test.sql", 1, 1}, Pos{"test.sql", 1, 7}, "create"},
		{WhitespaceToken, Pos{"test.sql", 1, 7}, Pos{"test.sql", 1, 8}, " "},
		{KeywordToken, Pos{"test.sql", 1, 8}, Pos{"test.sql", 1, 12}, "view"},
		{WhitespaceToken, Pos{"test.sql", 1, 12}, Pos{"test.sql", 1, 13}, " "},
		{UnquotedIdentifierToken, Pos{"test.sql", 1, 13}, Pos{"test.sql", 1, 14}, "x"},
		{WhitespaceToken, Pos{"test.sql", 1, 14}, Pos{"test.sql", 1, 15}, " "},
		{KeywordToken, Pos{"test.sql", 1, 15}, Pos{"test.sql", 1, 17}, "as"},
		{WhitespaceToken, Pos{"test.sql", 1, 17}, Pos{"test.sql", 2, 1}, "\n"},
		{KeywordToken, Pos{"test.sql", 2, 1}, Pos{"test.sql", 2, 7}, "select"},
		{WhitespaceToken, Pos{"test.sql", 2, 7}, Pos{"test.sql", 2, 8}, " "},
		{StringLiteralToken, Pos{"test.sql", 2, 8}, Pos{"test.sql", 3, 16}, "'a string\nspanning lines'"},
		{WhitespaceToken, Pos{"test.sql", 3, 16}, Pos{"test.sql", 3, 17}, " "},
		{MultilineCommentToken, Pos{"test.sql", 3, 17}, Pos{"test.sql", 4, 13}, "/* and\na comment */"},
		{WhitespaceToken, Pos{"test.sql", 4, 13}, Pos{"test.sql", 4, 14}, " "},
		{KeywordToken, Pos{"test.sql", 4, 14}, Pos{"test.sql", 4, 18}, "from"},
		{WhitespaceToken, Pos{"test.sql", 4, 18}, Pos{"test.sql", 4, 19}, " "},
		{UnquotedIdentifierToken, Pos{"test.sql", 4, 19}, Pos{"test.sql", 4, 20}, "y"},
		{SemicolonToken, Pos{"test.sql", 4, 20}, Pos{"test.sql", 4, 21}, ";"},
		{WhitespaceToken, Pos{"test.sql", 4, 21}, Pos{"test.sql", 5, 1}, "\n"},
	}, tokens)
}
