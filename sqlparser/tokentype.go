package sqlparser

// TokenType represents the type of a lexical token.
type TokenType int

const (
	WhitespaceToken TokenType = iota + 1

	LeftParenToken
	RightParenToken
	SemicolonToken
	EqualToken
	CommaToken
	DotToken

	StringLiteralToken

	MultilineCommentToken
	SinglelineCommentToken

	NumberToken

	// Note: KeywordToken covers the fixed keyword set in `keywords`, which
	// includes type names (int, varchar, ...) on purpose; everything else
	// that scans like a word is an UnquotedIdentifierToken.
	KeywordToken
	QuotedIdentifierToken
	UnquotedIdentifierToken

	// TemplateVariableToken is a `{{name}}` placeholder, scanned as a single
	// opaque token so that rewrites never split it. It cannot span lines.
	TemplateVariableToken

	OtherToken

	UnterminatedStringErrorToken
	UnterminatedCommentErrorToken
	UnterminatedQuotedIdentifierErrorToken
	NonUTF8ErrorToken

	EOFToken
)

func (tt TokenType) GoString() string {
	return tokenToDescription[tt]
}

func (tt TokenType) String() string {
	return tokenToDescription[tt]
}

// IsError reports whether the token terminates scanning with a lex error.
// The scanner consumes to end of input for the unterminated variants
// (and does not advance at all for NonUTF8ErrorToken), so the caller is
// expected to stop at the first one seen.
func (tt TokenType) IsError() bool {
	switch tt {
	case UnterminatedStringErrorToken, UnterminatedCommentErrorToken,
		UnterminatedQuotedIdentifierErrorToken, NonUTF8ErrorToken:
		return true
	default:
		return false
	}
}

func init() {
	// make sure we panic if a description isn't declared
	for tt := TokenType(1); tt != EOFToken; tt++ {
		if tokenToDescription[tt] == "" {
			panic("you have not updated tokenToDescription")
		}
	}
}

var tokenToDescription = map[TokenType]string{
	WhitespaceToken: "WhitespaceToken",
	LeftParenToken:  "LeftParenToken",
	RightParenToken: "RightParenToken",
	SemicolonToken:  "SemicolonToken",
	EqualToken:      "EqualToken",
	CommaToken:      "CommaToken",
	DotToken:        "DotToken",

	StringLiteralToken: "StringLiteralToken",

	MultilineCommentToken:  "MultilineCommentToken",
	SinglelineCommentToken: "SinglelineCommentToken",

	NumberToken: "NumberToken",

	KeywordToken:            "KeywordToken",
	QuotedIdentifierToken:   "QuotedIdentifierToken",
	UnquotedIdentifierToken: "UnquotedIdentifierToken",
	TemplateVariableToken:   "TemplateVariableToken",
	OtherToken:              "OtherToken",

	UnterminatedStringErrorToken:           "UnterminatedStringErrorToken",
	UnterminatedCommentErrorToken:          "UnterminatedCommentErrorToken",
	UnterminatedQuotedIdentifierErrorToken: "UnterminatedQuotedIdentifierErrorToken",
	NonUTF8ErrorToken:                      "NonUTF8ErrorToken",

	EOFToken: "EOFToken",
}
