package sqlparser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/smasher164/xid"
)

// Scanner is a lexical scanner for SQL DDL source text.
//
// It is deliberately dialect-neutral: string literals, bracket/double-quote/
// backtick quoted identifiers and comments are scanned as opaque spans, and
// everything the formatter does not need to understand comes out as
// OtherToken. The scanner is used directly as a cursor into the input buffer;
// concatenating Token() over a full scan reproduces the input byte for byte.
type Scanner struct {
	input string  // The complete source text being scanned
	file  FileRef // Reference to the source file for error reporting

	startIndex int       // Byte index where current token starts
	curIndex   int       // Current byte position in input
	tokenType  TokenType // Type of the current token

	startLine        int // Line number (0-indexed) where current token starts
	stopLine         int // Line number (0-indexed) where current token ends
	indexAtStartLine int // Byte index at the start of startLine (after newline)
	indexAtStopLine  int // Byte index at the start of stopLine (after newline)

	keyword string // Lowercase version of token if it's a keyword, empty otherwise
}

// NewScanner creates a new Scanner for the given source file and input string.
// The scanner is positioned before the first token; call NextToken() to advance.
func NewScanner(path FileRef, input string) *Scanner {
	return &Scanner{input: input, file: path}
}

// TokenType returns the type of the current token.
func (s *Scanner) TokenType() TokenType {
	return s.tokenType
}

func (s *Scanner) SetInput(input []byte) {
	s.input = string(input)
}

func (s *Scanner) SetFile(file FileRef) {
	s.file = file
}

func (s *Scanner) File() FileRef {
	return s.file
}

// Token returns the text of the current token as a substring of input.
func (s *Scanner) Token() string {
	return s.input[s.startIndex:s.curIndex]
}

// TokenLower returns the current token text converted to lowercase.
// Useful for case-insensitive matching.
func (s *Scanner) TokenLower() string {
	return strings.ToLower(s.Token())
}

// Keyword returns the lowercase keyword if the current token is a
// KeywordToken, or an empty string otherwise.
func (s *Scanner) Keyword() string {
	return s.keyword
}

// Start returns the position where the current token begins.
// Line and column are 1-indexed.
func (s *Scanner) Start() Pos {
	return Pos{
		Line: s.startLine + 1,
		Col:  s.startIndex - s.indexAtStartLine + 1,
		File: s.file,
	}
}

// Stop returns the position where the current token ends.
// Line and column are 1-indexed.
func (s *Scanner) Stop() Pos {
	return Pos{
		Line: s.stopLine + 1,
		Col:  s.curIndex - s.indexAtStopLine + 1,
		File: s.file,
	}
}

// bumpLine increments the line counter and records the byte position
// after the newline character. The offset parameter is the position
// of the newline within the current scan operation.
func (s *Scanner) bumpLine(offset int) {
	s.stopLine++
	s.indexAtStopLine = s.curIndex + offset + 1
}

// SkipWhitespaceComments advances past any whitespace and comment tokens.
// Stops when a non-whitespace, non-comment token is encountered.
func (s *Scanner) SkipWhitespaceComments() {
	for {
		switch s.TokenType() {
		case WhitespaceToken, MultilineCommentToken, SinglelineCommentToken:
		default:
			return
		}
		s.NextToken()
	}
}

// NextNonWhitespaceCommentToken advances to the next token and then skips
// any whitespace and comments, returning the type of the first significant token.
func (s *Scanner) NextNonWhitespaceCommentToken() TokenType {
	s.NextToken()
	s.SkipWhitespaceComments()
	return s.TokenType()
}

// NextToken scans the next token and advances the scanner's position,
// returning the TokenType of the scanned token.
func (s *Scanner) NextToken() TokenType {
	s.tokenType = s.nextToken()
	return s.tokenType
}

func (s *Scanner) nextToken() TokenType {
	s.startIndex = s.curIndex
	s.keyword = ""
	s.startLine = s.stopLine
	s.indexAtStartLine = s.indexAtStopLine
	r, w := utf8.DecodeRuneInString(s.input[s.curIndex:])

	// First, decisions that can be made after one character:
	switch {
	case r == utf8.RuneError && w == 0:
		return EOFToken
	case r == utf8.RuneError && w == 1:
		// not UTF-8, we can't really proceed so not advancing Scanner,
		// caller should take care to always exit..
		return NonUTF8ErrorToken
	case r == '(':
		s.curIndex += w
		return LeftParenToken
	case r == ')':
		s.curIndex += w
		return RightParenToken
	case r == ';':
		s.curIndex += w
		return SemicolonToken
	case r == '=':
		s.curIndex += w
		return EqualToken
	case r == ',':
		s.curIndex += w
		return CommaToken
	case r == '.':
		s.curIndex += w
		return DotToken
	case r == '\'':
		s.curIndex += w
		return s.scanUntilSingleDoubleEscapes('\'', StringLiteralToken, UnterminatedStringErrorToken)
	case r >= '0' && r <= '9':
		return s.scanNumber()
	case r == '[':
		s.curIndex += w
		return s.scanQuotedIdentifier(']')
	case r == '"':
		s.curIndex += w
		return s.scanQuotedIdentifier('"')
	case r == '`':
		s.curIndex += w
		return s.scanQuotedIdentifier('`')
	case unicode.IsSpace(r):
		// do not advance s.curIndex here, simpler to do it all in scanWhitespace(); in case r == '\n' we need stopLine number bump
		return s.scanWhitespace()
	case xid.Start(r) || r == '_' || r == '＿' || r == '#':
		s.curIndex += w
		s.scanIdentifier()
		kw := strings.ToLower(s.Token())
		if _, ok := keywords[kw]; ok {
			s.keyword = kw
			return KeywordToken
		}
		return UnquotedIdentifierToken
	}

	// OK, we need to peek 1 character to make a decision
	r2, w2 := utf8.DecodeRuneInString(s.input[s.curIndex+w:])

	switch {
	case r == '/' && r2 == '*':
		s.curIndex += w + w2
		return s.scanMultilineComment()
	case r == '-' && r2 == '-':
		s.curIndex += w + w2
		return s.scanSinglelineComment()
	case (r == '-' || r == '+') && (r2 >= '0' && r2 <= '9'):
		return s.scanNumber()
	case r == '{' && r2 == '{':
		s.curIndex += w + w2
		return s.scanTemplateVariable()
	}

	s.curIndex += w
	return OtherToken
}

// scanMultilineComment assumes one has advanced over '/*'.
// An unterminated comment is a lex error; the formatter refuses to guess
// where the statement text resumes.
func (s *Scanner) scanMultilineComment() TokenType {
	prevWasStar := false
	for i, r := range s.input[s.curIndex:] {
		if prevWasStar && r == '/' {
			s.curIndex += i + 1
			return MultilineCommentToken
		}
		if r == '\n' {
			s.bumpLine(i)
		}
		prevWasStar = r == '*'
	}
	s.curIndex = len(s.input)
	return UnterminatedCommentErrorToken
}

// scanSinglelineComment assumes one has advanced over --
func (s *Scanner) scanSinglelineComment() TokenType {
	end := strings.Index(s.input[s.curIndex:], "\n")
	if end == -1 {
		// end of file is also end of stopLine. But we're done
		s.curIndex = len(s.input)
	} else {
		// hmm, is the \n at the end part of the token or a new whitespace?
		// making it part of whitespace seems simpler somehow..
		s.curIndex += end
	}
	return SinglelineCommentToken
}

func (s *Scanner) scanQuotedIdentifier(endmarker rune) TokenType {
	return s.scanUntilSingleDoubleEscapes(endmarker, QuotedIdentifierToken, UnterminatedQuotedIdentifierErrorToken)
}

// scanIdentifier assumes first character of an identifier has been identified,
// and scans to the end
func (s *Scanner) scanIdentifier() {
	for i, r := range s.input[s.curIndex:] {
		if !(xid.Continue(r) || r == '$' || r == '#' || unicode.Is(unicode.Cf, r)) {
			s.curIndex += i
			return
		}
	}
	s.curIndex = len(s.input)
}

// scanTemplateVariable assumes one has advanced over '{{'. Template variables
// never span lines; when no '}}' follows on the same line we back off and emit
// a lone '{' as OtherToken instead.
func (s *Scanner) scanTemplateVariable() TokenType {
	for i, r := range s.input[s.curIndex:] {
		if r == '\n' {
			break
		}
		if r == '}' && strings.HasPrefix(s.input[s.curIndex+i:], "}}") {
			s.curIndex += i + 2
			return TemplateVariableToken
		}
	}
	s.curIndex = s.startIndex + 1
	return OtherToken
}

// DRY helper to handle '', "", ]] and `` escapes
func (s *Scanner) scanUntilSingleDoubleEscapes(
	endmarker rune,
	tokenType TokenType,
	unterminatedTokenType TokenType,
) TokenType {
	skipnext := false
	for i, r := range s.input[s.curIndex:] {
		if skipnext {
			skipnext = false
			continue
		}
		if r == '\n' {
			s.bumpLine(i)
		}
		if r == endmarker {
			r2, _ := utf8.DecodeRuneInString(s.input[s.curIndex+i+1:]) // r2 may be RuneError if eof
			if r2 == endmarker {
				// we have a double endmarker; this is used as escape
				skipnext = true
			} else {
				// terminating endmarker
				s.curIndex += i + 1
				return tokenType
			}
		}
	}
	s.curIndex = len(s.input)
	return unterminatedTokenType
}

var numberRegexp = regexp.MustCompile(`^[+-]?\d+\.?\d*([eE][+-]?\d*)?`)

func (s *Scanner) scanNumber() TokenType {
	loc := numberRegexp.FindStringIndex(s.input[s.curIndex:])
	if len(loc) == 0 {
		panic("should always have a match according to regex and conditions in caller")
	}
	s.curIndex += loc[1]
	return NumberToken
}

func (s *Scanner) scanWhitespace() TokenType {
	for i, r := range s.input[s.curIndex:] {
		if r == '\n' {
			s.bumpLine(i)
		}
		if !unicode.IsSpace(r) {
			s.curIndex += i
			return WhitespaceToken
		}
	}
	// eof
	s.curIndex = len(s.input)
	return WhitespaceToken
}

// The keyword set recognized (and later uppercased) by the formatter. This is
// a fixed list, type names included; matching is whole-token and
// case-insensitive. Words outside the list stay identifiers even when some
// SQL dialect reserves them.
var keywords = map[string]struct{}{
	"add":        {},
	"alter":      {},
	"and":        {},
	"as":         {},
	"asc":        {},
	"between":    {},
	"by":         {},
	"case":       {},
	"char":       {},
	"character":  {},
	"check":      {},
	"column":     {},
	"constraint": {},
	"create":     {},
	"date":       {},
	"decimal":    {},
	"default":    {},
	"delete":     {},
	"desc":       {},
	"distinct":   {},
	"double":     {},
	"drop":       {},
	"else":       {},
	"end":        {},
	"exists":     {},
	"false":      {},
	"float":      {},
	"foreign":    {},
	"from":       {},
	"group":      {},
	"having":     {},
	"if":         {},
	"in":         {},
	"inner":      {},
	"insert":     {},
	"int":        {},
	"integer":    {},
	"into":       {},
	"is":         {},
	"join":       {},
	"key":        {},
	"left":       {},
	"like":       {},
	"limit":      {},
	"not":        {},
	"null":       {},
	"numeric":    {},
	"on":         {},
	"or":         {},
	"order":      {},
	"outer":      {},
	"precision":  {},
	"primary":    {},
	"references": {},
	"replace":    {},
	"right":      {},
	"select":     {},
	"set":        {},
	"table":      {},
	"then":       {},
	"timestamp":  {},
	"to":         {},
	"true":       {},
	"union":      {},
	"unique":     {},
	"update":     {},
	"using":      {},
	"values":     {},
	"varchar":    {},
	"view":       {},
	"when":       {},
	"where":      {},
	"with":       {},
}
