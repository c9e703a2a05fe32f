package sqlparser

type Unparsed struct {
	Type        TokenType
	Start, Stop Pos
	RawValue    string
}

func CreateUnparsed(s *Scanner) Unparsed {
	return Unparsed{
		Type:     s.TokenType(),
		Start:    s.Start(),
		Stop:     s.Stop(),
		RawValue: s.Token(),
	}
}

// Synth returns a token introduced by a rewrite rather than scanned from
// source text. It carries no position.
func Synth(tt TokenType, raw string) Unparsed {
	return Unparsed{Type: tt, RawValue: raw}
}

// Significant reports whether the token contributes SQL structure, as
// opposed to whitespace and comments.
func (u Unparsed) Significant() bool {
	switch u.Type {
	case WhitespaceToken, MultilineCommentToken, SinglelineCommentToken:
		return false
	default:
		return true
	}
}

func (u Unparsed) WithoutPos() Unparsed {
	return Unparsed{
		Type:     u.Type,
		Start:    Pos{},
		Stop:     Pos{},
		RawValue: u.RawValue,
	}
}
