package ddlfmt

import (
	"bytes"
	"fmt"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/vippsas/ddlfmt/sqlparser"
)

// ParseErrors is the all-or-nothing outcome of formatting input that cannot
// be lexed; no formatted text is produced alongside it.
type ParseErrors struct {
	Errors []sqlparser.Error
}

func (e ParseErrors) Error() string {
	var msg strings.Builder
	msg.WriteString("ddlfmt syntax error:\n\n")
	for _, err := range e.Errors {
		msg.WriteString(fmt.Sprintf("%s:%d:%d: %s\n", err.Pos.File, err.Pos.Line, err.Pos.Col, err.Message))
	}
	return msg.String()
}

// ExecError is a server error raised while applying a batch, mapped back to
// line numbers in the source file the batch was rendered from.
type ExecError struct {
	Wrapped mssql.Error
	Batch   Batch
}

func (s ExecError) Error() string {
	var buf bytes.Buffer

	if _, fmterr := fmt.Fprintf(&buf, "\n"); fmterr != nil {
		panic(fmterr)
	}
	for _, item := range s.Wrapped.All {
		if _, fmterr := fmt.Fprintf(&buf, "\n%s:%d: %s",
			s.Batch.StartPos.File,
			s.Batch.LineNumberInInput(int(item.LineNo)),
			item.Message); fmterr != nil {
			panic(fmterr)
		}
	}
	return buf.String()
}
