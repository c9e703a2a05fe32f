package ddlfmt

import (
	"fmt"
	"strings"

	"github.com/vippsas/ddlfmt/sqlparser"
)

type lineNumberCorrection struct {
	inputLineNumber, extraLinesInOutput int
}

// Batch is one executable statement of a rendered file, with enough
// bookkeeping to map server error line numbers back to the source file.
type Batch struct {
	StartPos sqlparser.Pos
	Lines    string

	// lineNumberCorrections contains data that helps us map from errors in
	// the `Lines` SQL result and back to the original source file (pointed
	// at by StartPos). See comments in RelativeLineNumberInInput()
	lineNumberCorrections []lineNumberCorrection
}

// LineNumberInInput transforms an error line number when executing the batch,
// into an absolute line number in StartPos.File
func (b Batch) LineNumberInInput(outputline int) int {
	return b.RelativeLineNumberInInput(outputline) + b.StartPos.Line - 1
}

// RelativeLineNumberInInput maps a line number from the output of rendering
// (`outputline`) to a line number in the input of the rendering.
// PS: StartPos must be considered *in addition* to this transform.
func (b Batch) RelativeLineNumberInInput(outputline int) int {
	// See testcase for example
	// lineNumberCorrections has the number of extra lines each input line
	// ended up consuming in the output. Most lines are not mentioned; these
	// are the one that mapped 1:1, no extra lines.

	totalExtraLines := 0
	for _, c := range b.lineNumberCorrections {
		// refer to `c` as a "checkpoint" ... it's a point in the line number series
		checkpointLineNumberInOutput := c.inputLineNumber + totalExtraLines
		distanceToCheckpoint := outputline - checkpointLineNumberInOutput
		if distanceToCheckpoint < c.extraLinesInOutput {
			if distanceToCheckpoint < 0 {
				distanceToCheckpoint = 0
			}
			return outputline - totalExtraLines - distanceToCheckpoint
		}
		totalExtraLines += c.extraLinesInOutput
	}
	return outputline - totalExtraLines
}

// RenderedFile is a document with its template variables bound, split into
// batches ready to execute.
type RenderedFile struct {
	Batches []Batch
}

type RenderError struct {
	Pos     sqlparser.Pos
	Message string
}

func (p RenderError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", p.Pos.File, p.Pos.Line, p.Pos.Col, p.Message)
}

// variableName returns the name inside a {{...}} placeholder, trimmed and
// lowercased. Bindings are keyed by it, so {{ EDW_DB_NAME }} and
// {{edw_db_name}} resolve to the same value.
func variableName(raw string) string {
	raw = strings.TrimPrefix(raw, "{{")
	raw = strings.TrimSuffix(raw, "}}")
	return strings.ToLower(strings.TrimSpace(raw))
}

func renderStatement(st sqlparser.Statement, vars map[string]string) (result Batch, err error) {
	var w strings.Builder

	if len(st.Body) > 0 {
		result.StartPos = st.Body[0].Start
	}

	// The statement is a flat list of sqlparser.Unparsed, so rendering is a
	// single pass substituting the template variable tokens.
	//
	// A substitution can lead to line numbers changing due to \n present in
	// the bound value. For this reason we need to make a mapping between
	// source line numbers and result line numbers.
	for _, u := range st.Body {
		token := u.RawValue
		if u.Type == sqlparser.TemplateVariableToken {
			value, ok := vars[variableName(u.RawValue)]
			if !ok {
				err = RenderError{u.Start, fmt.Sprintf("template variable `%s` is not bound", u.RawValue)}
				return
			}
			token = value + "/*=" + u.RawValue + "*/"
			newlineCount := strings.Count(value, "\n")
			if newlineCount > 0 {
				// 1-based within the batch, like the line numbers the
				// checkpoint walk is handed at lookup time
				relativeLine := u.Start.Line - result.StartPos.Line + 1
				result.lineNumberCorrections = append(result.lineNumberCorrections, lineNumberCorrection{relativeLine, newlineCount})
			}
		}

		if _, err = w.WriteString(token); err != nil {
			return
		}
	}

	result.Lines = w.String()
	return
}

// Render binds template variables and splits the document into executable
// batches, one per statement. Statements holding nothing but whitespace and
// comments do not become batches.
//
// Render expects a freshly parsed document; token positions drive the error
// line mapping, so callers that format first must re-parse the formatted
// text rather than render rewritten statements directly.
func Render(doc sqlparser.Document, vars map[string]string) (RenderedFile, error) {
	var result RenderedFile

	// Keys may be given as `name` or `{{name}}` in any casing.
	lookup := make(map[string]string, len(vars))
	for k, v := range vars {
		lookup[variableName(k)] = v
	}

	for _, st := range doc.Statements {
		if nextSignificant(st.Body, 0) < 0 {
			continue
		}
		batch, err := renderStatement(st, lookup)
		if err != nil {
			return result, err
		}
		result.Batches = append(result.Batches, batch)
	}

	return result, nil
}
