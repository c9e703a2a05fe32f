package ddlfmt

import (
	"io/fs"
	"regexp"
	"strings"
)

// IsDDL reports whether file content is DDL source managed by this tool.
// We can NOT use the scanner for this, because scanning stops at errors,
// and we can't have a system where files are suddenly ignored when there
// are syntax errors! So using a more stable sniff.
func IsDDL(content []byte) bool {
	return isDDLRegex.Match(content)
}

var isDDLRegex = regexp.MustCompile(`(?i)ddl`)

// WalkDDLFiles calls fn for every `.sql` file under fsys whose content
// passes IsDDL. WalkDir visits in lexical order, so output is stable.
func WalkDDLFiles(fsys fs.FS, fn func(path string, content []byte) error) error {
	return fs.WalkDir(fsys, ".",
		func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			// Skip over any hidden directories; in particular .git
			if strings.HasPrefix(path, ".") || strings.Contains(path, "/.") {
				return nil
			}
			if d.IsDir() || !strings.HasSuffix(path, ".sql") {
				return nil
			}

			content, err := fs.ReadFile(fsys, path)
			if err != nil {
				return err
			}
			if !IsDDL(content) {
				return nil
			}
			return fn(path, content)
		})
}
