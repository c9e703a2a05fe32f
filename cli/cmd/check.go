package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/vippsas/ddlfmt"
	"github.com/vippsas/ddlfmt/sqlparser"
)

var (
	checkCmd = &cobra.Command{
		Use:   "check [dir]",
		Short: "List DDL files whose canonical form differs from what is on disk",
		Long: `Walks the directory tree for *.sql files containing "ddl" and prints the
path of every file that formatting would change. Exits non-zero when any is
found, so CI can gate on it; no output means nothing to do.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				_ = cmd.Help()
				return errors.New("too many arguments")
			}
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			config, err := LoadConfig()
			if err != nil {
				return err
			}
			fcfg := formatConfig(config)

			var dirty []string
			err = ddlfmt.WalkDDLFiles(os.DirFS(dir), func(path string, content []byte) error {
				formatted, err := ddlfmt.FormatFile(sqlparser.FileRef(path), string(content), fcfg)
				if err != nil {
					return err
				}
				if formatted != string(content) {
					dirty = append(dirty, path)
				}
				return nil
			})
			if err != nil {
				return err
			}

			for _, path := range dirty {
				fmt.Println(path)
			}
			if len(dirty) > 0 {
				return errors.Errorf("%d file(s) need formatting", len(dirty))
			}
			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(checkCmd)
}
