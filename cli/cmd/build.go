package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vippsas/ddlfmt"
	"github.com/vippsas/ddlfmt/sqlparser"
)

var (
	buildCmd = &cobra.Command{
		Use:   "build <dbname> [dir]",
		Short: "Dump the SQL that apply would execute to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 || len(args) > 2 {
				_ = cmd.Help()
				return errors.New("wrong number of arguments")
			}
			dbname := args[0]
			dir := "."
			if len(args) == 2 {
				dir = args[1]
			}

			config, err := LoadConfig()
			if err != nil {
				return err
			}
			dbconfig, ok := config.Databases[dbname]
			if !ok {
				return fmt.Errorf("database %s not present in configuration file", dbname)
			}
			fcfg := formatConfig(config)

			vars := map[string]string{}
			if dbconfig.Database != "" && fcfg.TemplateVariable != "" {
				vars[fcfg.TemplateVariable] = dbconfig.Database
			}

			return ddlfmt.WalkDDLFiles(os.DirFS(dir), func(path string, content []byte) error {
				formatted, err := ddlfmt.FormatFile(sqlparser.FileRef(path), string(content), fcfg)
				if err != nil {
					return err
				}
				doc := sqlparser.ParseString(sqlparser.FileRef(path), formatted)
				rendered, err := ddlfmt.Render(doc, vars)
				if err != nil {
					return err
				}
				for _, b := range rendered.Batches {
					fmt.Println(b.Lines)
					fmt.Println("===")
				}
				return nil
			})
		},
	}
)

func init() {
	rootCmd.AddCommand(buildCmd)
}
