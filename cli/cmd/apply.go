package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vippsas/ddlfmt"
	"github.com/vippsas/ddlfmt/sqlparser"
)

var (
	applyCmd = &cobra.Command{
		Use:   "apply <dbname> [dir]",
		Short: "Execute the DDL files against a database configured in ddlfmt.yaml",
		Long: `Formats every DDL file under the directory, binds the template variable to
the database name configured for <dbname> and executes the statements, one
transaction per file. Server error line numbers are mapped back to positions
in the source files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logrus.StandardLogger()
			ctx := context.Background()

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

			dbc, err := OpenSocks5Sql(dbconfig.Connection)
			if err != nil {
				return err
			}
			defer func() { _ = dbc.Close() }()

			applied := 0
			err = ddlfmt.WalkDDLFiles(os.DirFS(dir), func(path string, content []byte) error {
				formatted, err := ddlfmt.FormatFile(sqlparser.FileRef(path), string(content), fcfg)
				if err != nil {
					return err
				}
				// Rendering maps error line numbers through token positions,
				// so it works on a fresh parse of the formatted text.
				doc := sqlparser.ParseString(sqlparser.FileRef(path), formatted)
				rendered, err := ddlfmt.Render(doc, vars)
				if err != nil {
					return err
				}
				if err := ddlfmt.Apply(ctx, dbc, rendered); err != nil {
					return err
				}
				logger.WithField("file", path).Info("applied")
				applied++
				return nil
			})
			if err != nil {
				return err
			}

			fmt.Println(fmt.Sprintf("Applied %d file(s) to %s", applied, dbname))
			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(applyCmd)
}
