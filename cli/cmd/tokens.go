package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/repr"
	"github.com/spf13/cobra"

	"github.com/vippsas/ddlfmt/sqlparser"
)

var (
	tokensInput string

	tokensCmd = &cobra.Command{
		Use:   "tokens --input <path|->",
		Short: "Dump the token stream of a DDL file, for debugging the formatter",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				_ = cmd.Help()
				return errors.New("too many arguments")
			}
			if tokensInput == "" {
				_ = cmd.Help()
				return errors.New("--input is required")
			}

			var content []byte
			var err error
			if tokensInput == "-" {
				content, err = io.ReadAll(os.Stdin)
			} else {
				content, err = os.ReadFile(tokensInput)
			}
			if err != nil {
				return err
			}

			doc := sqlparser.ParseString(sqlparser.FileRef(tokensInput), string(content))
			for _, e := range doc.Errors {
				fmt.Printf("%s:%d:%d: %s\n", e.Pos.File, e.Pos.Line, e.Pos.Col, e.Message)
			}
			for _, st := range doc.Statements {
				repr.Println(st)
			}
			return nil
		},
	}
)

func init() {
	tokensCmd.Flags().StringVar(&tokensInput, "input", "", "file to tokenize, or - for stdin")
	rootCmd.AddCommand(tokensCmd)
}
