package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vippsas/ddlfmt"
	"github.com/vippsas/ddlfmt/sqlparser"
)

var (
	fmtMode   string
	fmtInput  string
	fmtOutput string
	fmtWrite  bool

	fmtCmd = &cobra.Command{
		Use:   "fmt --mode string|file|folder --input ...",
		Short: "Rewrite DDL into the canonical form",
		Long: `Rewrites CREATE TABLE / CREATE VIEW statements into the canonical form:
uppercased keywords, CREATE OR REPLACE, the template variable in the database
qualifier slot, the column list parenthesis on its own line and leading commas.
Everything else in the input passes through byte for byte.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				_ = cmd.Help()
				return errors.New("too many arguments")
			}
			if fmtInput == "" {
				_ = cmd.Help()
				return errors.New("--input is required")
			}

			config, err := LoadConfig()
			if err != nil {
				return err
			}
			fcfg := formatConfig(config)

			switch fmtMode {
			case "string":
				formatted, err := ddlfmt.Format(fmtInput, fcfg)
				if err != nil {
					return err
				}
				if fmtOutput != "" {
					return os.WriteFile(fmtOutput, []byte(formatted), 0644)
				}
				fmt.Println(formatted)
				return nil

			case "file":
				content, err := os.ReadFile(fmtInput)
				if err != nil {
					return err
				}
				formatted, err := ddlfmt.FormatFile(sqlparser.FileRef(fmtInput), string(content), fcfg)
				if err != nil {
					return err
				}
				switch {
				case fmtWrite:
					return os.WriteFile(fmtInput, []byte(formatted), 0644)
				case fmtOutput != "":
					return os.WriteFile(fmtOutput, []byte(formatted), 0644)
				default:
					fmt.Print(formatted)
					return nil
				}

			case "folder":
				return formatFolder(fmtInput, fmtOutput, fcfg)

			default:
				_ = cmd.Help()
				return errors.New("--mode must be one of string, file, folder")
			}
		},
	}
)

// formatFolder formats every *.sql directly inside inDir into
// <base>_formatted.sql under outDir.
func formatFolder(inDir, outDir string, fcfg ddlfmt.Config) error {
	logger := logrus.StandardLogger()

	if outDir == "" {
		outDir = inDir
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	entries, err := os.ReadDir(inDir)
	if err != nil {
		return err
	}

	failed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		inPath := filepath.Join(inDir, entry.Name())
		content, err := os.ReadFile(inPath)
		if err != nil {
			return err
		}
		formatted, err := ddlfmt.FormatFile(sqlparser.FileRef(inPath), string(content), fcfg)
		if err != nil {
			logger.WithError(err).WithField("file", inPath).Error("skipped")
			failed++
			continue
		}
		outPath := filepath.Join(outDir, strings.TrimSuffix(entry.Name(), ".sql")+"_formatted.sql")
		if err := os.WriteFile(outPath, []byte(formatted), 0644); err != nil {
			return err
		}
		logger.WithFields(logrus.Fields{"input": inPath, "output": outPath}).Info("formatted")
	}
	if failed > 0 {
		return errors.Errorf("%d file(s) could not be formatted", failed)
	}
	return nil
}

func init() {
	fmtCmd.Flags().StringVar(&fmtMode, "mode", "file", "what --input is: a SQL string, a file path or a folder path")
	fmtCmd.Flags().StringVar(&fmtInput, "input", "", "SQL text, file or folder to format")
	fmtCmd.Flags().StringVar(&fmtOutput, "output", "", "output file (string/file mode) or folder (folder mode)")
	fmtCmd.Flags().BoolVar(&fmtWrite, "write", false, "rewrite the input file in place (file mode)")
	rootCmd.AddCommand(fmtCmd)
}
