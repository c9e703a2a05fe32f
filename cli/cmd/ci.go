package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vippsas/ddlfmt"
	"github.com/vippsas/ddlfmt/sqlparser"
)

var (
	ciCmd = &cobra.Command{
		Use:   "ci [dir]",
		Short: "Format the DDL files changed in the working tree and commit the result",
		Long: `Opens the git repository at dir, formats every modified or untracked DDL
file, stages what changed and commits with the author configured under ci: in
ddlfmt.yaml. A clean tree is a no-op.`,
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
			logger := logrus.StandardLogger()

			repo, err := git.PlainOpen(dir)
			if err != nil {
				return errors.Wrap(err, "could not open git repository")
			}
			wt, err := repo.Worktree()
			if err != nil {
				return err
			}
			status, err := wt.Status()
			if err != nil {
				return err
			}
			if status.IsClean() {
				fmt.Println("nothing to format")
				return nil
			}

			staged := 0
			for path, fileStatus := range status {
				if fileStatus.Worktree != git.Modified && fileStatus.Worktree != git.Untracked {
					continue
				}
				if filepath.Ext(path) != ".sql" {
					continue
				}
				fullPath := filepath.Join(dir, path)
				content, err := os.ReadFile(fullPath)
				if err != nil {
					return err
				}
				if !ddlfmt.IsDDL(content) {
					continue
				}
				formatted, err := ddlfmt.FormatFile(sqlparser.FileRef(path), string(content), fcfg)
				if err != nil {
					return err
				}
				if formatted != string(content) {
					if err := os.WriteFile(fullPath, []byte(formatted), 0644); err != nil {
						return err
					}
				}
				if _, err := wt.Add(path); err != nil {
					return err
				}
				logger.WithField("file", path).Info("staged")
				staged++
			}

			if staged == 0 {
				fmt.Println("nothing to format")
				return nil
			}

			message := config.CI.Message
			if message == "" {
				message = "Reformat DDL"
			}
			name := config.CI.AuthorName
			if name == "" {
				name = "ddlfmt"
			}
			hash, err := wt.Commit(message, &git.CommitOptions{
				Author: &object.Signature{
					Name:  name,
					Email: config.CI.AuthorEmail,
					When:  time.Now(),
				},
			})
			if err != nil {
				return errors.Wrap(err, "failed to commit")
			}
			fmt.Println(hash.String())
			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(ciCmd)
}
