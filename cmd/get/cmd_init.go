package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shved/get/pkg/repo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Create an empty get repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			abs, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			// Ensure the target directory exists.
			if err := os.MkdirAll(abs, 0o755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}

			r, err := repo.Init(abs)
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{
				"root":   r.RootDir,
				"author": r.State.Author,
				"ignore": r.State.Ignore.Patterns(),
			}).Debug("repository initialized")

			fmt.Fprintf(cmd.OutOrStdout(), "initialized empty get repository in %s\n", r.GetDir+string(filepath.Separator))
			return nil
		},
	}
}
