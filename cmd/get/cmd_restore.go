package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/shved/get/pkg/object"
	"github.com/shved/get/pkg/repo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <digest>",
		Short: "Replace the work tree with a committed snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := object.Digest(strings.TrimSpace(args[0]))
			if !d.Valid() {
				return fmt.Errorf("restore: %q is not a commit digest", args[0])
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			if err := r.Restore(d, time.Now()); err != nil {
				return err
			}
			log.WithFields(logrus.Fields{
				"digest": d,
				"root":   r.RootDir,
			}).Debug("work tree restored")

			fmt.Fprintf(cmd.OutOrStdout(), "restored %s\n", d)
			return nil
		},
	}
}
