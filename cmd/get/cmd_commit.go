package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/shved/get/pkg/repo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newCommitCmd() *cobra.Command {
	var message string
	var author string

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Record the work tree as a new commit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(message) == "" {
				return fmt.Errorf("commit message is required (-m)")
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			switch {
			case strings.TrimSpace(author) != "":
				r.State.Author = strings.TrimSpace(author)
			case r.Config.Author == "":
				log.WithField("author", r.State.Author).Warnf("no author in %s, using fallback", repo.ConfigFile)
			}

			d, err := r.Commit(message, time.Now())
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{
				"digest": d,
				"root":   r.RootDir,
			}).Debug("commit recorded")

			summary, _, _ := strings.Cut(message, "\n")
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", d.Short(), summary)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.Flags().StringVar(&author, "author", "", "override author (default: .get.toml, then $USER)")

	return cmd
}
