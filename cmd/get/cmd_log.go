package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/shved/get/pkg/repo"
	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	var oneline bool
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show commit history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			head, err := r.Head()
			if err != nil {
				return fmt.Errorf("cannot read HEAD: %w", err)
			}

			entries, err := r.History(head, limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no commits yet")
				return nil
			}

			out := cmd.OutOrStdout()
			for _, e := range entries {
				c := e.Commit
				decoration := ""
				if e.Digest == head {
					decoration = " (HEAD)"
				}

				if oneline {
					summary, _, _ := strings.Cut(c.Message, "\n")
					fmt.Fprintf(out, "%s%s %s\n", e.Digest.Short(), decoration, summary)
					continue
				}
				fmt.Fprintf(out, "commit %s%s\n", e.Digest, decoration)
				fmt.Fprintf(out, "Author: %s\n", c.Author)
				fmt.Fprintf(out, "Date:   %s\n", time.Unix(c.Timestamp, 0).Format("2006-01-02 15:04:05"))
				fmt.Fprintln(out)
				for _, line := range strings.Split(c.Message, "\n") {
					fmt.Fprintf(out, "    %s\n", line)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&oneline, "oneline", false, "compact one-line format")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of commits to show")

	return cmd
}
