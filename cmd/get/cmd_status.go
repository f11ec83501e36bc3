package main

import (
	"fmt"
	"time"

	"github.com/shved/get/pkg/repo"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show files that differ from HEAD",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			head, err := r.Head()
			if err != nil {
				return err
			}

			entries, err := r.Status(time.Now())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if head.IsEmpty() {
				fmt.Fprintln(out, "no commits yet")
			} else {
				fmt.Fprintf(out, "HEAD %s\n", head.Short())
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "nothing to commit, work tree clean")
				return nil
			}
			for _, e := range entries {
				if e.Status == repo.StatusRenamed {
					fmt.Fprintf(out, "  %-9s %s -> %s\n", e.Status.String()+":", e.RenamedFrom, e.Path)
					continue
				}
				fmt.Fprintf(out, "  %-9s %s\n", e.Status.String()+":", e.Path)
			}
			return nil
		},
	}
}
