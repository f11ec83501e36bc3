package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/shved/get/pkg/object"
	"github.com/shved/get/pkg/repo"
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [digest]",
		Short: "Show commit properties and content lines",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			var d object.Digest
			if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
				d = object.Digest(strings.TrimSpace(args[0]))
			} else {
				d, err = r.Head()
				if err != nil {
					return err
				}
				if d.IsEmpty() {
					return fmt.Errorf("show: no commits yet")
				}
			}

			commit, err := object.ReadCommit(r.Store, r.RootDir, d)
			if err != nil {
				return fmt.Errorf("show: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "commit %s\n", d)
			fmt.Fprintf(out, "Parent: %s\n", commit.Parent)
			fmt.Fprintf(out, "Author: %s\n", commit.Author)
			fmt.Fprintf(out, "Date:   %s\n", time.Unix(commit.Timestamp, 0).Format("2006-01-02 15:04:05"))
			fmt.Fprintln(out)
			for _, line := range strings.Split(commit.Message, "\n") {
				fmt.Fprintf(out, "    %s\n", line)
			}
			fmt.Fprintln(out)
			for _, line := range commit.Content() {
				e, err := object.ParseContentLine(line)
				if err != nil {
					return fmt.Errorf("show: %w", err)
				}
				fmt.Fprintf(out, "%-4s %s %s\n", e.Kind, e.Digest, e.Name)
			}
			return nil
		},
	}
}
