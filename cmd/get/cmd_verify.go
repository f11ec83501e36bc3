package main

import (
	"fmt"

	"github.com/shved/get/pkg/repo"
	"github.com/spf13/cobra"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Verify every object reachable from HEAD and LOG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			report, err := r.Verify()
			if err != nil {
				return err
			}

			fmt.Fprintf(
				cmd.OutOrStdout(),
				"ok: verified %d commit(s), %d tree(s), %d blob(s) from %d root(s)\n",
				report.Commits,
				report.Trees,
				report.Blobs,
				report.Roots,
			)
			return nil
		},
	}
}
