package main

import (
	"fmt"

	"github.com/shved/get/pkg/object"
	"github.com/shved/get/pkg/repo"
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show object counts and archive sizes per kind",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			stats, err := r.Store.Stats()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var total object.StoreStats
			for _, kind := range object.Kinds {
				s := stats[kind]
				total.Objects += s.Objects
				total.Bytes += s.Bytes
				fmt.Fprintf(out, "%-6s %6d objects %10d bytes\n", kind, s.Objects, s.Bytes)
			}
			fmt.Fprintf(out, "%-6s %6d objects %10d bytes\n", "total", total.Objects, total.Bytes)
			return nil
		},
	}
}
