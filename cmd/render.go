package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brettbedarf/memtree/internal/util"
)

func newRenderCmd(opts *rootOptions) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Build a tree and print it depth first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := util.GetLogger("render")

			t, summary, err := opts.buildTree()
			if err != nil {
				return err
			}
			if _, err := t.WriteTo(cmd.OutOrStdout()); err != nil {
				return err
			}

			stats := t.Stats()
			logger.Info().Int("directories", stats.Dirs).Int("files", stats.Files).Int("bytes", stats.Bytes).Msg("Rendered tree")
			if strict && summary.Failed > 0 {
				return fmt.Errorf("%d manifest request(s) failed", summary.Failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero if any manifest request failed")
	return cmd
}
