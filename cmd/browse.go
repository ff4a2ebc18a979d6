package cmd

import (
	"github.com/spf13/cobra"

	"github.com/probeops/devscan/ui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Explore the device tree interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := snapshot(cmd)
		if err != nil {
			return err
		}
		return ui.Browse(snap)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
