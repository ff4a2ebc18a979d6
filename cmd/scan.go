package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/probeops/devscan/backend"
	"github.com/probeops/devscan/collector"
	"github.com/probeops/devscan/engine"
	"github.com/probeops/devscan/model"
)

var (
	flagJSON    bool
	flagFailing bool
	flagNative  bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Print the merged device tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := snapshot(cmd)
		if err != nil {
			return err
		}
		if flagJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(snap.Export())
		}
		if flagFailing {
			for _, d := range snap.Failing() {
				fmt.Println(d.Path)
			}
			return nil
		}
		for _, root := range snap.Roots() {
			printTree(root, 0)
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVar(&flagJSON, "json", false, "emit the model as JSON")
	scanCmd.Flags().BoolVar(&flagFailing, "failing", false, "list only devices with a known SMART failure")
	scanCmd.Flags().BoolVar(&flagNative, "native", true, "include the native (no-exec) probe as a fallback source")
	rootCmd.AddCommand(scanCmd)
}

// snapshot runs the full pipeline: backend selection, tool invocation,
// parsing, merge.
func snapshot(cmd *cobra.Command) (*model.Model, error) {
	family, err := osFamily()
	if err != nil {
		return nil, err
	}
	pol, err := policy()
	if err != nil {
		return nil, err
	}
	specs, err := backend.Select(family)
	if err != nil {
		return nil, err
	}
	ctx := cmd.Context()
	outputs := collector.Run(ctx, specs)
	var extra []model.Fragment
	if flagNative {
		extra = collector.Native(ctx)
	}
	return engine.Snapshot(ctx, family, outputs, pol, extra...)
}

func printTree(d *model.Device, depth int) {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(d.Path)
	sb.WriteString(" [" + string(d.Type) + "]")
	if size := d.HumanCapacity(); size != "" {
		sb.WriteString(" " + size)
	}
	if d.Filesystem != "" {
		sb.WriteString(" " + d.Filesystem)
	}
	if d.Label != "" {
		sb.WriteString(" " + fmt.Sprintf("%q", d.Label))
	}
	if d.Health != "" {
		sb.WriteString(" health=" + string(d.Health))
	}
	if d.LowConfidence {
		sb.WriteString(" (low confidence)")
	}
	fmt.Println(sb.String())
	for _, c := range d.Children {
		printTree(c, depth+1)
	}
	for _, ref := range d.LVRefs {
		fmt.Println(strings.Repeat("  ", depth+1) + "↳ extent " + ref)
	}
}
