// Package cmd is the command-line entry point around the snapshot library.
package cmd

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/probeops/devscan/backend"
	"github.com/probeops/devscan/config"
	"github.com/probeops/devscan/merge"
)

// Version is set at build time via ldflags.
var Version = "0.3.0"

var (
	flagOS      string
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "devscan",
	Short: "Snapshot the host's storage topology from platform diagnostic tools",
	Long: `devscan invokes the platform's storage diagnostic tools (lshw, blkid,
LVM listings, smartctl, diskutil), normalizes their output, and merges the
results into a single device tree.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.WarnLevel
		if flagVerbose {
			level = zerolog.DebugLevel
		}
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			Level(level).With().Timestamp().Logger()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagOS, "os", "", "OS family override: linux, macos, cygwin-windows")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to YAML config (authority order, capacity tolerance)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log degraded parses and skipped tools")
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

// osFamily resolves the --os override, falling back to the running platform.
func osFamily() (backend.OSFamily, error) {
	if flagOS != "" {
		switch f := backend.OSFamily(flagOS); f {
		case backend.Linux, backend.MacOS, backend.CygwinWindows:
			return f, nil
		default:
			return "", fmt.Errorf("%w: %q", backend.ErrUnsupportedPlatform, flagOS)
		}
	}
	return backend.Detect(runtime.GOOS)
}

// policy loads the merge policy, from file when --config is given.
func policy() (merge.Policy, error) {
	if flagConfig == "" {
		return merge.DefaultPolicy(), nil
	}
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return merge.Policy{}, err
	}
	return cfg.Policy(), nil
}
