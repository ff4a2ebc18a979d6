// Package collector is the process-execution collaborator: it invokes the
// backend's tools and hands their raw output to the engine. Missing tools
// and failed invocations shrink the snapshot, they never abort it.
package collector

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/probeops/devscan/backend"
	"github.com/probeops/devscan/engine"
	"github.com/probeops/devscan/parser"
	"github.com/probeops/devscan/util"
)

// toolTimeout bounds each invocation; a stuck tool must not hang the scan.
const toolTimeout = 30 * time.Second

// Run executes every tool in the backend and captures its output. smartctl
// and diskutil report per device, so their baseline command is used to
// enumerate devices and then re-run per target.
func Run(ctx context.Context, specs []backend.ToolSpec) []engine.ToolOutput {
	var outputs []engine.ToolOutput
	for _, spec := range specs {
		if _, err := exec.LookPath(spec.Command[0]); err != nil {
			log.Debug().Str("tool", spec.Name).Msg("tool not installed, skipping")
			continue
		}
		switch spec.Name {
		case "smartctl":
			outputs = append(outputs, runSmartctl(ctx, spec)...)
		case "diskutil":
			outputs = append(outputs, runDiskutil(ctx, spec)...)
		default:
			if raw, ok := capture(ctx, spec.Command); ok {
				outputs = append(outputs, engine.ToolOutput{Tool: spec.Name, Raw: raw})
			}
		}
	}
	return outputs
}

// runSmartctl scans for devices, then queries each one. smartctl exits
// non-zero for plenty of non-error reasons, so its output counts whenever
// there is any.
func runSmartctl(ctx context.Context, spec backend.ToolSpec) []engine.ToolOutput {
	scan, ok := capture(ctx, spec.Command)
	if !ok {
		return nil
	}
	var outputs []engine.ToolOutput
	for _, line := range util.Lines(scan) {
		dev := util.FieldsAt(line, 0)
		if !strings.HasPrefix(dev, "/dev/") {
			continue
		}
		argv := []string{spec.Command[0], "-i", "-H", "-A", dev}
		if raw, ok := capture(ctx, argv); ok {
			outputs = append(outputs, engine.ToolOutput{Tool: spec.Name, Device: dev, Raw: raw})
		}
	}
	return outputs
}

// runDiskutil lists the device inventory, then asks for per-device detail.
// The list output itself is kept too: it is what establishes the tree when
// an info call fails.
func runDiskutil(ctx context.Context, spec backend.ToolSpec) []engine.ToolOutput {
	list, ok := capture(ctx, spec.Command)
	if !ok {
		return nil
	}
	outputs := []engine.ToolOutput{{Tool: spec.Name, Raw: list}}
	for _, name := range parser.DiskutilDeviceNames(list) {
		argv := []string{spec.Command[0], "info", "-plist", name}
		if raw, ok := capture(ctx, argv); ok {
			outputs = append(outputs, engine.ToolOutput{Tool: spec.Name, Device: "/dev/" + name, Raw: raw})
		}
	}
	return outputs
}

// capture runs one command with a timeout, keeping whatever it printed even
// on a non-zero exit. Empty output with an error counts as a failed run.
func capture(ctx context.Context, argv []string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, toolTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, argv[0], argv[1:]...).Output()
	if err != nil && len(out) == 0 {
		log.Debug().Str("tool", argv[0]).Err(err).Msg("tool produced no output")
		return "", false
	}
	if err != nil {
		log.Debug().Str("tool", argv[0]).Err(err).Msg("tool exited non-zero, keeping output")
	}
	return string(out), true
}
