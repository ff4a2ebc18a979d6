// Package engine assembles one snapshot: it selects the backend for the
// platform, fans the captured tool outputs out to their parsers, and merges
// the fragments once every parser has finished.
package engine

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/probeops/devscan/backend"
	"github.com/probeops/devscan/merge"
	"github.com/probeops/devscan/model"
	"github.com/probeops/devscan/parser"
)

// ToolOutput is one tool invocation's captured text. Device carries the
// target path for per-device invocations (smartctl, diskutil info) whose
// output does not name the device itself.
type ToolOutput struct {
	Tool   string
	Device string
	Raw    string
}

// Snapshot builds a fresh device model from raw tool output. Parsers run in
// parallel; they are pure and share nothing. The only fatal condition is an
// unsupported platform — everything else degrades to a smaller model. Extra
// fragments (e.g. from the native probe) join the merge as written.
func Snapshot(ctx context.Context, family backend.OSFamily, outputs []ToolOutput, policy merge.Policy, extra ...model.Fragment) (*model.Model, error) {
	specs, err := backend.Select(family)
	if err != nil {
		return nil, err
	}
	parsers := make(map[string]parser.Parser, len(specs))
	for _, s := range specs {
		parsers[s.Name] = s.Parser
	}

	results := make([][]model.Fragment, len(outputs))
	g, ctx := errgroup.WithContext(ctx)
	for i, out := range outputs {
		p, ok := parsers[out.Tool]
		if !ok {
			log.Warn().Str("tool", out.Tool).Str("family", string(family)).
				Msg("output from tool not in backend, skipping")
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := p.Parse(out.Raw)
			res.Log(log.Logger)
			if out.Device != "" {
				for j := range res.Fragments {
					if res.Fragments[j].Path == "" {
						res.Fragments[j].Path = out.Device
					}
				}
			}
			results[i] = res.Fragments
			return nil
		})
	}
	// Merge only after every parser completed; cancellation abandons the
	// whole snapshot rather than merging a torn one.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var frags []model.Fragment
	for _, r := range results {
		frags = append(frags, r...)
	}
	frags = append(frags, extra...)
	return merge.Merge(frags, policy), nil
}
