package collector

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/disk"

	"github.com/probeops/devscan/model"
)

// Native probes mounted filesystems without spawning anything, as a
// lowest-authority fallback for hosts where none of the diagnostic tools are
// installed. It only ever fills gaps; the merge policy ranks it last.
func Native(ctx context.Context) []model.Fragment {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		log.Debug().Err(err).Msg("native partition probe failed")
		return nil
	}
	var frags []model.Fragment
	for _, p := range parts {
		if !strings.HasPrefix(p.Device, "/dev/") {
			continue
		}
		frag := model.Fragment{
			Source:     "native",
			Path:       p.Device,
			Filesystem: p.Fstype,
		}
		frag.SetExtra("mountpoint", p.Mountpoint)
		if usage, err := disk.UsageWithContext(ctx, p.Mountpoint); err == nil && usage != nil {
			frag.Capacity = usage.Total
		}
		frags = append(frags, frag)
	}
	return frags
}
