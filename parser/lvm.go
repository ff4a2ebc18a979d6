package parser

import (
	"fmt"
	"strings"

	"github.com/probeops/devscan/model"
	"github.com/probeops/devscan/util"
)

// LVM parses volume-manager listings ("lvs -o lv_path,lv_size,vg_name,devices"
// and equivalents). The header row defines the column mapping; rows missing
// trailing columns become partial fragments with those fields left empty.
type LVM struct{}

func (LVM) Name() string   { return "lvm" }
func (LVM) Format() Format { return FormatTabular }

func (p LVM) Parse(raw string) Result {
	var res Result
	t := parseTable(raw, "")
	for i, row := range t.rows {
		rowNum := i + 1
		section := fmt.Sprintf("row %d", rowNum)

		path := firstOf(t, row, "path", "lv_path", "lv")
		if path == "" {
			res.degrade(p.Name(), section, "no volume path column")
			continue
		}
		frag := model.Fragment{
			Source: p.Name(),
			Path:   path,
			Type:   model.TypeLogicalVolume,
		}
		frag.Capacity = util.ParseSize(firstOf(t, row, "lsize", "lv_size", "size"))
		if vg := firstOf(t, row, "vg", "vg_name"); vg != "" {
			frag.SetExtra("vg", vg)
		}
		if attr := t.col(row, "attr"); attr != "" {
			frag.SetExtra("attr", attr)
		}
		frag.LVRefs = parseExtents(t.col(row, "devices"))
		if t.wasShort(rowNum) {
			res.degrade(p.Name(), section, "missing trailing columns")
		}
		res.add(frag)
	}
	return res
}

func firstOf(t table, row []string, names ...string) string {
	for _, n := range names {
		if v := t.col(row, n); v != "" {
			return v
		}
	}
	return ""
}

// parseExtents splits a devices cell like "/dev/sda2(0),/dev/sdb1(0)" into
// the underlying physical-extent paths.
func parseExtents(cell string) []string {
	if cell == "" {
		return nil
	}
	var refs []string
	for _, part := range strings.Split(cell, ",") {
		part = strings.TrimSpace(part)
		if i := strings.Index(part, "("); i > 0 {
			part = part[:i]
		}
		if part != "" {
			refs = append(refs, part)
		}
	}
	return refs
}
