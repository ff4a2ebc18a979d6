package parser

import (
	"strings"

	"github.com/probeops/devscan/model"
	"github.com/probeops/devscan/util"
)

// Smartctl parses one device's SMART report: the colon-labelled information
// section plus the column-aligned attribute table. The device path is not in
// the output itself; the snapshot engine stamps it from the invocation
// context.
type Smartctl struct{}

func (Smartctl) Name() string   { return "smartctl" }
func (Smartctl) Format() Format { return FormatTabular }

func (p Smartctl) Parse(raw string) Result {
	var res Result
	if strings.TrimSpace(raw) == "" {
		return res
	}

	frag := model.Fragment{Source: p.Name(), Type: model.TypeDisk}
	for _, line := range util.Lines(raw) {
		key, val, ok := splitLabel(line)
		if !ok {
			continue
		}
		switch key {
		case "Device Model", "Model Number":
			frag.Product = val
		case "Product":
			if frag.Product == "" {
				frag.Product = val
			}
		case "Vendor":
			frag.Vendor = val
		case "Model Family":
			frag.SetExtra("model_family", val)
		case "Serial Number":
			frag.SetExtra("serial", val)
		case "Rotation Rate":
			frag.SetExtra("rotation_rate", val)
		case "User Capacity", "Total NVM Capacity", "Namespace 1 Size/Capacity":
			if frag.Capacity == 0 {
				frag.Capacity = util.ParseSize(val)
			}
		case "SMART overall-health self-assessment test result":
			switch {
			case strings.HasPrefix(val, "PASSED"):
				frag.Health = model.HealthHealthy
			case strings.HasPrefix(val, "FAILED"):
				frag.Health = model.HealthFailing
			default:
				frag.Health = model.HealthUnknown
			}
		case "SMART Health Status":
			if val == "OK" {
				frag.Health = model.HealthHealthy
			} else {
				frag.Health = model.HealthFailing
			}
		case "SMART support is":
			if strings.HasPrefix(val, "Unavailable") && frag.Health == "" {
				frag.Health = model.HealthUnknown
			}
		}
	}

	p.parseAttributes(raw, &frag, &res)

	if frag.Product == "" && frag.Capacity == 0 && frag.Health == "" {
		res.degrade(p.Name(), "report", "no recognizable SMART fields")
		return res
	}
	res.add(frag)
	return res
}

// parseAttributes reads the ATA attribute table. A failing attribute
// overrides a PASSED verdict; drives routinely pass the overall check while
// reallocating sectors.
func (p Smartctl) parseAttributes(raw string, frag *model.Fragment, res *Result) {
	section := attributeSection(raw)
	if section == "" {
		return
	}
	t := parseTable(section, "")
	for i, row := range t.rows {
		if t.wasShort(i + 1) {
			res.degrade(p.Name(), "attribute row "+t.col(row, "id#"), "missing trailing columns")
		}
		id := t.col(row, "id#")
		rawVal := util.ParseUint64(t.col(row, "raw_value"))
		switch id {
		case "5":
			frag.SetExtra("reallocated_sectors", t.col(row, "raw_value"))
			if rawVal > 0 {
				frag.Health = model.HealthFailing
			}
		case "197":
			frag.SetExtra("pending_sectors", t.col(row, "raw_value"))
			if rawVal > 0 {
				frag.Health = model.HealthFailing
			}
		case "194":
			frag.SetExtra("temperature", t.col(row, "raw_value"))
		}
		if failed := t.col(row, "when_failed"); failed != "" && failed != "-" {
			frag.Health = model.HealthFailing
		}
	}
}

// splitLabel splits "Label with spaces:   value" on the first colon.
func splitLabel(line string) (key, val string, ok bool) {
	i := strings.Index(line, ":")
	if i <= 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]), true
}

// attributeSection cuts out the attribute table: from its "ID#" header to
// the next blank line.
func attributeSection(raw string) string {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	start := -1
	for i, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "ID#") {
			start = i
			break
		}
	}
	if start < 0 {
		return ""
	}
	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			end = i
			break
		}
	}
	return strings.Join(lines[start:end], "\n")
}
