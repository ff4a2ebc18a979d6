package parser

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/probeops/devscan/model"
	"github.com/probeops/devscan/util"
)

// Blkid parses blank-line-delimited key/value blocks, the shape block and
// volume identification tools print one device at a time. Both "KEY: value"
// and the export-style "KEY=value" are accepted.
type Blkid struct{}

func (Blkid) Name() string   { return "blkid" }
func (Blkid) Format() Format { return FormatKeyValue }

func (b Blkid) Parse(raw string) Result {
	var res Result
	for i, block := range splitDeviceBlocks(raw) {
		section := fmt.Sprintf("block %d", i+1)
		frag, bad := b.parseBlock(block)
		if bad != "" {
			res.degrade(b.Name(), section, bad)
		}
		if !frag.Keyed() {
			if bad == "" {
				res.degrade(b.Name(), section, "no device path or UUID")
			}
			continue
		}
		res.add(frag)
	}
	return res
}

// splitDeviceBlocks separates per-device records. Export output delimits
// devices with blank lines; the default one-line layout packs one device per
// line, so each "/dev/...:" line becomes its own block.
func splitDeviceBlocks(raw string) []string {
	var blocks []string
	for _, block := range util.SplitBlocks(raw) {
		lines := util.Lines(block)
		oneLine := true
		for _, l := range lines {
			if !strings.HasPrefix(strings.TrimSpace(l), "/") {
				oneLine = false
				break
			}
		}
		if oneLine && len(lines) > 1 {
			blocks = append(blocks, lines...)
		} else {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

// parseBlock folds one block's lines into a fragment. An unparseable line
// degrades the block but does not discard the keys around it.
func (b Blkid) parseBlock(block string) (model.Fragment, string) {
	frag := model.Fragment{Source: b.Name()}
	var bad string
	for _, line := range util.Lines(block) {
		key, val, ok := splitKeyValue(line)
		if !ok {
			bad = "unparseable line: " + strings.TrimSpace(line)
			continue
		}
		// Default blkid layout: "/dev/sda1: UUID="..." TYPE="ext4"".
		if strings.HasPrefix(key, "/") {
			frag.Path = key
			for _, pair := range strings.Fields(val) {
				if k, v, ok := splitKeyValue(pair); ok {
					b.assign(&frag, k, v)
				}
			}
			continue
		}
		b.assign(&frag, key, val)
	}
	return frag, bad
}

func (b Blkid) assign(frag *model.Fragment, key, val string) {
	switch strings.ToUpper(key) {
	case "NAME", "DEVNAME", "DEVICE":
		frag.Path = val
	case "UUID":
		frag.UUID = canonicalUUID(val)
	case "TYPE", "FSTYPE":
		frag.Filesystem = val
	case "LABEL":
		frag.Label = val
	case "SIZE":
		frag.Capacity = util.ParseSize(val)
	case "VENDOR":
		frag.Vendor = val
	case "MODEL":
		frag.Product = val
	case "PARENT", "PKNAME":
		frag.Parent = val
	default:
		// Forward-compatible: keep keys no merge rule claims yet.
		frag.SetExtra(strings.ToLower(key), val)
	}
}

// splitKeyValue accepts "KEY: value" and "KEY=value", stripping the quotes
// blkid wraps values in.
func splitKeyValue(line string) (key, val string, ok bool) {
	line = strings.TrimSpace(line)
	colon := strings.Index(line, ":")
	eq := strings.Index(line, "=")
	sep := -1
	switch {
	case colon >= 0 && (eq < 0 || colon < eq):
		sep = colon
	case eq >= 0:
		sep = eq
	}
	if sep <= 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:sep])
	val = strings.Trim(strings.TrimSpace(line[sep+1:]), `"`)
	if key == "" || strings.ContainsAny(key, " \t") {
		return "", "", false
	}
	return key, val, true
}

// canonicalUUID lowercases RFC-4122 UUIDs so the same volume matches across
// tools that disagree on case. Non-RFC identifiers (FAT serials like
// "1234-ABCD") pass through untouched.
func canonicalUUID(s string) string {
	if u, err := uuid.Parse(s); err == nil {
		return u.String()
	}
	return s
}
