// Package merge cross-references per-tool fragments into the unified device
// tree. The merge is total: malformed or contradictory input degrades the
// result, it never fails.
package merge

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/probeops/devscan/model"
)

// Merge folds fragments into one device model. Deterministic for a given
// fragment ordering: buckets keep first-seen order, fields follow the
// policy's authority ranking, ties go to the first source seen.
func Merge(frags []model.Fragment, policy Policy) *model.Model {
	buckets, order := bucketize(frags)

	devices := make(map[string]*model.Device, len(buckets))
	for _, path := range order {
		b := buckets[path]
		dev := fold(path, b.frags, policy)
		dev.LowConfidence = b.lowConfidence
		devices[path] = dev
	}

	roots := buildTree(devices, order)
	inheritIdentity(roots)
	resolveLVRefs(devices, order)
	return model.New(roots)
}

type bucket struct {
	frags         []model.Fragment
	lowConfidence bool
}

// bucketize groups fragments by device path. Pathless fragments join an
// existing bucket by UUID; failing that they become low-confidence orphans
// keyed by their UUID, so partial records survive rather than vanish.
func bucketize(frags []model.Fragment) (map[string]*bucket, []string) {
	buckets := make(map[string]*bucket)
	var order []string
	byUUID := make(map[string]string)

	put := func(path string, f model.Fragment, low bool) {
		b := buckets[path]
		if b == nil {
			b = &bucket{}
			buckets[path] = b
			order = append(order, path)
		}
		b.frags = append(b.frags, f)
		b.lowConfidence = b.lowConfidence || low
	}

	var pathless []model.Fragment
	for _, f := range frags {
		if f.Path == "" {
			pathless = append(pathless, f)
			continue
		}
		put(f.Path, f, false)
		if f.UUID != "" {
			if _, seen := byUUID[f.UUID]; !seen {
				byUUID[f.UUID] = f.Path
			}
		}
	}
	for _, f := range pathless {
		switch {
		case f.UUID == "":
			log.Debug().Str("source", f.Source).Msg("dropping fragment with no path or UUID")
		case byUUID[f.UUID] != "":
			put(byUUID[f.UUID], f, false)
		default:
			put(f.UUID, f, true)
		}
	}
	return buckets, order
}

// fieldState tracks which authority currently owns a field's value.
type fieldState struct {
	auth   int
	source string
	set    bool
}

// fold collapses one bucket into a device. Higher-authority sources override
// overlapping fields; empty fields are filled from any source, first seen
// wins among equals. Capacity disagreements are kept as notes, never errors.
func fold(path string, frags []model.Fragment, policy Policy) *model.Device {
	dev := &model.Device{Path: path}
	var stType, stCap, stFS, stLabel, stUUID, stVendor, stProduct, stHealth, stParent fieldState
	extraAuth := make(map[string]fieldState)
	seenRef := make(map[string]bool)

	setStr := func(dst *string, st *fieldState, val string, auth int, source string) {
		if val == "" {
			return
		}
		if !st.set || auth > st.auth {
			*dst = val
			*st = fieldState{auth: auth, source: source, set: true}
		}
	}

	for _, f := range frags {
		auth := policy.rank(f.Source)

		if f.Type != "" && (!stType.set || auth > stType.auth) {
			dev.Type = f.Type
			stType = fieldState{auth: auth, source: f.Source, set: true}
		}
		setStr(&dev.Filesystem, &stFS, f.Filesystem, auth, f.Source)
		setStr(&dev.Label, &stLabel, f.Label, auth, f.Source)
		setStr(&dev.UUID, &stUUID, f.UUID, auth, f.Source)
		setStr(&dev.Vendor, &stVendor, f.Vendor, auth, f.Source)
		setStr(&dev.Product, &stProduct, f.Product, auth, f.Source)
		setStr(&dev.Parent, &stParent, f.Parent, auth, f.Source)

		// An explicit "unknown" never displaces a real verdict, and a real
		// verdict replaces "unknown" no matter who reported it.
		if f.Health != "" {
			verdict := f.Health != model.HealthUnknown
			current := stHealth.set && dev.Health != model.HealthUnknown
			switch {
			case !stHealth.set,
				verdict && !current,
				verdict == current && auth > stHealth.auth:
				dev.Health = f.Health
				stHealth = fieldState{auth: auth, source: f.Source, set: true}
			}
		}

		if f.Capacity > 0 {
			switch {
			case !stCap.set:
				dev.Capacity = f.Capacity
				stCap = fieldState{auth: auth, source: f.Source, set: true}
			case f.Capacity != dev.Capacity:
				note := model.Note{
					Field:           "capacity",
					WithinTolerance: policy.withinTolerance(dev.Capacity, f.Capacity),
				}
				if auth > stCap.auth {
					note.Kept = strconv.FormatUint(f.Capacity, 10)
					note.KeptSource = f.Source
					note.Dropped = strconv.FormatUint(dev.Capacity, 10)
					note.DroppedSource = stCap.source
					dev.Capacity = f.Capacity
					stCap = fieldState{auth: auth, source: f.Source, set: true}
				} else {
					note.Kept = strconv.FormatUint(dev.Capacity, 10)
					note.KeptSource = stCap.source
					note.Dropped = strconv.FormatUint(f.Capacity, 10)
					note.DroppedSource = f.Source
				}
				dev.Notes = append(dev.Notes, note)
				log.Debug().Str("path", path).Str("kept", note.KeptSource).
					Str("dropped", note.DroppedSource).Msg("capacity discrepancy")
			}
		}

		for _, ref := range f.LVRefs {
			if !seenRef[ref] {
				seenRef[ref] = true
				dev.LVRefs = append(dev.LVRefs, ref)
			}
		}
		for k, v := range f.Extra {
			st := extraAuth[k]
			if !st.set || auth > st.auth {
				if dev.Extra == nil {
					dev.Extra = make(map[string]string)
				}
				dev.Extra[k] = v
				extraAuth[k] = fieldState{auth: auth, source: f.Source, set: true}
			}
		}
	}
	return dev
}

// buildTree wires parent/child edges. Declared parents win; otherwise the
// longest existing path prefix is used, preferring non-partition owners so
// /dev/sda12 lands under /dev/sda rather than /dev/sda1. A device whose
// declared parent never showed up is promoted to root.
func buildTree(devices map[string]*model.Device, order []string) []*model.Device {
	var roots []*model.Device
	for _, path := range order {
		dev := devices[path]
		parent := dev.Parent
		if parent == "" && dev.Type != model.TypeLogicalVolume {
			parent = inferParent(path, devices)
		}
		if p, ok := devices[parent]; ok && parent != path {
			dev.Parent = parent
			p.Children = append(p.Children, dev)
		} else {
			dev.Parent = ""
			roots = append(roots, dev)
		}
	}
	roots = breakCycles(devices, order, roots)
	for _, path := range order {
		dev := devices[path]
		if dev.Type == "" {
			if dev.Parent != "" {
				dev.Type = model.TypePartition
			} else {
				dev.Type = model.TypeDisk
			}
		}
		sort.Slice(dev.Children, func(i, j int) bool {
			return naturalLess(dev.Children[i].Path, dev.Children[j].Path)
		})
	}
	return roots
}

// breakCycles rescues devices that mutually declare each other as parents:
// no root reaches such a group, so without intervention they would vanish
// from the model. The first-seen member of each cycle is detached and
// promoted to root; the rest stay wired beneath it.
func breakCycles(devices map[string]*model.Device, order []string, roots []*model.Device) []*model.Device {
	reachable := make(map[string]bool, len(devices))
	var mark func(d *model.Device)
	mark = func(d *model.Device) {
		if reachable[d.Path] {
			return
		}
		reachable[d.Path] = true
		for _, c := range d.Children {
			mark(c)
		}
	}
	for _, r := range roots {
		mark(r)
	}
	for _, path := range order {
		dev := devices[path]
		if reachable[path] {
			continue
		}
		if p, ok := devices[dev.Parent]; ok {
			p.Children = dropChild(p.Children, dev)
		}
		dev.Parent = ""
		roots = append(roots, dev)
		log.Debug().Str("path", path).Msg("parent cycle broken, device promoted to root")
		mark(dev)
	}
	return roots
}

func dropChild(children []*model.Device, dev *model.Device) []*model.Device {
	for i, c := range children {
		if c == dev {
			return append(children[:i], children[i+1:]...)
		}
	}
	return children
}

func inferParent(path string, devices map[string]*model.Device) string {
	longest, longestAny := "", ""
	for cand, dev := range devices {
		if cand == path || !strings.HasPrefix(path, cand) {
			continue
		}
		if len(cand) > len(longestAny) {
			longestAny = cand
		}
		if dev.Type != model.TypePartition && len(cand) > len(longest) {
			longest = cand
		}
	}
	if longest != "" {
		return longest
	}
	return longestAny
}

// inheritIdentity copies vendor and product down to partitions whose sources
// left them blank; identification tools rarely repeat the hardware identity
// per slice.
func inheritIdentity(roots []*model.Device) {
	var walk func(d *model.Device)
	walk = func(d *model.Device) {
		for _, c := range d.Children {
			if c.Vendor == "" {
				c.Vendor = d.Vendor
			}
			if c.Product == "" {
				c.Product = d.Product
			}
			walk(c)
		}
	}
	for _, r := range roots {
		walk(r)
	}
}

// resolveLVRefs runs after every device is known, since a volume may list
// extents discovered later in fragment order. Refs to devices the snapshot
// never saw are kept; the tree is allowed to be incomplete.
func resolveLVRefs(devices map[string]*model.Device, order []string) {
	for _, path := range order {
		dev := devices[path]
		for _, ref := range dev.LVRefs {
			if pv, ok := devices[ref]; ok {
				if pv.Extra == nil {
					pv.Extra = make(map[string]string)
				}
				if existing, ok := pv.Extra["lv_backing_for"]; ok {
					pv.Extra["lv_backing_for"] = existing + "," + dev.Path
				} else {
					pv.Extra["lv_backing_for"] = dev.Path
				}
			}
		}
	}
}

// naturalLess orders paths with embedded numbers the way humans read them:
// /dev/sda2 before /dev/sda10.
func naturalLess(a, b string) bool {
	for a != "" && b != "" {
		ca, cb := a[0], b[0]
		if isDigit(ca) && isDigit(cb) {
			na, ra := takeNumber(a)
			nb, rb := takeNumber(b)
			if na != nb {
				return na < nb
			}
			a, b = ra, rb
			continue
		}
		if ca != cb {
			return ca < cb
		}
		a, b = a[1:], b[1:]
	}
	return a == "" && b != ""
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func takeNumber(s string) (uint64, string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	n, _ := strconv.ParseUint(s[:i], 10, 64)
	return n, s[i:]
}
