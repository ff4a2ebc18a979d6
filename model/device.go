package model

import "github.com/dustin/go-humanize"

// DeviceType classifies a storage unit.
type DeviceType string

const (
	TypeDisk          DeviceType = "disk"
	TypePartition     DeviceType = "partition"
	TypeLogicalVolume DeviceType = "logical-volume"
)

// HealthStatus is the SMART/health verdict for a device. The empty string
// means no source reported anything; HealthUnknown means a source looked and
// could not tell.
type HealthStatus string

const (
	HealthHealthy HealthStatus = "healthy"
	HealthFailing HealthStatus = "failing"
	HealthUnknown HealthStatus = "unknown"
)

// Device is one merged storage unit: a whole disk, a partition, or a logical
// volume. Built once by the merger and never mutated afterwards.
type Device struct {
	Path       string       `json:"path"`
	Type       DeviceType   `json:"type,omitempty"`
	Capacity   uint64       `json:"capacity,omitempty"` // bytes, 0 = unknown
	Filesystem string       `json:"fstype,omitempty"`
	Label      string       `json:"label,omitempty"`
	UUID       string       `json:"uuid,omitempty"`
	Vendor     string       `json:"vendor,omitempty"`
	Product    string       `json:"model,omitempty"`
	Health     HealthStatus `json:"health,omitempty"`

	// Parent is the path of the owning device, empty for roots.
	Parent   string    `json:"-"`
	Children []*Device `json:"children,omitempty"`

	// LVRefs lists the device paths of the physical extents backing a
	// logical volume. A cross-reference, not an ownership edge.
	LVRefs []string `json:"lv_refs,omitempty"`

	// Extra carries source keys no merge rule claims yet.
	Extra map[string]string `json:"extra,omitempty"`

	// LowConfidence marks devices assembled from fragments that could only
	// be matched by secondary key.
	LowConfidence bool `json:"low_confidence,omitempty"`

	Notes []Note `json:"notes,omitempty"`
}

// Note records a field disagreement between two sources. The kept value is
// already on the Device; the note preserves what was dropped.
type Note struct {
	Field           string `json:"field"`
	KeptSource      string `json:"kept_source"`
	Kept            string `json:"kept"`
	DroppedSource   string `json:"dropped_source"`
	Dropped         string `json:"dropped"`
	WithinTolerance bool   `json:"within_tolerance,omitempty"`
}

// HumanCapacity renders Capacity in SI units, the shape downstream report
// tools expect next to the raw byte count. Empty when capacity is unknown.
func (d *Device) HumanCapacity() string {
	if d.Capacity == 0 {
		return ""
	}
	return humanize.Bytes(d.Capacity)
}

// Map exports the device and its children as a nested mapping with the
// attribute names consumers of the pre-Go tooling already rely on.
func (d *Device) Map() map[string]any {
	m := map[string]any{"path": d.Path}
	if d.Type != "" {
		m["type"] = string(d.Type)
	}
	if d.Capacity > 0 {
		m["capacity"] = d.Capacity
		m["capacity_human"] = d.HumanCapacity()
	}
	if d.Filesystem != "" {
		m["fstype"] = d.Filesystem
	}
	if d.Label != "" {
		m["label"] = d.Label
	}
	if d.UUID != "" {
		m["uuid"] = d.UUID
	}
	if d.Vendor != "" {
		m["vendor"] = d.Vendor
	}
	if d.Product != "" {
		m["model"] = d.Product
	}
	if d.Health != "" {
		m["health"] = string(d.Health)
	}
	if len(d.LVRefs) > 0 {
		m["lv_refs"] = append([]string(nil), d.LVRefs...)
	}
	if len(d.Extra) > 0 {
		extra := make(map[string]string, len(d.Extra))
		for k, v := range d.Extra {
			extra[k] = v
		}
		m["extra"] = extra
	}
	if d.LowConfidence {
		m["low_confidence"] = true
	}
	if len(d.Notes) > 0 {
		m["notes"] = append([]Note(nil), d.Notes...)
	}
	if len(d.Children) > 0 {
		children := make([]map[string]any, 0, len(d.Children))
		for _, c := range d.Children {
			children = append(children, c.Map())
		}
		m["children"] = children
	}
	return m
}
