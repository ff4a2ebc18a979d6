package model

// Fragment is a partial device record from a single tool, prior to merging.
// Parsers produce them; the merger consumes them; they never leave the
// library.
type Fragment struct {
	// Source names the tool this record came from ("blkid", "lshw", ...).
	// The merge policy ranks sources by name.
	Source string

	// Path is the primary key. Fragments without one are matched against
	// already-keyed fragments by UUID, or kept as low-confidence orphans.
	Path string

	Type       DeviceType
	Capacity   uint64
	Filesystem string
	Label      string
	UUID       string
	Vendor     string
	Product    string
	Health     HealthStatus

	// Parent is the path of the owning device as declared by the source,
	// when the source reports one (diskutil's ParentWholeDisk, lshw nesting).
	Parent string

	LVRefs []string
	Extra  map[string]string
}

// Keyed reports whether the fragment can be joined at all.
func (f *Fragment) Keyed() bool {
	return f.Path != "" || f.UUID != ""
}

// SetExtra records an auxiliary key, allocating the map on first use.
func (f *Fragment) SetExtra(key, value string) {
	if f.Extra == nil {
		f.Extra = make(map[string]string)
	}
	f.Extra[key] = value
}
