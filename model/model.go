package model

import (
	"errors"
	"fmt"
	"iter"
)

// ErrNotFound is returned by point lookups when no device has the queried
// path. Check with errors.Is.
var ErrNotFound = errors.New("device not found")

// Model is the finished snapshot: root devices in deterministic order, each
// owning its partitions, plus a path index for point lookups. Immutable after
// construction and safe for concurrent readers.
type Model struct {
	roots []*Device
	index map[string]*Device
}

// New builds a model from root devices, indexing every device in the tree.
// Paths are assumed unique; the merger guarantees that.
func New(roots []*Device) *Model {
	m := &Model{roots: roots, index: make(map[string]*Device)}
	for d := range m.Walk() {
		m.index[d.Path] = d
	}
	return m
}

// Roots returns the top-level devices.
func (m *Model) Roots() []*Device { return m.roots }

// Len reports the total number of devices in the snapshot.
func (m *Model) Len() int { return len(m.index) }

// Lookup returns the device with the given path, or ErrNotFound.
func (m *Model) Lookup(path string) (*Device, error) {
	d, ok := m.index[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return d, nil
}

// Walk yields every device in pre-order: each disk before its partitions,
// roots in model order. The sequence is lazy and restartable.
func (m *Model) Walk() iter.Seq[*Device] {
	return func(yield func(*Device) bool) {
		stack := make([]*Device, len(m.roots))
		for i, d := range m.roots {
			stack[len(m.roots)-1-i] = d
		}
		for len(stack) > 0 {
			d := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(d) {
				return
			}
			for i := len(d.Children) - 1; i >= 0; i-- {
				stack = append(stack, d.Children[i])
			}
		}
	}
}

// Filter yields the devices matching pred, in Walk order.
func (m *Model) Filter(pred func(*Device) bool) iter.Seq[*Device] {
	return func(yield func(*Device) bool) {
		for d := range m.Walk() {
			if pred(d) && !yield(d) {
				return
			}
		}
	}
}

// Failing returns every device with a known SMART failure.
func (m *Model) Failing() []*Device {
	var out []*Device
	for d := range m.Filter(func(d *Device) bool { return d.Health == HealthFailing }) {
		out = append(out, d)
	}
	return out
}

// Export renders the whole model as nested mappings, one entry per root.
func (m *Model) Export() []map[string]any {
	out := make([]map[string]any, 0, len(m.roots))
	for _, d := range m.roots {
		out = append(out, d.Map())
	}
	return out
}
