// Package ui is an interactive browser over a finished device model. The
// model is immutable, so the UI only ever reads it.
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/probeops/devscan/model"
)

// Browse opens the fullscreen tree browser and blocks until the user quits.
func Browse(m *model.Model) error {
	prog := tea.NewProgram(newBrowser(m), tea.WithAltScreen())
	_, err := prog.Run()
	return err
}

type browser struct {
	snapshot *model.Model
	rows     []row
	cursor   int
	height   int
	offset   int
}

type row struct {
	device *model.Device
	depth  int
	open   bool
}

func newBrowser(m *model.Model) *browser {
	b := &browser{snapshot: m, height: 24}
	b.rebuild(nil)
	return b
}

// rebuild flattens the tree into visible rows, preserving which devices were
// collapsed across rebuilds.
func (b *browser) rebuild(collapsed map[string]bool) {
	b.rows = b.rows[:0]
	var add func(d *model.Device, depth int)
	add = func(d *model.Device, depth int) {
		open := !collapsed[d.Path]
		b.rows = append(b.rows, row{device: d, depth: depth, open: open})
		if open {
			for _, c := range d.Children {
				add(c, depth+1)
			}
		}
	}
	for _, r := range b.snapshot.Roots() {
		add(r, 0)
	}
	if b.cursor >= len(b.rows) {
		b.cursor = len(b.rows) - 1
	}
	if b.cursor < 0 {
		b.cursor = 0
	}
}

func (b *browser) collapsedSet() map[string]bool {
	collapsed := make(map[string]bool)
	for _, r := range b.rows {
		if !r.open {
			collapsed[r.device.Path] = true
		}
	}
	return collapsed
}

func (b *browser) Init() tea.Cmd { return nil }

func (b *browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return b, tea.Quit
		case "up", "k":
			if b.cursor > 0 {
				b.cursor--
			}
		case "down", "j":
			if b.cursor < len(b.rows)-1 {
				b.cursor++
			}
		case "enter", " ":
			if b.cursor < len(b.rows) {
				collapsed := b.collapsedSet()
				path := b.rows[b.cursor].device.Path
				collapsed[path] = !collapsed[path]
				b.rebuild(collapsed)
			}
		case "g":
			b.cursor = 0
		case "G":
			b.cursor = len(b.rows) - 1
		}
	}
	b.scroll()
	return b, nil
}

func (b *browser) scroll() {
	visible := b.listHeight()
	if b.cursor < b.offset {
		b.offset = b.cursor
	}
	if b.cursor >= b.offset+visible {
		b.offset = b.cursor - visible + 1
	}
}

func (b *browser) listHeight() int {
	h := b.height - 10 // title, help, detail panel
	if h < 3 {
		h = 3
	}
	return h
}

func (b *browser) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("devscan — %d devices", b.snapshot.Len())))
	sb.WriteString("\n\n")

	visible := b.listHeight()
	end := b.offset + visible
	if end > len(b.rows) {
		end = len(b.rows)
	}
	for i := b.offset; i < end; i++ {
		sb.WriteString(b.renderRow(i))
		sb.WriteString("\n")
	}
	if len(b.rows) == 0 {
		sb.WriteString(labelStyle.Render("no devices found"))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	if b.cursor < len(b.rows) {
		sb.WriteString(b.renderDetail(b.rows[b.cursor].device))
	}
	sb.WriteString(helpStyle.Render("↑/↓ move · enter fold · q quit"))
	return sb.String()
}

func (b *browser) renderRow(i int) string {
	r := b.rows[i]
	d := r.device

	marker := "  "
	if len(d.Children) > 0 {
		if r.open {
			marker = "▾ "
		} else {
			marker = "▸ "
		}
	}
	line := strings.Repeat("  ", r.depth) + marker + typeStyle(string(d.Type)).Render(d.Path)
	if size := d.HumanCapacity(); size != "" {
		line += labelStyle.Render("  " + size)
	}
	if d.Health != "" {
		line += "  " + healthStyle(string(d.Health)).Render(string(d.Health))
	}
	if d.LowConfidence {
		line += unknownStyle.Render("  ?")
	}
	if i == b.cursor {
		return selectedStyle.Render("›") + line
	}
	return " " + line
}

func (b *browser) renderDetail(d *model.Device) string {
	var sb strings.Builder
	field := func(name, val string) {
		if val != "" {
			sb.WriteString(labelStyle.Render(fmt.Sprintf("%-12s", name)))
			sb.WriteString(valueStyle.Render(val))
			sb.WriteString("\n")
		}
	}
	field("type", string(d.Type))
	field("capacity", d.HumanCapacity())
	field("fstype", d.Filesystem)
	field("label", d.Label)
	field("uuid", d.UUID)
	field("vendor", d.Vendor)
	field("model", d.Product)
	field("health", string(d.Health))
	field("lv refs", strings.Join(d.LVRefs, ", "))
	if len(d.Notes) > 0 {
		field("notes", fmt.Sprintf("%d discrepancy note(s)", len(d.Notes)))
	}
	sb.WriteString("\n")
	return sb.String()
}
