package backend

import (
	"errors"
	"testing"

	"github.com/probeops/devscan/parser"
)

func TestSelectLinux(t *testing.T) {
	specs, err := Select(Linux)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	names := toolNames(specs)
	want := []string{"lshw", "blkid", "lvm", "smartctl"}
	if len(names) != len(want) {
		t.Fatalf("tools = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("tools = %v, want %v", names, want)
			break
		}
	}
}

func TestSelectCygwin(t *testing.T) {
	specs, err := Select(CygwinWindows)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	for _, s := range specs {
		if s.Name == "lshw" {
			t.Error("lshw selected under cygwin")
		}
		if s.Parser.Format() == parser.FormatMarkup {
			t.Errorf("%s: markup parser selected under cygwin", s.Name)
		}
	}
	if len(specs) != 2 {
		t.Errorf("tools = %v, want blkid and smartctl", toolNames(specs))
	}
}

func TestSelectMacOS(t *testing.T) {
	specs, err := Select(MacOS)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(specs) != 1 || specs[0].Name != "diskutil" {
		t.Errorf("tools = %v, want diskutil only", toolNames(specs))
	}
}

func TestSelectUnsupported(t *testing.T) {
	if _, err := Select("plan9"); !errors.Is(err, ErrUnsupportedPlatform) {
		t.Errorf("err = %v, want ErrUnsupportedPlatform", err)
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		goos   string
		family OSFamily
		ok     bool
	}{
		{"linux", Linux, true},
		{"darwin", MacOS, true},
		{"windows", CygwinWindows, true},
		{"freebsd", "", false},
	}
	for _, tt := range tests {
		family, err := Detect(tt.goos)
		if tt.ok && (err != nil || family != tt.family) {
			t.Errorf("Detect(%q) = %v, %v", tt.goos, family, err)
		}
		if !tt.ok && !errors.Is(err, ErrUnsupportedPlatform) {
			t.Errorf("Detect(%q) err = %v, want ErrUnsupportedPlatform", tt.goos, err)
		}
	}
}

func toolNames(specs []ToolSpec) []string {
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	return names
}
