// Package backend maps a host OS family to the diagnostic tools worth
// invoking there and the parser responsible for each tool's output.
package backend

import (
	"errors"
	"fmt"

	"github.com/probeops/devscan/parser"
)

// OSFamily is the caller-supplied platform selector.
type OSFamily string

const (
	Linux         OSFamily = "linux"
	MacOS         OSFamily = "macos"
	CygwinWindows OSFamily = "cygwin-windows"
)

// ErrUnsupportedPlatform is fatal: no guessing at tool sets for platforms
// the library has never been taught.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// ToolSpec binds one diagnostic tool to its parser. Command is the baseline
// invocation; tools that need per-device follow-up runs (smartctl, diskutil)
// get that behavior from the collector, keyed by Name.
type ToolSpec struct {
	Name    string
	Command []string
	Parser  parser.Parser
}

// Select returns the ordered tool set for the OS family. Order is invocation
// order only; field authority between sources is the merge policy's business.
func Select(family OSFamily) ([]ToolSpec, error) {
	switch family {
	case Linux:
		return []ToolSpec{
			{Name: "lshw", Command: []string{"lshw", "-sanitize", "-class", "disk", "-class", "volume", "-xml"}, Parser: parser.Lshw{}},
			{Name: "blkid", Command: []string{"blkid", "-o", "export"}, Parser: parser.Blkid{}},
			{Name: "lvm", Command: []string{"lvs", "--units", "b", "--nosuffix", "-o", "lv_path,lv_size,vg_name,devices"}, Parser: parser.LVM{}},
			{Name: "smartctl", Command: []string{"smartctl", "--scan"}, Parser: parser.Smartctl{}},
		}, nil
	case MacOS:
		return []ToolSpec{
			{Name: "diskutil", Command: []string{"diskutil", "list", "-plist"}, Parser: parser.Diskutil{}},
		}, nil
	case CygwinWindows:
		// No hardware lister under Cygwin; blkid and smartctl are what ship.
		return []ToolSpec{
			{Name: "blkid", Command: []string{"blkid", "-o", "export"}, Parser: parser.Blkid{}},
			{Name: "smartctl", Command: []string{"smartctl", "--scan"}, Parser: parser.Smartctl{}},
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPlatform, family)
	}
}

// Detect maps runtime.GOOS values onto OS families. Windows is assumed to be
// running the Cygwin tool set; native Windows probing is not supported.
func Detect(goos string) (OSFamily, error) {
	switch goos {
	case "linux":
		return Linux, nil
	case "darwin":
		return MacOS, nil
	case "windows":
		return CygwinWindows, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPlatform, goos)
	}
}
