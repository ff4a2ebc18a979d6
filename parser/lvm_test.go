package parser

import (
	"testing"

	"github.com/probeops/devscan/model"
)

const lvsSample = `  Path                  LSize        VG     Devices
  /dev/vg0/root         53687091200  vg0    /dev/sda2(0)
  /dev/vg0/home         429496729600 vg0    /dev/sda2(12800),/dev/sdb1(0)
`

func TestLVMListing(t *testing.T) {
	res := LVM{}.Parse(lvsSample)
	if len(res.Fragments) != 2 {
		t.Fatalf("got %d fragments, want 2", len(res.Fragments))
	}

	root := res.Fragments[0]
	if root.Path != "/dev/vg0/root" || root.Type != model.TypeLogicalVolume {
		t.Errorf("fragment = %+v", root)
	}
	if root.Capacity != 53687091200 {
		t.Errorf("capacity = %d", root.Capacity)
	}
	if root.Extra["vg"] != "vg0" {
		t.Errorf("vg = %v", root.Extra)
	}
	if len(root.LVRefs) != 1 || root.LVRefs[0] != "/dev/sda2" {
		t.Errorf("lv refs = %v", root.LVRefs)
	}

	home := res.Fragments[1]
	if len(home.LVRefs) != 2 || home.LVRefs[1] != "/dev/sdb1" {
		t.Errorf("home lv refs = %v", home.LVRefs)
	}
}

func TestLVMShortRowDegradesNotSkips(t *testing.T) {
	raw := "Path LSize VG Devices\n/dev/vg0/swap 8589934592\n"
	res := LVM{}.Parse(raw)
	if len(res.Fragments) != 1 {
		t.Fatalf("got %d fragments, want 1 (short row kept)", len(res.Fragments))
	}
	f := res.Fragments[0]
	if f.Path != "/dev/vg0/swap" || f.Capacity != 8589934592 {
		t.Errorf("fragment = %+v", f)
	}
	if f.Extra["vg"] != "" || len(f.LVRefs) != 0 {
		t.Errorf("missing columns should stay null: %+v", f)
	}
	if len(res.Degraded) != 1 {
		t.Errorf("got %d degradations, want 1", len(res.Degraded))
	}
}

func TestLVMRowWithoutPath(t *testing.T) {
	raw := "LSize VG\n8589934592 vg0\n"
	res := LVM{}.Parse(raw)
	if len(res.Fragments) != 0 {
		t.Fatalf("got %d fragments, want 0", len(res.Fragments))
	}
	if len(res.Degraded) != 1 {
		t.Errorf("got %d degradations, want 1", len(res.Degraded))
	}
}

func TestLVMEmptyInput(t *testing.T) {
	res := LVM{}.Parse("")
	if len(res.Fragments) != 0 || len(res.Degraded) != 0 {
		t.Errorf("empty input produced %+v", res)
	}
}
