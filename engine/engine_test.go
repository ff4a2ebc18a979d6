package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/probeops/devscan/backend"
	"github.com/probeops/devscan/merge"
	"github.com/probeops/devscan/model"
)

const blkidOut = `DEVNAME=/dev/sda1
UUID=f3b8f3b8-0001-4d1f-9014-0b77c76e632d
TYPE=ext4
LABEL=root

DEVNAME=/dev/sda2
UUID=9b1d9b1d-0002-4d1f-9014-0b77c76e632d
TYPE=swap
`

const lvsOut = `  lv_path          lv_size      vg_name devices
  /dev/vg0/root    53687091200  vg0     /dev/sda2(0)
`

const smartctlOut = `=== START OF INFORMATION SECTION ===
Device Model:     Samsung SSD 870 EVO 1TB
User Capacity:    1,000,204,886,016 bytes [1.00 TB]

=== START OF READ SMART DATA SECTION ===
SMART overall-health self-assessment test result: PASSED
`

func TestSnapshotLinux(t *testing.T) {
	outputs := []ToolOutput{
		{Tool: "blkid", Raw: blkidOut},
		{Tool: "lvm", Raw: lvsOut},
		{Tool: "smartctl", Device: "/dev/sda", Raw: smartctlOut},
	}
	m, err := Snapshot(context.Background(), backend.Linux, outputs, merge.DefaultPolicy())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if m.Len() != 4 {
		t.Fatalf("Len = %d, want sda, sda1, sda2, vg0/root", m.Len())
	}

	sda, err := m.Lookup("/dev/sda")
	if err != nil {
		t.Fatalf("Lookup sda: %v", err)
	}
	if sda.Health != model.HealthHealthy || sda.Product != "Samsung SSD 870 EVO 1TB" {
		t.Errorf("sda = %+v", sda)
	}
	if sda.Capacity != 1000204886016 {
		t.Errorf("capacity = %d", sda.Capacity)
	}
	if len(sda.Children) != 2 {
		t.Errorf("children = %d", len(sda.Children))
	}

	lv, err := m.Lookup("/dev/vg0/root")
	if err != nil {
		t.Fatalf("Lookup lv: %v", err)
	}
	if lv.Type != model.TypeLogicalVolume || len(lv.LVRefs) != 1 {
		t.Errorf("lv = %+v", lv)
	}
}

func TestSnapshotDeviceStamping(t *testing.T) {
	outputs := []ToolOutput{{Tool: "smartctl", Device: "/dev/nvme0n1", Raw: smartctlOut}}
	m, err := Snapshot(context.Background(), backend.Linux, outputs, merge.DefaultPolicy())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if _, err := m.Lookup("/dev/nvme0n1"); err != nil {
		t.Errorf("stamped device missing: %v", err)
	}
}

func TestSnapshotUnsupportedPlatform(t *testing.T) {
	m, err := Snapshot(context.Background(), "beos", nil, merge.DefaultPolicy())
	if !errors.Is(err, backend.ErrUnsupportedPlatform) {
		t.Errorf("err = %v, want ErrUnsupportedPlatform", err)
	}
	if m != nil {
		t.Error("model returned alongside error")
	}
}

func TestSnapshotSkipsUnknownTool(t *testing.T) {
	outputs := []ToolOutput{
		{Tool: "diskutil", Raw: "<plist/>"}, // not in the linux backend
		{Tool: "blkid", Raw: blkidOut},
	}
	m, err := Snapshot(context.Background(), backend.Linux, outputs, merge.DefaultPolicy())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if m.Len() != 2 {
		t.Errorf("Len = %d, want only blkid devices", m.Len())
	}
}

func TestSnapshotExtraFragments(t *testing.T) {
	native := model.Fragment{Source: "native", Path: "/dev/sdz1", Filesystem: "xfs", Capacity: 1 << 30}
	m, err := Snapshot(context.Background(), backend.Linux, nil, merge.DefaultPolicy(), native)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	dev, err := m.Lookup("/dev/sdz1")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if dev.Filesystem != "xfs" {
		t.Errorf("device = %+v", dev)
	}
}

func TestSnapshotCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m, err := Snapshot(ctx, backend.Linux, []ToolOutput{{Tool: "blkid", Raw: blkidOut}}, merge.DefaultPolicy())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if m != nil {
		t.Error("model returned after cancellation")
	}
}
