package parser

import (
	"testing"

	"github.com/probeops/devscan/model"
)

const diskutilList = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>AllDisks</key>
	<array>
		<string>disk0</string>
		<string>disk0s1</string>
		<string>disk0s2</string>
	</array>
	<key>AllDisksAndPartitions</key>
	<array>
		<dict>
			<key>DeviceIdentifier</key>
			<string>disk0</string>
			<key>Size</key>
			<integer>500277792768</integer>
			<key>Content</key>
			<string>GUID_partition_scheme</string>
			<key>Partitions</key>
			<array>
				<dict>
					<key>DeviceIdentifier</key>
					<string>disk0s1</string>
					<key>Size</key>
					<integer>314572800</integer>
					<key>Content</key>
					<string>EFI</string>
				</dict>
				<dict>
					<key>DeviceIdentifier</key>
					<string>disk0s2</string>
					<key>Size</key>
					<integer>499963174912</integer>
					<key>Content</key>
					<string>Apple_APFS</string>
				</dict>
			</array>
		</dict>
	</array>
</dict>
</plist>`

const diskutilInfo = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>DeviceNode</key>
	<string>/dev/disk0s2</string>
	<key>ParentWholeDisk</key>
	<string>disk0</string>
	<key>WholeDisk</key>
	<false/>
	<key>TotalSize</key>
	<integer>499963174912</integer>
	<key>FilesystemType</key>
	<string>apfs</string>
	<key>VolumeName</key>
	<string>Macintosh HD</string>
	<key>VolumeUUID</key>
	<string>6A604CBF-1E85-4D1F-9014-0B77C76E632D</string>
	<key>MediaName</key>
	<string>APPLE SSD AP0512Q</string>
	<key>SMARTStatus</key>
	<string>Verified</string>
	<key>SolidState</key>
	<true/>
	<key>Internal</key>
	<true/>
	<key>BusProtocol</key>
	<string>Apple Fabric</string>
	<key>DeviceBlockSize</key>
	<integer>4096</integer>
</dict>
</plist>`

func TestDiskutilListPlist(t *testing.T) {
	res := Diskutil{}.Parse(diskutilList)
	if len(res.Fragments) != 3 {
		t.Fatalf("got %d fragments, want 3", len(res.Fragments))
	}

	disk := res.Fragments[0]
	if disk.Path != "/dev/disk0" || disk.Type != model.TypeDisk {
		t.Errorf("disk fragment = %+v", disk)
	}
	if disk.Capacity != 500277792768 {
		t.Errorf("disk capacity = %d", disk.Capacity)
	}

	efi := res.Fragments[1]
	if efi.Path != "/dev/disk0s1" || efi.Type != model.TypePartition || efi.Parent != "/dev/disk0" {
		t.Errorf("partition fragment = %+v", efi)
	}
	if efi.Extra["content"] != "EFI" {
		t.Errorf("content = %v", efi.Extra)
	}
}

func TestDiskutilInfoPlist(t *testing.T) {
	res := Diskutil{}.Parse(diskutilInfo)
	if len(res.Fragments) != 1 {
		t.Fatalf("got %d fragments, want 1", len(res.Fragments))
	}
	f := res.Fragments[0]
	if f.Path != "/dev/disk0s2" || f.Type != model.TypePartition || f.Parent != "/dev/disk0" {
		t.Errorf("fragment = %+v", f)
	}
	if f.Filesystem != "apfs" || f.Label != "Macintosh HD" {
		t.Errorf("fs/label = %q %q", f.Filesystem, f.Label)
	}
	if f.UUID != "6a604cbf-1e85-4d1f-9014-0b77c76e632d" {
		t.Errorf("uuid = %q", f.UUID)
	}
	if f.Vendor != "APPLE" || f.Product != "SSD AP0512Q" {
		t.Errorf("identity = %q %q", f.Vendor, f.Product)
	}
	if f.Health != model.HealthHealthy {
		t.Errorf("health = %q", f.Health)
	}
	if f.Extra["block_size"] != "4096" || f.Extra["solid_state"] != "true" {
		t.Errorf("extra = %v", f.Extra)
	}
}

func TestDiskutilInvalidPlist(t *testing.T) {
	res := Diskutil{}.Parse("not a plist")
	if len(res.Fragments) != 0 || len(res.Degraded) != 1 {
		t.Errorf("result = %+v", res)
	}
}

func TestDiskutilDeviceNames(t *testing.T) {
	names := DiskutilDeviceNames(diskutilList)
	if len(names) != 3 || names[0] != "disk0" {
		t.Errorf("names = %v", names)
	}
}

func TestDiskutilParentInference(t *testing.T) {
	tests := []struct {
		id, parent string
	}{
		{"disk0", ""},
		{"disk0s2", "/dev/disk0"},
		{"disk1s5s1", "/dev/disk1s5"},
	}
	for _, tt := range tests {
		if got := parentIdentifier(tt.id); got != tt.parent {
			t.Errorf("parentIdentifier(%q) = %q, want %q", tt.id, got, tt.parent)
		}
	}
}
