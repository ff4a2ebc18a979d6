package parser

import (
	"testing"

	"github.com/probeops/devscan/model"
)

const smartctlHealthy = `smartctl 7.3 2022-02-28 r5338 [x86_64-linux-5.15.0] (local build)

=== START OF INFORMATION SECTION ===
Model Family:     Samsung based SSDs
Device Model:     Samsung SSD 860 EVO 1TB
Serial Number:    S3Z8NB0K123456
User Capacity:    1,000,204,886,016 bytes [1.00 TB]
Rotation Rate:    Solid State Device

=== START OF READ SMART DATA SECTION ===
SMART overall-health self-assessment test result: PASSED

SMART Attributes Data Structure revision number: 1
Vendor Specific SMART Attributes with Thresholds:
ID# ATTRIBUTE_NAME          FLAG     VALUE WORST THRESH TYPE      UPDATED  WHEN_FAILED RAW_VALUE
  5 Reallocated_Sector_Ct   0x0033   100   100   010    Pre-fail  Always       -       0
194 Temperature_Celsius     0x0022   064   052   000    Old_age   Always       -       36
197 Current_Pending_Sector  0x0032   100   100   000    Old_age   Always       -       0

SMART Error Log Version: 1
`

func TestSmartctlHealthy(t *testing.T) {
	res := Smartctl{}.Parse(smartctlHealthy)
	if len(res.Fragments) != 1 {
		t.Fatalf("got %d fragments, want 1", len(res.Fragments))
	}
	f := res.Fragments[0]
	if f.Health != model.HealthHealthy {
		t.Errorf("health = %q, want healthy", f.Health)
	}
	if f.Product != "Samsung SSD 860 EVO 1TB" {
		t.Errorf("product = %q", f.Product)
	}
	if f.Capacity != 1000204886016 {
		t.Errorf("capacity = %d", f.Capacity)
	}
	if f.Extra["temperature"] != "36" {
		t.Errorf("temperature = %v", f.Extra)
	}
	if f.Path != "" {
		t.Errorf("smartctl output carries no path, got %q", f.Path)
	}
}

func TestSmartctlReallocatedSectorsOverridePassed(t *testing.T) {
	raw := `Device Model:     WDC WD10EZEX
SMART overall-health self-assessment test result: PASSED
ID# ATTRIBUTE_NAME          FLAG     VALUE WORST THRESH TYPE      UPDATED  WHEN_FAILED RAW_VALUE
  5 Reallocated_Sector_Ct   0x0033   100   100   010    Pre-fail  Always       -       24
`
	res := Smartctl{}.Parse(raw)
	f := res.Fragments[0]
	if f.Health != model.HealthFailing {
		t.Errorf("health = %q, want failing despite PASSED", f.Health)
	}
	if f.Extra["reallocated_sectors"] != "24" {
		t.Errorf("reallocated_sectors = %v", f.Extra)
	}
}

func TestSmartctlFailedVerdict(t *testing.T) {
	raw := "SMART overall-health self-assessment test result: FAILED!\n"
	res := Smartctl{}.Parse(raw)
	if len(res.Fragments) != 1 || res.Fragments[0].Health != model.HealthFailing {
		t.Errorf("result = %+v", res.Fragments)
	}
}

func TestSmartctlSCSIHealth(t *testing.T) {
	raw := "Vendor:               SEAGATE\nProduct:              ST4000NM0023\nSMART Health Status: OK\n"
	res := Smartctl{}.Parse(raw)
	f := res.Fragments[0]
	if f.Health != model.HealthHealthy || f.Vendor != "SEAGATE" || f.Product != "ST4000NM0023" {
		t.Errorf("fragment = %+v", f)
	}
}

func TestSmartctlUnrecognizable(t *testing.T) {
	res := Smartctl{}.Parse("Permission denied\n")
	if len(res.Fragments) != 0 {
		t.Fatalf("got %d fragments, want 0", len(res.Fragments))
	}
	if len(res.Degraded) != 1 {
		t.Errorf("got %d degradations, want 1", len(res.Degraded))
	}
}

func TestSmartctlEmptyInput(t *testing.T) {
	res := Smartctl{}.Parse("")
	if len(res.Fragments) != 0 || len(res.Degraded) != 0 {
		t.Errorf("empty input produced %+v", res)
	}
}
