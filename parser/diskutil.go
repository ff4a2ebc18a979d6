package parser

import (
	"regexp"
	"strconv"
	"strings"

	"howett.net/plist"

	"github.com/probeops/devscan/model"
)

// Diskutil parses the property lists diskutil prints on macOS. Both shapes
// are handled: the device inventory from "diskutil list -plist" and the
// per-device report from "diskutil info -plist <disk>".
type Diskutil struct{}

func (Diskutil) Name() string   { return "diskutil" }
func (Diskutil) Format() Format { return FormatMarkup }

// diskutilPlist covers the keys of both plist shapes; absent keys stay zero.
type diskutilPlist struct {
	// diskutil list
	AllDisks              []string           `plist:"AllDisks"`
	AllDisksAndPartitions []diskutilListItem `plist:"AllDisksAndPartitions"`

	// diskutil info
	DeviceNode      string `plist:"DeviceNode"`
	ParentWholeDisk string `plist:"ParentWholeDisk"`
	WholeDisk       bool   `plist:"WholeDisk"`
	TotalSize       uint64 `plist:"TotalSize"`
	Size            uint64 `plist:"Size"`
	FilesystemType  string `plist:"FilesystemType"`
	VolumeName      string `plist:"VolumeName"`
	VolumeUUID      string `plist:"VolumeUUID"`
	DiskUUID        string `plist:"DiskUUID"`
	MediaName       string `plist:"MediaName"`
	SMARTStatus     string `plist:"SMARTStatus"`
	SolidState      bool   `plist:"SolidState"`
	Internal        bool   `plist:"Internal"`
	Removable       bool   `plist:"Removable"`
	BusProtocol     string `plist:"BusProtocol"`
	Content         string `plist:"Content"`
	DeviceBlockSize uint64 `plist:"DeviceBlockSize"`
}

type diskutilListItem struct {
	DeviceIdentifier string             `plist:"DeviceIdentifier"`
	Size             uint64             `plist:"Size"`
	Content          string             `plist:"Content"`
	Partitions       []diskutilListItem `plist:"Partitions"`
}

func (p Diskutil) Parse(raw string) Result {
	var res Result
	if strings.TrimSpace(raw) == "" {
		return res
	}
	var doc diskutilPlist
	if _, err := plist.Unmarshal([]byte(raw), &doc); err != nil {
		res.degrade(p.Name(), "document", "invalid plist: "+err.Error())
		return res
	}

	switch {
	case doc.DeviceNode != "":
		res.add(p.infoFragment(&doc))
	case len(doc.AllDisksAndPartitions) > 0:
		for i := range doc.AllDisksAndPartitions {
			p.listFragments(&doc.AllDisksAndPartitions[i], "", &res)
		}
	case len(doc.AllDisks) > 0:
		for _, id := range doc.AllDisks {
			res.add(model.Fragment{
				Source: p.Name(),
				Path:   "/dev/" + id,
				Type:   identifierType(id),
				Parent: parentIdentifier(id),
			})
		}
	default:
		res.degrade(p.Name(), "document", "no devices in plist")
	}
	return res
}

func (p Diskutil) infoFragment(doc *diskutilPlist) model.Fragment {
	frag := model.Fragment{
		Source:     p.Name(),
		Path:       doc.DeviceNode,
		Filesystem: doc.FilesystemType,
		Label:      doc.VolumeName,
	}
	if doc.WholeDisk {
		frag.Type = model.TypeDisk
	} else {
		frag.Type = model.TypePartition
		if doc.ParentWholeDisk != "" {
			frag.Parent = "/dev/" + doc.ParentWholeDisk
		}
	}
	frag.Capacity = doc.TotalSize
	if frag.Capacity == 0 {
		frag.Capacity = doc.Size
	}
	if doc.VolumeUUID != "" {
		frag.UUID = canonicalUUID(doc.VolumeUUID)
	} else if doc.DiskUUID != "" {
		frag.UUID = canonicalUUID(doc.DiskUUID)
	}
	// MediaName concatenates vendor and model ("APPLE SSD AP0512Q").
	if doc.MediaName != "" {
		fields := strings.Fields(doc.MediaName)
		frag.Vendor = fields[0]
		if len(fields) > 1 {
			frag.Product = strings.Join(fields[1:], " ")
		}
	}
	switch doc.SMARTStatus {
	case "Verified":
		frag.Health = model.HealthHealthy
	case "", "Not Supported":
		frag.Health = model.HealthUnknown
	default:
		frag.Health = model.HealthFailing
	}
	if doc.BusProtocol != "" {
		frag.SetExtra("bus_protocol", doc.BusProtocol)
	}
	if doc.Content != "" {
		frag.SetExtra("content", doc.Content)
	}
	if doc.DeviceBlockSize > 0 {
		frag.SetExtra("block_size", strconv.FormatUint(doc.DeviceBlockSize, 10))
	}
	if doc.SolidState {
		frag.SetExtra("solid_state", "true")
	}
	if doc.Internal {
		frag.SetExtra("internal", "true")
	}
	if doc.Removable {
		frag.SetExtra("removable", "true")
	}
	return frag
}

func (p Diskutil) listFragments(item *diskutilListItem, parent string, res *Result) {
	if item.DeviceIdentifier == "" {
		res.degrade(p.Name(), "list entry", "no device identifier")
		return
	}
	path := "/dev/" + item.DeviceIdentifier
	frag := model.Fragment{
		Source:   p.Name(),
		Path:     path,
		Type:     identifierType(item.DeviceIdentifier),
		Parent:   parent,
		Capacity: item.Size,
	}
	if item.Content != "" {
		frag.SetExtra("content", item.Content)
	}
	res.add(frag)
	for i := range item.Partitions {
		p.listFragments(&item.Partitions[i], path, res)
	}
}

// DiskutilDeviceNames extracts the device identifiers from "diskutil list
// -plist" output, for callers that need to follow up with per-device info
// invocations.
func DiskutilDeviceNames(raw string) []string {
	var doc diskutilPlist
	if _, err := plist.Unmarshal([]byte(raw), &doc); err != nil {
		return nil
	}
	return doc.AllDisks
}

var (
	wholeDiskRe = regexp.MustCompile(`^disk\d+$`)
	sliceRe     = regexp.MustCompile(`^(disk\d+(?:s\d+)*)s\d+$`)
)

func identifierType(id string) model.DeviceType {
	if wholeDiskRe.MatchString(id) {
		return model.TypeDisk
	}
	return model.TypePartition
}

// parentIdentifier maps a slice name to its host device path: disk0s2 sits
// on /dev/disk0, disk0s2s1 on /dev/disk0s2.
func parentIdentifier(id string) string {
	m := sliceRe.FindStringSubmatch(id)
	if m == nil {
		return ""
	}
	return "/dev/" + m[1]
}
