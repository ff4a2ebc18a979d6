package parser

import (
	"encoding/xml"
	"strings"

	"github.com/probeops/devscan/model"
	"github.com/probeops/devscan/util"
)

// Lshw parses the XML tree a hardware lister emits: nested <node> elements
// carrying class/id attributes. Nodes whose class is not a storage class are
// descended into but never emitted.
type Lshw struct{}

func (Lshw) Name() string   { return "lshw" }
func (Lshw) Format() Format { return FormatMarkup }

type lshwNode struct {
	ID          string     `xml:"id,attr"`
	Class       string     `xml:"class,attr"`
	Description string     `xml:"description"`
	Product     string     `xml:"product"`
	Vendor      string     `xml:"vendor"`
	Serial      string     `xml:"serial"`
	LogicalName []string   `xml:"logicalname"`
	Size        lshwSize   `xml:"size"`
	Capacity    lshwSize   `xml:"capacity"`
	Config      []lshwSet  `xml:"configuration>setting"`
	Children    []lshwNode `xml:"node"`
}

type lshwSize struct {
	Units string `xml:"units,attr"`
	Value string `xml:",chardata"`
}

type lshwSet struct {
	ID    string `xml:"id,attr"`
	Value string `xml:"value,attr"`
}

// lshwList is the <list> wrapper newer lshw versions print around the root.
type lshwList struct {
	Nodes []lshwNode `xml:"node"`
}

func (l Lshw) Parse(raw string) Result {
	var res Result
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return res
	}

	roots, err := decodeLshw(raw)
	if err != nil {
		res.degrade(l.Name(), "document", "invalid markup: "+err.Error())
		return res
	}

	for i := range roots {
		l.walk(&roots[i], "", &res)
	}
	return res
}

// decodeLshw handles both root shapes lshw emits: a bare <node> and the
// <list> wrapper around several nodes.
func decodeLshw(raw string) ([]lshwNode, error) {
	dec := xml.NewDecoder(strings.NewReader(raw))
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local == "list" {
			var list lshwList
			if err := dec.DecodeElement(&list, &start); err != nil {
				return nil, err
			}
			return list.Nodes, nil
		}
		var single lshwNode
		if err := dec.DecodeElement(&single, &start); err != nil {
			return nil, err
		}
		return []lshwNode{single}, nil
	}
}

// walk descends the node tree, emitting a fragment per storage node and
// threading the nearest enclosing disk path down as the parent.
func (l Lshw) walk(n *lshwNode, parent string, res *Result) {
	path := firstDevPath(n.LogicalName)
	emit := false

	switch n.Class {
	case "disk":
		if path == "" {
			res.degrade(l.Name(), "node "+n.ID, "disk node without logical name")
		} else {
			frag := l.fragment(n, path, parent)
			frag.Type = model.TypeDisk
			res.add(frag)
			emit = true
		}
	case "volume":
		if path == "" {
			res.degrade(l.Name(), "node "+n.ID, "volume node without logical name")
		} else {
			frag := l.fragment(n, path, parent)
			frag.Type = model.TypePartition
			res.add(frag)
			emit = true
		}
	}

	next := parent
	if emit {
		next = path
	}
	for i := range n.Children {
		l.walk(&n.Children[i], next, res)
	}
}

func (l Lshw) fragment(n *lshwNode, path, parent string) model.Fragment {
	frag := model.Fragment{
		Source:  l.Name(),
		Path:    path,
		Parent:  parent,
		Vendor:  n.Vendor,
		Product: n.Product,
	}
	frag.Capacity = util.ParseSize(n.Size.Value)
	if frag.Capacity == 0 {
		frag.Capacity = util.ParseSize(n.Capacity.Value)
	}
	if n.Description != "" {
		frag.SetExtra("description", n.Description)
	}
	if n.Serial != "" {
		frag.SetExtra("serial", n.Serial)
	}
	for _, s := range n.Config {
		switch s.ID {
		case "filesystem":
			frag.Filesystem = s.Value
		case "label":
			frag.Label = s.Value
		case "uuid":
			frag.UUID = canonicalUUID(s.Value)
		default:
			if s.Value != "" {
				frag.SetExtra(s.ID, s.Value)
			}
		}
	}
	return frag
}

// firstDevPath picks the first /dev name; lshw also lists mount points under
// logicalname and those are not device paths.
func firstDevPath(names []string) string {
	for _, n := range names {
		n = strings.TrimSpace(n)
		if strings.HasPrefix(n, "/dev/") {
			return n
		}
	}
	return ""
}
