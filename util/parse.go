package util

import (
	"strconv"
	"strings"
)

// SplitBlocks splits tool output into blank-line-delimited blocks, trimming
// surrounding whitespace and dropping empty blocks.
func SplitBlocks(raw string) []string {
	var blocks []string
	for _, b := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n\n") {
		b = strings.TrimSpace(b)
		if b != "" {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// Lines splits raw output into trimmed, non-empty lines.
func Lines(raw string) []string {
	var lines []string
	for _, l := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		l = strings.TrimRight(l, " \t")
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// ParseUint64 parses a decimal string to uint64, tolerating the thousands
// separators smartctl prints ("1,000,204,886,016"). Returns 0 on error.
func ParseUint64(s string) uint64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	v, _ := strconv.ParseUint(s, 10, 64)
	return v
}

// sizeUnits maps the suffixes storage tools emit to byte multipliers.
// Decimal and binary prefixes both appear in the wild (lvs vs. blkid).
var sizeUnits = map[string]uint64{
	"B":   1,
	"KB":  1000,
	"MB":  1000 * 1000,
	"GB":  1000 * 1000 * 1000,
	"TB":  1000 * 1000 * 1000 * 1000,
	"PB":  1000 * 1000 * 1000 * 1000 * 1000,
	"KIB": 1 << 10,
	"MIB": 1 << 20,
	"GIB": 1 << 30,
	"TIB": 1 << 40,
	"PIB": 1 << 50,
	"K":   1 << 10,
	"M":   1 << 20,
	"G":   1 << 30,
	"T":   1 << 40,
	"P":   1 << 50,
}

// ParseSize parses a byte count in the shapes device tools print it:
// "1000204886016", "1,000,204,886,016 bytes [1.00 TB]", "500107862016B",
// "931.51g", "238.47 GiB". Returns 0 when nothing parseable is found.
func ParseSize(s string) uint64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	// "N bytes [...]" — keep the leading number.
	if i := strings.IndexAny(s, " ["); i > 0 {
		if v, err := strconv.ParseUint(s[:i], 10, 64); err == nil {
			rest := strings.TrimSpace(s[i:])
			if rest == "" || strings.HasPrefix(rest, "bytes") || strings.HasPrefix(rest, "[") {
				return v
			}
		}
	}
	// Split into numeric prefix and unit suffix.
	num := s
	unit := ""
	for i, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			num, unit = s[:i], strings.TrimSpace(s[i:])
			break
		}
	}
	if num == "" {
		return 0
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil || f < 0 {
		return 0
	}
	if unit == "" {
		return uint64(f)
	}
	mult, ok := sizeUnits[strings.ToUpper(strings.Fields(unit)[0])]
	if !ok {
		return 0
	}
	return uint64(f * float64(mult))
}

// FieldsAt returns the whitespace-split field at idx, or "" when the line is
// too short.
func FieldsAt(line string, idx int) string {
	fields := strings.Fields(line)
	if idx < len(fields) {
		return fields[idx]
	}
	return ""
}
