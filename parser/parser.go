// Package parser turns raw diagnostic-tool output into device fragments.
// Every parser is total: malformed blocks, rows, or nodes yield zero
// fragments and a degradation note, never an error.
package parser

import (
	"github.com/rs/zerolog"

	"github.com/probeops/devscan/model"
)

// Format names the input shape a parser understands.
type Format string

const (
	FormatMarkup   Format = "markup"
	FormatKeyValue Format = "keyvalue"
	FormatTabular  Format = "tabular"
)

// Parser converts one tool's captured output into fragments. Parsers are
// pure functions over the input text and safe to run concurrently.
type Parser interface {
	Name() string
	Format() Format
	Parse(raw string) Result
}

// Result is what a parse pass produced: the usable fragments plus a note per
// block/row/node that had to be skipped or left partial.
type Result struct {
	Fragments []model.Fragment
	Degraded  []Degradation
}

// Degradation records one non-fatal parse failure.
type Degradation struct {
	Parser  string
	Section string // which block, row, or node
	Reason  string
}

func (r *Result) add(f model.Fragment) {
	r.Fragments = append(r.Fragments, f)
}

func (r *Result) degrade(parser, section, reason string) {
	r.Degraded = append(r.Degraded, Degradation{Parser: parser, Section: section, Reason: reason})
}

// Log writes every degradation at warn level. Parsing already continued;
// this is purely for the operator.
func (r Result) Log(log zerolog.Logger) {
	for _, d := range r.Degraded {
		log.Warn().
			Str("parser", d.Parser).
			Str("section", d.Section).
			Str("reason", d.Reason).
			Msg("parse degraded")
	}
}
