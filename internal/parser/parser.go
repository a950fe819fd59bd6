// Package parser splits rendered note text back into labelled lines.
package parser

import (
	"regexp"
	"strings"

	"github.com/starford/callnote/internal/compose"
)

var (
	labelRe = regexp.MustCompile(`^([A-Z][A-Z0-9 ]*?): ?(.*)$`)
	labels  = make(map[string]struct{})
)

func init() {
	for _, l := range compose.Labels() {
		labels[l] = struct{}{}
	}
}

// Line is one line of a note. Label is empty for lines that continue a
// multi-line value or carry no recognised label.
type Line struct {
	Label string
	Value string
	Raw   string
}

// Result holds the output of parsing a note.
type Result struct {
	Lines  []Line
	Fields map[string]string
	Title  string
}

// Field returns the value of the first line carrying label.
func (r *Result) Field(label string) string {
	return r.Fields[label]
}

// Parse splits note text into lines and attributes each to its label.
// Unlabelled lines extend the value of the preceding labelled line.
func Parse(text string) *Result {
	r := &Result{Fields: make(map[string]string)}
	if strings.TrimSpace(text) == "" {
		return r
	}

	current := ""
	for _, raw := range strings.Split(text, "\n") {
		l := parseLine(raw)
		r.Lines = append(r.Lines, l)

		switch {
		case l.Label != "":
			if _, dup := r.Fields[l.Label]; dup {
				current = ""
				continue
			}
			r.Fields[l.Label] = l.Value
			current = l.Label
		case current != "":
			r.Fields[current] += "\n" + raw
		}
	}
	r.Title = deriveTitle(r.Fields)
	return r
}

func parseLine(raw string) Line {
	if rest, ok := strings.CutPrefix(raw, compose.AgentTag+" |"); ok {
		return Line{Label: compose.AgentTag, Value: strings.TrimSpace(rest), Raw: raw}
	}
	if rest, ok := strings.CutPrefix(raw, compose.LabelTransferTo+" "); ok {
		return Line{Label: compose.LabelTransferTo, Value: rest, Raw: raw}
	}
	if m := labelRe.FindStringSubmatch(raw); m != nil {
		if _, known := labels[m[1]]; known {
			return Line{Label: m[1], Value: m[2], Raw: raw}
		}
	}
	return Line{Raw: raw}
}

// deriveTitle returns the customer name, otherwise the account number,
// otherwise the issue, otherwise empty string.
func deriveTitle(fields map[string]string) string {
	if name := fields[compose.LabelName]; name != "" {
		return firstLine(name)
	}
	if ban := fields[compose.LabelBAN]; ban != "" {
		return compose.LabelBAN + " " + firstLine(ban)
	}
	return firstLine(fields[compose.LabelIssue])
}

func firstLine(s string) string {
	s, _, _ = strings.Cut(s, "\n")
	return strings.TrimSpace(s)
}
