// Package split partitions an over-long note into numbered parts that each fit
// the ticketing system's field, keeping note sections intact.
package split

import (
	"strconv"
	"strings"

	"github.com/starford/callnote/internal/compose"
	"github.com/starford/callnote/internal/form"
)

// DefaultBudget is the maximum length of one postable part.
const DefaultBudget = 995

// FullNoteLabel labels the single part of a note that needs no split.
const FullNoteLabel = "Full Note"

// Part is one postable chunk of a note.
type Part struct {
	Label   string `json:"label"`
	Content string `json:"content"`
}

// Strategy names the rule that produced a split.
type Strategy string

const (
	StrategyNone      Strategy = "none"
	StrategyStandard  Strategy = "standard"
	StrategyStrategic Strategy = "strategic"
	StrategyThreeWay  Strategy = "three-way"
)

// Groups are the section groups a split keeps whole.
type Groups struct {
	Head      string
	Narrative string
	Tail      string
}

// GroupsOf renders the section groups of p: identification and diagnostics,
// the narrative, then secondary diagnostics and resolution.
func GroupsOf(p form.Provider) Groups {
	return Groups{
		Head:      compose.Render(p, compose.Identification, compose.Diagnostics),
		Narrative: compose.Render(p, compose.Narrative),
		Tail:      compose.Render(p, compose.SecondaryDiagnostics, compose.Resolution),
	}
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithBudget sets the per-part budget. Non-positive values are ignored.
func WithBudget(n int) Option {
	return func(s *Splitter) {
		if n > 0 {
			s.budget = n
		}
	}
}

// Splitter applies the split strategies in order.
type Splitter struct {
	budget int
}

// New returns a Splitter with DefaultBudget unless overridden.
func New(opts ...Option) *Splitter {
	s := &Splitter{budget: DefaultBudget}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Budget returns the per-part budget.
func (s *Splitter) Budget() int { return s.budget }

// Result is the outcome of a split.
type Result struct {
	Strategy Strategy `json:"strategy"`
	Parts    []Part   `json:"parts"`
}

// Split returns the parts for noteText, regrouping sections from p.
func (s *Splitter) Split(noteText string, p form.Provider) []Part {
	return s.Plan(noteText, p).Parts
}

// Plan is Split that also reports which strategy was taken.
//
// A note within budget is returned whole. Otherwise the standard split
// (head | narrative+tail) is tried, then the strategic split
// (head+tail | narrative), and finally a three-way split. A two-way split is
// only taken when every part, page marker included, fits the budget. A
// single group larger than the budget cannot be split further and is
// returned over budget.
func (s *Splitter) Plan(noteText string, p form.Provider) Result {
	if compose.Count(noteText) <= s.budget {
		return Result{
			Strategy: StrategyNone,
			Parts:    []Part{{Label: FullNoteLabel, Content: noteText}},
		}
	}

	g := GroupsOf(p)

	standard := []string{g.Head, joinGroups(g.Narrative, g.Tail)}
	if s.fits(standard) {
		return Result{Strategy: StrategyStandard, Parts: compile(standard)}
	}

	strategic := []string{joinGroups(g.Head, g.Tail), g.Narrative}
	if s.fits(strategic) {
		return Result{Strategy: StrategyStrategic, Parts: compile(strategic)}
	}

	return Result{
		Strategy: StrategyThreeWay,
		Parts:    compile([]string{g.Head, g.Narrative, g.Tail}),
	}
}

func (s *Splitter) fits(groups []string) bool {
	for i, text := range groups {
		if compose.Count(withMarker(i+1, len(groups), text)) > s.budget {
			return false
		}
	}
	return true
}

// compile numbers the groups and drops empty ones. Markers keep their
// position in the strategy even when a neighbour is dropped.
func compile(groups []string) []Part {
	parts := make([]Part, 0, len(groups))
	for i, text := range groups {
		if text == "" {
			continue
		}
		parts = append(parts, Part{
			Label:   "Part " + strconv.Itoa(i+1),
			Content: withMarker(i+1, len(groups), text),
		})
	}
	return parts
}

func withMarker(k, n int, text string) string {
	return strconv.Itoa(k) + "/" + strconv.Itoa(n) + "\n" + text
}

func joinGroups(a, b string) string {
	return strings.TrimSpace(a + "\n" + b)
}
