package compose

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/starford/callnote/internal/checklist"
	"github.com/starford/callnote/internal/form"
)

// WarnThreshold is the note length past which the agent is warned that the
// note will not fit the ticketing system's field.
const WarnThreshold = 995

var blankRunRe = regexp.MustCompile(`\n(?:[ \t]*\n){2,}`)

// Note is an assembled note with its length feedback.
type Note struct {
	Text      string            `json:"note"`
	CharCount int               `json:"charCount"`
	OverLimit bool              `json:"overLimit"`
	Checklist checklist.Answers `json:"checklist"`
}

// Publisher receives every note the Assembler generates.
type Publisher interface {
	PublishNote(n Note)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(n Note)

// PublishNote implements Publisher.
func (f PublisherFunc) PublishNote(n Note) { f(n) }

// Generate renders the full note for p.
func Generate(p form.Provider) string {
	return Render(p, sectionOrder...)
}

// Render concatenates the given sections, drops blank lines, collapses runs of
// blank lines left inside multi-line values, and trims the result.
func Render(p form.Provider, builders ...Builder) string {
	var lines []string
	for _, build := range builders {
		for _, l := range build(p) {
			if strings.TrimSpace(l) == "" {
				continue
			}
			lines = append(lines, l)
		}
	}
	text := strings.Join(lines, "\n")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// Count returns the length of text as the ticketing system counts it, in
// characters rather than bytes.
func Count(text string) int {
	return utf8.RuneCountInString(text)
}

// Assembler generates notes and publishes them with length feedback.
type Assembler struct {
	threshold int
	pub       Publisher
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithThreshold overrides WarnThreshold.
func WithThreshold(n int) AssemblerOption {
	return func(a *Assembler) {
		if n > 0 {
			a.threshold = n
		}
	}
}

// WithPublisher sets where generated notes are published.
func WithPublisher(p Publisher) AssemblerOption {
	return func(a *Assembler) {
		a.pub = p
	}
}

// NewAssembler returns an Assembler using WarnThreshold unless overridden.
func NewAssembler(opts ...AssemblerOption) *Assembler {
	a := &Assembler{threshold: WarnThreshold}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Threshold returns the configured warning threshold.
func (a *Assembler) Threshold() int { return a.threshold }

// Evaluate renders the note for p and derives the checklist without
// publishing.
func (a *Assembler) Evaluate(p form.Provider) Note {
	text := Generate(p)
	n := Note{
		Text:      text,
		CharCount: Count(text),
		Checklist: checklist.Derive(p),
	}
	n.OverLimit = n.CharCount > a.threshold
	return n
}

// Generate is Evaluate followed by publishing the result.
func (a *Assembler) Generate(p form.Provider) Note {
	n := a.Evaluate(p)
	if a.pub != nil {
		a.pub.PublishNote(n)
	}
	return n
}
