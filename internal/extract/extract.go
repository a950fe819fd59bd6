// Package extract builds the narrower texts agents copy out of a note: the
// issue and troubleshooting summary, and a note with customer and agent
// identifiers removed.
package extract

import (
	"fmt"
	"strings"

	"github.com/starford/callnote/internal/apperr"
	"github.com/starford/callnote/internal/compose"
	"github.com/starford/callnote/internal/form"
	"github.com/starford/callnote/internal/parser"
)

// DefaultCopyLimit is the longest text the resolution copy produces.
const DefaultCopyLimit = 999

// ResolutionCopy is the issue and troubleshooting summary.
type ResolutionCopy struct {
	Text string `json:"text"`
	// IssueOmitted is set when the issue line was dropped to fit the limit.
	IssueOmitted bool `json:"issueOmitted"`
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithCopyLimit overrides DefaultCopyLimit. Non-positive values are ignored.
func WithCopyLimit(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.limit = n
		}
	}
}

// Extractor produces copy texts.
type Extractor struct {
	limit     int
	sensitive map[string]struct{}
}

// New returns an Extractor using DefaultCopyLimit unless overridden.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		limit:     DefaultCopyLimit,
		sensitive: make(map[string]struct{}, len(compose.SensitiveLabels)),
	}
	for _, l := range compose.SensitiveLabels {
		e.sensitive[l] = struct{}{}
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Limit returns the copy limit.
func (e *Extractor) Limit() int { return e.limit }

// Resolution builds the "CX ISSUE" and "TS STEPS" lines. When both together
// exceed the copy limit only the troubleshooting line is returned. It fails
// with apperr.ErrNothingToCopy when neither field is set and with
// apperr.ErrOverLimit when nothing fits.
func (e *Extractor) Resolution(p form.Provider) (ResolutionCopy, error) {
	issue := form.Get(p, form.IssueDescription)
	steps := form.Get(p, form.TroubleshootingSteps)
	if issue == "" && steps == "" {
		return ResolutionCopy{}, fmt.Errorf("extract: resolution: %w", apperr.ErrNothingToCopy)
	}

	var lines []string
	if issue != "" {
		lines = append(lines, compose.LabelCXIssue+": "+issue)
	}
	stepsLine := ""
	if steps != "" {
		stepsLine = compose.LabelTSSteps + ": " + steps
		lines = append(lines, stepsLine)
	}

	text := strings.Join(lines, "\n")
	if compose.Count(text) <= e.limit {
		return ResolutionCopy{Text: text}, nil
	}
	if stepsLine != "" && issue != "" && compose.Count(stepsLine) <= e.limit {
		return ResolutionCopy{Text: stepsLine, IssueOmitted: true}, nil
	}
	return ResolutionCopy{}, fmt.Errorf("extract: resolution: %w (%d > %d)",
		apperr.ErrOverLimit, compose.Count(text), e.limit)
}

// Copilot returns noteText without the lines that identify the customer or
// the agent.
func (e *Extractor) Copilot(noteText string) (string, error) {
	if strings.TrimSpace(noteText) == "" {
		return "", fmt.Errorf("extract: copilot: %w", apperr.ErrNothingToCopy)
	}
	var kept []string
	for _, l := range parser.Parse(noteText).Lines {
		if _, drop := e.sensitive[l.Label]; drop {
			continue
		}
		kept = append(kept, l.Raw)
	}
	return strings.Join(kept, "\n"), nil
}
