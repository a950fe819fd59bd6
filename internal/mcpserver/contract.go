package mcpserver

import (
	"fmt"
	"strings"

	"github.com/starford/callnote/internal/compose"
	"github.com/starford/callnote/internal/form"
	"github.com/starford/callnote/internal/split"
)

// noteFormat describes the call note that compose_note produces and the
// form data it expects.
const noteFormat = `# Call Note Format

A call note is plain text, one "LABEL: value" line per filled field, in
this order:

1. Identification: ` + "`PFTS | <agent name>`" + `, BAN, CID, NAME, CBR, CALLER,
   XID (consultation calls only), VERIFIED BY, ADDRESS.
2. Diagnostics: SERVICES ON ACCOUNT, OUTAGE, NETWORK ERROR, ACCOUNT SUSPENDED,
   SERVICE, ISSUE, the affected line, CX ISSUE, PHYSICAL CHECK,
   NETWORK STATUS, ADDITIONAL INFO.
3. Narrative: TS STEPS.
4. Secondary diagnostics: AWA ALERTS or SHS ALERTS, DEVICES, SPEED TEST,
   VERIFICATION KEY, EXTRA STEPS, OTHER STEPS.
5. Resolution: RESOLVED and the outcome details (CBR2, AOC, DISPATCH,
   FOLLOW UP, tickets, TRANSFER TO, CSR ORDER).

Empty fields produce no line. A note with no fields is ` + "`PFTS |`" + `.

## Length

The ticketing field holds %d characters. Longer notes are still produced and
flagged ` + "`overLimit`" + `. split_note breaks a long note into up to three parts of at
most %d characters each, every part starting with a ` + "`k/n`" + ` marker line.

## Identifying lines

extract_copilot removes these lines before a note leaves the workspace:
%s.

## Form data

Pass form data as an object keyed by field id. Text and choice fields take
strings, toggles take booleans, multi-selects take arrays of strings.

| Field | Kind |
|---|---|
`

// FormatContract returns the note format description served as a resource.
func FormatContract() string {
	var b strings.Builder
	fmt.Fprintf(&b, noteFormat,
		compose.WarnThreshold, split.DefaultBudget,
		strings.Join(compose.SensitiveLabels, ", "))

	fmt.Fprintf(&b, "| `%s` | %s or %s |\n", form.Skill, form.SkillNameFFH, form.SkillNameSHS)
	for _, id := range form.Known() {
		kind, _ := form.KindOf(id)
		fmt.Fprintf(&b, "| `%s` | %s |\n", id, kind)
	}
	return b.String()
}
