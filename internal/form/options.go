package form

// Option values the note and checklist branch on.
const (
	CallerConsultation = "Consultation"
	VerificationSent   = "Verified"
	ServiceActive      = "Active"
)

// Outcome is the resolution reached on the call.
type Outcome int

const (
	OutcomeNone Outcome = iota
	// OutcomeOther is a non-empty value outside the known set.
	OutcomeOther
	OutcomeResolved
	OutcomeNotResolved
	OutcomeTechBooked
	OutcomeFollowUp
	OutcomeFollowUpCallback
	OutcomeBOSRCreated
	OutcomeNCTicketCreated
	OutcomeEscalated
)

// outcomeNames holds the display value of each known outcome, as offered by
// the form's resolution select.
var outcomeNames = map[Outcome]string{
	OutcomeResolved:         "Yes",
	OutcomeNotResolved:      "No",
	OutcomeTechBooked:       "No | Tech Booked",
	OutcomeFollowUp:         "No | Follow Up Required",
	OutcomeFollowUpCallback: "No | Follow Up Required | Set Callback",
	OutcomeBOSRCreated:      "No | BOSR Created",
	OutcomeNCTicketCreated:  "No | NC Ticket Created",
	OutcomeEscalated:        "No | Escalate to Manager",
}

var outcomeByName = func() map[string]Outcome {
	m := make(map[string]Outcome, len(outcomeNames))
	for o, name := range outcomeNames {
		m[name] = o
	}
	return m
}()

// ParseOutcome maps a resolution value to its Outcome.
func ParseOutcome(s string) Outcome {
	if s == "" {
		return OutcomeNone
	}
	if o, ok := outcomeByName[s]; ok {
		return o
	}
	return OutcomeOther
}

// String returns the display value, or "" for OutcomeNone and OutcomeOther.
func (o Outcome) String() string {
	return outcomeNames[o]
}

// Outcomes returns the display values of every known outcome.
func Outcomes() []string {
	order := []Outcome{
		OutcomeResolved,
		OutcomeNotResolved,
		OutcomeTechBooked,
		OutcomeFollowUp,
		OutcomeFollowUpCallback,
		OutcomeBOSRCreated,
		OutcomeNCTicketCreated,
		OutcomeEscalated,
	}
	out := make([]string, len(order))
	for i, o := range order {
		out[i] = outcomeNames[o]
	}
	return out
}
