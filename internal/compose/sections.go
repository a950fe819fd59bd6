// Package compose renders form state into the plain-text call note.
package compose

import (
	"strings"
	"time"

	"github.com/starford/callnote/internal/form"
)

// Section is an ordered list of note lines. Blank entries are absent lines.
type Section []string

// Builder produces one section of the note.
type Builder func(p form.Provider) Section

// sectionOrder is the order sections appear in the note.
var sectionOrder = []Builder{
	Identification,
	Diagnostics,
	Narrative,
	SecondaryDiagnostics,
	Resolution,
}

// line formats "LABEL: value", or "" when value is empty.
func line(label, value string) string {
	if value == "" {
		return ""
	}
	return label + ": " + value
}

// field formats the line for a single field.
func field(p form.Provider, label string, id form.FieldID) string {
	return line(label, form.Get(p, id))
}

// joinPresent joins the non-empty values with ", ".
func joinPresent(values ...string) string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, ", ")
}

func triLine(p form.Provider, label string, id form.FieldID) string {
	switch form.Tri(p, id) {
	case form.TriYes:
		return label + ": Yes"
	case form.TriNo:
		return label + ": No"
	}
	return ""
}

// Identification renders the agent tag and customer identifiers.
func Identification(p form.Provider) Section {
	s := Section{
		AgentTag + " | " + form.Get(p, form.AgentName),
		field(p, LabelBAN, form.BAN),
		field(p, LabelCID, form.CID),
		field(p, LabelName, form.CustomerName),
		field(p, LabelCBR, form.CBR),
		field(p, LabelCaller, form.Caller),
	}
	if form.Get(p, form.Caller) == form.CallerConsultation {
		s = append(s, field(p, LabelXID, form.XID))
	}
	return append(s,
		field(p, LabelVerifiedBy, form.VerifiedBy),
		field(p, LabelAddress, form.Address),
	)
}

// Diagnostics renders the account state and the reported issue.
func Diagnostics(p form.Provider) Section {
	service := form.Get(p, form.Service)
	return Section{
		field(p, LabelServiceOnAccount, form.ServiceOnAccount),
		triLine(p, LabelOutage, form.Outage),
		triLine(p, LabelNetworkError, form.NetworkError),
		triLine(p, LabelSuspended, form.AccountSuspended),
		line(LabelService, service),
		field(p, LabelIssue, form.Workflow),
		field(p, AffectedLabel(service), form.AffectedValue),
		field(p, LabelCXIssue, form.IssueDescription),
		line(LabelPhysicalCheck, joinPresent(
			form.Get(p, form.PhysicalLights),
			form.Get(p, form.PhysicalCables),
			form.Get(p, form.PhysicalPower),
			form.Get(p, form.PhysicalEquipment),
		)),
		line(LabelNetworkStatus, joinPresent(
			form.Get(p, form.NetworkErrorStatus),
			form.Get(p, form.PacketLoss),
		)),
		field(p, LabelAdditionalInfo, form.AdditionalInfo),
	}
}

// Narrative renders the troubleshooting steps.
func Narrative(p form.Provider) Section {
	return Section{field(p, LabelTSSteps, form.TroubleshootingSteps)}
}

// SecondaryDiagnostics renders alerts, device and speed checks, the
// verification key and extra steps.
func SecondaryDiagnostics(p form.Provider) Section {
	mode := form.Mode(p)
	var s Section

	if primary := form.Get(p, form.AwaAlert); primary != "" {
		second := ""
		if form.Flag(p, form.AwaAlert2Toggle) {
			second = form.Get(p, form.AwaAlert2)
		}
		label := LabelAwaAlerts
		if mode == form.SkillSHS {
			label = LabelSHSAlerts
		}
		s = append(s, line(label, joinPresent(primary, second, form.Get(p, form.AwaAlert3))))
	}

	if mode != form.SkillSHS {
		s = append(s,
			line(LabelDevices, devices(p)),
			line(LabelSpeedTest, joinPresent(
				speedHalf("BEFORE", form.Get(p, form.SpeedBeforeDown), form.Get(p, form.SpeedBeforeUp)),
				speedHalf("AFTER", form.Get(p, form.SpeedAfterDown), form.Get(p, form.SpeedAfterUp)),
			)),
		)
	}

	if status := form.Get(p, form.VerificationStatus); status != "" {
		key := ""
		if status == form.VerificationSent {
			key = form.Get(p, form.VerificationKey)
		}
		s = append(s, line(LabelVerificationKey, joinPresent(status, key)))
	}

	return append(s,
		field(p, LabelExtraSteps, form.ExtraSteps),
		field(p, LabelOtherSteps, form.ExtraStepsNotes),
	)
}

func devices(p form.Provider) string {
	connected := form.Get(p, form.DeviceCount)
	if connected != "" {
		connected += " CONNECTED"
	}
	extenders := form.Get(p, form.ExtenderCount)
	if extenders != "" {
		extenders += " EXTENDERS"
	}
	return joinPresent(connected, extenders)
}

// speedHalf renders "BEFORE 300/50". A missing measurement shows as "-".
func speedHalf(prefix, down, up string) string {
	if down == "" && up == "" {
		return ""
	}
	if down == "" {
		down = "-"
	}
	if up == "" {
		up = "-"
	}
	return prefix + " " + down + "/" + up
}

// Resolution renders the outcome, its follow-on details, transfer and
// order/ticket references.
func Resolution(p form.Provider) Section {
	var s Section
	value := form.Get(p, form.Resolution)
	if value != "" {
		s = append(s, LabelResolved+": "+value)

		switch form.ParseOutcome(value) {
		case form.OutcomeTechBooked:
			s = append(s,
				field(p, LabelCBR2, form.CBR2),
				field(p, LabelAOC, form.AOC),
				line(LabelDispatch, appointment(form.Get(p, form.DispatchDate), form.Get(p, form.DispatchTime))),
			)
		case form.OutcomeFollowUp, form.OutcomeFollowUpCallback:
			s = append(s, line(LabelFollowUp, appointment(form.Get(p, form.FollowUpDate), form.Get(p, form.FollowUpTime))))
		case form.OutcomeBOSRCreated:
			s = append(s, field(p, LabelBOSRTicket, form.BOSRTicket))
		case form.OutcomeNCTicketCreated:
			s = append(s, field(p, LabelNCTicket, form.NCTicket))
		case form.OutcomeEscalated:
			s = append(s, field(p, LabelEscalationTicket, form.EscalationTicket))
		case form.OutcomeNone, form.OutcomeOther, form.OutcomeResolved, form.OutcomeNotResolved:
		}
	}

	if target := form.Get(p, form.TransferTarget); form.Flag(p, form.TransferToggle) && target != "" {
		s = append(s, LabelTransferTo+" "+target)
	}
	return append(s,
		field(p, LabelCSROrder, form.CSROrder),
		field(p, LabelTicket, form.TicketNumber),
	)
}

// appointment formats a date and slot as "Tue Mar 5, 8am - 9am". It returns ""
// unless both are present. An unparseable date is used verbatim.
func appointment(date, slot string) string {
	if date == "" || slot == "" {
		return ""
	}
	return FormatDate(date) + ", " + slot
}

// FormatDate renders a YYYY-MM-DD date as "Mon Jan 2" with English names and
// no day padding. Other inputs are returned unchanged.
func FormatDate(date string) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return t.Format("Mon Jan 2")
}
