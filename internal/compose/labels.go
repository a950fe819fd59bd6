package compose

// Line labels. These are the ticketing system's vocabulary and are matched by
// downstream tooling, so they change only together with it.
const (
	AgentTag = "PFTS"

	LabelBAN        = "BAN"
	LabelCID        = "CID"
	LabelName       = "NAME"
	LabelCBR        = "CBR"
	LabelCaller     = "CALLER"
	LabelXID        = "XID"
	LabelVerifiedBy = "VERIFIED BY"
	LabelAddress    = "ADDRESS"
	LabelSkill      = "SKILL"

	LabelServiceOnAccount = "SERVICES ON ACCOUNT"
	LabelOutage           = "OUTAGE"
	LabelNetworkError     = "NETWORK ERROR"
	LabelSuspended        = "ACCOUNT SUSPENDED"
	LabelService          = "SERVICE"
	LabelIssue            = "ISSUE"
	LabelAffected         = "AFFECTED"
	LabelCXIssue          = "CX ISSUE"
	LabelPhysicalCheck    = "PHYSICAL CHECK"
	LabelNetworkStatus    = "NETWORK STATUS"
	LabelAdditionalInfo   = "ADDITIONAL INFO"

	LabelTSSteps = "TS STEPS"

	LabelAwaAlerts       = "AWA ALERTS"
	LabelSHSAlerts       = "SHS ALERTS"
	LabelDevices         = "DEVICES"
	LabelSpeedTest       = "SPEED TEST"
	LabelVerificationKey = "VERIFICATION KEY"
	LabelExtraSteps      = "EXTRA STEPS"
	LabelOtherSteps      = "OTHER STEPS"

	LabelResolved         = "RESOLVED"
	LabelCBR2             = "CBR2"
	LabelAOC              = "AOC"
	LabelDispatch         = "DISPATCH"
	LabelFollowUp         = "FOLLOW UP"
	LabelBOSRTicket       = "BOSR TICKET"
	LabelNCTicket         = "NC TICKET"
	LabelEscalationTicket = "ESCALATION TICKET"
	LabelTransferTo       = "TRANSFER TO"
	LabelCSROrder         = "CSR ORDER"
	LabelTicket           = "TICKET"
)

// affectedLabels maps a selected service to the label of its affected-target
// line. Services not listed use LabelAffected.
var affectedLabels = map[string]string{
	"Telus Email":    "TELUS EMAIL",
	"MyTelus":        "MYTELUS EMAIL",
	"HomePhone":      "AFFECTED PHONE NUMBER",
	"HomePhone VoIP": "AFFECTED PHONE NUMBER",
}

// AffectedLabel returns the affected-target label for service.
func AffectedLabel(service string) string {
	if l, ok := affectedLabels[service]; ok {
		return l
	}
	return LabelAffected
}

// SensitiveLabels are the labels of lines that identify the customer or the
// agent.
var SensitiveLabels = []string{
	AgentTag,
	LabelSkill,
	LabelBAN,
	LabelCID,
	LabelName,
	LabelCBR,
	LabelCaller,
	LabelVerifiedBy,
	LabelAddress,
	LabelXID,
}

// Labels returns every "LABEL: value" label the builders can emit, including
// the per-service affected labels. The agent tag and the transfer line use
// their own separators and are not included. Order is unspecified.
func Labels() []string {
	out := []string{
		LabelBAN, LabelCID, LabelName, LabelCBR, LabelCaller, LabelXID,
		LabelVerifiedBy, LabelAddress, LabelSkill,
		LabelServiceOnAccount, LabelOutage, LabelNetworkError, LabelSuspended,
		LabelService, LabelIssue, LabelAffected, LabelCXIssue,
		LabelPhysicalCheck, LabelNetworkStatus, LabelAdditionalInfo,
		LabelTSSteps,
		LabelAwaAlerts, LabelSHSAlerts, LabelDevices, LabelSpeedTest,
		LabelVerificationKey, LabelExtraSteps, LabelOtherSteps,
		LabelResolved, LabelCBR2, LabelAOC, LabelDispatch, LabelFollowUp,
		LabelBOSRTicket, LabelNCTicket, LabelEscalationTicket,
		LabelCSROrder, LabelTicket,
	}
	seen := make(map[string]struct{}, len(affectedLabels))
	for _, l := range affectedLabels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
