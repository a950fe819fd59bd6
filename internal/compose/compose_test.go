package compose

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/callnote/internal/checklist"
	"github.com/starford/callnote/internal/form"
)

func present(s Section) []string {
	var out []string
	for _, l := range s {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

func TestGenerate_EmptyForm(t *testing.T) {
	assert.Equal(t, "PFTS |", Generate(form.Snapshot{}))
	assert.Equal(t, "PFTS |", Generate(form.NewState()))
	assert.Equal(t, "PFTS |", Generate(nil))
}

func TestIdentification(t *testing.T) {
	snap := form.Snapshot{
		"agentName":    "Jordan",
		"ban":          "123",
		"cid":          "456",
		"customerName": "Sam Lee",
		"cbr":          "6045550000",
		"caller":       "Account Holder",
		"xid":          "X9",
		"verifiedBy":   "PIN",
		"address":      "1 Main St",
	}
	assert.Equal(t, []string{
		"PFTS | Jordan",
		"BAN: 123",
		"CID: 456",
		"NAME: Sam Lee",
		"CBR: 6045550000",
		"CALLER: Account Holder",
		"VERIFIED BY: PIN",
		"ADDRESS: 1 Main St",
	}, present(Identification(snap)), "XID only follows a consultation caller")

	snap["caller"] = "Consultation"
	assert.Equal(t, []string{
		"PFTS | Jordan",
		"BAN: 123",
		"CID: 456",
		"NAME: Sam Lee",
		"CBR: 6045550000",
		"CALLER: Consultation",
		"XID: X9",
		"VERIFIED BY: PIN",
		"ADDRESS: 1 Main St",
	}, present(Identification(snap)))

	delete(snap, "xid")
	assert.NotContains(t, present(Identification(snap)), "XID: ")
}

func TestDiagnostics_FullOrder(t *testing.T) {
	snap := form.Snapshot{
		"serviceOnAccount":   "Active",
		"outage":             "no",
		"networkError":       "yes",
		"accountSuspended":   "no",
		"service":            "Internet",
		"workflow":           "Slow Speeds",
		"affectedValue":      "Living room",
		"issueDescription":   "speeds drop at night",
		"physicalLights":     "Lights OK",
		"physicalPower":      "Power cycled",
		"networkErrorStatus": "Error 12",
		"packetLoss":         "3%",
		"additionalInfo":     "second call",
	}
	assert.Equal(t, []string{
		"SERVICES ON ACCOUNT: Active",
		"OUTAGE: No",
		"NETWORK ERROR: Yes",
		"ACCOUNT SUSPENDED: No",
		"SERVICE: Internet",
		"ISSUE: Slow Speeds",
		"AFFECTED: Living room",
		"CX ISSUE: speeds drop at night",
		"PHYSICAL CHECK: Lights OK, Power cycled",
		"NETWORK STATUS: Error 12, 3%",
		"ADDITIONAL INFO: second call",
	}, present(Diagnostics(snap)))
}

func TestDiagnostics_TriStateOmittedWhenUnset(t *testing.T) {
	lines := present(Diagnostics(form.Snapshot{"outage": "unknown", "networkError": ""}))
	assert.Empty(t, lines)
}

func TestDiagnostics_TriStateNeedsExactValue(t *testing.T) {
	snap := form.Snapshot{"outage": "YES", "networkError": " no ", "accountSuspended": "No"}
	assert.Empty(t, present(Diagnostics(snap)))
	assert.Equal(t, "PFTS |", Generate(snap))
}

func TestDiagnostics_AffectedLabelByService(t *testing.T) {
	cases := map[string]string{
		"Telus Email":    "TELUS EMAIL: x",
		"MyTelus":        "MYTELUS EMAIL: x",
		"HomePhone":      "AFFECTED PHONE NUMBER: x",
		"HomePhone VoIP": "AFFECTED PHONE NUMBER: x",
		"Optik TV":       "AFFECTED: x",
		"":               "AFFECTED: x",
	}
	for service, want := range cases {
		lines := present(Diagnostics(form.Snapshot{"service": service, "affectedValue": "x"}))
		assert.Contains(t, lines, want, "service %q", service)
	}

	lines := present(Diagnostics(form.Snapshot{"service": "Telus Email"}))
	assert.Equal(t, []string{"SERVICE: Telus Email"}, lines, "affected line needs a value")
}

func TestDiagnostics_NetworkStatusSingleHalf(t *testing.T) {
	lines := present(Diagnostics(form.Snapshot{"packetLoss": "10%"}))
	assert.Equal(t, []string{"NETWORK STATUS: 10%"}, lines)
}

func TestNarrative(t *testing.T) {
	assert.Empty(t, present(Narrative(form.Snapshot{})))
	assert.Equal(t, []string{"TS STEPS: reset modem"}, present(Narrative(form.Snapshot{"troubleshootingSteps": "reset modem"})))
}

func TestSecondaryDiagnostics_FFH(t *testing.T) {
	snap := form.Snapshot{
		"skill":              "FFH",
		"awaAlert":           "Weak signal",
		"awaAlert2Toggle":    true,
		"awaAlert2":          "Interference",
		"awaAlert3":          "Band steering",
		"deviceCount":        "12",
		"extenderCount":      "2",
		"speedBeforeDown":    "30",
		"speedBeforeUp":      "5",
		"speedAfterDown":     "300",
		"verificationStatus": "Verified",
		"verificationKey":    "KEY-7",
		"extraSteps":         []any{"GO", "SEND"},
		"extraStepsNotes":    "emailed guide",
	}
	assert.Equal(t, []string{
		"AWA ALERTS: Weak signal, Interference, Band steering",
		"DEVICES: 12 CONNECTED, 2 EXTENDERS",
		"SPEED TEST: BEFORE 30/5, AFTER 300/-",
		"VERIFICATION KEY: Verified, KEY-7",
		"EXTRA STEPS: GO, SEND",
		"OTHER STEPS: emailed guide",
	}, present(SecondaryDiagnostics(snap)))
}

func TestSecondaryDiagnostics_SecondAlertGatedByToggle(t *testing.T) {
	snap := form.Snapshot{"awaAlert": "A", "awaAlert2": "B", "awaAlert3": "C"}
	assert.Equal(t, []string{"AWA ALERTS: A, C"}, present(SecondaryDiagnostics(snap)))

	snap["awaAlert2Toggle"] = true
	assert.Equal(t, []string{"AWA ALERTS: A, B, C"}, present(SecondaryDiagnostics(snap)))

	delete(snap, "awaAlert")
	assert.Empty(t, present(SecondaryDiagnostics(snap)), "secondary alerts need a primary")
}

func TestSecondaryDiagnostics_SHSSkipsWifiBlock(t *testing.T) {
	snap := form.Snapshot{
		"skill":           "SHS",
		"awaAlert":        "Sensor offline",
		"deviceCount":     "12",
		"speedBeforeDown": "30",
	}
	assert.Equal(t, []string{"SHS ALERTS: Sensor offline"}, present(SecondaryDiagnostics(snap)))
}

func TestSecondaryDiagnostics_SpeedHalves(t *testing.T) {
	lines := present(SecondaryDiagnostics(form.Snapshot{"speedAfterUp": "20"}))
	assert.Equal(t, []string{"SPEED TEST: AFTER -/20"}, lines)
}

func TestSecondaryDiagnostics_VerificationKeyOnlyWhenVerified(t *testing.T) {
	lines := present(SecondaryDiagnostics(form.Snapshot{"verificationStatus": "Not Verified", "verificationKey": "K"}))
	assert.Equal(t, []string{"VERIFICATION KEY: Not Verified"}, lines)
}

func TestResolution_TechBooked(t *testing.T) {
	snap := form.Snapshot{
		"resolution":   "No | Tech Booked",
		"cbr2":         "12345",
		"aoc":          "Yes",
		"dispatchDate": "2024-03-05",
		"dispatchTime": "8am - 9am",
	}
	assert.Equal(t, []string{
		"RESOLVED: No | Tech Booked",
		"CBR2: 12345",
		"AOC: Yes",
		"DISPATCH: Tue Mar 5, 8am - 9am",
	}, present(Resolution(snap)))

	delete(snap, "dispatchTime")
	assert.NotContains(t, strings.Join(present(Resolution(snap)), "\n"), "DISPATCH")
}

func TestResolution_FollowUpVariants(t *testing.T) {
	for _, outcome := range []string{"No | Follow Up Required", "No | Follow Up Required | Set Callback"} {
		snap := form.Snapshot{
			"resolution":   outcome,
			"followUpDate": "2024-12-25",
			"followUpTime": "1pm - 3pm",
			"cbr2":         "ignored",
		}
		assert.Equal(t, []string{
			"RESOLVED: " + outcome,
			"FOLLOW UP: Wed Dec 25, 1pm - 3pm",
		}, present(Resolution(snap)))
	}
}

func TestResolution_TicketOutcomes(t *testing.T) {
	cases := []struct {
		outcome string
		field   string
		want    string
	}{
		{"No | BOSR Created", "bosrTicket", "BOSR TICKET: B1"},
		{"No | NC Ticket Created", "ncTicket", "NC TICKET: B1"},
		{"No | Escalate to Manager", "escalationTicket", "ESCALATION TICKET: B1"},
	}
	for _, tc := range cases {
		lines := present(Resolution(form.Snapshot{"resolution": tc.outcome, tc.field: "B1"}))
		assert.Equal(t, []string{"RESOLVED: " + tc.outcome, tc.want}, lines)
	}
}

func TestResolution_UnknownOutcomeAndTrailers(t *testing.T) {
	snap := form.Snapshot{
		"resolution":     "Something else",
		"bosrTicket":     "B1",
		"transferToggle": true,
		"transferTarget": "Tier 2",
		"csrOrder":       "ORD-1",
		"ticketNumber":   "T-1",
	}
	assert.Equal(t, []string{
		"RESOLVED: Something else",
		"TRANSFER TO Tier 2",
		"CSR ORDER: ORD-1",
		"TICKET: T-1",
	}, present(Resolution(snap)))

	snap["transferToggle"] = false
	assert.NotContains(t, present(Resolution(snap)), "TRANSFER TO Tier 2")

	delete(snap, "resolution")
	assert.Equal(t, []string{"CSR ORDER: ORD-1", "TICKET: T-1"}, present(Resolution(snap)))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Tue Mar 5", FormatDate("2024-03-05"))
	assert.Equal(t, "Fri Nov 15", FormatDate("2024-11-15"))
	assert.Equal(t, "next week", FormatDate("next week"))
}

func TestGenerate_SectionOrderAndBlankLines(t *testing.T) {
	snap := form.Snapshot{
		"agentName":            "Jordan",
		"ban":                  "123",
		"service":              "Internet",
		"troubleshootingSteps": "step one\n\n\n\nstep two\n \n\t\nstep three",
		"csrOrder":             "ORD-1",
	}
	want := "PFTS | Jordan\n" +
		"BAN: 123\n" +
		"SERVICE: Internet\n" +
		"TS STEPS: step one\n\nstep two\n\nstep three\n" +
		"CSR ORDER: ORD-1"
	assert.Equal(t, want, Generate(snap))
}

func TestGenerate_SameForLiveStateAndSnapshot(t *testing.T) {
	s := form.NewState()
	require.NoError(t, s.Set(form.AgentName, form.Text("Jordan")))
	require.NoError(t, s.Set(form.Service, form.Choice("MyTelus")))
	require.NoError(t, s.Set(form.AffectedValue, form.Text("me@example.com")))
	require.NoError(t, s.Set(form.Resolution, form.Choice("No | Tech Booked")))
	require.NoError(t, s.Set(form.DispatchDate, form.Text("2024-03-05")))
	require.NoError(t, s.Set(form.DispatchTime, form.Choice("8am - 9am")))

	assert.Equal(t, Generate(s), Generate(s.Snapshot()))
	assert.Contains(t, Generate(s), "MYTELUS EMAIL: me@example.com")
}

type recorder struct{ notes []Note }

func (r *recorder) PublishNote(n Note) { r.notes = append(r.notes, n) }

func TestAssembler_PublishesWithLengthFeedback(t *testing.T) {
	rec := &recorder{}
	a := NewAssembler(WithPublisher(rec), WithThreshold(20))

	n := a.Generate(form.Snapshot{"agentName": "J"})
	assert.Equal(t, "PFTS | J", n.Text)
	assert.Equal(t, 8, n.CharCount)
	assert.False(t, n.OverLimit)
	assert.Equal(t, checklist.No, n.Checklist.CallbackNumber)

	n = a.Generate(form.Snapshot{"agentName": "J", "ban": "1234567890123"})
	assert.True(t, n.OverLimit)
	require.Len(t, rec.notes, 2)
	assert.Equal(t, n, rec.notes[1])
}

func TestAssembler_EvaluateDoesNotPublish(t *testing.T) {
	rec := &recorder{}
	a := NewAssembler(WithPublisher(rec))

	n := a.Evaluate(form.Snapshot{"agentName": "J"})
	assert.Equal(t, "PFTS | J", n.Text)
	assert.Empty(t, rec.notes)
}

func TestAssembler_Defaults(t *testing.T) {
	a := NewAssembler(WithThreshold(0))
	assert.Equal(t, WarnThreshold, a.Threshold())
	// No publisher configured is fine.
	_ = a.Generate(form.Empty)
}

func TestCount_CountsCharacters(t *testing.T) {
	assert.Equal(t, 5, Count("héllo"))
	// Astral characters count once each, not as two UTF-16 units.
	assert.Equal(t, 3, Count("ok👍"))
}

func TestAssembler_ThresholdCountsCodePoints(t *testing.T) {
	a := NewAssembler(WithThreshold(12))
	// "PFTS | " is 7 characters; five emoji bring the note to exactly 12.
	n := a.Evaluate(form.Snapshot{"agentName": strings.Repeat("👍", 5)})
	assert.Equal(t, 12, n.CharCount)
	assert.False(t, n.OverLimit)

	n = a.Evaluate(form.Snapshot{"agentName": strings.Repeat("👍", 6)})
	assert.True(t, n.OverLimit)
}

func TestAffectedLabel(t *testing.T) {
	assert.Equal(t, "AFFECTED", AffectedLabel("Optik TV"))
	assert.Equal(t, "TELUS EMAIL", AffectedLabel("Telus Email"))
}
