// Package form models the call form: field identifiers, typed field values,
// captured snapshots and the live field state the note is composed from.
package form

import "sort"

// FieldID is the logical identifier of a form field.
type FieldID string

// Identification.
const (
	AgentName    FieldID = "agentName"
	BAN          FieldID = "ban"
	CID          FieldID = "cid"
	CustomerName FieldID = "customerName"
	CBR          FieldID = "cbr"
	Caller       FieldID = "caller"
	XID          FieldID = "xid"
	VerifiedBy   FieldID = "verifiedBy"
	Address      FieldID = "address"
)

// SkillToggle is the skill mode switch. Snapshots store it as Skill.
const (
	SkillToggle FieldID = "skillToggle"
	Skill       FieldID = "skill"
)

// Diagnostics.
const (
	ServiceOnAccount   FieldID = "serviceOnAccount"
	Outage             FieldID = "outage"
	NetworkError       FieldID = "networkError"
	AccountSuspended   FieldID = "accountSuspended"
	Service            FieldID = "service"
	Workflow           FieldID = "workflow"
	AffectedValue      FieldID = "affectedValue"
	IssueDescription   FieldID = "issueDescription"
	PhysicalLights     FieldID = "physicalLights"
	PhysicalCables     FieldID = "physicalCables"
	PhysicalPower      FieldID = "physicalPower"
	PhysicalEquipment  FieldID = "physicalEquipment"
	NetworkErrorStatus FieldID = "networkErrorStatus"
	PacketLoss         FieldID = "packetLoss"
	AdditionalInfo     FieldID = "additionalInfo"
)

// TroubleshootingSteps is the free-text narrative.
const TroubleshootingSteps FieldID = "troubleshootingSteps"

// Secondary diagnostics.
const (
	AwaAlert           FieldID = "awaAlert"
	AwaAlert2Toggle    FieldID = "awaAlert2Toggle"
	AwaAlert2          FieldID = "awaAlert2"
	AwaAlert3          FieldID = "awaAlert3"
	DeviceCount        FieldID = "deviceCount"
	ExtenderCount      FieldID = "extenderCount"
	SpeedBeforeDown    FieldID = "speedBeforeDown"
	SpeedBeforeUp      FieldID = "speedBeforeUp"
	SpeedAfterDown     FieldID = "speedAfterDown"
	SpeedAfterUp       FieldID = "speedAfterUp"
	VerificationStatus FieldID = "verificationStatus"
	VerificationKey    FieldID = "verificationKey"
	ExtraSteps         FieldID = "extraSteps"
	ExtraStepsNotes    FieldID = "extraStepsNotes"
)

// Resolution.
const (
	Resolution       FieldID = "resolution"
	CBR2             FieldID = "cbr2"
	AOC              FieldID = "aoc"
	DispatchDate     FieldID = "dispatchDate"
	DispatchTime     FieldID = "dispatchTime"
	FollowUpDate     FieldID = "followUpDate"
	FollowUpTime     FieldID = "followUpTime"
	BOSRTicket       FieldID = "bosrTicket"
	NCTicket         FieldID = "ncTicket"
	EscalationTicket FieldID = "escalationTicket"
	TransferToggle   FieldID = "transferToggle"
	TransferTarget   FieldID = "transferTarget"
	CSROrder         FieldID = "csrOrder"
	TicketNumber     FieldID = "ticketNumber"
)

var kinds = map[FieldID]Kind{
	AgentName:    KindText,
	BAN:          KindText,
	CID:          KindText,
	CustomerName: KindText,
	CBR:          KindText,
	Caller:       KindChoice,
	XID:          KindText,
	VerifiedBy:   KindChoice,
	Address:      KindText,

	SkillToggle: KindBool,

	ServiceOnAccount:   KindChoice,
	Outage:             KindChoice,
	NetworkError:       KindChoice,
	AccountSuspended:   KindChoice,
	Service:            KindChoice,
	Workflow:           KindChoice,
	AffectedValue:      KindText,
	IssueDescription:   KindText,
	PhysicalLights:     KindChoice,
	PhysicalCables:     KindChoice,
	PhysicalPower:      KindChoice,
	PhysicalEquipment:  KindChoice,
	NetworkErrorStatus: KindText,
	PacketLoss:         KindText,
	AdditionalInfo:     KindText,

	TroubleshootingSteps: KindText,

	AwaAlert:           KindChoice,
	AwaAlert2Toggle:    KindBool,
	AwaAlert2:          KindChoice,
	AwaAlert3:          KindChoice,
	DeviceCount:        KindText,
	ExtenderCount:      KindText,
	SpeedBeforeDown:    KindText,
	SpeedBeforeUp:      KindText,
	SpeedAfterDown:     KindText,
	SpeedAfterUp:       KindText,
	VerificationStatus: KindChoice,
	VerificationKey:    KindText,
	ExtraSteps:         KindChoices,
	ExtraStepsNotes:    KindText,

	Resolution:       KindChoice,
	CBR2:             KindText,
	AOC:              KindChoice,
	DispatchDate:     KindText,
	DispatchTime:     KindChoice,
	FollowUpDate:     KindText,
	FollowUpTime:     KindChoice,
	BOSRTicket:       KindText,
	NCTicket:         KindText,
	EscalationTicket: KindText,
	TransferToggle:   KindBool,
	TransferTarget:   KindChoice,
	CSROrder:         KindText,
	TicketNumber:     KindText,
}

// KindOf returns the declared kind of id and whether id is a known field.
func KindOf(id FieldID) (Kind, bool) {
	k, ok := kinds[id]
	return k, ok
}

// Known returns every known field identifier in lexical order.
func Known() []FieldID {
	out := make([]FieldID, 0, len(kinds))
	for id := range kinds {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
