// Package checklist derives the quality-checklist answers that follow
// mechanically from the form.
package checklist

import (
	"regexp"

	"github.com/starford/callnote/internal/form"
)

// Answer is a checklist response.
type Answer string

const (
	Yes           Answer = "yes"
	No            Answer = "no"
	NotApplicable Answer = "n/a"
)

func yesNo(b bool) Answer {
	if b {
		return Yes
	}
	return No
}

func yesNA(b bool) Answer {
	if b {
		return Yes
	}
	return NotApplicable
}

// rebootRe matches the reset vocabulary agents use in the narrative: FR and
// HR as standalone abbreviations, or the spelled-out actions.
var rebootRe = regexp.MustCompile(`(?i)\b(?:fr|hr)\b|reboot|factory reset|hard reset`)

// Answers holds every derived checklist answer.
type Answers struct {
	CallbackNumber     Answer `json:"callbackNumber"`
	ProbingQuestions   Answer `json:"probingQuestions"`
	CorrectWorkflow    Answer `json:"correctWorkflow"`
	AdvancedWifi       Answer `json:"advancedWifi"`
	VerificationKey    Answer `json:"verificationKey"`
	Reboot             Answer `json:"reboot"`
	Swap               Answer `json:"swap"`
	CallbackScheduled  Answer `json:"callbackScheduled"`
	AllServicesChecked Answer `json:"allServicesChecked"`
	GoSendUsed         Answer `json:"goSendUsed"`
}

// Derive evaluates every rule against the current field values.
func Derive(p form.Provider) Answers {
	issueSelected := form.Present(p, form.Workflow)
	advancedWifi := form.Mode(p) == form.SkillFFH && form.Present(p, form.AwaAlert)
	keySent := form.Get(p, form.VerificationStatus) == form.VerificationSent &&
		form.Present(p, form.VerificationKey)
	callback := form.ParseOutcome(form.Get(p, form.Resolution)) == form.OutcomeFollowUpCallback

	return Answers{
		CallbackNumber:     yesNo(form.Present(p, form.CBR)),
		ProbingQuestions:   yesNo(issueSelected),
		CorrectWorkflow:    yesNo(issueSelected),
		AdvancedWifi:       yesNo(advancedWifi),
		VerificationKey:    yesNo(keySent),
		Reboot:             yesNA(rebootRe.MatchString(form.Get(p, form.TroubleshootingSteps))),
		Swap:               yesNA(form.Present(p, form.CSROrder)),
		CallbackScheduled:  yesNA(callback),
		AllServicesChecked: yesNo(form.Get(p, form.ServiceOnAccount) == form.ServiceActive),
		GoSendUsed:         yesNo(form.Present(p, form.ExtraSteps)),
	}
}
