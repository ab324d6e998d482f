package domain

import (
	"errors"
	"strings"
)

// Stage is the sales-pipeline status of an opportunity.
type Stage string

const (
	StageNew        Stage = "new"
	StageQualifying Stage = "qualifying"
	StageQualified  Stage = "qualified"
	StageQuoted     Stage = "quoted"
	StageClosed     Stage = "closed"
	StageLost       Stage = "lost"
)

// ErrInvalidTransition is returned when leaving a terminal stage.
var ErrInvalidTransition = errors.New("invalid stage transition")

var knownStages = map[Stage]struct{}{
	StageNew:        {},
	StageQualifying: {},
	StageQualified:  {},
	StageQuoted:     {},
	StageClosed:     {},
	StageLost:       {},
}

func ParseStage(raw string) (Stage, bool) {
	s := Stage(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := knownStages[s]
	return s, ok
}

// IsTerminal is true for closed and lost.
func (s Stage) IsTerminal() bool {
	return s == StageClosed || s == StageLost
}

// CanTransitionTo allows any move between open stages and into a terminal
// stage. Terminal stages only accept a no-op.
func (s Stage) CanTransitionTo(next Stage) bool {
	if _, ok := knownStages[next]; !ok {
		return false
	}
	if s.IsTerminal() {
		return s == next
	}
	return true
}
