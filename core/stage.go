package core

import "strings"

// Stage identifies one of the host's lifecycle callbacks. The host invokes
// Begin once, Process once per input unit, End once, and Stop at most once at
// any point to request cancellation.
type Stage int

const (
	// StageBegin runs once before the first input unit.
	StageBegin Stage = iota
	// StageProcess runs once per input unit.
	StageProcess
	// StageEnd runs once after the last input unit.
	StageEnd
	// StageStop signals that the host wants the current work cancelled.
	StageStop
)

// String returns the stage name used in logs and metric labels.
func (s Stage) String() string {
	switch s {
	case StageBegin:
		return "begin"
	case StageProcess:
		return "process"
	case StageEnd:
		return "end"
	case StageStop:
		return "stop"
	default:
		return "unknown"
	}
}

// AsyncStages lists the stages that may carry asynchronous user logic.
var AsyncStages = []Stage{StageBegin, StageProcess, StageEnd}

// StageSet is a small bit set of stages.
type StageSet uint8

// NewStageSet returns a set containing the given stages.
func NewStageSet(stages ...Stage) StageSet {
	var s StageSet
	for _, st := range stages {
		s = s.Add(st)
	}
	return s
}

// Add returns a copy of the set including st.
func (s StageSet) Add(st Stage) StageSet {
	if st < StageBegin || st > StageStop {
		return s
	}
	return s | 1<<uint(st)
}

// Has reports whether st is part of the set.
func (s StageSet) Has(st Stage) bool {
	if st < StageBegin || st > StageStop {
		return false
	}
	return s&(1<<uint(st)) != 0
}

// Stages returns the members in lifecycle order.
func (s StageSet) Stages() []Stage {
	out := make([]Stage, 0, 4)
	for st := StageBegin; st <= StageStop; st++ {
		if s.Has(st) {
			out = append(out, st)
		}
	}
	return out
}

// String renders the set as "{begin,process}".
func (s StageSet) String() string {
	names := make([]string, 0, 4)
	for _, st := range s.Stages() {
		names = append(names, st.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}
