package core

import "time"

// Host is the strictly single-threaded API exposed by the hosting
// environment. Every method must be called from the host goroutine while a
// stage is in progress; implementations are free to assume they are never
// called concurrently.
//
// A method returning an error that matches ErrHostHalted tells the caller the
// host will accept no further output for the current run.
type Host interface {
	// WriteObject emits an output record. When enumerate is true and obj is a
	// slice, the host emits each element separately.
	WriteObject(obj any, enumerate bool) error
	// WriteError emits a non-terminating error record.
	WriteError(rec ErrorRecord) error
	// WriteWarning emits a warning message.
	WriteWarning(msg string) error
	// WriteVerbose emits a verbose message.
	WriteVerbose(msg string) error
	// WriteDebug emits a debug message.
	WriteDebug(msg string) error
	// WriteInformation emits an information record.
	WriteInformation(rec InformationRecord) error
	// WriteProgress reports progress of a (possibly nested) activity.
	WriteProgress(rec ProgressRecord) error
	// ShouldProcess asks the host for confirmation before acting on target.
	ShouldProcess(target, action string) (ShouldProcessResult, error)
	// ShouldContinue prompts the user. state carries the "yes to all" and
	// "no to all" answers across calls and is updated in place.
	ShouldContinue(query, caption string, state *ShouldContinueState) (ShouldContinueResult, error)
}

// ErrorRecord describes a non-terminating error emitted through the host.
type ErrorRecord struct {
	Err      error
	ID       string
	Category string
	Target   any
}

// ProgressRecord describes progress of one activity. Activities nest through
// ParentActivityID; a negative parent means top level.
type ProgressRecord struct {
	ActivityID       int
	ParentActivityID int
	Activity         string
	Status           string
	PercentComplete  int
	Completed        bool
}

// NewProgressRecord returns a top level, in-progress record.
func NewProgressRecord(activityID int, activity, status string) ProgressRecord {
	return ProgressRecord{
		ActivityID:       activityID,
		ParentActivityID: -1,
		Activity:         activity,
		Status:           status,
		PercentComplete:  -1,
	}
}

// InformationRecord carries structured informational output.
type InformationRecord struct {
	MessageData   any
	Tags          []string
	Source        string
	TimeGenerated time.Time
}

// ShouldProcessReason explains a ShouldProcess answer.
type ShouldProcessReason int

const (
	// ShouldProcessReasonNone means the answer came from the user or policy.
	ShouldProcessReasonNone ShouldProcessReason = iota
	// ShouldProcessReasonWhatIf means the host is in what-if mode.
	ShouldProcessReasonWhatIf
)

// ShouldProcessResult is the answer to a ShouldProcess request.
type ShouldProcessResult struct {
	Result bool
	Reason ShouldProcessReason
}

// ShouldContinueResult is the answer to a ShouldContinue prompt.
type ShouldContinueResult struct {
	Result   bool
	YesToAll bool
	NoToAll  bool
}

// ShouldContinueState carries the sticky answers of a ShouldContinue prompt
// across calls within one run.
type ShouldContinueState struct {
	YesToAll bool
	NoToAll  bool
}
