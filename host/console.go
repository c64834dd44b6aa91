package host

import (
	"fmt"
	"io"
	"sync"

	"github.com/hupe1980/hostbridge/core"
)

// Console is a Recorder that also renders every accepted call as a line on
// w, in the style of an interactive shell.
type Console struct {
	*Recorder

	mu sync.Mutex
	w  io.Writer
}

var _ core.Host = (*Console)(nil)

// NewConsole creates an unbound Console writing to w.
func NewConsole(w io.Writer, optFns ...func(o *Options)) *Console {
	return &Console{Recorder: NewRecorder(optFns...), w: w}
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, format+"\n", args...)
}

// WriteObject implements core.Host.
func (c *Console) WriteObject(obj any, enumerate bool) error {
	before := len(c.Objects())
	err := c.Recorder.WriteObject(obj, enumerate)
	for _, o := range c.Objects()[before:] {
		c.printf("%v", o)
	}
	return err
}

// WriteError implements core.Host.
func (c *Console) WriteError(rec core.ErrorRecord) error {
	if err := c.Recorder.WriteError(rec); err != nil {
		return err
	}
	c.printf("ERROR: %v", rec.Err)
	return nil
}

// WriteWarning implements core.Host.
func (c *Console) WriteWarning(msg string) error {
	if err := c.Recorder.WriteWarning(msg); err != nil {
		return err
	}
	c.printf("WARNING: %s", msg)
	return nil
}

// WriteVerbose implements core.Host.
func (c *Console) WriteVerbose(msg string) error {
	if err := c.Recorder.WriteVerbose(msg); err != nil {
		return err
	}
	c.printf("VERBOSE: %s", msg)
	return nil
}

// WriteDebug implements core.Host.
func (c *Console) WriteDebug(msg string) error {
	if err := c.Recorder.WriteDebug(msg); err != nil {
		return err
	}
	c.printf("DEBUG: %s", msg)
	return nil
}

// WriteInformation implements core.Host.
func (c *Console) WriteInformation(rec core.InformationRecord) error {
	if err := c.Recorder.WriteInformation(rec); err != nil {
		return err
	}
	c.printf("%v", rec.MessageData)
	return nil
}

// WriteProgress implements core.Host.
func (c *Console) WriteProgress(rec core.ProgressRecord) error {
	if err := c.Recorder.WriteProgress(rec); err != nil {
		return err
	}
	switch {
	case rec.Completed:
		c.printf("[%d] %s: completed", rec.ActivityID, rec.Activity)
	case rec.PercentComplete >= 0:
		c.printf("[%d] %s: %s (%d%%)", rec.ActivityID, rec.Activity, rec.Status, rec.PercentComplete)
	default:
		c.printf("[%d] %s: %s", rec.ActivityID, rec.Activity, rec.Status)
	}
	return nil
}

// ShouldProcess implements core.Host. In what-if mode the skipped operation
// is printed.
func (c *Console) ShouldProcess(target, action string) (core.ShouldProcessResult, error) {
	res, err := c.Recorder.ShouldProcess(target, action)
	if err == nil && res.Reason == core.ShouldProcessReasonWhatIf {
		c.printf("What if: Performing the operation %q on target %q.", action, target)
	}
	return res, err
}
