package host

import (
	"bytes"
	"errors"
	"testing"

	"github.com/hupe1980/hostbridge/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsole_Renders(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, func(o *Options) { o.WhatIf = true })
	c.Bind()

	require.NoError(t, c.WriteObject([]string{"x", "y"}, true))
	require.NoError(t, c.WriteWarning("careful"))
	require.NoError(t, c.WriteError(core.ErrorRecord{Err: errors.New("bad")}))
	rec := core.NewProgressRecord(1, "copy", "working")
	rec.PercentComplete = 50
	require.NoError(t, c.WriteProgress(rec))
	rec.Completed = true
	require.NoError(t, c.WriteProgress(rec))
	res, err := c.ShouldProcess("file.txt", "Remove")
	require.NoError(t, err)
	assert.False(t, res.Result)

	assert.Equal(t, "x\ny\nWARNING: careful\nERROR: bad\n"+
		"[1] copy: working (50%)\n[1] copy: completed\n"+
		"What if: Performing the operation \"Remove\" on target \"file.txt\".\n", buf.String())
	assert.Equal(t, []any{"x", "y"}, c.Objects())
}

func TestConsole_HaltedWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, func(o *Options) { o.OutputLimit = 1 })

	require.NoError(t, c.WriteObject("first", false))
	err := c.WriteObject("second", false)
	require.ErrorIs(t, err, core.ErrHostHalted)
	require.ErrorIs(t, c.WriteVerbose("late"), core.ErrHostHalted)

	assert.Equal(t, "first\n", buf.String())
}
