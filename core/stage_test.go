package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStage_String(t *testing.T) {
	assert.Equal(t, "begin", StageBegin.String())
	assert.Equal(t, "process", StageProcess.String())
	assert.Equal(t, "end", StageEnd.String())
	assert.Equal(t, "stop", StageStop.String())
	assert.Equal(t, "unknown", Stage(42).String())
}

func TestStageSet(t *testing.T) {
	s := NewStageSet(StageEnd, StageBegin)
	assert.True(t, s.Has(StageBegin))
	assert.True(t, s.Has(StageEnd))
	assert.False(t, s.Has(StageProcess))
	assert.False(t, s.Has(Stage(-1)))
	assert.Equal(t, []Stage{StageBegin, StageEnd}, s.Stages())
	assert.Equal(t, "{begin,end}", s.String())

	s = s.Add(StageProcess).Add(Stage(99))
	assert.Equal(t, []Stage{StageBegin, StageProcess, StageEnd}, s.Stages())
	assert.Equal(t, "{}", StageSet(0).String())
}
