package bridge

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hupe1980/hostbridge/core"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	errApp := errors.New("app failed")
	errOther := errors.New("other failed")
	halted := fmt.Errorf("write: %w", core.ErrHostHalted)

	tests := []struct {
		name   string
		causes []error
		want   error
	}{
		{name: "no causes", causes: nil, want: nil},
		{name: "nil cause", causes: []error{nil}, want: nil},
		{name: "application error", causes: []error{errApp}, want: errApp},
		{name: "cancellation swallowed", causes: []error{context.Canceled}, want: nil},
		{name: "wrapped cancellation swallowed", causes: []error{core.Cancelled(nil)}, want: nil},
		{name: "first failure wins", causes: []error{nil, errApp, errOther}, want: errApp},
		{name: "cancellation skipped before failure", causes: []error{context.Canceled, errOther}, want: errOther},
		{name: "halt beats earlier failure", causes: []error{errApp, halted}, want: halted},
		{name: "halt inside join", causes: []error{errors.Join(errApp, halted)}, want: halted},
		{name: "halt as cancellation cause", causes: []error{core.Cancelled(halted)}, want: halted},
		{name: "join of cancellation and failure", causes: []error{errors.Join(context.Canceled, errApp)}, want: errApp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.causes...)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.Same(t, tt.want, got)
		})
	}
}

func TestClassify_KeepsWrappedFailure(t *testing.T) {
	errApp := errors.New("app failed")
	wrapped := fmt.Errorf("process record: %w", errApp)

	got := classify(wrapped)
	assert.Equal(t, wrapped, got)
	assert.ErrorIs(t, got, errApp)
}

func TestClassifyStage_PrefersRecordedHalt(t *testing.T) {
	errApp := errors.New("app failed")
	hostHalt := fmt.Errorf("object: %w", core.ErrHostHalted)
	userWrapped := fmt.Errorf("emit: %w", hostHalt)

	tests := []struct {
		name    string
		userErr error
		faults  []error
		want    error
	}{
		{name: "user wrap of recorded halt", userErr: userWrapped, faults: []error{hostHalt}, want: hostHalt},
		{name: "user error before fault", userErr: errApp, faults: []error{errors.New("fault")}, want: errApp},
		{name: "fault when user succeeded", userErr: nil, faults: []error{errApp}, want: errApp},
		{name: "halt only in user error", userErr: userWrapped, faults: nil, want: userWrapped},
		{name: "nothing", userErr: context.Canceled, faults: nil, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyStage(tt.userErr, tt.faults)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.Same(t, tt.want, got)
		})
	}
}
