package bridge

import "github.com/hupe1980/hostbridge/core"

// classify reduces the causes gathered for a stage to the single error the
// runner reports. A host halted leaf wins and is returned unchanged.
// Cancellations are dropped. Otherwise the first cause that is not a
// cancellation is returned; a cause mixing both is reduced to its first
// failing leaf.
func classify(causes ...error) error {
	if halted := firstHalted(causes...); halted != nil {
		return halted
	}
	for _, cause := range causes {
		if cause == nil {
			continue
		}
		leaves := core.Errors(cause)
		var failing []error
		for _, leaf := range leaves {
			if !core.IsCancellation(leaf) {
				failing = append(failing, leaf)
			}
		}
		switch {
		case len(failing) == 0:
			continue
		case len(failing) == len(leaves):
			return cause
		default:
			return failing[0]
		}
	}
	return nil
}

// classifyStage classifies the outcome of one stage. The recorded faults are
// searched for a host halted signal before userErr, so the host's own error
// is returned even when the user code wrapped it.
func classifyStage(userErr error, faults []error) error {
	if halted := firstHalted(faults...); halted != nil {
		return halted
	}
	return classify(append([]error{userErr}, faults...)...)
}

func firstHalted(causes ...error) error {
	for _, cause := range causes {
		for _, leaf := range core.Errors(cause) {
			if core.IsHostHalted(leaf) {
				return leaf
			}
		}
	}
	return nil
}
