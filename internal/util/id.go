// Package util holds small helpers shared by hostbridge packages.
package util

import (
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewID returns a random identifier for execution contexts and runs.
func NewID() string { return uuid.NewString() }

// NewActionID returns a lexically sortable identifier. IDs generated within
// the same millisecond still sort in creation order.
func NewActionID() string { return ulid.Make().String() }
