package policy

import "errors"

// Learner errors.
var (
	ErrNoAvailableActions = errors.New("no available actions to select from")
	ErrMalformedEntry     = errors.New("malformed Q-table entry")
)
