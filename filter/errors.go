package filter

import (
	"errors"
	"fmt"
)

// ErrAllPacketsExcluded is returned by Compose when the section policy
// leaves no packet capturable.
var ErrAllPacketsExcluded = errors.New("filter excludes all packets")

// ValidationError reports an illegal (section, operator, kind) combination
// at attribute construction time.
type ValidationError struct {
	Kind     Kind
	Section  Section
	Operator Operator
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s attribute with operator %s in %s section: %s",
		e.Kind, e.Operator, e.Section, e.Reason)
}

// InputError reports a token that fails its attribute kind's grammar.
type InputError struct {
	Kind   Kind
	Token  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s value %q: %s", e.Kind, e.Token, e.Reason)
}
