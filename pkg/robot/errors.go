package robot

import (
	"errors"
	"fmt"
)

// ErrorKind classifies fatal build errors. It implements error so callers
// can match with errors.Is(err, robot.ErrDanglingReference).
type ErrorKind int

const (
	ErrUnsupportedKind   ErrorKind = iota + 1 // joint kind the factory does not build
	ErrMalformedNode                          // joint description missing required data
	ErrDanglingReference                      // loop closure targets a link outside the tree
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnsupportedKind:
		return "unsupported joint kind"
	case ErrMalformedNode:
		return "malformed joint description"
	case ErrDanglingReference:
		return "dangling reference"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

func (k ErrorKind) Error() string { return k.String() }

// BuildError is returned by Build when the description cannot be compiled.
// Name identifies the offending entity: the joint for unsupported kinds and
// malformed nodes, the target link for dangling references.
type BuildError struct {
	Kind   ErrorKind
	Name   string
	Detail string
}

func (e *BuildError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("robot: %s: %q", e.Kind, e.Name)
	}
	return fmt.Sprintf("robot: %s: %q: %s", e.Kind, e.Name, e.Detail)
}

// Is matches a BuildError against its ErrorKind.
func (e *BuildError) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

// ErrPassOrder is returned when a post-pass resolver is invoked before the
// construction pass has finished for every root.
var ErrPassOrder = errors.New("robot: resolver invoked before tree construction completed")
