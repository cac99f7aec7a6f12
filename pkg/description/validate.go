package description

import "fmt"

// ValidationSeverity indicates whether a validation finding blocks a build
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // the build would fail or misbehave
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Joint    string             // offending joint name (empty if robot-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Joint == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] joint %q: %s", e.Severity, e.Joint, e.Message)
}

// ValidationResult bundles blocking errors and advisory warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether no blocking errors were found.
func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

// Validate checks the preconditions the robot builder assumes but does not
// enforce. It is read-only and never mutates the description.
func Validate(rd *RobotDescription) ValidationResult {
	var all []ValidationError
	// Structural checks come first: the others walk the tree and must not
	// run on a description with shared or cyclic nodes.
	structural := validateTree(rd)
	all = append(all, structural...)
	if len(structural) == 0 {
		all = append(all, validateNames(rd)...)
		all = append(all, validateKinds(rd)...)
		all = append(all, validateLinks(rd)...)
		all = append(all, validateCollisionMeshes(rd)...)
		all = append(all, validateLoopClosures(rd)...)
		all = append(all, validateForceSensors(rd)...)
	}

	var result ValidationResult
	for _, e := range all {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, e)
		} else {
			result.Errors = append(result.Errors, e)
		}
	}
	return result
}

// validateTree checks that every joint is reachable exactly once, using DFS
// with 3-color marking so cycles and shared subtrees are both caught.
func validateTree(rd *RobotDescription) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[*JointDescription]int)
	var errs []ValidationError

	var visit func(j *JointDescription) bool
	visit = func(j *JointDescription) bool {
		if j == nil {
			errs = append(errs, ValidationError{
				Message:  "nil joint in tree",
				Severity: SeverityError,
			})
			return false
		}
		switch color[j] {
		case gray:
			errs = append(errs, ValidationError{
				Joint:    j.Name,
				Message:  "cycle detected: joint is its own ancestor",
				Severity: SeverityError,
			})
			return true
		case black:
			errs = append(errs, ValidationError{
				Joint:    j.Name,
				Message:  "joint appears more than once in the tree",
				Severity: SeverityError,
			})
			return false
		}

		color[j] = gray
		for _, c := range j.Children {
			if visit(c) {
				return true
			}
		}
		color[j] = black
		return false
	}

	for _, r := range rd.Roots {
		if visit(r) {
			break
		}
	}
	return errs
}

// validateNames checks that joint names are non-empty and unique.
func validateNames(rd *RobotDescription) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]int)
	rd.Walk(func(j *JointDescription) bool {
		if j.Name == "" {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("%s joint has an empty name", j.Kind),
				Severity: SeverityError,
			})
		}
		seen[j.Name]++
		if seen[j.Name] == 2 {
			errs = append(errs, ValidationError{
				Joint:    j.Name,
				Message:  "duplicate joint name",
				Severity: SeverityError,
			})
		}
		return true
	})
	return errs
}

// validateKinds checks that each joint kind is buildable and that its
// payload matches the kind.
func validateKinds(rd *RobotDescription) []ValidationError {
	var errs []ValidationError
	rd.Walk(func(j *JointDescription) bool {
		ok := true
		switch j.Kind {
		case JointFloating:
			_, ok = j.Data.(FloatingData)
		case JointFloatingPlanar:
			_, ok = j.Data.(PlanarData)
		case JointPin:
			_, ok = j.Data.(PinData)
		case JointSlider:
			_, ok = j.Data.(SliderData)
			if !j.Dynamic {
				errs = append(errs, ValidationError{
					Joint:    j.Name,
					Message:  "non-dynamic slider joints are still built as movable sliders",
					Severity: SeverityWarning,
				})
			}
		default:
			errs = append(errs, ValidationError{
				Joint:    j.Name,
				Message:  fmt.Sprintf("unsupported joint kind %s", j.Kind),
				Severity: SeverityError,
			})
			return true
		}
		if !ok {
			errs = append(errs, ValidationError{
				Joint:    j.Name,
				Message:  fmt.Sprintf("%s joint carries %T payload", j.Kind, j.Data),
				Severity: SeverityError,
			})
		}
		return true
	})
	return errs
}

// validateLinks checks that every joint carries a link.
func validateLinks(rd *RobotDescription) []ValidationError {
	var errs []ValidationError
	rd.Walk(func(j *JointDescription) bool {
		if j.Link == nil {
			errs = append(errs, ValidationError{
				Joint:    j.Name,
				Message:  "joint has no link",
				Severity: SeverityError,
			})
		}
		return true
	})
	return errs
}

func validateCollisionMeshes(rd *RobotDescription) []ValidationError {
	var errs []ValidationError
	rd.Walk(func(j *JointDescription) bool {
		if j.Link == nil {
			return true
		}
		for _, m := range j.Link.CollisionMeshes {
			if m.EstimatedContactPoints < 0 {
				errs = append(errs, ValidationError{
					Joint:    j.Name,
					Message:  fmt.Sprintf("collision mesh %q has negative contact estimate %d", m.Name, m.EstimatedContactPoints),
					Severity: SeverityError,
				})
			}
		}
		return true
	})
	return errs
}

// validateLoopClosures checks that every constraint targets a link owned by
// some joint in the tree.
func validateLoopClosures(rd *RobotDescription) []ValidationError {
	links := make(map[Handle]bool)
	rd.Walk(func(j *JointDescription) bool {
		if j.Link != nil {
			links[j.Link.Handle] = true
		}
		return true
	})

	var errs []ValidationError
	rd.Walk(func(j *JointDescription) bool {
		for _, lc := range j.LoopClosures {
			if lc.Link == nil {
				errs = append(errs, ValidationError{
					Joint:    j.Name,
					Message:  fmt.Sprintf("loop closure %q has no target link", lc.Name),
					Severity: SeverityError,
				})
				continue
			}
			if !links[lc.Link.Handle] {
				errs = append(errs, ValidationError{
					Joint:    j.Name,
					Message:  fmt.Sprintf("loop closure %q targets link %q which is not in the tree", lc.Name, lc.Link.Name),
					Severity: SeverityError,
				})
			}
		}
		return true
	})
	return errs
}

// validateForceSensors warns about ground-contact force sensors that would
// aggregate no points.
func validateForceSensors(rd *RobotDescription) []ValidationError {
	var errs []ValidationError
	rd.Walk(func(j *JointDescription) bool {
		for _, fs := range j.ForceSensors {
			if !fs.UseGroundContactPoints || fs.UseShapeCollision {
				continue
			}
			if countGroundContactPoints(j) == 0 {
				errs = append(errs, ValidationError{
					Joint:    j.Name,
					Message:  fmt.Sprintf("force sensor %q has no ground contact points at or below its joint", fs.Name),
					Severity: SeverityWarning,
				})
			}
		}
		return true
	})
	return errs
}

func countGroundContactPoints(j *JointDescription) int {
	n := len(j.GroundContactPoints)
	for _, c := range j.Children {
		n += countGroundContactPoints(c)
	}
	return n
}
