package description

import "fmt"

// RobotDescription is the top-level description: a named forest of joints.
// It is treated as immutable once handed to the robot builder.
type RobotDescription struct {
	Name  string              `json:"name"`
	Roots []*JointDescription `json:"roots"`
}

// New creates an empty RobotDescription.
func New(name string) *RobotDescription {
	return &RobotDescription{Name: name}
}

// AddRoot registers a joint as a root of the description.
func (rd *RobotDescription) AddRoot(j *JointDescription) {
	rd.Roots = append(rd.Roots, j)
}

// Walk visits every joint depth-first, parents before children, in
// declaration order. Returning false from fn skips the joint's subtree.
func (rd *RobotDescription) Walk(fn func(j *JointDescription) bool) {
	var visit func(j *JointDescription)
	visit = func(j *JointDescription) {
		if !fn(j) {
			return
		}
		for _, c := range j.Children {
			visit(c)
		}
	}
	for _, r := range rd.Roots {
		visit(r)
	}
}

// Lookup returns the first joint with the given name, or nil.
func (rd *RobotDescription) Lookup(name string) *JointDescription {
	var found *JointDescription
	rd.Walk(func(j *JointDescription) bool {
		if found != nil {
			return false
		}
		if j.Name == name {
			found = j
			return false
		}
		return true
	})
	return found
}

// MustLookup returns the joint with the given name, or panics.
func (rd *RobotDescription) MustLookup(name string) *JointDescription {
	j := rd.Lookup(name)
	if j == nil {
		panic(fmt.Sprintf("description: no joint named %q", name))
	}
	return j
}

// LinkByName returns the link of the first joint whose link has the given
// name, or nil.
func (rd *RobotDescription) LinkByName(name string) *LinkDescription {
	var found *LinkDescription
	rd.Walk(func(j *JointDescription) bool {
		if found != nil {
			return false
		}
		if j.Link != nil && j.Link.Name == name {
			found = j.Link
		}
		return found == nil
	})
	return found
}

// JointCount returns the number of joints in the tree.
func (rd *RobotDescription) JointCount() int {
	n := 0
	rd.Walk(func(*JointDescription) bool {
		n++
		return true
	})
	return n
}
