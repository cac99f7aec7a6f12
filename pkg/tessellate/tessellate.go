// Package tessellate walks a built robot and produces triangle meshes of
// its collision geometry using a geometry kernel. One mesh is produced per
// link that declares collision shapes, posed at zero configuration.
package tessellate

import (
	"fmt"

	"github.com/chazu/armature/pkg/collision"
	"github.com/chazu/armature/pkg/description"
	"github.com/chazu/armature/pkg/kernel"
	"github.com/chazu/armature/pkg/robot"
)

// offsetStack accumulates joint offsets during tree traversal.
type offsetStack struct {
	offsets []description.Vec3
}

func (s *offsetStack) push(v description.Vec3) {
	s.offsets = append(s.offsets, v)
}

func (s *offsetStack) pop() {
	if len(s.offsets) > 0 {
		s.offsets = s.offsets[:len(s.offsets)-1]
	}
}

// accumulated returns the sum of all offsets on the stack.
func (s *offsetStack) accumulated() description.Vec3 {
	var sum description.Vec3
	for _, v := range s.offsets {
		sum = sum.Add(v)
	}
	return sum
}

// Tessellate walks the robot depth-first and produces one triangle mesh per
// link with collision shapes. The tessellator is read-only and never
// mutates the robot.
func Tessellate(r *robot.Robot, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if r == nil {
		return nil, nil
	}

	var meshes []*kernel.Mesh
	s := &offsetStack{}

	for _, root := range r.RootJoints() {
		collected, err := walkJoint(k, root, s)
		if err != nil {
			return nil, fmt.Errorf("tessellate: error walking root %q: %w", root.Name(), err)
		}
		meshes = append(meshes, collected...)
	}

	return meshes, nil
}

// walkJoint pushes the joint offset, meshes the joint's link, recurses into
// children, then pops.
func walkJoint(k kernel.Kernel, j *robot.Joint, s *offsetStack) ([]*kernel.Mesh, error) {
	s.push(j.Offset())
	defer s.pop()

	var meshes []*kernel.Mesh
	m, err := meshLink(k, j.Link(), s.accumulated())
	if err != nil {
		return nil, err
	}
	if m != nil {
		meshes = append(meshes, m)
	}

	for _, c := range j.Children() {
		collected, err := walkJoint(k, c, s)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, collected...)
	}
	return meshes, nil
}

// meshLink unions every collision mesh of l and places the result at the
// link's joint position. Links without shapes yield nil.
func meshLink(k kernel.Kernel, l *robot.Link, at description.Vec3) (*kernel.Mesh, error) {
	var solids []kernel.Solid
	for _, cm := range l.CollisionMeshes() {
		s, err := collision.Solid(k, cm)
		if err != nil {
			return nil, fmt.Errorf("link %q: %w", l.Name(), err)
		}
		if s != nil {
			solids = append(solids, s)
		}
	}
	if len(solids) == 0 {
		return nil, nil
	}
	solid := k.Union(solids[0], solids[1:]...)

	if !at.IsZero() {
		solid = k.Translate(solid, at.X, at.Y, at.Z)
	}

	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for link %q: %w", l.Name(), err)
	}
	mesh.LinkName = l.Name()
	return mesh, nil
}
