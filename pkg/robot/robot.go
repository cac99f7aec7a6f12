package robot

import "github.com/chazu/armature/pkg/description"

// Robot is a compiled kinematic forest with its lookup tables.
type Robot struct {
	name  string
	roots []*Joint
	reg   *registry
}

func (r *Robot) Name() string { return r.name }

// RootJoints returns the roots in description order.
func (r *Robot) RootJoints() []*Joint { return r.roots }

// Joint returns the joint with the given name, or nil.
func (r *Robot) Joint(name string) *Joint {
	j, _ := r.reg.jointsByName.get(name)
	return j
}

// JointByDescription returns the joint built from jd, or nil.
func (r *Robot) JointByDescription(jd *description.JointDescription) *Joint {
	j, _ := r.reg.jointsByHandle.get(jd.Handle)
	return j
}

// Joints returns every joint in registration order (children before their
// parents).
func (r *Robot) Joints() []*Joint { return r.reg.jointsByName.list() }

// JointCount returns the number of registered joints.
func (r *Robot) JointCount() int { return r.reg.jointsByName.size() }

// Link returns the link built from ld, or nil.
func (r *Robot) Link(ld *description.LinkDescription) *Link {
	l, _ := r.reg.linksByHandle.get(ld.Handle)
	return l
}

// OneDOFJoint returns the controllable single-axis joint with the given
// name, or nil. Fixed pins are never returned.
func (r *Robot) OneDOFJoint(name string) *Joint {
	j, _ := r.reg.oneDOF.get(name)
	return j
}

// OneDOFJoints returns every controllable single-axis joint in registration
// order.
func (r *Robot) OneDOFJoints() []*Joint { return r.reg.oneDOF.list() }

func (r *Robot) CameraMount(name string) *CameraMount {
	m, _ := r.reg.cameras.byName.get(name)
	return m
}

func (r *Robot) CameraMountByDescription(d *description.CameraSensorDescription) *CameraMount {
	m, _ := r.reg.cameras.byHandle.get(d.Handle)
	return m
}

func (r *Robot) LidarMount(name string) *LidarMount {
	m, _ := r.reg.lidars.byName.get(name)
	return m
}

func (r *Robot) LidarMountByDescription(d *description.LidarSensorDescription) *LidarMount {
	m, _ := r.reg.lidars.byHandle.get(d.Handle)
	return m
}

func (r *Robot) IMUMount(name string) *IMUMount {
	m, _ := r.reg.imus.byName.get(name)
	return m
}

func (r *Robot) IMUMountByDescription(d *description.IMUSensorDescription) *IMUMount {
	m, _ := r.reg.imus.byHandle.get(d.Handle)
	return m
}

// JointWrenchSensor returns a declared joint wrench sensor. Sensors created
// for joint-reaction force sensors are not registered here.
func (r *Robot) JointWrenchSensor(name string) *JointWrenchSensor {
	s, _ := r.reg.wrenchSensors.byName.get(name)
	return s
}

func (r *Robot) JointWrenchSensorByDescription(d *description.JointWrenchSensorDescription) *JointWrenchSensor {
	s, _ := r.reg.wrenchSensors.byHandle.get(d.Handle)
	return s
}

// GroundContactPointsOnJoint returns the points attached directly to j, or
// nil if it has none.
func (r *Robot) GroundContactPointsOnJoint(j *Joint) []*GroundContactPoint {
	pts, _ := r.reg.groundContacts.get(j)
	return pts
}

// AllGroundContactPoints returns every ground contact point, root by root.
func (r *Robot) AllGroundContactPoints() []*GroundContactPoint {
	var out []*GroundContactPoint
	for _, root := range r.roots {
		out = append(out, root.AllGroundContactPoints()...)
	}
	return out
}

// Walk visits every joint depth-first, parents before children.
func (r *Robot) Walk(fn func(j *Joint)) {
	var visit func(j *Joint)
	visit = func(j *Joint) {
		fn(j)
		for _, c := range j.children {
			visit(c)
		}
	}
	for _, root := range r.roots {
		visit(root)
	}
}
