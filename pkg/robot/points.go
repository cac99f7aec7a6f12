package robot

import "github.com/chazu/armature/pkg/description"

// KinematicPoint is a named point fixed in a joint frame.
type KinematicPoint struct {
	name   string
	offset description.Vec3
	joint  *Joint
}

func newKinematicPoint(name string, offset description.Vec3) *KinematicPoint {
	return &KinematicPoint{name: name, offset: offset}
}

func (p *KinematicPoint) Name() string             { return p.name }
func (p *KinematicPoint) Offset() description.Vec3 { return p.offset }
func (p *KinematicPoint) Joint() *Joint            { return p.joint }

// SetOffset moves the point within its joint frame. Collision response uses
// this to place contacting points.
func (p *KinematicPoint) SetOffset(v description.Vec3) { p.offset = v }

// ExternalForcePoint is a kinematic point at which a force and moment act.
type ExternalForcePoint struct {
	KinematicPoint
	force  description.Vec3
	moment description.Vec3
}

func newExternalForcePoint(name string, offset description.Vec3) *ExternalForcePoint {
	return &ExternalForcePoint{KinematicPoint: KinematicPoint{name: name, offset: offset}}
}

func (p *ExternalForcePoint) Force() description.Vec3  { return p.force }
func (p *ExternalForcePoint) Moment() description.Vec3 { return p.moment }

// SetForce sets the force and pure moment applied at the point.
func (p *ExternalForcePoint) SetForce(force, moment description.Vec3) {
	p.force = force
	p.moment = moment
}

// GroundContactPoint is an external force point used for ground contact.
type GroundContactPoint struct {
	ExternalForcePoint
	groupID   int
	inContact bool
}

func newGroundContactPoint(name string, offset description.Vec3) *GroundContactPoint {
	return &GroundContactPoint{ExternalForcePoint: *newExternalForcePoint(name, offset)}
}

func (p *GroundContactPoint) GroupID() int    { return p.groupID }
func (p *GroundContactPoint) InContact() bool { return p.inContact }

// SetInContact is called by the ground contact model.
func (p *GroundContactPoint) SetInContact(v bool) { p.inContact = v }
