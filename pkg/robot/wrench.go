package robot

import "github.com/chazu/armature/pkg/description"

// Wrench is a force and torque pair.
type Wrench struct {
	Force  description.Vec3
	Torque description.Vec3
}

// ShiftTo returns the same wrench expressed about point p.
func (w Wrench) ShiftTo(p description.Vec3) Wrench {
	return Wrench{
		Force:  w.Force,
		Torque: w.Torque.Sub(p.Cross(w.Force)),
	}
}

// CalculatorKind identifies the strategy behind a force sensor.
type CalculatorKind int

const (
	CalculatorGroundContact  CalculatorKind = iota // aggregates ground contact points
	CalculatorCollisionShape                       // aggregates collision contact points
	CalculatorJointReaction                        // reads the joint reaction wrench
)

func (k CalculatorKind) String() string {
	switch k {
	case CalculatorGroundContact:
		return "ground-contact"
	case CalculatorCollisionShape:
		return "collision-shape"
	case CalculatorJointReaction:
		return "joint-reaction"
	default:
		return "unknown"
	}
}

// WrenchCalculator produces the force/torque estimate of a force sensor.
type WrenchCalculator interface {
	Name() string
	Kind() CalculatorKind
	Joint() *Joint
	// Calculate returns the wrench expressed in the sensor frame.
	Calculate() Wrench
}

// pointWrenchCalculator sums the loads of a set of external force points.
// Point positions are taken at zero configuration, relative to the sensor's
// joint.
type pointWrenchCalculator struct {
	name      string
	kind      CalculatorKind
	joint     *Joint
	transform description.Transform
	points    []*ExternalForcePoint
}

func (c *pointWrenchCalculator) Name() string         { return c.name }
func (c *pointWrenchCalculator) Kind() CalculatorKind { return c.kind }
func (c *pointWrenchCalculator) Joint() *Joint        { return c.joint }

// Points returns the external force points this calculator sums over.
func (c *pointWrenchCalculator) Points() []*ExternalForcePoint { return c.points }

func (c *pointWrenchCalculator) Calculate() Wrench {
	var w Wrench
	for _, p := range c.points {
		jointOffset, ok := p.joint.OffsetFrom(c.joint)
		if !ok {
			continue
		}
		r := jointOffset.Add(p.offset)
		w.Force = w.Force.Add(p.force)
		w.Torque = w.Torque.Add(r.Cross(p.force)).Add(p.moment)
	}
	// Move from the joint origin to the sensor origin, then rotate into the
	// sensor frame.
	w = w.ShiftTo(c.transform.Translation)
	rt := c.transform.Rotation.Transpose()
	return Wrench{Force: rt.MulVec(w.Force), Torque: rt.MulVec(w.Torque)}
}

// GroundContactWrenchCalculator sums the ground contact points at and below
// its joint.
type GroundContactWrenchCalculator struct {
	pointWrenchCalculator
	contacts []*GroundContactPoint
}

func newGroundContactWrenchCalculator(name string, contacts []*GroundContactPoint, j *Joint, t description.Transform) *GroundContactWrenchCalculator {
	points := make([]*ExternalForcePoint, len(contacts))
	for i, gc := range contacts {
		points[i] = &gc.ExternalForcePoint
	}
	return &GroundContactWrenchCalculator{
		pointWrenchCalculator: pointWrenchCalculator{
			name:      name,
			kind:      CalculatorGroundContact,
			joint:     j,
			transform: t,
			points:    points,
		},
		contacts: contacts,
	}
}

// GroundContactPoints returns the aggregated points in traversal order.
func (c *GroundContactWrenchCalculator) GroundContactPoints() []*GroundContactPoint {
	return c.contacts
}

// CollisionShapeWrenchCalculator sums the external force points of its
// joint, including those created for collision meshes.
type CollisionShapeWrenchCalculator struct {
	pointWrenchCalculator
}

func newCollisionShapeWrenchCalculator(name string, points []*ExternalForcePoint, j *Joint, t description.Transform) *CollisionShapeWrenchCalculator {
	return &CollisionShapeWrenchCalculator{
		pointWrenchCalculator: pointWrenchCalculator{
			name:      name,
			kind:      CalculatorCollisionShape,
			joint:     j,
			transform: t,
			points:    append([]*ExternalForcePoint(nil), points...),
		},
	}
}

// JointReactionWrenchCalculator reads the joint's reaction wrench directly.
type JointReactionWrenchCalculator struct {
	name  string
	joint *Joint
}

func newJointReactionWrenchCalculator(name string, j *Joint) *JointReactionWrenchCalculator {
	return &JointReactionWrenchCalculator{name: name, joint: j}
}

func (c *JointReactionWrenchCalculator) Name() string         { return c.name }
func (c *JointReactionWrenchCalculator) Kind() CalculatorKind { return CalculatorJointReaction }
func (c *JointReactionWrenchCalculator) Joint() *Joint        { return c.joint }
func (c *JointReactionWrenchCalculator) Calculate() Wrench    { return c.joint.ReactionWrench() }
