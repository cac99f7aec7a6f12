package robot

import "github.com/chazu/armature/pkg/description"

// LoopClosureConstraint is a spring-like coupling between the owning joint
// and a link elsewhere in the tree. It is an auxiliary edge: it never
// changes parent or child relations.
type LoopClosureConstraint struct {
	name                      string
	offsetFromParentJoint     description.Vec3
	offsetFromLinkParentJoint description.Vec3
	forceSubSpace             description.Mat3
	momentSubSpace            description.Mat3
	proportionalGains         description.Vec3
	derivativeGains           description.Vec3

	owner *Joint
	link  *Link
}

func newLoopClosureConstraint(name string, offsetFromParentJoint, offsetFromLinkParentJoint description.Vec3, forceSubSpace, momentSubSpace description.Mat3) *LoopClosureConstraint {
	return &LoopClosureConstraint{
		name:                      name,
		offsetFromParentJoint:     offsetFromParentJoint,
		offsetFromLinkParentJoint: offsetFromLinkParentJoint,
		forceSubSpace:             forceSubSpace,
		momentSubSpace:            momentSubSpace,
	}
}

// SetGains sets the proportional and derivative gains per axis.
func (c *LoopClosureConstraint) SetGains(kp, kd description.Vec3) {
	c.proportionalGains = kp
	c.derivativeGains = kd
}

func (c *LoopClosureConstraint) Name() string { return c.name }

// Owner returns the joint the constraint is attached to.
func (c *LoopClosureConstraint) Owner() *Joint { return c.owner }

// Link returns the constrained link at the other end.
func (c *LoopClosureConstraint) Link() *Link { return c.link }

func (c *LoopClosureConstraint) Offsets() (fromParentJoint, fromLinkParentJoint description.Vec3) {
	return c.offsetFromParentJoint, c.offsetFromLinkParentJoint
}

// SubSpaces returns the matrices selecting which force and moment components
// the constraint enforces.
func (c *LoopClosureConstraint) SubSpaces() (force, moment description.Mat3) {
	return c.forceSubSpace, c.momentSubSpace
}

func (c *LoopClosureConstraint) Gains() (kp, kd description.Vec3) {
	return c.proportionalGains, c.derivativeGains
}
