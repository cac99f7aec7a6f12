package robot

import "github.com/chazu/armature/pkg/description"

// Shape enumerates the runtime joint variants.
type Shape int

const (
	ShapeFloating       Shape = iota // six degree of freedom floating joint
	ShapeFloatingPlanar              // planar floating joint
	ShapePin                         // actuated revolute joint
	ShapeSlider                      // actuated prismatic joint
	ShapeFixedPin                    // zero-motion revolute placeholder
)

func (s Shape) String() string {
	switch s {
	case ShapeFloating:
		return "floating"
	case ShapeFloatingPlanar:
		return "floating-planar"
	case ShapePin:
		return "pin"
	case ShapeSlider:
		return "slider"
	case ShapeFixedPin:
		return "fixed-pin"
	default:
		return "unknown"
	}
}

// Payload is the interface for shape-specific joint parameters.
type Payload interface {
	payload() // marker method restricting implementations to this package
}

// FloatingPayload holds the parameters of a floating joint.
type FloatingPayload struct {
	VariableName string
}

func (*FloatingPayload) payload() {}

// PlanarPayload holds the parameters of a planar floating joint.
type PlanarPayload struct {
	Plane description.Plane
}

func (*PlanarPayload) payload() {}

// Actuation holds the parameters of a controllable one degree of freedom
// joint. Unset values stay zero.
type Actuation struct {
	Axis            description.Vec3
	Damping         float64
	Stiction        float64
	VelocityLimit   float64
	VelocityDamping float64

	limits    description.LimitStops
	hasLimits bool
}

// SetLimitStops sets the joint limit spring.
func (a *Actuation) SetLimitStops(qMin, qMax, kLimit, bLimit float64) {
	a.limits = description.LimitStops{QMin: qMin, QMax: qMax, KLimit: kLimit, BLimit: bLimit}
	a.hasLimits = true
}

// LimitStops returns the limit spring and whether one was set.
func (a *Actuation) LimitStops() (description.LimitStops, bool) {
	return a.limits, a.hasLimits
}

// PinPayload holds the parameters of an actuated revolute joint.
type PinPayload struct {
	Actuation
}

func (*PinPayload) payload() {}

// SliderPayload holds the parameters of an actuated prismatic joint.
type SliderPayload struct {
	Actuation
}

func (*SliderPayload) payload() {}

// FixedPinPayload holds the axis of a non-dynamic revolute joint. It is not
// controllable and never appears among the one degree of freedom joints.
type FixedPinPayload struct {
	Axis description.Vec3
}

func (*FixedPinPayload) payload() {}

// Joint is a node of the kinematic tree. It owns its link, its children and
// everything attached to it.
type Joint struct {
	name    string
	shape   Shape
	payload Payload
	offset  description.Vec3
	dynamic bool

	link     *Link
	parent   *Joint
	children []*Joint

	groundContactPoints []*GroundContactPoint
	groundContactGroups map[int][]*GroundContactPoint
	groupOrder          []int
	externalForcePoints []*ExternalForcePoint
	kinematicPoints     []*KinematicPoint

	lidars        []*LidarMount
	cameras       []*CameraMount
	imus          []*IMUMount
	wrenchSensors []*JointWrenchSensor
	sensors       []Sensor
	forceSensors  []WrenchCalculator
	loopClosures  []*LoopClosureConstraint

	reaction Wrench
}

func newJoint(name string, shape Shape, p Payload, offset description.Vec3) *Joint {
	return &Joint{
		name:                name,
		shape:               shape,
		payload:             p,
		offset:              offset,
		dynamic:             true,
		groundContactGroups: make(map[int][]*GroundContactPoint),
	}
}

func (j *Joint) Name() string                 { return j.name }
func (j *Joint) Shape() Shape                 { return j.shape }
func (j *Joint) Payload() Payload             { return j.payload }
func (j *Joint) Offset() description.Vec3     { return j.offset }
func (j *Joint) Dynamic() bool                { return j.dynamic }
func (j *Joint) Link() *Link                  { return j.link }
func (j *Joint) Parent() *Joint               { return j.parent }
func (j *Joint) Children() []*Joint           { return j.children }
func (j *Joint) LidarMounts() []*LidarMount   { return j.lidars }
func (j *Joint) CameraMounts() []*CameraMount { return j.cameras }
func (j *Joint) IMUMounts() []*IMUMount       { return j.imus }
func (j *Joint) Sensors() []Sensor            { return j.sensors }

// Actuation returns the actuation parameters of pin and slider joints, or
// nil for every other shape.
func (j *Joint) Actuation() *Actuation {
	switch p := j.payload.(type) {
	case *PinPayload:
		return &p.Actuation
	case *SliderPayload:
		return &p.Actuation
	}
	return nil
}

// IsOneDOF reports whether the joint is a controllable single-axis joint.
func (j *Joint) IsOneDOF() bool {
	return j.Actuation() != nil
}

// GroundContactPoints returns the points attached directly to this joint,
// in declaration order.
func (j *Joint) GroundContactPoints() []*GroundContactPoint { return j.groundContactPoints }

// GroundContactGroup returns the points attached under a group id.
func (j *Joint) GroundContactGroup(id int) []*GroundContactPoint { return j.groundContactGroups[id] }

// GroundContactGroupIDs returns the group ids in first-use order.
func (j *Joint) GroundContactGroupIDs() []int { return j.groupOrder }

// ExternalForcePoints returns the declared external force points followed by
// the link's contacting points.
func (j *Joint) ExternalForcePoints() []*ExternalForcePoint { return j.externalForcePoints }

func (j *Joint) KinematicPoints() []*KinematicPoint { return j.kinematicPoints }

// JointWrenchSensors returns declared wrench sensors and those created for
// joint-reaction force sensors.
func (j *Joint) JointWrenchSensors() []*JointWrenchSensor { return j.wrenchSensors }

func (j *Joint) ForceSensors() []WrenchCalculator { return j.forceSensors }

// LoopClosures returns the soft constraints owned by this joint. They are not
// part of the structural tree.
func (j *Joint) LoopClosures() []*LoopClosureConstraint { return j.loopClosures }

// ReactionWrench returns the internal reaction wrench last written by the
// simulator.
func (j *Joint) ReactionWrench() Wrench { return j.reaction }

// SetReactionWrench is called by the simulator after each step.
func (j *Joint) SetReactionWrench(w Wrench) { j.reaction = w }

// AllGroundContactPoints returns the ground contact points of this joint and
// of every structural descendant, depth-first in declaration order. Loop
// closures are not followed.
func (j *Joint) AllGroundContactPoints() []*GroundContactPoint {
	var out []*GroundContactPoint
	j.collectGroundContactPoints(&out)
	return out
}

func (j *Joint) collectGroundContactPoints(out *[]*GroundContactPoint) {
	*out = append(*out, j.groundContactPoints...)
	for _, c := range j.children {
		c.collectGroundContactPoints(out)
	}
}

// OffsetFrom returns the zero-configuration position of this joint's frame
// in the frame of the given ancestor. ok is false if ancestor is not on the
// path to the root.
func (j *Joint) OffsetFrom(ancestor *Joint) (offset description.Vec3, ok bool) {
	for cur := j; cur != nil; cur = cur.parent {
		if cur == ancestor {
			return offset, true
		}
		offset = offset.Add(cur.offset)
	}
	return description.Vec3{}, false
}

func (j *Joint) addChild(c *Joint) {
	c.parent = j
	j.children = append(j.children, c)
}

func (j *Joint) setLink(l *Link) {
	l.joint = j
	j.link = l
}

func (j *Joint) addGroundContactPoint(groupID int, p *GroundContactPoint) {
	p.groupID = groupID
	if _, ok := j.groundContactGroups[groupID]; !ok {
		j.groupOrder = append(j.groupOrder, groupID)
	}
	j.groundContactGroups[groupID] = append(j.groundContactGroups[groupID], p)
	j.groundContactPoints = append(j.groundContactPoints, p)
}

func (j *Joint) addExternalForcePoint(p *ExternalForcePoint) {
	j.externalForcePoints = append(j.externalForcePoints, p)
}

func (j *Joint) addKinematicPoint(p *KinematicPoint) {
	j.kinematicPoints = append(j.kinematicPoints, p)
}

func (j *Joint) addLidarMount(m *LidarMount)   { j.lidars = append(j.lidars, m) }
func (j *Joint) addCameraMount(m *CameraMount) { j.cameras = append(j.cameras, m) }
func (j *Joint) addIMUMount(m *IMUMount)       { j.imus = append(j.imus, m) }
func (j *Joint) addSensor(s Sensor)            { j.sensors = append(j.sensors, s) }

func (j *Joint) addJointWrenchSensor(s *JointWrenchSensor) {
	j.wrenchSensors = append(j.wrenchSensors, s)
}

func (j *Joint) addForceSensor(c WrenchCalculator) {
	j.forceSensors = append(j.forceSensors, c)
}

func (j *Joint) addLoopClosure(c *LoopClosureConstraint) {
	j.loopClosures = append(j.loopClosures, c)
}
