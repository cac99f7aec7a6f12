package description

// JointKind enumerates the types of joints a description can declare.
type JointKind int

const (
	JointFloating       JointKind = iota // six degree of freedom floating base
	JointFloatingPlanar                  // three degree of freedom planar base
	JointPin                             // single-axis revolute
	JointSlider                          // single-axis prismatic
	JointSpherical                       // ball joint (not buildable)
	JointUniversal                       // two-axis universal (not buildable)
)

func (k JointKind) String() string {
	switch k {
	case JointFloating:
		return "floating"
	case JointFloatingPlanar:
		return "floating-planar"
	case JointPin:
		return "pin"
	case JointSlider:
		return "slider"
	case JointSpherical:
		return "spherical"
	case JointUniversal:
		return "universal"
	default:
		return "unknown"
	}
}

// JointDescription is one node of the description tree.
type JointDescription struct {
	Handle  Handle    `json:"handle"`
	Name    string    `json:"name"`
	Kind    JointKind `json:"kind"`
	Offset  Vec3      `json:"offset"` // from the parent joint frame
	Dynamic bool      `json:"dynamic"`
	Data    JointData `json:"data"`

	Link     *LinkDescription    `json:"link,omitempty"`
	Children []*JointDescription `json:"children,omitempty"`

	GroundContactPoints []GroundContactPointDescription `json:"ground_contact_points,omitempty"`
	ExternalForcePoints []ExternalForcePointDescription `json:"external_force_points,omitempty"`
	KinematicPoints     []KinematicPointDescription     `json:"kinematic_points,omitempty"`

	Lidars        []*LidarSensorDescription       `json:"lidars,omitempty"`
	Cameras       []*CameraSensorDescription      `json:"cameras,omitempty"`
	IMUs          []*IMUSensorDescription         `json:"imus,omitempty"`
	WrenchSensors []*JointWrenchSensorDescription `json:"wrench_sensors,omitempty"`
	ForceSensors  []ForceSensorDescription        `json:"force_sensors,omitempty"`

	LoopClosures []LoopClosureDescription `json:"loop_closures,omitempty"`
}

// NewJoint returns a dynamic joint description with a fresh handle.
func NewJoint(name string, kind JointKind, data JointData) *JointDescription {
	return &JointDescription{
		Handle:  nextHandle(),
		Name:    name,
		Kind:    kind,
		Dynamic: true,
		Data:    data,
	}
}

// AddChild appends a child joint, preserving declaration order.
func (j *JointDescription) AddChild(c *JointDescription) {
	j.Children = append(j.Children, c)
}

// JointData is the interface for kind-specific joint payloads.
type JointData interface {
	jointData() // marker method restricting implementations to this package
}

// FloatingData parameterises a six degree of freedom floating joint.
type FloatingData struct {
	VariableName string `json:"variable_name,omitempty"` // prefix for state variables
}

func (FloatingData) jointData() {}

// Plane selects the plane of motion of a planar floating joint.
type Plane int

const (
	PlaneXZ Plane = iota
	PlaneYZ
	PlaneXY
)

func (p Plane) String() string {
	switch p {
	case PlaneXZ:
		return "xz"
	case PlaneYZ:
		return "yz"
	case PlaneXY:
		return "xy"
	default:
		return "unknown"
	}
}

// PlanarData parameterises a planar floating joint.
type PlanarData struct {
	Plane Plane `json:"plane"`
}

func (PlanarData) jointData() {}

// LimitStops holds the joint limit spring parameters.
type LimitStops struct {
	QMin   float64 `json:"q_min"`
	QMax   float64 `json:"q_max"`
	KLimit float64 `json:"k_limit"` // stiffness
	BLimit float64 `json:"b_limit"` // damping
}

// OneDOFData holds the parameters shared by pin and slider joints.
type OneDOFData struct {
	Axis            Vec3        `json:"axis"`
	Limits          *LimitStops `json:"limits,omitempty"`
	Damping         float64     `json:"damping"`
	Stiction        float64     `json:"stiction"`
	VelocityLimit   float64     `json:"velocity_limit"`
	VelocityDamping float64     `json:"velocity_damping"`
}

// ContainsLimitStops reports whether limit stops were declared.
func (d OneDOFData) ContainsLimitStops() bool { return d.Limits != nil }

// PinData parameterises a revolute joint.
type PinData struct {
	OneDOFData
}

func (PinData) jointData() {}

// SliderData parameterises a prismatic joint.
type SliderData struct {
	OneDOFData
}

func (SliderData) jointData() {}

// SphericalData parameterises a ball joint. The robot builder does not
// support this kind yet.
type SphericalData struct{}

func (SphericalData) jointData() {}
