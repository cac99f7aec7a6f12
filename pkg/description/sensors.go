package description

// GroundContactPointDescription declares a contact point. Points sharing a
// GroupID are treated as one contactable unit.
type GroundContactPointDescription struct {
	Name    string `json:"name"`
	Offset  Vec3   `json:"offset"`
	GroupID int    `json:"group_id"`
}

// ExternalForcePointDescription declares a point where external forces act.
type ExternalForcePointDescription struct {
	Name   string `json:"name"`
	Offset Vec3   `json:"offset"`
}

// KinematicPointDescription declares a point tracked only kinematically.
type KinematicPointDescription struct {
	Name   string `json:"name"`
	Offset Vec3   `json:"offset"`
}

// CameraSensorDescription declares a camera mount.
type CameraSensorDescription struct {
	Handle      Handle    `json:"handle"`
	Name        string    `json:"name"`
	Transform   Transform `json:"transform"`
	FieldOfView float64   `json:"field_of_view"` // radians
	ClipNear    float64   `json:"clip_near"`
	ClipFar     float64   `json:"clip_far"`
	ImageWidth  int       `json:"image_width"`
	ImageHeight int       `json:"image_height"`
}

// NewCamera returns a camera description with a fresh handle.
func NewCamera(name string) *CameraSensorDescription {
	return &CameraSensorDescription{Handle: nextHandle(), Name: name, Transform: IdentityTransform()}
}

// LidarScanParameters is carried opaquely to the lidar mount.
type LidarScanParameters struct {
	PointsPerSweep int     `json:"points_per_sweep"`
	SweepYawMin    float64 `json:"sweep_yaw_min"`
	SweepYawMax    float64 `json:"sweep_yaw_max"`
	MinRange       float64 `json:"min_range"`
	MaxRange       float64 `json:"max_range"`
}

// LidarSensorDescription declares a range-scan sensor mount.
type LidarSensorDescription struct {
	Handle    Handle              `json:"handle"`
	Name      string              `json:"name"`
	Transform Transform           `json:"transform"`
	Scan      LidarScanParameters `json:"scan"`
}

// NewLidar returns a lidar description with a fresh handle.
func NewLidar(name string) *LidarSensorDescription {
	return &LidarSensorDescription{Handle: nextHandle(), Name: name, Transform: IdentityTransform()}
}

// IMUSensorDescription declares an inertial measurement unit mount.
type IMUSensorDescription struct {
	Handle    Handle    `json:"handle"`
	Name      string    `json:"name"`
	Transform Transform `json:"transform"`
}

// NewIMU returns an IMU description with a fresh handle.
func NewIMU(name string) *IMUSensorDescription {
	return &IMUSensorDescription{Handle: nextHandle(), Name: name, Transform: IdentityTransform()}
}

// JointWrenchSensorDescription declares a sensor reading the joint wrench.
type JointWrenchSensorDescription struct {
	Handle Handle `json:"handle"`
	Name   string `json:"name"`
	Offset Vec3   `json:"offset"`
}

// NewJointWrenchSensor returns a joint wrench sensor description with a
// fresh handle.
func NewJointWrenchSensor(name string, offset Vec3) *JointWrenchSensorDescription {
	return &JointWrenchSensorDescription{Handle: nextHandle(), Name: name, Offset: offset}
}

// ForceSensorDescription declares a force/torque sensor. The wrench is
// computed from ground contact points at and below the joint, from collision
// shapes, or from the joint reaction wrench.
type ForceSensorDescription struct {
	Name                   string    `json:"name"`
	Transform              Transform `json:"transform"`
	UseGroundContactPoints bool      `json:"use_ground_contact_points"`
	UseShapeCollision      bool      `json:"use_shape_collision"`
}

// LoopClosureDescription declares a soft constraint from the declaring joint
// to another link, closing a kinematic loop.
type LoopClosureDescription struct {
	Name                      string           `json:"name"`
	OffsetFromParentJoint     Vec3             `json:"offset_from_parent_joint"`
	OffsetFromLinkParentJoint Vec3             `json:"offset_from_link_parent_joint"`
	ForceSubSpace             Mat3             `json:"force_sub_space"`
	MomentSubSpace            Mat3             `json:"moment_sub_space"`
	ProportionalGains         Vec3             `json:"proportional_gains"`
	DerivativeGains           Vec3             `json:"derivative_gains"`
	Link                      *LinkDescription `json:"link"`
}
