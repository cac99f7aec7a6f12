package robot

import "github.com/chazu/armature/pkg/description"

// Sensor is the uniform view of everything mounted on a joint's sensor list.
type Sensor interface {
	SensorName() string
	Joint() *Joint
}

// CameraMount is a camera fixed to a joint frame.
type CameraMount struct {
	name        string
	transform   description.Transform
	fieldOfView float64
	clipNear    float64
	clipFar     float64
	imageWidth  int
	imageHeight int
	joint       *Joint
}

func (c *CameraMount) SensorName() string                      { return c.name }
func (c *CameraMount) Name() string                            { return c.name }
func (c *CameraMount) Joint() *Joint                           { return c.joint }
func (c *CameraMount) TransformToJoint() description.Transform { return c.transform }
func (c *CameraMount) FieldOfView() float64                    { return c.fieldOfView }
func (c *CameraMount) ClipDistances() (near, far float64)      { return c.clipNear, c.clipFar }
func (c *CameraMount) ImageSize() (width, height int)          { return c.imageWidth, c.imageHeight }

// LidarMount is a range-scan sensor fixed to a joint frame.
type LidarMount struct {
	name      string
	transform description.Transform
	scan      description.LidarScanParameters
	joint     *Joint
}

func (l *LidarMount) SensorName() string                      { return l.name }
func (l *LidarMount) Name() string                            { return l.name }
func (l *LidarMount) Joint() *Joint                           { return l.joint }
func (l *LidarMount) TransformToJoint() description.Transform { return l.transform }
func (l *LidarMount) ScanParameters() description.LidarScanParameters {
	return l.scan
}

// IMUMount is an inertial measurement unit fixed to a joint frame.
type IMUMount struct {
	name      string
	transform description.Transform
	joint     *Joint
}

func (m *IMUMount) SensorName() string                      { return m.name }
func (m *IMUMount) Name() string                            { return m.name }
func (m *IMUMount) Joint() *Joint                           { return m.joint }
func (m *IMUMount) TransformToJoint() description.Transform { return m.transform }

// JointWrenchSensor reports the joint reaction wrench expressed at an offset
// from the joint origin.
type JointWrenchSensor struct {
	name   string
	offset description.Vec3
	joint  *Joint
}

func (s *JointWrenchSensor) SensorName() string       { return s.name }
func (s *JointWrenchSensor) Name() string             { return s.name }
func (s *JointWrenchSensor) Joint() *Joint            { return s.joint }
func (s *JointWrenchSensor) Offset() description.Vec3 { return s.offset }

// Wrench returns the joint reaction wrench moved to the sensor offset.
func (s *JointWrenchSensor) Wrench() Wrench {
	return s.joint.ReactionWrench().ShiftTo(s.offset)
}
