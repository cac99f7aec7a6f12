package description

import (
	"math"
	"sync/atomic"
)

// Handle is a process-unique identifier standing in for the identity of a
// description object. Lookup tables key on handles rather than pointers.
type Handle uint64

// ZeroHandle is the unassigned handle.
const ZeroHandle Handle = 0

// IsZero reports whether the handle was never assigned.
func (h Handle) IsZero() bool { return h == ZeroHandle }

var handleCounter uint64

func nextHandle() Handle {
	return Handle(atomic.AddUint64(&handleCounter, 1))
}

// Vec3 is a 3D vector in metres (or radians for rotations).
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Cross returns the cross product v x o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// IsZero reports whether all components are zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Mat3 is a row-major 3x3 matrix.
type Mat3 [3][3]float64

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Diag returns a diagonal matrix, used for principal moments of inertia.
func Diag(a, b, c float64) Mat3 {
	return Mat3{{a, 0, 0}, {0, b, 0}, {0, 0, c}}
}

// MulVec returns m * v.
func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Mul returns m * o.
func (m Mat3) Mul(o Mat3) Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				r[i][j] += m[i][k] * o[k][j]
			}
		}
	}
	return r
}

// Transpose returns the transpose of m. For rotations this is the inverse.
func (m Mat3) Transpose() Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[j][i]
		}
	}
	return r
}

// RotationRPY builds a rotation matrix from roll, pitch and yaw in radians,
// applied in X, then Y, then Z order.
func RotationRPY(roll, pitch, yaw float64) Mat3 {
	cr, sr := math.Cos(roll), math.Sin(roll)
	cp, sp := math.Cos(pitch), math.Sin(pitch)
	cy, sy := math.Cos(yaw), math.Sin(yaw)
	rx := Mat3{{1, 0, 0}, {0, cr, -sr}, {0, sr, cr}}
	ry := Mat3{{cp, 0, sp}, {0, 1, 0}, {-sp, 0, cp}}
	rz := Mat3{{cy, -sy, 0}, {sy, cy, 0}, {0, 0, 1}}
	return rz.Mul(ry).Mul(rx)
}

// Transform is a rigid transform from a sensor frame to its joint frame.
type Transform struct {
	Rotation    Mat3 `json:"rotation"`
	Translation Vec3 `json:"translation"`
}

// IdentityTransform returns the transform with no rotation or translation.
func IdentityTransform() Transform {
	return Transform{Rotation: Identity3()}
}

// Translation returns a pure translation transform.
func Translation(v Vec3) Transform {
	return Transform{Rotation: Identity3(), Translation: v}
}

// Inverse maps a point from the parent frame into the transform's frame.
func (t Transform) Inverse(p Vec3) Vec3 {
	return t.Rotation.Transpose().MulVec(p.Sub(t.Translation))
}

// Apply maps a point from the transform's frame into the parent frame.
func (t Transform) Apply(p Vec3) Vec3 {
	return t.Rotation.MulVec(p).Add(t.Translation)
}
