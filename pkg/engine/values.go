package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/chazu/armature/pkg/description"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a description.Vec3.
type sexpVec3 struct {
	vec description.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpMat3 wraps a description.Mat3.
type sexpMat3 struct {
	m description.Mat3
}

func (m *sexpMat3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(mat3 %v)", m.m)
}
func (m *sexpMat3) Type() *zygo.RegisteredType { return nil }

// sexpTransform wraps a description.Transform.
type sexpTransform struct {
	t description.Transform
}

func (t *sexpTransform) SexpString(ps *zygo.PrintState) string {
	p := t.t.Translation
	return fmt.Sprintf("(transform :translation (vec3 %g %g %g))", p.X, p.Y, p.Z)
}
func (t *sexpTransform) Type() *zygo.RegisteredType { return nil }

// sexpShape wraps one collision primitive.
type sexpShape struct {
	shape description.CollisionShape
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s)", s.shape.Kind)
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

// sexpCollisionMesh wraps a collision mesh so it can be consumed by `link`.
type sexpCollisionMesh struct {
	mesh description.CollisionMeshDescription
}

func (m *sexpCollisionMesh) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(collision-mesh %q)", m.mesh.Name)
}
func (m *sexpCollisionMesh) Type() *zygo.RegisteredType { return nil }

// sexpLink wraps a link description so it can be consumed by joint forms.
type sexpLink struct {
	link *description.LinkDescription
}

func (l *sexpLink) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(link %q)", l.link.Name)
}
func (l *sexpLink) Type() *zygo.RegisteredType { return nil }

// sexpJoint wraps a joint description so it can be nested in a parent
// joint or a robot.
type sexpJoint struct {
	joint *description.JointDescription
}

func (j *sexpJoint) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s-joint %q)", j.joint.Kind, j.joint.Name)
}
func (j *sexpJoint) Type() *zygo.RegisteredType { return nil }

// sexpAttachment is a point, sensor or constraint waiting for the joint
// form that will own it.
type sexpAttachment struct {
	form   string
	name   string
	attach func(jd *description.JointDescription)
}

func (a *sexpAttachment) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s %q)", a.form, a.name)
}
func (a *sexpAttachment) Type() *zygo.RegisteredType { return nil }

// sexpRobot wraps the description produced by `robot`.
type sexpRobot struct {
	rd *description.RobotDescription
}

func (r *sexpRobot) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(robot %q)", r.rd.Name)
}
func (r *sexpRobot) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	form       string
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments. A
// trailing keyword with no value is recorded as SexpNull.
func parseArgs(form string, args []zygo.Sexp) kwArgs {
	result := kwArgs{form: form, kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		if name, ok := isKW(args[i]); ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i++
			} else {
				result.kw[name] = zygo.SexpNull
			}
			continue
		}
		result.positional = append(result.positional, args[i])
	}
	return result
}

// allow reports the first keyword not in allowed, catching typos such as
// :dampign that would otherwise be silently ignored.
func (pa kwArgs) allow(allowed ...string) error {
	var unknown []string
	for k := range pa.kw {
		found := false
		for _, a := range allowed {
			if k == a {
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("%s: unknown keyword :%s", pa.form, unknown[0])
}

// The get* helpers store keyword values into dst when present and leave dst
// untouched otherwise.

func (pa kwArgs) getFloat(key string, dst *float64) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", pa.form, key, err)
	}
	*dst = f
	return nil
}

func (pa kwArgs) getInt(key string, dst *int) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	n, err := toInt(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", pa.form, key, err)
	}
	*dst = n
	return nil
}

func (pa kwArgs) getString(key string, dst *string) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	s, err := toString(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", pa.form, key, err)
	}
	*dst = s
	return nil
}

func (pa kwArgs) getBool(key string, dst *bool) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	b, err := toBool(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", pa.form, key, err)
	}
	*dst = b
	return nil
}

func (pa kwArgs) getVec3(key string, dst *description.Vec3) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	vec, err := toVec3(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", pa.form, key, err)
	}
	*dst = vec
	return nil
}

func (pa kwArgs) getMat3(key string, dst *description.Mat3) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	m, err := toMat3(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", pa.form, key, err)
	}
	*dst = m
	return nil
}

func (pa kwArgs) getTransform(key string, dst *description.Transform) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	t, ok := v.(*sexpTransform)
	if !ok {
		return fmt.Errorf("%s: %s: expected transform, got %T (%s)", pa.form, key, v, v.SexpString(nil))
	}
	*dst = t.t
	return nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an integer, accepting floats with no fractional part.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) {
			return int(v.Val), nil
		}
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a boolean. A bare trailing keyword counts as true.
func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	if s == zygo.SexpNull {
		return true, nil
	}
	return false, fmt.Errorf("expected boolean, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

// toPlane converts :xz, :yz or :xy to a description.Plane.
func toPlane(s zygo.Sexp) (description.Plane, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected plane keyword (:xz, :yz, :xy): %w", err)
	}
	switch name {
	case "xz":
		return description.PlaneXZ, nil
	case "yz":
		return description.PlaneYZ, nil
	case "xy":
		return description.PlaneXY, nil
	}
	return 0, fmt.Errorf("invalid plane %q, expected xz, yz, or xy", name)
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (description.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return description.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toMat3 extracts a Mat3 from a sexpMat3.
func toMat3(s zygo.Sexp) (description.Mat3, error) {
	if m, ok := s.(*sexpMat3); ok {
		return m.m, nil
	}
	return description.Mat3{}, fmt.Errorf("expected mat3, got %T (%s)", s, s.SexpString(nil))
}

// toFloats converts n numeric arguments.
func toFloats(form string, args []zygo.Sexp, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires exactly %d arguments, got %d", form, n, len(args))
	}
	out := make([]float64, n)
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", form, i+1, err)
		}
		out[i] = f
	}
	return out, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// requireName extracts the leading name argument shared by named forms.
func requireName(form string, args []zygo.Sexp) (string, []zygo.Sexp, error) {
	if len(args) < 1 {
		return "", nil, fmt.Errorf("%s requires a name argument", form)
	}
	name, err := toString(args[0])
	if err != nil {
		return "", nil, fmt.Errorf("%s: name: %w", form, err)
	}
	if strings.HasPrefix(name, kwPrefix) {
		return "", nil, fmt.Errorf("%s requires a name before keyword :%s", form, name[len(kwPrefix):])
	}
	return name, args[1:], nil
}
