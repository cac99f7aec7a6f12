package engine

import (
	"strings"
	"testing"

	"github.com/chazu/armature/pkg/description"
	"github.com/google/go-cmp/cmp"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(link "upper" :mass 2)`,
			expect: `(link "upper" "__kw_mass" 2)`,
		},
		{
			name:   "multiple keywords",
			input:  `(cylinder :radius 0.1 :height 1)`,
			expect: `(cylinder "__kw_radius" 0.1 "__kw_height" 1)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "escaped quote in string",
			input:  `"say \"a-b\" :x"`,
			expect: `"say \"a-b\" :x"`,
		},
		{
			name:   "backtick string preserved",
			input:  "`raw :kw a-b`",
			expect: "`raw :kw a-b`",
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(pin-joint "knee" :velocity-limit 3)`,
			expect: `(pin_joint "knee" "__kw_velocity-limit" 3)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative literal preserved",
			input:  `(vec3 0 -0.5 1e-3)`,
			expect: `(vec3 0 -0.5 1e-3)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  "; simple comment\n(x)",
			expect: "// simple comment\n(x)",
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:shape-collision`,
			expect: `"__kw_shape-collision"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func mustEval(t *testing.T, src string) *description.RobotDescription {
	t.Helper()
	rd, evalErrs, err := NewEngine().Evaluate(src)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	return rd
}

func evalError(t *testing.T, src string) string {
	t.Helper()
	rd, evalErrs, err := NewEngine().Evaluate(src)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if rd != nil || len(evalErrs) == 0 {
		t.Fatalf("expected eval errors for %s", src)
	}
	return evalErrs[0].Message
}

// ---------------------------------------------------------------------------
// Joint forms
// ---------------------------------------------------------------------------

func TestArmDescription(t *testing.T) {
	rd := mustEval(t, `
; two link arm
(robot "arm"
  (pin-joint "shoulder"
    :axis (vec3 0 1 0)
    :offset (vec3 0 0 1)
    :limits (list -1.5 1.5 100 5)
    :damping 0.5 :stiction 0.1
    :velocity-limit 3 :velocity-damping 2
    (link "upper" :mass 2 :com (vec3 0 0 -0.25) :inertia (diag 0.1 0.1 0.01))
    (ground-contact "shoulder_gc" :offset (vec3 0 0 -0.5))
    (force-sensor "shoulder_ft" :ground-contact true)
    (slider-joint "elbow"
      :offset (vec3 0 0 -0.5)
      :dynamic false
      (link "fore" :mesh-file "fore.obj" :color "grey" :scale 1)
      (ground-contact "elbow_gc" :group 1))))
`)

	if rd.Name != "arm" || len(rd.Roots) != 1 {
		t.Fatalf("robot %q with %d roots", rd.Name, len(rd.Roots))
	}
	shoulder := rd.MustLookup("shoulder")
	if shoulder.Kind != description.JointPin || shoulder.Offset != (description.Vec3{Z: 1}) {
		t.Errorf("shoulder = %s at %v", shoulder.Kind, shoulder.Offset)
	}
	pd := shoulder.Data.(description.PinData)
	want := description.OneDOFData{
		Axis:            description.Vec3{Y: 1},
		Limits:          &description.LimitStops{QMin: -1.5, QMax: 1.5, KLimit: 100, BLimit: 5},
		Damping:         0.5,
		Stiction:        0.1,
		VelocityLimit:   3,
		VelocityDamping: 2,
	}
	if diff := cmp.Diff(want, pd.OneDOFData); diff != "" {
		t.Errorf("shoulder data mismatch (-want +got):\n%s", diff)
	}
	if shoulder.Link.Name != "upper" || shoulder.Link.Mass != 2 || shoulder.Link.MomentOfInertia != description.Diag(0.1, 0.1, 0.01) {
		t.Errorf("shoulder link = %+v", shoulder.Link)
	}
	if len(shoulder.ForceSensors) != 1 || !shoulder.ForceSensors[0].UseGroundContactPoints {
		t.Errorf("force sensors = %+v", shoulder.ForceSensors)
	}

	elbow := rd.MustLookup("elbow")
	if len(shoulder.Children) != 1 || shoulder.Children[0] != elbow {
		t.Fatal("elbow should be the shoulder's only child")
	}
	if elbow.Kind != description.JointSlider || elbow.Dynamic {
		t.Errorf("elbow = %s dynamic=%v", elbow.Kind, elbow.Dynamic)
	}
	if g := elbow.Link.Graphics; g == nil || g.MeshFile != "fore.obj" || g.Color != "grey" || g.Scale != 1 {
		t.Errorf("elbow graphics = %+v", g)
	}
	if elbow.GroundContactPoints[0].GroupID != 1 {
		t.Errorf("elbow contact group = %d", elbow.GroundContactPoints[0].GroupID)
	}
	if shoulder.Link.Graphics != nil {
		t.Error("a link without graphics options should have no graphics description")
	}
}

func TestFloatingAndPlanarJoints(t *testing.T) {
	rd := mustEval(t, `
(robot "walker"
  (floating-joint "base" :variable "q_base" (link "pelvis")
    (planar-joint "sled" :plane :yz (link "sled_link"))
    (ball-joint "hip" (link "thigh"))))
`)
	base := rd.MustLookup("base")
	if fd := base.Data.(description.FloatingData); fd.VariableName != "q_base" {
		t.Errorf("variable = %q", fd.VariableName)
	}
	if pd := rd.MustLookup("sled").Data.(description.PlanarData); pd.Plane != description.PlaneYZ {
		t.Errorf("plane = %s", pd.Plane)
	}
	if rd.MustLookup("hip").Kind != description.JointSpherical {
		t.Error("ball-joint should produce a spherical joint")
	}
	var order []string
	for _, c := range base.Children {
		order = append(order, c.Name)
	}
	if diff := cmp.Diff([]string{"sled", "hip"}, order); diff != "" {
		t.Errorf("child order mismatch (-want +got):\n%s", diff)
	}
}

func TestCollisionGeometry(t *testing.T) {
	rd := mustEval(t, `
(robot "bot"
  (pin-joint "foot"
    (link "foot_link"
      (collision-mesh "sole" :contact-points 4
        (box :size (vec3 0.2 0.1 0.02))
        (sphere :radius 0.03 :offset (vec3 0.1 0 0)))
      (collision-mesh "ankle"
        (cylinder :radius 0.04 :height 0.1)))))
`)
	meshes := rd.MustLookup("foot").Link.CollisionMeshes
	if len(meshes) != 2 {
		t.Fatalf("expected 2 collision meshes, got %d", len(meshes))
	}
	want := description.CollisionMeshDescription{
		Name:                   "sole",
		EstimatedContactPoints: 4,
		Shapes: []description.CollisionShape{
			{Kind: description.ShapeBox, Size: description.Vec3{X: 0.2, Y: 0.1, Z: 0.02}},
			{Kind: description.ShapeSphere, Radius: 0.03, Offset: description.Vec3{X: 0.1}},
		},
	}
	if diff := cmp.Diff(want, meshes[0]); diff != "" {
		t.Errorf("sole mismatch (-want +got):\n%s", diff)
	}
	if s := meshes[1].Shapes[0]; s.Kind != description.ShapeCylinder || s.Height != 0.1 {
		t.Errorf("ankle shape = %+v", s)
	}
}

func TestSensorForms(t *testing.T) {
	rd := mustEval(t, `
(robot "bot"
  (pin-joint "head"
    (link "skull")
    (camera "eye" :transform (transform :translation (vec3 0.1 0 0)) :fov 1.2 :near 0.01 :far 40 :width 640 :height 480)
    (lidar "scanner" :points 720 :yaw-min -3 :yaw-max 3 :min-range 0.1 :max-range 30)
    (imu "inertial")
    (wrench-sensor "neck" :offset (vec3 0 0 -0.1))
    (external-force "push" :offset (vec3 0 0 0.2))
    (kinematic-point "nose" :offset (vec3 0.15 0 0))
    (force-sensor "neck_ft" :transform (transform :rpy (vec3 0 0 0)) :shape-collision true)))
`)
	head := rd.MustLookup("head")

	cam := head.Cameras[0]
	if cam.Name != "eye" || cam.FieldOfView != 1.2 || cam.ImageWidth != 640 || cam.Transform.Translation.X != 0.1 {
		t.Errorf("camera = %+v", cam)
	}
	if cam.Handle.IsZero() {
		t.Error("camera should carry a handle")
	}
	want := description.LidarScanParameters{PointsPerSweep: 720, SweepYawMin: -3, SweepYawMax: 3, MinRange: 0.1, MaxRange: 30}
	if head.Lidars[0].Scan != want {
		t.Errorf("lidar scan = %+v", head.Lidars[0].Scan)
	}
	if head.IMUs[0].Name != "inertial" || head.IMUs[0].Transform != description.IdentityTransform() {
		t.Errorf("imu = %+v", head.IMUs[0])
	}
	if head.WrenchSensors[0].Offset != (description.Vec3{Z: -0.1}) {
		t.Errorf("wrench sensor = %+v", head.WrenchSensors[0])
	}
	if head.ExternalForcePoints[0].Name != "push" || head.KinematicPoints[0].Name != "nose" {
		t.Error("points not attached")
	}
	fs := head.ForceSensors[0]
	if fs.UseGroundContactPoints || !fs.UseShapeCollision {
		t.Errorf("force sensor flags = %+v", fs)
	}
}

func TestLoopClosureResolvedByName(t *testing.T) {
	rd := mustEval(t, `
(robot "linkage"
  (pin-joint "left" (link "left_link")
    (loop-closure "bar" :link "right_tip_link"
      :parent-offset (vec3 1 0 0) :link-offset (vec3 -1 0 0)
      :moment-subspace (diag 0 0 1) :kp (vec3 10 10 10) :kd (vec3 1 1 1)))
  (pin-joint "right" (link "right_link")
    (pin-joint "right_tip" (link "right_tip_link"))))
`)
	lc := rd.MustLookup("left").LoopClosures[0]
	if lc.Link != rd.MustLookup("right_tip").Link {
		t.Fatal("loop closure should target the right_tip link description")
	}
	if lc.ForceSubSpace != description.Identity3() {
		t.Errorf("force subspace should default to identity, got %v", lc.ForceSubSpace)
	}
	if lc.MomentSubSpace != description.Diag(0, 0, 1) || lc.ProportionalGains.X != 10 {
		t.Errorf("loop closure = %+v", lc)
	}
}

func TestLoopClosureUnknownLinkGetsPlaceholder(t *testing.T) {
	rd := mustEval(t, `
(robot "linkage"
  (pin-joint "left" (link "left_link")
    (loop-closure "a" :link "ghost")
    (loop-closure "b" :link "ghost")))
`)
	lcs := rd.MustLookup("left").LoopClosures
	if lcs[0].Link == nil || lcs[0].Link.Name != "ghost" {
		t.Fatalf("placeholder link = %+v", lcs[0].Link)
	}
	if lcs[0].Link != lcs[1].Link {
		t.Error("closures naming the same missing link should share one placeholder")
	}
	if rd.LinkByName("ghost") != nil {
		t.Error("placeholder must not become part of the tree")
	}
}

func TestTransformForms(t *testing.T) {
	rd := mustEval(t, `
(robot "bot"
  (pin-joint "j" (link "l")
    (imu "a" :transform (transform :rotation (mat3 0 -1 0 1 0 0 0 0 1)))))
`)
	m := rd.MustLookup("j").IMUs[0].Transform.Rotation
	want := description.Mat3{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}}
	if m != want {
		t.Errorf("rotation = %v, want %v", m, want)
	}
}

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

func TestFormErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"vec3 arity", `(vec3 1 2)`, "vec3 requires exactly 3 arguments"},
		{"vec3 type", `(vec3 1 2 "z")`, "expected number"},
		{"unknown keyword", `(pin-joint "j" :dampign 1)`, "unknown keyword :dampign"},
		{"missing name", `(link :mass 1)`, "link requires a name"},
		{"two links", `(pin-joint "j" (link "a") (link "b"))`, "more than one link"},
		{"bad child", `(pin-joint "j" 42)`, "expected link, joint or attachment"},
		{"bad plane", `(planar-joint "p" :plane :xx)`, "invalid plane"},
		{"bad limits", `(pin-joint "j" :limits (list 1 2 3))`, "requires exactly 4 arguments"},
		{"inverted limits", `(pin-joint "j" :limits (list 1 -1 3 4))`, "exceeds upper bound"},
		{"mesh shape", `(collision-mesh "m" (vec3 1 1 1))`, "expected shape"},
		{"negative contact points", `(collision-mesh "m" :contact-points -2 (sphere :radius 1))`, "must not be negative"},
		{"link child", `(link "l" (box :size (vec3 1 1 1)))`, "expected collision-mesh"},
		{"robot root", `(robot "r" (link "l"))`, "expected joint"},
		{"loop closure link", `(loop-closure "c")`, "requires :link"},
		{"rpy and rotation", `(transform :rpy (vec3 0 0 1) :rotation (diag 1 1 1))`, "mutually exclusive"},
		{"attachment positional", `(imu "i" 3)`, "unexpected argument"},
		{"bool type", `(force-sensor "f" :ground-contact 1)`, "expected boolean"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := evalError(t, tt.src)
			if !strings.Contains(msg, tt.want) {
				t.Errorf("error %q does not contain %q", msg, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Argument parsing
// ---------------------------------------------------------------------------

func TestParseArgsTrailingKeyword(t *testing.T) {
	rd := mustEval(t, `(robot "bot" (pin-joint "j" (link "l") (force-sensor "f" :ground-contact)))`)
	if !rd.MustLookup("j").ForceSensors[0].UseGroundContactPoints {
		t.Error("a bare trailing keyword should read as true")
	}
}
