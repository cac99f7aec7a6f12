package robot

import (
	"errors"
	"strings"
	"testing"

	"github.com/chazu/armature/pkg/description"
	"github.com/google/go-cmp/cmp"
)

// ---------------------------------------------------------------------------
// Attachments and sensor mounts
// ---------------------------------------------------------------------------

func TestSensorRegistries(t *testing.T) {
	head := pin("head")
	cam := description.NewCamera("eye")
	cam.FieldOfView = 1.2
	cam.ClipNear, cam.ClipFar = 0.01, 50
	cam.ImageWidth, cam.ImageHeight = 640, 480
	lidar := description.NewLidar("scanner")
	lidar.Scan = description.LidarScanParameters{PointsPerSweep: 720, MaxRange: 30}
	imu := description.NewIMU("inertial")
	wrench := description.NewJointWrenchSensor("neck_wrench", description.Vec3{Z: 0.05})
	head.Cameras = append(head.Cameras, cam)
	head.Lidars = append(head.Lidars, lidar)
	head.IMUs = append(head.IMUs, imu)
	head.WrenchSensors = append(head.WrenchSensors, wrench)

	r := mustBuild(t, robotOf(head))
	j := r.Joint("head")

	c := r.CameraMount("eye")
	if c == nil || c != r.CameraMountByDescription(cam) {
		t.Fatal("camera should be reachable by name and by description")
	}
	if c.Joint() != j || c.FieldOfView() != 1.2 {
		t.Errorf("camera joint/fov = %v/%v", c.Joint().Name(), c.FieldOfView())
	}
	if w, h := c.ImageSize(); w != 640 || h != 480 {
		t.Errorf("image size = %dx%d", w, h)
	}

	l := r.LidarMount("scanner")
	if l == nil || l != r.LidarMountByDescription(lidar) {
		t.Fatal("lidar should be reachable by name and by description")
	}
	if l.ScanParameters() != lidar.Scan {
		t.Errorf("scan parameters = %+v, want %+v", l.ScanParameters(), lidar.Scan)
	}

	if m := r.IMUMount("inertial"); m == nil || m != r.IMUMountByDescription(imu) || m.Joint() != j {
		t.Error("imu should be reachable by name and by description")
	}

	s := r.JointWrenchSensor("neck_wrench")
	if s == nil || s != r.JointWrenchSensorByDescription(wrench) {
		t.Fatal("wrench sensor should be reachable by name and by description")
	}
	if s.Offset() != (description.Vec3{Z: 0.05}) {
		t.Errorf("wrench sensor offset = %v", s.Offset())
	}

	sensors := j.Sensors()
	if len(sensors) != 1 || sensors[0] != Sensor(l) {
		t.Errorf("generic sensor list = %v, want only the lidar", sensors)
	}
}

func TestPointAttachments(t *testing.T) {
	foot := pin("foot")
	foot.GroundContactPoints = []description.GroundContactPointDescription{
		{Name: "heel", Offset: description.Vec3{X: -0.1}, GroupID: 1},
		{Name: "toe", Offset: description.Vec3{X: 0.1}, GroupID: 2},
		{Name: "toe_tip", Offset: description.Vec3{X: 0.15}, GroupID: 2},
	}
	foot.ExternalForcePoints = []description.ExternalForcePointDescription{{Name: "push", Offset: description.Vec3{Z: 0.2}}}
	foot.KinematicPoints = []description.KinematicPointDescription{{Name: "marker", Offset: description.Vec3{Y: 0.3}}}

	r := mustBuild(t, robotOf(foot))
	j := r.Joint("foot")

	if diff := cmp.Diff([]string{"heel", "toe", "toe_tip"}, pointNames(j.GroundContactPoints())); diff != "" {
		t.Errorf("ground contact points mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2}, j.GroundContactGroupIDs()); diff != "" {
		t.Errorf("group ids mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"toe", "toe_tip"}, pointNames(j.GroundContactGroup(2))); diff != "" {
		t.Errorf("group 2 mismatch (-want +got):\n%s", diff)
	}
	for _, p := range j.GroundContactPoints() {
		if p.Joint() != j {
			t.Errorf("point %q not bound to its joint", p.Name())
		}
	}
	if diff := cmp.Diff(pointNames(j.GroundContactPoints()), pointNames(r.GroundContactPointsOnJoint(j))); diff != "" {
		t.Errorf("registry bucket mismatch (-want +got):\n%s", diff)
	}

	if efp := j.ExternalForcePoints(); len(efp) != 1 || efp[0].Name() != "push" || efp[0].Joint() != j {
		t.Errorf("external force points = %v", efp)
	}
	if kp := j.KinematicPoints(); len(kp) != 1 || kp[0].Offset() != (description.Vec3{Y: 0.3}) {
		t.Errorf("kinematic points = %v", kp)
	}
}

func TestJointWithoutContactsHasNoBucket(t *testing.T) {
	root := withContacts(pin("root"), "gc")
	root.AddChild(pin("bare"))

	r := mustBuild(t, robotOf(root))
	if pts := r.GroundContactPointsOnJoint(r.Joint("bare")); pts != nil {
		t.Errorf("bare joint bucket = %v, want nil", pts)
	}
}

type fixedEstimate int

func (f fixedEstimate) EstimateContactPoints(description.CollisionMeshDescription) int { return int(f) }

func TestCollisionContactCapacity(t *testing.T) {
	tests := []struct {
		name      string
		meshes    []description.CollisionMeshDescription
		estimator ContactEstimator
		want      int
	}{
		{"no meshes", nil, nil, 0},
		{"declared estimates", []description.CollisionMeshDescription{
			{Name: "a", EstimatedContactPoints: 4},
			{Name: "b", EstimatedContactPoints: 2},
		}, nil, 6},
		{"custom estimator", []description.CollisionMeshDescription{{Name: "a"}, {Name: "b"}}, fixedEstimate(8), 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jd := pin("hull")
			jd.Link.CollisionMeshes = tt.meshes
			r := mustBuild(t, robotOf(jd), WithContactEstimator(tt.estimator))

			j := r.Joint("hull")
			contacting := j.Link().ContactingExternalForcePoints()
			if len(contacting) != tt.want {
				t.Fatalf("contacting points = %d, want %d", len(contacting), tt.want)
			}
			if len(j.ExternalForcePoints()) != tt.want {
				t.Errorf("joint external force points = %d, want %d", len(j.ExternalForcePoints()), tt.want)
			}
			if tt.want > 0 && contacting[0].Name() != "hull_link_contact_0" {
				t.Errorf("first contact name = %q", contacting[0].Name())
			}
		})
	}
}

func TestNegativeContactEstimateIsMalformed(t *testing.T) {
	tests := []struct {
		name      string
		meshes    []description.CollisionMeshDescription
		estimator ContactEstimator
	}{
		{"declared", []description.CollisionMeshDescription{
			{Name: "toe", EstimatedContactPoints: 2},
			{Name: "sole", EstimatedContactPoints: -1},
		}, nil},
		{"custom estimator", []description.CollisionMeshDescription{{Name: "sole"}}, fixedEstimate(-3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := pin("hip")
			foot := pin("foot")
			foot.Link.CollisionMeshes = tt.meshes
			root.AddChild(foot)

			r, err := Build(robotOf(root), WithContactEstimator(tt.estimator))
			if r != nil {
				t.Error("a failed build must not return a robot")
			}
			var be *BuildError
			if !errors.As(err, &be) {
				t.Fatalf("err = %v, want *BuildError", err)
			}
			if be.Kind != ErrMalformedNode || be.Name != "foot" {
				t.Errorf("got %s for %q, want malformed node for \"foot\"", be.Kind, be.Name)
			}
			if !strings.Contains(be.Detail, `collision mesh "sole"`) {
				t.Errorf("detail should name the mesh: %q", be.Detail)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Loop closures
// ---------------------------------------------------------------------------

func TestLoopClosureResolvesAcrossSubtrees(t *testing.T) {
	left := pin("left")
	right := pin("right")
	rightTip := pin("right_tip")
	right.AddChild(rightTip)
	left.LoopClosures = []description.LoopClosureDescription{{
		Name:                      "bar",
		OffsetFromParentJoint:     description.Vec3{X: 1},
		OffsetFromLinkParentJoint: description.Vec3{X: -1},
		ForceSubSpace:             description.Identity3(),
		MomentSubSpace:            description.Diag(0, 0, 1),
		ProportionalGains:         description.Vec3{X: 10, Y: 10, Z: 10},
		DerivativeGains:           description.Vec3{X: 1, Y: 1, Z: 1},
		Link:                      rightTip.Link,
	}}

	r := mustBuild(t, robotOf(left, right))

	lc := r.Joint("left").LoopClosures()
	if len(lc) != 1 {
		t.Fatalf("left has %d loop closures, want 1", len(lc))
	}
	c := lc[0]
	if c.Owner() != r.Joint("left") || c.Link() != r.Joint("right_tip").Link() {
		t.Errorf("constraint wired %q -> %q", c.Owner().Name(), c.Link().Name())
	}
	if a, b := c.Offsets(); a != (description.Vec3{X: 1}) || b != (description.Vec3{X: -1}) {
		t.Errorf("offsets = %v, %v", a, b)
	}
	if _, m := c.SubSpaces(); m != description.Diag(0, 0, 1) {
		t.Errorf("moment subspace = %v", m)
	}
	if kp, kd := c.Gains(); kp.X != 10 || kd.Z != 1 {
		t.Errorf("gains = %v, %v", kp, kd)
	}
	if len(r.Joint("right_tip").Children()) != 0 {
		t.Error("loop closures must not add tree edges")
	}
}

func TestDanglingLoopClosure(t *testing.T) {
	root := pin("root")
	stray := description.NewLink("stray")
	root.LoopClosures = []description.LoopClosureDescription{{Name: "bar", Link: stray}}

	r, err := Build(robotOf(root))
	if r != nil {
		t.Error("a failed build must not return a robot")
	}
	if !errors.Is(err, ErrDanglingReference) {
		t.Fatalf("err = %v, want ErrDanglingReference", err)
	}
	var be *BuildError
	if !errors.As(err, &be) || be.Name != "stray" {
		t.Errorf("error should name the missing link, got %v", err)
	}
}

func TestLoopClosureWithoutLink(t *testing.T) {
	root := pin("root")
	root.LoopClosures = []description.LoopClosureDescription{{Name: "bar"}}
	if _, err := Build(robotOf(root)); !errors.Is(err, ErrDanglingReference) {
		t.Fatalf("err = %v, want ErrDanglingReference", err)
	}
}

func TestResolversRequireCompletedTree(t *testing.T) {
	roots := []*description.JointDescription{pin("root")}

	b := newBuilder()
	if err := b.resolveLoopClosures(roots); !errors.Is(err, ErrPassOrder) {
		t.Errorf("loop closures before pass one: err = %v, want ErrPassOrder", err)
	}
	if err := b.resolveForceSensors(roots); !errors.Is(err, ErrPassOrder) {
		t.Errorf("force sensors before pass one: err = %v, want ErrPassOrder", err)
	}

	j, err := b.constructJointRecursively(roots[0])
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	b.roots = append(b.roots, j)
	b.phase = phaseTreeBuilt
	if err := b.resolveLoopClosures(roots); err != nil {
		t.Fatalf("loop closures after pass one: %v", err)
	}
	if err := b.resolveLoopClosures(roots); !errors.Is(err, ErrPassOrder) {
		t.Errorf("second loop closure pass: err = %v, want ErrPassOrder", err)
	}
	if err := b.resolveForceSensors(roots); err != nil {
		t.Errorf("force sensors after loop closures: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Force sensors
// ---------------------------------------------------------------------------

func TestGroundContactAggregation(t *testing.T) {
	root := pin("root")
	a := pin("a")
	b := withContacts(pin("b"), "b1", "b2")
	c := withContacts(pin("c"), "c1")
	d := pin("d")
	root.AddChild(a)
	a.AddChild(b)
	b.AddChild(c)
	b.AddChild(d)

	gcSensor := func(name string) []description.ForceSensorDescription {
		return []description.ForceSensorDescription{{
			Name:                   name,
			Transform:              description.IdentityTransform(),
			UseGroundContactPoints: true,
		}}
	}
	a.ForceSensors = gcSensor("a_ft")
	d.ForceSensors = gcSensor("d_ft")

	r := mustBuild(t, robotOf(root))

	tests := []struct {
		joint string
		want  []string
	}{
		{"a", []string{"b1", "b2", "c1"}},
		{"d", []string{}},
	}
	for _, tt := range tests {
		fs := r.Joint(tt.joint).ForceSensors()
		if len(fs) != 1 {
			t.Fatalf("%s: %d force sensors, want 1", tt.joint, len(fs))
		}
		calc := fs[0].(*GroundContactWrenchCalculator)
		if calc.Kind() != CalculatorGroundContact {
			t.Errorf("%s: kind = %s", tt.joint, calc.Kind())
		}
		if diff := cmp.Diff(tt.want, pointNames(calc.GroundContactPoints())); diff != "" {
			t.Errorf("%s: aggregated points mismatch (-want +got):\n%s", tt.joint, diff)
		}
	}
}

func TestCollisionModeTakesPrecedence(t *testing.T) {
	hull := withContacts(pin("hull"), "gc")
	hull.Link.CollisionMeshes = []description.CollisionMeshDescription{{Name: "shell", EstimatedContactPoints: 3}}
	hull.ForceSensors = []description.ForceSensorDescription{{
		Name:                   "hull_ft",
		Transform:              description.IdentityTransform(),
		UseGroundContactPoints: true,
		UseShapeCollision:      true,
	}}

	r := mustBuild(t, robotOf(hull))
	fs := r.Joint("hull").ForceSensors()
	calc, ok := fs[0].(*CollisionShapeWrenchCalculator)
	if !ok {
		t.Fatalf("force sensor is %T, want *CollisionShapeWrenchCalculator", fs[0])
	}
	if len(calc.Points()) != 3 {
		t.Errorf("collision calculator covers %d points, want 3", len(calc.Points()))
	}
}

func TestJointReactionSensor(t *testing.T) {
	tests := []struct {
		name  string
		shape bool
	}{
		{"no aggregation", false},
		{"shape collision alone", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jd := pin("ankle")
			jd.ForceSensors = []description.ForceSensorDescription{{
				Name:              "ankle_ft",
				Transform:         description.Translation(description.Vec3{Z: 0.5}),
				UseShapeCollision: tt.shape,
			}}

			r := mustBuild(t, robotOf(jd))
			j := r.Joint("ankle")

			calc, ok := j.ForceSensors()[0].(*JointReactionWrenchCalculator)
			if !ok {
				t.Fatalf("force sensor is %T, want *JointReactionWrenchCalculator", j.ForceSensors()[0])
			}
			ws := j.JointWrenchSensors()
			if len(ws) != 1 || ws[0].Name() != "ankle_ft" || ws[0].Offset() != (description.Vec3{Z: 0.5}) {
				t.Fatalf("auxiliary wrench sensors = %v", ws)
			}
			if r.JointWrenchSensor("ankle_ft") != nil {
				t.Error("auxiliary wrench sensor must not be registered")
			}

			reaction := Wrench{Force: description.Vec3{X: 2}, Torque: description.Vec3{Y: 1}}
			j.SetReactionWrench(reaction)
			if got := calc.Calculate(); got != reaction {
				t.Errorf("Calculate = %+v, want %+v", got, reaction)
			}
			// tau' = tau - p x F with p = (0,0,0.5), F = (2,0,0): p x F = (0,1,0)
			want := Wrench{Force: description.Vec3{X: 2}, Torque: description.Vec3{}}
			if got := ws[0].Wrench(); got != want {
				t.Errorf("sensor wrench = %+v, want %+v", got, want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Wrench math
// ---------------------------------------------------------------------------

func TestPointWrenchCalculate(t *testing.T) {
	root := withContacts(pin("root"))
	child := pin("child")
	child.Offset = description.Vec3{X: 1}
	child.GroundContactPoints = []description.GroundContactPointDescription{
		{Name: "p", Offset: description.Vec3{Y: 1}},
	}
	root.AddChild(child)
	root.GroundContactPoints = []description.GroundContactPointDescription{{Name: "q"}}
	root.ForceSensors = []description.ForceSensorDescription{{
		Name:                   "ft",
		Transform:              description.IdentityTransform(),
		UseGroundContactPoints: true,
	}}

	r := mustBuild(t, robotOf(root))
	up := description.Vec3{Z: 1}
	r.Joint("child").GroundContactPoints()[0].SetForce(up, description.Vec3{})
	r.Joint("root").GroundContactPoints()[0].SetForce(up, description.Vec3{X: 0.5})

	got := r.Joint("root").ForceSensors()[0].Calculate()
	// p sits at (1,1,0): (1,1,0) x (0,0,1) = (1,-1,0); q adds its moment.
	want := Wrench{
		Force:  description.Vec3{Z: 2},
		Torque: description.Vec3{X: 1.5, Y: -1},
	}
	if got != want {
		t.Errorf("Calculate = %+v, want %+v", got, want)
	}
}

func TestPointWrenchSensorFrame(t *testing.T) {
	jd := withContacts(pin("root"))
	jd.GroundContactPoints = []description.GroundContactPointDescription{{Name: "p"}}
	jd.ForceSensors = []description.ForceSensorDescription{{
		Name: "ft",
		Transform: description.Transform{
			Rotation:    description.RotationRPY(0, 0, 0),
			Translation: description.Vec3{Y: 1},
		},
		UseGroundContactPoints: true,
	}}

	r := mustBuild(t, robotOf(jd))
	r.Joint("root").GroundContactPoints()[0].SetForce(description.Vec3{Z: 1}, description.Vec3{})

	got := r.Joint("root").ForceSensors()[0].Calculate()
	// Torque about (0,1,0): 0 - (0,1,0) x (0,0,1) = -(1,0,0).
	want := Wrench{Force: description.Vec3{Z: 1}, Torque: description.Vec3{X: -1}}
	if got != want {
		t.Errorf("Calculate = %+v, want %+v", got, want)
	}
}

func TestCalculatorKindString(t *testing.T) {
	tests := []struct {
		kind CalculatorKind
		want string
	}{
		{CalculatorGroundContact, "ground-contact"},
		{CalculatorCollisionShape, "collision-shape"},
		{CalculatorJointReaction, "joint-reaction"},
		{CalculatorKind(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("CalculatorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
