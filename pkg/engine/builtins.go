package engine

import (
	"fmt"

	"github.com/chazu/armature/pkg/description"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Evaluation state
// ---------------------------------------------------------------------------

// pendingLoopClosure records a loop closure whose target link is named in
// source and resolved once the whole program has run.
type pendingLoopClosure struct {
	joint    *description.JointDescription
	index    int
	linkName string
}

// evalState collects what the builtins produce during one evaluation.
type evalState struct {
	robots     []*description.RobotDescription
	pending    []pendingLoopClosure
	unresolved int
}

func newEvalState() *evalState {
	return &evalState{}
}

// finish picks the robot produced by the program and resolves loop closure
// targets by link name. A name with no matching link gets a placeholder
// link that is not part of the tree, so building reports it as dangling.
func (st *evalState) finish() (*description.RobotDescription, []EvalError) {
	switch len(st.robots) {
	case 0:
		return nil, []EvalError{{Message: "program did not evaluate a robot form"}}
	case 1:
	default:
		return nil, []EvalError{{Message: fmt.Sprintf("program evaluated %d robot forms, expected one", len(st.robots))}}
	}
	rd := st.robots[0]

	placeholders := make(map[string]*description.LinkDescription)
	for _, p := range st.pending {
		link := rd.LinkByName(p.linkName)
		if link == nil {
			link = placeholders[p.linkName]
			if link == nil {
				link = description.NewLink(p.linkName)
				placeholders[p.linkName] = link
				st.unresolved++
			}
		}
		p.joint.LoopClosures[p.index].Link = link
	}
	return rd, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs all description DSL builtins into a zygomys
// environment. Hyphenated forms are registered under their underscored
// names, matching what preprocessSource produces.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, st *evalState) {

	// -----------------------------------------------------------------------
	// Math values: (vec3 x y z) (mat3 a b c d e f g h i) (diag a b c)
	// (transform :translation (vec3 ...) :rpy (vec3 ...) :rotation (mat3 ...))
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		f, err := toFloats("vec3", args, 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpVec3{vec: description.Vec3{X: f[0], Y: f[1], Z: f[2]}}, nil
	})

	env.AddFunction("mat3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		f, err := toFloats("mat3", args, 9)
		if err != nil {
			return zygo.SexpNull, err
		}
		var m description.Mat3
		for i := range f {
			m[i/3][i%3] = f[i]
		}
		return &sexpMat3{m: m}, nil
	})

	env.AddFunction("diag", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		f, err := toFloats("diag", args, 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpMat3{m: description.Diag(f[0], f[1], f[2])}, nil
	})

	env.AddFunction("transform", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs("transform", args)
		if err := pa.allow("translation", "rpy", "rotation"); err != nil {
			return zygo.SexpNull, err
		}
		if _, rpy := pa.kw["rpy"]; rpy {
			if _, rot := pa.kw["rotation"]; rot {
				return zygo.SexpNull, fmt.Errorf("transform: :rpy and :rotation are mutually exclusive")
			}
		}
		t := description.IdentityTransform()
		if err := pa.getVec3("translation", &t.Translation); err != nil {
			return zygo.SexpNull, err
		}
		var rpy description.Vec3
		if err := pa.getVec3("rpy", &rpy); err != nil {
			return zygo.SexpNull, err
		}
		if !rpy.IsZero() {
			t.Rotation = description.RotationRPY(rpy.X, rpy.Y, rpy.Z)
		}
		if err := pa.getMat3("rotation", &t.Rotation); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpTransform{t: t}, nil
	})

	// -----------------------------------------------------------------------
	// Collision geometry:
	// (box :size (vec3 ...) :offset (vec3 ...))
	// (sphere :radius r :offset (vec3 ...))
	// (cylinder :radius r :height h :offset (vec3 ...))
	// (collision-mesh "name" :contact-points n shape...)
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs("box", args)
		if err := pa.allow("size", "offset"); err != nil {
			return zygo.SexpNull, err
		}
		s := description.CollisionShape{Kind: description.ShapeBox}
		if err := pa.getVec3("size", &s.Size); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.getVec3("offset", &s.Offset); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpShape{shape: s}, nil
	})

	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs("sphere", args)
		if err := pa.allow("radius", "offset"); err != nil {
			return zygo.SexpNull, err
		}
		s := description.CollisionShape{Kind: description.ShapeSphere}
		if err := pa.getFloat("radius", &s.Radius); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.getVec3("offset", &s.Offset); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpShape{shape: s}, nil
	})

	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs("cylinder", args)
		if err := pa.allow("radius", "height", "offset"); err != nil {
			return zygo.SexpNull, err
		}
		s := description.CollisionShape{Kind: description.ShapeCylinder}
		if err := pa.getFloat("radius", &s.Radius); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.getFloat("height", &s.Height); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.getVec3("offset", &s.Offset); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpShape{shape: s}, nil
	})

	env.AddFunction("collision_mesh", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		meshName, rest, err := requireName("collision-mesh", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		pa := parseArgs("collision-mesh", rest)
		if err := pa.allow("contact-points"); err != nil {
			return zygo.SexpNull, err
		}
		m := description.CollisionMeshDescription{Name: meshName}
		if err := pa.getInt("contact-points", &m.EstimatedContactPoints); err != nil {
			return zygo.SexpNull, err
		}
		if m.EstimatedContactPoints < 0 {
			return zygo.SexpNull, fmt.Errorf("collision-mesh %q: :contact-points must not be negative, got %d",
				meshName, m.EstimatedContactPoints)
		}
		for i, p := range pa.positional {
			s, ok := p.(*sexpShape)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("collision-mesh %q: argument %d: expected shape, got %T (%s)",
					meshName, i+1, p, p.SexpString(nil))
			}
			m.Shapes = append(m.Shapes, s.shape)
		}
		return &sexpCollisionMesh{mesh: m}, nil
	})

	// -----------------------------------------------------------------------
	// (link "name" :mass m :com (vec3 ...) :inertia (diag ...)
	//       :mesh-file "f.obj" :color "grey" :scale 1 (collision-mesh ...)...)
	// -----------------------------------------------------------------------
	env.AddFunction("link", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		linkName, rest, err := requireName("link", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		pa := parseArgs("link", rest)
		if err := pa.allow("mass", "com", "inertia", "mesh-file", "color", "scale"); err != nil {
			return zygo.SexpNull, err
		}
		ld := description.NewLink(linkName)
		if err := pa.getFloat("mass", &ld.Mass); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.getVec3("com", &ld.CenterOfMass); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.getMat3("inertia", &ld.MomentOfInertia); err != nil {
			return zygo.SexpNull, err
		}

		var g description.GraphicsDescription
		if err := pa.getString("mesh-file", &g.MeshFile); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.getString("color", &g.Color); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.getFloat("scale", &g.Scale); err != nil {
			return zygo.SexpNull, err
		}
		if g != (description.GraphicsDescription{}) {
			ld.Graphics = &g
		}

		for i, p := range pa.positional {
			m, ok := p.(*sexpCollisionMesh)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("link %q: argument %d: expected collision-mesh, got %T (%s)",
					linkName, i+1, p, p.SexpString(nil))
			}
			ld.CollisionMeshes = append(ld.CollisionMeshes, m.mesh)
		}
		return &sexpLink{link: ld}, nil
	})

	// -----------------------------------------------------------------------
	// Joints. Every joint form takes a name, keyword options, then in any
	// order: exactly one (link ...), child joints, and attachments.
	// (floating-joint "name" :variable "q" :offset (vec3 ...) ...)
	// (planar-joint "name" :plane :xz ...)
	// (pin-joint "name" :axis (vec3 ...) :limits (list qmin qmax k b)
	//            :damping d :stiction s :velocity-limit v :velocity-damping b
	//            :dynamic false ...)
	// (slider-joint "name" ...same options as pin-joint...)
	// (ball-joint "name" ...)
	// -----------------------------------------------------------------------
	joints := []struct {
		fn   string
		form string
		kind description.JointKind
	}{
		{"floating_joint", "floating-joint", description.JointFloating},
		{"planar_joint", "planar-joint", description.JointFloatingPlanar},
		{"pin_joint", "pin-joint", description.JointPin},
		{"slider_joint", "slider-joint", description.JointSlider},
		{"ball_joint", "ball-joint", description.JointSpherical},
	}
	for _, j := range joints {
		form, kind := j.form, j.kind
		env.AddFunction(j.fn, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			jd, err := buildJoint(form, kind, args)
			if err != nil {
				return zygo.SexpNull, err
			}
			return &sexpJoint{joint: jd}, nil
		})
	}

	// -----------------------------------------------------------------------
	// Points:
	// (ground-contact "name" :offset (vec3 ...) :group n)
	// (external-force "name" :offset (vec3 ...))
	// (kinematic-point "name" :offset (vec3 ...))
	// -----------------------------------------------------------------------
	env.AddFunction("ground_contact", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pointName, pa, err := namedForm("ground-contact", args, "offset", "group")
		if err != nil {
			return zygo.SexpNull, err
		}
		d := description.GroundContactPointDescription{Name: pointName}
		if err := pa.getVec3("offset", &d.Offset); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.getInt("group", &d.GroupID); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpAttachment{form: "ground-contact", name: pointName, attach: func(jd *description.JointDescription) {
			jd.GroundContactPoints = append(jd.GroundContactPoints, d)
		}}, nil
	})

	env.AddFunction("external_force", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pointName, pa, err := namedForm("external-force", args, "offset")
		if err != nil {
			return zygo.SexpNull, err
		}
		d := description.ExternalForcePointDescription{Name: pointName}
		if err := pa.getVec3("offset", &d.Offset); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpAttachment{form: "external-force", name: pointName, attach: func(jd *description.JointDescription) {
			jd.ExternalForcePoints = append(jd.ExternalForcePoints, d)
		}}, nil
	})

	env.AddFunction("kinematic_point", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pointName, pa, err := namedForm("kinematic-point", args, "offset")
		if err != nil {
			return zygo.SexpNull, err
		}
		d := description.KinematicPointDescription{Name: pointName}
		if err := pa.getVec3("offset", &d.Offset); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpAttachment{form: "kinematic-point", name: pointName, attach: func(jd *description.JointDescription) {
			jd.KinematicPoints = append(jd.KinematicPoints, d)
		}}, nil
	})

	// -----------------------------------------------------------------------
	// Sensors:
	// (camera "name" :transform t :fov f :near n :far f :width w :height h)
	// (lidar "name" :transform t :points n :yaw-min a :yaw-max b
	//        :min-range r :max-range r)
	// (imu "name" :transform t)
	// (wrench-sensor "name" :offset (vec3 ...))
	// (force-sensor "name" :transform t :ground-contact true
	//               :shape-collision false)
	// -----------------------------------------------------------------------
	env.AddFunction("camera", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		camName, pa, err := namedForm("camera", args, "transform", "fov", "near", "far", "width", "height")
		if err != nil {
			return zygo.SexpNull, err
		}
		d := description.NewCamera(camName)
		for _, step := range []error{
			pa.getTransform("transform", &d.Transform),
			pa.getFloat("fov", &d.FieldOfView),
			pa.getFloat("near", &d.ClipNear),
			pa.getFloat("far", &d.ClipFar),
			pa.getInt("width", &d.ImageWidth),
			pa.getInt("height", &d.ImageHeight),
		} {
			if step != nil {
				return zygo.SexpNull, step
			}
		}
		return &sexpAttachment{form: "camera", name: camName, attach: func(jd *description.JointDescription) {
			jd.Cameras = append(jd.Cameras, d)
		}}, nil
	})

	env.AddFunction("lidar", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		lidarName, pa, err := namedForm("lidar", args, "transform", "points", "yaw-min", "yaw-max", "min-range", "max-range")
		if err != nil {
			return zygo.SexpNull, err
		}
		d := description.NewLidar(lidarName)
		for _, step := range []error{
			pa.getTransform("transform", &d.Transform),
			pa.getInt("points", &d.Scan.PointsPerSweep),
			pa.getFloat("yaw-min", &d.Scan.SweepYawMin),
			pa.getFloat("yaw-max", &d.Scan.SweepYawMax),
			pa.getFloat("min-range", &d.Scan.MinRange),
			pa.getFloat("max-range", &d.Scan.MaxRange),
		} {
			if step != nil {
				return zygo.SexpNull, step
			}
		}
		return &sexpAttachment{form: "lidar", name: lidarName, attach: func(jd *description.JointDescription) {
			jd.Lidars = append(jd.Lidars, d)
		}}, nil
	})

	env.AddFunction("imu", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		imuName, pa, err := namedForm("imu", args, "transform")
		if err != nil {
			return zygo.SexpNull, err
		}
		d := description.NewIMU(imuName)
		if err := pa.getTransform("transform", &d.Transform); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpAttachment{form: "imu", name: imuName, attach: func(jd *description.JointDescription) {
			jd.IMUs = append(jd.IMUs, d)
		}}, nil
	})

	env.AddFunction("wrench_sensor", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		sensorName, pa, err := namedForm("wrench-sensor", args, "offset")
		if err != nil {
			return zygo.SexpNull, err
		}
		var offset description.Vec3
		if err := pa.getVec3("offset", &offset); err != nil {
			return zygo.SexpNull, err
		}
		d := description.NewJointWrenchSensor(sensorName, offset)
		return &sexpAttachment{form: "wrench-sensor", name: sensorName, attach: func(jd *description.JointDescription) {
			jd.WrenchSensors = append(jd.WrenchSensors, d)
		}}, nil
	})

	env.AddFunction("force_sensor", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		sensorName, pa, err := namedForm("force-sensor", args, "transform", "ground-contact", "shape-collision")
		if err != nil {
			return zygo.SexpNull, err
		}
		d := description.ForceSensorDescription{Name: sensorName, Transform: description.IdentityTransform()}
		for _, step := range []error{
			pa.getTransform("transform", &d.Transform),
			pa.getBool("ground-contact", &d.UseGroundContactPoints),
			pa.getBool("shape-collision", &d.UseShapeCollision),
		} {
			if step != nil {
				return zygo.SexpNull, step
			}
		}
		return &sexpAttachment{form: "force-sensor", name: sensorName, attach: func(jd *description.JointDescription) {
			jd.ForceSensors = append(jd.ForceSensors, d)
		}}, nil
	})

	// -----------------------------------------------------------------------
	// (loop-closure "name" :link "link-name" :parent-offset (vec3 ...)
	//               :link-offset (vec3 ...) :force-subspace (mat3 ...)
	//               :moment-subspace (mat3 ...) :kp (vec3 ...) :kd (vec3 ...))
	//
	// The target link is looked up by name after the program has run, so it
	// may be declared anywhere in the robot.
	// -----------------------------------------------------------------------
	env.AddFunction("loop_closure", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		lcName, pa, err := namedForm("loop-closure", args,
			"link", "parent-offset", "link-offset", "force-subspace", "moment-subspace", "kp", "kd")
		if err != nil {
			return zygo.SexpNull, err
		}
		var linkName string
		if err := pa.getString("link", &linkName); err != nil {
			return zygo.SexpNull, err
		}
		if linkName == "" {
			return zygo.SexpNull, fmt.Errorf("loop-closure %q requires :link", lcName)
		}
		d := description.LoopClosureDescription{
			Name:           lcName,
			ForceSubSpace:  description.Identity3(),
			MomentSubSpace: description.Identity3(),
		}
		for _, step := range []error{
			pa.getVec3("parent-offset", &d.OffsetFromParentJoint),
			pa.getVec3("link-offset", &d.OffsetFromLinkParentJoint),
			pa.getMat3("force-subspace", &d.ForceSubSpace),
			pa.getMat3("moment-subspace", &d.MomentSubSpace),
			pa.getVec3("kp", &d.ProportionalGains),
			pa.getVec3("kd", &d.DerivativeGains),
		} {
			if step != nil {
				return zygo.SexpNull, step
			}
		}
		return &sexpAttachment{form: "loop-closure", name: lcName, attach: func(jd *description.JointDescription) {
			jd.LoopClosures = append(jd.LoopClosures, d)
			st.pending = append(st.pending, pendingLoopClosure{
				joint:    jd,
				index:    len(jd.LoopClosures) - 1,
				linkName: linkName,
			})
		}}, nil
	})

	// -----------------------------------------------------------------------
	// (robot "name" (floating-joint ...) ...)
	// -----------------------------------------------------------------------
	env.AddFunction("robot", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		robotName, rest, err := requireName("robot", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		rd := description.New(robotName)
		for i, p := range rest {
			j, ok := p.(*sexpJoint)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("robot %q: root %d: expected joint, got %T (%s)",
					robotName, i+1, p, p.SexpString(nil))
			}
			rd.AddRoot(j.joint)
		}
		st.robots = append(st.robots, rd)
		return &sexpRobot{rd: rd}, nil
	})
}

// namedForm parses the common shape of attachment forms: a name followed
// by keyword options only.
func namedForm(form string, args []zygo.Sexp, allowed ...string) (string, kwArgs, error) {
	name, rest, err := requireName(form, args)
	if err != nil {
		return "", kwArgs{}, err
	}
	pa := parseArgs(form, rest)
	if err := pa.allow(allowed...); err != nil {
		return "", kwArgs{}, err
	}
	if len(pa.positional) > 0 {
		p := pa.positional[0]
		return "", kwArgs{}, fmt.Errorf("%s %q: unexpected argument %T (%s)", form, name, p, p.SexpString(nil))
	}
	return name, pa, nil
}

// buildJoint assembles a joint description from a joint form.
func buildJoint(form string, kind description.JointKind, args []zygo.Sexp) (*description.JointDescription, error) {
	jointName, rest, err := requireName(form, args)
	if err != nil {
		return nil, err
	}
	pa := parseArgs(form, rest)

	var data description.JointData
	switch kind {
	case description.JointFloating:
		if err := pa.allow("offset", "dynamic", "variable"); err != nil {
			return nil, err
		}
		var fd description.FloatingData
		if err := pa.getString("variable", &fd.VariableName); err != nil {
			return nil, err
		}
		data = fd

	case description.JointFloatingPlanar:
		if err := pa.allow("offset", "dynamic", "plane"); err != nil {
			return nil, err
		}
		pd := description.PlanarData{Plane: description.PlaneXZ}
		if v, ok := pa.kw["plane"]; ok {
			p, err := toPlane(v)
			if err != nil {
				return nil, fmt.Errorf("%s: plane: %w", form, err)
			}
			pd.Plane = p
		}
		data = pd

	case description.JointPin, description.JointSlider:
		if err := pa.allow("offset", "dynamic", "axis", "limits", "damping", "stiction", "velocity-limit", "velocity-damping"); err != nil {
			return nil, err
		}
		d, err := oneDOFData(pa)
		if err != nil {
			return nil, err
		}
		if kind == description.JointPin {
			data = description.PinData{OneDOFData: d}
		} else {
			data = description.SliderData{OneDOFData: d}
		}

	default:
		if err := pa.allow("offset", "dynamic"); err != nil {
			return nil, err
		}
		data = description.SphericalData{}
	}

	jd := description.NewJoint(jointName, kind, data)
	if err := pa.getVec3("offset", &jd.Offset); err != nil {
		return nil, err
	}
	if err := pa.getBool("dynamic", &jd.Dynamic); err != nil {
		return nil, err
	}

	for i, p := range pa.positional {
		switch v := p.(type) {
		case *sexpLink:
			if jd.Link != nil {
				return nil, fmt.Errorf("%s %q: more than one link", form, jointName)
			}
			jd.Link = v.link
		case *sexpJoint:
			jd.AddChild(v.joint)
		case *sexpAttachment:
			v.attach(jd)
		default:
			return nil, fmt.Errorf("%s %q: argument %d: expected link, joint or attachment, got %T (%s)",
				form, jointName, i+1, p, p.SexpString(nil))
		}
	}
	return jd, nil
}

// oneDOFData reads the options shared by pin and slider joints. The axis
// defaults to +Z.
func oneDOFData(pa kwArgs) (description.OneDOFData, error) {
	d := description.OneDOFData{Axis: description.Vec3{Z: 1}}
	for _, step := range []error{
		pa.getVec3("axis", &d.Axis),
		pa.getFloat("damping", &d.Damping),
		pa.getFloat("stiction", &d.Stiction),
		pa.getFloat("velocity-limit", &d.VelocityLimit),
		pa.getFloat("velocity-damping", &d.VelocityDamping),
	} {
		if step != nil {
			return d, step
		}
	}
	if v, ok := pa.kw["limits"]; ok {
		items, err := sexpListToSlice(v)
		if err != nil {
			return d, fmt.Errorf("%s: limits: %w", pa.form, err)
		}
		f, err := toFloats(pa.form+": limits", items, 4)
		if err != nil {
			return d, err
		}
		if f[0] > f[1] {
			return d, fmt.Errorf("%s: limits: lower bound %g exceeds upper bound %g", pa.form, f[0], f[1])
		}
		d.Limits = &description.LimitStops{QMin: f[0], QMax: f[1], KLimit: f[2], BLimit: f[3]}
	}
	return d, nil
}
