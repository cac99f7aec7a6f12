package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pelletier/go-toml/v2"

	"github.com/chazu/armature/pkg/description"
	"github.com/chazu/armature/pkg/robot"
)

func sampleRobot(t *testing.T) *robot.Robot {
	t.Helper()

	base := description.NewJoint("base", description.JointPin, description.PinData{
		OneDOFData: description.OneDOFData{Axis: description.Vec3{Z: 1}},
	})
	base.Link = description.NewLink("base_link")
	base.Link.Mass = 2
	base.GroundContactPoints = []description.GroundContactPointDescription{{Name: "heel"}}
	base.Lidars = []*description.LidarSensorDescription{description.NewLidar("scan")}
	base.ForceSensors = []description.ForceSensorDescription{{
		Name:                   "ft",
		Transform:              description.IdentityTransform(),
		UseGroundContactPoints: true,
	}}

	lift := description.NewJoint("lift", description.JointSlider, description.SliderData{
		OneDOFData: description.OneDOFData{Axis: description.Vec3{Z: 1}},
	})
	lift.Offset = description.Vec3{Z: 0.5}
	lift.Link = description.NewLink("lift_link")
	lift.Link.CollisionMeshes = []description.CollisionMeshDescription{{Name: "hull", EstimatedContactPoints: 2}}
	lift.Cameras = []*description.CameraSensorDescription{description.NewCamera("cam")}
	lift.IMUs = []*description.IMUSensorDescription{description.NewIMU("imu0")}
	lift.KinematicPoints = []description.KinematicPointDescription{{Name: "tip"}}
	lift.LoopClosures = []description.LoopClosureDescription{{Name: "brace", Link: base.Link}}
	base.AddChild(lift)

	rd := description.New("lifter")
	rd.AddRoot(base)
	r, err := robot.Build(rd)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return r
}

func TestFromRobot(t *testing.T) {
	got := FromRobot(sampleRobot(t))

	want := Report{
		Robot:      "lifter",
		JointCount: 2,
		OneDOF:     []string{"lift", "base"},
		Joints: []Joint{
			{
				Name:           "base",
				Shape:          "pin",
				Children:       []string{"lift"},
				OneDOF:         true,
				Link:           "base_link",
				Mass:           2,
				GroundContacts: []string{"heel"},
			},
			{
				Name:            "lift",
				Shape:           "slider",
				Parent:          "base",
				OneDOF:          true,
				Offset:          [3]float64{0, 0, 0.5},
				Link:            "lift_link",
				ContactCapacity: 2,
				KinematicPoints: []string{"tip"},
			},
		},
		Sensors: []Sensor{
			{Name: "scan", Kind: "lidar", Joint: "base"},
			{Name: "cam", Kind: "camera", Joint: "lift"},
			{Name: "imu0", Kind: "imu", Joint: "lift"},
		},
		ForceSensors: []ForceSensor{
			{Name: "ft", Kind: "ground-contact", Joint: "base", Points: []string{"heel"}},
		},
		LoopClosures: []LoopClosure{
			{Name: "brace", Owner: "lift", Link: "base_link"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeTOML(t *testing.T) {
	rep := FromRobot(sampleRobot(t))

	var buf bytes.Buffer
	if err := Encode(&buf, rep, "toml"); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"robot = 'lifter'", "[[joint]]", "[[force_sensor]]", "[[loop_closure]]"} {
		if !strings.Contains(out, want) {
			t.Errorf("TOML output missing %q:\n%s", want, out)
		}
	}

	var decoded Report
	if err := toml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(rep, decoded, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("decoded report mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeJSON(t *testing.T) {
	rep := FromRobot(sampleRobot(t))

	var buf bytes.Buffer
	if err := Encode(&buf, rep, "json"); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded["robot"] != "lifter" {
		t.Errorf("robot = %v, want lifter", decoded["robot"])
	}
	if joints, ok := decoded["joints"].([]any); !ok || len(joints) != 2 {
		t.Errorf("joints = %v, want two entries", decoded["joints"])
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	err := Encode(&bytes.Buffer{}, Report{}, "yaml")
	if err == nil || !strings.Contains(err.Error(), "yaml") {
		t.Errorf("Encode(yaml) error = %v, want unknown format", err)
	}
}
