// Package report summarizes a built robot for the CLI.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"

	"github.com/chazu/armature/pkg/robot"
)

// Report is the serializable summary of a Robot.
type Report struct {
	Robot        string        `toml:"robot" json:"robot"`
	JointCount   int           `toml:"joint_count" json:"joint_count"`
	OneDOF       []string      `toml:"one_dof" json:"one_dof"`
	Joints       []Joint       `toml:"joint" json:"joints"`
	Sensors      []Sensor      `toml:"sensor,omitempty" json:"sensors,omitempty"`
	ForceSensors []ForceSensor `toml:"force_sensor,omitempty" json:"force_sensors,omitempty"`
	LoopClosures []LoopClosure `toml:"loop_closure,omitempty" json:"loop_closures,omitempty"`
}

// Joint describes one node of the kinematic tree.
type Joint struct {
	Name            string     `toml:"name" json:"name"`
	Shape           string     `toml:"shape" json:"shape"`
	Parent          string     `toml:"parent,omitempty" json:"parent,omitempty"`
	Children        []string   `toml:"children,omitempty" json:"children,omitempty"`
	OneDOF          bool       `toml:"one_dof" json:"one_dof"`
	Offset          [3]float64 `toml:"offset" json:"offset"`
	Link            string     `toml:"link" json:"link"`
	Mass            float64    `toml:"mass" json:"mass"`
	ContactCapacity int        `toml:"contact_capacity" json:"contact_capacity"`
	GroundContacts  []string   `toml:"ground_contacts,omitempty" json:"ground_contacts,omitempty"`
	KinematicPoints []string   `toml:"kinematic_points,omitempty" json:"kinematic_points,omitempty"`
}

// Sensor is a mounted camera, lidar, IMU, or joint wrench sensor.
type Sensor struct {
	Name  string `toml:"name" json:"name"`
	Kind  string `toml:"kind" json:"kind"`
	Joint string `toml:"joint" json:"joint"`
}

// ForceSensor is a resolved force sensor and the points it aggregates.
type ForceSensor struct {
	Name   string   `toml:"name" json:"name"`
	Kind   string   `toml:"kind" json:"kind"`
	Joint  string   `toml:"joint" json:"joint"`
	Points []string `toml:"points,omitempty" json:"points,omitempty"`
}

// LoopClosure is a resolved loop-closure constraint.
type LoopClosure struct {
	Name  string `toml:"name" json:"name"`
	Owner string `toml:"owner" json:"owner"`
	Link  string `toml:"link" json:"link"`
}

type pointSource interface {
	Points() []*robot.ExternalForcePoint
}

// FromRobot builds a report. Joints are listed in document order, parents
// before children.
func FromRobot(r *robot.Robot) Report {
	rep := Report{
		Robot:      r.Name(),
		JointCount: r.JointCount(),
		OneDOF:     []string{},
	}
	for _, j := range r.OneDOFJoints() {
		rep.OneDOF = append(rep.OneDOF, j.Name())
	}

	r.Walk(func(j *robot.Joint) {
		rep.Joints = append(rep.Joints, jointEntry(j))
		rep.Sensors = append(rep.Sensors, sensorEntries(j)...)
		for _, fs := range j.ForceSensors() {
			entry := ForceSensor{Name: fs.Name(), Kind: fs.Kind().String(), Joint: j.Name()}
			if ps, ok := fs.(pointSource); ok {
				for _, p := range ps.Points() {
					entry.Points = append(entry.Points, p.Name())
				}
			}
			rep.ForceSensors = append(rep.ForceSensors, entry)
		}
		for _, lc := range j.LoopClosures() {
			entry := LoopClosure{Name: lc.Name(), Owner: j.Name()}
			if lc.Link() != nil {
				entry.Link = lc.Link().Name()
			}
			rep.LoopClosures = append(rep.LoopClosures, entry)
		}
	})
	return rep
}

func jointEntry(j *robot.Joint) Joint {
	off := j.Offset()
	e := Joint{
		Name:   j.Name(),
		Shape:  j.Shape().String(),
		OneDOF: j.IsOneDOF(),
		Offset: [3]float64{off.X, off.Y, off.Z},
	}
	if p := j.Parent(); p != nil {
		e.Parent = p.Name()
	}
	for _, c := range j.Children() {
		e.Children = append(e.Children, c.Name())
	}
	if l := j.Link(); l != nil {
		e.Link = l.Name()
		e.Mass = l.Mass()
		e.ContactCapacity = len(l.ContactingExternalForcePoints())
	}
	for _, p := range j.GroundContactPoints() {
		e.GroundContacts = append(e.GroundContacts, p.Name())
	}
	for _, p := range j.KinematicPoints() {
		e.KinematicPoints = append(e.KinematicPoints, p.Name())
	}
	return e
}

// sensorEntries lists every mount on j grouped by kind. The joint's generic
// sensor list is not used since only lidars appear there.
func sensorEntries(j *robot.Joint) []Sensor {
	var out []Sensor
	add := func(name, kind string) {
		out = append(out, Sensor{Name: name, Kind: kind, Joint: j.Name()})
	}
	for _, m := range j.LidarMounts() {
		add(m.Name(), "lidar")
	}
	for _, m := range j.CameraMounts() {
		add(m.Name(), "camera")
	}
	for _, m := range j.IMUMounts() {
		add(m.Name(), "imu")
	}
	for _, s := range j.JointWrenchSensors() {
		add(s.Name(), "joint-wrench")
	}
	return out
}

// Encode writes rep to w as "toml" or "json".
func Encode(w io.Writer, rep Report, format string) error {
	switch format {
	case "toml":
		if err := toml.NewEncoder(w).Encode(rep); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
		return nil
	case "json":
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}
