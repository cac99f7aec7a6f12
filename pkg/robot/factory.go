package robot

import (
	"fmt"

	"github.com/chazu/armature/pkg/description"
)

// createJoint builds one joint and its link from a description node,
// dispatching on the declared kind.
func (b *builder) createJoint(jd *description.JointDescription) (*Joint, error) {
	var j *Joint

	switch jd.Kind {
	case description.JointFloating:
		data, ok := jd.Data.(description.FloatingData)
		if !ok {
			return nil, payloadMismatch(jd)
		}
		name := data.VariableName
		if name == "" {
			name = jd.Name
		}
		j = newJoint(jd.Name, ShapeFloating, &FloatingPayload{VariableName: name}, jd.Offset)

	case description.JointFloatingPlanar:
		data, ok := jd.Data.(description.PlanarData)
		if !ok {
			return nil, payloadMismatch(jd)
		}
		j = newJoint(jd.Name, ShapeFloatingPlanar, &PlanarPayload{Plane: data.Plane}, jd.Offset)

	case description.JointPin:
		data, ok := jd.Data.(description.PinData)
		if !ok {
			return nil, payloadMismatch(jd)
		}
		if jd.Dynamic {
			j = newJoint(jd.Name, ShapePin, &PinPayload{Actuation: b.actuation(data.OneDOFData, true)}, jd.Offset)
		} else {
			j = newJoint(jd.Name, ShapeFixedPin, &FixedPinPayload{Axis: data.Axis}, jd.Offset)
		}

	case description.JointSlider:
		data, ok := jd.Data.(description.SliderData)
		if !ok {
			return nil, payloadMismatch(jd)
		}
		// Sliders carry damping and velocity limits exactly like pins.
		j = newJoint(jd.Name, ShapeSlider, &SliderPayload{Actuation: b.actuation(data.OneDOFData, jd.Dynamic)}, jd.Offset)

	default:
		return nil, &BuildError{
			Kind:   ErrUnsupportedKind,
			Name:   jd.Name,
			Detail: fmt.Sprintf("kind %s (%d) is not implemented", jd.Kind, int(jd.Kind)),
		}
	}

	j.dynamic = jd.Dynamic

	if jd.Link == nil {
		return nil, &BuildError{
			Kind:   ErrMalformedNode,
			Name:   jd.Name,
			Detail: "link description is nil",
		}
	}
	j.setLink(newLink(jd.Link))
	return j, nil
}

// actuation converts one degree of freedom parameters, applying the build
// policy flags.
func (b *builder) actuation(d description.OneDOFData, dynamic bool) Actuation {
	a := Actuation{Axis: d.Axis}
	if d.ContainsLimitStops() {
		a.SetLimitStops(d.Limits.QMin, d.Limits.QMax, d.Limits.KLimit, d.Limits.BLimit)
	}
	if b.opts.EnableDamping && dynamic {
		a.Damping = d.Damping
		a.Stiction = d.Stiction
	}
	if b.opts.EnableJointTorqueAndVelocityLimits {
		a.VelocityLimit = d.VelocityLimit
		a.VelocityDamping = d.VelocityDamping
	}
	return a
}

func payloadMismatch(jd *description.JointDescription) error {
	return &BuildError{
		Kind:   ErrMalformedNode,
		Name:   jd.Name,
		Detail: fmt.Sprintf("%s joint carries %T payload", jd.Kind, jd.Data),
	}
}
