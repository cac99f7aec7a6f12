package robot

import (
	"fmt"

	"github.com/chazu/armature/pkg/description"
)

func (b *builder) addGroundContactPoints(jd *description.JointDescription, j *Joint) {
	for _, d := range jd.GroundContactPoints {
		p := newGroundContactPoint(d.Name, d.Offset)
		p.joint = j
		j.addGroundContactPoint(d.GroupID, p)
		b.reg.appendGroundContact(j, p)
	}
}

func (b *builder) addExternalForcePoints(jd *description.JointDescription, j *Joint) {
	for _, d := range jd.ExternalForcePoints {
		p := newExternalForcePoint(d.Name, d.Offset)
		p.joint = j
		j.addExternalForcePoint(p)
	}
}

func (b *builder) addKinematicPoints(jd *description.JointDescription, j *Joint) {
	for _, d := range jd.KinematicPoints {
		p := newKinematicPoint(d.Name, d.Offset)
		p.joint = j
		j.addKinematicPoint(p)
	}
}

// addCollisionContacts pre-allocates contacting points for the link's
// collision meshes so collision response can fill them in later.
func (b *builder) addCollisionContacts(j *Joint) error {
	meshes := j.link.CollisionMeshes()
	if len(meshes) == 0 {
		return nil
	}
	n := 0
	for _, m := range meshes {
		est := b.opts.Estimator.EstimateContactPoints(m)
		if est < 0 {
			return &BuildError{
				Kind:   ErrMalformedNode,
				Name:   j.name,
				Detail: fmt.Sprintf("collision mesh %q: negative contact estimate", m.Name),
			}
		}
		n += est
	}
	j.link.enableContactingExternalForcePoints(n)
	return nil
}
