package robot

import (
	"fmt"

	"github.com/chazu/armature/pkg/description"
)

// Link carries the mass properties and geometry of one joint's body.
type Link struct {
	name            string
	mass            float64
	comOffset       description.Vec3
	inertia         description.Mat3
	graphics        *description.GraphicsDescription
	collisionMeshes []description.CollisionMeshDescription
	contacting      []*ExternalForcePoint

	joint *Joint
}

// newLink builds a fresh link from its description. The graphics
// description is passed through untouched.
func newLink(ld *description.LinkDescription) *Link {
	l := &Link{
		name:      ld.Name,
		mass:      ld.Mass,
		comOffset: ld.CenterOfMass,
		inertia:   ld.MomentOfInertia,
		graphics:  ld.Graphics,
	}
	l.collisionMeshes = append(l.collisionMeshes, ld.CollisionMeshes...)
	return l
}

func (l *Link) Name() string                                         { return l.name }
func (l *Link) Mass() float64                                        { return l.mass }
func (l *Link) CenterOfMassOffset() description.Vec3                 { return l.comOffset }
func (l *Link) MomentOfInertia() description.Mat3                    { return l.inertia }
func (l *Link) Graphics() *description.GraphicsDescription           { return l.graphics }
func (l *Link) Joint() *Joint                                        { return l.joint }
func (l *Link) ContactingExternalForcePoints() []*ExternalForcePoint { return l.contacting }

func (l *Link) CollisionMeshes() []description.CollisionMeshDescription {
	return l.collisionMeshes
}

// enableContactingExternalForcePoints creates n contacting points at the
// joint origin for collision response to move and load. They are also
// attached to the owning joint as external force points.
func (l *Link) enableContactingExternalForcePoints(n int) {
	l.contacting = make([]*ExternalForcePoint, 0, n)
	for i := 0; i < n; i++ {
		p := newExternalForcePoint(fmt.Sprintf("%s_contact_%d", l.name, i), description.Vec3{})
		p.joint = l.joint
		l.contacting = append(l.contacting, p)
		l.joint.addExternalForcePoint(p)
	}
}
