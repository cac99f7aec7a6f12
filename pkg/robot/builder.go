package robot

import (
	"fmt"

	"github.com/chazu/armature/pkg/description"
)

// buildPhase tracks which passes have completed.
type buildPhase int

const (
	phaseConstructing buildPhase = iota
	phaseTreeBuilt
	phaseLoopClosuresWired
	phaseDone
)

type builder struct {
	opts  Options
	reg   *registry
	roots []*Joint
	phase buildPhase
}

func newBuilder(opts ...Option) *builder {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &builder{opts: o, reg: newRegistry()}
}

// Build compiles a description into a Robot. The whole build succeeds or
// fails: on error the returned Robot is nil.
func Build(rd *description.RobotDescription, opts ...Option) (*Robot, error) {
	if rd == nil {
		return nil, &BuildError{Kind: ErrMalformedNode, Detail: "robot description is nil"}
	}
	b := newBuilder(opts...)
	log := b.opts.Logger.With("robot", rd.Name)

	log.Debug("constructing joints", "roots", len(rd.Roots))
	for i, root := range rd.Roots {
		if root == nil {
			return nil, &BuildError{Kind: ErrMalformedNode, Name: rd.Name, Detail: fmt.Sprintf("root %d is nil", i)}
		}
		j, err := b.constructJointRecursively(root)
		if err != nil {
			return nil, err
		}
		b.roots = append(b.roots, j)
	}
	b.phase = phaseTreeBuilt

	log.Debug("wiring loop closures")
	if err := b.resolveLoopClosures(rd.Roots); err != nil {
		return nil, err
	}

	log.Debug("wiring force sensors")
	if err := b.resolveForceSensors(rd.Roots); err != nil {
		return nil, err
	}

	log.Debug("build complete", "joints", b.reg.jointsByName.size(), "one_dof", b.reg.oneDOF.size())
	return &Robot{name: rd.Name, roots: b.roots, reg: b.reg}, nil
}

// constructJointRecursively builds jd and its whole subtree. The joint is
// registered only after every descendant has been built and linked.
func (b *builder) constructJointRecursively(jd *description.JointDescription) (*Joint, error) {
	j, err := b.createJoint(jd)
	if err != nil {
		return nil, err
	}

	b.addGroundContactPoints(jd, j)
	b.addExternalForcePoints(jd, j)
	b.addKinematicPoints(jd, j)
	if err := b.addCollisionContacts(j); err != nil {
		return nil, err
	}

	b.addLidarMounts(jd, j)
	b.addCameraMounts(jd, j)
	b.addIMUMounts(jd, j)
	b.addJointWrenchSensors(jd, j)

	for i, cd := range jd.Children {
		if cd == nil {
			return nil, &BuildError{Kind: ErrMalformedNode, Name: jd.Name, Detail: fmt.Sprintf("child %d is nil", i)}
		}
		child, err := b.constructJointRecursively(cd)
		if err != nil {
			return nil, err
		}
		j.addChild(child)
	}

	b.reg.registerJoint(jd, j)
	b.opts.Logger.Debug("registered joint",
		"joint", j.name,
		"shape", j.shape.String(),
		"children", len(j.children),
	)
	return j, nil
}

// resolveLoopClosures is the second pass. Constraint targets may live in any
// subtree, so every link must already be registered.
func (b *builder) resolveLoopClosures(roots []*description.JointDescription) error {
	if b.phase != phaseTreeBuilt {
		return ErrPassOrder
	}
	for _, root := range roots {
		if err := b.addLoopClosuresRecursively(root); err != nil {
			return err
		}
	}
	b.phase = phaseLoopClosuresWired
	return nil
}

func (b *builder) addLoopClosuresRecursively(jd *description.JointDescription) error {
	j, err := b.builtJoint(jd)
	if err != nil {
		return err
	}

	for _, d := range jd.LoopClosures {
		c := newLoopClosureConstraint(d.Name, d.OffsetFromParentJoint, d.OffsetFromLinkParentJoint, d.ForceSubSpace, d.MomentSubSpace)
		c.SetGains(d.ProportionalGains, d.DerivativeGains)
		c.owner = j

		if d.Link == nil {
			return &BuildError{Kind: ErrDanglingReference, Name: d.Name, Detail: "loop closure has no target link"}
		}
		link, ok := b.reg.linksByHandle.get(d.Link.Handle)
		if !ok {
			return &BuildError{
				Kind:   ErrDanglingReference,
				Name:   d.Link.Name,
				Detail: fmt.Sprintf("loop closure %q on joint %q targets a link that is not in the tree", d.Name, jd.Name),
			}
		}
		c.link = link
		j.addLoopClosure(c)
	}

	for _, cd := range jd.Children {
		if err := b.addLoopClosuresRecursively(cd); err != nil {
			return err
		}
	}
	return nil
}

// resolveForceSensors is the third pass. Ground-contact sensors aggregate
// every point at or below their joint, so the tree must be complete.
func (b *builder) resolveForceSensors(roots []*description.JointDescription) error {
	if b.phase < phaseTreeBuilt {
		return ErrPassOrder
	}
	for _, root := range roots {
		if err := b.addForceSensorsRecursively(root); err != nil {
			return err
		}
	}
	b.phase = phaseDone
	return nil
}

func (b *builder) addForceSensorsRecursively(jd *description.JointDescription) error {
	j, err := b.builtJoint(jd)
	if err != nil {
		return err
	}

	for _, d := range jd.ForceSensors {
		var calc WrenchCalculator
		switch {
		case d.UseGroundContactPoints && d.UseShapeCollision:
			calc = newCollisionShapeWrenchCalculator(d.Name, j.ExternalForcePoints(), j, d.Transform)
		case d.UseGroundContactPoints:
			calc = newGroundContactWrenchCalculator(d.Name, j.AllGroundContactPoints(), j, d.Transform)
		default:
			s := &JointWrenchSensor{name: d.Name, offset: d.Transform.Translation, joint: j}
			j.addJointWrenchSensor(s)
			calc = newJointReactionWrenchCalculator(d.Name, j)
		}
		j.addForceSensor(calc)
	}

	for _, cd := range jd.Children {
		if err := b.addForceSensorsRecursively(cd); err != nil {
			return err
		}
	}
	return nil
}

// builtJoint looks up the joint constructed for jd in the first pass.
func (b *builder) builtJoint(jd *description.JointDescription) (*Joint, error) {
	j, ok := b.reg.jointsByName.get(jd.Name)
	if !ok {
		return nil, &BuildError{Kind: ErrMalformedNode, Name: jd.Name, Detail: "joint was not constructed"}
	}
	return j, nil
}
