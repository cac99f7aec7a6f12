// Package collision turns link collision shapes into kernel solids and
// estimates how many contacting points a collision mesh needs.
package collision

import (
	"fmt"
	"log/slog"

	"github.com/chazu/armature/pkg/description"
	"github.com/chazu/armature/pkg/kernel"
	"github.com/chazu/armature/pkg/robot"
)

var _ robot.ContactEstimator = (*Estimator)(nil)

// DefaultContactCells is the marching cubes resolution used for contact
// estimation. It is deliberately coarse: the count is a capacity hint.
const DefaultContactCells = 8

// Solid unions every shape of a collision mesh into one solid. It returns
// nil if the mesh has no shapes.
func Solid(k kernel.Kernel, mesh description.CollisionMeshDescription) (kernel.Solid, error) {
	solids := make([]kernel.Solid, 0, len(mesh.Shapes))
	for i, sh := range mesh.Shapes {
		s, err := shapeSolid(k, sh)
		if err != nil {
			return nil, fmt.Errorf("collision mesh %q shape %d: %w", mesh.Name, i, err)
		}
		solids = append(solids, s)
	}
	if len(solids) == 0 {
		return nil, nil
	}
	return k.Union(solids[0], solids[1:]...), nil
}

func shapeSolid(k kernel.Kernel, sh description.CollisionShape) (kernel.Solid, error) {
	var (
		s   kernel.Solid
		err error
	)
	switch sh.Kind {
	case description.ShapeBox:
		if sh.Size.X <= 0 || sh.Size.Y <= 0 || sh.Size.Z <= 0 {
			return nil, fmt.Errorf("box size %v must be positive", sh.Size)
		}
		s, err = k.Box(sh.Size.X, sh.Size.Y, sh.Size.Z)
	case description.ShapeSphere:
		if sh.Radius <= 0 {
			return nil, fmt.Errorf("sphere radius %v must be positive", sh.Radius)
		}
		s, err = k.Sphere(sh.Radius)
	case description.ShapeCylinder:
		if sh.Radius <= 0 || sh.Height <= 0 {
			return nil, fmt.Errorf("cylinder radius %v and height %v must be positive", sh.Radius, sh.Height)
		}
		s, err = k.Cylinder(sh.Height, sh.Radius)
	default:
		return nil, fmt.Errorf("unknown shape kind %s", sh.Kind)
	}
	if err != nil {
		return nil, err
	}
	if !sh.Offset.IsZero() {
		s = k.Translate(s, sh.Offset.X, sh.Offset.Y, sh.Offset.Z)
	}
	return s, nil
}

// Estimator sizes contacting point pools from collision geometry. A mesh's
// declared estimate always wins; otherwise its shapes are tessellated and
// the unique surface vertices counted.
type Estimator struct {
	kernel kernel.Kernel
	logger *slog.Logger
}

// NewEstimator returns an Estimator tessellating with k. A nil logger
// discards diagnostics.
func NewEstimator(k kernel.Kernel, logger *slog.Logger) *Estimator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Estimator{kernel: k, logger: logger}
}

// EstimateContactPoints implements robot.ContactEstimator. Geometry that
// cannot be meshed yields zero.
func (e *Estimator) EstimateContactPoints(mesh description.CollisionMeshDescription) int {
	if mesh.EstimatedContactPoints > 0 {
		return mesh.EstimatedContactPoints
	}
	solid, err := Solid(e.kernel, mesh)
	if err != nil {
		e.logger.Warn("skipping contact estimate", "mesh", mesh.Name, "error", err)
		return 0
	}
	if solid == nil {
		return 0
	}
	m, err := e.kernel.ToMesh(solid)
	if err != nil {
		e.logger.Warn("skipping contact estimate", "mesh", mesh.Name, "error", err)
		return 0
	}
	n := m.UniqueVertexCount()
	e.logger.Debug("estimated contact points", "mesh", mesh.Name, "points", n)
	return n
}
