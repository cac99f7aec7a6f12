// Package sdfx implements kernel.Kernel on the signed distance functions of
// github.com/deadsy/sdfx.
package sdfx

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/armature/pkg/kernel"
)

var _ kernel.Kernel = (*Kernel)(nil)

// DefaultMeshCells is the marching cubes resolution along the longest axis.
const DefaultMeshCells = 200

type solid struct{ sdf sdf.SDF3 }

func (s *solid) BoundingBox() (min, max [3]float64) {
	bb := s.sdf.BoundingBox()
	return [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}, [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
}

func sdf3(s kernel.Solid) sdf.SDF3 { return s.(*solid).sdf }

// Kernel meshes solids on a uniform marching cubes grid.
type Kernel struct {
	cells int
}

// New returns a Kernel at DefaultMeshCells.
func New() *Kernel { return NewWithCells(DefaultMeshCells) }

// NewWithCells returns a Kernel sampling cells cubes along the longest
// bounding box axis. Non-positive values fall back to DefaultMeshCells.
func NewWithCells(cells int) *Kernel {
	if cells <= 0 {
		cells = DefaultMeshCells
	}
	return &Kernel{cells: cells}
}

func (k *Kernel) Cells() int { return k.cells }

func (k *Kernel) Box(x, y, z float64) (kernel.Solid, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: box %gx%gx%g: %w", x, y, z, err)
	}
	return &solid{s}, nil
}

func (k *Kernel) Sphere(radius float64) (kernel.Solid, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("sdfx: sphere r=%g: %w", radius, err)
	}
	return &solid{s}, nil
}

func (k *Kernel) Cylinder(height, radius float64) (kernel.Solid, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: cylinder h=%g r=%g: %w", height, radius, err)
	}
	return &solid{s}, nil
}

func (k *Kernel) Union(first kernel.Solid, rest ...kernel.Solid) kernel.Solid {
	if len(rest) == 0 {
		return first
	}
	all := make([]sdf.SDF3, 0, len(rest)+1)
	all = append(all, sdf3(first))
	for _, s := range rest {
		all = append(all, sdf3(s))
	}
	return &solid{sdf.Union3D(all...)}
}

func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return &solid{sdf.Transform3D(sdf3(s), sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z}))}
}

// ToMesh runs marching cubes and welds coincident corners, so every vertex
// is shared by the triangles around it. Vertex normals are the normalized
// sum of the adjacent face normals.
func (k *Kernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	triangles := render.ToTriangles(sdf3(s), render.NewMarchingCubesUniform(k.cells))
	if len(triangles) == 0 {
		return nil, fmt.Errorf("sdfx: marching cubes produced no triangles at %d cells", k.cells)
	}

	index := make(map[[3]float32]uint32)
	var positions [][3]float32
	var normals [][3]float64
	indices := make([]uint32, 0, len(triangles)*3)

	for _, tri := range triangles {
		n := tri.Normal()
		for _, v := range tri {
			key := [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
			i, ok := index[key]
			if !ok {
				i = uint32(len(positions))
				index[key] = i
				positions = append(positions, key)
				normals = append(normals, [3]float64{})
			}
			normals[i][0] += n.X
			normals[i][1] += n.Y
			normals[i][2] += n.Z
			indices = append(indices, i)
		}
	}

	m := &kernel.Mesh{
		Vertices: make([]float32, 0, len(positions)*3),
		Normals:  make([]float32, 0, len(positions)*3),
		Indices:  indices,
	}
	for i, p := range positions {
		m.Vertices = append(m.Vertices, p[0], p[1], p[2])
		nx, ny, nz := normals[i][0], normals[i][1], normals[i][2]
		if l := math.Sqrt(nx*nx + ny*ny + nz*nz); l > 0 {
			nx, ny, nz = nx/l, ny/l, nz/l
		}
		m.Normals = append(m.Normals, float32(nx), float32(ny), float32(nz))
	}
	return m, nil
}
