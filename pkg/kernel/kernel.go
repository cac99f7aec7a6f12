// Package kernel defines the abstract geometry kernel used to turn link
// collision shapes into solids and meshes. The sdfx subpackage provides the
// implementation.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel builds solids and meshes them. Primitives are centered on the
// origin and cylinders run along Z. Invalid dimensions are reported as
// errors, never panics.
type Kernel interface {
	Box(x, y, z float64) (Solid, error)
	Sphere(radius float64) (Solid, error)
	Cylinder(height, radius float64) (Solid, error)

	// Union joins one or more solids.
	Union(first Solid, rest ...Solid) Solid
	Translate(s Solid, x, y, z float64) Solid

	ToMesh(s Solid) (*Mesh, error)
}
