package kernel

// Mesh is an indexed triangle mesh. Vertices and Normals hold 3 floats per
// vertex; Indices holds 3 vertex indices per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	LinkName string    `json:"linkName"`
}

func (m *Mesh) VertexCount() int   { return len(m.Vertices) / 3 }
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }
func (m *Mesh) IsEmpty() bool      { return len(m.Vertices) == 0 }

// UniqueVertexCount counts distinct vertex positions. It equals
// VertexCount for welded meshes.
func (m *Mesh) UniqueVertexCount() int {
	seen := make(map[[3]float32]struct{}, m.VertexCount())
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		seen[[3]float32{m.Vertices[i], m.Vertices[i+1], m.Vertices[i+2]}] = struct{}{}
	}
	return len(seen)
}

// Bounds returns the axis-aligned bounds of the vertices. ok is false for
// an empty mesh.
func (m *Mesh) Bounds() (min, max [3]float32, ok bool) {
	if m.IsEmpty() {
		return min, max, false
	}
	copy(min[:], m.Vertices[:3])
	copy(max[:], m.Vertices[:3])
	for i := 3; i+2 < len(m.Vertices); i += 3 {
		for a := 0; a < 3; a++ {
			v := m.Vertices[i+a]
			if v < min[a] {
				min[a] = v
			}
			if v > max[a] {
				max[a] = v
			}
		}
	}
	return min, max, true
}
