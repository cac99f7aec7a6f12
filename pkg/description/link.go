package description

// LinkDescription holds the inertial and geometric properties of a link.
type LinkDescription struct {
	Handle          Handle                     `json:"handle"`
	Name            string                     `json:"name"`
	Mass            float64                    `json:"mass"`
	CenterOfMass    Vec3                       `json:"center_of_mass"`
	MomentOfInertia Mat3                       `json:"moment_of_inertia"`
	CollisionMeshes []CollisionMeshDescription `json:"collision_meshes,omitempty"`
	Graphics        *GraphicsDescription       `json:"graphics,omitempty"`
}

// NewLink returns a link description with a fresh handle.
func NewLink(name string) *LinkDescription {
	return &LinkDescription{
		Handle: nextHandle(),
		Name:   name,
	}
}

// GraphicsDescription is passed through to renderers untouched.
type GraphicsDescription struct {
	MeshFile string  `json:"mesh_file,omitempty"`
	Color    string  `json:"color,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
}

// ShapeKind distinguishes collision shapes.
type ShapeKind int

const (
	ShapeBox ShapeKind = iota
	ShapeSphere
	ShapeCylinder
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "box"
	case ShapeSphere:
		return "sphere"
	case ShapeCylinder:
		return "cylinder"
	default:
		return "unknown"
	}
}

// CollisionShape is one primitive of a collision mesh, centred at Offset
// in the link frame.
type CollisionShape struct {
	Kind   ShapeKind `json:"kind"`
	Size   Vec3      `json:"size,omitempty"`   // box edge lengths
	Radius float64   `json:"radius,omitempty"` // sphere, cylinder
	Height float64   `json:"height,omitempty"` // cylinder, along z
	Offset Vec3      `json:"offset"`
}

// CollisionMeshDescription groups collision shapes. EstimatedContactPoints
// is a capacity hint; zero means "derive it from the shapes".
type CollisionMeshDescription struct {
	Name                   string           `json:"name,omitempty"`
	Shapes                 []CollisionShape `json:"shapes"`
	EstimatedContactPoints int              `json:"estimated_contact_points,omitempty"`
}
