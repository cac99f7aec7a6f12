package robot

import (
	"io"
	"log/slog"

	"github.com/chazu/armature/pkg/description"
)

// ContactEstimator returns the number of contacting points to pre-allocate
// for a collision mesh. The result is a capacity hint.
type ContactEstimator interface {
	EstimateContactPoints(mesh description.CollisionMeshDescription) int
}

// DeclaredContactEstimate uses each mesh's declared estimate as is.
type DeclaredContactEstimate struct{}

func (DeclaredContactEstimate) EstimateContactPoints(mesh description.CollisionMeshDescription) int {
	return mesh.EstimatedContactPoints
}

// Options control how a description is compiled.
type Options struct {
	// EnableDamping propagates damping and stiction onto dynamic one degree
	// of freedom joints.
	EnableDamping bool
	// EnableJointTorqueAndVelocityLimits propagates velocity limits and
	// velocity-limit damping.
	EnableJointTorqueAndVelocityLimits bool

	Logger    *slog.Logger
	Estimator ContactEstimator
}

// DefaultOptions enables damping and limits, discards logs and uses the
// declared contact-point estimates.
func DefaultOptions() Options {
	return Options{
		EnableDamping:                      true,
		EnableJointTorqueAndVelocityLimits: true,
		Logger:                             slog.New(slog.NewTextHandler(io.Discard, nil)),
		Estimator:                          DeclaredContactEstimate{},
	}
}

// Option mutates Options.
type Option func(*Options)

func WithDamping(enabled bool) Option {
	return func(o *Options) { o.EnableDamping = enabled }
}

func WithJointLimits(enabled bool) Option {
	return func(o *Options) { o.EnableJointTorqueAndVelocityLimits = enabled }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

func WithContactEstimator(e ContactEstimator) Option {
	return func(o *Options) {
		if e != nil {
			o.Estimator = e
		}
	}
}
