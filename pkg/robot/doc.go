// Package robot compiles a description.RobotDescription into a live
// kinematic tree of joints and links.
//
// Build runs three depth-first passes over the description, each in
// declaration order. The first constructs every joint, link, point and
// sensor mount and registers them post-order. The second wires loop-closure
// constraints, which need the target link of another subtree. The third
// wires force sensors, whose ground-contact variant aggregates every contact
// point at or below its joint. A resolver never runs before the first pass
// has finished for every root.
//
// A Robot is read-only once Build returns and may be shared between
// goroutines for lookups.
package robot
