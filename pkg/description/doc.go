// Package description defines the robot description types for armature.
// A description is an immutable tree of joints, each carrying a link and
// the points, sensors and constraints attached to it. The robot package
// compiles a description into a live kinematic tree.
package description
