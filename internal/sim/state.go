// Package sim describes the per-step simulator state that termination checks
// read. It carries no dynamics.
package sim

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"proant/internal/spatial"
)

var ErrIndexOutOfRange = errors.New("body index out of range")

// Pose holds per-body position, orientation and velocities, indexed like the
// scene's bodies.
type Pose struct {
	Pos []r3.Vec
	Rot []spatial.Quat
	Vel []r3.Vec
	Ang []r3.Vec
}

// Info is auxiliary step information handed through to termination checks.
type Info struct {
	Steps        int
	ContactCount int
}

func (p Pose) Position(i int) (r3.Vec, error) {
	if i < 0 || i >= len(p.Pos) {
		return r3.Vec{}, fmt.Errorf("position %d of %d: %w", i, len(p.Pos), ErrIndexOutOfRange)
	}
	return p.Pos[i], nil
}

func (p Pose) Rotation(i int) (spatial.Quat, error) {
	if i < 0 || i >= len(p.Rot) {
		return spatial.Quat{}, fmt.Errorf("rotation %d of %d: %w", i, len(p.Rot), ErrIndexOutOfRange)
	}
	return p.Rot[i], nil
}

// Bodies returns the number of bodies the pose describes.
func (p Pose) Bodies() int {
	return len(p.Pos)
}

// Upright returns a pose of n bodies all at height z with identity rotation.
func Upright(n int, z float64) Pose {
	pose := Pose{
		Pos: make([]r3.Vec, n),
		Rot: make([]spatial.Quat, n),
		Vel: make([]r3.Vec, n),
		Ang: make([]r3.Vec, n),
	}
	for i := range n {
		pose.Pos[i] = r3.Vec{Z: z}
		pose.Rot[i] = spatial.Identity
	}
	return pose
}
