// Package spatial wraps gonum's r3 rotations with the w-first quaternion
// layout used by simulator poses.
package spatial

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Up is the world vertical axis.
var Up = r3.Vec{Z: 1}

// Quat is a unit quaternion stored as (w, x, y, z).
type Quat struct {
	W, X, Y, Z float64
}

// Identity is the no-rotation quaternion.
var Identity = Quat{W: 1}

func (q Quat) number() quat.Number {
	return quat.Number{Real: q.W, Imag: q.X, Jmag: q.Y, Kmag: q.Z}
}

// Rotate returns v rotated by q. q is assumed to be unit length.
func Rotate(v r3.Vec, q Quat) r3.Vec {
	return r3.Rotation(q.number()).Rotate(v)
}

// FromAxisAngle builds the rotation of radians about axis.
func FromAxisAngle(axis r3.Vec, radians float64) Quat {
	n := quat.Number(r3.NewRotation(radians, axis))
	return Quat{W: n.Real, X: n.Imag, Y: n.Jmag, Z: n.Kmag}
}

// Uprightness is the dot product of world up rotated by q with world up:
// 1 when upright, 0 when lying on its side, -1 when inverted.
func Uprightness(q Quat) float64 {
	return r3.Dot(Rotate(Up, q), Up)
}

func Degrees(radians float64) float64 {
	return radians * 180 / math.Pi
}

func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
