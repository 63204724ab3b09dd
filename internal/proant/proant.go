// Package proant generates the scene of an ant with any number of legs spread
// evenly around its trunk, along with the checks that detect a fall.
package proant

import (
	"errors"
	"fmt"
	"math"

	"proant/internal/ant"
	"proant/internal/scene"
	"proant/internal/sim"
	"proant/internal/spatial"
	"proant/internal/termination"
)

const (
	DefaultLegs = 10

	Component = "pro-ant"
)

var ErrInvalidLegCount = errors.New("invalid leg count")

// Leg and trunk geometry. Variables, not constants: derived offsets must be
// computed with float64 rounding at each step.
var (
	legRadius      = 0.08
	auxLength      = 0.4428427219390869
	shinLength     = 0.7256854176521301
	legMass        = 1.0
	trunkRadius    = 0.25
	trunkLength    = 0.5
	trunkMass      = 10.0
	unitInertia    = scene.Vec3{X: 1, Y: 1, Z: 1}
	legRotation    = scene.Vec3{X: 90, Y: -90}
	hipLimit       = scene.AngleLimit{Min: -30, Max: 30}
	kneeLimit      = scene.AngleLimit{Min: 30, Max: 70}
	jointStiffness = 5000.0
	jointDamping   = 35.0
	motorStrength  = 300.0
)

func AuxName(index int) string {
	return fmt.Sprintf("Aux 1_%d", index)
}

func ShinName(index int) string {
	return fmt.Sprintf("$ Body 4_%d", index)
}

func HipJointName(index int) string {
	return ant.Root + "_" + AuxName(index)
}

func KneeJointName(index int) string {
	return fmt.Sprintf("Aux 1_$ Body 4_%d", index)
}

// Leg builds the two segments, two hinges and two motors of leg index,
// attached to the trunk at angle theta (radians) about the vertical axis.
// It also returns the leg's body names for the collision exclusion list.
func Leg(theta float64, index int) (scene.Config, []string) {
	aux := AuxName(index)
	shin := ShinName(index)
	hip := HipJointName(index)
	knee := KneeJointName(index)

	reach := auxLength/2 + legRadius
	frag := scene.Config{
		Bodies: []scene.Body{
			{
				Name: aux,
				Colliders: []scene.Collider{{
					Rotation: legRotation,
					Capsule:  scene.Capsule{Radius: legRadius, Length: auxLength},
				}},
				Inertia: unitInertia,
				Mass:    legMass,
			},
			{
				Name: shin,
				Colliders: []scene.Collider{{
					Rotation: legRotation,
					Capsule:  scene.Capsule{Radius: legRadius, Length: shinLength, End: -1},
				}},
				Inertia: unitInertia,
				Mass:    legMass,
			},
		},
		Joints: []scene.Joint{
			{
				Name:              hip,
				ParentOffset:      scene.Vec3{X: reach * math.Cos(theta), Y: reach * math.Sin(theta)},
				Parent:            ant.Root,
				Child:             aux,
				Stiffness:         jointStiffness,
				AngularDamping:    jointDamping,
				AngleLimits:       []scene.AngleLimit{hipLimit},
				Rotation:          scene.Vec3{Y: -90},
				ReferenceRotation: scene.Vec3{Z: spatial.Degrees(theta)},
			},
			{
				Name:           knee,
				ParentOffset:   scene.Vec3{X: auxLength/2 - legRadius},
				ChildOffset:    scene.Vec3{X: -shinLength/2 + legRadius},
				Parent:         aux,
				Child:          shin,
				Stiffness:      jointStiffness,
				AngularDamping: jointDamping,
				AngleLimits:    []scene.AngleLimit{kneeLimit},
				Rotation:       scene.Vec3{Z: 90},
			},
		},
		Actuators: []scene.Actuator{
			{Name: hip, Joint: hip, Strength: motorStrength, Torque: true},
			{Name: knee, Joint: knee, Strength: motorStrength, Torque: true},
		},
	}
	return frag, []string{aux, shin}
}

// Trunk is the central body every leg attaches to.
func Trunk() scene.Body {
	return scene.Body{
		Name: ant.Root,
		Colliders: []scene.Collider{{
			Capsule: scene.Capsule{Radius: trunkRadius, Length: trunkLength, End: 1},
		}},
		Inertia: unitInertia,
		Mass:    trunkMass,
	}
}

// LegAngle is the attachment angle of leg i of n, in radians.
func LegAngle(i, n int) float64 {
	frac := float64(i) / float64(n)
	return frac * 2 * math.Pi
}

// Generate builds the trunk followed by n legs in index order, and the
// collision exclusion names: the root, then each leg's two bodies.
func Generate(n int) (scene.Config, []string, error) {
	if n < 0 {
		return scene.Config{}, nil, fmt.Errorf("%w: %d", ErrInvalidLegCount, n)
	}
	cfg := scene.Config{Bodies: []scene.Body{Trunk()}}
	collides := []string{ant.Root}
	for i := range n {
		frag, names := Leg(LegAngle(i, n), i)
		cfg.Append(frag)
		collides = append(collides, names...)
	}
	return cfg, collides, nil
}

// GenerateText is Generate rendered through the scene writer.
func GenerateText(n int) (string, []string, error) {
	cfg, collides, err := Generate(n)
	if err != nil {
		return "", nil, err
	}
	return scene.Marshal(cfg), collides, nil
}

// Terminations returns the height check followed by the uprightness check.
func Terminations(minHeight, maxHeight float64) termination.Chain {
	return termination.Chain{
		ant.HeightTerm(minHeight, maxHeight),
		termination.Upright{},
	}
}

// TermFn is the default per-step done function: fallen below the minimum
// height, or flipped past horizontal.
func TermFn(done float64, sys *scene.Config, qp sim.Pose, info sim.Info, root string) (float64, error) {
	return Terminations(ant.DefaultMinHeight, 0).Func()(done, sys, qp, info, root)
}
