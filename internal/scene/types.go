// Package scene holds the structured form of a simulator scene configuration
// and reads/writes its text encoding.
package scene

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("name not found in scene")

// Vec3 is a three component vector. Zero components are omitted on write.
type Vec3 struct {
	X float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y float64 `json:"y,omitempty" yaml:"y,omitempty"`
	Z float64 `json:"z,omitempty" yaml:"z,omitempty"`
}

type Capsule struct {
	Radius float64 `json:"radius"`
	Length float64 `json:"length"`
	// End selects which cap carries the collision point: 1 near, -1 far, 0 both.
	End int `json:"end,omitempty"`
}

type Collider struct {
	Rotation Vec3    `json:"rotation"`
	Capsule  Capsule `json:"capsule"`
}

type Body struct {
	Name      string     `json:"name"`
	Colliders []Collider `json:"colliders"`
	Inertia   Vec3       `json:"inertia"`
	Mass      float64    `json:"mass"`
}

type AngleLimit struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type Joint struct {
	Name              string       `json:"name"`
	ParentOffset      Vec3         `json:"parent_offset"`
	ChildOffset       Vec3         `json:"child_offset"`
	Parent            string       `json:"parent"`
	Child             string       `json:"child"`
	Stiffness         float64      `json:"stiffness"`
	AngularDamping    float64      `json:"angular_damping"`
	AngleLimits       []AngleLimit `json:"angle_limit"`
	Rotation          Vec3         `json:"rotation"`
	ReferenceRotation Vec3         `json:"reference_rotation"`
}

type Actuator struct {
	Name     string  `json:"name"`
	Joint    string  `json:"joint"`
	Strength float64 `json:"strength"`
	Torque   bool    `json:"torque"`
}

// Config is a full scene: bodies, then joints, then actuators.
type Config struct {
	Bodies    []Body     `json:"bodies"`
	Joints    []Joint    `json:"joints"`
	Actuators []Actuator `json:"actuators"`
}

type Stats struct {
	Bodies    int
	Joints    int
	Actuators int
}

func Counts(cfg Config) Stats {
	return Stats{
		Bodies:    len(cfg.Bodies),
		Joints:    len(cfg.Joints),
		Actuators: len(cfg.Actuators),
	}
}

// Append adds all records of other after the records of c.
func (c *Config) Append(other Config) {
	c.Bodies = append(c.Bodies, other.Bodies...)
	c.Joints = append(c.Joints, other.Joints...)
	c.Actuators = append(c.Actuators, other.Actuators...)
}

// BodyIndex resolves a body name to its position in Bodies.
func (c *Config) BodyIndex(name string) (int, error) {
	for i, body := range c.Bodies {
		if body.Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("body %q: %w", name, ErrNotFound)
}

// NamesToIndices resolves names of the given kind (body, joint, actuator).
func (c *Config) NamesToIndices(kind string, names ...string) ([]int, error) {
	var all []string
	switch kind {
	case "body":
		for _, b := range c.Bodies {
			all = append(all, b.Name)
		}
	case "joint":
		for _, j := range c.Joints {
			all = append(all, j.Name)
		}
	case "actuator":
		for _, a := range c.Actuators {
			all = append(all, a.Name)
		}
	default:
		return nil, fmt.Errorf("unsupported scene record kind: %s", kind)
	}

	out := make([]int, 0, len(names))
	for _, name := range names {
		idx := -1
		for i, candidate := range all {
			if candidate == name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
		}
		out = append(out, idx)
	}
	return out, nil
}

// Validate checks name uniqueness and that joints and actuators reference
// existing records.
func (c *Config) Validate() error {
	bodies := make(map[string]struct{}, len(c.Bodies))
	for _, b := range c.Bodies {
		if b.Name == "" {
			return errors.New("body with empty name")
		}
		if _, dup := bodies[b.Name]; dup {
			return fmt.Errorf("duplicate body name %q", b.Name)
		}
		bodies[b.Name] = struct{}{}
	}

	joints := make(map[string]struct{}, len(c.Joints))
	for _, j := range c.Joints {
		if _, dup := joints[j.Name]; dup {
			return fmt.Errorf("duplicate joint name %q", j.Name)
		}
		joints[j.Name] = struct{}{}
		if _, ok := bodies[j.Parent]; !ok {
			return fmt.Errorf("joint %q parent %q: %w", j.Name, j.Parent, ErrNotFound)
		}
		if _, ok := bodies[j.Child]; !ok {
			return fmt.Errorf("joint %q child %q: %w", j.Name, j.Child, ErrNotFound)
		}
	}

	actuators := make(map[string]struct{}, len(c.Actuators))
	for _, a := range c.Actuators {
		if _, dup := actuators[a.Name]; dup {
			return fmt.Errorf("duplicate actuator name %q", a.Name)
		}
		actuators[a.Name] = struct{}{}
		if _, ok := joints[a.Joint]; !ok {
			return fmt.Errorf("actuator %q joint %q: %w", a.Name, a.Joint, ErrNotFound)
		}
	}
	return nil
}

// WithSuffix returns a copy of c with every record name and reference
// suffixed.
func (c Config) WithSuffix(suffix string) Config {
	if suffix == "" {
		return c.clone()
	}
	out := c.clone()
	for i := range out.Bodies {
		out.Bodies[i].Name += suffix
	}
	for i := range out.Joints {
		out.Joints[i].Name += suffix
		out.Joints[i].Parent += suffix
		out.Joints[i].Child += suffix
	}
	for i := range out.Actuators {
		out.Actuators[i].Name += suffix
		out.Actuators[i].Joint += suffix
	}
	return out
}

func (c Config) clone() Config {
	out := Config{
		Bodies:    append([]Body(nil), c.Bodies...),
		Joints:    append([]Joint(nil), c.Joints...),
		Actuators: append([]Actuator(nil), c.Actuators...),
	}
	for i := range out.Bodies {
		out.Bodies[i].Colliders = append([]Collider(nil), out.Bodies[i].Colliders...)
	}
	for i := range out.Joints {
		out.Joints[i].AngleLimits = append([]AngleLimit(nil), out.Joints[i].AngleLimits...)
	}
	return out
}
