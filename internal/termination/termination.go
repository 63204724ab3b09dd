// Package termination decides when an episode is over. Checks share one
// interface and are folded with logical OR: a check can raise the done flag
// but never clear it.
package termination

import (
	"fmt"

	"proant/internal/scene"
	"proant/internal/sim"
	"proant/internal/spatial"
)

const doneValue = 1.0

// State is everything a check may read for one simulation step.
type State struct {
	Done  float64
	Scene *scene.Config
	Pose  sim.Pose
	Info  sim.Info
	// Root is the fully suffixed name of the body the checks track.
	Root string
}

type Predicate interface {
	Name() string
	// Evaluate reports whether the episode should terminate.
	Evaluate(State) (bool, error)
}

// Func is the per-step termination callable handed to a simulation loop.
type Func func(done float64, sys *scene.Config, qp sim.Pose, info sim.Info, root string) (float64, error)

// Chain applies predicates in order, feeding each the previous done value.
type Chain []Predicate

func (c Chain) Apply(state State) (float64, error) {
	for _, p := range c {
		hit, err := p.Evaluate(state)
		if err != nil {
			return state.Done, fmt.Errorf("%s termination: %w", p.Name(), err)
		}
		if hit {
			state.Done = doneValue
		}
	}
	return state.Done, nil
}

func (c Chain) Func() Func {
	return func(done float64, sys *scene.Config, qp sim.Pose, info sim.Info, root string) (float64, error) {
		return c.Apply(State{Done: done, Scene: sys, Pose: qp, Info: info, Root: root})
	}
}

func (c Chain) Names() []string {
	names := make([]string, 0, len(c))
	for _, p := range c {
		names = append(names, p.Name())
	}
	return names
}

func rootIndex(state State) (int, error) {
	if state.Scene == nil {
		return -1, fmt.Errorf("scene is required to resolve %q", state.Root)
	}
	return state.Scene.BodyIndex(state.Root)
}

// Height ends the episode when the root drops below Min. A positive Max also
// ends it when the root rises above Max.
type Height struct {
	Min float64
	Max float64
}

func (Height) Name() string {
	return "height"
}

func (h Height) Evaluate(state State) (bool, error) {
	idx, err := rootIndex(state)
	if err != nil {
		return false, err
	}
	pos, err := state.Pose.Position(idx)
	if err != nil {
		return false, err
	}
	if pos.Z < h.Min {
		return true, nil
	}
	return h.Max > 0 && pos.Z > h.Max, nil
}

// Upright ends the episode once the root is tilted past horizontal.
type Upright struct{}

func (Upright) Name() string {
	return "upright"
}

func (Upright) Evaluate(state State) (bool, error) {
	idx, err := rootIndex(state)
	if err != nil {
		return false, err
	}
	rot, err := state.Pose.Rotation(idx)
	if err != nil {
		return false, err
	}
	return spatial.Uprightness(rot) < 0, nil
}
