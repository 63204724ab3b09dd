// Package episode replays recorded trajectories through a termination
// function, one step at a time, the way a simulation loop would call it.
package episode

import (
	"context"
	"errors"
	"fmt"

	"proant/internal/scene"
	"proant/internal/sim"
	"proant/internal/termination"
)

type Trace map[string]any

type Result struct {
	Done bool
	// Step is the index of the first done step, or -1.
	Step int
	// Steps is the number of steps evaluated.
	Steps int
	Final float64
}

// Replay calls fn once per pose, feeding each call the previous done value,
// and stops at the first step whose done value reaches 1.
func Replay(ctx context.Context, fn termination.Func, sys *scene.Config, root string, traj Trajectory) (Result, Trace, error) {
	if fn == nil {
		return Result{}, nil, errors.New("termination function is required")
	}
	if traj.Root != "" {
		root = traj.Root
	}

	result := Result{Step: -1}
	done := 0.0
	for i, pose := range traj.Poses {
		if err := ctx.Err(); err != nil {
			return Result{}, nil, err
		}
		next, err := fn(done, sys, pose, sim.Info{Steps: i}, root)
		if err != nil {
			return Result{}, nil, fmt.Errorf("step %d: %w", i, err)
		}
		done = next
		result.Steps = i + 1
		if done >= 1 {
			result.Done = true
			result.Step = i
			break
		}
	}
	result.Final = done

	return result, Trace{
		"root":        root,
		"done":        result.Done,
		"done_step":   result.Step,
		"steps":       result.Steps,
		"total_steps": len(traj.Poses),
	}, nil
}
