package episode

import (
	"context"
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"proant/internal/proant"
	"proant/internal/scene"
	"proant/internal/sim"
	"proant/internal/spatial"
)

func fallingTrajectory(bodies int) Trajectory {
	var traj Trajectory
	for _, z := range []float64{0.6, 0.5, 0.3, 0.1, 0.05} {
		traj.Poses = append(traj.Poses, sim.Upright(bodies, z))
	}
	return traj
}

func TestReplayStopsAtFirstDone(t *testing.T) {
	specs, err := proant.GetSpecs(4)
	if err != nil {
		t.Fatalf("specs: %v", err)
	}
	traj := fallingTrajectory(len(specs.Scene.Bodies))

	result, trace, err := Replay(context.Background(), specs.TermFn, &specs.Scene, specs.Root, traj)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !result.Done || result.Step != 3 || result.Steps != 4 || result.Final != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if trace["done_step"] != 3 || trace["total_steps"] != 5 {
		t.Fatalf("unexpected trace: %+v", trace)
	}
}

func TestReplayDetectsFlip(t *testing.T) {
	specs, err := proant.GetSpecs(6)
	if err != nil {
		t.Fatalf("specs: %v", err)
	}
	n := len(specs.Scene.Bodies)
	var traj Trajectory
	for _, angle := range []float64{0, math.Pi / 4, 0.45 * math.Pi, 3 * math.Pi / 4} {
		pose := sim.Upright(n, 0.7)
		pose.Rot[0] = spatial.FromAxisAngle(r3.Vec{X: 1}, angle)
		traj.Poses = append(traj.Poses, pose)
	}

	result, _, err := Replay(context.Background(), specs.TermFn, &specs.Scene, specs.Root, traj)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !result.Done || result.Step != 3 {
		t.Fatalf("expected flip at step 3, got %+v", result)
	}
}

func TestReplaySurvives(t *testing.T) {
	specs, err := proant.GetSpecs(2)
	if err != nil {
		t.Fatalf("specs: %v", err)
	}
	traj := Trajectory{Poses: []sim.Pose{sim.Upright(5, 0.5), sim.Upright(5, 0.55)}}
	result, _, err := Replay(context.Background(), specs.TermFn, &specs.Scene, specs.Root, traj)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if result.Done || result.Step != -1 || result.Steps != 2 || result.Final != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestReplayPropagatesLookupError(t *testing.T) {
	specs, err := proant.GetSpecs(1)
	if err != nil {
		t.Fatalf("specs: %v", err)
	}
	traj := Trajectory{Root: "$ Thorax", Poses: []sim.Pose{sim.Upright(3, 0.5)}}
	_, _, err = Replay(context.Background(), specs.TermFn, &specs.Scene, specs.Root, traj)
	if !errors.Is(err, scene.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestReplayHonorsCancellation(t *testing.T) {
	specs, err := proant.GetSpecs(1)
	if err != nil {
		t.Fatalf("specs: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = Replay(ctx, specs.TermFn, &specs.Scene, specs.Root, fallingTrajectory(3))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}

func TestReplayRequiresFunc(t *testing.T) {
	if _, _, err := Replay(context.Background(), nil, &scene.Config{}, "x", Trajectory{}); err == nil {
		t.Fatal("expected missing function error")
	}
}
