package termination

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"proant/internal/scene"
	"proant/internal/sim"
	"proant/internal/spatial"
)

func testScene() *scene.Config {
	return &scene.Config{Bodies: []scene.Body{{Name: "leg"}, {Name: "torso"}}}
}

func poseWithRoot(z float64, rot spatial.Quat) sim.Pose {
	pose := sim.Upright(2, 0.5)
	pose.Pos[1] = r3.Vec{Z: z}
	pose.Rot[1] = rot
	return pose
}

func TestChainFoldsWithOr(t *testing.T) {
	chain := Chain{Height{Min: 0.2}, Upright{}}
	inverted := spatial.Quat{X: 1}
	tilted := spatial.FromAxisAngle(r3.Vec{Y: 1}, math.Pi/3)

	cases := []struct {
		name  string
		prior float64
		z     float64
		rot   spatial.Quat
		want  float64
	}{
		{name: "low and upright", z: 0.1, rot: spatial.Identity, want: 1},
		{name: "low and inverted", z: 0.1, rot: inverted, want: 1},
		{name: "high and inverted", z: 0.6, rot: inverted, want: 1},
		{name: "very high and inverted", z: 5, rot: inverted, want: 1},
		{name: "high and upright", z: 0.6, rot: spatial.Identity, want: 0},
		{name: "high and tilted under horizontal", z: 0.6, rot: tilted, want: 0},
		{name: "prior done is kept", prior: 1, z: 0.6, rot: spatial.Identity, want: 1},
		{name: "fractional prior is kept", prior: 0.25, z: 0.6, rot: spatial.Identity, want: 0.25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := chain.Apply(State{
				Done:  tc.prior,
				Scene: testScene(),
				Pose:  poseWithRoot(tc.z, tc.rot),
				Root:  "torso",
			})
			if err != nil {
				t.Fatalf("apply: %v", err)
			}
			if got != tc.want {
				t.Fatalf("done=%f want=%f", got, tc.want)
			}
		})
	}
}

func TestHeightMaxBound(t *testing.T) {
	h := Height{Min: 0.2, Max: 1.0}
	hit, err := h.Evaluate(State{Scene: testScene(), Pose: poseWithRoot(1.5, spatial.Identity), Root: "torso"})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !hit {
		t.Fatal("expected height above max to terminate")
	}

	h.Max = 0
	hit, err = h.Evaluate(State{Scene: testScene(), Pose: poseWithRoot(1.5, spatial.Identity), Root: "torso"})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if hit {
		t.Fatal("expected zero max to disable the upper bound")
	}
}

func TestChainMissingRoot(t *testing.T) {
	fn := Chain{Height{Min: 0.2}, Upright{}}.Func()
	_, err := fn(0, testScene(), poseWithRoot(0.5, spatial.Identity), sim.Info{}, "missing")
	if !errors.Is(err, scene.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestChainPoseTooShort(t *testing.T) {
	fn := Chain{Upright{}}.Func()
	_, err := fn(0, testScene(), sim.Upright(1, 0.5), sim.Info{}, "torso")
	if !errors.Is(err, sim.ErrIndexOutOfRange) {
		t.Fatalf("expected out of range error, got %v", err)
	}
}

func TestChainNames(t *testing.T) {
	names := Chain{Height{}, Upright{}}.Names()
	if len(names) != 2 || names[0] != "height" || names[1] != "upright" {
		t.Fatalf("unexpected names: %v", names)
	}
}
