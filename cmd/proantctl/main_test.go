package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"proant/internal/episode"
	"proant/internal/export"
	"proant/internal/model"
	"proant/internal/proant"
	"proant/internal/sim"
)

func captureStdout(fn func() error) (string, error) {
	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		return "", err
	}

	os.Stdout = w
	runErr := fn()
	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		_ = r.Close()
		return "", err
	}
	_ = r.Close()
	return buf.String(), runErr
}

func runCapture(t *testing.T, args ...string) string {
	t.Helper()
	out, err := captureStdout(func() error {
		return run(context.Background(), args)
	})
	if err != nil {
		t.Fatalf("%s: %v", args[0], err)
	}
	return out
}

func TestRunRejectsMissingAndUnknownCommands(t *testing.T) {
	if err := run(context.Background(), nil); err == nil || !strings.Contains(err.Error(), "missing command") {
		t.Fatalf("expected missing command error, got %v", err)
	}
	if err := run(context.Background(), []string{"evolve"}); err == nil || !strings.Contains(err.Error(), "unknown command: evolve") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestGenerateTextMatchesGenerator(t *testing.T) {
	out := runCapture(t, "generate", "--store", "memory", "--legs", "4")
	want, _, err := proant.GenerateText(4)
	if err != nil {
		t.Fatalf("generate text: %v", err)
	}
	if out != want {
		t.Fatalf("unexpected scene text:\n%s", out)
	}
}

func TestGenerateJSONRecord(t *testing.T) {
	out := runCapture(t, "generate", "--store", "memory", "--profile", "hexapod", "--suffix", "_b", "--format", "json")
	var rec model.SpecRecord
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("decode record: %v\n%s", err, out)
	}
	if rec.Legs != 6 || len(rec.Collides) != 13 || rec.Root != "$ Torso_b" || rec.ID == "" {
		t.Fatalf("unexpected record: %+v", rec.Summary())
	}
	if !strings.Contains(rec.MessageStr, `name: "Aux 1_5_b"`) {
		t.Fatal("expected suffixed leg names in scene text")
	}
}

func TestGenerateWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ant.yaml")
	out := runCapture(t, "generate", "--store", "memory", "--legs", "2", "--format", "yaml", "--out", path, "--log-level", "error")
	if out != "" {
		t.Fatalf("expected no stdout, got %q", out)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	rec, err := export.Read(f, export.FormatFromPath(path))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if rec.Legs != 2 || rec.MinHeight != 0.2 {
		t.Fatalf("unexpected record: %+v", rec.Summary())
	}
}

func TestGenerateRejectsNegativeLegs(t *testing.T) {
	err := run(context.Background(), []string{"generate", "--store", "memory", "--legs", "-1"})
	if err == nil || !strings.Contains(err.Error(), "legs must be >= 0") {
		t.Fatalf("expected leg count error, got %v", err)
	}
}

func TestInspectSceneFile(t *testing.T) {
	text, _, err := proant.GenerateText(3)
	if err != nil {
		t.Fatalf("generate text: %v", err)
	}
	path := filepath.Join(t.TempDir(), "ant.pbtxt")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write scene: %v", err)
	}

	out := runCapture(t, "inspect", "--in", path)
	for _, want := range []string{
		"bodies=7 joints=6 actuators=6",
		`root="$ Torso" index=0`,
		`collides=["$ Torso", "Aux 1_0", "$ Body 4_0"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	if err := run(context.Background(), []string{"inspect", "--in", path, "--root", "$ Head"}); err == nil {
		t.Fatal("expected missing root error")
	}
}

func TestReplayTrajectory(t *testing.T) {
	specs, err := proant.GetSpecs(4)
	if err != nil {
		t.Fatalf("get specs: %v", err)
	}
	var traj episode.Trajectory
	for _, z := range []float64{0.6, 0.5, 0.3, 0.1} {
		traj.Poses = append(traj.Poses, sim.Upright(len(specs.Scene.Bodies), z))
	}
	data, err := episode.EncodeTrajectory(traj)
	if err != nil {
		t.Fatalf("encode trajectory: %v", err)
	}
	path := filepath.Join(t.TempDir(), "traj.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write trajectory: %v", err)
	}

	out := runCapture(t, "replay", "--store", "memory", "--legs", "4", "--trajectory", path)
	if !strings.Contains(out, `root="$ Torso" done=true done_step=3 steps=4 final=1.0`) {
		t.Fatalf("unexpected replay output: %q", out)
	}

	out = runCapture(t, "replay", "--store", "memory", "--legs", "4", "--min-height", "0.05", "--trajectory", path, "--format", "json")
	var trace map[string]any
	if err := json.Unmarshal([]byte(out), &trace); err != nil {
		t.Fatalf("decode trace: %v", err)
	}
	if trace["done"] != false || trace["steps"] != float64(4) {
		t.Fatalf("unexpected trace: %+v", trace)
	}

	if err := run(context.Background(), []string{"replay", "--store", "memory"}); err == nil {
		t.Fatal("expected missing trajectory error")
	}
}

func TestMorphologies(t *testing.T) {
	out := runCapture(t, "morphologies")
	for _, want := range []string{
		"profile=default morphology=pro-ant-10-legs-v1 sensors=1 actuators=20",
		"profile=hexapod morphology=pro-ant-6-legs-v1 sensors=1 actuators=12",
		"profile=quadruped morphology=pro-ant-4-legs-v1 sensors=1 actuators=8",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if err := run(context.Background(), []string{"morphologies", "--component", "humanoid"}); err == nil {
		t.Fatal("expected unknown component error")
	}
}

func TestSpecsEmptyMemoryStore(t *testing.T) {
	out := runCapture(t, "specs", "--store", "memory")
	if strings.TrimSpace(out) != "no specs found" {
		t.Fatalf("unexpected output: %q", out)
	}
	if err := run(context.Background(), []string{"specs", "--store", "memory", "--limit", "0"}); err == nil {
		t.Fatal("expected limit error")
	}
}

func TestCommandsRequireIDs(t *testing.T) {
	for _, cmd := range []string{"show", "delete", "import"} {
		if err := run(context.Background(), []string{cmd, "--store", "memory"}); err == nil {
			t.Fatalf("%s: expected missing argument error", cmd)
		}
	}
}
