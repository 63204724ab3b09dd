package episode

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gonum.org/v1/gonum/spatial/r3"

	"proant/internal/sim"
	"proant/internal/spatial"
)

const trajectorySchemaURL = "trajectory.schema.json"

const trajectorySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["steps"],
  "additionalProperties": false,
  "properties": {
    "root": {"type": "string", "minLength": 1},
    "steps": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["pos", "rot"],
        "additionalProperties": false,
        "properties": {
          "pos": {"type": "array", "minItems": 1, "items": {"$ref": "#/definitions/vec3"}},
          "rot": {"type": "array", "minItems": 1, "items": {"$ref": "#/definitions/quat"}},
          "vel": {"type": "array", "items": {"$ref": "#/definitions/vec3"}},
          "ang": {"type": "array", "items": {"$ref": "#/definitions/vec3"}}
        }
      }
    }
  },
  "definitions": {
    "vec3": {"type": "array", "items": {"type": "number"}, "minItems": 3, "maxItems": 3},
    "quat": {"type": "array", "items": {"type": "number"}, "minItems": 4, "maxItems": 4}
  }
}`

// Trajectory is a recorded sequence of poses for one scene.
type Trajectory struct {
	// Root overrides the tracked body name when set.
	Root  string
	Poses []sim.Pose
}

type trajectoryFile struct {
	Root  string     `json:"root,omitempty"`
	Steps []stepFile `json:"steps"`
}

type stepFile struct {
	Pos [][3]float64 `json:"pos"`
	Rot [][4]float64 `json:"rot"`
	Vel [][3]float64 `json:"vel,omitempty"`
	Ang [][3]float64 `json:"ang,omitempty"`
}

var compiledTrajectorySchema = mustCompileTrajectorySchema()

func mustCompileTrajectorySchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(trajectorySchemaURL, strings.NewReader(trajectorySchema)); err != nil {
		panic(err)
	}
	return compiler.MustCompile(trajectorySchemaURL)
}

func LoadTrajectory(path string) (Trajectory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Trajectory{}, err
	}
	traj, err := DecodeTrajectory(data)
	if err != nil {
		return Trajectory{}, fmt.Errorf("trajectory %s: %w", path, err)
	}
	return traj, nil
}

// DecodeTrajectory validates data against the trajectory schema and decodes it.
func DecodeTrajectory(data []byte) (Trajectory, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Trajectory{}, err
	}
	if err := compiledTrajectorySchema.Validate(raw); err != nil {
		return Trajectory{}, fmt.Errorf("invalid trajectory: %w", err)
	}

	var file trajectoryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return Trajectory{}, err
	}

	traj := Trajectory{Root: file.Root, Poses: make([]sim.Pose, 0, len(file.Steps))}
	for i, step := range file.Steps {
		if len(step.Pos) != len(step.Rot) {
			return Trajectory{}, fmt.Errorf("step %d: %d positions but %d rotations", i, len(step.Pos), len(step.Rot))
		}
		traj.Poses = append(traj.Poses, sim.Pose{
			Pos: vecs(step.Pos),
			Rot: quats(step.Rot),
			Vel: vecs(step.Vel),
			Ang: vecs(step.Ang),
		})
	}
	return traj, nil
}

// EncodeTrajectory writes traj in the format DecodeTrajectory reads. Every
// pose needs at least one body, with as many rotations as positions.
func EncodeTrajectory(traj Trajectory) ([]byte, error) {
	file := trajectoryFile{Root: traj.Root, Steps: make([]stepFile, 0, len(traj.Poses))}
	for i, pose := range traj.Poses {
		if len(pose.Pos) == 0 || len(pose.Rot) == 0 {
			return nil, fmt.Errorf("step %d: pose has no bodies", i)
		}
		if len(pose.Pos) != len(pose.Rot) {
			return nil, fmt.Errorf("step %d: %d positions but %d rotations", i, len(pose.Pos), len(pose.Rot))
		}
		step := stepFile{
			Pos: arrays(pose.Pos),
			Vel: arrays(pose.Vel),
			Ang: arrays(pose.Ang),
		}
		for _, q := range pose.Rot {
			step.Rot = append(step.Rot, [4]float64{q.W, q.X, q.Y, q.Z})
		}
		file.Steps = append(file.Steps, step)
	}
	return json.MarshalIndent(file, "", "  ")
}

func vecs(in [][3]float64) []r3.Vec {
	if len(in) == 0 {
		return nil
	}
	out := make([]r3.Vec, len(in))
	for i, v := range in {
		out[i] = r3.Vec{X: v[0], Y: v[1], Z: v[2]}
	}
	return out
}

func quats(in [][4]float64) []spatial.Quat {
	out := make([]spatial.Quat, len(in))
	for i, q := range in {
		out[i] = spatial.Quat{W: q[0], X: q[1], Y: q[2], Z: q[3]}
	}
	return out
}

func arrays(in []r3.Vec) [][3]float64 {
	if len(in) == 0 {
		return nil
	}
	out := make([][3]float64, len(in))
	for i, v := range in {
		out[i] = [3]float64{v.X, v.Y, v.Z}
	}
	return out
}
