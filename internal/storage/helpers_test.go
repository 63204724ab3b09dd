package storage

import (
	"fmt"

	"proant/internal/model"
)

func testSpec(id string, legs int, createdAt string) model.SpecRecord {
	collides := []string{"$ Torso"}
	for i := range legs {
		collides = append(collides, fmt.Sprintf("Aux 1_%d", i), fmt.Sprintf("$ Body 4_%d", i))
	}
	return model.SpecRecord{
		VersionedRecord: CurrentVersion(),
		ID:              id,
		Component:       "pro-ant",
		Legs:            legs,
		Root:            "$ Torso",
		MessageStr:      "bodies {\n  name: \"$ Torso\"\n}\n",
		Collides:        collides,
		Observers:       []string{"root_z_joints"},
		MinHeight:       0.2,
		CreatedAtUTC:    createdAt,
	}
}
