package morphology

import (
	"fmt"

	"proant/internal/ant"
	"proant/internal/proant"
)

type ProAntMorphology struct {
	Legs int
}

func (m ProAntMorphology) Name() string {
	return fmt.Sprintf("pro-ant-%d-legs-v1", m.Legs)
}

func (ProAntMorphology) Sensors() []string {
	observers := ant.DefaultObservers()
	out := make([]string, 0, len(observers))
	for _, o := range observers {
		out = append(out, string(o))
	}
	return out
}

// Actuators lists the hip then knee motor of every leg in index order.
func (m ProAntMorphology) Actuators() []string {
	out := make([]string, 0, 2*m.Legs)
	for i := range m.Legs {
		out = append(out, proant.HipJointName(i), proant.KneeJointName(i))
	}
	return out
}

func (ProAntMorphology) Compatible(component string) bool {
	return component == proant.Component
}
