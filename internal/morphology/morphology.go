package morphology

// Morphology defines the observers and actuators a component exposes to a
// learning agent.
type Morphology interface {
	Name() string
	Sensors() []string
	Actuators() []string
	Compatible(component string) bool
}
