// Package ant holds the shared pieces of ant-like components: the trunk body
// name, the default observers and the height termination.
package ant

import "proant/internal/termination"

const (
	Root = "$ Torso"

	DefaultMinHeight = 0.2
)

// Observer names a simulator quantity exposed to the learning agent.
type Observer string

const RootZJoints Observer = "root_z_joints"

// DefaultObservers returns a fresh copy of the default observer list.
func DefaultObservers() []Observer {
	return []Observer{RootZJoints}
}

// HeightTerm ends an episode when the trunk falls below minHeight, or rises
// above maxHeight when maxHeight is positive.
func HeightTerm(minHeight, maxHeight float64) termination.Height {
	return termination.Height{Min: minHeight, Max: maxHeight}
}
