package proant

import (
	"proant/internal/ant"
	"proant/internal/scene"
	"proant/internal/termination"
)

// Specs is the component description a scene composer consumes.
type Specs struct {
	MessageStr string
	Collides   []string
	Root       string
	TermFn     termination.Func
	Observers  []ant.Observer

	// Scene is the structured form of MessageStr.
	Scene scene.Config
}

type Options struct {
	// Suffix is appended to every body, joint and actuator name so several
	// ants can share one scene.
	Suffix    string
	MinHeight float64
	// MaxHeight > 0 also ends episodes where the trunk rises above it.
	MaxHeight float64
}

func DefaultOptions() Options {
	return Options{MinHeight: ant.DefaultMinHeight}
}

// GetSpecs describes an ant with numLegs legs using default options.
func GetSpecs(numLegs int) (Specs, error) {
	return GetSpecsWithOptions(numLegs, DefaultOptions())
}

// DefaultSpecs describes the ten legged ant.
func DefaultSpecs() (Specs, error) {
	return GetSpecs(DefaultLegs)
}

func GetSpecsWithOptions(numLegs int, opts Options) (Specs, error) {
	cfg, collides, err := Generate(numLegs)
	if err != nil {
		return Specs{}, err
	}

	root := ant.Root
	if opts.Suffix != "" {
		cfg = cfg.WithSuffix(opts.Suffix)
		for i := range collides {
			collides[i] += opts.Suffix
		}
		root += opts.Suffix
	}

	return Specs{
		MessageStr: scene.Marshal(cfg),
		Collides:   collides,
		Root:       root,
		TermFn:     Terminations(opts.MinHeight, opts.MaxHeight).Func(),
		Observers:  ant.DefaultObservers(),
		Scene:      cfg,
	}, nil
}
