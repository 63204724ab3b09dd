package morphology

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"proant/internal/componentid"
	"proant/internal/proant"
)

var proAntProfiles = map[string]int{
	"default":   proant.DefaultLegs,
	"quadruped": 4,
	"hexapod":   6,
	"octopod":   8,
}

func EnsureCompatibility(component, profile string) error {
	m, err := ConstructMorphology(component, profile)
	if err != nil {
		return err
	}
	component = componentid.Normalize(component)
	if !m.Compatible(component) {
		return fmt.Errorf("morphology %s is incompatible with component %s", m.Name(), component)
	}
	return nil
}

func ConstructMorphology(component, profile string) (Morphology, error) {
	component = componentid.Normalize(component)
	profile = normalizeMorphologyProfile(profile)
	switch component {
	case proant.Component:
		legs, err := proAntLegs(profile)
		if err != nil {
			return nil, err
		}
		return ProAntMorphology{Legs: legs}, nil
	default:
		return nil, fmt.Errorf("unsupported component morphology: %s", component)
	}
}

// LegsForProfile resolves a pro-ant profile name or leg count.
func LegsForProfile(profile string) (int, error) {
	return proAntLegs(normalizeMorphologyProfile(profile))
}

func proAntLegs(profile string) (int, error) {
	switch profile {
	case "":
		return proant.DefaultLegs, nil
	case "4_legs", "quad":
		profile = "quadruped"
	case "6_legs", "hex":
		profile = "hexapod"
	case "8_legs", "oct":
		profile = "octopod"
	}
	if legs, ok := proAntProfiles[profile]; ok {
		return legs, nil
	}
	legs, err := strconv.Atoi(profile)
	if err != nil || legs < 0 {
		return 0, fmt.Errorf("unsupported pro-ant morphology profile: %s", profile)
	}
	return legs, nil
}

func AvailableMorphologyProfiles(component string) []string {
	var profiles []string
	switch componentid.Normalize(component) {
	case proant.Component:
		for name := range proAntProfiles {
			profiles = append(profiles, name)
		}
	}
	sort.Strings(profiles)
	return profiles
}

func normalizeMorphologyProfile(raw string) string {
	profile := strings.TrimSpace(strings.ToLower(raw))
	profile = strings.ReplaceAll(profile, "-", "_")
	return profile
}
