package componentid

import "strings"

// Normalize canonicalizes component names and their common aliases.
func Normalize(name string) string {
	normalized := strings.TrimSpace(strings.ToLower(name))
	normalized = strings.ReplaceAll(normalized, "_", "-")
	normalized = strings.ReplaceAll(normalized, " ", "-")
	normalized = strings.Trim(normalized, "-")
	if normalized == "" {
		return ""
	}
	for _, candidate := range aliasCandidates(normalized) {
		if canonical, ok := canonicalComponentName(candidate); ok {
			return canonical
		}
	}
	return normalized
}

func aliasCandidates(normalized string) []string {
	candidates := []string{normalized}
	candidate := strings.Trim(strings.TrimPrefix(normalized, "component-"), "-")
	if candidate != "" && candidate != normalized {
		candidates = append(candidates, candidate)
	}
	if trimmed := strings.TrimSuffix(candidate, "-v1"); trimmed != candidate && trimmed != "" {
		candidates = append(candidates, trimmed)
	}
	return candidates
}

func canonicalComponentName(alias string) (string, bool) {
	switch alias {
	case "pro-ant":
		return "pro-ant", true
	}

	compact := strings.ReplaceAll(alias, "-", "")
	switch compact {
	case "proant", "proceduralant", "nleggedant", "nlegant":
		return "pro-ant", true
	default:
		return "", false
	}
}
