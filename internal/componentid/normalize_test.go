package componentid

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"pro_ant":              "pro-ant",
		"ProAnt":               "pro-ant",
		"PRO-ANT":              "pro-ant",
		" pro ant ":            "pro-ant",
		"procedural_ant":       "pro-ant",
		"n-legged-ant":         "pro-ant",
		"component_pro_ant":    "pro-ant",
		"pro_ant_v1":           "pro-ant",
		"ant":                  "ant",
		"component_ant":        "component-ant",
		"custom_creature":      "custom-creature",
		"component_custom_bot": "component-custom-bot",
		"":                     "",
	}

	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("normalize(%q)=%q want=%q", in, got, want)
		}
	}
}
