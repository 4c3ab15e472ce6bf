package filter

import (
	"strings"

	"github.com/agentic-research/romsort/api"
	"github.com/agentic-research/romsort/internal/catalog"
)

// controlKeywords maps a requested control type to the tokens that count
// as a match in the catalog's declared control types. The catalog spelling
// varies ("joy", "joystick", "doublejoy"), so matching is substring-based.
var controlKeywords = map[string][]string{
	"joystick":       {"joy", "joystick"},
	"trackball":      {"trackball"},
	"spinner":        {"spinner"},
	"dial":           {"dial"},
	"paddle":         {"paddle"},
	"lightgun":       {"lightgun", "gun"},
	"positional":     {"positional"},
	"mouse":          {"mouse"},
	"pedal":          {"pedal"},
	"stick (analog)": {"analog"},
	"keyboard":       {"keyboard"},
	"buttons only":   {"buttons only"},
	"other":          {"other"},
}

// directionTokens maps a requested direction layout to the "ways" tokens
// that satisfy it.
var directionTokens = map[string][]string{
	"4-way":            {"4"},
	"8-way":            {"8"},
	"2-way horizontal": {"2h", "2-h", "2 horizontal"},
	"2-way vertical":   {"2v", "2-v", "2 vertical"},
	"49-way":           {"49"},
	"rotary":           {"rotary", "12-way"},
	"analog":           {"analog"},
}

// controlsOK checks the declared control types against the config. A
// machine that declares no controls passes: the catalog frequently omits
// input detail and absence is not evidence of a mismatch.
func controlsOK(m *catalog.MachineEntry, cfg *api.FilterConfig) bool {
	if cfg.ControlsDontCare || len(cfg.ControlTypes) == 0 {
		return true
	}
	if len(m.Controls) == 0 {
		return true
	}
	for _, want := range cfg.ControlTypes {
		keywords, ok := controlKeywords[strings.ToLower(want)]
		if !ok {
			keywords = []string{strings.ToLower(want)}
		}
		for _, c := range m.Controls {
			ctype := strings.ToLower(c.Type)
			for _, kw := range keywords {
				if strings.Contains(ctype, kw) {
					return true
				}
			}
		}
	}
	return false
}

func directionsOK(m *catalog.MachineEntry, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	declared := make([]string, 0, len(m.Controls))
	for _, c := range m.Controls {
		if c.Ways != "" {
			declared = append(declared, strings.ToLower(c.Ways))
		}
	}
	if len(declared) == 0 {
		return true
	}
	for _, want := range wanted {
		tokens, ok := directionTokens[want]
		if !ok {
			tokens = []string{strings.ToLower(want)}
		}
		for _, ways := range declared {
			for _, tok := range tokens {
				if strings.Contains(ways, tok) {
					return true
				}
			}
		}
	}
	return false
}
