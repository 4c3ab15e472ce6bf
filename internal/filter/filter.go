// Package filter evaluates the user's criteria against one machine entry
// at a time. Evaluate is a pure function over immutable inputs, so entries
// can be checked concurrently with no shared state.
package filter

import (
	"strings"

	"github.com/agentic-research/romsort/api"
	"github.com/agentic-research/romsort/internal/catalog"
)

// ReasonCode names the first failing check of an evaluation, or admission.
// Checks run in a fixed order, cheap ones first, so codes are deterministic.
type ReasonCode string

const (
	ReasonAdmitted     ReasonCode = "admitted"
	ReasonDevice       ReasonCode = "device"
	ReasonBIOS         ReasonCode = "bios"
	ReasonMechanical   ReasonCode = "mechanical"
	ReasonNotRunnable  ReasonCode = "not-runnable"
	ReasonCategory     ReasonCode = "category-not-allowed"
	ReasonCloneType    ReasonCode = "clone-type-excluded"
	ReasonMature       ReasonCode = "mature-content"
	ReasonDriverStatus ReasonCode = "driver-status"
	ReasonOrientation  ReasonCode = "orientation"
	ReasonPlayers      ReasonCode = "players"
	ReasonButtons      ReasonCode = "buttons"
	ReasonControls     ReasonCode = "controls"
	ReasonDirections   ReasonCode = "directions"
)

// Decision is the admit/reject outcome for one entry. Downgraded marks a
// machine re-admitted by the keep-best-available rule despite an imperfect
// driver.
type Decision struct {
	Admit      bool
	Reason     ReasonCode
	Downgraded bool
}

func reject(r ReasonCode) Decision { return Decision{Reason: r} }

// Evaluate runs the ordered checks. First failure wins.
func Evaluate(m *catalog.MachineEntry, cfg *api.FilterConfig) Decision {
	// Devices and BIOS sets are never independently selectable; they only
	// enter a plan through dependency closure.
	if m.IsDevice {
		return reject(ReasonDevice)
	}
	if m.IsBIOS {
		return reject(ReasonBIOS)
	}
	if m.IsMechanical {
		return reject(ReasonMechanical)
	}
	if !m.Runnable {
		return reject(ReasonNotRunnable)
	}
	if !categoryAllowed(m.Category, cfg.AllowedCategories) {
		return reject(ReasonCategory)
	}
	if !cloneTypeAllowed(m, cfg) {
		return reject(ReasonCloneType)
	}
	if !matureOK(m, cfg.IncludeMature) {
		return reject(ReasonMature)
	}
	if m.Status < cfg.MinDriverStatus {
		return reject(ReasonDriverStatus)
	}
	if !orientationOK(m, cfg.Orientation) {
		return reject(ReasonOrientation)
	}
	if !cfg.Players.Satisfied(m.Players) {
		return reject(ReasonPlayers)
	}
	if !cfg.Buttons.Satisfied(m.Buttons) {
		return reject(ReasonButtons)
	}
	if !controlsOK(m, cfg) {
		return reject(ReasonControls)
	}
	if !directionsOK(m, cfg.Directions) {
		return reject(ReasonDirections)
	}
	return Decision{Admit: true, Reason: ReasonAdmitted}
}

func categoryAllowed(category string, allowed []string) bool {
	for _, a := range allowed {
		if a == category {
			return true
		}
	}
	return false
}

var (
	bootlegPatterns   = []string{"bootleg", "hack"}
	prototypePatterns = []string{"prototype", "beta", "demo"}
)

// CloneKind classifies a clone by its description: bootlegs and prototypes
// are opt-in, official clones always pass this check (the family resolver
// decides whether one actually wins).
type CloneKind int

const (
	KindParent CloneKind = iota
	KindClone
	KindBootleg
	KindPrototype
)

func Classify(m *catalog.MachineEntry) CloneKind {
	if m.CloneOf == "" {
		return KindParent
	}
	desc := strings.ToLower(m.Description)
	for _, p := range bootlegPatterns {
		if strings.Contains(desc, p) {
			return KindBootleg
		}
	}
	for _, p := range prototypePatterns {
		if strings.Contains(desc, p) {
			return KindPrototype
		}
	}
	return KindClone
}

func cloneTypeAllowed(m *catalog.MachineEntry, cfg *api.FilterConfig) bool {
	switch Classify(m) {
	case KindBootleg:
		return cfg.IncludeBootlegs
	case KindPrototype:
		return cfg.IncludePrototypes
	default:
		return true
	}
}

var matureMarkers = []string{
	"mature", "adult", "mahjong (strip)", "erotic", "nsfw", "xxx", "(nude)",
}

func matureOK(m *catalog.MachineEntry, includeMature bool) bool {
	if includeMature {
		return true
	}
	blob := strings.ToLower(m.CategoryText + " " + m.Description)
	for _, marker := range matureMarkers {
		if strings.Contains(blob, marker) {
			return false
		}
	}
	return true
}

func orientationOK(m *catalog.MachineEntry, want string) bool {
	if want == "" || want == api.OrientationBoth || !m.HasDisplay {
		return true
	}
	vertical := m.Rotate == 90 || m.Rotate == 270
	if want == api.OrientationVertical {
		return vertical
	}
	return !vertical
}
