// Package api holds the public types exchanged with the front end and the
// copy collaborator: the filter configuration that drives one sort run and
// the copy plan that comes out of it.
package api

import "fmt"

// DriverStatus is the catalog-declared emulation quality tier.
// Ordered: a higher value is a better status.
type DriverStatus int

const (
	// StatusNonWorking covers preliminary drivers. Selecting "non-working"
	// as the minimum admits everything.
	StatusNonWorking DriverStatus = iota
	// StatusPartial covers imperfect but playable drivers.
	StatusPartial
	// StatusWorking covers good drivers.
	StatusWorking
)

func (s DriverStatus) String() string {
	switch s {
	case StatusWorking:
		return "working"
	case StatusPartial:
		return "partial"
	default:
		return "non-working"
	}
}

// ParseDriverStatus maps a config token to a DriverStatus. "any" is accepted
// as an alias for non-working, since that minimum admits every machine.
func ParseDriverStatus(s string) (DriverStatus, error) {
	switch s {
	case "working":
		return StatusWorking, nil
	case "partial":
		return StatusPartial, nil
	case "non-working", "any":
		return StatusNonWorking, nil
	}
	return StatusNonWorking, fmt.Errorf("unknown driver status %q", s)
}

// TieBreak selects the precedence of the last two winner tie-break keys
// when driver status is equal.
type TieBreak string

const (
	// TieBreakMissingDepsFirst prefers the candidate with fewer unresolvable
	// dependency references, falling back to the smallest identifier.
	TieBreakMissingDepsFirst TieBreak = "missing-deps-first"
	// TieBreakNameFirst goes straight to the smallest identifier.
	TieBreakNameFirst TieBreak = "name-first"
)

// Bound is a closed integer range with an explicit "don't care" escape.
type Bound struct {
	Min      int
	Max      int
	DontCare bool
}

// Satisfied reports whether v falls inside the bound.
func (b Bound) Satisfied(v int) bool {
	if b.DontCare {
		return true
	}
	return v >= b.Min && v <= b.Max
}

// Screen orientations accepted by FilterConfig.Orientation.
const (
	OrientationHorizontal = "horizontal"
	OrientationVertical   = "vertical"
	OrientationBoth       = "both"
)

// FilterConfig is one run's snapshot of the user-chosen criteria.
// It is supplied wholesale by the front end, never mutated by the engine,
// and round-trips losslessly through the preset layer.
type FilterConfig struct {
	// MinDriverStatus rejects machines whose driver status is below it.
	MinDriverStatus DriverStatus
	// AllowedCategories is the category allow-list. Default is arcade-only;
	// widening it admits console/computer/handheld machines.
	AllowedCategories []string

	Players Bound
	Buttons Bound

	// ControlTypes lists required control types (joystick, trackball, …).
	// Empty plus ControlsDontCare means the dimension is not checked.
	ControlTypes     []string
	ControlsDontCare bool
	// Directions lists acceptable joystick direction layouts (4-way, 8-way, …).
	Directions []string
	// Orientation is horizontal, vertical, or both.
	Orientation string

	// IncludeMature admits machines flagged as adult content.
	IncludeMature bool
	// IncludeBootlegs and IncludePrototypes admit those clone types.
	IncludeBootlegs   bool
	IncludePrototypes bool

	// RegionOrder and LanguageOrder are preference lists, best first.
	// Empty means no preference; they only influence winner tie-breaks.
	RegionOrder   []string
	LanguageOrder []string

	// PreferParentOverClone picks the parent whenever it is admitted.
	PreferParentOverClone bool
	// KeepBestAvailableIfImperfect re-admits a family's best candidate when
	// every member failed only on driver status, marking it downgraded.
	KeepBestAvailableIfImperfect bool
	// IncludeSamples adds sample sets to the copy plan.
	IncludeSamples bool

	TieBreak TieBreak
}

// DefaultFilterConfig returns the documented defaults: arcade-only, working
// drivers, parent preferred, everything else wide open.
func DefaultFilterConfig() *FilterConfig {
	return &FilterConfig{
		MinDriverStatus:       StatusWorking,
		AllowedCategories:     []string{"arcade"},
		Players:               Bound{DontCare: true},
		Buttons:               Bound{DontCare: true},
		ControlsDontCare:      true,
		Orientation:           OrientationBoth,
		PreferParentOverClone: true,
		TieBreak:              TieBreakMissingDepsFirst,
	}
}
