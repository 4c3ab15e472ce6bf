package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentic-research/romsort/api"
	"github.com/agentic-research/romsort/internal/catalog"
)

// arcade returns a minimal admissible entry; tests mutate one dimension at
// a time.
func arcade(id string) *catalog.MachineEntry {
	return &catalog.MachineEntry{
		ID:       id,
		Category: "arcade",
		Runnable: true,
		Status:   api.StatusWorking,
		Players:  2,
		Buttons:  2,
		Controls: []catalog.Control{{Type: "joy", Ways: "8"}},
	}
}

func TestEvaluate_ReasonOrder(t *testing.T) {
	cfg := api.DefaultFilterConfig()

	tests := []struct {
		name   string
		mutate func(*catalog.MachineEntry)
		want   ReasonCode
	}{
		{"admitted", func(m *catalog.MachineEntry) {}, ReasonAdmitted},
		{"device", func(m *catalog.MachineEntry) { m.IsDevice = true }, ReasonDevice},
		{"bios", func(m *catalog.MachineEntry) { m.IsBIOS = true }, ReasonBIOS},
		{"mechanical", func(m *catalog.MachineEntry) { m.IsMechanical = true }, ReasonMechanical},
		{"not runnable", func(m *catalog.MachineEntry) { m.Runnable = false }, ReasonNotRunnable},
		{"console", func(m *catalog.MachineEntry) { m.Category = "console" }, ReasonCategory},
		{"preliminary driver", func(m *catalog.MachineEntry) { m.Status = api.StatusNonWorking }, ReasonDriverStatus},
		{"mature", func(m *catalog.MachineEntry) { m.Description = "Strip Quiz (Nude)" }, ReasonMature},
		{
			"bootleg clone",
			func(m *catalog.MachineEntry) { m.CloneOf = "parent"; m.Description = "Game (bootleg)" },
			ReasonCloneType,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := arcade("m")
			tt.mutate(m)
			d := Evaluate(m, cfg)
			assert.Equal(t, tt.want, d.Reason)
			assert.Equal(t, tt.want == ReasonAdmitted, d.Admit)
		})
	}

	// A device that is also non-runnable reports the device reason: the
	// check order is fixed, first failure wins.
	m := arcade("m")
	m.IsDevice = true
	m.Runnable = false
	assert.Equal(t, ReasonDevice, Evaluate(m, cfg).Reason)
}

func TestEvaluate_CategoryWidening(t *testing.T) {
	m := arcade("nes")
	m.Category = "console"

	cfg := api.DefaultFilterConfig()
	assert.False(t, Evaluate(m, cfg).Admit)

	cfg.AllowedCategories = []string{"arcade", "console"}
	assert.True(t, Evaluate(m, cfg).Admit)
}

func TestEvaluate_DriverStatusMinimum(t *testing.T) {
	m := arcade("m")
	m.Status = api.StatusPartial

	cfg := api.DefaultFilterConfig()
	assert.Equal(t, ReasonDriverStatus, Evaluate(m, cfg).Reason)

	cfg.MinDriverStatus = api.StatusPartial
	assert.True(t, Evaluate(m, cfg).Admit)

	cfg.MinDriverStatus = api.StatusNonWorking
	m.Status = api.StatusNonWorking
	assert.True(t, Evaluate(m, cfg).Admit, "the any minimum admits non-working drivers")
}

func TestEvaluate_PlayerAndButtonBounds(t *testing.T) {
	cfg := api.DefaultFilterConfig()
	cfg.Players = api.Bound{Min: 1, Max: 2}
	cfg.Buttons = api.Bound{Max: 3}

	m := arcade("m")
	m.Players = 4
	assert.Equal(t, ReasonPlayers, Evaluate(m, cfg).Reason)

	m = arcade("m")
	m.Buttons = 6
	assert.Equal(t, ReasonButtons, Evaluate(m, cfg).Reason)

	// Don't-care disables the dimension entirely.
	cfg.Players = api.Bound{DontCare: true}
	cfg.Buttons = api.Bound{DontCare: true}
	m.Players = 8
	assert.True(t, Evaluate(m, cfg).Admit)
}

func TestEvaluate_Controls(t *testing.T) {
	cfg := api.DefaultFilterConfig()
	cfg.ControlsDontCare = false
	cfg.ControlTypes = []string{"trackball"}

	m := arcade("m") // declares joy only
	assert.Equal(t, ReasonControls, Evaluate(m, cfg).Reason)

	m.Controls = []catalog.Control{{Type: "trackball"}}
	assert.True(t, Evaluate(m, cfg).Admit)

	// Substring matching: "doublejoy" satisfies a joystick request.
	cfg.ControlTypes = []string{"joystick"}
	m.Controls = []catalog.Control{{Type: "doublejoy"}}
	assert.True(t, Evaluate(m, cfg).Admit)

	// No declared controls is not evidence of a mismatch.
	m.Controls = nil
	cfg.ControlTypes = []string{"trackball"}
	assert.True(t, Evaluate(m, cfg).Admit)
}

func TestEvaluate_Directions(t *testing.T) {
	cfg := api.DefaultFilterConfig()
	cfg.Directions = []string{"4-way"}

	m := arcade("m")
	m.Controls = []catalog.Control{{Type: "joy", Ways: "8"}}
	assert.Equal(t, ReasonDirections, Evaluate(m, cfg).Reason)

	m.Controls = []catalog.Control{{Type: "joy", Ways: "4"}}
	assert.True(t, Evaluate(m, cfg).Admit)
}

func TestEvaluate_Orientation(t *testing.T) {
	cfg := api.DefaultFilterConfig()
	cfg.Orientation = api.OrientationVertical

	m := arcade("m")
	m.HasDisplay = true
	m.Rotate = 0
	assert.Equal(t, ReasonOrientation, Evaluate(m, cfg).Reason)

	m.Rotate = 270
	assert.True(t, Evaluate(m, cfg).Admit)

	// No display information passes either orientation.
	m.HasDisplay = false
	m.Rotate = 0
	assert.True(t, Evaluate(m, cfg).Admit)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, KindParent, Classify(&catalog.MachineEntry{ID: "p"}))
	assert.Equal(t, KindClone, Classify(&catalog.MachineEntry{ID: "c", CloneOf: "p", Description: "Game (Japan)"}))
	assert.Equal(t, KindBootleg, Classify(&catalog.MachineEntry{ID: "b", CloneOf: "p", Description: "Game (bootleg)"}))
	assert.Equal(t, KindPrototype, Classify(&catalog.MachineEntry{ID: "x", CloneOf: "p", Description: "Game (prototype)"}))
}

func TestEvaluate_CloneTypeOptIn(t *testing.T) {
	m := arcade("boot")
	m.CloneOf = "p"
	m.Description = "Game (bootleg)"

	cfg := api.DefaultFilterConfig()
	assert.Equal(t, ReasonCloneType, Evaluate(m, cfg).Reason)

	cfg.IncludeBootlegs = true
	assert.True(t, Evaluate(m, cfg).Admit)
}
