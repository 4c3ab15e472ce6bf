package closure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/romsort/internal/catalog"
)

func buildIndex(t *testing.T, entries ...*catalog.MachineEntry) *catalog.Index {
	t.Helper()
	ix := catalog.NewIndex()
	for _, m := range entries {
		require.NoError(t, ix.Add(m))
	}
	require.NoError(t, ix.Finalize())
	return ix
}

func ids(closure []*catalog.MachineEntry) []string {
	out := make([]string, len(closure))
	for i, m := range closure {
		out[i] = m.ID
	}
	return out
}

func TestCloseOver_BIOSAndDevices(t *testing.T) {
	ix := buildIndex(t,
		&catalog.MachineEntry{ID: "neogeo", IsBIOS: true},
		&catalog.MachineEntry{ID: "qsound", IsDevice: true},
		&catalog.MachineEntry{ID: "mslug", ROMOf: "neogeo", DeviceRefs: []string{"qsound"}},
	)
	r := NewResolver(ix)

	mslug, err := ix.Get("mslug")
	require.NoError(t, err)

	closure := r.CloseOver(mslug)
	assert.Equal(t, []string{"mslug", "neogeo", "qsound"}, ids(closure))
	assert.Empty(t, r.Warnings())
}

func TestCloseOver_TransitiveDeviceChain(t *testing.T) {
	ix := buildIndex(t,
		&catalog.MachineEntry{ID: "cpu", IsDevice: true, DeviceRefs: []string{"pic"}},
		&catalog.MachineEntry{ID: "pic", IsDevice: true},
		&catalog.MachineEntry{ID: "game", DeviceRefs: []string{"cpu"}},
	)
	r := NewResolver(ix)

	game, err := ix.Get("game")
	require.NoError(t, err)

	assert.Equal(t, []string{"game", "cpu", "pic"}, ids(r.CloseOver(game)))
}

func TestCloseOver_ParentSetNotEmitted(t *testing.T) {
	// A clone's romof names its parent set. Non-merged sets are
	// self-contained, so the parent's files are not pulled in when the
	// parent declares no further dependencies.
	ix := buildIndex(t,
		&catalog.MachineEntry{ID: "pacman"},
		&catalog.MachineEntry{ID: "puckman", CloneOf: "pacman", ROMOf: "pacman"},
	)
	r := NewResolver(ix)

	puckman, err := ix.Get("puckman")
	require.NoError(t, err)

	assert.Equal(t, []string{"puckman"}, ids(r.CloseOver(puckman)))
	assert.Empty(t, r.Warnings())
}

func TestCloseOver_CloneInheritsBIOSThroughParent(t *testing.T) {
	// The realistic listing shape: the clone's romof names the parent set,
	// and only the parent's own romof reaches the BIOS. The closure must
	// chase the chain through the parent, emitting the BIOS and the
	// parent's devices but not the parent set itself.
	ix := buildIndex(t,
		&catalog.MachineEntry{ID: "neogeo", IsBIOS: true},
		&catalog.MachineEntry{ID: "qsound", IsDevice: true},
		&catalog.MachineEntry{ID: "mslug", ROMOf: "neogeo", DeviceRefs: []string{"qsound"}},
		&catalog.MachineEntry{ID: "mslugj", CloneOf: "mslug", ROMOf: "mslug"},
	)
	r := NewResolver(ix)

	mslugj, err := ix.Get("mslugj")
	require.NoError(t, err)

	assert.Equal(t, []string{"mslugj", "neogeo", "qsound"}, ids(r.CloseOver(mslugj)))
	assert.Empty(t, r.Warnings())
}

func TestCloseOver_CloneWithExplicitBIOSROMOf(t *testing.T) {
	// Some catalogs point the clone's romof straight at the BIOS instead
	// of the parent set; both spellings must reach it.
	ix := buildIndex(t,
		&catalog.MachineEntry{ID: "neogeo", IsBIOS: true},
		&catalog.MachineEntry{ID: "mslug", ROMOf: "neogeo"},
		&catalog.MachineEntry{ID: "mslugj", CloneOf: "mslug", ROMOf: "neogeo"},
	)
	r := NewResolver(ix)

	mslugj, err := ix.Get("mslugj")
	require.NoError(t, err)

	assert.Equal(t, []string{"mslugj", "neogeo"}, ids(r.CloseOver(mslugj)))
}

func TestCloseOver_UnresolvableParentWarns(t *testing.T) {
	ix := buildIndex(t,
		&catalog.MachineEntry{ID: "orphan", CloneOf: "gone", ROMOf: "gone"},
	)
	r := NewResolver(ix)

	orphan, err := ix.Get("orphan")
	require.NoError(t, err)

	assert.Equal(t, []string{"orphan"}, ids(r.CloseOver(orphan)))
	warnings := r.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, catalog.WarnMissingDependency, warnings[0].Kind)
	assert.Equal(t, "gone", warnings[0].Ref)
}

func TestCloseOver_MissingDependencyWarnsOnce(t *testing.T) {
	ix := buildIndex(t,
		&catalog.MachineEntry{ID: "game", DeviceRefs: []string{"ghostdev"}},
	)
	r := NewResolver(ix)

	game, err := ix.Get("game")
	require.NoError(t, err)

	assert.Equal(t, []string{"game"}, ids(r.CloseOver(game)))
	assert.Equal(t, []string{"game"}, ids(r.CloseOver(game)))

	warnings := r.Warnings()
	require.Len(t, warnings, 1, "repeat resolutions must not duplicate the warning")
	assert.Equal(t, catalog.WarnMissingDependency, warnings[0].Kind)
	assert.Equal(t, "game", warnings[0].Machine)
	assert.Equal(t, "ghostdev", warnings[0].Ref)
}

func TestCloseOver_CyclicDeviceGraphTerminates(t *testing.T) {
	ix := buildIndex(t,
		&catalog.MachineEntry{ID: "deva", IsDevice: true, DeviceRefs: []string{"devb"}},
		&catalog.MachineEntry{ID: "devb", IsDevice: true, DeviceRefs: []string{"deva"}},
		&catalog.MachineEntry{ID: "game", DeviceRefs: []string{"deva"}},
	)
	r := NewResolver(ix)

	game, err := ix.Get("game")
	require.NoError(t, err)

	assert.Equal(t, []string{"game", "deva", "devb"}, ids(r.CloseOver(game)))
}

func TestCloseOver_MemoizedAcrossWinners(t *testing.T) {
	ix := buildIndex(t,
		&catalog.MachineEntry{ID: "neogeo", IsBIOS: true},
		&catalog.MachineEntry{ID: "mslug", ROMOf: "neogeo"},
		&catalog.MachineEntry{ID: "samsho", ROMOf: "neogeo"},
	)
	r := NewResolver(ix)

	for _, id := range []string{"mslug", "samsho", "mslug"} {
		m, err := ix.Get(id)
		require.NoError(t, err)
		closure := r.CloseOver(m)
		assert.Equal(t, []string{id, "neogeo"}, ids(closure))
	}
	assert.Empty(t, r.Warnings())
}

func TestCloseOver_SharedPointers(t *testing.T) {
	// The closure hands back the index's own entries, not copies.
	bios := &catalog.MachineEntry{ID: "bios", IsBIOS: true}
	ix := buildIndex(t, bios, &catalog.MachineEntry{ID: "g", ROMOf: "bios"})
	r := NewResolver(ix)

	g, err := ix.Get("g")
	require.NoError(t, err)

	closure := r.CloseOver(g)
	require.Len(t, closure, 2)
	assert.Same(t, bios, closure[1])
}
