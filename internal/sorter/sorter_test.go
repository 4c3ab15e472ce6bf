package sorter

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/romsort/api"
)

const sampleXML = `<?xml version="1.0"?>
<mame build="0.270">
  <machine name="neogeo" sourcefile="neogeo/neogeo.cpp" isbios="yes">
    <description>Neo-Geo MV-6F</description>
    <rom name="sp-s2.sp1"/>
    <driver status="good"/>
  </machine>
  <machine name="mslug" sourcefile="neogeo/neogeo.cpp" romof="neogeo">
    <description>Metal Slug - Super Vehicle-001</description>
    <rom name="201-p1.p1"/>
    <input players="2" buttons="4">
      <control type="joy" ways="8"/>
    </input>
    <driver status="good"/>
  </machine>
  <machine name="mslugj" cloneof="mslug" romof="mslug" sourcefile="neogeo/neogeo.cpp">
    <description>Metal Slug (Japan)</description>
    <rom name="201-p1j.p1"/>
    <driver status="good"/>
  </machine>
  <machine name="pacman" sourcefile="pacman/pacman.cpp">
    <description>Pac-Man (Midway)</description>
    <rom name="pacman.6e"/>
    <rom name="pacman.6f"/>
    <input players="2" buttons="1">
      <control type="joy" ways="4"/>
    </input>
    <driver status="good"/>
  </machine>
  <machine name="puckman" sourcefile="pacman/pacman.cpp">
    <description>Puck Man (Japan)</description>
    <rom name="namcopac.6e"/>
    <driver status="good"/>
  </machine>
  <machine name="brokeng" sourcefile="misc/broken.cpp">
    <description>Broken Game</description>
    <rom name="broken.bin"/>
    <driver status="preliminary"/>
  </machine>
  <machine name="nes_cart" sourcefile="nes/nes.cpp">
    <description>Famiclone Cart</description>
    <rom name="cart.bin"/>
    <driver status="good"/>
  </machine>
</mame>
`

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mame.xml")
	require.NoError(t, os.WriteFile(path, []byte(sampleXML), 0o644))
	return path
}

func TestRun_EndToEnd(t *testing.T) {
	opts := Options{CatalogPath: writeCatalog(t)}
	cfg := api.DefaultFilterConfig()

	res, err := Run(opts, cfg)
	require.NoError(t, err)

	assert.Equal(t, 7, res.Index.Len())

	// Winners: mslug beats its Japan clone, pacman and puckman stand
	// alone (different families without cloneof), brokeng and nes_cart
	// fall to the filter, the BIOS is closure-only.
	want := api.CopyPlan{
		{Source: "mslug/201-p1.p1", Dest: "roms/mslug/201-p1.p1"},
		{Source: "neogeo/sp-s2.sp1", Dest: "roms/neogeo/sp-s2.sp1"},
		{Source: "pacman/pacman.6e", Dest: "roms/pacman/pacman.6e"},
		{Source: "pacman/pacman.6f", Dest: "roms/pacman/pacman.6f"},
		{Source: "puckman/namcopac.6e", Dest: "roms/puckman/namcopac.6e"},
	}
	assert.Equal(t, want, res.Plan)

	assert.Equal(t, 3, res.Report.Winners)
	assert.Equal(t, 1, res.Report.SkipCounts["driver-status"])
	assert.Equal(t, 1, res.Report.SkipCounts["category-not-allowed"])
	assert.Empty(t, res.Warnings)
}

func TestRun_Deterministic(t *testing.T) {
	opts := Options{CatalogPath: writeCatalog(t), Workers: 4}
	cfg := api.DefaultFilterConfig()

	a, err := Run(opts, cfg)
	require.NoError(t, err)
	b, err := Run(opts, cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Plan, b.Plan)

	var bufA, bufB bytes.Buffer
	require.NoError(t, a.Report.EncodeYAML(&bufA))
	require.NoError(t, b.Report.EncodeYAML(&bufB))
	assert.Equal(t, bufA.String(), bufB.String(), "reports must be byte-identical across runs")
}

func TestRun_ThroughCache(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "mame.xml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(sampleXML), 0o644))

	opts := Options{CatalogPath: catalogPath, CachePath: filepath.Join(dir, "catalog.db")}
	cfg := api.DefaultFilterConfig()

	cold, err := Run(opts, cfg)
	require.NoError(t, err)
	warm, err := Run(opts, cfg)
	require.NoError(t, err)

	assert.Equal(t, cold.Plan, warm.Plan)
	assert.Equal(t, cold.Index.Len(), warm.Index.Len())
}

func TestRun_MissingCatalog(t *testing.T) {
	_, err := Run(Options{CatalogPath: filepath.Join(t.TempDir(), "absent.xml")}, api.DefaultFilterConfig())
	require.Error(t, err)
}

func TestRun_CloneWinnerPullsBIOS(t *testing.T) {
	// The parent is rejected on driver status, so the clone wins. Its
	// romof names the parent set, and the BIOS is only reachable through
	// the parent's own romof; the plan must still carry the BIOS files.
	const xml = `<?xml version="1.0"?>
<mame build="0.270">
  <machine name="neogeo" sourcefile="neogeo/neogeo.cpp" isbios="yes">
    <description>Neo-Geo MV-6F</description>
    <rom name="sp-s2.sp1"/>
    <driver status="good"/>
  </machine>
  <machine name="mslug" sourcefile="neogeo/neogeo.cpp" romof="neogeo">
    <description>Metal Slug - Super Vehicle-001</description>
    <rom name="201-p1.p1"/>
    <driver status="preliminary"/>
  </machine>
  <machine name="mslugj" cloneof="mslug" romof="mslug" sourcefile="neogeo/neogeo.cpp">
    <description>Metal Slug (Japan)</description>
    <rom name="201-p1j.p1"/>
    <driver status="good"/>
  </machine>
</mame>
`
	path := filepath.Join(t.TempDir(), "mame.xml")
	require.NoError(t, os.WriteFile(path, []byte(xml), 0o644))

	res, err := Run(Options{CatalogPath: path}, api.DefaultFilterConfig())
	require.NoError(t, err)

	sel := res.Selections["mslug"]
	require.NotNil(t, sel.Winner)
	require.Equal(t, "mslugj", sel.Winner.ID)

	want := api.CopyPlan{
		{Source: "mslugj/201-p1j.p1", Dest: "roms/mslugj/201-p1j.p1"},
		{Source: "neogeo/sp-s2.sp1", Dest: "roms/neogeo/sp-s2.sp1"},
	}
	assert.Equal(t, want, res.Plan)
	assert.Empty(t, res.Warnings)
}

func TestRun_KeepBestResurrectsFamily(t *testing.T) {
	opts := Options{CatalogPath: writeCatalog(t)}
	cfg := api.DefaultFilterConfig()
	cfg.KeepBestAvailableIfImperfect = true

	res, err := Run(opts, cfg)
	require.NoError(t, err)

	sel := res.Selections["brokeng"]
	require.NotNil(t, sel.Winner)
	assert.True(t, sel.Downgraded)
	assert.Contains(t, res.Plan, api.CopyOp{Source: "brokeng/broken.bin", Dest: "roms/brokeng/broken.bin"})
}
