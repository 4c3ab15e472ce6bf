package catalog

import (
	"path"
	"strings"
)

// nonArcadeSourceFiles maps driver source files of known home systems to
// their category tag. The source file is the most reliable signal in the
// catalog: category text is frequently absent or vague.
var nonArcadeSourceFiles = map[string]string{
	// Consoles
	"genesis.cpp": "console", "nes.cpp": "console", "snes.cpp": "console",
	"gamegear.cpp": "console", "gameboy.cpp": "console", "lynx.cpp": "console",
	"pce.cpp": "console", "a2600.cpp": "console", "coleco.cpp": "console",
	"intv.cpp": "console", "odyssey2.cpp": "console", "vectrex.cpp": "console",
	// Handheld LCD games
	"hh_tms.cpp": "handheld", "hh_sm510.cpp": "handheld",
	// Computers
	"msx.cpp": "computer", "spectrum.cpp": "computer", "c64.cpp": "computer",
	"amiga.cpp": "computer", "ti99.cpp": "computer", "x1.cpp": "computer",
	"coco.cpp": "computer", "apple2.cpp": "computer", "mac.cpp": "computer",
	"pc.cpp": "computer", "fm7.cpp": "computer",
}

// categoryKeywords maps tokens found in category text to tags, checked in
// order. "system" catches BIOS-ish umbrella categories.
var categoryKeywords = []struct{ token, tag string }{
	{"console", "console"},
	{"handheld", "handheld"},
	{"computer", "computer"},
	{"system", "system"},
}

// classify derives the normalized category tag for an entry. Layered like
// the rest of the arcade check: source file first, category text second,
// arcade as the default for anything that looks like coin-op hardware.
func classify(m *MachineEntry) string {
	// Newer catalogs qualify the source file with its driver directory.
	if tag, ok := nonArcadeSourceFiles[path.Base(m.SourceFile)]; ok {
		return tag
	}
	text := strings.ToLower(m.CategoryText)
	if text != "" {
		for _, kw := range categoryKeywords {
			if strings.Contains(text, kw.token) {
				return kw.tag
			}
		}
	}
	return "arcade"
}
