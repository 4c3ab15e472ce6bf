package catalog

import (
	"regexp"
	"sort"
	"strings"
)

// Known locale tokens found inside parenthesized description tags, e.g.
// "Street Fighter II (Japan, 910522)". Used by the scan command to offer
// the front end a preference list built from the actual catalog.
var knownRegions = map[string]struct{}{
	"argentina": {}, "asia": {}, "australia": {}, "austria": {},
	"belgium": {}, "brazil": {}, "canada": {}, "china": {}, "denmark": {},
	"europe": {}, "euro": {}, "finland": {}, "france": {}, "germany": {},
	"greece": {}, "hispanic": {}, "hong kong": {}, "ireland": {},
	"italy": {}, "japan": {}, "korea": {}, "netherlands": {},
	"new zealand": {}, "norway": {}, "poland": {}, "portugal": {},
	"russia": {}, "scandinavia": {}, "singapore": {}, "spain": {},
	"sweden": {}, "switzerland": {}, "taiwan": {}, "uk": {}, "usa": {},
	"us": {}, "world": {}, "w": {}, "j": {}, "u": {}, "e": {}, "a": {},
}

var knownLanguages = map[string]struct{}{
	"english": {}, "japanese": {}, "spanish": {}, "french": {},
	"german": {}, "italian": {}, "korean": {}, "chinese": {}, "dutch": {},
	"en": {}, "ja": {}, "es": {}, "fr": {}, "de": {}, "it": {}, "ko": {},
	"zh": {}, "nl": {},
}

var parenTagRe = regexp.MustCompile(`\((.*?)\)`)

// ScanLocales walks every description and collects the region and language
// tokens it recognizes, sorted for stable display.
func ScanLocales(ix *Index) (regions, languages []string) {
	regionSet := make(map[string]struct{})
	langSet := make(map[string]struct{})

	for _, m := range ix.All() {
		if !strings.ContainsRune(m.Description, '(') {
			continue
		}
		for _, group := range parenTagRe.FindAllStringSubmatch(m.Description, -1) {
			for _, part := range strings.Split(group[1], ",") {
				part = strings.ToLower(strings.TrimSpace(part))
				if part == "" {
					continue
				}
				if _, ok := knownLanguages[part]; ok {
					langSet[part] = struct{}{}
				} else if _, ok := knownRegions[part]; ok {
					regionSet[part] = struct{}{}
				}
			}
		}
	}

	for r := range regionSet {
		regions = append(regions, r)
	}
	for l := range langSet {
		languages = append(languages, l)
	}
	sort.Strings(regions)
	sort.Strings(languages)
	return regions, languages
}
