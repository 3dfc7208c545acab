package ump

import (
	"park-locator-service/internal/domain"
	"regexp"
	"strconv"
	"strings"
)

// POINT(lon lat): optional sign, integer or decimal, one space between the numbers.
var wktPointRE = regexp.MustCompile(`^POINT\(\s*([+-]?\d+(?:\.\d+)?) ([+-]?\d+(?:\.\d+)?)\s*\)$`)

// ParseWKTPoint parses the upstream coordinate string. Anything outside the
// grammar is rejected with ok=false.
func ParseWKTPoint(s string) (domain.Coordinates, bool) {
	m := wktPointRE.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return domain.Coordinates{}, false
	}

	lon, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return domain.Coordinates{}, false
	}
	lat, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return domain.Coordinates{}, false
	}

	return domain.Coordinates{Lon: lon, Lat: lat}, true
}
