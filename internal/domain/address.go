package domain

import (
	"regexp"
	"strings"
)

var (
	// unitRe matches unit designators that confuse geocoders,
	// e.g. "123 Main St Apt 4B" or "950 Pender St #1200". The designator
	// must be followed by whitespace (or be "#") so street names like
	// "Steve" survive.
	unitRe = regexp.MustCompile(`(?i)\s+(?:apt|apartment|unit|suite|ste)\.?\s+[\w-]+|\s+#\s*[\w-]+`)

	// bcRe / usStateRe detect a trailing province or state token so a country
	// suffix can be inferred, e.g. "... Victoria, BC" or "... Seattle, WA 98101".
	bcRe      = regexp.MustCompile(`(?i),\s*(?:BC|British Columbia)\b`)
	usStateRe = regexp.MustCompile(`,\s*(?:WA|OR|ID|CA|MT|AK)\b`)

	countryRe = regexp.MustCompile(`(?i),\s*(?:Canada|USA|United States)\s*$`)
)

// streetAbbrevs maps common street-type abbreviations to the full word some
// geocoders index better. Applied token-wise, case-preserved output.
var streetAbbrevs = map[string]string{
	"St":   "Street",
	"Ave":  "Avenue",
	"Rd":   "Road",
	"Dr":   "Drive",
	"Blvd": "Boulevard",
	"Hwy":  "Highway",
	"Ln":   "Lane",
	"Ct":   "Court",
}

// ParseAddressInput collapses a multi-line postal-style address into a single
// comma-joined line using fixed positional rules:
//
//	1 line:  returned as-is
//	2 lines: street, city-state-zip
//	3-4 lines: joined in order
//	5+ lines: joined in order
//
// Blank lines and surrounding whitespace are dropped first.
func ParseAddressInput(raw string) string {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return ""
	}
	if len(lines) == 1 {
		return lines[0]
	}
	return strings.Join(lines, ", ")
}

// AddressRewrites returns the fixed sequence of alternate forms the
// validation flow tries when the address as given fails to geocode:
// unit designators stripped, an inferred country suffix appended, and
// street-type abbreviations expanded. Rewrites identical to the input
// (or to each other) are dropped, preserving order.
func AddressRewrites(address string) []string {
	var rewrites []string
	seen := map[string]bool{address: true}
	add := func(candidate string) {
		candidate = strings.TrimSpace(candidate)
		if candidate != "" && !seen[candidate] {
			seen[candidate] = true
			rewrites = append(rewrites, candidate)
		}
	}

	add(unitRe.ReplaceAllString(address, ""))
	add(withCountrySuffix(address))
	add(expandAbbreviations(address))

	// Combined form: all three applied, for addresses that need more than
	// one correction.
	add(withCountrySuffix(expandAbbreviations(unitRe.ReplaceAllString(address, ""))))

	return rewrites
}

func withCountrySuffix(address string) string {
	if countryRe.MatchString(address) {
		return address
	}
	switch {
	case bcRe.MatchString(address):
		return address + ", Canada"
	case usStateRe.MatchString(address):
		return address + ", USA"
	default:
		return address
	}
}

func expandAbbreviations(address string) string {
	fields := strings.Split(address, " ")
	for i, f := range fields {
		word := f
		suffix := ""
		for len(word) > 0 && (word[len(word)-1] == ',' || word[len(word)-1] == '.') {
			suffix = string(word[len(word)-1]) + suffix
			word = word[:len(word)-1]
		}
		if full, ok := streetAbbrevs[word]; ok {
			// A trailing period belongs to the abbreviation itself; drop it.
			fields[i] = full + strings.TrimPrefix(suffix, ".")
		}
	}
	return strings.Join(fields, " ")
}
