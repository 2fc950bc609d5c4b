// Package streetname canonicalizes free-text street names into the
// (direction, base name, type) identity used to match catalog records
// against network segments.
package streetname

import "strings"

// Key is the canonical identity of a street: a single-letter compass
// direction (or empty), the upper-cased base name, and a standard street
// type abbreviation (or empty).
type Key struct {
	Dir  string
	Name string
	Type string
}

// String serializes the key for use as a map key, e.g. "N|ELSTON|AVE".
func (k Key) String() string {
	return k.Dir + "|" + k.Name + "|" + k.Type
}

// WithoutDir returns the key with the direction slot cleared.
func (k Key) WithoutDir() Key {
	k.Dir = ""
	return k
}

// WithoutType returns the key with the street type slot cleared.
func (k Key) WithoutType() Key {
	k.Type = ""
	return k
}

// WithName returns the key with a replacement base name.
func (k Key) WithName(name string) Key {
	k.Name = name
	return k
}

// directions maps recognized direction tokens to their single-letter form.
var directions = map[string]string{
	"NORTH": "N", "SOUTH": "S", "EAST": "E", "WEST": "W",
	"N": "N", "S": "S", "E": "E", "W": "W",
}

// streetTypes maps street type tokens, full words and the abbreviations the
// datasets already use, to the canonical abbreviation.
var streetTypes = map[string]string{
	"STREET": "ST", "ST": "ST",
	"AVENUE": "AVE", "AVE": "AVE", "AV": "AVE",
	"BOULEVARD": "BLVD", "BLVD": "BLVD",
	"ROAD": "RD", "RD": "RD",
	"DRIVE": "DR", "DR": "DR",
	"PLACE": "PL", "PL": "PL",
	"COURT": "CT", "CT": "CT",
	"LANE": "LN", "LN": "LN",
	"TERRACE": "TER", "TER": "TER",
	"PARKWAY": "PKWY", "PKWY": "PKWY",
	"EXPRESSWAY": "EXPY", "EXPY": "EXPY",
	"HIGHWAY": "HWY", "HWY": "HWY",
	"SQUARE": "SQ", "SQ": "SQ",
	"CIRCLE": "CIR", "CIR": "CIR",
	"CRESCENT": "CRES", "CRES": "CRES",
	"PLAZA": "PLZ", "PLZ": "PLZ",
	"ROW": "ROW",
	"WAY": "WAY",
	"WALK": "WALK",
}

// honorifics rewrites title words inside base names so both data sources
// collapse to one spelling. "Doctor Martin Luther King Junior" and
// "Dr Martin Luther King Jr" index identically.
var honorifics = map[string]string{
	"DOCTOR": "DR",
	"JUNIOR": "JR",
	"SENIOR": "SR",
	"SAINT":  "ST",
	"FORT":   "FT",
	"MOUNT":  "MT",
}

// Normalize parses a free-text street name into its canonical Key. It never
// fails: an unrecognized direction or type simply leaves that slot empty.
// The leading direction token and trailing type token are only consumed when
// at least one token remains for the base name.
func Normalize(raw string) Key {
	tokens := strings.Fields(strings.ToUpper(strings.TrimSpace(raw)))

	var k Key
	if len(tokens) > 1 {
		if d, ok := directions[tokens[0]]; ok {
			k.Dir = d
			tokens = tokens[1:]
		}
	}
	if len(tokens) > 1 {
		if t, ok := streetTypes[tokens[len(tokens)-1]]; ok {
			k.Type = t
			tokens = tokens[:len(tokens)-1]
		}
	}
	for i, tok := range tokens {
		if h, ok := honorifics[tok]; ok {
			tokens[i] = h
		}
	}
	k.Name = strings.Join(tokens, " ")
	return k
}

// NormalizeParts builds a Key from fields the catalog already stores split.
// Unrecognized direction or type values are kept as-is after upper-casing so
// a lookup miss is visible in diagnostics instead of silently collapsing.
func NormalizeParts(dir, name, typ string) Key {
	var k Key

	dir = strings.ToUpper(strings.TrimSpace(dir))
	if d, ok := directions[dir]; ok {
		k.Dir = d
	} else {
		k.Dir = dir
	}

	tokens := strings.Fields(strings.ToUpper(strings.TrimSpace(name)))
	for i, tok := range tokens {
		if h, ok := honorifics[tok]; ok {
			tokens[i] = h
		}
	}
	k.Name = strings.Join(tokens, " ")

	typ = strings.ToUpper(strings.TrimSpace(typ))
	if t, ok := streetTypes[typ]; ok {
		k.Type = t
	} else {
		k.Type = typ
	}
	return k
}
