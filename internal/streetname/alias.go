package streetname

// AliasTable maps a canonical base name to alternative base names known to
// identify the same physical street across the two data sources. The table
// only adds redundant index entries at build time; it never rewrites a key
// derived from real data.
type AliasTable map[string][]string

// DefaultAliases is the curated table of Chicago naming divergences the
// normalizer cannot reconcile on its own: city renames, spacing that one
// dataset collapses, and honorific prefixes one dataset drops.
func DefaultAliases() AliasTable {
	return AliasTable{
		// Renamed by the city after the network extract was cut.
		"DOUGLAS":            {"DOUGLASS"},
		"DOUGLASS":           {"DOUGLAS"},
		"LAKE SHORE":         {"DUSABLE LAKE SHORE"},
		"DUSABLE LAKE SHORE": {"LAKE SHORE"},

		// Spacing divergence between the catalog and the network dataset.
		"LASALLE":    {"LA SALLE"},
		"LA SALLE":   {"LASALLE"},
		"DEKOVEN":    {"DE KOVEN"},
		"DE KOVEN":   {"DEKOVEN"},
		"LAVERGNE":   {"LA VERGNE"},
		"LA VERGNE":  {"LAVERGNE"},
		"MCVICKER":   {"MC VICKER"},
		"MC VICKER":  {"MCVICKER"},
		"MACCHESNEY": {"MAC CHESNEY"},

		// King Drive appears with and without the leading honorific.
		"MARTIN LUTHER KING JR":    {"DR MARTIN LUTHER KING JR"},
		"DR MARTIN LUTHER KING JR": {"MARTIN LUTHER KING JR"},

		// Congress Parkway was renamed in 2019.
		"CONGRESS":    {"IDA B WELLS"},
		"IDA B WELLS": {"CONGRESS"},
	}
}
