package reference

var provinceAliases = map[string]string{
	"on": "ON", "ont": "ON", "ontario": "ON",
	"bc": "BC", "british columbia": "BC",
	"ab": "AB", "alta": "AB", "alberta": "AB",
	"sk": "SK", "sask": "SK", "saskatchewan": "SK",
	"mb": "MB", "man": "MB", "manitoba": "MB",
	"qc": "QC", "pq": "QC", "que": "QC", "quebec": "QC", "québec": "QC",
	"nb": "NB", "new brunswick": "NB",
	"ns": "NS", "nova scotia": "NS",
	"pe": "PE", "pei": "PE", "prince edward island": "PE",
	"nl": "NL", "nfld": "NL", "newfoundland": "NL", "newfoundland and labrador": "NL",
	"yt": "YT", "yukon": "YT",
	"nt": "NT", "northwest territories": "NT",
	"nu": "NU", "nunavut": "NU",
}

// ProvinceCode returns the two-letter code for a province or territory name
// or abbreviation, or "" when it is not recognised.
func ProvinceCode(name string) string {
	return provinceAliases[Key(name)]
}
