package normalize

// usStates maps US state names to their postal codes.
var usStates = map[string]string{
	"alabama":              "AL",
	"alaska":               "AK",
	"arizona":              "AZ",
	"arkansas":             "AR",
	"california":           "CA",
	"colorado":             "CO",
	"connecticut":          "CT",
	"delaware":             "DE",
	"district of columbia": "DC",
	"florida":              "FL",
	"georgia":              "GA",
	"hawaii":               "HI",
	"idaho":                "ID",
	"illinois":             "IL",
	"indiana":              "IN",
	"iowa":                 "IA",
	"kansas":               "KS",
	"kentucky":             "KY",
	"louisiana":            "LA",
	"maine":                "ME",
	"maryland":             "MD",
	"massachusetts":        "MA",
	"michigan":             "MI",
	"minnesota":            "MN",
	"mississippi":          "MS",
	"missouri":             "MO",
	"montana":              "MT",
	"nebraska":             "NE",
	"nevada":               "NV",
	"new hampshire":        "NH",
	"new jersey":           "NJ",
	"new mexico":           "NM",
	"new york":             "NY",
	"north carolina":       "NC",
	"north dakota":         "ND",
	"ohio":                 "OH",
	"oklahoma":             "OK",
	"oregon":               "OR",
	"pennsylvania":         "PA",
	"rhode island":         "RI",
	"south carolina":       "SC",
	"south dakota":         "SD",
	"tennessee":            "TN",
	"texas":                "TX",
	"utah":                 "UT",
	"vermont":              "VT",
	"virginia":             "VA",
	"washington":           "WA",
	"west virginia":        "WV",
	"wisconsin":            "WI",
	"wyoming":              "WY",
}

var countries = []string{
	"usa", "us", "u.s.", "u.s.a.", "united states", "united states of america", "america",
	"canada", "mexico",
	"uk", "u.k.", "united kingdom", "great britain", "england", "scotland", "wales",
	"ireland", "australia", "new zealand",
	"germany", "france", "spain", "italy", "netherlands",
}

// regions is the lower-cased lookup set RemoveStateSuffixes matches against.
var regions = buildRegions()

func buildRegions() map[string]struct{} {
	out := make(map[string]struct{}, 2*len(usStates)+len(countries))
	for name, code := range usStates {
		out[name] = struct{}{}
		out[ToLowerASCII(code)] = struct{}{}
	}
	for _, c := range countries {
		out[c] = struct{}{}
	}
	return out
}
