package classify

import (
	"regexp"

	"github.com/lysyi3m/regwatch/app/feed"
)

// Rule maps a value to the keywords that select it. Rules are evaluated in
// slice order and the first rule with a matching keyword wins.
type Rule[T any] struct {
	Value    T
	Keywords []string
}

// Tables is the keyword data behind the classifier. It is built once at
// startup and only read afterwards.
type Tables struct {
	Categories []Rule[feed.Category]
	Locations  []Rule[feed.Location]
	DocTypes   []Rule[feed.DocType]
	Tags       []Rule[string]

	HighImpact   []string
	MediumImpact []string
	Monetary     *regexp.Regexp

	Noise        []string
	Topical      []string
	TopicalWords []string // whole words, plural allowed
	Federal      []string

	Deadlines []DeadlinePattern
}

func DefaultTables() *Tables {
	return &Tables{
		Categories: []Rule[feed.Category]{
			{feed.CategoryWater, []string{
				"water quality", "drinking water", "boil water", "wastewater", "stormwater",
				"aquifer", "groundwater", "watershed", "water rights", "reservoir", "river authority",
				"bacteria", "discharge permit", "tpdes", "water supply", "drought",
			}},
			{feed.CategoryAir, []string{
				"air quality", "air permit", "ozone", "emissions", "smog", "particulate",
				"flaring", "benzene", "air pollution", "nonattainment", "haze",
			}},
			{feed.CategoryWildlife, []string{
				"hunting", "hunter", "deer", "dove season", "waterfowl", "turkey season", "bag limit",
				"fishing", "angler", "wildlife", "endangered species", "threatened species",
				"habitat", "chronic wasting", "feral hog", "game warden",
			}},
			{feed.CategoryCoastal, []string{
				"coastal", "wetland", "estuary", "bay", "gulf", "shoreline", "beach",
				"dredge", "marsh", "erosion", "oyster",
			}},
			{feed.CategoryEnergy, []string{
				"pipeline", "oil and gas", "drilling", "fracking", "hydraulic fracturing",
				"lng", "refinery", "petrochemical", "wind farm", "solar farm", "transmission line",
				"injection well", "orphaned well", "produced water",
			}},
			{feed.CategoryWaste, []string{
				"superfund", "landfill", "hazardous waste", "remediation", "cleanup",
				"contamination", "spill", "brownfield", "illegal dumping", "recycling",
			}},
			{feed.CategoryDevelopment, []string{
				"development", "subdivision", "zoning", "annexation", "rezoning", "construction",
				"highway", "infrastructure", "site plan", "platting", "land use", "mud district",
				"municipal utility district", "section 404", "floodplain",
			}},
			{feed.CategoryConservation, []string{
				"conservation", "preserve", "state park", "land trust", "easement",
				"restoration", "native plant", "prairie", "open space", "acquisition",
			}},
		},

		// Specific metros come before broad regions; suburbs sit with their metro.
		Locations: []Rule[feed.Location]{
			{feed.LocationHouston, []string{
				"houston", "harris county", "katy", "sugar land", "the woodlands", "pasadena",
				"baytown", "pearland", "conroe", "galveston", "fort bend", "montgomery county",
				"ship channel", "la porte", "deer park",
			}},
			{feed.LocationDFW, []string{
				"dallas", "fort worth", "dfw", "arlington", "plano", "frisco", "irving",
				"denton", "mckinney", "tarrant county", "collin county", "grand prairie",
			}},
			{feed.LocationAustin, []string{
				"austin", "travis county", "round rock", "pflugerville", "georgetown",
				"williamson county", "cedar park", "lake travis", "barton springs", "san marcos",
			}},
			{feed.LocationSanAntonio, []string{
				"san antonio", "bexar county", "new braunfels", "schertz", "comal county",
				"edwards aquifer",
			}},
			{feed.LocationElPaso, []string{"el paso", "franklin mountains", "hueco"}},
			{feed.LocationCorpusChristi, []string{
				"corpus christi", "nueces county", "port aransas", "rockport", "ingleside",
			}},
			{feed.LocationValley, []string{
				"rio grande valley", "brownsville", "mcallen", "harlingen", "edinburg",
				"south padre", "laguna madre", "cameron county", "hidalgo county",
			}},
			{feed.LocationPermian, []string{"permian", "midland", "odessa", "pecos", "big spring"}},
			{feed.LocationHillCountry, []string{
				"hill country", "kerrville", "fredericksburg", "llano", "guadalupe river",
				"blanco", "wimberley", "dripping springs",
			}},
			{feed.LocationEastTexas, []string{
				"east texas", "tyler", "longview", "nacogdoches", "lufkin", "piney woods",
				"big thicket", "beaumont", "port arthur", "sabine",
			}},
			{feed.LocationPanhandle, []string{"panhandle", "amarillo", "lubbock", "canyon", "ogallala"}},
		},

		DocTypes: []Rule[feed.DocType]{
			{feed.DocTypeEnforcement, []string{
				"enforcement", "penalty", "violation", "settlement", "consent decree",
				"agreed order", "lawsuit", "indictment", "fined",
			}},
			{feed.DocTypePermit, []string{
				"permit", "license", "registration", "authorization", "application",
				"section 404", "tpdes",
			}},
			{feed.DocTypeHunting, []string{
				"hunting", "hunter", "season", "bag limit", "game", "fishing", "angler",
			}},
			{feed.DocTypePolicy, []string{
				"rule", "rulemaking", "regulation", "policy", "management plan", "action plan", "guidance",
				"standard", "federal register", "notice of proposed",
			}},
			{feed.DocTypeDevelopment, []string{
				"development", "construction", "subdivision", "zoning", "annexation",
				"infrastructure", "project",
			}},
			{feed.DocTypeConservation, []string{
				"conservation", "habitat", "restoration", "preserve", "endangered",
				"easement", "recovery plan",
			}},
		},

		Tags: []Rule[string]{
			{"comment-period", []string{"comment period", "public comment", "comments due", "submit comments"}},
			{"public-hearing", []string{"public hearing", "public meeting", "contested case hearing"}},
			{"permit", []string{"permit"}},
			{"enforcement", []string{"enforcement", "penalty", "violation", "consent decree"}},
		},

		HighImpact: []string{
			"emergency order", "emergency", "settlement", "penalty", "penalties", "lawsuit",
			"violation", "consent decree", "indictment", "spill", "explosion",
			"evacuation", "boil water", "fish kill", "contamination", "shutdown", "revoked",
			"million", "billion",
		},
		MediumImpact: []string{
			"comment period", "public comment", "public hearing", "public meeting",
			"proposed rule", "draft permit", "permit application", "notice of intent",
			"workshop", "deadline", "rulemaking", "renewal", "amendment", "open house",
		},
		Monetary: regexp.MustCompile(`\$\s?\d[\d,]*(\.\d+)?`),

		Noise: []string{
			"holiday hours", "office closure", "office closed", "employee spotlight",
			"staff spotlight", "job opening", "now hiring", "career fair", "internship",
			"newsletter", "happy hour", "birthday", "webinar recording", "gift shop",
			"photo contest", "volunteer of the month", "sponsored",
		},
		Topical: []string{
			"environment", "environmental", "permit", "water", "air quality", "emission",
			"pollution", "wildlife", "hunting", "fishing", "conservation", "habitat",
			"development", "zoning", "land use", "wetland", "coastal", "flood", "drought",
			"aquifer", "species", "state park", "national park", "epa", "tceq", "pipeline", "oil and gas",
			"drilling", "landfill", "waste", "cleanup", "superfund", "climate", "ozone",
			"rulemaking", "regulation", "enforcement", "bay",
		},
		// Common words that hide inside unrelated ones ("driver", "Cleveland").
		TopicalWords: []string{
			"river", "rule", "hearing", "comment", "land", "forest", "prairie", "gulf",
			"deer", "dove", "fish", "bird", "energy",
		},
		Federal: []string{
			"epa", "environmental protection agency", "u.s. fish and wildlife", "fish and wildlife service",
			"army corps", "usace", "noaa", "federal register", "bureau of land management",
			"department of the interior", "federal",
		},

		Deadlines: DefaultDeadlinePatterns(),
	}
}
