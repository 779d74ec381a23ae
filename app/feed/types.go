package feed

import (
	"encoding/json"
	"time"
)

// Pipeline profiles

type Profile string

const (
	ProfileNews       Profile = "news"
	ProfileRegulatory Profile = "regulatory"
)

var Profiles = []Profile{ProfileNews, ProfileRegulatory}

func (p Profile) Valid() bool {
	return p == ProfileNews || p == ProfileRegulatory
}

// DeadlineAware reports whether impact is promoted by deadline proximity.
func (p Profile) DeadlineAware() bool {
	return p == ProfileRegulatory
}

// Classification vocabulary. The zero value of Category and Location means
// unset and is never a member of the vocabulary.

type Category string

const (
	CategoryWater        Category = "Water Quality"
	CategoryAir          Category = "Air Quality"
	CategoryWildlife     Category = "Wildlife & Hunting"
	CategoryCoastal      Category = "Coastal & Wetlands"
	CategoryEnergy       Category = "Energy & Pipelines"
	CategoryWaste        Category = "Waste & Remediation"
	CategoryDevelopment  Category = "Land Development"
	CategoryConservation Category = "Conservation"

	CategoryGeneral = "General"
)

var Categories = []Category{
	CategoryWater,
	CategoryAir,
	CategoryWildlife,
	CategoryCoastal,
	CategoryEnergy,
	CategoryWaste,
	CategoryDevelopment,
	CategoryConservation,
}

func (c Category) String() string {
	if c == "" {
		return CategoryGeneral
	}
	return string(c)
}

type Location string

const (
	LocationHouston       Location = "Houston"
	LocationDFW           Location = "Dallas-Fort Worth"
	LocationAustin        Location = "Austin"
	LocationSanAntonio    Location = "San Antonio"
	LocationElPaso        Location = "El Paso"
	LocationCorpusChristi Location = "Corpus Christi"
	LocationValley        Location = "Rio Grande Valley"
	LocationPermian       Location = "Permian Basin"
	LocationHillCountry   Location = "Hill Country"
	LocationEastTexas     Location = "East Texas"
	LocationPanhandle     Location = "Panhandle"

	LocationStatewide = "Statewide"
)

var Locations = []Location{
	LocationHouston,
	LocationDFW,
	LocationAustin,
	LocationSanAntonio,
	LocationElPaso,
	LocationCorpusChristi,
	LocationValley,
	LocationPermian,
	LocationHillCountry,
	LocationEastTexas,
	LocationPanhandle,
}

func (l Location) String() string {
	if l == "" {
		return LocationStatewide
	}
	return string(l)
}

type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

var Impacts = []Impact{ImpactHigh, ImpactMedium, ImpactLow}

type DocType string

const (
	DocTypePermit       DocType = "permit"
	DocTypeEnforcement  DocType = "enforcement"
	DocTypePolicy       DocType = "policy"
	DocTypeHunting      DocType = "hunting"
	DocTypeDevelopment  DocType = "development"
	DocTypeConservation DocType = "conservation"
	DocTypeGeneral      DocType = "general"
)

// Upstream entry, before classification

type Entry struct {
	GUID         string
	Title        string
	Link         string
	Description  string
	Content      string
	PublishedAt  *time.Time
	Deadline     *time.Time // set when the upstream carries a structured close date
	Authors      []string
	Categories   []string
	DocumentType string // provider document type, docket sources only
	Agency       string
}

// Item is the unit served to clients. It is built once per aggregation pass
// and never mutated afterwards.
type Item struct {
	ID          string
	Title       string
	Summary     string
	Link        string
	Source      string
	PublishedAt *time.Time
	Category    Category
	Location    Location
	Impact      Impact
	Deadline    *time.Time
	Type        DocType
	Tags        []string
}

// PrimaryTime is the later of PublishedAt and Deadline, or the zero time.
func (i Item) PrimaryTime() time.Time {
	var t time.Time
	if i.PublishedAt != nil {
		t = *i.PublishedAt
	}
	if i.Deadline != nil && i.Deadline.After(t) {
		t = *i.Deadline
	}
	return t
}

const DateLayout = "2006-01-02"

type itemJSON struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	Link        string     `json:"link"`
	Source      string     `json:"source"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	Category    string     `json:"category"`
	Location    string     `json:"location"`
	Impact      Impact     `json:"impact"`
	Deadline    string     `json:"deadline,omitempty"`
	Type        DocType    `json:"type,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

func (i Item) MarshalJSON() ([]byte, error) {
	out := itemJSON{
		ID:          i.ID,
		Title:       i.Title,
		Summary:     i.Summary,
		Link:        i.Link,
		Source:      i.Source,
		PublishedAt: i.PublishedAt,
		Category:    i.Category.String(),
		Location:    i.Location.String(),
		Impact:      i.Impact,
		Type:        i.Type,
		Tags:        i.Tags,
	}
	if i.Deadline != nil {
		out.Deadline = i.Deadline.Format(DateLayout)
	}
	return json.Marshal(out)
}

// Configuration types

type Kind string

const (
	KindFeed    Kind = "feed"
	KindDocket  Kind = "docket"
	KindListing Kind = "listing"
)

type Config struct {
	Name     string          `yaml:"name"` // Falls back to the filename without extension
	Kind     Kind            `yaml:"kind"`
	URL      string          `yaml:"url"`
	Priority int             `yaml:"priority"`
	Profiles []Profile       `yaml:"profiles"`
	Settings ConfigSettings  `yaml:"settings"`
	Filters  []ConfigFilter  `yaml:"filters"`
	Docket   *DocketOptions  `yaml:"docket"`
	Listing  *ListingOptions `yaml:"listing"`
}

func (c *Config) InProfile(p Profile) bool {
	for _, profile := range c.Profiles {
		if profile == p {
			return true
		}
	}
	return false
}

type ConfigSettings struct {
	Enabled  bool `yaml:"enabled"`
	MaxItems int  `yaml:"max_items"`
	Timeout  int  `yaml:"timeout"` // seconds
	Federal  bool `yaml:"federal"` // tag every item as federal
}

type ConfigFilter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

type DocketOptions struct {
	SearchTerm     string            `yaml:"search_term"`
	SearchParam    string            `yaml:"search_param"`
	PageSize       int               `yaml:"page_size"`
	SizeParam      string            `yaml:"size_param"`
	Sort           string            `yaml:"sort"`
	SortParam      string            `yaml:"sort_param"`
	Params         map[string]string `yaml:"params"`
	ActionableOnly bool              `yaml:"actionable_only"`
	UseAPIKey      bool              `yaml:"use_api_key"`
	APIKeyParam    string            `yaml:"api_key_param"`
	LinkTemplate   string            `yaml:"link_template"` // {id} is replaced with the document id
}

type ListingOptions struct {
	Item    string `yaml:"item"`
	Title   string `yaml:"title"`
	Link    string `yaml:"link"`
	Date    string `yaml:"date"`
	Summary string `yaml:"summary"`
}
