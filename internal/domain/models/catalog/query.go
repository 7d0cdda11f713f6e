package catalog

// TagMatch selects how a multi-tag filter combines.
type TagMatch string

const (
	TagMatchAll TagMatch = "all"
	TagMatchAny TagMatch = "any"
)

// EventFilter narrows a list query. Nil or empty fields apply no constraint.
type EventFilter struct {
	TimeFrom *int
	TimeTo   *int
	TagIDs   []string
	TagMatch TagMatch
	Keyword  string
}

// YearRange is the span of years covered by the catalog. Both ends are nil
// when there are no events.
type YearRange struct {
	Min *int `json:"min"`
	Max *int `json:"max"`
}

// TagCount is the number of events carrying a tag.
type TagCount struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Aggregations summarizes the catalog.
type Aggregations struct {
	Total int        `json:"total"`
	Years YearRange  `json:"years"`
	Tags  []TagCount `json:"tags"`
}
