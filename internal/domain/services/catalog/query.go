package catalog

import (
	"context"

	"github.com/C3604/ChronoAtlas/internal/domain/models/catalog"
)

// QueryService answers read-only questions over the catalog.
type QueryService interface {
	ListEvents(ctx context.Context, q *ListEventsQuery) (*catalog.EventList, error)
	Search(ctx context.Context, keyword string) (*catalog.EventList, error)
	Aggregations(ctx context.Context) (*catalog.Aggregations, error)
}

// ListEventsQuery holds the raw query-string filters. Empty strings mean
// absent; the year bounds are nil when absent so that "timeFrom=" is rejected.
type ListEventsQuery struct {
	TimeFrom    *string
	TimeTo      *string
	TagIDs      string // comma-separated
	CategoryIDs string // comma-separated, legacy
	TagMatch    string // "any" or "all"
	Keyword     string
}
