package catalog

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/C3604/ChronoAtlas/internal/domain"
	"github.com/C3604/ChronoAtlas/internal/domain/models/catalog"
	catalogSvc "github.com/C3604/ChronoAtlas/internal/domain/services/catalog"
)

// queryService implements the QueryService interface
type queryService struct {
	store  *Store
	logger *slog.Logger
}

// NewQueryService creates a new query service
func NewQueryService(store *Store, logger *slog.Logger) catalogSvc.QueryService {
	return &queryService{
		store:  store,
		logger: logger,
	}
}

func (s *queryService) ListEvents(ctx context.Context, q *catalogSvc.ListEventsQuery) (*catalog.EventList, error) {
	filter, err := ParseEventFilter(q)
	if err != nil {
		return nil, err
	}
	doc, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}
	return listEvents(doc, filter), nil
}

func (s *queryService) Search(ctx context.Context, keyword string) (*catalog.EventList, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, domain.NewValidationError("q", "q is required")
	}
	doc, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}
	// search keeps document order; only the list endpoint sorts by year
	hits := filterEvents(doc, catalog.EventFilter{Keyword: strings.ToLower(keyword)})
	return &catalog.EventList{Items: doc.Views(hits), Total: len(hits)}, nil
}

func (s *queryService) Aggregations(ctx context.Context) (*catalog.Aggregations, error) {
	doc, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate(doc), nil
}

// ParseEventFilter turns raw query parameters into a filter. Absent
// parameters add no constraint; present but malformed ones are rejected.
func ParseEventFilter(q *catalogSvc.ListEventsQuery) (catalog.EventFilter, error) {
	var f catalog.EventFilter
	if q == nil {
		return f, nil
	}

	var err error
	if f.TimeFrom, err = parseYear(q.TimeFrom, "timeFrom"); err != nil {
		return f, err
	}
	if f.TimeTo, err = parseYear(q.TimeTo, "timeTo"); err != nil {
		return f, err
	}

	f.TagIDs = uniqueIDs(splitIDs(q.TagIDs), splitIDs(q.CategoryIDs))

	switch strings.ToLower(strings.TrimSpace(q.TagMatch)) {
	case "", string(catalog.TagMatchAll):
		f.TagMatch = catalog.TagMatchAll
	case string(catalog.TagMatchAny):
		f.TagMatch = catalog.TagMatchAny
	default:
		return f, domain.NewValidationError("tagMatch", "tagMatch must be any or all")
	}

	f.Keyword = strings.ToLower(strings.TrimSpace(q.Keyword))
	return f, nil
}

// parseYear reads an optional year bound. nil means the parameter was
// absent; a present but empty or non-integral value is rejected.
func parseYear(raw *string, field string) (*int, error) {
	if raw == nil {
		return nil, nil
	}
	year, err := catalog.ParseYear(*raw)
	if err != nil {
		return nil, domain.NewValidationError(field, "%s must be an integer year", field)
	}
	return &year, nil
}

func splitIDs(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func uniqueIDs(lists ...[]string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, id := range list {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

// matches reports whether e passes every constraint of f.
func matches(e *catalog.Event, f catalog.EventFilter) bool {
	if f.TimeFrom != nil && e.Time.EndYear() < *f.TimeFrom {
		return false
	}
	if f.TimeTo != nil && e.Time.Start.Year > *f.TimeTo {
		return false
	}

	if len(f.TagIDs) > 0 {
		if f.TagMatch == catalog.TagMatchAny {
			if !slices.ContainsFunc(f.TagIDs, e.HasTag) {
				return false
			}
		} else {
			for _, id := range f.TagIDs {
				if !e.HasTag(id) {
					return false
				}
			}
		}
	}

	if f.Keyword != "" {
		if !strings.Contains(strings.ToLower(e.Title), f.Keyword) &&
			!strings.Contains(strings.ToLower(e.Summary), f.Keyword) {
			return false
		}
	}
	return true
}

// filterEvents returns doc's events passing f, in document order.
func filterEvents(doc *catalog.Document, f catalog.EventFilter) []*catalog.Event {
	var hits []*catalog.Event
	for _, e := range doc.Events {
		if matches(e, f) {
			hits = append(hits, e)
		}
	}
	return hits
}

// listEvents filters doc's events and sorts them by start year, keeping
// document order among equal years.
func listEvents(doc *catalog.Document, f catalog.EventFilter) *catalog.EventList {
	hits := filterEvents(doc, f)
	slices.SortStableFunc(hits, func(a, b *catalog.Event) int {
		return cmp.Compare(a.Time.Start.Year, b.Time.Start.Year)
	})
	return &catalog.EventList{Items: doc.Views(hits), Total: len(hits)}
}

func aggregate(doc *catalog.Document) *catalog.Aggregations {
	out := &catalog.Aggregations{
		Total: len(doc.Events),
		Tags:  make([]catalog.TagCount, 0, len(doc.Tags)),
	}

	counts := make(map[string]int, len(doc.Tags))
	for _, e := range doc.Events {
		for _, id := range e.TagIDs {
			counts[id]++
		}
		start, end := e.Time.Start.Year, e.Time.EndYear()
		if out.Years.Min == nil || start < *out.Years.Min {
			out.Years.Min = &start
		}
		if out.Years.Max == nil || end > *out.Years.Max {
			out.Years.Max = &end
		}
	}
	for _, t := range doc.Tags {
		out.Tags = append(out.Tags, catalog.TagCount{ID: t.ID, Name: t.Name, Count: counts[t.ID]})
	}
	return out
}
