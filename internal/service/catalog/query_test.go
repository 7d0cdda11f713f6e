package catalog

import (
	"context"
	"testing"

	"github.com/C3604/ChronoAtlas/internal/config"
	"github.com/C3604/ChronoAtlas/internal/domain"
	"github.com/C3604/ChronoAtlas/internal/domain/models/catalog"
	catalogSvc "github.com/C3604/ChronoAtlas/internal/domain/services/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedTimeline creates three events and returns their ids by title.
func seedTimeline(t *testing.T, s *services) map[string]string {
	t.Helper()
	ids := map[string]string{}
	for _, req := range []*catalogSvc.CreateEventRequest{
		{
			Title:   "People's Republic founded",
			Summary: "Proclaimed in Beijing.",
			Time: &catalog.EventTime{
				Start:     catalog.TimePoint{Year: 1949, Month: intPtr(10), Day: intPtr(1)},
				Precision: catalog.PrecisionDay,
			},
			TagIDs: catalog.StringList{"tag_2"},
		},
		{
			Title:   "Qin dynasty",
			Summary: "First imperial dynasty.",
			Time:    yearSpan(-221, -206),
			TagIDs:  catalog.StringList{"tag_2", "tag_5"},
		},
		{
			Title:   "Han paper making",
			Summary: "Cai Lun improves PAPER.",
			Time:    yearSpan(100, 300),
			TagIDs:  catalog.StringList{"tag_3"},
		},
	} {
		ids[req.Title] = mustCreate(t, s, req).ID
	}
	return ids
}

func titles(list *catalog.EventList) []string {
	out := make([]string, 0, len(list.Items))
	for _, item := range list.Items {
		out = append(out, item.Title)
	}
	return out
}

func TestListEvents(t *testing.T) {
	s := newServices(t)
	seedTimeline(t, s)
	ctx := context.Background()

	tests := []struct {
		name  string
		query *catalogSvc.ListEventsQuery
		want  []string
	}{
		{
			name:  "no filter sorts by start year",
			query: &catalogSvc.ListEventsQuery{},
			want:  []string{"Qin dynasty", "Han paper making", "People's Republic founded"},
		},
		{
			name:  "range overlaps span",
			query: &catalogSvc.ListEventsQuery{TimeFrom: strPtr("-210"), TimeTo: strPtr("-200")},
			want:  []string{"Qin dynasty"},
		},
		{
			name:  "from uses end year",
			query: &catalogSvc.ListEventsQuery{TimeFrom: strPtr("250")},
			want:  []string{"Han paper making", "People's Republic founded"},
		},
		{
			name:  "to uses start year",
			query: &catalogSvc.ListEventsQuery{TimeTo: strPtr("100.0")},
			want:  []string{"Qin dynasty", "Han paper making"},
		},
		{
			name:  "all tags must match",
			query: &catalogSvc.ListEventsQuery{TagIDs: "tag_2, tag_5"},
			want:  []string{"Qin dynasty"},
		},
		{
			name:  "any tag matches",
			query: &catalogSvc.ListEventsQuery{TagIDs: "tag_5", CategoryIDs: "tag_3", TagMatch: "ANY"},
			want:  []string{"Qin dynasty", "Han paper making"},
		},
		{
			name:  "keyword is case-insensitive over title and summary",
			query: &catalogSvc.ListEventsQuery{Keyword: "paper"},
			want:  []string{"Han paper making"},
		},
		{
			name:  "filters combine",
			query: &catalogSvc.ListEventsQuery{TimeFrom: strPtr("0"), TagIDs: "tag_2"},
			want:  []string{"People's Republic founded"},
		},
		{
			name:  "nothing matches",
			query: &catalogSvc.ListEventsQuery{Keyword: "zzz"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := s.queries.ListEvents(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(list))
			assert.Equal(t, len(tt.want), list.Total)
		})
	}
}

func TestParseEventFilterRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		query *catalogSvc.ListEventsQuery
		field string
	}{
		{"not a number", &catalogSvc.ListEventsQuery{TimeFrom: strPtr("abc")}, "timeFrom"},
		{"fractional", &catalogSvc.ListEventsQuery{TimeTo: strPtr("150.5")}, "timeTo"},
		{"present but empty", &catalogSvc.ListEventsQuery{TimeFrom: strPtr("")}, "timeFrom"},
		{"beyond int64", &catalogSvc.ListEventsQuery{TimeFrom: strPtr("1e20")}, "timeFrom"},
		{"int64 max", &catalogSvc.ListEventsQuery{TimeTo: strPtr("9223372036854775807")}, "timeTo"},
		{"beyond year bound", &catalogSvc.ListEventsQuery{TimeTo: strPtr("-1000000001")}, "timeTo"},
		{"unknown tag match", &catalogSvc.ListEventsQuery{TagMatch: "some"}, "tagMatch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEventFilter(tt.query)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, tt.field, domain.FieldOf(err))
		})
	}
}

func TestParseEventFilterDefaults(t *testing.T) {
	f, err := ParseEventFilter(&catalogSvc.ListEventsQuery{TagIDs: "a,,b", CategoryIDs: "b,c", Keyword: " Qin "})
	require.NoError(t, err)
	assert.Equal(t, catalog.TagMatchAll, f.TagMatch)
	assert.Equal(t, []string{"a", "b", "c"}, f.TagIDs)
	assert.Equal(t, "qin", f.Keyword)
	assert.Nil(t, f.TimeFrom)
}

func TestSearch(t *testing.T) {
	s := newServices(t)
	seedTimeline(t, s)
	ctx := context.Background()

	list, err := s.queries.Search(ctx, "  DYNASTY ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Qin dynasty"}, titles(list))

	all, err := s.queries.Search(ctx, "i")
	require.NoError(t, err)
	assert.Equal(t, []string{"People's Republic founded", "Qin dynasty", "Han paper making"}, titles(all),
		"search keeps document order")

	_, err = s.queries.Search(ctx, "   ")
	assert.Equal(t, "q", domain.FieldOf(err))
}

func TestListEventsSortsExtremeYears(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	mustCreate(t, s, &catalogSvc.CreateEventRequest{Title: "Five", Time: singleYear(5)})
	mustCreate(t, s, &catalogSvc.CreateEventRequest{Title: "Deep past", Time: singleYear(-config.MaxAbsYear)})
	mustCreate(t, s, &catalogSvc.CreateEventRequest{Title: "Far future", Time: singleYear(config.MaxAbsYear)})
	mustCreate(t, s, &catalogSvc.CreateEventRequest{Title: "Ten", Time: singleYear(10)})

	list, err := s.queries.ListEvents(ctx, &catalogSvc.ListEventsQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Deep past", "Five", "Ten", "Far future"}, titles(list))
}

func TestAggregations(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	empty, err := s.queries.Aggregations(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
	assert.Nil(t, empty.Years.Min)
	assert.Nil(t, empty.Years.Max)
	assert.Len(t, empty.Tags, 5)

	seedTimeline(t, s)
	agg, err := s.queries.Aggregations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, agg.Total)
	require.NotNil(t, agg.Years.Min)
	assert.Equal(t, -221, *agg.Years.Min)
	assert.Equal(t, 1949, *agg.Years.Max)

	counts := map[string]int{}
	for _, tc := range agg.Tags {
		counts[tc.ID] = tc.Count
	}
	assert.Equal(t, map[string]int{"tag_1": 0, "tag_2": 2, "tag_3": 1, "tag_4": 0, "tag_5": 1}, counts)
}
