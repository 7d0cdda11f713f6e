package catalog

import (
	"bytes"
	"context"
	"testing"

	"github.com/C3604/ChronoAtlas/internal/domain"
	"github.com/C3604/ChronoAtlas/internal/domain/models/catalog"
	catalogSvc "github.com/C3604/ChronoAtlas/internal/domain/services/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func importItems() []catalogSvc.CreateEventRequest {
	return []catalogSvc.CreateEventRequest{
		{Title: "Imported one", Time: singleYear(10), TagIDs: catalog.StringList{"tag_1"}},
		{Title: "Imported two", Time: yearSpan(20, 30), Categories: []catalog.TagRef{{ID: "cat_old", Name: "Legacy Category"}}},
	}
}

func TestImportMerge(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	existing := mustCreate(t, s, &catalogSvc.CreateEventRequest{Title: "Existing", Time: singleYear(1)})

	res, err := s.transfer.ImportEvents(ctx, superAdmin, &catalogSvc.ImportRequest{Items: importItems()})
	require.NoError(t, err)
	assert.Equal(t, catalogSvc.ImportMerge, res.Mode)
	assert.Equal(t, 2, res.Imported)

	doc := readDoc(t, s)
	require.Len(t, doc.Events, 3)
	assert.NotNil(t, doc.FindEvent(existing.ID))
	assert.Equal(t, superAdmin.ID, doc.Events[1].CreatedBy)

	imported := doc.Events[2]
	require.Len(t, imported.TagIDs, 1)
	assert.Equal(t, "Legacy Category", doc.FindTag(imported.TagIDs[0]).Name)

	actions := map[catalog.VersionAction]int{}
	for _, v := range doc.EventVersions {
		actions[v.Action]++
	}
	assert.Equal(t, map[catalog.VersionAction]int{catalog.VersionCreate: 1, catalog.VersionImport: 2}, actions)
}

func TestImportReplace(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	mustCreate(t, s, &catalogSvc.CreateEventRequest{Title: "Replaced", Time: singleYear(1)})

	res, err := s.transfer.ImportEvents(ctx, admin, &catalogSvc.ImportRequest{Mode: "REPLACE", Items: importItems()})
	require.NoError(t, err)
	assert.Equal(t, catalogSvc.ImportReplace, res.Mode)

	doc := readDoc(t, s)
	assert.Len(t, doc.Events, 2)
	assert.Len(t, doc.EventVersions, 2)
	for _, v := range doc.EventVersions {
		assert.Equal(t, catalog.VersionImport, v.Action)
	}
	assert.Len(t, doc.Tags, 6, "tags survive a replace")
}

func TestImportIsAllOrNothing(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	items := importItems()
	items = append(items, catalogSvc.CreateEventRequest{Title: "Broken"})

	_, err := s.transfer.ImportEvents(ctx, superAdmin, &catalogSvc.ImportRequest{Mode: "replace", Items: items})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "items[2].time", domain.FieldOf(err))

	doc := readDoc(t, s)
	assert.Empty(t, doc.Events)
	assert.Len(t, doc.Tags, 5)
}

func TestImportRejectsBadRequests(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	_, err := s.transfer.ImportEvents(ctx, superAdmin, &catalogSvc.ImportRequest{Mode: "append", Items: importItems()})
	assert.Equal(t, "mode", domain.FieldOf(err))

	_, err = s.transfer.ImportEvents(ctx, superAdmin, &catalogSvc.ImportRequest{})
	assert.Equal(t, "items", domain.FieldOf(err))

	_, err = s.transfer.ImportEvents(ctx, editor, &catalogSvc.ImportRequest{Items: importItems()})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestExportEvents(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	mustCreate(t, s, &catalogSvc.CreateEventRequest{Title: "Exported", Time: singleYear(5), TagIDs: catalog.StringList{"tag_3"}})

	out, err := s.transfer.ExportEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Total)
	require.Len(t, out.Items, 1)
	require.Len(t, out.Items[0].Tags, 1)
	assert.Equal(t, "技术", out.Items[0].Tags[0].Name)
	assert.False(t, out.ExportedAt.IsZero())
}

func TestExportWorkbook(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	span := 5.0
	mustCreate(t, s, &catalogSvc.CreateEventRequest{
		Title:  "Qin dynasty",
		Time:   yearSpan(-221, -206),
		TagIDs: catalog.StringList{"tag_2", "tag_5"},
	})
	mustCreate(t, s, &catalogSvc.CreateEventRequest{
		Title: "Approximate",
		Time: &catalog.EventTime{
			Start:     catalog.TimePoint{Year: 0},
			Precision: catalog.PrecisionCentury,
			Fuzzy:     &catalog.FuzzyTime{IsApprox: true, ApproxRangeYears: &span},
		},
	})

	var buf bytes.Buffer
	require.NoError(t, s.transfer.ExportWorkbook(ctx, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportHeaders, rows[0])

	qin := rows[1]
	assert.Equal(t, "Qin dynasty", qin[1])
	assert.Equal(t, "222 BCE", qin[3])
	assert.Equal(t, "207 BCE", qin[6])
	assert.Equal(t, "year", qin[7])
	assert.Equal(t, "制度, 改革", qin[9])

	approx := rows[2]
	assert.Equal(t, "1 BCE", approx[3])
	assert.Equal(t, "century", approx[7])
	assert.Equal(t, "5", approx[8])
}
