package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/C3604/ChronoAtlas/internal/config"
	"github.com/C3604/ChronoAtlas/internal/domain"
	"github.com/C3604/ChronoAtlas/internal/domain/models"
	"github.com/C3604/ChronoAtlas/internal/domain/models/catalog"
	catalogSvc "github.com/C3604/ChronoAtlas/internal/domain/services/catalog"

	"github.com/xuri/excelize/v2"
)

// transferService implements the TransferService interface
type transferService struct {
	store  *Store
	logger *slog.Logger
}

// NewTransferService creates a new import/export service
func NewTransferService(store *Store, logger *slog.Logger) catalogSvc.TransferService {
	return &transferService{
		store:  store,
		logger: logger,
	}
}

// ImportEvents validates every item before touching the store, so one bad
// item rejects the whole import.
func (s *transferService) ImportEvents(ctx context.Context, actor *models.Actor, req *catalogSvc.ImportRequest) (*catalogSvc.ImportResult, error) {
	if err := authorize(actor, models.CanManageContent, "no permission to import events"); err != nil {
		return nil, err
	}

	mode := strings.ToLower(strings.TrimSpace(req.Mode))
	switch mode {
	case "":
		mode = catalogSvc.ImportMerge
	case catalogSvc.ImportMerge, catalogSvc.ImportReplace:
	default:
		return nil, domain.NewValidationError("mode", "mode must be merge or replace")
	}
	if req.Items == nil {
		return nil, domain.NewValidationError("items", "items must be an array")
	}
	if len(req.Items) > config.MaxImportItems {
		return nil, domain.NewValidationError("items", "at most %d items can be imported at once", config.MaxImportItems)
	}

	contents := make([]eventContent, len(req.Items))
	for i := range req.Items {
		item := &req.Items[i]
		c := eventContent{
			Title:   strings.TrimSpace(item.Title),
			Summary: strings.TrimSpace(item.Summary),
			Time:    item.Time,
		}
		if err := validateEventContent(c); err != nil {
			return nil, withItemIndex(err, i)
		}
		contents[i] = c
	}

	s.logger.Info("starting import", "mode", mode, "items", len(req.Items), "requested_by", actor.ID)

	err := s.store.Update(ctx, func(doc *catalog.Document) error {
		if mode == catalogSvc.ImportReplace {
			doc.Events = []*catalog.Event{}
			doc.EventVersions = []*catalog.EventVersion{}
		}
		ts := now()
		for i, c := range contents {
			event := &catalog.Event{
				ID:        catalog.NewID(catalog.PrefixEvent),
				Title:     c.Title,
				Summary:   c.Summary,
				Time:      c.Time.Clone(),
				TagIDs:    ResolveTagIDs(doc, tagInputOf(&req.Items[i])),
				CreatedAt: ts,
				UpdatedAt: ts,
				CreatedBy: actor.ID,
			}
			doc.Events = append(doc.Events, event)
			recordVersion(doc, event, catalog.VersionImport, actor.ID, "")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("import complete", "mode", mode, "imported", len(contents))
	return &catalogSvc.ImportResult{Mode: mode, Imported: len(contents)}, nil
}

// withItemIndex prefixes a validation error's field with the item position.
func withItemIndex(err error, i int) error {
	field := domain.FieldOf(err)
	if field == "" {
		field = "items"
	} else {
		field = fmt.Sprintf("items[%d].%s", i, field)
	}
	return domain.NewValidationError(field, "item %d: %v", i, err)
}

func (s *transferService) ExportEvents(ctx context.Context) (*catalogSvc.ExportResult, error) {
	doc, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}
	return &catalogSvc.ExportResult{
		ExportedAt: now(),
		Total:      len(doc.Events),
		Items:      doc.Views(doc.Events),
	}, nil
}

const exportSheet = "Events"

var exportHeaders = []string{
	"ID",
	"Title",
	"Summary",
	"Start Year",
	"Start Month",
	"Start Day",
	"End Year",
	"Precision",
	"Approx ± Years",
	"Tags",
	"Created By",
	"Created At",
	"Updated At",
}

func (s *transferService) ExportWorkbook(ctx context.Context, w io.Writer) error {
	doc, err := s.store.Read(ctx)
	if err != nil {
		return err
	}

	f, err := buildEventsWorkbook(doc.Views(doc.Events))
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }() // Error ignored: workbook already written

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	s.logger.Info("workbook exported", "events", len(doc.Events))
	return nil
}

// buildEventsWorkbook lays out one row per event under a bold header row.
// Years are written in display form, so year 0 reads "1 BCE".
func buildEventsWorkbook(items []catalog.EventView) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		_ = f.SetCellStyle(exportSheet, "A1", last, headerStyle)
	}

	for i, item := range items {
		row := []any{
			item.ID,
			item.Title,
			item.Summary,
			catalog.FormatYear(item.Time.Start.Year),
			optionalInt(item.Time.Start.Month),
			optionalInt(item.Time.Start.Day),
			nil,
			string(item.Time.Precision),
			nil,
			joinTagNames(item.Tags),
			item.CreatedBy,
			item.CreatedAt.Format(time.RFC3339),
			item.UpdatedAt.Format(time.RFC3339),
		}
		if item.Time.End != nil {
			row[6] = catalog.FormatYear(item.Time.End.Year)
		}
		if fz := item.Time.Fuzzy; fz != nil && fz.IsApprox && fz.ApproxRangeYears != nil {
			row[8] = *fz.ApproxRangeYears
		}

		start, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, start, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return f, nil
}

func optionalInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func joinTagNames(tags []catalog.Tag) string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return strings.Join(names, ", ")
}
