package catalog

import (
	"context"
	"io"
	"time"

	"github.com/C3604/ChronoAtlas/internal/domain/models"
	"github.com/C3604/ChronoAtlas/internal/domain/models/catalog"
)

// TransferService imports and exports events in bulk.
type TransferService interface {
	// ImportEvents validates every item, then commits them all with "import" versions
	ImportEvents(ctx context.Context, actor *models.Actor, req *ImportRequest) (*ImportResult, error)

	// ExportEvents returns every event with tags expanded
	ExportEvents(ctx context.Context) (*ExportResult, error)

	// ExportWorkbook writes every event as an xlsx workbook
	ExportWorkbook(ctx context.Context, w io.Writer) error
}

// Import modes
const (
	ImportMerge   = "merge"
	ImportReplace = "replace"
)

// ImportRequest is the body of a bulk import. Mode defaults to merge.
type ImportRequest struct {
	Mode  string               `json:"mode" yaml:"mode"`
	Items []CreateEventRequest `json:"items" yaml:"items"`
}

// ImportResult reports how many events were imported.
type ImportResult struct {
	Mode     string `json:"mode"`
	Imported int    `json:"imported"`
}

// ExportResult is the JSON export payload.
type ExportResult struct {
	ExportedAt time.Time           `json:"exportedAt"`
	Total      int                 `json:"total"`
	Items      []catalog.EventView `json:"items"`
}
