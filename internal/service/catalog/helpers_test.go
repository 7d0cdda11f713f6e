package catalog

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/C3604/ChronoAtlas/internal/domain/models"
	"github.com/C3604/ChronoAtlas/internal/domain/models/catalog"
	"github.com/C3604/ChronoAtlas/internal/domain/repositories"
	"github.com/C3604/ChronoAtlas/internal/repository/memory"
	catalogSvc "github.com/C3604/ChronoAtlas/internal/domain/services/catalog"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var (
	superAdmin = &models.Actor{ID: "user_admin_1", Name: "Admin", Role: models.RoleSuperAdmin}
	admin      = &models.Actor{ID: "user_admin_2", Name: "Second Admin", Role: models.RoleAdmin}
	editor     = &models.Actor{ID: "user_editor_1", Name: "Editor", Role: models.RoleEditor}
	reader     = &models.Actor{ID: "user_reader_1", Name: "Reader", Role: models.RoleUser}
)

// services bundles every catalog service over one shared store.
type services struct {
	store     *Store
	events    catalogSvc.EventService
	approvals catalogSvc.ApprovalService
	queries   catalogSvc.QueryService
	tags      catalogSvc.TagService
	transfer  catalogSvc.TransferService
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSeeder() *Seeder {
	return &Seeder{
		AdminEmail:    "admin@chronoatlas.test",
		AdminName:     "Admin",
		AdminPassword: "secret",
		BcryptCost:    bcrypt.MinCost,
	}
}

func newTestStore(t *testing.T, backend repositories.DocumentStore) *Store {
	t.Helper()
	if backend == nil {
		backend = memory.NewDocumentStore()
	}
	return NewStore(backend, testSeeder(), discardLogger())
}

func newServices(t *testing.T) *services {
	t.Helper()
	useTestClock(t)
	store := newTestStore(t, nil)
	logger := discardLogger()
	return &services{
		store:     store,
		events:    NewEventService(store, logger),
		approvals: NewApprovalService(store, logger),
		queries:   NewQueryService(store, logger),
		tags:      NewTagService(store, logger),
		transfer:  NewTransferService(store, logger),
	}
}

// useTestClock makes now advance one second per call.
func useTestClock(t *testing.T) {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var ticks atomic.Int64
	orig := now
	now = func() time.Time {
		return base.Add(time.Duration(ticks.Add(1)) * time.Second)
	}
	t.Cleanup(func() { now = orig })
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func yearSpan(start, end int) *catalog.EventTime {
	return &catalog.EventTime{
		Start:     catalog.TimePoint{Year: start},
		End:       &catalog.TimePoint{Year: end},
		Precision: catalog.PrecisionYear,
	}
}

func singleYear(year int) *catalog.EventTime {
	return &catalog.EventTime{
		Start:     catalog.TimePoint{Year: year},
		Precision: catalog.PrecisionYear,
	}
}

// mustCreate creates an event as the super admin and returns it.
func mustCreate(t *testing.T, s *services, req *catalogSvc.CreateEventRequest) *catalog.EventView {
	t.Helper()
	res, err := s.events.CreateEvent(context.Background(), superAdmin, req)
	require.NoError(t, err)
	require.False(t, res.Pending)
	require.NotNil(t, res.Event)
	return res.Event
}

func readDoc(t *testing.T, s *services) *catalog.Document {
	t.Helper()
	doc, err := s.store.Read(context.Background())
	require.NoError(t, err)
	return doc
}
