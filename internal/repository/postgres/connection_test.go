package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/C3604/ChronoAtlas/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTableNameQuoted(t *testing.T) {
	tests := []struct {
		schema, table string
		want          string
	}{
		{"public", "app_data", `"public"."app_data"`},
		{"Tenant", "events", `"Tenant"."events"`},
		{"odd", `we"ird`, `"odd"."we""ird"`},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, NewTableName(tt.schema, tt.table).Quoted())
		})
	}
	assert.Equal(t, `"public"`, NewTableName("public", "x").QuotedSchema())
}

func TestErrorClassifiers(t *testing.T) {
	assert.True(t, IsPgNoRowsError(fmt.Errorf("wrap: %w", pgx.ErrNoRows)))
	assert.False(t, IsPgNoRowsError(errors.New("other")))

	assert.True(t, IsPgDuplicateError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsPgDuplicateError(&pgconn.PgError{Code: "42P01"}))
	assert.True(t, IsPgUndefinedTableError(fmt.Errorf("wrap: %w", &pgconn.PgError{Code: "42P01"})))
}

func TestInsertError(t *testing.T) {
	assert.NoError(t, insertError(nil))
	assert.ErrorIs(t, insertError(&pgconn.PgError{Code: "23505"}), repositories.ErrRevisionConflict)

	other := &pgconn.PgError{Code: "42P01"}
	err := insertError(other)
	assert.ErrorIs(t, err, other)
	assert.NotErrorIs(t, err, repositories.ErrRevisionConflict)
}
