package venue

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-VenueBookingService/pkg/ptr"
)

func venueRow(advanceHours, cancellationHours int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(venueColumns).AddRow(
		int64(1), "Bistro", "restaurant", nil, nil, nil, nil, nil, nil, nil, nil,
		0, advanceHours, cancellationHours, true, true, now, now,
	)
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(dbmetrics.Wrap(db, nil))

	mock.ExpectQuery(regexp.QuoteMeta("FROM venues WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(venueRow(2, 24))

	v, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.Policy{BookingAdvanceHours: 2, CancellationHours: 24, RequirePhone: true}, v.Policy())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(dbmetrics.Wrap(db, nil))
	mock.ExpectQuery("FROM venues").WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrVenueNotFound)
}

func TestRepository_UpdatePolicy_PartialPatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(dbmetrics.Wrap(db, nil))

	mock.ExpectQuery(regexp.QuoteMeta(
		"UPDATE venues SET booking_advance_days = COALESCE($1::integer, booking_advance_days), " +
			"booking_advance_hours = COALESCE($2::integer, booking_advance_hours), " +
			"cancellation_hours = COALESCE($3::integer, cancellation_hours), " +
			"require_phone = COALESCE($4::boolean, require_phone)")).
		WithArgs(nil, nil, 48, nil, int64(1)).
		WillReturnRows(venueRow(2, 48))

	v, err := repo.UpdatePolicy(context.Background(), 1, domain.PolicyPatch{CancellationHours: ptr.Ptr(48)})
	require.NoError(t, err)
	assert.Equal(t, 48, v.CancellationHours)
	assert.Equal(t, 2, v.BookingAdvanceHours)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdatePolicy_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(dbmetrics.Wrap(db, nil))
	mock.ExpectQuery("UPDATE venues").WillReturnRows(sqlmock.NewRows(venueColumns))

	_, err = repo.UpdatePolicy(context.Background(), 99, domain.PolicyPatch{RequirePhone: ptr.Ptr(false)})
	assert.ErrorIs(t, err, ErrVenueNotFound)
}

func TestRepository_ListActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(dbmetrics.Wrap(db, nil))

	now := time.Now()
	rows := venueRow(2, 24).AddRow(
		int64(2), "Studio", "salon", nil, nil, nil, nil, "Berlin", nil, nil, nil,
		0, 0, 24, false, true, now, now,
	)
	mock.ExpectQuery(regexp.QuoteMeta("FROM venues WHERE is_active = $1 ORDER BY name ASC, id ASC")).
		WithArgs(true).
		WillReturnRows(rows)

	got, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Bistro", got[0].Name)
	assert.Equal(t, "Studio", got[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
