package venue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-VenueBookingService/pkg/psqlbuilder"
)

var venueColumns = []string{
	"id",
	"name",
	"type",
	"description",
	"email",
	"phone",
	"address",
	"city",
	"postal_code",
	"country",
	"website",
	"booking_advance_days",
	"booking_advance_hours",
	"cancellation_hours",
	"require_phone",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий площадок и их политики бронирования
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория площадок
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает площадку по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Venue, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(venueColumns...).
		From("venues").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	venue, err := scanVenue(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVenueNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan venue: %v", ErrExecQuery, err)
	}

	return venue, nil
}

// ListActive возвращает активные площадки, отсортированные по названию
func (r *Repository) ListActive(ctx context.Context) ([]*domain.Venue, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(venueColumns...).
		From("venues").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("name ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	venues := make([]*domain.Venue, 0)
	for rows.Next() {
		venue, err := scanVenue(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActive - scan venue: %v", ErrExecQuery, err)
		}
		venues = append(venues, venue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActive - rows error: %v", ErrExecQuery, err)
	}

	return venues, nil
}

// UpdatePolicy применяет частичное обновление политики одним UPDATE.
// Незаданные поля патча сохраняют текущее значение в БД через COALESCE.
func (r *Repository) UpdatePolicy(ctx context.Context, id int64, patch domain.PolicyPatch) (*domain.Venue, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("venues").
		Set("booking_advance_days", squirrel.Expr("COALESCE(?::integer, booking_advance_days)", patch.BookingAdvanceDays)).
		Set("booking_advance_hours", squirrel.Expr("COALESCE(?::integer, booking_advance_hours)", patch.BookingAdvanceHours)).
		Set("cancellation_hours", squirrel.Expr("COALESCE(?::integer, cancellation_hours)", patch.CancellationHours)).
		Set("require_phone", squirrel.Expr("COALESCE(?::boolean, require_phone)", patch.RequirePhone)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(venueColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdatePolicy - build update query: %v", ErrBuildQuery, err)
	}

	venue, err := scanVenue(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVenueNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdatePolicy - execute update: %v", ErrExecQuery, err)
	}

	return venue, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVenue(row rowScanner) (*domain.Venue, error) {
	var v domain.Venue
	err := row.Scan(
		&v.ID,
		&v.Name,
		&v.Type,
		&v.Description,
		&v.Email,
		&v.Phone,
		&v.Address,
		&v.City,
		&v.PostalCode,
		&v.Country,
		&v.Website,
		&v.BookingAdvanceDays,
		&v.BookingAdvanceHours,
		&v.CancellationHours,
		&v.RequirePhone,
		&v.IsActive,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
