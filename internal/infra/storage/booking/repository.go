package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-VenueBookingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-VenueBookingService/pkg/txmanager"
)

const (
	// SQLSTATE unique_violation
	codeUniqueViolation = "23505"

	// Частичный уникальный индекс активных бронирований
	activeSlotConstraint = "bookings_active_slot_uniq"
)

// bookingColumns колонки для чтения бронирования вместе с данными для отображения
var bookingColumns = []string{
	"b.id",
	"b.venue_id",
	"b.service_id",
	"b.staff_member_id",
	"b.customer_name",
	"b.customer_email",
	"b.customer_phone",
	"b.booking_date",
	"to_char(b.start_time, 'HH24:MI')",
	"to_char(b.end_time, 'HH24:MI')",
	"b.party_size",
	"b.special_requests",
	"b.status",
	"b.booking_token",
	"b.cancelled_at",
	"b.cancellation_reason",
	"b.total_amount",
	"b.resource_key",
	"b.seat_number",
	"b.created_at",
	"b.updated_at",
	"v.name",
	"v.cancellation_hours",
	"s.name",
	"sm.name",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новое бронирование.
// Конфликт по уникальному индексу активных слотов и ошибка сериализации
// возвращаются как ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"venue_id",
			"service_id",
			"staff_member_id",
			"customer_name",
			"customer_email",
			"customer_phone",
			"booking_date",
			"start_time",
			"end_time",
			"party_size",
			"special_requests",
			"status",
			"booking_token",
			"total_amount",
			"resource_key",
			"seat_number",
		).
		Values(
			booking.VenueID,
			booking.ServiceID,
			booking.StaffMemberID,
			booking.CustomerName,
			booking.CustomerEmail,
			booking.CustomerPhone,
			booking.BookingDate.Format(domain.DateFormat),
			booking.StartTime,
			booking.EndTime,
			booking.PartySize,
			booking.SpecialRequests,
			booking.Status,
			booking.BookingToken,
			booking.TotalAmount,
			booking.ResourceKey,
			booking.SeatNumber,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		if isSlotConflict(err) {
			return nil, fmt.Errorf("%w: Create: %v", ErrSlotTaken, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"b.id": id})
}

// GetByToken получает бронирование по токену управления
func (r *Repository) GetByToken(ctx context.Context, token string) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByToken", squirrel.Eq{"b.booking_token": token})
}

// ListActiveForResource возвращает блокирующие бронирования ресурса на дату.
// Внутри транзакции строки блокируются (FOR UPDATE) до её завершения.
func (r *Repository) ListActiveForResource(ctx context.Context, venueID int64, resourceKey string, date time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := selectBookings().
		Where(squirrel.Eq{
			"b.venue_id":     venueID,
			"b.resource_key": resourceKey,
			"b.booking_date": date.Format(domain.DateFormat),
			"b.status":       domain.BlockingStatusStrings(),
		}).
		OrderBy("b.start_time ASC", "b.seat_number ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF b")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveForResource - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if isSlotConflict(err) {
			return nil, fmt.Errorf("%w: ListActiveForResource: %v", ErrSlotTaken, err)
		}
		return nil, fmt.Errorf("%w: ListActiveForResource - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// CountUpcomingForService считает занимающие слот бронирования услуги начиная с fromDate
func (r *Repository) CountUpcomingForService(ctx context.Context, serviceID int64, fromDate time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{
			"service_id": serviceID,
			"status":     domain.BlockingStatusStrings(),
		}).
		Where(squirrel.GtOrEq{"booking_date": fromDate.Format(domain.DateFormat)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountUpcomingForService - build count query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountUpcomingForService - count: %v", ErrScanRow, err)
	}

	return count, nil
}
// List возвращает страницу бронирований площадки и общее количество по фильтру
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	conditions := filterConditions(filter)

	countQuery, countArgs, err := psqlbuilder.Select("COUNT(*)").
		From("bookings b").
		Where(conditions).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build count query: %v", ErrBuildQuery, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: List - count: %v", ErrScanRow, err)
	}

	selectBuilder := selectBookings().
		Where(conditions).
		OrderBy("b.booking_date DESC", "b.start_time DESC", "b.id DESC")

	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(uint64(filter.Offset))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings, err := scanBookings(rows)
	if err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

// UpdateStatus переводит бронирование из статуса from в статус to.
// Если статус уже не from, возвращает ErrStatusChanged.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, executor, "UpdateStatus", query, args)
}

// Cancel отменяет бронирование, находящееся в статусе from.
// Если статус уже не from, возвращает ErrStatusChanged.
func (r *Repository) Cancel(ctx context.Context, id int64, from domain.BookingStatus, reason *string, cancelledAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", cancelledAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, executor, "Cancel", query, args)
}

func (r *Repository) execConditional(ctx context.Context, executor DBExecutor, method, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, method, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}

	if rowsAffected == 0 {
		return ErrStatusChanged
	}

	return nil
}

func (r *Repository) getOne(ctx context.Context, method string, where squirrel.Sqlizer) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBookings().Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, method, err)
	}

	return booking, nil
}

func selectBookings() squirrel.SelectBuilder {
	return psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		Join("venues v ON v.id = b.venue_id").
		Join("services s ON s.id = b.service_id").
		LeftJoin("staff_members sm ON sm.id = b.staff_member_id")
}

func filterConditions(filter domain.BookingsFilter) squirrel.And {
	conditions := squirrel.And{squirrel.Eq{"b.venue_id": filter.VenueID}}

	if filter.StartDate != nil {
		conditions = append(conditions, squirrel.GtOrEq{"b.booking_date": filter.StartDate.Format(domain.DateFormat)})
	}
	if filter.EndDate != nil {
		conditions = append(conditions, squirrel.LtOrEq{"b.booking_date": filter.EndDate.Format(domain.DateFormat)})
	}
	if filter.Status != nil {
		conditions = append(conditions, squirrel.Eq{"b.status": *filter.Status})
	}
	if filter.ServiceID != nil {
		conditions = append(conditions, squirrel.Eq{"b.service_id": *filter.ServiceID})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		conditions = append(conditions, squirrel.Or{
			squirrel.ILike{"b.customer_name": pattern},
			squirrel.ILike{"b.customer_email": pattern},
			squirrel.ILike{"b.customer_phone": pattern},
		})
	}

	return conditions
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking     domain.Booking
		bookingDate time.Time
	)

	err := row.Scan(
		&booking.ID,
		&booking.VenueID,
		&booking.ServiceID,
		&booking.StaffMemberID,
		&booking.CustomerName,
		&booking.CustomerEmail,
		&booking.CustomerPhone,
		&bookingDate,
		&booking.StartTime,
		&booking.EndTime,
		&booking.PartySize,
		&booking.SpecialRequests,
		&booking.Status,
		&booking.BookingToken,
		&booking.CancelledAt,
		&booking.CancellationReason,
		&booking.TotalAmount,
		&booking.ResourceKey,
		&booking.SeatNumber,
		&booking.CreatedAt,
		&booking.UpdatedAt,
		&booking.VenueName,
		&booking.CancellationHours,
		&booking.ServiceName,
		&booking.StaffMemberName,
	)
	if err != nil {
		return nil, err
	}

	booking.BookingDate = domain.DateOnly(bookingDate)
	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			if isSlotConflict(err) {
				return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrSlotTaken, err)
			}
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	// 40001 может прийти во время чтения строк, а не на QueryContext
	if err := rows.Err(); err != nil {
		if isSlotConflict(err) {
			return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrSlotTaken, err)
		}
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// isSlotConflict 23505 по индексу активных слотов или 40001
func isSlotConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code == codeUniqueViolation {
		return pqErr.Constraint == activeSlotConstraint
	}
	return txmanager.IsSerializationFailure(err)
}
