package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-VenueBookingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-VenueBookingService/pkg/txmanager"
)

var serviceColumns = []string{
	"id",
	"venue_id",
	"name",
	"description",
	"duration_minutes",
	"price",
	"capacity",
	"requires_staff",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий услуг и сотрудников площадки
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetService получает услугу по ID.
// Внутри транзакции строка берется FOR SHARE, чтобы смена requires_staff не прошла параллельно.
func (r *Repository) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	lock := ""
	if dbmetrics.IsInTransaction(ctx) {
		lock = "FOR SHARE"
	}
	return r.getService(ctx, "GetService", id, lock)
}

// GetServiceForUpdate получает услугу по ID с блокировкой FOR UPDATE внутри транзакции
func (r *Repository) GetServiceForUpdate(ctx context.Context, id int64) (*domain.Service, error) {
	lock := ""
	if dbmetrics.IsInTransaction(ctx) {
		lock = "FOR UPDATE"
	}
	return r.getService(ctx, "GetServiceForUpdate", id, lock)
}

func (r *Repository) getService(ctx context.Context, method string, id int64, lock string) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"id": id})
	if lock != "" {
		selectBuilder = selectBuilder.Suffix(lock)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	svc, err := scanService(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	// Блокировка строки, измененной параллельной транзакцией, дает 40001
	if txmanager.IsSerializationFailure(err) {
		return nil, fmt.Errorf("%w: %s: %v", txmanager.ErrSerialization, method, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan service: %v", ErrScanRow, method, err)
	}

	return svc, nil
}

// ListServices возвращает услуги площадки, опционально только активные
func (r *Repository) ListServices(ctx context.Context, venueID int64, activeOnly bool) ([]*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"venue_id": venueID}).
		OrderBy("name ASC", "id ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListServices - scan row: %v", ErrScanRow, err)
		}
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListServices - rows error: %v", ErrScanRow, err)
	}

	return services, nil
}

// UpdateService сохраняет изменяемые поля услуги и возвращает результат
func (r *Repository) UpdateService(ctx context.Context, svc *domain.Service) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("services").
		Set("name", svc.Name).
		Set("description", svc.Description).
		Set("duration_minutes", svc.DurationMinutes).
		Set("price", svc.Price).
		Set("capacity", svc.Capacity).
		Set("requires_staff", svc.RequiresStaff).
		Set("is_active", svc.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": svc.ID, "venue_id": svc.VenueID}).
		Suffix("RETURNING " + strings.Join(serviceColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateService - build update query: %v", ErrBuildQuery, err)
	}

	updated, err := scanService(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateService - execute update: %v", ErrExecQuery, err)
	}

	return updated, nil
}

// GetStaffMember получает сотрудника по ID
func (r *Repository) GetStaffMember(ctx context.Context, id int64) (*domain.StaffMember, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectStaff().
		Where(squirrel.Eq{"sm.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaffMember - build select query: %v", ErrBuildQuery, err)
	}

	member, err := scanStaff(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaffMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaffMember - scan staff member: %v", ErrScanRow, err)
	}

	return member, nil
}

// ListStaff возвращает активных сотрудников площадки вместе с их услугами
func (r *Repository) ListStaff(ctx context.Context, venueID int64) ([]*domain.StaffMember, error) {
	return r.listStaff(ctx, "ListStaff", squirrel.Eq{"sm.venue_id": venueID, "sm.is_active": true})
}

// ListStaffForService возвращает активных сотрудников, связанных с услугой
func (r *Repository) ListStaffForService(ctx context.Context, serviceID int64) ([]*domain.StaffMember, error) {
	linked := squirrel.Expr("sm.id IN (SELECT staff_member_id FROM staff_services WHERE service_id = ?)", serviceID)
	return r.listStaff(ctx, "ListStaffForService", squirrel.And{linked, squirrel.Eq{"sm.is_active": true}})
}

func (r *Repository) listStaff(ctx context.Context, method string, where squirrel.Sqlizer) ([]*domain.StaffMember, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectStaff().
		Where(where).
		OrderBy("sm.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, method, err)
	}
	defer rows.Close()

	staff := make([]*domain.StaffMember, 0)
	for rows.Next() {
		member, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, method, err)
		}
		staff = append(staff, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, method, err)
	}

	return staff, nil
}

func selectStaff() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"sm.id",
		"sm.venue_id",
		"sm.name",
		"sm.email",
		"sm.phone",
		"sm.description",
		"sm.is_active",
		"COALESCE(array_agg(ss.service_id ORDER BY ss.service_id) FILTER (WHERE ss.service_id IS NOT NULL), '{}')",
	).
		From("staff_members sm").
		LeftJoin("staff_services ss ON ss.staff_member_id = sm.id").
		GroupBy("sm.id")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanService(row rowScanner) (*domain.Service, error) {
	var svc domain.Service
	err := row.Scan(
		&svc.ID,
		&svc.VenueID,
		&svc.Name,
		&svc.Description,
		&svc.DurationMinutes,
		&svc.Price,
		&svc.Capacity,
		&svc.RequiresStaff,
		&svc.IsActive,
		&svc.CreatedAt,
		&svc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

func scanStaff(row rowScanner) (*domain.StaffMember, error) {
	var (
		member     domain.StaffMember
		serviceIDs pq.Int64Array
	)
	err := row.Scan(
		&member.ID,
		&member.VenueID,
		&member.Name,
		&member.Email,
		&member.Phone,
		&member.Description,
		&member.IsActive,
		&serviceIDs,
	)
	if err != nil {
		return nil, err
	}
	member.ServiceIDs = []int64(serviceIDs)
	return &member, nil
}
