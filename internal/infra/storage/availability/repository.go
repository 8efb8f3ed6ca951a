package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-VenueBookingService/pkg/psqlbuilder"
)

// Repository репозиторий правил рабочего времени
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListByVenue возвращает все правила площадки (уровня площадки и сотрудников)
func (r *Repository) ListByVenue(ctx context.Context, venueID int64) ([]*domain.AvailabilityRule, error) {
	return r.list(ctx, "ListByVenue", squirrel.Eq{"ar.venue_id": venueID})
}

// ListForDay возвращает правила площадки на день недели
func (r *Repository) ListForDay(ctx context.Context, venueID int64, dayOfWeek int) ([]*domain.AvailabilityRule, error) {
	return r.list(ctx, "ListForDay", squirrel.Eq{"ar.venue_id": venueID, "ar.day_of_week": dayOfWeek})
}

// GetByID получает правило по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.AvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectRules().Where(squirrel.Eq{"ar.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rule, err := scanRule(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan rule: %v", ErrScanRow, err)
	}

	return rule, nil
}

// Update сохраняет день недели, окно и активность правила
func (r *Repository) Update(ctx context.Context, rule *domain.AvailabilityRule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("availability_rules").
		Set("day_of_week", rule.DayOfWeek).
		Set("start_time", rule.StartTime).
		Set("end_time", rule.EndTime).
		Set("is_active", rule.IsActive).
		Where(squirrel.Eq{"id": rule.ID, "venue_id": rule.VenueID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrRuleNotFound
	}

	return nil
}

func (r *Repository) list(ctx context.Context, method string, where squirrel.Sqlizer) ([]*domain.AvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectRules().
		Where(where).
		OrderBy("ar.day_of_week ASC", "ar.staff_member_id ASC NULLS FIRST", "ar.start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, method, err)
	}
	defer rows.Close()

	rules := make([]*domain.AvailabilityRule, 0)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, method, err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, method, err)
	}

	return rules, nil
}

func selectRules() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"ar.id",
		"ar.venue_id",
		"ar.staff_member_id",
		"sm.name",
		"ar.day_of_week",
		"to_char(ar.start_time, 'HH24:MI')",
		"to_char(ar.end_time, 'HH24:MI')",
		"ar.is_active",
	).
		From("availability_rules ar").
		LeftJoin("staff_members sm ON sm.id = ar.staff_member_id")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRule(row rowScanner) (*domain.AvailabilityRule, error) {
	var rule domain.AvailabilityRule
	err := row.Scan(
		&rule.ID,
		&rule.VenueID,
		&rule.StaffMemberID,
		&rule.StaffMemberName,
		&rule.DayOfWeek,
		&rule.StartTime,
		&rule.EndTime,
		&rule.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &rule, nil
}
