package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"BlogPublisher/internal/domain"
	"BlogPublisher/internal/ports"
)

var scheduleColumns = []string{
	"id", "title", "category_id", "cadence", "scheduled_at",
	"status", "created_blog_id", "error_message", "created_at",
}

// ScheduleRepository persists publication schedules. The Claim/Cancel
// conditional updates are single UPDATE statements guarded on the current
// status, which the database applies atomically.
type ScheduleRepository struct {
	db *DB
}

var _ ports.ScheduleRepository = (*ScheduleRepository)(nil)

// NewScheduleRepository wires the shared handle.
func NewScheduleRepository(db *DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Create stores a new schedule and assigns its ID.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *domain.Schedule) error {
	if schedule.Status == "" {
		schedule.Status = domain.StatusPending
	}
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = time.Now().UTC()
	}

	query, args, err := r.db.builder.
		Insert("schedules").
		Columns("title", "category_id", "cadence", "scheduled_at", "status", "created_at").
		Values(schedule.Title, schedule.CategoryID, string(schedule.Cadence),
			nullMillis(schedule.ScheduledAt), string(schedule.Status), toMillis(schedule.CreatedAt)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert schedule: %w", err)
	}

	if err := r.db.sql.QueryRowContext(ctx, query, args...).Scan(&schedule.ID); err != nil {
		return fmt.Errorf("insert schedule: %w", err)
	}
	return nil
}

func (r *ScheduleRepository) GetByID(ctx context.Context, id int64) (*domain.Schedule, error) {
	query, args, err := r.db.builder.
		Select(scheduleColumns...).
		From("schedules").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select schedule: %w", err)
	}

	schedule, err := scanSchedule(r.db.sql.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("schedule %d: %w", id, domain.ErrScheduleNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select schedule %d: %w", id, err)
	}
	return schedule, nil
}

func (r *ScheduleRepository) List(ctx context.Context, status domain.ScheduleStatus) ([]domain.Schedule, error) {
	q := r.db.builder.
		Select(scheduleColumns...).
		From("schedules").
		OrderBy("created_at DESC", "id DESC")
	if status != "" {
		q = q.Where(sq.Eq{"status": string(status)})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list schedules: %w", err)
	}
	return r.querySchedules(ctx, query, args)
}

func (r *ScheduleRepository) DueManual(ctx context.Context, now time.Time) ([]domain.Schedule, error) {
	query, args, err := r.db.builder.
		Select(scheduleColumns...).
		From("schedules").
		Where(sq.Eq{"status": string(domain.StatusPending), "cadence": string(domain.CadenceManual)}).
		Where(sq.LtOrEq{"scheduled_at": toMillis(now)}).
		OrderBy("scheduled_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build due manual schedules: %w", err)
	}
	return r.querySchedules(ctx, query, args)
}

func (r *ScheduleRepository) NextPending(ctx context.Context, cadence domain.Cadence) (*domain.Schedule, error) {
	query, args, err := r.db.builder.
		Select(scheduleColumns...).
		From("schedules").
		Where(sq.Eq{"status": string(domain.StatusPending), "cadence": string(cadence)}).
		OrderBy("created_at ASC", "id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build next pending schedule: %w", err)
	}

	schedule, err := scanSchedule(r.db.sql.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select next pending %s schedule: %w", cadence, err)
	}
	return schedule, nil
}

// Claim is the concurrency-critical primitive: a conditional UPDATE that
// only one concurrent caller can win for a pending schedule.
func (r *ScheduleRepository) Claim(ctx context.Context, id int64) (bool, error) {
	return r.conditionalUpdate(ctx, r.db.builder.
		Update("schedules").
		Set("status", string(domain.StatusProcessing)).
		Set("error_message", nil).
		Where(sq.Eq{"id": id, "status": string(domain.StatusPending)}))
}

func (r *ScheduleRepository) Cancel(ctx context.Context, id int64) (bool, error) {
	return r.conditionalUpdate(ctx, r.db.builder.
		Update("schedules").
		Set("status", string(domain.StatusCancelled)).
		Where(sq.Eq{"id": id, "status": string(domain.StatusPending)}))
}

func (r *ScheduleRepository) MarkCompleted(ctx context.Context, id, blogID int64) error {
	ok, err := r.conditionalUpdate(ctx, r.db.builder.
		Update("schedules").
		Set("status", string(domain.StatusCompleted)).
		Set("created_blog_id", blogID).
		Where(sq.Eq{"id": id, "status": string(domain.StatusProcessing)}))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("schedule %d is not processing", id)
	}
	return nil
}

func (r *ScheduleRepository) MarkFailed(ctx context.Context, id int64, message string) error {
	ok, err := r.conditionalUpdate(ctx, r.db.builder.
		Update("schedules").
		Set("status", string(domain.StatusFailed)).
		Set("error_message", message).
		Where(sq.Eq{"id": id, "status": string(domain.StatusProcessing)}))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("schedule %d is not processing", id)
	}
	return nil
}

func (r *ScheduleRepository) conditionalUpdate(ctx context.Context, q sq.UpdateBuilder) (bool, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build update schedule: %w", err)
	}

	res, err := r.db.sql.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update schedule: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected == 1, nil
}

func (r *ScheduleRepository) querySchedules(ctx context.Context, query string, args []any) ([]domain.Schedule, error) {
	rows, err := r.db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query schedules: %w", err)
	}
	defer rows.Close()

	var schedules []domain.Schedule
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		schedules = append(schedules, *schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedules: %w", err)
	}
	return schedules, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row rowScanner) (*domain.Schedule, error) {
	var (
		schedule      domain.Schedule
		cadence       string
		status        string
		scheduledAt   sql.NullInt64
		createdBlogID sql.NullInt64
		errorMessage  sql.NullString
		createdAt     int64
	)
	if err := row.Scan(&schedule.ID, &schedule.Title, &schedule.CategoryID, &cadence,
		&scheduledAt, &status, &createdBlogID, &errorMessage, &createdAt); err != nil {
		return nil, err
	}

	schedule.Cadence = domain.Cadence(cadence)
	schedule.Status = domain.ScheduleStatus(status)
	if scheduledAt.Valid {
		at := fromMillis(scheduledAt.Int64)
		schedule.ScheduledAt = &at
	}
	if createdBlogID.Valid {
		schedule.CreatedBlogID = &createdBlogID.Int64
	}
	schedule.ErrorMessage = errorMessage.String
	schedule.CreatedAt = fromMillis(createdAt)
	return &schedule, nil
}
