package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"auralink/internal/model"
	apperrors "auralink/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	FindByID(ctx context.Context, id int) (*model.Event, error)
	FindBySlug(ctx context.Context, slug string) (*model.Event, error)
	Count(ctx context.Context, filter model.EventFilter) (int, error)
	List(ctx context.Context, filter model.EventFilter) ([]*model.Event, error)
	ListFeatured(ctx context.Context, limit int) ([]*model.Event, error)
	ListByOrganizer(ctx context.Context, organizerID int) ([]*model.Event, error)
	ListAll(ctx context.Context) ([]*model.Event, error)
	Update(ctx context.Context, id int, params model.UpdateEventParams) (*model.Event, error)
	Delete(ctx context.Context, id int) error
	SlugsWithPrefix(ctx context.Context, prefix string) ([]string, error)
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

const eventColumns = `
	e.id, e.title, e.slug, e.description, e.image, e.start_time, e.end_time,
	e.venue, e.price, e.capacity, e.category_id, e.organizer_id,
	e.created_at, e.updated_at, c.name
`

const eventFrom = `
	FROM events e
	LEFT JOIN categories c ON c.id = e.category_id
`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Slug,
		&event.Description,
		&event.Image,
		&event.StartTime,
		&event.EndTime,
		&event.Venue,
		&event.Price,
		&event.Capacity,
		&event.CategoryID,
		&event.OrganizerID,
		&event.CreatedAt,
		&event.UpdatedAt,
		&event.CategoryName,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func collectEvents(rows pgx.Rows) ([]*model.Event, error) {
	defer rows.Close()

	events := make([]*model.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	query := `
		INSERT INTO events (
			title, slug, description, image, start_time, end_time,
			venue, price, capacity, category_id, organizer_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		event.Title, event.Slug, event.Description, event.Image,
		event.StartTime, event.EndTime, event.Venue, event.Price,
		event.Capacity, event.CategoryID, event.OrganizerID,
	).Scan(
		&event.ID,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrSlugTaken
		}
		return nil, err
	}
	return event, nil
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Event, error) {
	query := `SELECT ` + eventColumns + eventFrom + ` WHERE e.id = $1`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return event, nil
}

func (r *EventRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*model.Event, error) {
	query := `SELECT ` + eventColumns + eventFrom + ` WHERE e.slug = $1`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return event, nil
}

func (r *EventRepositoryImpl) Count(ctx context.Context, filter model.EventFilter) (int, error) {
	query := `SELECT COUNT(*) FROM events`
	args := []interface{}{}
	if filter.CategoryID != nil {
		query += ` WHERE category_id = $1`
		args = append(args, *filter.CategoryID)
	}

	var total int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// List 依開始時間由早到晚，相同時間以 id 排序
func (r *EventRepositoryImpl) List(ctx context.Context, filter model.EventFilter) ([]*model.Event, error) {
	where := ""
	args := []interface{}{}
	argPos := 1

	if filter.CategoryID != nil {
		where = fmt.Sprintf(" WHERE e.category_id = $%d", argPos)
		args = append(args, *filter.CategoryID)
		argPos++
	}

	query := `SELECT ` + eventColumns + eventFrom + where +
		fmt.Sprintf(" ORDER BY e.start_time ASC, e.id ASC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (r *EventRepositoryImpl) ListFeatured(ctx context.Context, limit int) ([]*model.Event, error) {
	query := `SELECT ` + eventColumns + eventFrom + `
		ORDER BY e.start_time DESC, e.id DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (r *EventRepositoryImpl) ListByOrganizer(ctx context.Context, organizerID int) ([]*model.Event, error) {
	query := `SELECT ` + eventColumns + eventFrom + `
		WHERE e.organizer_id = $1
		ORDER BY e.start_time DESC, e.id DESC
	`
	rows, err := r.pool.Query(ctx, query, organizerID)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (r *EventRepositoryImpl) ListAll(ctx context.Context) ([]*model.Event, error) {
	query := `SELECT ` + eventColumns + eventFrom + ` ORDER BY e.id ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (r *EventRepositoryImpl) Update(ctx context.Context, id int, params model.UpdateEventParams) (*model.Event, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if params.Title != nil {
		add("title", *params.Title)
	}
	if params.Description != nil {
		add("description", *params.Description)
	}
	if params.Image != nil {
		add("image", *params.Image)
	}
	if params.CategoryID != nil {
		add("category_id", *params.CategoryID)
	}
	if params.StartTime != nil {
		add("start_time", *params.StartTime)
	}
	if params.EndTime != nil {
		add("end_time", *params.EndTime)
	}
	if params.Venue != nil {
		add("venue", *params.Venue)
	}
	if params.Price != nil {
		add("price", *params.Price)
	}
	if params.Capacity != nil {
		add("capacity", *params.Capacity)
	}
	if params.OrganizerID != nil {
		add("organizer_id", *params.OrganizerID)
	}

	if len(sets) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	// add updated_at
	add("updated_at", time.Now().UTC())

	// add id
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE events
		SET %s
		WHERE id = $%d
	`, strings.Join(sets, ", "), argPos)

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected() == 0 {
		return nil, apperrors.ErrEventNotFound
	}

	return r.FindByID(ctx, id)
}

// Delete 報名資料由外鍵 ON DELETE CASCADE 一併刪除
func (r *EventRepositoryImpl) Delete(ctx context.Context, id int) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}

	return nil
}

func (r *EventRepositoryImpl) SlugsWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	return querySlugs(ctx, r.pool, `SELECT slug FROM events WHERE slug LIKE $1`, prefix)
}
