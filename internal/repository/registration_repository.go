package repository

import (
	"context"

	"auralink/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type RegistrationRepository interface {
	Create(ctx context.Context, registration *model.Registration) (*model.Registration, error)
	ListByEvent(ctx context.Context, eventID int) ([]*model.Registration, error)
	RecentByOrganizer(ctx context.Context, organizerID int, limit int) ([]*model.RecentRegistration, error)
	CountByOrganizer(ctx context.Context, organizerID int) (int, error)
	CountByEvent(ctx context.Context, eventID int) (int, error)
}

type RegistrationRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewRegistrationRepository(pool *pgxpool.Pool) RegistrationRepository {
	return &RegistrationRepositoryImpl{
		pool: pool,
	}
}

func (r *RegistrationRepositoryImpl) Create(ctx context.Context, registration *model.Registration) (*model.Registration, error) {
	query := `
		INSERT INTO registrations (event_id, full_name, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query,
		registration.EventID, registration.FullName, registration.Email, registration.Phone,
	).Scan(
		&registration.ID,
		&registration.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return registration, nil
}

func (r *RegistrationRepositoryImpl) ListByEvent(ctx context.Context, eventID int) ([]*model.Registration, error) {
	query := `
		SELECT id, event_id, full_name, email, phone, created_at
		FROM registrations
		WHERE event_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	registrations := make([]*model.Registration, 0)
	for rows.Next() {
		var reg model.Registration
		err := rows.Scan(
			&reg.ID,
			&reg.EventID,
			&reg.FullName,
			&reg.Email,
			&reg.Phone,
			&reg.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		registrations = append(registrations, &reg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return registrations, nil
}

// RecentByOrganizer 主辦者所有活動中最新的報名
func (r *RegistrationRepositoryImpl) RecentByOrganizer(ctx context.Context, organizerID int, limit int) ([]*model.RecentRegistration, error) {
	query := `
		SELECT r.id, r.event_id, r.full_name, r.email, r.phone, r.created_at,
			e.title, e.slug
		FROM registrations r
		JOIN events e ON e.id = r.event_id
		WHERE e.organizer_id = $1
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, organizerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	registrations := make([]*model.RecentRegistration, 0)
	for rows.Next() {
		var reg model.RecentRegistration
		err := rows.Scan(
			&reg.ID,
			&reg.EventID,
			&reg.FullName,
			&reg.Email,
			&reg.Phone,
			&reg.CreatedAt,
			&reg.EventTitle,
			&reg.EventSlug,
		)
		if err != nil {
			return nil, err
		}
		registrations = append(registrations, &reg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return registrations, nil
}

func (r *RegistrationRepositoryImpl) CountByOrganizer(ctx context.Context, organizerID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM registrations r
		JOIN events e ON e.id = r.event_id
		WHERE e.organizer_id = $1
	`
	var total int
	if err := r.pool.QueryRow(ctx, query, organizerID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *RegistrationRepositoryImpl) CountByEvent(ctx context.Context, eventID int) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM registrations WHERE event_id = $1`, eventID).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}
