package repository

import (
	"context"
	"errors"

	"auralink/internal/model"
	apperrors "auralink/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) (*model.Category, error)
	List(ctx context.Context) ([]*model.Category, error)
	FindByID(ctx context.Context, id int) (*model.Category, error)
	FindBySlug(ctx context.Context, slug string) (*model.Category, error)
	FindByName(ctx context.Context, name string) (*model.Category, error)
	SlugsWithPrefix(ctx context.Context, prefix string) ([]string, error)
}

type CategoryRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &CategoryRepositoryImpl{
		pool: pool,
	}
}

func (r *CategoryRepositoryImpl) Create(ctx context.Context, category *model.Category) (*model.Category, error) {
	query := `
		INSERT INTO categories (name, slug, description)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		category.Name, category.Slug, category.Description,
	).Scan(&category.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrSlugTaken
		}
		return nil, err
	}
	return category, nil
}

// List 依名稱排序
func (r *CategoryRepositoryImpl) List(ctx context.Context) ([]*model.Category, error) {
	query := `
		SELECT id, name, slug, description
		FROM categories
		ORDER BY name ASC, id ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]*model.Category, 0)
	for rows.Next() {
		var category model.Category
		err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Slug,
			&category.Description,
		)
		if err != nil {
			return nil, err
		}
		categories = append(categories, &category)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *CategoryRepositoryImpl) findOne(ctx context.Context, where string, arg interface{}) (*model.Category, error) {
	query := `
		SELECT id, name, slug, description
		FROM categories
		WHERE ` + where + `
		ORDER BY id ASC
		LIMIT 1
	`

	var category model.Category
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&category.ID,
		&category.Name,
		&category.Slug,
		&category.Description,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Category, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *CategoryRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*model.Category, error) {
	return r.findOne(ctx, "slug = $1", slug)
}

// FindByName 名稱不唯一，取最早建立的一筆
func (r *CategoryRepositoryImpl) FindByName(ctx context.Context, name string) (*model.Category, error) {
	return r.findOne(ctx, "name = $1", name)
}

func (r *CategoryRepositoryImpl) SlugsWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	return querySlugs(ctx, r.pool, `SELECT slug FROM categories WHERE slug LIKE $1`, prefix)
}
