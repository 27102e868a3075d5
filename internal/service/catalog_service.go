package service

import (
	"context"
	"fmt"

	"auralink/internal/model"
	"auralink/internal/repository"
)

// FeaturedLimit 首頁精選活動數量
const FeaturedLimit = 6

type CatalogService interface {
	ListEvents(ctx context.Context, categorySlug, page string) (*model.EventListing, error)
	Featured(ctx context.Context) ([]*model.Event, error)
	GetEvent(ctx context.Context, slug string) (*model.Event, error)
	Categories(ctx context.Context) ([]*model.Category, error)
}

type CatalogServiceImpl struct {
	eventRepo    repository.EventRepository
	categoryRepo repository.CategoryRepository
}

func NewCatalogService(eventRepo repository.EventRepository, categoryRepo repository.CategoryRepository) CatalogService {
	return &CatalogServiceImpl{eventRepo: eventRepo, categoryRepo: categoryRepo}
}

func (s *CatalogServiceImpl) ListEvents(ctx context.Context, categorySlug, page string) (*model.EventListing, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	listing := &model.EventListing{Categories: categories}
	filter := model.EventFilter{}

	if categorySlug != "" {
		selected, err := s.categoryRepo.FindBySlug(ctx, categorySlug)
		if err != nil {
			return nil, err
		}
		listing.SelectedCategory = selected
		filter.CategoryID = &selected.ID
	}

	total, err := s.eventRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}

	listing.Page = model.NewPage(total, model.PageSize, page)
	filter.Limit = listing.Page.PerPage
	filter.Offset = listing.Page.Offset()

	events, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	listing.Events = events

	return listing, nil
}

// Featured 首頁依開始時間由晚到早取前幾筆
func (s *CatalogServiceImpl) Featured(ctx context.Context) ([]*model.Event, error) {
	return s.eventRepo.ListFeatured(ctx, FeaturedLimit)
}

func (s *CatalogServiceImpl) GetEvent(ctx context.Context, slug string) (*model.Event, error) {
	return s.eventRepo.FindBySlug(ctx, slug)
}

func (s *CatalogServiceImpl) Categories(ctx context.Context) ([]*model.Category, error) {
	return s.categoryRepo.List(ctx)
}
