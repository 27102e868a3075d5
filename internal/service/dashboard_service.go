package service

import (
	"context"
	"errors"
	"fmt"

	"auralink/internal/model"
	"auralink/internal/repository"
	"auralink/internal/slug"
	apperrors "auralink/pkg/app_errors"
	"auralink/pkg/logger"

	"go.uber.org/zap"
)

const (
	// RecentRegistrationsLimit dashboard 顯示的最新報名數
	RecentRegistrationsLimit = 10
	maxSlugAttempts          = 3
)

type DashboardService interface {
	Dashboard(ctx context.Context, actor *model.User) (*model.Dashboard, error)
	CreateEvent(ctx context.Context, actor *model.User, input model.EventInput) (*model.Event, error)
	EventForManagement(ctx context.Context, actor *model.User, id int) (*model.ManagedEvent, error)
	GetEditableEvent(ctx context.Context, actor *model.User, id int) (*model.Event, error)
	UpdateEvent(ctx context.Context, actor *model.User, id int, input model.EventInput) (*model.Event, error)
	// GetDeletableEvent 刪除確認頁
	GetDeletableEvent(ctx context.Context, actor *model.User, id int) (*model.Event, error)
	DeleteEvent(ctx context.Context, actor *model.User, id int) error
}

type DashboardServiceImpl struct {
	eventRepo        repository.EventRepository
	registrationRepo repository.RegistrationRepository
	categoryRepo     repository.CategoryRepository
}

func NewDashboardService(
	eventRepo repository.EventRepository,
	registrationRepo repository.RegistrationRepository,
	categoryRepo repository.CategoryRepository,
) DashboardService {
	return &DashboardServiceImpl{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		categoryRepo:     categoryRepo,
	}
}

func requireOrganizer(actor *model.User) error {
	if actor == nil {
		return apperrors.ErrUnauthenticated
	}
	if !IsOrganizer(actor) {
		return apperrors.ErrForbidden
	}
	return nil
}

func (s *DashboardServiceImpl) Dashboard(ctx context.Context, actor *model.User) (*model.Dashboard, error) {
	if err := requireOrganizer(actor); err != nil {
		return nil, err
	}

	events, err := s.eventRepo.ListByOrganizer(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list organizer events: %w", err)
	}

	recent, err := s.registrationRepo.RecentByOrganizer(ctx, actor.ID, RecentRegistrationsLimit)
	if err != nil {
		return nil, fmt.Errorf("recent registrations: %w", err)
	}

	total, err := s.registrationRepo.CountByOrganizer(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}

	return &model.Dashboard{
		Events:        events,
		Registrations: recent,
		Stats: model.DashboardStats{
			TotalEvents:        len(events),
			TotalRegistrations: total,
		},
	}, nil
}

// CreateEvent 主辦者固定為 actor，slug 由標題產生且不重複
func (s *DashboardServiceImpl) CreateEvent(ctx context.Context, actor *model.User, input model.EventInput) (*model.Event, error) {
	if err := requireOrganizer(actor); err != nil {
		return nil, err
	}

	fields, err := parseEventInput(ctx, s.categoryRepo, input)
	if err != nil {
		return nil, err
	}

	organizerID := actor.ID
	event := &model.Event{
		Title:       fields.Title,
		Description: fields.Description,
		Image:       fields.Image,
		StartTime:   fields.StartTime,
		EndTime:     fields.EndTime,
		Venue:       fields.Venue,
		Price:       fields.Price,
		Capacity:    fields.Capacity,
		CategoryID:  fields.CategoryID,
		OrganizerID: &organizerID,
	}

	// 併發建立同名活動時 slug 可能被搶先，重新計算後再試
	for attempt := 1; ; attempt++ {
		event.Slug, err = s.uniqueSlug(ctx, fields.Title)
		if err != nil {
			return nil, err
		}

		created, err := s.eventRepo.Create(ctx, event)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, apperrors.ErrSlugTaken) || attempt == maxSlugAttempts {
			return nil, fmt.Errorf("create event: %w", err)
		}
		logger.WithComponent("service").Debug("event slug taken, retrying",
			zap.String("slug", event.Slug), zap.Int("attempt", attempt))
	}
}

func (s *DashboardServiceImpl) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slug.Make(title, "event")
	existing, err := s.eventRepo.SlugsWithPrefix(ctx, base)
	if err != nil {
		return "", fmt.Errorf("load slugs: %w", err)
	}
	return slug.Unique(base, existing), nil
}

func (s *DashboardServiceImpl) EventForManagement(ctx context.Context, actor *model.User, id int) (*model.ManagedEvent, error) {
	if err := requireOrganizer(actor); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanManage(actor, event) {
		return nil, apperrors.ErrForbidden
	}

	registrations, err := s.registrationRepo.ListByEvent(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	return &model.ManagedEvent{Event: event, Registrations: registrations}, nil
}

// manageable 需登入且 CanManage，非 staff 的主辦者也能管理自己的活動
func (s *DashboardServiceImpl) manageable(ctx context.Context, actor *model.User, id int) (*model.Event, error) {
	if actor == nil {
		return nil, apperrors.ErrUnauthenticated
	}

	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanManage(actor, event) {
		return nil, apperrors.ErrForbidden
	}
	return event, nil
}

func (s *DashboardServiceImpl) GetEditableEvent(ctx context.Context, actor *model.User, id int) (*model.Event, error) {
	return s.manageable(ctx, actor, id)
}

// UpdateEvent slug 不變；沒有主辦者的活動改由 actor 接手
func (s *DashboardServiceImpl) UpdateEvent(ctx context.Context, actor *model.User, id int, input model.EventInput) (*model.Event, error) {
	event, err := s.manageable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	fields, err := parseEventInput(ctx, s.categoryRepo, input)
	if err != nil {
		return nil, err
	}

	params := model.UpdateEventParams{
		Title:       &fields.Title,
		Description: &fields.Description,
		Image:       &fields.Image,
		CategoryID:  &fields.CategoryID,
		StartTime:   &fields.StartTime,
		EndTime:     &fields.EndTime,
		Venue:       &fields.Venue,
		Price:       &fields.Price,
		Capacity:    &fields.Capacity,
	}
	if event.OrganizerID == nil {
		organizerID := actor.ID
		params.OrganizerID = &organizerID
	}

	updated, err := s.eventRepo.Update(ctx, event.ID, params)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *DashboardServiceImpl) GetDeletableEvent(ctx context.Context, actor *model.User, id int) (*model.Event, error) {
	return s.manageable(ctx, actor, id)
}

// DeleteEvent 報名資料一併刪除
func (s *DashboardServiceImpl) DeleteEvent(ctx context.Context, actor *model.User, id int) error {
	event, err := s.manageable(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.eventRepo.Delete(ctx, event.ID)
}
