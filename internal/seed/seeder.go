package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auralink/internal/model"
	"auralink/internal/repository"
	"auralink/internal/service"
	"auralink/internal/slug"
	apperrors "auralink/pkg/app_errors"
	"auralink/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	OrganizerUsername = "organizer"
	OrganizerPassword = "organizerpass"
	OrganizerEmail    = "organizer@example.com"

	defaultVenue    = "Main Campus Auditorium"
	defaultCapacity = 200
	firstEventDays  = 3
)

// Report 一次 seed 的結果統計
type Report struct {
	OrganizerCreated  bool
	CategoriesCreated int
	EventsCreated     int
	EventsUpdated     int
}

type Seeder struct {
	users      repository.UserRepository
	categories repository.CategoryRepository
	events     repository.EventRepository
	plan       []CategoryPlan
	hashCost   int
	now        func() time.Time
	log        *zap.Logger
}

type Option func(*Seeder)

func WithPlan(plan []CategoryPlan) Option {
	return func(s *Seeder) { s.plan = plan }
}

func WithClock(now func() time.Time) Option {
	return func(s *Seeder) { s.now = now }
}

// WithHashCost 測試用，降低 bcrypt 成本
func WithHashCost(cost int) Option {
	return func(s *Seeder) { s.hashCost = cost }
}

func New(users repository.UserRepository, categories repository.CategoryRepository, events repository.EventRepository, opts ...Option) *Seeder {
	s := &Seeder{
		users:      users,
		categories: categories,
		events:     events,
		plan:       DefaultPlan,
		hashCost:   bcrypt.DefaultCost,
		now:        time.Now,
		log:        logger.WithComponent("seed"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run 可重複執行：已存在的主辦者、分類、活動不會重建
func (s *Seeder) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	organizer, created, err := s.ensureOrganizer(ctx)
	if err != nil {
		return nil, err
	}
	report.OrganizerCreated = created

	existing, err := s.events.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	byTitle := make(map[string]*model.Event, len(existing))
	for _, e := range existing {
		if _, ok := byTitle[e.Title]; !ok {
			byTitle[e.Title] = e
		}
	}

	now := s.now()
	for _, plan := range s.plan {
		category, created, err := s.ensureCategory(ctx, plan.Name)
		if err != nil {
			return nil, err
		}
		if created {
			report.CategoriesCreated++
		}

		for i, title := range plan.Events {
			if event, ok := byTitle[title]; ok {
				updated, err := s.backfill(ctx, event, category.ID, organizer.ID)
				if err != nil {
					return nil, err
				}
				if updated {
					report.EventsUpdated++
				}
				continue
			}

			start := now.AddDate(0, 0, firstEventDays+i*7)
			event, err := s.createEvent(ctx, title, start, category.ID, organizer.ID)
			if err != nil {
				return nil, err
			}
			byTitle[title] = event
			report.EventsCreated++
		}
	}

	s.log.Info("Seeding complete",
		zap.Bool("organizer_created", report.OrganizerCreated),
		zap.Int("categories_created", report.CategoriesCreated),
		zap.Int("events_created", report.EventsCreated),
		zap.Int("events_updated", report.EventsUpdated),
	)
	return report, nil
}

func (s *Seeder) ensureOrganizer(ctx context.Context) (*model.User, bool, error) {
	user, err := s.users.FindByUsername(ctx, OrganizerUsername)
	if err == nil {
		if user.IsStaff && user.IsSuperuser {
			s.log.Info("Organizer already exists", zap.Int("user_id", user.ID))
			return user, false, nil
		}
		yes := true
		user, err = s.users.Update(ctx, user.ID, repository.UpdateUserParams{IsStaff: &yes, IsSuperuser: &yes})
		if err != nil {
			return nil, false, fmt.Errorf("grant organizer privileges: %w", err)
		}
		s.log.Info("Organizer privileges ensured", zap.Int("user_id", user.ID))
		return user, false, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, false, fmt.Errorf("find organizer: %w", err)
	}

	hash, err := service.HashPassword(OrganizerPassword, s.hashCost)
	if err != nil {
		return nil, false, err
	}
	user, err = s.users.Create(ctx, &model.User{
		Username:     OrganizerUsername,
		Email:        OrganizerEmail,
		PasswordHash: hash,
		IsStaff:      true,
		IsSuperuser:  true,
	})
	if err != nil {
		return nil, false, fmt.Errorf("create organizer: %w", err)
	}
	s.log.Info("Created organizer", zap.String("username", OrganizerUsername))
	return user, true, nil
}

func (s *Seeder) ensureCategory(ctx context.Context, name string) (*model.Category, bool, error) {
	category, err := s.categories.FindByName(ctx, name)
	if err == nil {
		return category, false, nil
	}
	if !errors.Is(err, apperrors.ErrCategoryNotFound) {
		return nil, false, fmt.Errorf("find category %q: %w", name, err)
	}

	base := slug.Make(name, "category")
	taken, err := s.categories.SlugsWithPrefix(ctx, base)
	if err != nil {
		return nil, false, fmt.Errorf("load category slugs: %w", err)
	}
	category, err = s.categories.Create(ctx, &model.Category{Name: name, Slug: slug.Unique(base, taken)})
	if err != nil {
		return nil, false, fmt.Errorf("create category %q: %w", name, err)
	}
	s.log.Info("Created category", zap.String("name", name), zap.String("slug", category.Slug))
	return category, true, nil
}

func (s *Seeder) createEvent(ctx context.Context, title string, start time.Time, categoryID, organizerID int) (*model.Event, error) {
	base := slug.Make(title, "event")
	taken, err := s.events.SlugsWithPrefix(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("load event slugs: %w", err)
	}

	event, err := s.events.Create(ctx, &model.Event{
		Title:       title,
		Slug:        slug.Unique(base, taken),
		Description: title,
		StartTime:   start,
		EndTime:     start.Add(3 * time.Hour),
		Venue:       defaultVenue,
		Price:       0,
		Capacity:    defaultCapacity,
		CategoryID:  &categoryID,
		OrganizerID: &organizerID,
	})
	if err != nil {
		return nil, fmt.Errorf("create event %q: %w", title, err)
	}
	s.log.Info("Created event", zap.String("title", title), zap.String("slug", event.Slug))
	return event, nil
}

// backfill 既有活動只補上缺少的分類與主辦者
func (s *Seeder) backfill(ctx context.Context, event *model.Event, categoryID, organizerID int) (bool, error) {
	var params model.UpdateEventParams
	changed := false
	if event.CategoryID == nil {
		id := &categoryID
		params.CategoryID = &id
		changed = true
	}
	if event.OrganizerID == nil {
		params.OrganizerID = &organizerID
		changed = true
	}
	if !changed {
		return false, nil
	}

	if _, err := s.events.Update(ctx, event.ID, params); err != nil {
		return false, fmt.Errorf("update event %d: %w", event.ID, err)
	}
	s.log.Info("Updated event", zap.String("title", event.Title))
	return true, nil
}

// RewriteDescriptions 以標題關鍵字重寫所有活動描述，回傳更新筆數
func (s *Seeder) RewriteDescriptions(ctx context.Context) (int, error) {
	events, err := s.events.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list events: %w", err)
	}

	count := 0
	for _, e := range events {
		desc := DescriptionFor(e.ID, e.Title)
		if _, err := s.events.Update(ctx, e.ID, model.UpdateEventParams{Description: &desc}); err != nil {
			return count, fmt.Errorf("update event %d: %w", e.ID, err)
		}
		count++
	}
	s.log.Info("Updated event descriptions", zap.Int("count", count))
	return count, nil
}
