package handler_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"auralink/internal/model"
	apperrors "auralink/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestDashboard(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		env := setupTestRouter(t)
		user := staffUser(1)
		cookie := env.loginAs(t, user)
		env.dashboard.On("Dashboard", mock.Anything, user).Return(&model.Dashboard{
			Events: []*model.Event{testEvent(1, intPtr(1))},
			Registrations: []*model.RecentRegistration{{
				Registration: model.Registration{ID: 1, EventID: 1, FullName: "Ada Lovelace", Email: "ada@example.com"},
				EventTitle:   "Spring Jazz Night",
				EventSlug:    "spring-jazz-night",
			}},
			Stats: model.DashboardStats{TotalEvents: 1, TotalRegistrations: 1},
		}, nil).Once()

		w := env.get("/dashboard/", cookie)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Ada Lovelace")
		assert.Contains(t, w.Body.String(), "/dashboard/events/1/")
		env.dashboard.AssertExpectations(t)
	})

	t.Run("Failed - anonymous redirects to login", func(t *testing.T) {
		env := setupTestRouter(t)
		env.dashboard.On("Dashboard", mock.Anything, (*model.User)(nil)).Return(nil, apperrors.ErrUnauthenticated).Once()

		w := env.get("/dashboard/")

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/accounts/login/?next="+url.QueryEscape("/dashboard/"), w.Header().Get("Location"))
	})

	t.Run("Failed - ErrForbidden", func(t *testing.T) {
		env := setupTestRouter(t)
		user := regularUser(2)
		cookie := env.loginAs(t, user)
		env.dashboard.On("Dashboard", mock.Anything, user).Return(nil, apperrors.ErrForbidden).Once()

		w := env.get("/dashboard/", cookie)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestCreateEvent(t *testing.T) {
	t.Run("Success - form", func(t *testing.T) {
		env := setupTestRouter(t)
		cookie := env.loginAs(t, staffUser(1))
		env.catalog.On("Categories", mock.Anything).Return([]*model.Category{{ID: 3, Name: "Workshop", Slug: "workshop"}}, nil).Once()

		w := env.get("/dashboard/events/create/", cookie)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Create event")
		assert.Contains(t, w.Body.String(), "Workshop")
	})

	t.Run("Failed - form requires login", func(t *testing.T) {
		env := setupTestRouter(t)

		w := env.get("/dashboard/events/create/")

		assert.Equal(t, http.StatusFound, w.Code)
		assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/accounts/login/?next="))
	})

	t.Run("Failed - form requires staff", func(t *testing.T) {
		env := setupTestRouter(t)
		cookie := env.loginAs(t, regularUser(2))

		w := env.get("/dashboard/events/create/", cookie)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Success", func(t *testing.T) {
		env := setupTestRouter(t)
		user := staffUser(1)
		cookie := env.loginAs(t, user)
		expected := model.EventInput{
			Title:       "Spring Jazz Night",
			Description: "Live music",
			StartTime:   "2026-05-01T18:00",
			EndTime:     "2026-05-01T21:00",
			Venue:       "Main Campus Auditorium",
			Price:       "0",
			Capacity:    "100",
		}
		env.dashboard.On("CreateEvent", mock.Anything, user, expected).Return(testEvent(7, intPtr(1)), nil).Once()

		w := env.postForm("/dashboard/events/create/", eventForm(), cookie)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/dashboard/", w.Header().Get("Location"))
		env.dashboard.AssertExpectations(t)
	})

	t.Run("Failed - ValidationError", func(t *testing.T) {
		env := setupTestRouter(t)
		user := staffUser(1)
		cookie := env.loginAs(t, user)
		verr := apperrors.NewValidationError()
		verr.Add("price", "Ensure that there are no more than 2 decimal places.")
		env.dashboard.On("CreateEvent", mock.Anything, user, mock.Anything).Return(nil, verr).Once()
		env.catalog.On("Categories", mock.Anything).Return([]*model.Category{}, nil).Once()

		form := eventForm()
		form.Set("price", "1.234")
		w := env.postForm("/dashboard/events/create/", form, cookie)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Ensure that there are no more than 2 decimal places.")
		assert.Contains(t, w.Body.String(), "1.234")
	})
}

func TestDashboardEventDetail(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		env := setupTestRouter(t)
		user := staffUser(1)
		cookie := env.loginAs(t, user)
		env.dashboard.On("EventForManagement", mock.Anything, user, 1).Return(&model.ManagedEvent{
			Event:         testEvent(1, intPtr(1)),
			Registrations: []*model.Registration{{ID: 1, EventID: 1, FullName: "Ada Lovelace", Email: "ada@example.com"}},
		}, nil).Once()

		w := env.get("/dashboard/events/1/", cookie)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Registrations (1)")
	})

	t.Run("Failed - invalid id", func(t *testing.T) {
		env := setupTestRouter(t)

		w := env.get("/dashboard/events/abc/")

		assert.Equal(t, http.StatusNotFound, w.Code)
		env.dashboard.AssertNotCalled(t, "EventForManagement", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failed - ErrEventNotFound", func(t *testing.T) {
		env := setupTestRouter(t)
		user := staffUser(1)
		cookie := env.loginAs(t, user)
		env.dashboard.On("EventForManagement", mock.Anything, user, 99).Return(nil, apperrors.ErrEventNotFound).Once()

		w := env.get("/dashboard/events/99/", cookie)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUpdateEvent(t *testing.T) {
	t.Run("Success - form prefilled", func(t *testing.T) {
		env := setupTestRouter(t)
		user := regularUser(2)
		cookie := env.loginAs(t, user)
		env.dashboard.On("GetEditableEvent", mock.Anything, user, 1).Return(testEvent(1, intPtr(2)), nil).Once()
		env.catalog.On("Categories", mock.Anything).Return([]*model.Category{}, nil).Once()

		w := env.get("/dashboard/events/1/edit/", cookie)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Edit event")
		assert.Contains(t, w.Body.String(), "2026-05-01T18:00")
	})

	t.Run("Success", func(t *testing.T) {
		env := setupTestRouter(t)
		user := regularUser(2)
		cookie := env.loginAs(t, user)
		env.dashboard.On("UpdateEvent", mock.Anything, user, 1, mock.AnythingOfType("model.EventInput")).
			Return(testEvent(1, intPtr(2)), nil).Once()

		w := env.postForm("/dashboard/events/1/edit/", eventForm(), cookie)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/dashboard/events/1/", w.Header().Get("Location"))
		env.dashboard.AssertExpectations(t)
	})

	t.Run("Failed - ErrForbidden", func(t *testing.T) {
		env := setupTestRouter(t)
		user := regularUser(3)
		cookie := env.loginAs(t, user)
		env.dashboard.On("UpdateEvent", mock.Anything, user, 1, mock.Anything).Return(nil, apperrors.ErrForbidden).Once()

		w := env.postForm("/dashboard/events/1/edit/", eventForm(), cookie)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Failed - ValidationError", func(t *testing.T) {
		env := setupTestRouter(t)
		user := regularUser(2)
		cookie := env.loginAs(t, user)
		verr := apperrors.NewValidationError()
		verr.Add("venue", "This field is required.")
		env.dashboard.On("UpdateEvent", mock.Anything, user, 1, mock.Anything).Return(nil, verr).Once()
		env.dashboard.On("GetEditableEvent", mock.Anything, user, 1).Return(testEvent(1, intPtr(2)), nil).Once()
		env.catalog.On("Categories", mock.Anything).Return([]*model.Category{}, nil).Once()

		form := eventForm()
		form.Set("venue", "")
		w := env.postForm("/dashboard/events/1/edit/", form, cookie)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "This field is required.")
	})
}

func TestDeleteEvent(t *testing.T) {
	t.Run("Success - confirmation page", func(t *testing.T) {
		env := setupTestRouter(t)
		user := staffUser(1)
		cookie := env.loginAs(t, user)
		env.dashboard.On("GetDeletableEvent", mock.Anything, user, 1).Return(testEvent(1, intPtr(1)), nil).Once()

		w := env.get("/dashboard/events/1/delete/", cookie)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Are you sure you want to delete")
	})

	t.Run("Success", func(t *testing.T) {
		env := setupTestRouter(t)
		user := staffUser(1)
		cookie := env.loginAs(t, user)
		env.dashboard.On("DeleteEvent", mock.Anything, user, 1).Return(nil).Once()

		w := env.postForm("/dashboard/events/1/delete/", url.Values{}, cookie)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/dashboard/", w.Header().Get("Location"))
		env.dashboard.AssertExpectations(t)
	})

	t.Run("Failed - ErrForbidden", func(t *testing.T) {
		env := setupTestRouter(t)
		user := regularUser(3)
		cookie := env.loginAs(t, user)
		env.dashboard.On("DeleteEvent", mock.Anything, user, 1).Return(apperrors.ErrForbidden).Once()

		w := env.postForm("/dashboard/events/1/delete/", url.Values{}, cookie)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Failed - anonymous", func(t *testing.T) {
		env := setupTestRouter(t)
		env.dashboard.On("DeleteEvent", mock.Anything, (*model.User)(nil), 1).Return(apperrors.ErrUnauthenticated).Once()

		w := env.postForm("/dashboard/events/1/delete/", url.Values{})

		assert.Equal(t, http.StatusFound, w.Code)
		assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/accounts/login/"))
	})
}
