package handler_test

import (
	"net/http"
	"net/url"
	"testing"

	"auralink/internal/middleware"
	"auralink/internal/model"
	apperrors "auralink/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHome(t *testing.T) {
	t.Run("Success - anonymous", func(t *testing.T) {
		env := setupTestRouter(t)
		env.catalog.On("Featured", mock.Anything).Return([]*model.Event{testEvent(1, nil)}, nil).Once()

		w := env.get("/")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Spring Jazz Night")
		assert.Contains(t, w.Body.String(), "Organizer login")
		assert.NotContains(t, w.Body.String(), "Quick create event")
		env.catalog.AssertNotCalled(t, "Categories", mock.Anything)
	})

	t.Run("Success - staff sees create form", func(t *testing.T) {
		env := setupTestRouter(t)
		cookie := env.loginAs(t, staffUser(1))
		env.catalog.On("Featured", mock.Anything).Return([]*model.Event{}, nil).Once()
		env.catalog.On("Categories", mock.Anything).Return([]*model.Category{{ID: 1, Name: "Music", Slug: "music"}}, nil).Once()

		w := env.get("/", cookie)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Quick create event")
		assert.Contains(t, w.Body.String(), "Music")
		env.catalog.AssertExpectations(t)
	})

	t.Run("Failed - ErrInternalServerError", func(t *testing.T) {
		env := setupTestRouter(t)
		env.catalog.On("Featured", mock.Anything).Return(nil, apperrors.ErrInternalServerError).Once()

		w := env.get("/")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHomeSubmit(t *testing.T) {
	t.Run("Success - login", func(t *testing.T) {
		env := setupTestRouter(t)
		user := staffUser(1)
		env.auth.On("Login", mock.Anything, "organizer", "organizerpass").Return(user, nil).Once()

		w := env.postForm("/", url.Values{
			"username":     {"organizer"},
			"password":     {"organizerpass"},
			"login-submit": {"1"},
		})

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		session := findCookie(w, middleware.SessionCookie)
		require.NotNil(t, session)
		assert.NotEmpty(t, session.Value)
		env.auth.AssertExpectations(t)
	})

	t.Run("Success - login without submit name", func(t *testing.T) {
		env := setupTestRouter(t)
		env.auth.On("Login", mock.Anything, "organizer", "organizerpass").Return(staffUser(1), nil).Once()

		w := env.postForm("/", url.Values{"username": {"organizer"}, "password": {"organizerpass"}})

		assert.Equal(t, http.StatusFound, w.Code)
		env.auth.AssertExpectations(t)
	})

	t.Run("Failed - invalid credentials", func(t *testing.T) {
		env := setupTestRouter(t)
		env.auth.On("Login", mock.Anything, "organizer", "wrong").Return(nil, apperrors.ErrInvalidCredentials).Once()
		env.catalog.On("Featured", mock.Anything).Return([]*model.Event{}, nil).Once()

		w := env.postForm("/", url.Values{
			"username":     {"organizer"},
			"password":     {"wrong"},
			"login-submit": {"1"},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Please enter a correct username and password.")
		assert.Nil(t, findCookie(w, middleware.SessionCookie))
	})

	t.Run("Success - staff creates event", func(t *testing.T) {
		env := setupTestRouter(t)
		user := staffUser(1)
		cookie := env.loginAs(t, user)
		env.dashboard.On("CreateEvent", mock.Anything, user, mock.AnythingOfType("model.EventInput")).
			Return(testEvent(5, intPtr(1)), nil).Once()

		form := eventForm()
		form.Set("create-event-submit", "1")
		w := env.postForm("/", form, cookie)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/dashboard/", w.Header().Get("Location"))
		assert.NotNil(t, findCookie(w, "flash"))
		env.dashboard.AssertExpectations(t)
	})

	t.Run("Failed - non-staff cannot create", func(t *testing.T) {
		env := setupTestRouter(t)
		cookie := env.loginAs(t, regularUser(2))

		form := eventForm()
		form.Set("create-event-submit", "1")
		w := env.postForm("/", form, cookie)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		env.dashboard.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failed - invalid event form", func(t *testing.T) {
		env := setupTestRouter(t)
		user := staffUser(1)
		cookie := env.loginAs(t, user)
		verr := apperrors.NewValidationError()
		verr.Add("title", "This field is required.")
		env.dashboard.On("CreateEvent", mock.Anything, user, mock.Anything).Return(nil, verr).Once()
		env.catalog.On("Featured", mock.Anything).Return([]*model.Event{}, nil).Once()
		env.catalog.On("Categories", mock.Anything).Return([]*model.Category{}, nil).Once()

		form := eventForm()
		form.Set("title", "")
		form.Set("create-event-submit", "1")
		w := env.postForm("/", form, cookie)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Please correct the errors in the event form.")
		assert.Contains(t, w.Body.String(), "This field is required.")
	})
}

func TestListEvents(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		env := setupTestRouter(t)
		music := &model.Category{ID: 1, Name: "Music", Slug: "music"}
		listing := &model.EventListing{
			Events:           []*model.Event{testEvent(1, nil)},
			Page:             model.NewPage(7, model.PageSize, "1"),
			Categories:       []*model.Category{music},
			SelectedCategory: music,
		}
		env.catalog.On("ListEvents", mock.Anything, "music", "1").Return(listing, nil).Once()

		w := env.get("/events/?category=music&page=1")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Spring Jazz Night")
		assert.Contains(t, w.Body.String(), "Page 1 of 2")
		env.catalog.AssertExpectations(t)
	})

	t.Run("Failed - ErrCategoryNotFound", func(t *testing.T) {
		env := setupTestRouter(t)
		env.catalog.On("ListEvents", mock.Anything, "nope", "").Return(nil, apperrors.ErrCategoryNotFound).Once()

		w := env.get("/events/?category=nope")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestEventDetail(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		env := setupTestRouter(t)
		env.catalog.On("GetEvent", mock.Anything, "spring-jazz-night").Return(testEvent(1, nil), nil).Once()

		w := env.get("/events/spring-jazz-night/")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Spring Jazz Night")
		assert.NotContains(t, w.Body.String(), "/dashboard/events/1/edit/")
	})

	t.Run("Success - owner sees manage links", func(t *testing.T) {
		env := setupTestRouter(t)
		cookie := env.loginAs(t, staffUser(1))
		env.catalog.On("GetEvent", mock.Anything, "spring-jazz-night").Return(testEvent(1, intPtr(1)), nil).Once()

		w := env.get("/events/spring-jazz-night/", cookie)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "/dashboard/events/1/edit/")
	})

	t.Run("Failed - ErrEventNotFound", func(t *testing.T) {
		env := setupTestRouter(t)
		env.catalog.On("GetEvent", mock.Anything, "missing").Return(nil, apperrors.ErrEventNotFound).Once()

		w := env.get("/events/missing/")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRegister(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		env := setupTestRouter(t)
		event := testEvent(1, nil)
		env.registrations.On("Register", mock.Anything, "spring-jazz-night", registrationInput()).Return(&model.RegistrationOutcome{
			Registration: &model.Registration{ID: 1, EventID: 1, FullName: "Ada Lovelace", Email: "ada@example.com"},
			Event:        event,
			Notices:      []model.Notice{model.Success("Registration received, a confirmation email was sent.")},
		}, nil).Once()

		w := env.postForm("/events/spring-jazz-night/", registrationForm())

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/events/spring-jazz-night/", w.Header().Get("Location"))
		env.registrations.AssertExpectations(t)

		// flash 在下一頁顯示一次
		flash := findCookie(w, "flash")
		require.NotNil(t, flash)
		env.catalog.On("GetEvent", mock.Anything, "spring-jazz-night").Return(event, nil).Once()

		next := env.get("/events/spring-jazz-night/", flash)

		assert.Equal(t, http.StatusOK, next.Code)
		assert.Contains(t, next.Body.String(), "Registration received, a confirmation email was sent.")
		cleared := findCookie(next, "flash")
		require.NotNil(t, cleared)
		assert.True(t, cleared.MaxAge < 0)
	})

	t.Run("Failed - ValidationError", func(t *testing.T) {
		env := setupTestRouter(t)
		verr := apperrors.NewValidationError()
		verr.Add("email", "Enter a valid email address.")
		env.registrations.On("Register", mock.Anything, "spring-jazz-night", mock.Anything).Return(nil, verr).Once()
		env.catalog.On("GetEvent", mock.Anything, "spring-jazz-night").Return(testEvent(1, nil), nil).Once()

		form := registrationForm()
		form.Set("email", "not-an-email")
		w := env.postForm("/events/spring-jazz-night/", form)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Enter a valid email address.")
		assert.Contains(t, w.Body.String(), "Ada Lovelace")
	})

	t.Run("Failed - ErrEventNotFound", func(t *testing.T) {
		env := setupTestRouter(t)
		env.registrations.On("Register", mock.Anything, "missing", mock.Anything).Return(nil, apperrors.ErrEventNotFound).Once()

		w := env.postForm("/events/missing/", registrationForm())

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCheckout(t *testing.T) {
	paid := func() *model.Event {
		e := testEvent(2, nil)
		e.Price = 25
		return e
	}

	t.Run("Success - form", func(t *testing.T) {
		env := setupTestRouter(t)
		env.catalog.On("GetEvent", mock.Anything, "spring-jazz-night").Return(paid(), nil).Once()

		w := env.get("/events/spring-jazz-night/checkout/")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Amount due: $25.00")
	})

	t.Run("Success", func(t *testing.T) {
		env := setupTestRouter(t)
		env.registrations.On("Checkout", mock.Anything, "spring-jazz-night", registrationInput()).Return(&model.RegistrationOutcome{
			Registration: &model.Registration{ID: 3, EventID: 2},
			Event:        paid(),
			Notices:      []model.Notice{model.Success("Payment successful")},
		}, nil).Once()

		w := env.postForm("/events/spring-jazz-night/checkout/", registrationForm())

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/events/spring-jazz-night/success/", w.Header().Get("Location"))
		env.registrations.AssertExpectations(t)
	})

	t.Run("Failed - ErrPaymentDeclined", func(t *testing.T) {
		env := setupTestRouter(t)
		env.registrations.On("Checkout", mock.Anything, "spring-jazz-night", mock.Anything).Return(nil, apperrors.ErrPaymentDeclined).Once()
		env.catalog.On("GetEvent", mock.Anything, "spring-jazz-night").Return(paid(), nil).Once()

		w := env.postForm("/events/spring-jazz-night/checkout/", registrationForm())

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Your payment was declined.")
	})

	t.Run("Success - payment success page", func(t *testing.T) {
		env := setupTestRouter(t)
		env.catalog.On("GetEvent", mock.Anything, "spring-jazz-night").Return(paid(), nil).Once()

		w := env.get("/events/spring-jazz-night/success/")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Thank you!")
	})
}
