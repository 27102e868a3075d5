package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"auralink/internal/handler"
	"auralink/internal/middleware"
	"auralink/internal/model"
	"auralink/internal/service/mocks"
	"auralink/internal/site"
	"auralink/internal/web"
	"auralink/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router        *gin.Engine
	tokens        *auth.TokenManager
	catalog       *mocks.CatalogServiceMock
	registrations *mocks.RegistrationServiceMock
	dashboard     *mocks.DashboardServiceMock
	auth          *mocks.AuthServiceMock
}

func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()
	return setupTestRouterWithLimiter(t, middleware.LimiterConfig{RPS: 100, Burst: 100, IdleTTL: time.Minute})
}

func setupTestRouterWithLimiter(t *testing.T, conf middleware.LimiterConfig) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		tokens:        auth.NewTokenManager("test-secret", time.Hour),
		catalog:       mocks.NewCatalogServiceMock(),
		registrations: mocks.NewRegistrationServiceMock(),
		dashboard:     mocks.NewDashboardServiceMock(),
		auth:          mocks.NewAuthServiceMock(),
	}

	limiter := middleware.NewRateLimiter(conf)
	t.Cleanup(limiter.Close)

	router := gin.New()
	router.HTMLRender = web.MustRenderer()
	router.Use(middleware.Session(env.tokens, env.auth))

	presenter := handler.NewPresenter(site.Settings{SiteName: "AuraLink"}, false)
	handler.NewEventHandler(presenter, env.catalog, env.registrations, env.dashboard, env.auth, env.tokens, limiter).RegisterRoutes(router)
	handler.NewDashboardHandler(presenter, env.dashboard, env.catalog).RegisterRoutes(router)
	handler.NewAuthHandler(presenter, env.auth, env.tokens, limiter).RegisterRoutes(router)

	env.router = router
	return env
}

// loginAs 回傳帶有 session 的 cookie，並讓 session 中介層可以還原使用者
func (env *testEnv) loginAs(t *testing.T, user *model.User) *http.Cookie {
	t.Helper()
	token, err := env.tokens.Create(user.ID, user.Username)
	require.NoError(t, err)
	env.auth.On("UserByID", mock.Anything, user.ID).Return(user, nil)
	return &http.Cookie{Name: middleware.SessionCookie, Value: token}
}

func (env *testEnv) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *testEnv) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

type pingerStub struct {
	err error
}

func (p pingerStub) Ping(ctx context.Context) error {
	return p.err
}

func intPtr(v int) *int {
	return &v
}

func staffUser(id int) *model.User {
	return &model.User{ID: id, Username: "organizer", IsStaff: true}
}

func regularUser(id int) *model.User {
	return &model.User{ID: id, Username: "member"}
}

func testEvent(id int, organizerID *int) *model.Event {
	start := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)
	return &model.Event{
		ID:          id,
		Title:       "Spring Jazz Night",
		Slug:        "spring-jazz-night",
		Description: "Live music",
		StartTime:   start,
		EndTime:     start.Add(3 * time.Hour),
		Venue:       "Main Campus Auditorium",
		Capacity:    100,
		OrganizerID: organizerID,
	}
}

func registrationForm() url.Values {
	return url.Values{
		"full_name": {"Ada Lovelace"},
		"email":     {"ada@example.com"},
		"phone":     {"555-0100"},
	}
}

func registrationInput() model.RegistrationInput {
	return model.RegistrationInput{FullName: "Ada Lovelace", Email: "ada@example.com", Phone: "555-0100"}
}

func eventForm() url.Values {
	return url.Values{
		"title":       {"Spring Jazz Night"},
		"description": {"Live music"},
		"start_time":  {"2026-05-01T18:00"},
		"end_time":    {"2026-05-01T21:00"},
		"venue":       {"Main Campus Auditorium"},
		"price":       {"0"},
		"capacity":    {"100"},
	}
}
