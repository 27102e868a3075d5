package handler

import (
	"errors"
	"fmt"
	"net/http"

	"auralink/internal/middleware"
	"auralink/internal/model"
	"auralink/internal/service"
	apperrors "auralink/pkg/app_errors"
	"auralink/pkg/auth"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	*Presenter
	catalog       service.CatalogService
	registrations service.RegistrationService
	dashboard     service.DashboardService
	auth          service.AuthService
	tokens        *auth.TokenManager
	limiter       *middleware.RateLimiter
}

func NewEventHandler(
	presenter *Presenter,
	catalog service.CatalogService,
	registrations service.RegistrationService,
	dashboard service.DashboardService,
	authService service.AuthService,
	tokens *auth.TokenManager,
	limiter *middleware.RateLimiter,
) *EventHandler {
	return &EventHandler{
		Presenter:     presenter,
		catalog:       catalog,
		registrations: registrations,
		dashboard:     dashboard,
		auth:          authService,
		tokens:        tokens,
		limiter:       limiter,
	}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Home)
	r.POST("/", h.limiter.Middleware(middleware.ClientIP), h.HomeSubmit)

	router := r.Group("/events")
	{
		router.GET("/", h.ListEvents)
		router.GET("/:slug/", h.EventDetail)
		router.POST("/:slug/", h.Register)
		router.GET("/:slug/checkout/", h.CheckoutForm)
		router.POST("/:slug/checkout/", h.Checkout)
		router.GET("/:slug/success/", h.PaymentSuccess)
	}
}

func (h *EventHandler) Home(c *gin.Context) {
	h.renderHome(c, http.StatusOK, gin.H{"Form": model.EventInput{}})
}

// HomeSubmit 首頁同時有登入表單與 staff 快速建立活動表單
func (h *EventHandler) HomeSubmit(c *gin.Context) {
	createSubmit := c.PostForm("create-event-submit") != ""
	loginAttempt := c.PostForm("login-submit") != "" ||
		(c.PostForm("username") != "" && c.PostForm("password") != "" && !createSubmit)

	switch {
	case loginAttempt:
		h.homeLogin(c)
	case createSubmit:
		h.homeCreateEvent(c)
	default:
		h.Redirect(c, "/")
	}
}

func (h *EventHandler) homeLogin(c *gin.Context) {
	var input model.LoginInput
	if err := BindForm(c, &input); err != nil {
		h.handleError(c, apperrors.ErrInvalidInput, "HomeLogin")
		return
	}

	user, err := h.auth.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			h.renderHome(c, http.StatusOK, gin.H{
				"Form":          model.EventInput{},
				"LoginError":    "Please enter a correct username and password.",
				"LoginUsername": input.Username,
			}, model.Failure("Login failed, check your username and password."))
			return
		}
		h.handleError(c, err, "HomeLogin")
		return
	}

	if err := middleware.Login(c, h.tokens, user, h.secure); err != nil {
		h.handleError(c, err, "HomeLogin")
		return
	}
	h.Redirect(c, "/", model.Success(fmt.Sprintf("Welcome back, %s!", user.Username)))
}

func (h *EventHandler) homeCreateEvent(c *gin.Context) {
	actor := middleware.Actor(c)
	if !service.IsOrganizer(actor) {
		h.Redirect(c, "/", model.Failure("You are not authorized to create events here."))
		return
	}

	var input model.EventInput
	if err := BindForm(c, &input); err != nil {
		h.handleError(c, apperrors.ErrInvalidInput, "HomeCreateEvent")
		return
	}

	event, err := h.dashboard.CreateEvent(c.Request.Context(), actor, input)
	if err != nil {
		if fields, ok := validationErrors(err); ok {
			h.renderHome(c, http.StatusOK, gin.H{"Form": input, "Errors": fields},
				model.Failure("Please correct the errors in the event form."))
			return
		}
		h.handleError(c, err, "HomeCreateEvent")
		return
	}

	h.Redirect(c, "/dashboard/", model.Success(fmt.Sprintf("Event %q created successfully.", event.Title)))
}

func (h *EventHandler) renderHome(c *gin.Context, status int, data gin.H, notices ...model.Notice) {
	ctx := c.Request.Context()

	featured, err := h.catalog.Featured(ctx)
	if err != nil {
		h.handleError(c, err, "Home")
		return
	}
	data["Featured"] = featured

	if service.IsOrganizer(middleware.Actor(c)) {
		categories, err := h.catalog.Categories(ctx)
		if err != nil {
			h.handleError(c, err, "Home")
			return
		}
		data["CreateForm"] = true
		data["Categories"] = categories
	}

	h.HTML(c, status, "home", data, notices...)
}

func (h *EventHandler) ListEvents(c *gin.Context) {
	categorySlug := c.Query("category")
	listing, err := h.catalog.ListEvents(c.Request.Context(), categorySlug, c.Query("page"))
	if err != nil {
		h.handleError(c, err, "ListEvents")
		return
	}

	h.HTML(c, http.StatusOK, "event_list", gin.H{
		"Listing":      listing,
		"CategorySlug": categorySlug,
	})
}

func (h *EventHandler) EventDetail(c *gin.Context) {
	event, err := h.catalog.GetEvent(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.handleError(c, err, "EventDetail")
		return
	}
	h.renderEventForm(c, "event_detail", event, model.RegistrationInput{}, nil)
}

func (h *EventHandler) Register(c *gin.Context) {
	slug := c.Param("slug")

	var input model.RegistrationInput
	if err := BindForm(c, &input); err != nil {
		h.handleError(c, apperrors.ErrInvalidInput, "Register")
		return
	}

	outcome, err := h.registrations.Register(c.Request.Context(), slug, input)
	if err != nil {
		if fields, ok := validationErrors(err); ok {
			h.rerender(c, "event_detail", slug, input, fields)
			return
		}
		h.handleError(c, err, "Register")
		return
	}

	h.Redirect(c, fmt.Sprintf("/events/%s/", outcome.Event.Slug), outcome.Notices...)
}

func (h *EventHandler) CheckoutForm(c *gin.Context) {
	event, err := h.catalog.GetEvent(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.handleError(c, err, "CheckoutForm")
		return
	}
	h.renderEventForm(c, "checkout", event, model.RegistrationInput{}, nil)
}

func (h *EventHandler) Checkout(c *gin.Context) {
	slug := c.Param("slug")

	var input model.RegistrationInput
	if err := BindForm(c, &input); err != nil {
		h.handleError(c, apperrors.ErrInvalidInput, "Checkout")
		return
	}

	outcome, err := h.registrations.Checkout(c.Request.Context(), slug, input)
	if err != nil {
		if fields, ok := validationErrors(err); ok {
			h.rerender(c, "checkout", slug, input, fields)
			return
		}
		if errors.Is(err, apperrors.ErrPaymentDeclined) {
			h.rerender(c, "checkout", slug, input, nil, model.Failure("Your payment was declined."))
			return
		}
		h.handleError(c, err, "Checkout")
		return
	}

	h.Redirect(c, fmt.Sprintf("/events/%s/success/", outcome.Event.Slug), outcome.Notices...)
}

func (h *EventHandler) PaymentSuccess(c *gin.Context) {
	event, err := h.catalog.GetEvent(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.handleError(c, err, "PaymentSuccess")
		return
	}
	h.HTML(c, http.StatusOK, "payment_success", gin.H{"Event": event})
}

// rerender 驗證失敗時帶著原輸入重新顯示表單
func (h *EventHandler) rerender(c *gin.Context, page, slug string, input model.RegistrationInput, fields map[string]string, notices ...model.Notice) {
	event, err := h.catalog.GetEvent(c.Request.Context(), slug)
	if err != nil {
		h.handleError(c, err, "Rerender")
		return
	}
	h.renderEventForm(c, page, event, input, fields, notices...)
}

func (h *EventHandler) renderEventForm(c *gin.Context, page string, event *model.Event, input model.RegistrationInput, fields map[string]string, notices ...model.Notice) {
	h.HTML(c, http.StatusOK, page, gin.H{
		"Event":     event,
		"Form":      input,
		"Errors":    fields,
		"CanManage": service.CanManage(middleware.Actor(c), event),
	}, notices...)
}
