package handler

import (
	"fmt"
	"net/http"

	"auralink/internal/middleware"
	"auralink/internal/model"
	"auralink/internal/service"
	apperrors "auralink/pkg/app_errors"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	*Presenter
	dashboard service.DashboardService
	catalog   service.CatalogService
}

func NewDashboardHandler(presenter *Presenter, dashboard service.DashboardService, catalog service.CatalogService) *DashboardHandler {
	return &DashboardHandler{
		Presenter: presenter,
		dashboard: dashboard,
		catalog:   catalog,
	}
}

func (h *DashboardHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/dashboard")
	{
		router.GET("/", h.Dashboard)
		router.GET("/events/create/", h.CreateForm)
		router.POST("/events/create/", h.CreateEvent)
		router.GET("/events/:id/", h.EventDetail)
		router.GET("/events/:id/edit/", h.EditForm)
		router.POST("/events/:id/edit/", h.UpdateEvent)
		router.GET("/events/:id/delete/", h.ConfirmDelete)
		router.POST("/events/:id/delete/", h.DeleteEvent)
	}
}

func (h *DashboardHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.dashboard.Dashboard(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		h.handleError(c, err, "Dashboard")
		return
	}
	h.HTML(c, http.StatusOK, "dashboard", gin.H{"Dashboard": dashboard})
}

func (h *DashboardHandler) CreateForm(c *gin.Context) {
	actor := middleware.Actor(c)
	if actor == nil {
		h.handleError(c, apperrors.ErrUnauthenticated, "CreateForm")
		return
	}
	if !service.IsOrganizer(actor) {
		h.handleError(c, apperrors.ErrForbidden, "CreateForm")
		return
	}
	h.renderForm(c, nil, model.EventInput{}, nil)
}

func (h *DashboardHandler) CreateEvent(c *gin.Context) {
	var input model.EventInput
	if err := BindForm(c, &input); err != nil {
		h.handleError(c, apperrors.ErrInvalidInput, "CreateEvent")
		return
	}

	event, err := h.dashboard.CreateEvent(c.Request.Context(), middleware.Actor(c), input)
	if err != nil {
		if fields, ok := validationErrors(err); ok {
			h.renderForm(c, nil, input, fields)
			return
		}
		h.handleError(c, err, "CreateEvent")
		return
	}

	h.Redirect(c, "/dashboard/", model.Success(fmt.Sprintf("Event %q created successfully.", event.Title)))
}

func (h *DashboardHandler) EventDetail(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.handleError(c, apperrors.ErrEventNotFound, "DashboardEventDetail")
		return
	}

	managed, err := h.dashboard.EventForManagement(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		h.handleError(c, err, "DashboardEventDetail")
		return
	}
	h.HTML(c, http.StatusOK, "organizer_event_detail", gin.H{"Managed": managed})
}

func (h *DashboardHandler) EditForm(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.handleError(c, apperrors.ErrEventNotFound, "EditForm")
		return
	}

	event, err := h.dashboard.GetEditableEvent(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		h.handleError(c, err, "EditForm")
		return
	}
	h.renderForm(c, event, model.EventFromModel(event), nil)
}

func (h *DashboardHandler) UpdateEvent(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.handleError(c, apperrors.ErrEventNotFound, "UpdateEvent")
		return
	}

	var input model.EventInput
	if err := BindForm(c, &input); err != nil {
		h.handleError(c, apperrors.ErrInvalidInput, "UpdateEvent")
		return
	}

	ctx := c.Request.Context()
	actor := middleware.Actor(c)
	event, err := h.dashboard.UpdateEvent(ctx, actor, id, input)
	if err != nil {
		if fields, ok := validationErrors(err); ok {
			current, lookupErr := h.dashboard.GetEditableEvent(ctx, actor, id)
			if lookupErr != nil {
				h.handleError(c, lookupErr, "UpdateEvent")
				return
			}
			h.renderForm(c, current, input, fields)
			return
		}
		h.handleError(c, err, "UpdateEvent")
		return
	}

	h.Redirect(c, fmt.Sprintf("/dashboard/events/%d/", event.ID), model.Success(fmt.Sprintf("Event %q updated successfully.", event.Title)))
}

func (h *DashboardHandler) ConfirmDelete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.handleError(c, apperrors.ErrEventNotFound, "ConfirmDelete")
		return
	}

	event, err := h.dashboard.GetDeletableEvent(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		h.handleError(c, err, "ConfirmDelete")
		return
	}
	h.HTML(c, http.StatusOK, "confirm_delete", gin.H{"Event": event})
}

func (h *DashboardHandler) DeleteEvent(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.handleError(c, apperrors.ErrEventNotFound, "DeleteEvent")
		return
	}

	if err := h.dashboard.DeleteEvent(c.Request.Context(), middleware.Actor(c), id); err != nil {
		h.handleError(c, err, "DeleteEvent")
		return
	}
	h.Redirect(c, "/dashboard/", model.Success("Event deleted."))
}

// renderForm 建立與編輯共用同一個表單頁，event 為 nil 時是建立
func (h *DashboardHandler) renderForm(c *gin.Context, event *model.Event, input model.EventInput, fields map[string]string) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		h.handleError(c, err, "EventForm")
		return
	}

	data := gin.H{
		"Form":       input,
		"Errors":     fields,
		"Categories": categories,
	}
	if event != nil {
		data["Event"] = event
	}
	h.HTML(c, http.StatusOK, "event_form", data)
}
