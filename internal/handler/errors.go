package handler

import (
	"errors"
	"net/http"

	apperrors "auralink/pkg/app_errors"
	"auralink/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (p *Presenter) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrUnauthenticated):
		log.Info("Authentication required")
		p.Redirect(c, loginURL(c))
	case errors.Is(err, apperrors.ErrForbidden):
		log.Warn("Forbidden")
		p.Error(c, http.StatusForbidden, "You do not have permission to do that.")
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		p.Error(c, http.StatusNotFound, "Event not found.")
	case errors.Is(err, apperrors.ErrCategoryNotFound):
		log.Warn("Category not found")
		p.Error(c, http.StatusNotFound, "Category not found.")
	case errors.Is(err, apperrors.ErrUserNotFound):
		log.Warn("User not found")
		p.Error(c, http.StatusNotFound, "Page not found.")
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		p.Error(c, http.StatusBadRequest, "Invalid request.")
	default:
		log.Error("Unexpected error")
		p.Error(c, http.StatusInternalServerError, "Something went wrong. Please try again later.")
	}
}

// validationErrors 取出欄位錯誤，非驗證錯誤回傳 false
func validationErrors(err error) (map[string]string, bool) {
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields, true
	}
	return nil, false
}
