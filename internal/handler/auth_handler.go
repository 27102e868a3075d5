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

type AuthHandler struct {
	*Presenter
	auth    service.AuthService
	tokens  *auth.TokenManager
	limiter *middleware.RateLimiter
}

func NewAuthHandler(presenter *Presenter, authService service.AuthService, tokens *auth.TokenManager, limiter *middleware.RateLimiter) *AuthHandler {
	return &AuthHandler{
		Presenter: presenter,
		auth:      authService,
		tokens:    tokens,
		limiter:   limiter,
	}
}

func (h *AuthHandler) RegisterRoutes(r *gin.Engine) {
	limit := h.limiter.Middleware(middleware.ClientIP)

	router := r.Group("/accounts")
	{
		router.GET("/signup/", h.SignupForm)
		router.POST("/signup/", limit, h.Signup)
		router.GET("/login/", h.LoginForm)
		router.POST("/login/", limit, h.Login)
		router.GET("/logout/", h.Logout)
		router.POST("/logout/", h.Logout)
	}
}

func (h *AuthHandler) SignupForm(c *gin.Context) {
	h.HTML(c, http.StatusOK, "signup", gin.H{"Form": model.SignupInput{}})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var input model.SignupInput
	if err := BindForm(c, &input); err != nil {
		h.handleError(c, apperrors.ErrInvalidInput, "Signup")
		return
	}

	user, err := h.auth.Signup(c.Request.Context(), input)
	if err != nil {
		if fields, ok := validationErrors(err); ok {
			// 密碼不回填
			input.Password1, input.Password2 = "", ""
			h.HTML(c, http.StatusOK, "signup", gin.H{"Form": input, "Errors": fields})
			return
		}
		h.handleError(c, err, "Signup")
		return
	}

	if err := middleware.Login(c, h.tokens, user, h.secure); err != nil {
		h.handleError(c, err, "Signup")
		return
	}
	h.Redirect(c, "/", model.Success(fmt.Sprintf("Welcome, %s! Your account has been created.", user.Username)))
}

func (h *AuthHandler) LoginForm(c *gin.Context) {
	h.HTML(c, http.StatusOK, "login", gin.H{"Next": c.Query("next")})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input model.LoginInput
	if err := BindForm(c, &input); err != nil {
		h.handleError(c, apperrors.ErrInvalidInput, "Login")
		return
	}
	next := c.PostForm("next")

	user, err := h.auth.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			h.HTML(c, http.StatusOK, "login", gin.H{
				"LoginError":    "Please enter a correct username and password.",
				"LoginUsername": input.Username,
				"Next":          next,
			})
			return
		}
		h.handleError(c, err, "Login")
		return
	}

	if err := middleware.Login(c, h.tokens, user, h.secure); err != nil {
		h.handleError(c, err, "Login")
		return
	}
	h.Redirect(c, safeNext(next), model.Success(fmt.Sprintf("Welcome back, %s!", user.Username)))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.Logout(c)
	h.HTML(c, http.StatusOK, "logged_out", nil)
}
