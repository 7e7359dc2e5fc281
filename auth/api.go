package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/owoyelepatrick51-droid/OG-MEDIA/store"
)

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// APIServer serves the account endpoints.
type APIServer struct {
	manager *Manager
	cookie  CookieConfig
}

// NewAPIServer creates the account API.
func NewAPIServer(manager *Manager, cookie CookieConfig) *APIServer {
	return &APIServer{
		manager: manager,
		cookie:  cookie,
	}
}

// RegisterRoutes mounts the account routes on r. LoadUser must already run on
// r for GET /api/user to see the session.
func (s *APIServer) RegisterRoutes(r gin.IRouter) {
	api := r.Group("/api")
	api.POST("/register", s.HandleRegister)
	api.POST("/login", s.HandleLogin)
	api.POST("/logout", s.HandleLogout)
	api.GET("/user", RequireUser(), s.HandleGetUser)
}

// RegisterRequest represents the request for POST /api/register.
type RegisterRequest struct {
	Username    string   `json:"username" binding:"required"`
	Password    string   `json:"password" binding:"required"`
	Preferences []string `json:"preferences"`
}

// LoginRequest represents the request for POST /api/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func errorResponse(code, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}

func (s *APIServer) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrNoSession):
		c.JSON(http.StatusUnauthorized, errorResponse("unauthorized", err.Error()))
	case errors.Is(err, store.ErrDuplicateUsername):
		c.JSON(http.StatusBadRequest, errorResponse("username_taken", err.Error()))
	case errors.Is(err, ErrInvalidUsername), errors.Is(err, ErrInvalidPassword),
		errors.Is(err, ErrPasswordTooLong):
		c.JSON(http.StatusBadRequest, errorResponse("validation_error", err.Error()))
	default:
		slog.Error("Account request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to process request"))
	}
}

// HandleRegister handles POST /api/register.
func (s *APIServer) HandleRegister(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("validation_error", err.Error()))
		return
	}

	ctx := c.Request.Context()
	user, err := s.manager.Register(ctx, req.Username, req.Password, req.Preferences)
	if err != nil {
		s.handleError(c, err)
		return
	}

	if !s.startSession(c, user) {
		return
	}
	c.JSON(http.StatusCreated, user)
}

// HandleLogin handles POST /api/login.
func (s *APIServer) HandleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("validation_error", err.Error()))
		return
	}

	user, err := s.manager.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.handleError(c, err)
		return
	}

	if !s.startSession(c, user) {
		return
	}
	c.JSON(http.StatusOK, user)
}

// HandleLogout handles POST /api/logout.
func (s *APIServer) HandleLogout(c *gin.Context) {
	if token, err := c.Cookie(s.cookie.Name); err == nil {
		if err := s.manager.EndSession(c.Request.Context(), token); err != nil {
			s.handleError(c, err)
			return
		}
	}

	s.setCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// HandleGetUser handles GET /api/user.
func (s *APIServer) HandleGetUser(c *gin.Context) {
	user, _ := CurrentUser(c)
	c.JSON(http.StatusOK, user)
}

func (s *APIServer) startSession(c *gin.Context, user *store.User) bool {
	session, err := s.manager.StartSession(c.Request.Context(), user.ID)
	if err != nil {
		s.handleError(c, err)
		return false
	}
	s.setCookie(c, session.Token, int(s.manager.SessionTTL().Seconds()))
	return true
}

func (s *APIServer) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cookie.Name, value, maxAge, "/", "", s.cookie.Secure, true)
}
