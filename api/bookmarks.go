package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/owoyelepatrick51-droid/OG-MEDIA/auth"
	"github.com/owoyelepatrick51-droid/OG-MEDIA/store"
)

// HandleListBookmarks handles GET /api/bookmarks.
func (s *Server) HandleListBookmarks(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	bookmarks, err := s.bookmarks.ListBookmarks(c.Request.Context(), user.ID)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookmarks)
}

// HandleCreateBookmark handles POST /api/bookmarks.
func (s *Server) HandleCreateBookmark(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	var input store.NewBookmark
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("validation_error", err.Error()))
		return
	}

	input.Title = strings.TrimSpace(input.Title)
	input.URL = strings.TrimSpace(input.URL)
	if input.Title == "" || input.URL == "" {
		c.JSON(http.StatusBadRequest, errorResponse("validation_error", "title and url are required"))
		return
	}

	bookmark, err := s.bookmarks.CreateBookmark(c.Request.Context(), user.ID, input)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bookmark)
}

// HandleDeleteBookmark handles DELETE /api/bookmarks/{id}.
func (s *Server) HandleDeleteBookmark(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("bad_request", "Invalid bookmark ID"))
		return
	}

	if err := s.bookmarks.DeleteBookmark(c.Request.Context(), id, user.ID); err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bookmark deleted"})
}
