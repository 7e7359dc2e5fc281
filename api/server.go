package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/owoyelepatrick51-droid/OG-MEDIA/auth"
	"github.com/owoyelepatrick51-droid/OG-MEDIA/news"
	"github.com/owoyelepatrick51-droid/OG-MEDIA/store"
)

// NewsService answers category and trending queries.
type NewsService interface {
	Fetch(ctx context.Context, category string) news.FetchResult
	Trending(ctx context.Context) []news.Article
	RegionalPrefix() string
}

// RegionLister lists the configured regional feeds.
type RegionLister interface {
	Regions() []string
}

// BookmarkStore persists a user's saved articles.
type BookmarkStore interface {
	ListBookmarks(ctx context.Context, userID uuid.UUID) ([]store.Bookmark, error)
	CreateBookmark(ctx context.Context, userID uuid.UUID, bookmark store.NewBookmark) (*store.Bookmark, error)
	DeleteBookmark(ctx context.Context, id, userID uuid.UUID) error
}

// Options holds the collaborators of a Server.
type Options struct {
	News        NewsService
	Regions     RegionLister
	Bookmarks   BookmarkStore
	Auth        *auth.Manager
	Cookie      auth.CookieConfig
	CORSOrigins []string
}

// Server represents the HTTP API server.
type Server struct {
	news        NewsService
	regions     RegionLister
	bookmarks   BookmarkStore
	auth        *auth.Manager
	accounts    *auth.APIServer
	cookieName  string
	corsOrigins []string
}

// NewServer creates a new API server.
func NewServer(opts Options) *Server {
	return &Server{
		news:        opts.News,
		regions:     opts.Regions,
		bookmarks:   opts.Bookmarks,
		auth:        opts.Auth,
		accounts:    auth.NewAPIServer(opts.Auth, opts.Cookie),
		cookieName:  opts.Cookie.Name,
		corsOrigins: opts.CORSOrigins,
	}
}

// SetupRouter configures the Gin router with all API routes.
func (s *Server) SetupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger())
	router.Use(cors.New(s.corsConfig()))
	router.Use(auth.LoadUser(s.auth, s.cookieName))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})

	s.accounts.RegisterRoutes(router)

	api := router.Group("/api")
	api.GET("/news", s.HandleListNews)
	api.GET("/news/trending", s.HandleTrending)
	api.GET("/news/regions", s.HandleRegions)

	bookmarks := api.Group("/bookmarks", auth.RequireUser())
	bookmarks.GET("", s.HandleListBookmarks)
	bookmarks.POST("", s.HandleCreateBookmark)
	bookmarks.DELETE("/:id", s.HandleDeleteBookmark)

	return router
}

// corsConfig allows every origin for "*"; any explicit list also allows
// credentials so the session cookie is sent cross-origin.
func (s *Server) corsConfig() cors.Config {
	config := cors.DefaultConfig()
	config.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}

	if len(s.corsOrigins) == 0 || (len(s.corsOrigins) == 1 && s.corsOrigins[0] == "*") {
		config.AllowAllOrigins = true
		return config
	}

	config.AllowOrigins = s.corsOrigins
	config.AllowCredentials = true
	return config
}
