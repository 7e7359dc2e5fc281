package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// newsStatusHeader reports how the article list was produced (ok, empty,
// stale or failed). The body is always a JSON array.
const newsStatusHeader = "X-News-Status"

// RegionsResponse represents the response for GET /api/news/regions.
type RegionsResponse struct {
	Prefix  string   `json:"prefix"`
	Regions []string `json:"regions"`
}

// HandleListNews handles GET /api/news. The q parameter is accepted but not
// applied.
func (s *Server) HandleListNews(c *gin.Context) {
	result := s.news.Fetch(c.Request.Context(), c.Query("category"))

	c.Header(newsStatusHeader, result.Status.String())
	c.JSON(http.StatusOK, result.Articles)
}

// HandleTrending handles GET /api/news/trending.
func (s *Server) HandleTrending(c *gin.Context) {
	c.JSON(http.StatusOK, s.news.Trending(c.Request.Context()))
}

// HandleRegions handles GET /api/news/regions.
func (s *Server) HandleRegions(c *gin.Context) {
	c.JSON(http.StatusOK, RegionsResponse{
		Prefix:  s.news.RegionalPrefix(),
		Regions: s.regions.Regions(),
	})
}
