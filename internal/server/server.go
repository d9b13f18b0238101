package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/metasearch/internal/config"
	"github.com/agenthands/metasearch/internal/core"
	"github.com/agenthands/metasearch/internal/core/model"
	"github.com/agenthands/metasearch/internal/export"
	"github.com/agenthands/metasearch/internal/logging"
	"github.com/agenthands/metasearch/internal/metrics"
)

type Server struct {
	Aggregator *core.Aggregator

	cfg     config.SearchConfig
	logger  logging.Logger
	metrics *metrics.Collector
}

func NewServer(agg *core.Aggregator, cfg config.SearchConfig, logger logging.Logger, m *metrics.Collector) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{
		Aggregator: agg,
		cfg:        cfg,
		logger:     logger,
		metrics:    m,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(RecoveryMiddleware(s.logger), RequestIDMiddleware(), CORSMiddleware(), LoggingMiddleware(s.logger))
	if s.metrics != nil {
		r.Use(s.metrics.Middleware())
		r.GET("/metrics", s.metrics.Handler())
	}

	r.GET("/healthz", s.Health)

	api := r.Group("/api")
	api.POST("/search", s.Search)
	api.POST("/click", s.Click)
	api.GET("/favorites", s.ListFavorites)
	api.POST("/favorites", s.AddFavorite)
	api.GET("/analytics", s.Analytics)
	api.POST("/export", s.Export)

	return r
}

func (s *Server) Health(c *gin.Context) {
	var providers []model.Source
	for _, a := range s.Aggregator.Coordinator.Adapters() {
		providers = append(providers, a.Name())
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "providers": providers})
}

// ResultCount is a result count sent either as a JSON number or as a
// numeric string ("5").
type ResultCount int

func (n *ResultCount) UnmarshalJSON(data []byte) error {
	text := strings.Trim(string(data), `"`)
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return fmt.Errorf("num_results must be an integer: %w", err)
	}
	*n = ResultCount(v)
	return nil
}

type SearchRequest struct {
	Query      string       `json:"query"`
	NumResults *ResultCount `json:"num_results"`
}

// numResults applies the configured default and clamps to [1, max].
func (s *Server) numResults(requested *ResultCount) int {
	n := s.cfg.DefaultResults
	if requested != nil {
		n = int(*requested)
	}
	if n < 1 {
		n = 1
	}
	if s.cfg.MaxResults > 0 && n > s.cfg.MaxResults {
		n = s.cfg.MaxResults
	}
	return n
}

func (s *Server) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	resp, err := s.Aggregator.Search(c.Request.Context(), req.Query, s.numResults(req.NumResults))
	if err != nil {
		if errors.Is(err, model.ErrAllProvidersFailed) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		s.logger.WithError(err).Error("Failed to search")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

type ClickRequest struct {
	URL string `json:"url"`
}

func (s *Server) Click(c *gin.Context) {
	var req ClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	s.Aggregator.RecordClick(req.URL)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type FavoriteRequest struct {
	Favorite json.RawMessage `json:"favorite"`
}

func (s *Server) AddFavorite(c *gin.Context) {
	var req FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if err := s.Aggregator.AddFavorite(req.Favorite); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ListFavorites(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"favorites": s.Aggregator.ListFavorites()})
}

func (s *Server) Analytics(c *gin.Context) {
	c.JSON(http.StatusOK, s.Aggregator.Analytics())
}

type ExportRequest struct {
	Results export.Results `json:"results"`
	Format  string         `json:"format"`
}

func (s *Server) Export(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Format == "" {
		req.Format = export.FormatCSV
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, req.Format, req.Results); err != nil {
		if errors.Is(err, export.ErrInvalidFormat) {
			c.String(http.StatusBadRequest, "Invalid format")
			return
		}
		s.logger.WithError(err).Error("Failed to export results")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(req.Format)))
	c.Data(http.StatusOK, export.ContentType(req.Format), buf.Bytes())
}
