package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"papersim/internal/report"
)

// HTTPServer exposes backtest runs over a small JSON API.
type HTTPServer struct {
	addr   string
	svc    *Service
	router *gin.Engine
}

func NewHTTPServer(addr string, svc *Service) (*HTTPServer, error) {
	if svc == nil {
		return nil, errors.New("service cannot be nil")
	}
	if addr == "" {
		addr = ":8181"
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &HTTPServer{addr: addr, svc: svc, router: router}
	s.registerRoutes()
	return s, nil
}

func (s *HTTPServer) registerRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	api := s.router.Group("/api")
	api.POST("/runs", s.handleRunStart)
	api.GET("/runs", s.handleRunList)
	api.GET("/runs/:id", s.handleRunDetail)
	api.GET("/runs/:id/equity", s.handleRunEquity)
	api.GET("/runs/:id/chart", s.handleRunChart)
}

// Handler exposes the router for tests.
func (s *HTTPServer) Handler() http.Handler { return s.router }

func (s *HTTPServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *HTTPServer) handleRunStart(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	run, started, err := s.svc.TryStart(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !started {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "all run slots busy"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"run": run})
}

func (s *HTTPServer) handleRunList(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	c.JSON(http.StatusOK, gin.H{"runs": s.svc.Registry().List(limit)})
}

func (s *HTTPServer) handleRunDetail(c *gin.Context) {
	run, ok := s.svc.Registry().Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": run})
}

func (s *HTTPServer) handleRunEquity(c *gin.Context) {
	equity, err := s.svc.Registry().Equity(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"equity": equity})
}

func (s *HTTPServer) handleRunChart(c *gin.Context) {
	id := c.Param("id")
	candles, equity, err := s.svc.Registry().Series(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	run, _ := s.svc.Registry().Get(id)
	title := id
	if run.Summary != nil {
		title = run.Summary.Symbol + " " + run.Summary.Strategy
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := report.RenderEquityPage(c.Writer, report.ChartInput{Title: title, Candles: candles, Equity: equity}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Start serves until ctx is cancelled or the listener fails.
func (s *HTTPServer) Start(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		return nil
	case err := <-errCh:
		return err
	}
}
