package server

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rendezvous/internal/cart"
	"rendezvous/internal/config"
	"rendezvous/internal/usecase"
)

type Deps struct {
	Sessions *usecase.SessionService
	Catalog  *usecase.CatalogService
	Cart     *cart.Store
	Checkout *usecase.CheckoutService
	Channel  usecase.EventChannel
	Log      *slog.Logger
}

// Server is the kiosk's local JSON API. It owns the trackers and the chat
// room it opens, never the realtime channel they share.
type Server struct {
	cfg    config.Config
	d      Deps
	log    *slog.Logger
	engine *gin.Engine

	mu       sync.Mutex
	trackers map[string]*usecase.Tracker
	chat     *usecase.ChatRoom
}

func New(cfg config.Config, d Deps) *Server {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		cfg:      cfg,
		d:        d,
		log:      log,
		engine:   gin.New(),
		trackers: map[string]*usecase.Tracker{},
	}
	s.engine.Use(gin.Recovery(), s.requestID, s.accessLog)
	s.engine.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", "Idempotency-Key"},
		ExposeHeaders:   []string{"X-Request-ID"},
		MaxAge:          12 * time.Hour,
	}))
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.handleHealth)

	api := s.engine.Group("/api")
	api.POST("/session", s.handleStartSession)
	api.GET("/session", s.handleGetSession)
	api.DELETE("/session", s.handleEndSession)
	api.GET("/menu", s.handleMenu)
	api.GET("/cart", s.handleGetCart)
	api.POST("/cart/items", s.handleAddItem)
	api.PATCH("/cart/items/:id", s.handleUpdateItem)
	api.DELETE("/cart/items/:id", s.handleRemoveItem)
	api.POST("/checkout", s.handleCheckout)
	api.GET("/orders/:id/tracking", s.handleTracking)
	api.DELETE("/orders/:id/tracking", s.handleStopTracking)
	api.GET("/chat/messages", s.handleChatMessages)
	api.POST("/chat/messages", s.handleChatSend)
}

// Close releases every listener the server registered on the channel.
func (s *Server) Close() {
	s.mu.Lock()
	trackers := s.trackers
	s.trackers = map[string]*usecase.Tracker{}
	chat := s.chat
	s.chat = nil
	s.mu.Unlock()
	for _, t := range trackers {
		t.Stop()
	}
	if chat != nil {
		chat.Close()
	}
}

func (s *Server) requestID(c *gin.Context) {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = c.GetHeader("Idempotency-Key")
	}
	if id == "" {
		id = uuid.NewString()
	}
	c.Set("requestId", id)
	c.Header("X-Request-ID", id)
	c.Next()
}

func (s *Server) accessLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	status := c.Writer.Status()
	args := []any{
		"request_id", c.GetString("requestId"),
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", status,
		"duration_ms", time.Since(start).Milliseconds(),
	}
	switch {
	case status >= 500:
		s.log.Error("http request", args...)
	case status >= 400:
		s.log.Warn("http request", args...)
	default:
		s.log.Debug("http request", args...)
	}
}

func (s *Server) err(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":      code,
			"message":   msg,
			"requestId": c.GetString("requestId"),
		},
	})
}

// fail maps usecase error kinds onto the HTTP error envelope.
func (s *Server) fail(c *gin.Context, err error) {
	var (
		bad      usecase.ErrBadRequest
		notFound usecase.ErrNotFound
		conflict usecase.ErrConflict
		unavail  *usecase.ErrUnavailable
	)
	switch {
	case errors.As(err, &bad):
		s.err(c, http.StatusBadRequest, "BadRequest", err.Error())
	case errors.As(err, &notFound):
		s.err(c, http.StatusNotFound, "NotFound", err.Error())
	case errors.As(err, &conflict):
		s.err(c, http.StatusConflict, "Conflict", err.Error())
	case errors.As(err, &unavail):
		s.err(c, http.StatusBadGateway, "Unavailable", err.Error())
	default:
		s.log.Error("request failed", "request_id", c.GetString("requestId"), "error", err)
		s.err(c, http.StatusInternalServerError, "ServerError", "internal error")
	}
}
