package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"comply-core/internal/advisory"
	"comply-core/pkg/db"
)

// Server wires HTTP endpoints around the store and the advisory client.
type Server struct {
	Router    *gin.Engine
	DB        *db.Database
	Advisory  *advisory.Client
	JWTSecret string
	TokenTTL  time.Duration
}

func NewServer(database *db.Database, advisoryClient *advisory.Client, jwtSecret string, tokenTTL time.Duration) *Server {
	r := gin.New()

	// Middleware stack (order matters!)
	r.Use(gin.Recovery())                      // Panic recovery (first)
	r.Use(RequestIDMiddleware())               // Request ID tracking
	r.Use(RequestLogger())                     // Request logging (after ID is set)
	r.Use(RateLimitMiddleware())               // Rate limiting
	r.Use(TimeoutMiddleware(30 * time.Second)) // Request timeout (30s)
	r.Use(CORSMiddleware())                    // CORS (last before routes)

	s := &Server{
		Router:    r,
		DB:        database,
		Advisory:  advisoryClient,
		JWTSecret: jwtSecret,
		TokenTTL:  tokenTTL,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.GET("/health", s.health)

	// Auth endpoints (no auth required)
	s.Router.POST("/token", s.login)
	s.Router.POST("/register", s.register)

	// Protected API
	api := s.Router.Group("/api")
	api.Use(AuthMiddleware(s.JWTSecret, s.DB))
	{
		api.GET("/alerts", s.getAlerts)
		api.GET("/alerts/summary", s.getAlertSummary)
		api.PUT("/alerts/:id", s.updateAlertStatus)

		api.POST("/trades", s.createTrade)
		api.POST("/analyze", s.analyzeTrade)

		api.GET("/rules", s.getRules)
		api.POST("/rules", s.createRule)
		api.GET("/rules/:id", s.getRule)
		api.PUT("/rules/:id", s.updateRule)
		api.DELETE("/rules/:id", s.deleteRule)

		api.GET("/watchlist", s.getWatchlist)
		api.POST("/watchlist", s.addToWatchlist)

		api.GET("/reports", s.getReports)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) Start(addr string) error {
	return s.Router.Run(addr)
}
