package services

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"github.com/edulens/insight/repository"
	ws "github.com/edulens/insight/websocket"
)

// Server holds all server dependencies
type Server struct {
	config              *Config
	gormDB              *repository.GORMRepository
	analyticsRepo       *repository.AnalyticsRepository
	cache               *CacheService
	geminiService       *GeminiService
	analyzer            *AnalyzerService
	authService         *AuthService
	authEndpoints       *AuthEndpoints
	assignmentEndpoints *AssignmentEndpoints
	analysisEndpoints   *AnalysisEndpoints
	feedbackEndpoints   *FeedbackEndpoints
	exportEndpoints     *ExportEndpoints
	wsHub               *ws.Hub
	upgrader            websocket.Upgrader
}

// NewServer creates a new server instance
func NewServer(config *Config) *Server {
	return &Server{
		config: config,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return CheckOrigin(r, config.WebSocket.AllowedOrigins)
			},
		},
	}
}

// SetDatabase sets the database connection
func (s *Server) SetDatabase(db *repository.GORMRepository, rawDB *gorm.DB) {
	s.gormDB = db
	s.analyticsRepo = repository.NewAnalyticsRepository(rawDB)
}

// SetCache sets the analysis cache
func (s *Server) SetCache(cache *CacheService) {
	s.cache = cache
}

// InitializeServices initializes all server services
func (s *Server) InitializeServices() error {
	if s.config.AI.GeminiAPIKey != "" {
		s.geminiService = NewGeminiService(s.config.AI.GeminiAPIKey)
		slog.Info("Gemini service initialized")
	} else {
		slog.Info("Gemini API key not configured, feedback narratives use heuristic templates")
	}

	s.wsHub = ws.NewHub()
	go s.wsHub.Run()

	if s.gormDB != nil {
		s.analyzer = NewAnalyzerService(s.gormDB, s.analyticsRepo, s.geminiService, s.cache, s.wsHub)
		slog.Info("Analyzer service initialized")
	}

	if s.config.JWT.Secret != "" && s.gormDB != nil {
		s.authService = NewAuthService(s.gormDB, s.config.JWT.Secret)
		s.authEndpoints = NewAuthEndpoints(s.authService)
		slog.Info("Authentication service initialized")
	}

	if s.gormDB != nil && s.analyzer != nil {
		s.assignmentEndpoints = NewAssignmentEndpoints(s.gormDB, s.analyzer, s.config.Upload.MaxBytes)
		s.analysisEndpoints = NewAnalysisEndpoints(s.gormDB, s.analyticsRepo, s.cache)
		s.feedbackEndpoints = NewFeedbackEndpoints(s.gormDB, s.analyticsRepo, s.cache)
		s.exportEndpoints = NewExportEndpoints(s.gormDB, s.analyticsRepo)
	}

	return nil
}

// SetupRoutes configures all HTTP routes
func (s *Server) SetupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health endpoint
	r.Get("/health", s.healthHandler)

	// API v1 route group
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", s.apiV1Handler)

		// WebSocket route (protected)
		if s.authService != nil {
			r.Group(func(r chi.Router) {
				r.Use(s.authService.Middleware)
				r.Get("/ws", s.websocketHandlerFunc)
			})
		}

		// Authentication routes
		if s.authEndpoints != nil {
			r.Route("/auth", func(r chi.Router) {
				// Public auth routes (no middleware)
				r.Post("/login", s.authEndpoints.LoginHandler)
				r.Post("/signup", s.authEndpoints.SignupHandler)
				r.Post("/refresh", s.authEndpoints.RefreshHandler)

				// Protected auth routes (with middleware)
				r.Group(func(r chi.Router) {
					r.Use(s.authService.Middleware)
					r.Post("/logout", s.authEndpoints.LogoutHandler)
					r.Get("/me", s.authEndpoints.MeHandler)
				})
			})
		}

		// Assignment, analysis, feedback and export routes (protected)
		if s.assignmentEndpoints != nil && s.authService != nil {
			r.Group(func(r chi.Router) {
				r.Use(s.authService.Middleware)
				s.assignmentEndpoints.RegisterRoutes(r)
				s.analysisEndpoints.RegisterRoutes(r)
				s.feedbackEndpoints.RegisterRoutes(r)
				s.exportEndpoints.RegisterRoutes(r)
			})
		}
	})

	return r
}

// Start starts the HTTP server
func (s *Server) Start() {
	port := s.config.Server.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: s.SetupRoutes(),
	}

	// Graceful shutdown
	go func() {
		slog.Info("Starting server", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exited")
}

// CheckOrigin validates the origin of WebSocket connections to prevent CSRF attacks
func CheckOrigin(r *http.Request, allowedOriginsStr string) bool {
	origin := r.Header.Get("Origin")

	// If no allowed origins are configured, deny all requests for security
	if allowedOriginsStr == "" {
		slog.Warn("WebSocket connection rejected: no allowed origins configured", "origin", origin)
		return false
	}

	// Parse allowed origins (comma-separated list)
	allowedOrigins := strings.Split(allowedOriginsStr, ",")
	for i := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(allowedOrigins[i])
	}

	for _, allowed := range allowedOrigins {
		if allowed == origin {
			return true
		}
	}

	slog.Warn("WebSocket connection rejected: origin not allowed", "origin", origin, "allowed_origins", allowedOriginsStr)
	return false
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbStatus := "not configured"
	cacheStatus := "not configured"

	if s.gormDB != nil {
		if sqlDB, err := s.gormDB.DB().DB(); err == nil {
			if err := sqlDB.Ping(); err != nil {
				dbStatus = "down"
				status = "degraded"
			} else {
				dbStatus = "up"
			}
		} else {
			dbStatus = "down"
			status = "degraded"
		}
	}

	if s.cache != nil {
		if err := s.cache.Ping(r.Context()); err != nil {
			cacheStatus = "down"
			status = "degraded"
		} else {
			cacheStatus = "up"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"` + status + `","database":"` + dbStatus + `","cache":"` + cacheStatus + `"}`))
}

func (s *Server) apiV1Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message":"API v1","version":"1.0.0"}`))
}

func (s *Server) websocketHandlerFunc(w http.ResponseWriter, r *http.Request) {
	teacher, ok := TeacherFromContext(r.Context())
	if !ok {
		slog.Error("WebSocket connection failed - teacher not found in context")
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	// Optional subscription to a single assignment's progress events
	assignmentID := r.URL.Query().Get("assignment_id")

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "error", err)
		return
	}

	slog.Info("WebSocket connection established", "teacher_id", teacher.ID, "assignment_id", assignmentID)

	client := s.wsHub.RegisterClient(conn, teacher.ID, assignmentID)

	go client.ReadPump()
	go client.WritePump()
}
