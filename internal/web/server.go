package web

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/saltyorg/qaforum/internal/config"
	"github.com/saltyorg/qaforum/internal/database"
	"github.com/saltyorg/qaforum/internal/metrics"
	"github.com/saltyorg/qaforum/internal/web/handlers"
	"github.com/saltyorg/qaforum/internal/web/middleware"
	"github.com/saltyorg/qaforum/internal/web/sse"
)

// Server represents the API server
type Server struct {
	db         *database.DB
	addr       string
	allowedNet *net.IPNet
	timeouts   config.TimeoutConfig
	router     *chi.Mux
	events     *sse.Broker
	handlers   *handlers.Handlers
}

// NewServer creates a new API server
func NewServer(db *database.DB, addr string, allowedNet *net.IPNet, timeouts config.TimeoutConfig, version string) *Server {
	events := sse.NewBroker()
	s := &Server{
		db:         db,
		addr:       addr,
		allowedNet: allowedNet,
		timeouts:   timeouts,
		router:     chi.NewRouter(),
		events:     events,
		handlers:   handlers.New(db, events, version),
	}

	s.setupRoutes()

	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Events returns the activity broker that write handlers publish to
func (s *Server) Events() *sse.Broker {
	return s.events
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	r := s.router

	r.Use(chimiddleware.RequestID)
	// AllowSubnet must come BEFORE RealIP so we check the actual connection source
	r.Use(middleware.AllowSubnet(s.allowedNet))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(metrics.Middleware)
	r.Use(chimiddleware.Recoverer)
	// Timeout is applied per group so the activity stream can stay open

	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/events", s.events.ServeHTTP)

		r.Group(func(r chi.Router) {
			if s.timeouts.Write > 0 {
				r.Use(chimiddleware.Timeout(s.timeouts.Write))
			}
			s.apiRoutes(r)
		})
	})
}

// apiRoutes registers the request/response endpoints
func (s *Server) apiRoutes(r chi.Router) {
	h := s.handlers

	r.Get("/health", h.Health)

	r.Route("/questions", func(r chi.Router) {
		r.Post("/", h.CreateQuestion)
		r.Get("/most-liked", h.MostLikedQuestions)
		r.Get("/most-followed", h.MostFollowedQuestions)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetQuestion)
			r.Put("/", h.UpdateQuestion)
			r.Get("/author", h.QuestionAuthor)
			r.Get("/replies", h.QuestionReplies)
			r.Get("/followers", h.QuestionFollowers)
			r.Get("/likers", h.QuestionLikers)
			r.Get("/stats", h.QuestionStats)
			r.Post("/likes", h.LikeQuestion)
			r.Post("/follows", h.FollowQuestion)
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.FindUsers)
		r.Post("/", h.CreateUser)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetUser)
			r.Put("/", h.UpdateUser)
			r.Get("/questions", h.UserQuestions)
			r.Get("/replies", h.UserReplies)
			r.Get("/followed-questions", h.UserFollowedQuestions)
			r.Get("/liked-questions", h.UserLikedQuestions)
			r.Get("/karma", h.UserKarma)
		})
	})

	r.Route("/replies", func(r chi.Router) {
		r.Post("/", h.CreateReply)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetReply)
			r.Put("/", h.UpdateReply)
			r.Get("/parent", h.ReplyParent)
			r.Get("/children", h.ReplyChildren)
		})
	})
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:        s.addr,
		Handler:     s.router,
		ReadTimeout: s.timeouts.Read,
		// WriteTimeout disabled (0) so the activity stream can stay open;
		// API requests are bounded by the Timeout middleware
		WriteTimeout: 0,
		IdleTimeout:  s.timeouts.Idle,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.addr).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down HTTP server")
		// Close activity streams first or Shutdown waits on them
		s.events.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeouts.Shutdown)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errChan:
		s.events.Stop()
		return err
	}
}
