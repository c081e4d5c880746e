// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bookingmock is an in-memory implementation of the remote
// booking service. It enforces the same rules the real service does
// (bearer authentication, admin-only event mutation, seat capacity) so
// the client stack can be exercised end to end: by tests through
// httptest, and by developers through the eventdesk-mock binary.
//
// Every request is recorded (method, path, request ID) so tests can
// assert that a locally rejected action never reached the network.
package bookingmock

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/bureau-foundation/eventdesk/lib/clock"
	"github.com/bureau-foundation/eventdesk/lib/schema/booking"
)

// DefaultTokenLifetime is how long an issued bearer token stays valid.
const DefaultTokenLifetime = 72 * time.Hour

// Config configures a Server. The zero value is usable.
type Config struct {
	// Secret signs bearer tokens. A random secret is generated when
	// empty, which invalidates tokens across restarts.
	Secret string

	// TokenLifetime defaults to DefaultTokenLifetime.
	TokenLifetime time.Duration

	// BcryptCost defaults to bcrypt.DefaultCost. Tests use
	// bcrypt.MinCost to keep account setup fast.
	BcryptCost int

	// Clock stamps bookings and tokens. Defaults to clock.Real().
	Clock clock.Clock

	// Logger receives one line per request. Defaults to discarding.
	Logger *slog.Logger
}

// RecordedRequest is one request observed by the server.
type RecordedRequest struct {
	Method    string
	Path      string
	RequestID string
}

// Server is the mock booking service. It implements http.Handler.
type Server struct {
	secret        []byte
	tokenLifetime time.Duration
	bcryptCost    int
	clock         clock.Clock
	logger        *slog.Logger
	router        chi.Router

	mutex        sync.Mutex
	users        map[string]*user
	usersByEmail map[string]string
	events       map[string]*booking.Event
	eventOrder   []string
	bookings     []*bookingRecord

	requestMutex sync.Mutex
	requests     []RecordedRequest
}

// New creates an empty Server.
func New(config Config) *Server {
	if config.Secret == "" {
		config.Secret = uuid.NewString() + uuid.NewString()
	}
	if config.TokenLifetime <= 0 {
		config.TokenLifetime = DefaultTokenLifetime
	}
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	server := &Server{
		secret:        []byte(config.Secret),
		tokenLifetime: config.TokenLifetime,
		bcryptCost:    config.BcryptCost,
		clock:         config.Clock,
		logger:        config.Logger,
		users:         make(map[string]*user),
		usersByEmail:  make(map[string]string),
		events:        make(map[string]*booking.Event),
	}
	server.router = server.routes()
	return server
}

func (server *Server) routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(server.recordRequest)
	router.Use(server.logRequest)

	router.Post("/auth/register", server.handleRegister)
	router.Post("/auth/login", server.handleLogin)

	router.Group(func(router chi.Router) {
		router.Use(server.requireToken)

		router.Route("/events", func(router chi.Router) {
			router.Get("/", server.handleListEvents)
			router.Get("/{id}", server.handleGetEvent)
			router.With(server.requireAdmin).Post("/", server.handleCreateEvent)
			router.With(server.requireAdmin).Put("/{id}", server.handleUpdateEvent)
			router.With(server.requireAdmin).Delete("/{id}", server.handleDeleteEvent)
		})

		router.Get("/bookings", server.handleListBookings)
		router.Post("/bookings", server.handleCreateBooking)
	})

	return router
}

// ServeHTTP implements http.Handler.
func (server *Server) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	server.router.ServeHTTP(writer, request)
}

// Requests returns a copy of every request received so far.
func (server *Server) Requests() []RecordedRequest {
	server.requestMutex.Lock()
	defer server.requestMutex.Unlock()
	return append([]RecordedRequest(nil), server.requests...)
}

// CountRequests counts recorded requests with the given method whose
// path starts with pathPrefix. An empty method matches any method.
func (server *Server) CountRequests(method, pathPrefix string) int {
	count := 0
	for _, recorded := range server.Requests() {
		if method != "" && recorded.Method != method {
			continue
		}
		if strings.HasPrefix(recorded.Path, pathPrefix) {
			count++
		}
	}
	return count
}

// ResetRequests clears the request log.
func (server *Server) ResetRequests() {
	server.requestMutex.Lock()
	defer server.requestMutex.Unlock()
	server.requests = nil
}

func (server *Server) recordRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		server.requestMutex.Lock()
		server.requests = append(server.requests, RecordedRequest{
			Method:    request.Method,
			Path:      request.URL.Path,
			RequestID: middleware.GetReqID(request.Context()),
		})
		server.requestMutex.Unlock()
		next.ServeHTTP(writer, request)
	})
}

func (server *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		start := server.clock.Now()
		wrapped := middleware.NewWrapResponseWriter(writer, request.ProtoMajor)
		next.ServeHTTP(wrapped, request)
		server.logger.Info("request",
			"method", request.Method,
			"path", request.URL.Path,
			"status", wrapped.Status(),
			"bytes", wrapped.BytesWritten(),
			"request_id", middleware.GetReqID(request.Context()),
			"duration", server.clock.Now().Sub(start),
		)
	})
}
