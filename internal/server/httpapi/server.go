// Package httpapi is the public HTTP surface of the server. It translates
// HTTP requests into service calls and service errors into status codes;
// no business logic lives here.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dmitrijs2005/tickethub/internal/logging"
	"github.com/dmitrijs2005/tickethub/internal/server/models"
)

// AccountService is the account surface the HTTP layer depends on.
type AccountService interface {
	Register(ctx context.Context, email string, password string, fullName string) (*models.User, error)
	Login(ctx context.Context, email string, password string) (string, *models.User, error)
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, email string, fullName string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID string, oldPassword string, newPassword string) (bool, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token string, newPassword string) error
	SearchUsers(ctx context.Context, term string) ([]*models.User, error)
	DeleteUser(ctx context.Context, actingUserID string, targetUserID string) error
}

// EventService is the event surface the HTTP layer depends on.
type EventService interface {
	CreateEvent(ctx context.Context, userID string, input *models.EventInput) (*models.Event, error)
	ReadAgenda(ctx context.Context, userID string) ([]*models.Event, error)
	ReadSingleEvent(ctx context.Context, eventID string, userID string) (*models.Event, error)
	UpdateEvent(ctx context.Context, eventID string, userID string, input *models.EventInput) (*models.Event, error)
	DeleteEvent(ctx context.Context, eventID string, userID string) (bool, error)
}

type HTTPServer struct {
	address   string
	logger    logging.Logger
	accounts  AccountService
	events    EventService
	jwtSecret []byte
}

func NewHTTPServer(address string, l logging.Logger, as AccountService, es EventService, secretKey string) *HTTPServer {
	return &HTTPServer{
		address:   address,
		logger:    l.With("module", "http_server"),
		accounts:  as,
		events:    es,
		jwtSecret: []byte(secretKey),
	}
}

// routes builds the echo instance with all routes and middleware attached.
// Split out from Run so handler tests can exercise the full routing table.
func (s *HTTPServer) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	api := e.Group("/api")

	api.POST("/users/register", s.handleRegister)
	api.POST("/users/login", s.handleLogin)
	api.POST("/users/forgot-password", s.handleForgotPassword)
	api.POST("/users/reset-password", s.handleResetPassword)

	authed := api.Group("", s.requireAuth)
	authed.GET("/users/me", s.handleGetProfile)
	authed.PUT("/users/me", s.handleUpdateProfile)
	authed.PUT("/users/me/password", s.handleUpdatePassword)

	authed.POST("/events", s.handleCreateEvent)
	authed.GET("/events", s.handleReadAgenda)
	authed.GET("/events/:id", s.handleReadEvent)
	authed.PUT("/events/:id", s.handleUpdateEvent)
	authed.DELETE("/events/:id", s.handleDeleteEvent)

	admin := authed.Group("/admin", s.requireAdmin)
	admin.GET("/users", s.handleSearchUsers)
	admin.DELETE("/users/:id", s.handleDeleteUser)

	return e
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	e := s.routes()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := e.Start(s.address); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
