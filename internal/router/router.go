package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"cookonomics/internal/config"
	"cookonomics/internal/handler"
	"cookonomics/internal/service"
	"cookonomics/internal/validation"
)

const bodyLimit = "1M"

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Auth   *handler.AuthHandler
	Users  *handler.UserHandler
	Items  *handler.ItemHandler
	Health *handler.HealthHandler
}

// Register wires middleware and routes.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log zerolog.Logger,
	authService service.AuthService,
	h Handlers,
) {
	e.HideBanner = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(log)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestMetrics())
	e.Use(requestLogger(log))
	e.Use(middleware.BodyLimit(bodyLimit))
	if origins := cfg.AllowedOrigins(); len(origins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     origins,
			AllowCredentials: true,
			AllowMethods: []string{
				http.MethodGet, http.MethodPost, http.MethodPut,
				http.MethodDelete, http.MethodOptions,
			},
			AllowHeaders: []string{
				echo.HeaderOrigin, echo.HeaderContentType,
				echo.HeaderAccept, echo.HeaderAuthorization,
			},
		}))
	}

	e.GET("/", h.Health.Root)
	e.GET("/health", h.Health.Health)
	e.GET("/health/ready", h.Health.Ready)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/docs/*", echoSwagger.WrapHandler)

	api := e.Group(cfg.APIPrefix)

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/login/json", h.Auth.LoginJSON)

	// Secured routes (require a bearer token resolving to an active user)
	secured := api.Group("", bearerAuth(authService))

	secured.GET("/auth/me", h.Auth.Me)
	secured.POST("/auth/refresh", h.Auth.Refresh)

	secured.POST("/items", h.Items.CreateItem)
	secured.GET("/items", h.Items.ListItems)
	secured.GET("/items/:id", h.Items.GetItem)
	secured.PUT("/items/:id", h.Items.UpdateItem)
	secured.DELETE("/items/:id", h.Items.DeleteItem)

	secured.GET("/users", h.Users.ListUsers)
	secured.GET("/users/:id", h.Users.GetUser)
	secured.PUT("/users/:id", h.Users.UpdateUser)
	secured.DELETE("/users/:id", h.Users.DeleteUser)
}
