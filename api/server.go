package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"weathersub.app/config"
	apperrors "weathersub.app/errors"
	"weathersub.app/models"
	"weathersub.app/pkg/validation"
	"weathersub.app/service"
)

// Server represents the HTTP server and API handler
type Server struct {
	router              *gin.Engine
	config              *config.Config
	weatherService      service.WeatherServiceInterface
	subscriptionService service.SubscriptionServiceInterface
}

// NewServer creates and configures a new HTTP server
func NewServer(
	config *config.Config,
	weatherService service.WeatherServiceInterface,
	subscriptionService service.SubscriptionServiceInterface,
) *Server {
	registerValidators()

	server := &Server{
		router:              gin.Default(),
		config:              config,
		weatherService:      weatherService,
		subscriptionService: subscriptionService,
	}

	server.setupRoutes()
	return server
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("frequency", func(fl validator.FieldLevel) bool {
			return validation.IsValidFrequency(fl.Field().String())
		})
	}
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/weather", s.getWeather)
		api.POST("/subscribe", s.subscribe)
		api.GET("/confirm/:token", s.confirm)
		api.GET("/unsubscribe/:token", s.unsubscribe)
	}

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.serveStaticFiles()
}

// Start begins the HTTP server
func (s *Server) Start() error {
	return s.router.Run(fmt.Sprintf(":%d", s.config.Server.Port))
}

// GetRouter returns the router for testing purposes
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

func (s *Server) getWeather(c *gin.Context) {
	city := c.Query("city")
	if city == "" {
		s.handleError(c, apperrors.NewValidationError("city parameter is required"))
		return
	}

	weather, err := s.weatherService.GetWeather(city)
	if err != nil {
		slog.Error("weather lookup failed", "error", err, "city", city)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, weather)
}

func (s *Server) subscribe(c *gin.Context) {
	var req models.SubscriptionRequest
	if err := c.ShouldBind(&req); err != nil {
		slog.Debug("request binding error", "error", err)
		s.handleError(c, apperrors.NewValidationError("invalid request format"))
		return
	}

	subscription, err := s.subscriptionService.Subscribe(&req)
	if err != nil {
		slog.Error("subscription failed", "error", err, "email", req.Email, "city", req.City)
		s.handleError(c, err)
		return
	}

	slog.Info("subscription created", "email", subscription.Email, "city", subscription.City)
	c.JSON(http.StatusOK, gin.H{
		"message":      "Subscription successful. Confirmation email sent.",
		"subscription": subscription,
	})
}

func (s *Server) confirm(c *gin.Context) {
	token := c.Param("token")

	subscription, err := s.subscriptionService.Confirm(token)
	if err != nil {
		slog.Error("confirmation failed", "error", err)
		s.handleError(c, err)
		return
	}

	slog.Info("subscription confirmed", "email", subscription.Email, "city", subscription.City)
	c.JSON(http.StatusOK, gin.H{
		"message":      "Subscription confirmed successfully",
		"subscription": subscription,
	})
}

func (s *Server) unsubscribe(c *gin.Context) {
	token := c.Param("token")

	if err := s.subscriptionService.Unsubscribe(token); err != nil {
		slog.Error("unsubscribe failed", "error", err)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unsubscribed successfully"})
}

// handleError maps typed application errors to HTTP status codes
func (s *Server) handleError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	var statusCode int
	var message string

	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apperrors.ValidationError:
			statusCode = http.StatusBadRequest
			message = appErr.Message
		case apperrors.NotFoundError:
			statusCode = http.StatusNotFound
			message = appErr.Message
		case apperrors.AlreadyExistsError:
			statusCode = http.StatusConflict
			message = appErr.Message
		case apperrors.ExternalAPIError:
			statusCode = http.StatusServiceUnavailable
			message = "External service unavailable"
		case apperrors.EmailError:
			statusCode = http.StatusServiceUnavailable
			message = "Unable to send email"
		case apperrors.DatabaseError:
			statusCode = http.StatusInternalServerError
			message = "Internal server error"
		default:
			statusCode = http.StatusInternalServerError
			message = "Internal server error"
		}
	} else {
		statusCode = http.StatusInternalServerError
		message = "Internal server error"
	}

	c.JSON(statusCode, models.ErrorResponse{Error: message})
}
