package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CampusHub-F25/event-service/internal/config"
	"github.com/CampusHub-F25/event-service/internal/models"
	"github.com/CampusHub-F25/event-service/internal/services"
	"github.com/CampusHub-F25/event-service/internal/utils"
	"github.com/CampusHub-F25/event-service/internal/validator"
)

// HandlerManager wires every handler to the router.
type HandlerManager struct {
	authHandler         *AuthHandler
	eventHandler        *EventHandler
	registrationHandler *RegistrationHandler
	userHandler         *UserHandler
	categoryHandler     *CategoryHandler

	serviceManager services.ServiceManager
	jwtConfig      config.JWTConfig
}

func NewHandlerManager(sm services.ServiceManager, v *validator.Validator, logger utils.Logger, jwtConfig config.JWTConfig) *HandlerManager {
	return &HandlerManager{
		authHandler:         NewAuthHandler(sm.User(), logger),
		eventHandler:        NewEventHandler(sm.Event(), v, logger),
		registrationHandler: NewRegistrationHandler(sm.Registration(), sm.Export(), v, logger),
		userHandler:         NewUserHandler(sm.User(), sm.Registration(), v, logger),
		categoryHandler:     NewCategoryHandler(sm.Category(), v, logger),
		serviceManager:      sm,
		jwtConfig:           jwtConfig,
	}
}

// SetupRoutes registers all API routes on the router.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthCheck)

	api := router.Group("/api/v1")

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/signup", hm.authHandler.Signup)
		auth.POST("/login", hm.authHandler.Login)
	}

	api.GET("/events", hm.eventHandler.ListEvents)
	api.GET("/events/:id", hm.eventHandler.GetEvent)
	api.GET("/categories", hm.categoryHandler.ListCategories)
	api.GET("/categories/:id", hm.categoryHandler.GetCategory)

	// Authenticated routes
	authed := api.Group("")
	authed.Use(AuthMiddleware(hm.jwtConfig))
	{
		authed.GET("/auth/me", hm.authHandler.Me)

		// Event management
		organizer := authed.Group("")
		organizer.Use(RequireRole(models.RoleOrganizer))
		{
			organizer.POST("/events", hm.eventHandler.CreateEvent)
			organizer.PUT("/events/:id", hm.eventHandler.UpdateEvent)
			organizer.DELETE("/events/:id", hm.eventHandler.DeleteEvent)
			organizer.POST("/events/:id/publish", hm.eventHandler.PublishEvent)
			organizer.GET("/organizer/events", hm.eventHandler.ListMyEvents)
			organizer.GET("/events/:id/registrations", hm.registrationHandler.ListEventRegistrations)
			organizer.GET("/events/:id/registrations/export", hm.registrationHandler.ExportEventRegistrations)
			organizer.PUT("/registrations/:id/status", hm.registrationHandler.UpdateStatus)
			organizer.PUT("/registrations/:id/attendance", hm.registrationHandler.MarkAttendance)
		}

		// Registration lifecycle
		authed.POST("/events/:id/register", hm.registrationHandler.Register)
		authed.GET("/registrations", hm.registrationHandler.ListMyRegistrations)
		authed.GET("/registrations/:id", hm.registrationHandler.GetRegistration)
		authed.POST("/registrations/:id/cancel", hm.registrationHandler.CancelRegistration)
		authed.POST("/registrations/:id/feedback", hm.registrationHandler.SubmitFeedback)

		// Account management
		authed.GET("/users/:id", hm.userHandler.GetUser)
		authed.PUT("/users/:id", hm.userHandler.UpdateUser)
		authed.GET("/users/:id/registrations", hm.userHandler.ListUserRegistrations)

		admin := authed.Group("")
		admin.Use(RequireRole(models.RoleAdmin))
		{
			admin.GET("/users", hm.userHandler.ListUsers)
			admin.DELETE("/users/:id", hm.userHandler.DeleteUser)
			admin.POST("/categories", hm.categoryHandler.CreateCategory)
			admin.PUT("/categories/:id", hm.categoryHandler.UpdateCategory)
			admin.DELETE("/categories/:id", hm.categoryHandler.DeleteCategory)
		}
	}
}

func (hm *HandlerManager) healthCheck(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"error":     err.Error(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "event-service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
