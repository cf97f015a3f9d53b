package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/eventbud/ticketing/internal/config"
	"github.com/eventbud/ticketing/internal/handler"
	"github.com/eventbud/ticketing/internal/middleware"
)

// Handlers collects the handler groups the router wires up.
type Handlers struct {
	Auth      *handler.AuthHandler
	Organizer *handler.OrganizerHandler
	Event     *handler.EventHandler
	Ticket    *handler.TicketHandler
	Scanner   *handler.ScannerHandler
	Staff     *handler.StaffHandler
}

// RegisterRoutes registers all application routes on the provided Echo
// instance. The public browse endpoints go through the Redis response
// cache; purchase and scanner endpoints go through the rate limiter so
// a hot on-sale cannot starve the rest of the API.
func RegisterRoutes(e *echo.Echo, h Handlers, rdb *redis.Client) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	// Public event browsing, cached.
	cacheCfg := config.LoadCacheConfig()
	cached := e.Group("", middleware.NewRedisCache(cacheCfg, rdb))
	cached.GET("/event", h.Event.ListEvents)
	cached.GET("/event/:eventID", h.Event.GetEvent)

	// Attendee and organizer accounts.
	e.POST("/signup", h.Auth.Signup)
	e.POST("/signin", h.Auth.Signin)
	e.POST("/eo_signup", h.Organizer.Signup)
	e.POST("/eo_signin", h.Organizer.Signin)

	// Organizer event management and dashboard.
	e.POST("/eo_create_event/:organizerID", h.Organizer.CreateEvent)
	e.GET("/eo_event/:organizerID", h.Organizer.Dashboard)
	e.PUT("/eo_event/:eventID", h.Organizer.UpdateEvent)
	e.DELETE("/eo_event/:eventID", h.Organizer.DeleteEvent)

	// Purchase and gate scanning, rate limited per caller.
	rlCfg := config.LoadRateLimitConfig()
	limited := e.Group("", middleware.NewTokenBucket(rlCfg, rdb))
	limited.POST("/post_ticket", h.Ticket.PostTicket)
	limited.POST("/scanner/:eventID/:ticketID", h.Scanner.Scan)

	// Ticket wallet and staff management.
	e.GET("/user_ticket/:userID", h.Ticket.ListUserTickets)
	e.POST("/staff/:eventID/:userID", h.Staff.AddStaff)
	e.DELETE("/staff/:eventID/:userID", h.Staff.RemoveStaff)
	e.GET("/staff_schedule/:userID", h.Staff.Schedule)
}
