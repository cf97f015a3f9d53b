package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"           // .env loader for local development
	"github.com/labstack/echo/v4"        // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/eventbud/ticketing/internal/config"
	"github.com/eventbud/ticketing/internal/database"
	"github.com/eventbud/ticketing/internal/handler"
	"github.com/eventbud/ticketing/internal/issuer"
	"github.com/eventbud/ticketing/internal/lifecycle"
	"github.com/eventbud/ticketing/internal/queue"
	"github.com/eventbud/ticketing/internal/repository"
	"github.com/eventbud/ticketing/internal/router"
	"github.com/eventbud/ticketing/migrations"
)

func main() {
	// Load .env when present; real deployments set env vars directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := migrations.Apply(db); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	// Redis backs the response cache and the rate limiter; both degrade
	// gracefully when the client is nil.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable: caching and rate limiting disabled")
	}

	// Repositories.
	users := repository.NewUserRepo(db)
	organizers := repository.NewOrganizerRepo(db)
	events := repository.NewEventRepo(db)
	tickets := repository.NewTicketRepo(db)

	// Core services.
	issuance := repository.NewIssuanceStore(db, events, users, tickets)
	issue := issuer.New(issuance)
	life := lifecycle.NewManager(tickets)

	// The lifecycle consumer applies expire/transfer commands published
	// by external schedulers and the transfer service.
	go func() {
		if err := queue.StartLifecycleConsumer(life); err != nil {
			log.Printf("lifecycle consumer stopped: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	router.RegisterRoutes(e, router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, users),
		Organizer: handler.NewOrganizerHandler(cfg, organizers, events),
		Event:     handler.NewEventHandler(events),
		Ticket:    handler.NewTicketHandler(issue, tickets, users),
		Scanner:   handler.NewScannerHandler(life),
		Staff:     handler.NewStaffHandler(events, users),
	}, rdb)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err)
	}
}
