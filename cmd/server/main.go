package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv" // Optional .env loading for local development
	"github.com/labstack/echo/v4"

	"github.com/tabletrek/table-reservation/internal/booking"
	"github.com/tabletrek/table-reservation/internal/config"
	"github.com/tabletrek/table-reservation/internal/database"
	"github.com/tabletrek/table-reservation/internal/handler"
	"github.com/tabletrek/table-reservation/internal/lock"
	"github.com/tabletrek/table-reservation/internal/queue"
	"github.com/tabletrek/table-reservation/internal/repository"
	"github.com/tabletrek/table-reservation/internal/router"
	queue_publisher "github.com/tabletrek/table-reservation/internal/service"
)

func main() {
	// .env is a local convenience; in deployed environments the
	// variables come from the orchestrator and the file is absent.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the booking lease so that multiple instances
	// serialize admission for the same slot.  Without Redis we fall
	// back to a process-local store, which is only safe when a single
	// instance runs.
	var leaseStore lock.LeaseStore
	if rdb := config.NewRedisClient(); rdb != nil {
		leaseStore = lock.NewRedisStore(rdb)
		log.Println("booking lease: using redis store")
	} else {
		leaseStore = lock.NewMemoryStore()
		log.Println("booking lease: redis unavailable, using in-process store (single instance only)")
	}

	tableRepo := repository.NewTableRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	waitlistRepo := repository.NewWaitlistRepo(db)

	emitter := queue_publisher.NewEmitter()
	svc := booking.NewService(tableRepo, bookingRepo, lock.New(leaseStore), emitter, booking.Config{
		Policy:          booking.AdmissionPolicy(cfg.AdmissionPolicy),
		AllowOverbook:   cfg.AllowOverbook,
		LockTTL:         cfg.LockTTL,
		LockRetry:       cfg.LockRetry,
		LockMaxAttempts: cfg.LockMaxAttempts,
	})

	// The consumer drains booking.events into the audit log.  It runs
	// its own reconnect loop, so a broker outage never takes the API
	// down with it.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	availabilityHandler := handler.NewAvailabilityHandler(svc)
	bookingHandler := handler.NewBookingHandler(svc, bookingRepo, tableRepo)
	ownerHandler := handler.NewOwnerBookingHandler(svc, bookingRepo, tableRepo)
	waitlistHandler := handler.NewWaitlistHandler(waitlistRepo, tableRepo, emitter)

	e := echo.New()
	router.RegisterRoutes(e, availabilityHandler)
	router.RegisterCustomer(e, bookingHandler, waitlistHandler, cfg.JWTSecret)
	router.RegisterOwner(e, ownerHandler, waitlistHandler, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, admission=%s)", addr, cfg.Env, cfg.AdmissionPolicy)

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err)
	}
}
