package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"parkspot/internal/api"
	"parkspot/internal/auth"
	"parkspot/internal/config"
	"parkspot/internal/repository"
	"parkspot/internal/service"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	clock := service.NewClock()
	gateway := service.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	userRepo := repository.NewUserRepository(db)
	spaceRepo := repository.NewSpaceRepository(db)
	slotRepo := repository.NewSlotRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, clock)
	spaceSvc := service.NewSpaceService(spaceRepo, slotRepo)
	bookingSvc := service.NewBookingService(bookingRepo, slotRepo, spaceRepo, gateway, clock, cfg.CheckInGrace, cfg.Currency)
	searchSvc := service.NewSearchService(spaceRepo, bookingRepo)
	statsSvc := service.NewStatsService(statsRepo, spaceRepo, clock)
	jobSvc := service.NewJobService(bookingRepo, clock, cfg.NoShowGrace, cfg.PendingTTL)

	authHandler := api.NewAuthHandler(authSvc)
	spaceHandler := api.NewSpaceHandler(spaceSvc, statsSvc)
	bookingHandler := api.NewBookingHandler(bookingSvc)
	searchHandler := api.NewSearchHandler(searchSvc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")

	// Authenticated endpoints
	authed := r.PathPrefix("/api").Subrouter()
	authed.Use(auth.Middleware(cfg.JWTSecret))

	authed.HandleFunc("/spaces", spaceHandler.Create).Methods("POST")
	authed.HandleFunc("/spaces", spaceHandler.List).Methods("GET")
	authed.HandleFunc("/spaces/search", searchHandler.Search).Methods("GET")
	authed.HandleFunc("/spaces/{id:[0-9]+}", spaceHandler.Get).Methods("GET")
	authed.HandleFunc("/spaces/{id:[0-9]+}", spaceHandler.Update).Methods("PUT")
	authed.HandleFunc("/spaces/{id:[0-9]+}/slots", spaceHandler.AddSlots).Methods("POST")
	authed.HandleFunc("/spaces/{id:[0-9]+}/stats", spaceHandler.SpaceStats).Methods("GET")
	authed.HandleFunc("/slots/{id:[0-9]+}/availability", bookingHandler.SlotAvailability).Methods("GET")
	authed.HandleFunc("/map", searchHandler.MapData).Methods("GET")

	authed.HandleFunc("/bookings", bookingHandler.Create).Methods("POST")
	authed.HandleFunc("/bookings", bookingHandler.List).Methods("GET")
	authed.HandleFunc("/bookings/{reference}", bookingHandler.Get).Methods("GET")
	authed.HandleFunc("/bookings/{reference}/pay", bookingHandler.Pay).Methods("POST")
	authed.HandleFunc("/bookings/{reference}/confirm", bookingHandler.Confirm).Methods("POST")
	authed.HandleFunc("/bookings/{reference}/checkin", bookingHandler.CheckIn).Methods("POST")
	authed.HandleFunc("/bookings/{reference}/checkout", bookingHandler.CheckOut).Methods("POST")
	authed.HandleFunc("/bookings/{reference}/cancel", bookingHandler.Cancel).Methods("POST")

	authed.HandleFunc("/dashboard/stats", spaceHandler.Dashboard).Methods("GET")

	c := cron.New()
	if _, err := c.AddFunc(cfg.SweepSpec, func() {
		if err := jobSvc.SweepNoShows(); err != nil {
			log.Printf("No-show sweep failed: %v", err)
		}
		if err := jobSvc.SweepStalePending(); err != nil {
			log.Printf("Stale pending sweep failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule sweep: %v", err)
	}
	c.Start()
	defer c.Stop()

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(r)

	log.Printf("Server running on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handlers.LoggingHandler(os.Stdout, corsHandler)))
}
