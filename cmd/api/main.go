package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"golfclub/internal/config"
	"golfclub/internal/database"
	"golfclub/internal/middleware"
	"golfclub/internal/modules/auth"
	"golfclub/internal/modules/availability"
	"golfclub/internal/modules/booking"
	"golfclub/internal/modules/caddy"
	"golfclub/internal/modules/checkout"
	"golfclub/internal/modules/draft"
	"golfclub/internal/modules/pricing"
	jwtsvc "golfclub/internal/pkg/jwt"
	"golfclub/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadRuntimeConfig()
	if err != nil {
		log.Fatal(err)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	caddyRepo := repository.NewCaddyRepository(db)
	draftRepo := repository.NewDraftRepository(db)
	holidayRepo := repository.NewHolidayRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	holds := caddy.NewHoldManager(cfg.HoldTTL)
	holds.StartSweeper(ctx, cfg.HoldSweepInterval)

	calendar := pricing.NewClubCalendar(holidayRepo)
	pricer := pricing.NewCalculator(calendar)

	availabilityService := availability.NewService(reservationRepo)
	availabilityHandler := availability.NewHandler(availabilityService)

	caddyService := caddy.NewService(caddyRepo, holds, cfg.CaddyRefreshInterval)
	caddyHandler := caddy.NewHandler(caddyService)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	draftService := draft.NewService(draftRepo, availabilityService, holds, pricer)
	draftHandler := draft.NewHandler(draftService)

	gateway := checkout.NewStripeGateway(
		cfg.StripeSecretKey,
		cfg.CheckoutSuccessURL,
		cfg.CheckoutCancelURL,
		cfg.CheckoutBaseURL,
	)
	checkoutService := checkout.NewService(
		gateway,
		reservationRepo,
		draftRepo,
		availabilityService,
		holds,
		pricer,
		cfg.ReconcileMaxAttempts,
		cfg.ReconcileDelay,
	)
	checkoutHandler := checkout.NewHandler(checkoutService, cfg.StripeWebhookSecret)

	bookingService := booking.NewService(reservationRepo)
	bookingHandler := booking.NewHandler(bookingService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		availabilityHandler.RegisterRoutes(v1)
		checkoutHandler.RegisterWebhook(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			caddyHandler.RegisterRoutes(protected)
			draftHandler.RegisterRoutes(protected)
			checkoutHandler.RegisterRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
		}
	}

	addr := ":" + envOrDefault("PORT", "8080")
	log.Printf("level=info msg=starting api addr=%s env=%s", addr, cfg.AppEnv)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}

func envOrDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}
