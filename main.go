package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arcadehub/config"
	appCron "arcadehub/cron"
	"arcadehub/database"
	catalogRepo "arcadehub/database/repository/catalog"
	reservationRepo "arcadehub/database/repository/reservation"
	scheduleEventRepo "arcadehub/database/repository/scheduleevent"
	timeslotRepo "arcadehub/database/repository/timeslot"
	"arcadehub/handlers"
	"arcadehub/routes"
	"arcadehub/services/events"
	"arcadehub/services/rental"
	"arcadehub/services/schedule"
	"arcadehub/services/timeslot"
	"arcadehub/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitLockClient()
	utils.InitEventClient()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	// repositories.
	reservations := reservationRepo.NewMongoReservationRepo()
	catalog := catalogRepo.NewMongoCatalogRepo()
	templates := timeslotRepo.NewMongoTemplateRepo()
	schedules := timeslotRepo.NewMongoScheduleRepo()
	scheduleEvents := scheduleEventRepo.NewMongoScheduleEventRepo()

	// services.
	sink := events.NewAsynqEventSink()
	defer sink.Close()

	checker := rental.NewAvailabilityChecker(
		reservations,
		logger,
		time.Duration(config.AppConfig.AvailabilityCacheTTLSeconds)*time.Second,
		config.AppConfig.AvailabilityCacheSize,
		nil,
	)
	guard := rental.NewLimitGuard(reservations, catalog, logger)
	pricer := rental.NewPricingResolver()
	lock := rental.NewSlotLock(utils.GetLockClient(),
		time.Duration(config.AppConfig.ReservationLockTTLSeconds)*time.Second)
	deriver := schedule.NewDeriver(reservations, scheduleEvents, sink, logger)

	rentalService := &rental.DefaultRentalService{
		Reservations: reservations,
		Catalog:      catalog,
		Schedules:    schedules,
		Templates:    templates,
		Checker:      checker,
		Guard:        guard,
		Pricer:       pricer,
		Lock:         lock,
		Deriver:      deriver,
		Sink:         sink,
		Logger:       logger,
	}
	timeslotService := timeslot.NewTimeSlotService(templates, schedules, logger)

	handlerBundle := &handlers.HandlerBundle{
		Rental:    rentalService,
		Checker:   checker,
		Guard:     guard,
		TimeSlots: timeslotService,
		Schedules: deriver,
		Catalog:   catalog,
	}
	routes.RegisterRoutes(router, handlerBundle)

	// background workers.
	appCron.InitEventWorker()
	reconciler := appCron.StartScheduleReconciler(deriver)
	defer reconciler.Stop()

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetLockClient(), utils.GetEventClient()},
		database.MongoClient,
	)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
