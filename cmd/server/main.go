package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/confera/registration-api/internal/config"
	"github.com/confera/registration-api/internal/database"
	"github.com/confera/registration-api/internal/handler"
	"github.com/confera/registration-api/internal/queue"
	"github.com/confera/registration-api/internal/repository"
	"github.com/confera/registration-api/internal/router"
	"github.com/confera/registration-api/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: response cache and rate limiting disabled")
	}

	// Background consumer appends confirmed reservations to logs/.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	enrollments := repository.NewEnrollmentRepo(db)
	tickets := repository.NewTicketRepo(db)
	activities := repository.NewActivityRepo(db)
	applications := repository.NewApplicationRepo(db)
	bookings := repository.NewBookingRepo(db)
	hotels := repository.NewHotelRepo(db)

	eligibility := service.NewEligibility(enrollments, tickets)
	admission := service.NewAdmission(eligibility, applications)
	roomBooking := service.NewRoomBooking(eligibility, bookings)

	e := echo.New()
	e.HideBanner = true

	router.Register(e, router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, users, sessions),
		Enrollments:  handler.NewEnrollmentHandler(enrollments, tickets),
		Activities:   handler.NewActivityHandler(activities),
		Applications: handler.NewApplicationHandler(admission, activities),
		Hotels:       handler.NewHotelHandler(hotels),
		Bookings:     handler.NewBookingHandler(roomBooking, hotels),
	}, cfg, eligibility, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
