package usecase

import (
	"cinema-reserve/internal/data/repository"
	"cinema-reserve/internal/gateway"
	"cinema-reserve/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Room     RoomService
	Schedule ScheduleService
	Movie    MovieService
	Booking  BookingService
	Payment  PaymentService
}

func NewService(repo *repository.Repository, bank gateway.BankClient, catalog gateway.CatalogClient, config *utils.Config, log *zap.Logger) *Service {
	pricing := NewPricingEngine(config.Pricing.VIPMultiplier)

	// Booking, payment and schedule admin share one lock set: confirm,
	// release, expire and overlay rebuilds must exclude reserve for the
	// same schedule.
	seatLocks := utils.NewKeyedMutex()

	return &Service{
		Room:     NewRoomService(repo, log),
		Schedule: NewScheduleService(repo, catalog, seatLocks, config, log),
		Movie:    NewMovieService(catalog, log),
		Booking:  NewBookingService(repo, pricing, seatLocks, config, log),
		Payment:  NewPaymentService(repo, bank, seatLocks, config, log),
	}
}
