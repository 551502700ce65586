// internal/wire/wire.go
package wire

import (
	"net/http"

	"cinema-reserve/internal/adaptor"
	"cinema-reserve/internal/data/repository"
	"cinema-reserve/internal/gateway"
	"cinema-reserve/internal/usecase"
	"cinema-reserve/pkg/metrics"
	"cinema-reserve/pkg/middleware"
	"cinema-reserve/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App holds the wired router
type App struct {
	Router *chi.Mux
}

// Wiring initializes all dependencies
func Wiring(
	repo *repository.Repository,
	bank gateway.BankClient,
	catalog gateway.CatalogClient,
	tokens gateway.TokenValidator,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, bank, catalog, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, tokens, logger)

	return &App{
		Router: router,
	}
}

// setupRouter configures the Chi router
func setupRouter(handler *adaptor.Handler, tokens gateway.TokenValidator, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())
	r.Use(metrics.Middleware)

	// Apply routes
	wireMovie(r, handler.Movie)
	wireSchedule(r, handler.Schedule, tokens, logger)
	wireRoom(r, handler.Room, tokens, logger)
	wireBooking(r, handler.Booking, tokens, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus scrape endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}
