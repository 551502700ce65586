package wire

import (
	"cinema-reserve/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireMovie(r chi.Router, movieHandler *adaptor.MovieHandler) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/movies/{id} - Movie details from the catalog service
	r.Get("/api/movies/{id}", movieHandler.GetMovie)
}
