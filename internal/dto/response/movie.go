package response

import "cinema-reserve/internal/gateway"

type MovieResponse struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	PosterURL      string `json:"poster_url,omitempty"`
	Genre          string `json:"genre,omitempty"`
	RuntimeMinutes int    `json:"runtime_minutes,omitempty"`
}

func MovieToResponse(movie *gateway.Movie) *MovieResponse {
	return &MovieResponse{
		ID:             movie.ID.String(),
		Title:          movie.Title,
		PosterURL:      movie.PosterURL,
		Genre:          movie.Genre,
		RuntimeMinutes: movie.RuntimeMinutes,
	}
}
