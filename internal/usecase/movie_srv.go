package usecase

import (
	"context"

	"cinema-reserve/internal/data/entity"
	"cinema-reserve/internal/dto/response"
	"cinema-reserve/internal/gateway"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MovieService is a thin read-through to the catalog service. Movies are not
// stored here, schedules only hold the catalog id.
type MovieService interface {
	GetMovie(ctx context.Context, movieID string) (*response.MovieResponse, error)
}

type movieService struct {
	catalog gateway.CatalogClient
	log     *zap.Logger
}

func NewMovieService(catalog gateway.CatalogClient, log *zap.Logger) MovieService {
	return &movieService{
		catalog: catalog,
		log:     log.With(zap.String("service", "movie")),
	}
}

func (s *movieService) GetMovie(ctx context.Context, movieID string) (*response.MovieResponse, error) {
	id, err := uuid.Parse(movieID)
	if err != nil {
		return nil, &entity.ValidationError{Field: "movie_id", Reason: "not a valid UUID"}
	}

	movie, err := s.catalog.FindMovie(ctx, id)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, &entity.NotFoundError{Resource: "movie", ID: movieID}
	}

	return response.MovieToResponse(movie), nil
}
