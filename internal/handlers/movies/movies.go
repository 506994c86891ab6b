package movies

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/npiscopo/cinerent/internal/domain"
	"github.com/npiscopo/cinerent/internal/dto"
	"github.com/npiscopo/cinerent/internal/service/catalogservice"
	"github.com/npiscopo/cinerent/pkg/utils"
)

type Service interface {
	List(ctx context.Context) ([]domain.Movie, error)
	Get(ctx context.Context, id int) (*domain.Movie, error)
	Create(ctx context.Context, movie *domain.Movie) (*domain.Movie, error)
	Update(ctx context.Context, movie *domain.Movie) (*domain.Movie, error)
	Delete(ctx context.Context, id int) error
	Exists(ctx context.Context, id int) (bool, error)
	Price(ctx context.Context, id int) (decimal.Decimal, error)
}

type MoviesHandler struct {
	catalogService Service
}

func New(catalogService Service) *MoviesHandler {
	return &MoviesHandler{
		catalogService: catalogService,
	}
}

// List godoc
//
//	@Summary		List movies
//	@Description	Get the full movie catalog
//	@Tags			Movies
//	@Produce		json
//	@Success		200	{array}		dto.MovieResponseDTO
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/movies [get]
func (h *MoviesHandler) List(w http.ResponseWriter, r *http.Request) {
	movies, err := h.catalogService.List(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch movies")
		return
	}
	response := make([]dto.MovieResponseDTO, len(movies))
	for i, movie := range movies {
		response[i] = toResponse(&movie)
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// Get godoc
//
//	@Summary		Get movie by ID
//	@Tags			Movies
//	@Produce		json
//	@Param			id	path		int	true	"Movie ID"
//	@Success		200	{object}	dto.MovieResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid movie ID"
//	@Failure		404	{object}	utils.Response	"Movie not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/movies/{id} [get]
func (h *MoviesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}
	movie, err := h.catalogService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalogservice.ErrMovieNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Movie not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch movie")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toResponse(movie))
}

// Create godoc
//
//	@Summary		Add movie
//	@Tags			Movies
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.MovieRequestDTO	true	"Movie payload"
//	@Success		201		{object}	dto.MovieResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/movies [post]
func (h *MoviesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.MovieRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Title is required")
		return
	}
	movie, err := h.catalogService.Create(r.Context(), fromRequest(0, &req))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create movie")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toResponse(movie))
}

// Update godoc
//
//	@Summary		Update movie
//	@Tags			Movies
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int					true	"Movie ID"
//	@Param			request	body		dto.MovieRequestDTO	true	"Movie payload"
//	@Success		200		{object}	dto.MovieResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		404		{object}	utils.Response	"Movie not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/movies/{id} [put]
func (h *MoviesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}
	var req dto.MovieRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	movie, err := h.catalogService.Update(r.Context(), fromRequest(id, &req))
	if err != nil {
		if errors.Is(err, catalogservice.ErrMovieNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Movie not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update movie")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toResponse(movie))
}

// Delete godoc
//
//	@Summary		Delete movie
//	@Description	Remove a movie from the catalog unless it has active rentals
//	@Tags			Movies
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int	true	"Movie ID"
//	@Success		200	{object}	utils.Response
//	@Failure		400	{object}	utils.Response	"Invalid movie ID"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		404	{object}	utils.Response	"Movie not found"
//	@Failure		409	{object}	utils.Response	"Movie has active rentals"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/movies/{id} [delete]
func (h *MoviesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}
	if err := h.catalogService.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, catalogservice.ErrMovieNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "Movie not found")
		case errors.Is(err, catalogservice.ErrMovieHasRentals):
			utils.RespondWithError(w, http.StatusConflict, "Movie has active rentals")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete movie")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Movie deleted"})
}

// Price godoc
//
//	@Summary		Get movie rental price
//	@Tags			Movies
//	@Produce		json
//	@Param			id	path		int	true	"Movie ID"
//	@Success		200	{object}	dto.MoviePriceResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid movie ID"
//	@Failure		404	{object}	utils.Response	"Movie not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/movies/{id}/price [get]
func (h *MoviesHandler) Price(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}
	price, err := h.catalogService.Price(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalogservice.ErrMovieNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Movie not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch price")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.MoviePriceResponseDTO{
		MovieID: id,
		Price:   price,
	})
}

// Exists godoc
//
//	@Summary		Check a movie exists
//	@Tags			Movies
//	@Produce		json
//	@Param			id	path		int	true	"Movie ID"
//	@Success		200	{object}	dto.MovieExistsResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid movie ID"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/movies/exists/{id} [get]
func (h *MoviesHandler) Exists(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}
	exists, err := h.catalogService.Exists(r.Context(), id)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check movie")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.MovieExistsResponseDTO{
		MovieID: id,
		Exists:  exists,
	})
}

func toResponse(movie *domain.Movie) dto.MovieResponseDTO {
	return dto.MovieResponseDTO{
		ID:          movie.ID,
		Title:       movie.Title,
		Description: movie.Description,
		Director:    movie.Director,
		Category:    movie.Category,
		Duration:    movie.Duration,
		ReleaseYear: movie.ReleaseYear,
		Price:       movie.Price,
	}
}

func fromRequest(id int, req *dto.MovieRequestDTO) *domain.Movie {
	return &domain.Movie{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Director:    req.Director,
		Category:    req.Category,
		Duration:    req.Duration,
		ReleaseYear: req.ReleaseYear,
		Price:       req.Price,
	}
}
