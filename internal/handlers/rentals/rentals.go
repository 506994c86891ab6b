package rentals

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/npiscopo/cinerent/internal/domain"
	"github.com/npiscopo/cinerent/internal/dto"
	"github.com/npiscopo/cinerent/internal/service/ledgerservice"
	"github.com/npiscopo/cinerent/internal/service/rentalservice"
	"github.com/npiscopo/cinerent/pkg/auth"
	"github.com/npiscopo/cinerent/pkg/utils"
)

type Service interface {
	Checkout(ctx context.Context, userID string, movieIDs []int, total decimal.Decimal) (*rentalservice.CheckoutResult, error)
	GetRentals(ctx context.Context, userID string) ([]domain.Rental, error)
	Return(ctx context.Context, id, userID string) error
}

type RentalsHandler struct {
	rentalService Service
}

func New(rentalService Service) *RentalsHandler {
	return &RentalsHandler{
		rentalService: rentalService,
	}
}

// Checkout godoc
//
//	@Summary		Check out the selected movies
//	@Description	Charge the wallet for the given movies and create rentals. The charge is rolled back if rentals cannot be granted.
//	@Tags			Rentals
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CheckoutRequestDTO	true	"Checkout payload"
//	@Success		200		{object}	dto.CheckoutResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request, missing account or insufficient funds"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/rentals/checkout [post]
func (h *RentalsHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(string)

	var req dto.CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.rentalService.Checkout(r.Context(), userID, req.MovieIDs, req.TotalAmount)
	if err != nil {
		switch {
		case errors.Is(err, rentalservice.ErrNoItems),
			errors.Is(err, rentalservice.ErrInvalidTotal),
			errors.Is(err, rentalservice.ErrMovieUnknown),
			errors.Is(err, ledgerservice.ErrInvalidAmount),
			errors.Is(err, ledgerservice.ErrAccountNotFound),
			errors.Is(err, ledgerservice.ErrInsufficientFunds):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Checkout failed")
		}
		return
	}

	rentalIDs := make([]string, len(result.Rentals))
	for i, rental := range result.Rentals {
		rentalIDs[i] = rental.ID
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.CheckoutResponseDTO{
		Success:       true,
		Message:       "Checkout completed successfully",
		TransactionID: result.TransactionID,
		NewBalance:    result.NewBalance,
		RentalIDs:     rentalIDs,
	})
}

// GetRentals godoc
//
//	@Summary		List active rentals
//	@Tags			Rentals
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.RentalResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/rentals [get]
func (h *RentalsHandler) GetRentals(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(string)

	rentals, err := h.rentalService.GetRentals(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch rentals")
		return
	}

	now := time.Now().UTC()
	response := make([]dto.RentalResponseDTO, len(rentals))
	for i, rental := range rentals {
		daysRemaining := int(rental.DueAt.Sub(now).Hours() / 24)
		if daysRemaining < 0 {
			daysRemaining = 0
		}
		response[i] = dto.RentalResponseDTO{
			ID:            rental.ID,
			MovieID:       rental.MovieID,
			Price:         rental.Price,
			RentedAt:      rental.RentedAt,
			DueAt:         rental.DueAt,
			Status:        rental.Status,
			DaysRemaining: daysRemaining,
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// Return godoc
//
//	@Summary		Return a rented movie
//	@Tags			Rentals
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Rental ID"
//	@Success		200	{object}	utils.Response
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		404	{object}	utils.Response	"Rental not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/rentals/{id}/return [post]
func (h *RentalsHandler) Return(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(string)
	id := chi.URLParam(r, "id")

	if err := h.rentalService.Return(r.Context(), id, userID); err != nil {
		if errors.Is(err, rentalservice.ErrRentalMissing) {
			utils.RespondWithError(w, http.StatusNotFound, "Rental not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to return rental")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Rental returned"})
}
