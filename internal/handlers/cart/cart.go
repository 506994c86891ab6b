package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/npiscopo/cinerent/internal/domain"
	"github.com/npiscopo/cinerent/internal/dto"
	"github.com/npiscopo/cinerent/internal/service/catalogservice"
	"github.com/npiscopo/cinerent/pkg/auth"
	"github.com/npiscopo/cinerent/pkg/utils"
)

type Service interface {
	Add(ctx context.Context, userID string, movieID int) (*domain.Cart, error)
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Clear(ctx context.Context, userID string) error
}

type CartHandler struct {
	cartService Service
}

func New(cartService Service) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// Add godoc
//
//	@Summary		Add a movie to the cart
//	@Tags			Cart
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.AddToCartRequestDTO	true	"Movie to add"
//	@Success		200		{object}	dto.CartResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		404		{object}	utils.Response	"Movie not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/cart [post]
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(string)

	var req dto.AddToCartRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	cart, err := h.cartService.Add(r.Context(), userID, req.MovieID)
	if err != nil {
		if errors.Is(err, catalogservice.ErrMovieNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Movie not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add to cart")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toResponse(cart))
}

// Get godoc
//
//	@Summary		Get the current cart
//	@Tags			Cart
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.CartResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/cart [get]
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(string)

	cart, err := h.cartService.Get(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}
	if cart == nil {
		utils.RespondWithJSON(w, http.StatusOK, dto.CartResponseDTO{Items: []dto.CartItemDTO{}})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toResponse(cart))
}

// Clear godoc
//
//	@Summary		Empty the cart
//	@Tags			Cart
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	utils.Response
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/cart [delete]
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(string)

	if err := h.cartService.Clear(r.Context(), userID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Cart cleared"})
}

func toResponse(cart *domain.Cart) dto.CartResponseDTO {
	items := make([]dto.CartItemDTO, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = dto.CartItemDTO{
			MovieID:  item.MovieID,
			Price:    item.Price,
			Quantity: item.Quantity,
		}
	}
	return dto.CartResponseDTO{
		CartID:     cart.ID,
		TotalItems: cart.TotalItems(),
		CartTotal:  cart.Total(),
		Items:      items,
	}
}
