package dto

import "github.com/shopspring/decimal"

type MovieRequestDTO struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description"`
	Director    string          `json:"director"`
	Category    string          `json:"category"`
	Duration    int             `json:"duration"`
	ReleaseYear int             `json:"releaseYear"`
	Price       decimal.Decimal `json:"price"`
}

type MovieResponseDTO struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Director    string          `json:"director"`
	Category    string          `json:"category"`
	Duration    int             `json:"duration"`
	ReleaseYear int             `json:"releaseYear"`
	Price       decimal.Decimal `json:"price"`
}

type MoviePriceResponseDTO struct {
	MovieID int             `json:"movieId"`
	Price   decimal.Decimal `json:"price"`
}

type MovieExistsResponseDTO struct {
	MovieID int  `json:"movieId"`
	Exists  bool `json:"exists"`
}
