package dto

type RegisterRequestDTO struct {
	Login    string `json:"login" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type RegisterResponseDTO struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

type LoginRequestDTO struct {
	Login    string `json:"login" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginResponseDTO struct {
	Message string `json:"message"`
}
