// file: internals/features/users/auth/dto/auth_dto.go
package dto

type RegisterRequest struct {
	// Kode resident dari pengelola (id roster), kunci pencocokan
	ResidentCode string `json:"resident_code" validate:"required"`
	PhoneNumber  string `json:"phone_number" validate:"required,max=20"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginUserDetail struct {
	ID          uint    `json:"id"`
	Email       string  `json:"email"`
	FullName    string  `json:"full_name"`
	Role        string  `json:"role"`
	Avatar      *string `json:"avatar,omitempty"`
	HouseholdID *uint   `json:"household_id,omitempty"`
}

type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	User        LoginUserDetail `json:"user"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}
