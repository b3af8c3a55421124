package users

import (
	"github.com/swiftshop/swiftshop-backend/pkg/db/models"
	"github.com/swiftshop/swiftshop-backend/pkg/enums"
)

// UserDTO is the serialized user shape returned by the API. The password
// hash never leaves the service layer.
type UserDTO struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Role      enums.UserRole `json:"role"`
	IsBlocked bool           `json:"is_blocked"`
	AvatarURL *string        `json:"avatar_url"`
	Phone     *string        `json:"phone"`
	Country   *string        `json:"country"`
	State     *string        `json:"state"`
	City      *string        `json:"city"`
	Street    *string        `json:"street"`
	Number    *string        `json:"number"`
	Reference *string        `json:"reference"`
}

// LoginResult carries the minted token plus the identity hints the
// storefront needs without decoding the JWT.
type LoginResult struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	Role        enums.UserRole `json:"role"`
	UserID      int64          `json:"user_id"`
}

// RegisterInput holds the validated payload to create an account.
type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	AvatarURL *string
	Phone     *string
	Country   *string
	State     *string
	City      *string
	Street    *string
	Number    *string
	Reference *string
}

// LoginInput holds the credential pair.
type LoginInput struct {
	Email    string
	Password string
}

// UpdateProfileInput holds optional profile mutation values.
type UpdateProfileInput struct {
	Name      *string
	AvatarURL *string
	Phone     *string
	Country   *string
	State     *string
	City      *string
	Street    *string
	Number    *string
	Reference *string
}

// ToUserDTO maps the persistence model to its API shape.
func ToUserDTO(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		IsBlocked: u.IsBlocked,
		AvatarURL: u.AvatarURL,
		Phone:     u.Phone,
		Country:   u.Country,
		State:     u.State,
		City:      u.City,
		Street:    u.Street,
		Number:    u.Number,
		Reference: u.Reference,
	}
}
