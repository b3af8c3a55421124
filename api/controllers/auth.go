package controllers

import (
	"net/http"

	"github.com/swiftshop/swiftshop-backend/api/middleware"
	"github.com/swiftshop/swiftshop-backend/api/responses"
	"github.com/swiftshop/swiftshop-backend/api/validators"
	"github.com/swiftshop/swiftshop-backend/internal/users"
	"github.com/swiftshop/swiftshop-backend/pkg/logger"
)

type registerRequest struct {
	Name      string  `json:"name" validate:"required,min=2"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=6"`
	AvatarURL *string `json:"avatar_url"`
	Phone     *string `json:"phone"`
	Country   *string `json:"country"`
	State     *string `json:"state"`
	City      *string `json:"city"`
	Street    *string `json:"street"`
	Number    *string `json:"number"`
	Reference *string `json:"reference"`
}

func (r registerRequest) toInput() users.RegisterInput {
	return users.RegisterInput{
		Name:      r.Name,
		Email:     r.Email,
		Password:  r.Password,
		AvatarURL: r.AvatarURL,
		Phone:     r.Phone,
		Country:   r.Country,
		State:     r.State,
		City:      r.City,
		Street:    r.Street,
		Number:    r.Number,
		Reference: r.Reference,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatar_url"`
	Phone     *string `json:"phone"`
	Country   *string `json:"country"`
	State     *string `json:"state"`
	City      *string `json:"city"`
	Street    *string `json:"street"`
	Number    *string `json:"number"`
	Reference *string `json:"reference"`
}

// Register creates a client account from the public signup form.
func Register(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload registerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Register(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// Login exchanges credentials for a bearer token.
func Login(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), users.LoginInput{Email: payload.Email, Password: payload.Password})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// Me returns the authenticated user's profile.
func Me(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dto, err := svc.GetProfile(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// UpdateMe applies a partial update to the authenticated profile.
func UpdateMe(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateProfileRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateProfile(r.Context(), middleware.UserIDFromContext(r.Context()), users.UpdateProfileInput{
			Name:      payload.Name,
			AvatarURL: payload.AvatarURL,
			Phone:     payload.Phone,
			Country:   payload.Country,
			State:     payload.State,
			City:      payload.City,
			Street:    payload.Street,
			Number:    payload.Number,
			Reference: payload.Reference,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
