package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/swiftshop/swiftshop-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID int64
	Role   enums.UserRole
}

// AccessTokenClaims represents the typed JWT issued to clients. The
// registered subject always carries the user id in decimal form.
type AccessTokenClaims struct {
	Role enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}
