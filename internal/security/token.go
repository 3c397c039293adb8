package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// VerificationClaims bind a deep-link token to a roster identity. The
// user who redeems the token proves control of that in-game name.
type VerificationClaims struct {
	GuildID int64  `json:"guild_id"`
	TeamID  uint   `json:"team_id"`
	IGN     string `json:"ign"`
	jwt.RegisteredClaims
}

// GenerateVerificationToken creates a signed deep-link token for a
// roster player. Tokens expire after 48 hours.
func GenerateVerificationToken(guildID int64, teamID uint, ign, secret string) (string, error) {
	claims := &VerificationClaims{
		GuildID: guildID,
		TeamID:  teamID,
		IGN:     ign,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(48 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateVerificationToken validates and parses a deep-link token.
func ValidateVerificationToken(tokenString, secret string) (*VerificationClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &VerificationClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*VerificationClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
