package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	id "suratdesa/pkg/domain"
	dErrors "suratdesa/pkg/domain-errors"
)

// SessionClaims are the JWT claims carried by session tokens.
type SessionClaims struct {
	UserID     string `json:"user_id"`
	NationalID string `json:"national_id,omitempty"`
	Role       string `json:"role"`
	Unit       string `json:"unit,omitempty"`
	SubUnit    string `json:"sub_unit,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and validates session tokens.
type TokenService struct {
	signingKey []byte
	tokenTTL   time.Duration
}

// NewTokenService creates a token service with the given HMAC signing key.
func NewTokenService(signingKey string, tokenTTL time.Duration) *TokenService {
	return &TokenService{
		signingKey: []byte(signingKey),
		tokenTTL:   tokenTTL,
	}
}

// Issue creates a signed session token for the given session.
func (t *TokenService) Issue(session Session, now time.Time) (string, error) {
	claims := SessionClaims{
		UserID:     session.UserID.String(),
		NationalID: session.NationalID.String(),
		Role:       session.Role.Name(),
		Unit:       session.Scope.Unit,
		SubUnit:    session.Scope.SubUnit,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "sign session token")
	}
	return signed, nil
}

// Validate parses a session token and resolves the role variant once.
func (t *TokenService) Validate(tokenString string) (Session, error) {
	var claims SessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "unexpected signing method")
		}
		return t.signingKey, nil
	})
	if err != nil || !token.Valid {
		return Session{}, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}

	userID, err := id.ParseUserID(claims.UserID)
	if err != nil {
		return Session{}, dErrors.New(dErrors.CodeUnauthorized, "invalid user ID in token")
	}

	role, err := RoleByName(claims.Role)
	if err != nil {
		return Session{}, err
	}

	return Session{
		UserID:     userID,
		NationalID: id.NationalID(claims.NationalID),
		Role:       role,
		Scope:      Scope{Unit: claims.Unit, SubUnit: claims.SubUnit},
	}, nil
}
