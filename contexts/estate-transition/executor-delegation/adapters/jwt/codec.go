package jwtadapter

import (
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainerrors "placerly/contexts/estate-transition/executor-delegation/domain/errors"
	"placerly/contexts/estate-transition/executor-delegation/ports"
)

// Codec implements ports.TokenCodec with HMAC-SHA256 signed JWTs. Expired
// and malformed tokens are logged distinctly but surface as the same error
// kind to callers.
type Codec struct {
	Secret []byte
	Now    func() time.Time
	Logger *slog.Logger
}

type inviteClaims struct {
	jwt.RegisteredClaims
	DelegationID  string `json:"delegation_id"`
	OwnerID       string `json:"owner_id"`
	ExecutorEmail string `json:"executor_email"`
}

func (c Codec) Issue(payload ports.InvitePayload, ttl time.Duration) (string, error) {
	now := c.now().UTC()
	claims := inviteClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		DelegationID:  payload.DelegationID,
		OwnerID:       payload.OwnerID,
		ExecutorEmail: payload.ExecutorEmail,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.Secret)
}

func (c Codec) Verify(token string) (ports.InvitePayload, error) {
	var claims inviteClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.Secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		logger := c.logger()
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Warn("invite token expired",
				"event", "delegation_token_expired",
				"module", "estate-transition/executor-delegation",
				"layer", "adapter",
			)
		} else {
			logger.Warn("invite token rejected",
				"event", "delegation_token_rejected",
				"module", "estate-transition/executor-delegation",
				"layer", "adapter",
				"error", err.Error(),
			)
		}
		return ports.InvitePayload{}, domainerrors.ErrInvalidToken
	}
	if claims.DelegationID == "" || claims.OwnerID == "" {
		return ports.InvitePayload{}, domainerrors.ErrInvalidToken
	}
	return ports.InvitePayload{
		DelegationID:  claims.DelegationID,
		OwnerID:       claims.OwnerID,
		ExecutorEmail: claims.ExecutorEmail,
	}, nil
}

func (c Codec) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c Codec) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

var _ ports.TokenCodec = Codec{}
