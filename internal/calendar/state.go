package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const stateTTL = 10 * time.Minute

var ErrInvalidState = errors.New("invalid oauth state")

// stateCodec carries the user id through Google's consent redirect. With a secret
// the state is an HS256 token over the user id and a nonce; without one it is the bare id.
type stateCodec struct {
	secret []byte
	now    func() time.Time
}

func (s stateCodec) encode(userID string) (string, error) {
	if len(s.secret) == 0 {
		return userID, nil
	}
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(stateTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign state: %w", err)
	}
	return signed, nil
}

func (s stateCodec) decode(state string) (string, error) {
	if state == "" {
		return "", ErrInvalidState
	}
	if len(s.secret) == 0 {
		return state, nil
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	claims := &jwt.RegisteredClaims{}
	if _, err := parser.ParseWithClaims(state, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if claims.Subject == "" || claims.ID == "" {
		return "", ErrInvalidState
	}
	return claims.Subject, nil
}
