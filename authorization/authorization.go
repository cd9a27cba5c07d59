package authorization

import (
	"fmt"
	"time"

	"github.com/cristalhq/jwt/v4"

	"github.com/alaminrifat/house-hunter-server/domain"
	errs "github.com/alaminrifat/house-hunter-server/errors"
)

// TokenTTL is how long an issued session token stays valid. There is no
// revocation; a token expires naturally.
const TokenTTL = 24 * time.Hour

type AccessClaims struct {
	UserID   string          `json:"userId"`
	Email    string          `json:"email"`
	UserType domain.UserType `json:"role"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	signer   jwt.Signer
	verifier jwt.Verifier
}

func NewTokenManager(secret []byte) (*TokenManager, error) {
	signer, err := jwt.NewSignerHS(jwt.HS256, secret)
	if err != nil {
		return nil, err
	}
	verifier, err := jwt.NewVerifierHS(jwt.HS256, secret)
	if err != nil {
		return nil, err
	}
	return &TokenManager{
		signer:   signer,
		verifier: verifier,
	}, nil
}

func (manager *TokenManager) Issue(user *domain.User) (string, error) {
	return manager.issueAt(user, time.Now())
}

func (manager *TokenManager) issueAt(user *domain.User, now time.Time) (string, error) {
	claims := &AccessClaims{
		UserID:   user.ID.Hex(),
		Email:    user.Email,
		UserType: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewBuilder(manager.signer).Build(claims)
	if err != nil {
		return "", err
	}
	return token.String(), nil
}

// Verify checks the signature and expiry and returns the embedded identity.
func (manager *TokenManager) Verify(raw string) (*AccessClaims, error) {
	var claims AccessClaims
	if err := jwt.ParseClaims([]byte(raw), manager.verifier, &claims); err != nil {
		return nil, fmt.Errorf(errs.InvalidTokenError)
	}
	if !claims.IsValidExpiresAt(time.Now()) {
		return nil, fmt.Errorf(errs.ExpiredTokenError)
	}
	return &claims, nil
}
