package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/contactbook-backend/internal/platform/ctxutil"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

// IdentityVerifier turns a bearer token issued by the external identity
// provider into request identity. It never issues tokens.
type IdentityVerifier interface {
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

// IdentityClaims are the claims read from provider tokens. The user id is the
// email claim when present, otherwise the subject.
type IdentityClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

func (c *IdentityClaims) UserID() string {
	if email := strings.TrimSpace(c.Email); email != "" {
		return strings.ToLower(email)
	}
	return strings.TrimSpace(c.Subject)
}

var ErrInvalidIdentity = errors.New("invalid identity token")

type jwtIdentityVerifier struct {
	log    *logger.Logger
	secret []byte
	issuer string
}

func NewJWTIdentityVerifier(log *logger.Logger, secret, issuer string) (IdentityVerifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("identity jwt secret is required")
	}
	return &jwtIdentityVerifier{
		log:    log.With("service", "IdentityVerifier"),
		secret: []byte(secret),
		issuer: strings.TrimSpace(issuer),
	}, nil
}

func (v *jwtIdentityVerifier) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return ctx, fmt.Errorf("%w: missing token", ErrInvalidIdentity)
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		v.log.Debug("identity token rejected", "error", err)
		return ctx, fmt.Errorf("%w: %v", ErrInvalidIdentity, err)
	}
	claims, ok := parsed.Claims.(*IdentityClaims)
	if !ok || !parsed.Valid {
		return ctx, fmt.Errorf("%w: invalid or expired token", ErrInvalidIdentity)
	}
	userID := claims.UserID()
	if userID == "" {
		return ctx, fmt.Errorf("%w: token carries no user id", ErrInvalidIdentity)
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		UserID:      userID,
		TokenString: tokenString,
	}), nil
}
