package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/contactbook-backend/internal/http/response"
	"github.com/yungbote/contactbook-backend/internal/platform/ctxutil"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
	"github.com/yungbote/contactbook-backend/internal/services"
)

type IdentityMiddleware struct {
	log      *logger.Logger
	verifier services.IdentityVerifier
}

func NewIdentityMiddleware(log *logger.Logger, verifier services.IdentityVerifier) *IdentityMiddleware {
	return &IdentityMiddleware{log: log.With("middleware", "IdentityMiddleware"), verifier: verifier}
}

// RequireIdentity rejects requests without a valid bearer token with 401.
func (im *IdentityMiddleware) RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			response.RespondError(c, http.StatusUnauthorized, "unauthenticated", errMissingToken)
			c.Abort()
			return
		}
		ctx, err := im.verifier.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			im.log.Debug("identity rejected", "error", err, "path", c.Request.URL.Path)
			response.RespondError(c, http.StatusUnauthorized, "unauthenticated", errInvalidToken)
			c.Abort()
			return
		}
		if _, ok := ctxutil.CurrentUserID(ctx); !ok {
			response.RespondError(c, http.StatusUnauthorized, "unauthenticated", errInvalidToken)
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

type identityError string

func (e identityError) Error() string { return string(e) }

const (
	errMissingToken identityError = "missing bearer token"
	errInvalidToken identityError = "missing or invalid token"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
