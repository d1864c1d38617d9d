package ctxutil

import (
	"context"
	"strings"
)

type requestDataKey struct{}

// RequestData is the identity attached to a request by the identity middleware.
// UserID is the external identity provider's stable identifier for the caller.
type RequestData struct {
	UserID      string
	TokenString string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// WithUserID is shorthand for attaching an identity without a token.
func WithUserID(ctx context.Context, userID string) context.Context {
	return WithRequestData(ctx, &RequestData{UserID: userID})
}

// CurrentUserID reports the authenticated caller, if any.
func CurrentUserID(ctx context.Context) (string, bool) {
	rd := GetRequestData(ctx)
	if rd == nil {
		return "", false
	}
	id := strings.TrimSpace(rd.UserID)
	return id, id != ""
}
