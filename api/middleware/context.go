package middleware

import (
	"context"

	"github.com/celebrelabs/celebre-backend/pkg/identity"
)

type contextKey string

const (
	ctxUserID contextKey = "user_id"
	ctxToken  contextKey = "id_token"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func TokenFromContext(ctx context.Context) *identity.Token {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxToken).(*identity.Token); ok {
		return v
	}
	return nil
}

// WithToken injects the verified identity into the context.
func WithToken(ctx context.Context, token *identity.Token) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if token == nil {
		return ctx
	}
	ctx = context.WithValue(ctx, ctxUserID, token.UID)
	return context.WithValue(ctx, ctxToken, token)
}
