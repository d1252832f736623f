package types

import "context"

// ContextKey is the type for context value keys
type ContextKey string

const (
	CtxRequestID ContextKey = "ctx_request_id"
	CtxAccountID ContextKey = "ctx_account_id"
)

const HeaderRequestID = "X-Request-ID"

// DefaultLanguage is used when the account carries no language preference
const DefaultLanguage = "en"

func GetRequestID(ctx context.Context) string {
	return getString(ctx, CtxRequestID)
}

func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, CtxRequestID, requestID)
}

func GetAccountID(ctx context.Context) string {
	return getString(ctx, CtxAccountID)
}

func SetAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, CtxAccountID, accountID)
}

func getString(ctx context.Context, key ContextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
