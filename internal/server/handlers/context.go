package handlers

import "context"

// contextKey тип для ключей контекста
type contextKey string

// IdentityKey ключ для хранения identity в контексте
const IdentityKey contextKey = "identity"

// WithIdentity возвращает контекст с identity, установленной AuthMiddleware
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// GetIdentity извлекает identity из контекста запроса
func GetIdentity(ctx context.Context) (string, bool) {
	identity, ok := ctx.Value(IdentityKey).(string)
	return identity, ok && identity != ""
}
