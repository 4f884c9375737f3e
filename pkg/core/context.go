package core

import (
	"context"
)

// Context keys for storing values in context.
type contextKey string

const (
	socketKey contextKey = "livesite:socket"
	paramsKey contextKey = "livesite:params"
	themeKey  contextKey = "livesite:theme"
)

// WithSocket adds a socket to the context.
func WithSocket(ctx context.Context, socket *Socket) context.Context {
	return context.WithValue(ctx, socketKey, socket)
}

// SocketFromContext retrieves the socket from context.
func SocketFromContext(ctx context.Context) *Socket {
	s, _ := ctx.Value(socketKey).(*Socket)
	return s
}

// WithParams adds params to the context.
func WithParams(ctx context.Context, params Params) context.Context {
	return context.WithValue(ctx, paramsKey, params)
}

// ParamsFromContext retrieves params from context.
func ParamsFromContext(ctx context.Context) Params {
	p, _ := ctx.Value(paramsKey).(Params)
	return p
}

// WithTheme records the theme a page is rendered in.
func WithTheme(ctx context.Context, theme string) context.Context {
	return context.WithValue(ctx, themeKey, theme)
}

// ThemeFromContext returns the theme set by WithTheme, or "".
func ThemeFromContext(ctx context.Context) string {
	t, _ := ctx.Value(themeKey).(string)
	return t
}
