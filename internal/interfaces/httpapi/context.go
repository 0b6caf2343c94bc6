package httpapi

import (
	"context"
	"strings"

	"github.com/riskibarqy/nfl-pickem/internal/domain/user"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type principalKey struct{}

var apiTracer = otel.Tracer("nfl-pickem/internal/interfaces/httpapi")

func withPrincipal(ctx context.Context, p user.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func principalFromContext(ctx context.Context) (user.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(user.Principal)
	return p, ok
}

// startSpan opens child spans for handlers only. Middleware and helpers share the otelhttp
// request span, and requests the tracer filtered out get no spans at all.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !isHandlerSpan(name) || !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, trace.SpanFromContext(context.Background())
	}
	return apiTracer.Start(ctx, name)
}

func isHandlerSpan(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.")
}
