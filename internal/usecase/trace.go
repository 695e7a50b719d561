package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var serviceTracer = otel.Tracer("github.com/riskibarqy/league-registry/internal/usecase")

// startServiceSpan opens "LeagueService.<op>" under the request span. Calls
// without a request span are left untraced.
func startServiceSpan(ctx context.Context, op string) (context.Context, trace.Span) {
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, trace.SpanFromContext(ctx)
	}
	return serviceTracer.Start(ctx, "LeagueService."+op)
}
