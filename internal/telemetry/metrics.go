package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome classifies how an action invocation ended.
const (
	OutcomeSuccess      = "success"
	OutcomeValidation   = "validation_error"
	OutcomeUnauthorized = "unauthorized"
	OutcomeNotFound     = "not_found"
	OutcomeConflict     = "conflict"
	OutcomeError        = "error"
)

// CustomMetrics records service-level metrics. The dispatch layer uses it
// without caring whether metrics are enabled.
type CustomMetrics interface {
	RecordActionInvocation(ctx context.Context, actionName, outcome string)
}

type noopMetrics struct{}

// NewNoopCustomMetrics returns a CustomMetrics that does nothing.
func NewNoopCustomMetrics() CustomMetrics {
	return &noopMetrics{}
}

func (n *noopMetrics) RecordActionInvocation(context.Context, string, string) {}

type otelMetrics struct {
	invocations metric.Int64Counter
}

// NewOtelCustomMetrics creates the real metrics implementation on the given meter.
func NewOtelCustomMetrics(meter metric.Meter) (CustomMetrics, error) {
	invocations, err := meter.Int64Counter(
		"webutils.action.invocations",
		metric.WithDescription("Number of action invocations, by action and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create invocation counter: %w", err)
	}
	return &otelMetrics{invocations: invocations}, nil
}

func (m *otelMetrics) RecordActionInvocation(ctx context.Context, actionName, outcome string) {
	m.invocations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", actionName),
		attribute.String("outcome", outcome),
	))
}
