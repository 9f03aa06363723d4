package external

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics записывает события регистрации как OpenTelemetry счетчик.
// Провайдер метрик настраивается процессом снаружи; без него API
// деградирует в no-op.
type OTelMetrics struct {
	events metric.Int64Counter
}

// NewOTelMetrics создает новый OTelMetrics
func NewOTelMetrics() (*OTelMetrics, error) {
	meter := otel.Meter("signup-service")

	events, err := meter.Int64Counter(
		"registration.events",
		metric.WithDescription("Registration pipeline events"),
	)
	if err != nil {
		return nil, fmt.Errorf("create registration.events counter: %w", err)
	}

	return &OTelMetrics{events: events}, nil
}

// Record увеличивает счетчик события с метаданными в атрибутах
func (m *OTelMetrics) Record(ctx context.Context, event string, metadata map[string]string) error {
	attrs := make([]attribute.KeyValue, 0, len(metadata)+1)
	attrs = append(attrs, attribute.String("event", event))
	for k, v := range metadata {
		attrs = append(attrs, attribute.String(k, v))
	}

	m.events.Add(ctx, 1, metric.WithAttributes(attrs...))
	return nil
}
