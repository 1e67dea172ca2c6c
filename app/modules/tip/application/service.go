// Package tipservice implements the tip verification lifecycle on top of
// the repository and event bus.
package tipservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tipcircle/tipboard/internal/eventbus"
	"github.com/tipcircle/tipboard/internal/observability"
	"github.com/tipcircle/tipboard/internal/observability/attr"

	tipdb "github.com/tipcircle/tipboard/app/modules/tip/infrastructure/repositories"
)

// TipService implements the Service interface.
type TipService struct {
	repo         tipdb.Repository
	eventBus     eventbus.EventBus
	logger       *slog.Logger
	metrics      *observability.TipMetrics
	tracer       trace.Tracer
	storeTimeout time.Duration
	now          func() time.Time
}

var _ Service = (*TipService)(nil)

// NewTipService creates a new TipService.
func NewTipService(
	repo tipdb.Repository,
	bus eventbus.EventBus,
	logger *slog.Logger,
	metrics *observability.TipMetrics,
	tracer trace.Tracer,
	storeTimeout time.Duration,
) *TipService {
	return &TipService{
		repo:         repo,
		eventBus:     bus,
		logger:       logger,
		metrics:      metrics,
		tracer:       tracer,
		storeTimeout: storeTimeout,
		now:          time.Now,
	}
}

// serviceWrapper runs a service operation inside a span with duration
// metrics, panic recovery, and uniform error logging.
func serviceWrapper[T any](
	ctx context.Context,
	s *TipService,
	operationName string,
	op func(ctx context.Context) (T, error),
) (result T, err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
	))
	defer span.End()

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(operationName, time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			span.RecordError(err)
		}
	}()

	result, err = op(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, operationName+" failed",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.Error(err),
		)
		span.RecordError(err)
		return result, err
	}

	return result, nil
}
