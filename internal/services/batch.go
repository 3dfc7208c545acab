package services

import (
	"context"
	"errors"
	"fmt"
	"park-locator-service/internal/domain"
	"park-locator-service/internal/platform/logger"
	"park-locator-service/internal/platform/metrics"
	"park-locator-service/internal/platform/obs"

	"golang.org/x/sync/errgroup"
)

// PositionResolver resolves a single depot number.
type PositionResolver interface {
	Resolve(ctx context.Context, depotNumber string) (domain.VehicleResolution, error)
}

// BatchResolver applies a PositionResolver to many depot numbers.
type BatchResolver struct {
	Resolver PositionResolver
	// Upper bound on in-flight lookups. Values below 1 mean sequential.
	Concurrency int
}

func NewBatchResolver(r PositionResolver, concurrency int) *BatchResolver {
	return &BatchResolver{Resolver: r, Concurrency: concurrency}
}

// ResolveAll returns one resolution per input, in input order, duplicates
// included. A failing item becomes a failed resolution and never affects
// its neighbours.
func (b *BatchResolver) ResolveAll(ctx context.Context, depotNumbers []string) []domain.VehicleResolution {
	defer obs.Time(ctx, "batch.ResolveAll")(nil)

	out := make([]domain.VehicleResolution, len(depotNumbers))

	limit := b.Concurrency
	if limit < 1 {
		limit = 1
	}

	var g errgroup.Group
	g.SetLimit(limit)

	for i, depot := range depotNumbers {
		g.Go(func() error {
			out[i] = b.resolveOne(ctx, depot)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

func (b *BatchResolver) resolveOne(ctx context.Context, depot string) (res domain.VehicleResolution) {
	defer func() {
		if p := recover(); p != nil {
			logger.L().Error("resolve_panic", "req_id", obs.RequestID(ctx), "depot_number", depot, "panic", p)
			res = domain.Failed(depot, domain.ErrKindException, fmt.Sprint(p))
		}
	}()

	res, err := b.Resolver.Resolve(ctx, depot)
	if err != nil {
		logger.L().Warn("resolve_failed", "req_id", obs.RequestID(ctx), "depot_number", depot, "err", err)
		return ResolutionFromError(depot, err)
	}
	return res
}

// ResolutionFromError converts an error escaping the resolver into a failed
// resolution: http_error for upstream status errors, exception otherwise.
func ResolutionFromError(depot string, err error) domain.VehicleResolution {
	var se *domain.StatusError
	if errors.As(err, &se) {
		metrics.ResolutionsTotal.WithLabelValues(domain.ErrKindHTTP).Inc()
		res := domain.Failed(depot, domain.ErrKindHTTP, fmt.Sprintf("Code %d: %s", se.StatusCode, se.Detail()))
		res.StatusCode = se.StatusCode
		return res
	}

	metrics.ResolutionsTotal.WithLabelValues(domain.ErrKindException).Inc()
	return domain.Failed(depot, domain.ErrKindException, err.Error())
}
