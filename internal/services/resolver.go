package services

import (
	"context"
	"errors"
	"fmt"
	"park-locator-service/internal/domain"
	"park-locator-service/internal/platform/logger"
	"park-locator-service/internal/platform/metrics"
	"park-locator-service/internal/platform/obs"
	"park-locator-service/internal/ports"
)

// Resolver turns a depot number into a VehicleResolution using the live
// upstream position, with the position cache as fallback and write-back sink.
type Resolver struct {
	Locator ports.VehicleLocator
	Fetcher ports.PositionFetcher
	Cache   ports.PositionCache
	Parks   ports.ParkRepository

	// Distance in meters for the second, looser classification pass. 0 disables it.
	AntiFlapGraceMeters float64
}

func NewResolver(
	locator ports.VehicleLocator,
	fetcher ports.PositionFetcher,
	cache ports.PositionCache,
	parks ports.ParkRepository,
	graceMeters float64,
) *Resolver {
	return &Resolver{
		Locator:             locator,
		Fetcher:             fetcher,
		Cache:               cache,
		Parks:               parks,
		AntiFlapGraceMeters: graceMeters,
	}
}

// Resolve runs one lookup. Failures are reported through the resolution's
// Error field, except when the live fetch fails and the cache has nothing
// fresh: that error is returned as is. Lookup and park loading failures are
// returned as errors too.
func (r *Resolver) Resolve(ctx context.Context, depotNumber string) (_ domain.VehicleResolution, err error) {
	defer obs.Time(ctx, "resolver.Resolve")(&err)

	match, err := r.Locator.Resolve(ctx, depotNumber)
	if err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			metrics.ResolutionsTotal.WithLabelValues(domain.ErrKindVehicleNotFound).Inc()
			return domain.Failed(depotNumber, domain.ErrKindVehicleNotFound, ""), nil
		}
		return domain.VehicleResolution{}, fmt.Errorf("resolve %s: %w", depotNumber, err)
	}

	raw, err := r.Fetcher.Fetch(ctx, match.VehicleID)
	if err != nil {
		if res, ok := r.fromCache(ctx, depotNumber, match, "fetch_failed"); ok {
			return res, nil
		}
		return domain.VehicleResolution{}, err
	}

	if !raw.HasCoords() {
		if res, ok := r.fromCache(ctx, depotNumber, match, "no_coords"); ok {
			return res, nil
		}
		metrics.ResolutionsTotal.WithLabelValues(domain.ErrKindNoCoords).Inc()
		res := domain.Failed(depotNumber, domain.ErrKindNoCoords, "")
		res.VehicleID = &match.VehicleID
		res.MatchedExactly = match.Exact
		return res, nil
	}

	parks, err := r.Parks.ListParks(ctx)
	if err != nil {
		return domain.VehicleResolution{}, fmt.Errorf("resolve %s: load parks: %w", depotNumber, err)
	}

	pt := domain.Coordinates{Lon: *raw.Lon, Lat: *raw.Lat}
	parkName, inPark := Classify(pt, parks, r.AntiFlapGraceMeters)

	if err := r.Cache.Put(ctx, domain.CachedPosition{
		VehicleID:  match.VehicleID,
		Lat:        pt.Lat,
		Lon:        pt.Lon,
		InPark:     inPark,
		ParkName:   parkName,
		ObservedAt: raw.ObservedAt,
	}); err != nil {
		logger.L().Warn("position_cache_write_failed", "vehicle_id", match.VehicleID, "err", err)
	}

	metrics.ResolutionsTotal.WithLabelValues("live").Inc()
	lat, lon := pt.Lat, pt.Lon
	return domain.VehicleResolution{
		OK:             true,
		DepotNumber:    depotNumber,
		VehicleID:      &match.VehicleID,
		Lat:            &lat,
		Lon:            &lon,
		ObservedAt:     raw.ObservedAt,
		InPark:         inPark,
		ParkName:       parkName,
		MatchedExactly: match.Exact,
	}, nil
}

func (r *Resolver) fromCache(
	ctx context.Context,
	depotNumber string,
	match ports.VehicleMatch,
	reason string,
) (domain.VehicleResolution, bool) {
	cached, ok := r.Cache.Get(ctx, match.VehicleID)
	if !ok {
		return domain.VehicleResolution{}, false
	}

	logger.L().Info("position_cache_fallback",
		"req_id", obs.RequestID(ctx),
		"depot_number", depotNumber,
		"vehicle_id", match.VehicleID,
		"reason", reason,
		"cached_at", cached.CachedAt,
	)
	metrics.ResolutionsTotal.WithLabelValues("cache").Inc()

	lat, lon := cached.Lat, cached.Lon
	return domain.VehicleResolution{
		OK:             true,
		DepotNumber:    depotNumber,
		VehicleID:      &match.VehicleID,
		Lat:            &lat,
		Lon:            &lon,
		ObservedAt:     cached.ObservedAt,
		InPark:         cached.InPark,
		ParkName:       cached.ParkName,
		MatchedExactly: match.Exact,
		FromCache:      true,
	}, true
}
