package ump

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"park-locator-service/internal/domain"
	"park-locator-service/internal/platform/logger"
	"park-locator-service/internal/platform/obs"
	"park-locator-service/internal/ports"
	"strings"
)

var (
	envelopeKeys    = []string{"items", "data", "result"}
	depotNumberKeys = []string{"depotNumber", "depot_number", "number"}
	vehicleIDKeys   = []string{"vehicle_id", "id", "vehicleId"}
)

// Resolve looks the depot number up through the vehicle search endpoint.
//
// An item whose depot number equals the query wins. Otherwise the first item
// carrying an id is returned with Exact=false. domain.ErrVehicleNotFound is
// returned when no item carries an id.
func (c *Client) Resolve(ctx context.Context, depotNumber string) (_ ports.VehicleMatch, err error) {
	defer obs.Time(ctx, "ump.Resolve")(&err)

	depotNumber = strings.TrimSpace(depotNumber)
	if depotNumber == "" {
		return ports.VehicleMatch{}, fmt.Errorf("resolve vehicle: depot number must be non-empty")
	}

	endpoint := c.baseURL + "/api/v1/map/vehicles"

	var body []byte
	err = c.withRetry(ctx, "search", searchPolicy, func(token string) error {
		req, err := c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader([]byte("{}")), token)
		if err != nil {
			return err
		}
		q := req.URL.Query()
		q.Set("number", depotNumber)
		req.URL.RawQuery = q.Encode()

		resp, err := doRequest(c.session, req, "search")
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return ports.VehicleMatch{}, fmt.Errorf("resolve vehicle %q: %w", depotNumber, err)
	}

	decoded, err := decodeLoose(body)
	if err != nil {
		return ports.VehicleMatch{}, fmt.Errorf("resolve vehicle %q: decode search response: %w", depotNumber, err)
	}

	match, ok := matchVehicle(asList(decoded), depotNumber)
	if !ok {
		return ports.VehicleMatch{}, domain.ErrVehicleNotFound
	}
	if !match.Exact {
		logger.L().Info("vehicle_fuzzy_match", "depot_number", depotNumber, "vehicle_id", match.VehicleID)
	}

	return match, nil
}

// asList unwraps the search response: a bare array, an object with one of
// the envelope keys (optionally nesting "items"), or a single object.
func asList(v any) []any {
	switch x := v.(type) {
	case []any:
		return x
	case map[string]any:
		for _, k := range envelopeKeys {
			switch inner := x[k].(type) {
			case []any:
				return inner
			case map[string]any:
				if items, ok := inner["items"].([]any); ok {
					return items
				}
			}
		}
		return []any{x}
	default:
		return nil
	}
}

func matchVehicle(items []any, depotNumber string) (ports.VehicleMatch, bool) {
	var (
		fallback    ports.VehicleMatch
		hasFallback bool
	)

	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}

		rawID, ok := firstTruthy(m, vehicleIDKeys...)
		if !ok {
			continue
		}
		id, ok := idOf(rawID)
		if !ok {
			continue
		}

		if dep, ok := firstTruthy(m, depotNumberKeys...); ok && textOf(dep) == depotNumber {
			return ports.VehicleMatch{VehicleID: id, Exact: true}, true
		}

		if !hasFallback {
			fallback = ports.VehicleMatch{VehicleID: id, Exact: false}
			hasFallback = true
		}
	}

	return fallback, hasFallback
}
