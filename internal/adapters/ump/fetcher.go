package ump

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"park-locator-service/internal/domain"
	"park-locator-service/internal/platform/obs"
	"strconv"
	"strings"
)

var (
	observedAtKeys   = []string{"time", "timestamp", "updatedAt"}
	onlineDepotKeys  = []string{"depotNumber", "depot_number"}
	emptyJSONPayload = json.RawMessage("{}")
)

// Fetch reads the live position of a vehicle.
//
// Up to 3 attempts are made. A 401 triggers one re-login; other failures,
// including undecodable bodies, back off exponentially. A response without a
// JSON content type is treated as an empty payload. An unparsable "center"
// yields a position with nil coordinates, not an error.
func (c *Client) Fetch(ctx context.Context, vehicleID int64) (_ domain.RawPosition, err error) {
	defer obs.Time(ctx, "ump.Fetch")(&err)

	endpoint := c.baseURL + "/api/v1/map/online/" + strconv.FormatInt(vehicleID, 10)

	var (
		raw    json.RawMessage
		fields map[string]json.RawMessage
	)
	err = c.withRetry(ctx, "online", onlinePolicy, func(token string) error {
		req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil, token)
		if err != nil {
			return err
		}

		resp, err := doRequest(c.session, req, "online")
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
			_, _ = io.Copy(io.Discard, resp.Body)
			raw = emptyJSONPayload
			fields = map[string]json.RawMessage{}
			return nil
		}

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read online response: %w", err)
		}

		var decoded map[string]json.RawMessage
		if err := json.Unmarshal(b, &decoded); err != nil {
			return fmt.Errorf("decode online response: %w", err)
		}

		raw = b
		fields = decoded
		return nil
	})
	if err != nil {
		return domain.RawPosition{}, fmt.Errorf("fetch online vehicle_id=%d: %w", vehicleID, err)
	}

	return parseOnline(vehicleID, raw, fields), nil
}

func parseOnline(vehicleID int64, raw json.RawMessage, fields map[string]json.RawMessage) domain.RawPosition {
	pos := domain.RawPosition{VehicleID: vehicleID, Raw: raw}

	var center string
	if c, ok := fields["center"]; ok && json.Unmarshal(c, &center) == nil {
		if pt, ok := ParseWKTPoint(center); ok {
			lat, lon := pt.Lat, pt.Lon
			pos.Lat = &lat
			pos.Lon = &lon
		}
	}

	if t, ok := firstTruthyRaw(fields, observedAtKeys...); ok {
		pos.ObservedAt = t
	}

	if d, ok := firstTruthyRaw(fields, onlineDepotKeys...); ok {
		if v, err := decodeLoose(d); err == nil {
			pos.DepotNumber = textOf(v)
		}
	}

	return pos
}
