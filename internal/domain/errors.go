package domain

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Error kinds reported in VehicleResolution.Error.
const (
	ErrKindVehicleNotFound     = "vehicle_id_not_found"
	ErrKindNoCoords            = "no_coords"
	ErrKindHTTP                = "http_error"
	ErrKindException           = "exception"
	ErrKindInvalidDepotNumber  = "invalid_depot_number"
	ErrKindFileRead            = "file_read_error"
	maxStatusErrorBodyInDetail = 400
)

var (
	ErrVehicleNotFound     = errors.New("vehicle id not found")
	ErrReLoginUnsupported  = errors.New("re-login is not supported by this auth provider")
	ErrMissingCredentials  = errors.New("upstream credentials are not configured")
	ErrTokenNotFoundInBody = errors.New("login succeeded but no token was found in the response")
)

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.StatusCode, e.Body)
}

// Detail returns the body truncated for inclusion in a resolution.
func (e *StatusError) Detail() string {
	if len(e.Body) <= maxStatusErrorBodyInDetail {
		return e.Body
	}
	b := e.Body[:maxStatusErrorBodyInDetail]
	for len(b) > 0 && !utf8.ValidString(b) {
		b = b[:len(b)-1]
	}
	return b
}
