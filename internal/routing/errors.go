package routing

import (
	"errors"
	"fmt"
)

// ErrIdenticalEndpoints is returned when origin and destination are the same.
// The text is sent verbatim as the HTTP error message.
var ErrIdenticalEndpoints = errors.New("Origin and destination must be different.")

// UnknownCountryError reports a code absent from the dataset.
type UnknownCountryError struct {
	Code string
}

func (e *UnknownCountryError) Error() string {
	return fmt.Sprintf("%s does not exist.", e.Code)
}

// NoRouteError reports that the two countries are not connected by land.
type NoRouteError struct {
	Origin      string
	Destination string
}

func (e *NoRouteError) Error() string {
	return fmt.Sprintf("No land route between %s and %s", e.Origin, e.Destination)
}

// IsClientError reports whether err is caused by the request rather than by
// the service.
func IsClientError(err error) bool {
	var unknown *UnknownCountryError
	var noRoute *NoRouteError
	return errors.Is(err, ErrIdenticalEndpoints) ||
		errors.As(err, &unknown) ||
		errors.As(err, &noRoute)
}
