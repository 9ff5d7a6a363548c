package usecase

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrUpstreamUnavailable = errors.New("upstream data unavailable")
	// ErrMalformedPayload marks an upstream response that could not be decoded
	// or failed snapshot validation. Fetches retry it once like any transient
	// failure before falling back to stale data.
	ErrMalformedPayload = errors.New("malformed upstream payload")
)

// Kind is the stable error classification returned to tool callers.
type Kind string

const (
	KindNotFound            Kind = "NotFound"
	KindInvalidArgument     Kind = "InvalidArgument"
	KindUnauthorized        Kind = "Unauthorized"
	KindUpstreamUnavailable Kind = "UpstreamUnavailable"
	KindInternal            Kind = "Internal"
)

func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidArgument
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrUpstreamUnavailable), errors.Is(err, ErrMalformedPayload):
		return KindUpstreamUnavailable
	default:
		return KindInternal
	}
}
