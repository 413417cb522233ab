package tracking

import "errors"

// Join failures. They are terminal for the attempt and leave the registry untouched.
var (
	ErrInvalidCredential = errors.New("invalid credential")
	ErrOrderNotFound     = errors.New("order not found")
	ErrNotAParticipant   = errors.New("not a participant of the order")
	ErrInvalidRequest    = errors.New("invalid request")
)

// Relay failures
var (
	ErrInvalidPosition = errors.New("invalid position")
	ErrChannelGone     = errors.New("channel gone")
	ErrNotCourier      = errors.New("only the courier may report positions")
	ErrRateLimited     = errors.New("position reports too frequent")
)

// ErrRouteUnavailable is returned when the routing provider cannot produce a route
var ErrRouteUnavailable = errors.New("route unavailable")
