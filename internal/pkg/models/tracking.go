package models

import (
	"math"
	"time"
)

// Role identifies which side of an order a participant is on
type Role string

const (
	RoleCourier  Role = "courier"
	RoleCustomer Role = "customer"
)

// Valid reports whether r is a known participant role
func (r Role) Valid() bool {
	return r == RoleCourier || r == RoleCustomer
}

// OrderStatus mirrors the order-management lifecycle
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusAssigned  OrderStatus = "assigned"
	OrderStatusPickedUp  OrderStatus = "picked_up"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Trackable reports whether an order can still have a live tracking channel
func (s OrderStatus) Trackable() bool {
	return s != OrderStatusDelivered && s != OrderStatusCancelled
}

// Position is a single WGS84 coordinate pair
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// InRange reports whether the position is a sane latitude/longitude pair
func (p Position) InRange() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// PositionReport is a courier-originated sample as it arrives on the wire
type PositionReport struct {
	Lat       float64    `json:"lat"`
	Lng       float64    `json:"lng"`
	Timestamp *time.Time `json:"ts,omitempty"`
}

// Position returns the coordinates carried by the report
func (r PositionReport) Position() Position {
	return Position{Lat: r.Lat, Lng: r.Lng}
}

// TrackedPosition is a relayed position stamped by the relay
type TrackedPosition struct {
	Position
	Seq        uint64    `json:"seq"`
	ReceivedAt time.Time `json:"ts"`
}

// Identity is the authenticated principal behind a credential
type Identity struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

// Order is the slice of order-management data the relay needs
type Order struct {
	ID          string      `json:"id" db:"id"`
	CustomerID  string      `json:"customer_id" db:"customer_id"`
	CourierID   string      `json:"courier_id" db:"courier_id"`
	Status      OrderStatus `json:"status" db:"status"`
	DeliveryLat float64     `json:"delivery_lat" db:"delivery_lat"`
	DeliveryLng float64     `json:"delivery_lng" db:"delivery_lng"`
}

// Destination returns the fixed delivery coordinates of the order
func (o *Order) Destination() Position {
	return Position{Lat: o.DeliveryLat, Lng: o.DeliveryLng}
}

// HasParticipant reports whether userID holds the given role on the order
func (o *Order) HasParticipant(userID string, role Role) bool {
	if userID == "" {
		return false
	}
	switch role {
	case RoleCourier:
		return o.CourierID == userID
	case RoleCustomer:
		return o.CustomerID == userID
	default:
		return false
	}
}

// Route is the routing provider result for one origin/destination pair
type Route struct {
	DurationText string `json:"duration_text"`
	PathGeometry string `json:"path_geometry"`
}

// ETA is a route result as rendered by the customer side
type ETA struct {
	Route
	Origin     Position  `json:"origin"`
	ComputedAt time.Time `json:"computed_at"`
	Stale      bool      `json:"stale"`
}

// PositionRelayedEvent is published for downstream consumers after fan-out
type PositionRelayedEvent struct {
	OrderID    string    `json:"order_id"`
	CourierID  string    `json:"courier_id"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	GeoHash    string    `json:"geohash"`
	Seq        uint64    `json:"seq"`
	ReceivedAt time.Time `json:"received_at"`
}

// OrderLifecycleEvent is consumed from the order-management system
type OrderLifecycleEvent struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status,omitempty"`
}
