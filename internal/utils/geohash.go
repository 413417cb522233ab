package utils

import (
	"math"

	"github.com/mmcloughlin/geohash"
	"github.com/piresc/ordertrack/internal/pkg/models"
)

// EncodePosition converts a position to a geohash cell of the given precision
func EncodePosition(p models.Position, precision uint) string {
	if precision == 0 || precision > 12 {
		precision = 12
	}
	return geohash.EncodeWithPrecision(p.Lat, p.Lng, precision)
}

// DecodeGeohash returns the center of a geohash cell
func DecodeGeohash(hash string) models.Position {
	lat, lng := geohash.DecodeCenter(hash)
	return models.Position{Lat: lat, Lng: lng}
}

// CalculateDistance calculates the distance between two points in kilometers using the Haversine formula
func CalculateDistance(a, b models.Position) float64 {
	const earthRadius = 6371.0

	lat1 := a.Lat * math.Pi / 180.0
	lon1 := a.Lng * math.Pi / 180.0
	lat2 := b.Lat * math.Pi / 180.0
	lon2 := b.Lng * math.Pi / 180.0

	dLat := lat2 - lat1
	dLon := lon2 - lon1
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadius * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// MoveTowards returns the point stepKm along the straight line from 'from' to 'to',
// or 'to' itself when it is closer than stepKm
func MoveTowards(from, to models.Position, stepKm float64) models.Position {
	dist := CalculateDistance(from, to)
	if dist <= stepKm || dist == 0 {
		return to
	}
	f := stepKm / dist
	return models.Position{
		Lat: from.Lat + (to.Lat-from.Lat)*f,
		Lng: from.Lng + (to.Lng-from.Lng)*f,
	}
}
