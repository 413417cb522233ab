package utils

import (
	"testing"

	"github.com/piresc/ordertrack/internal/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestEncodePosition(t *testing.T) {
	lima := models.Position{Lat: -12.05, Lng: -77.04}

	tests := []struct {
		name      string
		precision uint
		wantLen   int
	}{
		{name: "neighbourhood cell", precision: 7, wantLen: 7},
		{name: "zero falls back to max", precision: 0, wantLen: 12},
		{name: "too large falls back to max", precision: 20, wantLen: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash := EncodePosition(lima, tt.precision)
			assert.Len(t, hash, tt.wantLen)
			assert.Equal(t, "6mc5", hash[:4])
		})
	}
}

func TestDecodeGeohash_RoundTripsWithinCell(t *testing.T) {
	p := models.Position{Lat: -12.05, Lng: -77.04}
	center := DecodeGeohash(EncodePosition(p, 9))

	assert.InDelta(t, p.Lat, center.Lat, 0.001)
	assert.InDelta(t, p.Lng, center.Lng, 0.001)
}

func TestCalculateDistance(t *testing.T) {
	a := models.Position{Lat: -12.05, Lng: -77.04}
	b := models.Position{Lat: -12.06, Lng: -77.03}

	assert.Equal(t, 0.0, CalculateDistance(a, a))
	assert.InDelta(t, 1.56, CalculateDistance(a, b), 0.05)
}

func TestMoveTowards(t *testing.T) {
	from := models.Position{Lat: -12.05, Lng: -77.04}
	to := models.Position{Lat: -12.06, Lng: -77.03}

	step := MoveTowards(from, to, 0.5)
	assert.InDelta(t, 0.5, CalculateDistance(from, step), 0.01)
	assert.Less(t, CalculateDistance(step, to), CalculateDistance(from, to))

	assert.Equal(t, to, MoveTowards(from, to, 10))
}
