package geocode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceSentinelForUnknownCoordinates(t *testing.T) {
	assert.Equal(t, NoDistance, Distance(0, 0, 40.7357, -74.1724))
	assert.Equal(t, NoDistance, Distance(40.7357, -74.1724, 0, 0))
}

func TestDistanceSamePointIsZero(t *testing.T) {
	assert.InDelta(t, 0, Distance(40.7357, -74.1724, 40.7357, -74.1724), 1e-9)
}

func TestDistanceIsSymmetric(t *testing.T) {
	newarkToNYC := Distance(40.7357, -74.1724, 40.7128, -74.0060)
	nycToNewark := Distance(40.7128, -74.0060, 40.7357, -74.1724)
	assert.InDelta(t, newarkToNYC, nycToNewark, 1e-9)
}

func TestDistanceNewarkToNYC(t *testing.T) {
	// roughly 8.7 miles between city centers
	d := Distance(40.7357, -74.1724, 40.7128, -74.0060)
	assert.InDelta(t, 8.7, d, 0.5)
}
