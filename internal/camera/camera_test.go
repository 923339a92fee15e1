package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPan_RoundTripRestoresPosition(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy int
	}{
		{"positive", 120, 45},
		{"negative", -300, -7},
		{"mixed", 999999, -123456},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.X, c.Y = 17, -42
			c.Pan(tt.dx, tt.dy)
			c.Pan(-tt.dx, -tt.dy)
			assert.Equal(t, 17, c.X)
			assert.Equal(t, -42, c.Y)
		})
	}
}

func TestZoomBy_ClampsToLimits(t *testing.T) {
	c := New()
	c.SetZoom(0.15)
	assert.Equal(t, 0.11, c.ZoomBy(-0.1))

	c.SetZoom(4.95)
	assert.Equal(t, 5.0, c.ZoomBy(0.1))
}

func TestZoomBy_StepsLandOnThreshold(t *testing.T) {
	c := New()
	for i := 0; i < 5; i++ {
		c.ZoomBy(-0.1)
	}
	assert.Equal(t, 0.5, c.Zoom)
}

func TestSaveLoad(t *testing.T) {
	c := New()
	c.X, c.Y = 100, 200
	c.SetZoom(2.0)
	c.Save(1)

	c.X, c.Y = 0, 0
	c.SetZoom(0.3)
	require.True(t, c.Load(1))
	assert.Equal(t, 100, c.X)
	assert.Equal(t, 200, c.Y)
	assert.Equal(t, 2.0, c.Zoom)

	assert.False(t, c.Load(3), "empty slot must not load")
	assert.Equal(t, 100, c.X)
}

func TestNewWithLimits_RejectsInvertedBounds(t *testing.T) {
	c := NewWithLimits(3, 1)
	c.SetZoom(100)
	assert.Equal(t, DefaultMaxZoom, c.Zoom)
}

func TestSlots_Sorted(t *testing.T) {
	c := New()
	assert.Empty(t, c.Slots())
	c.Save(4)
	c.Save(1)
	c.Save(2)
	assert.Equal(t, []int{1, 2, 4}, c.Slots())
}
