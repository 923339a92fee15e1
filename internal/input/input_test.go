package input

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/dragonwm/internal/geom"
)

func TestModeString(t *testing.T) {
	assert.Equal(t, "idle", ModeIdle.String())
	assert.Equal(t, "panning", ModePanning.String())
	assert.Equal(t, "moving", ModeMoving.String())
	assert.Equal(t, "resizing", ModeResizing.String())
	assert.Equal(t, "unknown", Mode(42).String())
}

func TestDrag_PanAppliesToSnapshot(t *testing.T) {
	d := NewDrag(DefaultMinSize)
	d.BeginPan(geom.Point{X: 100, Y: 100}, geom.Point{X: 500, Y: -200})

	// Repeated motion to the same point yields the same camera, no drift.
	for range 3 {
		step, ok := d.Motion(geom.Point{X: 150, Y: 80}, 0.5)
		require.True(t, ok)
		assert.Equal(t, ModePanning, step.Mode)
		assert.Equal(t, geom.Point{X: 400, Y: -160}, step.Camera)
	}
}

func TestDrag_ZoomFlooredAtTenth(t *testing.T) {
	d := NewDrag(DefaultMinSize)
	d.BeginMove(geom.Point{}, 7, geom.Rect{X: 0, Y: 0, Width: 400, Height: 300})

	step, ok := d.Motion(geom.Point{X: 10, Y: -5}, 0.01)
	require.True(t, ok)
	assert.Equal(t, geom.Rect{X: 100, Y: -50, Width: 400, Height: 300}, step.World)
	assert.Equal(t, xproto.Window(7), step.Target)
}

func TestDrag_ResizeClampsToMinimum(t *testing.T) {
	d := NewDrag(DefaultMinSize)
	d.BeginResize(geom.Point{X: 500, Y: 500}, 9, geom.Rect{X: 10, Y: 20, Width: 120, Height: 90})

	step, ok := d.Motion(geom.Point{X: 100, Y: 0}, 1.0)
	require.True(t, ok)
	assert.Equal(t, geom.Rect{X: 10, Y: 20, Width: 50, Height: 50}, step.World)

	step, _ = d.Motion(geom.Point{X: 520, Y: 510}, 1.0)
	assert.Equal(t, geom.Rect{X: 10, Y: 20, Width: 140, Height: 100}, step.World)
}

func TestDrag_EndReturnsToIdle(t *testing.T) {
	d := NewDrag(0)
	d.BeginMove(geom.Point{}, 3, geom.Rect{})
	assert.True(t, d.Active())

	assert.Equal(t, ModeMoving, d.End())
	assert.False(t, d.Active())
	assert.Equal(t, xproto.Window(0), d.Target)

	_, ok := d.Motion(geom.Point{X: 1, Y: 1}, 1)
	assert.False(t, ok)
}

func TestInResizeGrip(t *testing.T) {
	assert.True(t, InResizeGrip(geom.Point{X: 390, Y: 290}, 400, 300, 40))
	assert.False(t, InResizeGrip(geom.Point{X: 360, Y: 290}, 400, 300, 40))
	assert.False(t, InResizeGrip(geom.Point{X: 390, Y: 100}, 400, 300, 40))
}

func all(xproto.Window) bool { return true }

func TestAltTab_CycleAndCommit(t *testing.T) {
	const a, b, c xproto.Window = 1, 2, 3
	at := NewAltTab()
	at.Touch(a)
	at.Touch(b)
	at.Touch(c)
	require.Equal(t, []xproto.Window{c, b, a}, at.Order())

	got, ok := at.Step(all, false)
	require.True(t, ok)
	assert.Equal(t, b, got)

	// Focusing the preview must not reorder mid-cycle.
	at.Touch(b)
	got, _ = at.Step(all, false)
	assert.Equal(t, a, got)
	assert.Equal(t, []xproto.Window{c, b, a}, at.Order())

	got, ok = at.Commit(all)
	require.True(t, ok)
	assert.Equal(t, a, got)
	assert.False(t, at.Active())
	assert.Equal(t, []xproto.Window{a, c, b}, at.Order())
}

func TestAltTab_Reverse(t *testing.T) {
	at := NewAltTab()
	for _, w := range []xproto.Window{1, 2, 3} {
		at.Touch(w)
	}
	got, ok := at.Step(all, true)
	require.True(t, ok)
	assert.Equal(t, xproto.Window(1), got)
	got, _ = at.Step(all, true)
	assert.Equal(t, xproto.Window(2), got)
}

func TestAltTab_NeedsTwoEligible(t *testing.T) {
	at := NewAltTab()
	at.Touch(1)
	at.Touch(2)

	_, ok := at.Step(func(w xproto.Window) bool { return w == 2 }, false)
	assert.False(t, ok)
	assert.False(t, at.Active())

	_, ok = at.Commit(all)
	assert.False(t, ok)
}

func TestAltTab_RemoveDuringCycle(t *testing.T) {
	at := NewAltTab()
	for _, w := range []xproto.Window{1, 2, 3} {
		at.Touch(w)
	}
	got, _ := at.Step(all, false)
	require.Equal(t, xproto.Window(2), got)

	at.Remove(3)
	sel, ok := at.Selected()
	require.True(t, ok)
	assert.Equal(t, xproto.Window(2), sel)

	at.Remove(1)
	assert.False(t, at.Active(), "one candidate left cancels the cycle")
	assert.Equal(t, []xproto.Window{2}, at.Order())
}

func TestAltTab_AddAppendsOnceEvenMidCycle(t *testing.T) {
	at := NewAltTab()
	at.Add(1)
	at.Add(2)
	at.Add(1)
	require.Equal(t, []xproto.Window{1, 2}, at.Order())

	_, ok := at.Step(all, false)
	require.True(t, ok)
	at.Add(3)
	assert.Equal(t, []xproto.Window{1, 2, 3}, at.Order())

	// Touch still promotes once the cycle is over.
	at.Cancel()
	at.Touch(3)
	assert.Equal(t, []xproto.Window{3, 1, 2}, at.Order())
}

func TestAltTab_StepSkipsIneligible(t *testing.T) {
	at := NewAltTab()
	for _, w := range []xproto.Window{1, 2, 3} {
		at.Touch(w)
	}
	got, ok := at.Step(all, false)
	require.True(t, ok)
	require.Equal(t, xproto.Window(2), got)

	hidden := map[xproto.Window]bool{1: true}
	visible := func(w xproto.Window) bool { return !hidden[w] }
	got, ok = at.Step(visible, false)
	require.True(t, ok)
	assert.Equal(t, xproto.Window(3), got, "1 was unmapped mid-cycle")

	hidden[2], hidden[3] = true, true
	_, ok = at.Step(visible, false)
	assert.False(t, ok)
	assert.False(t, at.Active())
}

func TestAltTab_CommitIneligibleDoesNotPromote(t *testing.T) {
	at := NewAltTab()
	for _, w := range []xproto.Window{1, 2, 3} {
		at.Touch(w)
	}
	got, _ := at.Step(all, false)
	require.Equal(t, xproto.Window(2), got)

	_, ok := at.Commit(func(w xproto.Window) bool { return w != 2 })
	assert.False(t, ok)
	assert.False(t, at.Active())
	assert.Equal(t, []xproto.Window{3, 2, 1}, at.Order())
}
