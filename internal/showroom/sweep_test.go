package showroom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/vaporwear/internal/engine/scene"
)

func TestInterpolate(t *testing.T) {
	tests := []struct {
		name         string
		start, end   float32
		frame, total int
		want         float32
	}{
		{"first frame", 2, 10, 0, 4, 2},
		{"midway", 2, 10, 2, 4, 6},
		{"last frame", 2, 10, 4, 4, 10},
		{"descending", 10, 0, 1, 4, 7.5},
		{"zero length", 2, 10, 0, 0, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Interpolate(tt.start, tt.end, tt.frame, tt.total), 1e-6)
		})
	}
}

func TestSweepVisitsEveryFrame(t *testing.T) {
	var got []float32
	sw := NewSweep([]float32{0}, []float32{8}, 4, func(v []float32) {
		got = append(got, v[0])
	})

	steps := 0
	for !sw.Step() {
		steps++
		require.Less(t, steps, 10, "sweep never finished")
	}

	assert.Equal(t, []float32{0, 2, 4, 6, 8}, got)
	require.True(t, sw.Done().Done())
	assert.NoError(t, sw.Done().Err())
}

func TestSweepMovesValuesTogether(t *testing.T) {
	var last []float32
	sw := NewSweep([]float32{0, 10, -1}, []float32{1, 0, 1}, 2, func(v []float32) {
		last = append(last[:0], v...)
	})
	assert.False(t, sw.Step())
	assert.Equal(t, []float32{0, 10, -1}, last)

	assert.False(t, sw.Step())
	assert.InDeltaSlice(t, []float32{0.5, 5, 0}, last, 1e-6)
	assert.False(t, sw.Done().Done())

	assert.True(t, sw.Step())
	assert.Equal(t, []float32{1, 0, 1}, last)
	assert.True(t, sw.Done().Done())
}

func TestSweepCancel(t *testing.T) {
	applied := 0
	sw := NewSweep([]float32{0}, []float32{1}, 10, func([]float32) { applied++ })

	var resolved error
	sw.Done().Then(func(err error) { resolved = err })

	sw.Step()
	sw.Cancel()

	assert.ErrorIs(t, resolved, scene.ErrSuperseded)
	assert.True(t, sw.Step(), "cancelled sweep must finish")
	assert.Equal(t, 1, applied)

	sw.Cancel()
	assert.ErrorIs(t, sw.Done().Err(), scene.ErrSuperseded)
}

func TestSweepRunsAsSceneTask(t *testing.T) {
	s := scene.New(testWidth, testHeight)
	value := float32(-1)
	sw := NewSweep([]float32{0}, []float32{3}, 3, func(v []float32) { value = v[0] })
	s.Run(sw)

	assert.Equal(t, float32(-1), value, "sweep must not step before the next frame")
	s.Render()
	assert.Equal(t, float32(0), value)
	for i := 0; i < 3; i++ {
		s.Render()
	}
	assert.Equal(t, float32(3), value)
	assert.True(t, sw.Done().Done())
}
