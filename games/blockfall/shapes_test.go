package blockfall

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRotateCW(t *testing.T) {
	assert.Equal(t, Matrix{{1, 0}, {1, 1}, {1, 0}}, RotateCW(KindT.Shape()))
	assert.Equal(t, Matrix{{1}, {1}, {1}, {1}}, RotateCW(KindI.Shape()))
	assert.Equal(t, Matrix{{1, 1}, {1, 0}, {1, 0}}, RotateCW(KindJ.Shape()))
}

func TestRotateCCW(t *testing.T) {
	assert.Equal(t, Matrix{{0, 1}, {1, 1}, {0, 1}}, RotateCCW(KindT.Shape()))
	assert.Equal(t, Matrix{{1}, {1}, {1}, {1}}, RotateCCW(KindI.Shape()))
}

func TestRotationRoundTrips(t *testing.T) {
	for _, k := range AllKinds {
		t.Run(k.String(), func(t *testing.T) {
			m := k.Shape()

			cw := m
			for i := 0; i < 4; i++ {
				cw = cw.Rotate(Clockwise)
			}
			assert.True(t, m.Equal(cw), "four clockwise turns")

			ccw := m
			for i := 0; i < 4; i++ {
				ccw = ccw.Rotate(CounterClockwise)
			}
			assert.True(t, m.Equal(ccw), "four counter-clockwise turns")

			assert.True(t, m.Equal(RotateCCW(RotateCW(m))), "cw then ccw")
		})
	}
}

func TestShapeIsACopy(t *testing.T) {
	m := KindO.Shape()
	m[0][0] = 0
	assert.Equal(t, uint8(1), KindO.Shape()[0][0])
}

func TestKindNames(t *testing.T) {
	assert.Equal(t, "I", KindI.String())
	assert.Equal(t, "L", KindL.String())
	assert.False(t, Kind(9).Valid())

	b, err := KindS.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "S", string(b))
}
