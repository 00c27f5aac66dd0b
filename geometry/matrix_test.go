package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentity(t *testing.T) {
	assert.Equal(t, Matrix{1, 0, 0, 0, 1, 0, 0, 0, 1}, Identity())
}

func TestEulerToMatrixZero(t *testing.T) {
	assert.Equal(t, Identity(), EulerToMatrix(0, 0, 0))
}

func TestEulerToMatrixQuarterTurnX(t *testing.T) {
	m := EulerToMatrix(math.Pi/2, 0, 0)

	expected := []float64{
		1, 0, 0,
		0, 0, 1,
		0, -1, 0,
	}
	for i, v := range expected {
		assert.InDelta(t, v, float64(m[i]), 1e-6, "m[%d]", i)
	}
}

func dot(m Matrix, i, j int) float64 {
	var sum float64
	for k := 0; k < 3; k++ {
		sum += float64(m[i*3+k]) * float64(m[j*3+k])
	}
	return sum
}

// Any angle triple must produce a valid rotation matrix; rows are unit
// length and mutually orthogonal.
func TestEulerToMatrixOrthonormal(t *testing.T) {
	angles := []float32{0, 0.5, -0.5, 1, math.Pi / 2, -math.Pi / 2, math.Pi, 2.5, -3}

	for _, x := range angles {
		for _, y := range angles {
			for _, z := range angles {
				m := EulerToMatrix(x, y, z)
				for i := 0; i < 3; i++ {
					for j := 0; j < 3; j++ {
						expected := 0.0
						if i == j {
							expected = 1.0
						}
						assert.InDelta(t, expected, dot(m, i, j), 1e-5,
							"rows %d,%d of EulerToMatrix(%v, %v, %v)", i, j, x, y, z)
					}
				}
			}
		}
	}
}

func TestEulerToMatrixDeterministic(t *testing.T) {
	a := EulerToMatrix(0.1, -0.2, 0.3)
	b := EulerToMatrix(0.1, -0.2, 0.3)
	assert.Equal(t, a, b)
}
