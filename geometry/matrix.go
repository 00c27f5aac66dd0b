/*
Package geometry implements the rotation math used by the MechWarrior 3
model formats.
*/
package geometry

import "math"

// Matrix is a row-major 3x3 rotation matrix.
type Matrix [9]float32

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

func sincos(v float32) (float32, float32) {
	s, c := math.Sincos(float64(v))
	return float32(s), float32(c)
}

// EulerToMatrix converts XYZ Euler angles in radians to a rotation matrix.
// The angles are negated and the matrix is the expansion of m(z) * m(y) *
// m(x). That order doesn't line up with how the data is used elsewhere, but
// it is what the game engine computes, so it must be reproduced exactly.
// All arithmetic is single precision to match the values stored in the game
// files bit for bit.
func EulerToMatrix(x, y, z float32) Matrix {
	sinX, cosX := sincos(-x)
	sinY, cosY := sincos(-y)
	sinZ, cosZ := sincos(-z)

	return Matrix{
		cosY * cosZ,
		sinX*sinY*cosZ - cosX*sinZ,
		cosX*sinY*cosZ + sinX*sinZ,
		cosY * sinZ,
		sinX*sinY*sinZ + cosX*cosZ,
		cosX*sinY*sinZ - sinX*cosZ,
		-sinY,
		sinX * cosY,
		cosX * cosY,
	}
}
