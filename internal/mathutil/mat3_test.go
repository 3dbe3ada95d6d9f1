package mathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertMat3InDelta(t *testing.T, want, got Mat3, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "entry %d", i)
	}
}

func TestMat3Det(t *testing.T) {
	assert.InDelta(t, 1.0, Mat3Identity().Det(), 1e-12)
	assert.InDelta(t, 24.0, Mat3Diag(2, 3, 4).Det(), 1e-12)

	// rotations have unit determinant
	r := Mat3Mul(RotX(0.4), RotZ(-1.1))
	assert.InDelta(t, 1.0, r.Det(), 1e-12)

	singular := Mat3{1, 2, 3, 2, 4, 6, 0, 0, 1}
	assert.InDelta(t, 0.0, singular.Det(), 1e-12)
}

func TestMat3Inverse(t *testing.T) {
	m := Mat3{2, 0, 1, 0, 3, 0, 1, 0, 1}
	assertMat3InDelta(t, Mat3Identity(), Mat3Mul(m, m.Inverse()), 1e-12)
	assertMat3InDelta(t, Mat3Identity(), Mat3Mul(m.Inverse(), m), 1e-12)

	// the singular fallback keeps callers from dividing by zero
	singular := Mat3{1, 2, 3, 2, 4, 6, 0, 0, 1}
	assert.Equal(t, Mat3Identity(), singular.Inverse())
}

func TestMat3RotationInverseIsTranspose(t *testing.T) {
	r := Mat3Mul(Mat3Mul(RotX(0.3), RotY(0.7)), RotZ(-0.2))
	assertMat3InDelta(t, r.Transpose(), r.Inverse(), 1e-12)

	v := Vec3{1, 2, 3}
	back := r.Transpose().MulVec3(r.MulVec3(v))
	require.InDelta(t, v[0], back[0], 1e-12)
	require.InDelta(t, v[1], back[1], 1e-12)
	require.InDelta(t, v[2], back[2], 1e-12)
}
