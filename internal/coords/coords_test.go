package coords

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mesh-clipboard/internal/mathutil"
)

const tol = 1e-9

func TestParse(t *testing.T) {
	assert.Equal(t, YUpRH, Parse("y_up_rh"))
	assert.Equal(t, ZUpRH, Parse("z_up_rh"))
	assert.Equal(t, ZUpRH, Parse("Z_UP_RH"))
	assert.Equal(t, YUpLH, Parse("y_up_lh"))
	assert.Equal(t, YUpRH, Parse(""))
	assert.Equal(t, YUpRH, Parse("weird"))
}

func TestZUpVectorConversion(t *testing.T) {
	// z_up_rh → native maps (x, y, z) to (x, z, -y)
	v := VectorToNative(mathutil.Vec3{1, 2, 3}, ZUpRH)
	assert.InDelta(t, 1, v[0], tol)
	assert.InDelta(t, 3, v[1], tol)
	assert.InDelta(t, -2, v[2], tol)
}

func TestVectorConversionInvertible(t *testing.T) {
	inputs := []mathutil.Vec3{
		{0, 0, 0},
		{1, 2, 3},
		{-4.5, 0.25, 1e6},
	}
	for _, conv := range []Convention{YUpRH, ZUpRH, YUpLH} {
		for _, v := range inputs {
			back := VectorToNative(VectorFromNative(v, conv), conv)
			for i := 0; i < 3; i++ {
				assert.InDelta(t, v[i], back[i], tol, "convention %v", conv)
			}
		}
	}
}

func TestQuatConversionInvertible(t *testing.T) {
	quats := []mathutil.Quat{
		mathutil.QuatIdentity(),
		mathutil.Mat3ToQuat(mathutil.RotX(mathutil.Deg2Rad(37))),
		mathutil.Mat3ToQuat(mathutil.Mat3Mul(mathutil.RotY(1.1), mathutil.RotZ(-0.4))),
	}
	for _, conv := range []Convention{YUpRH, ZUpRH, YUpLH} {
		for _, q := range quats {
			back := QuatToNative(QuatFromNative(q, conv), conv)
			if q[3]*back[3] < 0 {
				back = mathutil.Quat{-back[0], -back[1], -back[2], -back[3]}
			}
			for i := 0; i < 4; i++ {
				assert.InDelta(t, q[i], back[i], tol, "convention %v", conv)
			}
		}
	}
}

func TestQuatConversionRotatesLikeVectors(t *testing.T) {
	// Converting a rotation must commute with converting the vectors it
	// acts on: C(R v) == R' C(v).
	q := mathutil.Mat3ToQuat(mathutil.RotZ(mathutil.Deg2Rad(90)))
	v := mathutil.Vec3{1, 0.5, -2}

	for _, conv := range []Convention{ZUpRH, YUpLH} {
		rotated := mathutil.QuatToMat3(q).MulVec3(v)
		lhs := VectorToNative(rotated, conv)

		qn := QuatToNative(q, conv)
		rhs := mathutil.QuatToMat3(qn).MulVec3(VectorToNative(v, conv))

		for i := 0; i < 3; i++ {
			assert.InDelta(t, lhs[i], rhs[i], tol, "convention %v", conv)
		}
	}
}

func TestUnitScale(t *testing.T) {
	p := PositionToNative(mathutil.Vec3{1, 2, 3}, YUpRH, 0.01)
	assert.InDelta(t, 0.01, p[0], tol)
	assert.InDelta(t, 0.02, p[1], tol)
	assert.InDelta(t, 0.03, p[2], tol)

	back := PositionFromNative(p, YUpRH, 0.01)
	assert.InDelta(t, 1, back[0], tol)
	assert.InDelta(t, 2, back[1], tol)
	assert.InDelta(t, 3, back[2], tol)
}

func TestLeftHanded(t *testing.T) {
	assert.False(t, YUpRH.LeftHanded())
	assert.False(t, ZUpRH.LeftHanded())
	assert.True(t, YUpLH.LeftHanded())

	v := VectorToNative(mathutil.Vec3{1, 2, 3}, YUpLH)
	assert.InDelta(t, 1, v[0], tol)
	assert.InDelta(t, 2, v[1], tol)
	assert.InDelta(t, -3, v[2], tol)
}
