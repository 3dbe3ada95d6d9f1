// Package coords normalizes vectors, quaternions and units between the
// coordinate conventions a CPMF document may be authored in and the native
// working space (Y-up, right-handed).
package coords

import (
	"strings"

	"mesh-clipboard/internal/mathutil"
)

// Convention identifies the coordinate system a document was authored in.
type Convention int

const (
	// YUpRH is the native working space. Conversion is the identity.
	YUpRH Convention = iota
	// ZUpRH is Z-up right-handed.
	ZUpRH
	// YUpLH is Y-up left-handed. Imported polygon winding must be
	// reversed to keep outward normals after the handedness flip.
	YUpLH
)

// Native is the convention emitted by default on export.
const NativeName = "y_up_rh"

// Basis-change matrices into native space.
var (
	// zUpToNative maps (x,y,z) to (x,z,-y).
	zUpToNative = mathutil.Mat3{
		1, 0, 0,
		0, 0, 1,
		0, -1, 0,
	}
	// nativeToZUp is its inverse, used on export. The basis change is a
	// rotation, so the inverse has exact 0/±1 entries.
	nativeToZUp = zUpToNative.Inverse()
	// yUpLHToNative negates Z; self-inverse.
	yUpLHToNative = mathutil.Mat3Diag(1, 1, -1)
)

// Parse maps a document coordinate_system string to a Convention.
// Unrecognized values fall back to the native convention.
func Parse(s string) Convention {
	key := strings.ToLower(s)
	switch {
	case strings.Contains(key, "z_up"):
		return ZUpRH
	case strings.Contains(key, "lh"):
		return YUpLH
	default:
		return YUpRH
	}
}

func (c Convention) String() string {
	switch c {
	case ZUpRH:
		return "z_up_rh"
	case YUpLH:
		return "y_up_lh"
	default:
		return NativeName
	}
}

// LeftHanded reports whether the convention flips handedness relative to
// native, requiring polygon winding reversal.
func (c Convention) LeftHanded() bool {
	return c == YUpLH
}

// ToNative returns the basis-change matrix from c into native space.
func (c Convention) ToNative() mathutil.Mat3 {
	switch c {
	case ZUpRH:
		return zUpToNative
	case YUpLH:
		return yUpLHToNative
	default:
		return mathutil.Mat3Identity()
	}
}

// FromNative returns the inverse basis change, used on export.
func (c Convention) FromNative() mathutil.Mat3 {
	switch c {
	case ZUpRH:
		return nativeToZUp
	case YUpLH:
		return yUpLHToNative
	default:
		return mathutil.Mat3Identity()
	}
}

// VectorToNative converts a document-space vector into native space.
func VectorToNative(v mathutil.Vec3, c Convention) mathutil.Vec3 {
	if c == YUpRH {
		return v
	}
	return c.ToNative().MulVec3(v)
}

// VectorFromNative converts a native-space vector into document space.
func VectorFromNative(v mathutil.Vec3, c Convention) mathutil.Vec3 {
	if c == YUpRH {
		return v
	}
	return c.FromNative().MulVec3(v)
}

// QuatToNative converts a document-space rotation into native space by
// conjugating the rotation matrix with the basis change: R' = C·R·C⁻¹.
func QuatToNative(q mathutil.Quat, c Convention) mathutil.Quat {
	if c == YUpRH {
		return q
	}
	r := mathutil.QuatToMat3(q)
	r = mathutil.Mat3Mul(mathutil.Mat3Mul(c.ToNative(), r), c.FromNative())
	return mathutil.Mat3ToQuat(r)
}

// QuatFromNative converts a native-space rotation into document space.
func QuatFromNative(q mathutil.Quat, c Convention) mathutil.Quat {
	if c == YUpRH {
		return q
	}
	r := mathutil.QuatToMat3(q)
	r = mathutil.Mat3Mul(mathutil.Mat3Mul(c.FromNative(), r), c.ToNative())
	return mathutil.Mat3ToQuat(r)
}

// PositionToNative converts a document position into native space and
// applies the document unit scale.
func PositionToNative(v mathutil.Vec3, c Convention, unitScale float64) mathutil.Vec3 {
	return VectorToNative(v, c).Scale(unitScale)
}

// PositionFromNative converts a native position into document space,
// dividing out the unit scale the document declares.
func PositionFromNative(v mathutil.Vec3, c Convention, unitScale float64) mathutil.Vec3 {
	if unitScale != 0 && unitScale != 1 {
		v = v.Scale(1 / unitScale)
	}
	return VectorFromNative(v, c)
}
