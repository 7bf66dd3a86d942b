package gazekit

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// LookRotation returns the rotation that maps Forward (+Z) onto forward and
// keeps the local +Y axis as close to up as possible. When forward is zero
// the identity is returned; when forward is parallel to up the shortest arc
// from Forward is used instead.
func LookRotation(forward, up Vec3) Quat {
	if forward.Len() == 0 {
		return mgl64.QuatIdent()
	}
	z := forward.Normalize()
	x := up.Cross(z)
	if x.Len() < 1e-9 {
		return mgl64.QuatBetweenVectors(Forward, z)
	}
	x = x.Normalize()
	y := z.Cross(x)
	m := mgl64.Mat3FromCols(x, y, z)
	return mgl64.Mat4ToQuat(m.Mat4()).Normalize()
}

// FacingRotation orients an object at position so its front faces the
// viewer: forward is the reversed direction from the object to the viewer.
// ok is false when the two positions coincide.
func FacingRotation(position, viewer Vec3) (q Quat, ok bool) {
	toViewer := viewer.Sub(position)
	if toViewer.Len() == 0 {
		return mgl64.QuatIdent(), false
	}
	return LookRotation(toViewer.Normalize().Mul(-1), Up), true
}

// EulerDegrees returns the rotation as X, Y, Z angles in degrees wrapped to
// [0, 360), applied in Z, X, Y order as engine transform inspectors report
// them.
func EulerDegrees(q Quat) Vec3 {
	m := q.Normalize().Mat4()
	// Rotation = Ry * Rx * Rz; m[9] is row 1, column 2.
	sx := -m[9]
	if sx > 1 {
		sx = 1
	} else if sx < -1 {
		sx = -1
	}
	var x, y, z float64
	x = math.Asin(sx)
	if approxEqual(sx, 1, 1e-9) || approxEqual(sx, -1, 1e-9) {
		// Gimbal lock: fold Z into Y.
		y = math.Atan2(-m[2], m[0])
		z = 0
	} else {
		y = math.Atan2(m[8], m[10])
		z = math.Atan2(m[1], m[5])
	}
	return Vec3{wrapDegrees(mgl64.RadToDeg(x)), wrapDegrees(mgl64.RadToDeg(y)), wrapDegrees(mgl64.RadToDeg(z))}
}

func wrapDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 || d == 0 {
		// Also folds -0 to 0.
		d = 0
	}
	return d
}
