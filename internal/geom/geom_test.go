package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

func assertVecInDelta(t *testing.T, want, got r3.Vec, delta float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta, "x")
	assert.InDelta(t, want.Y, got.Y, delta, "y")
	assert.InDelta(t, want.Z, got.Z, delta, "z")
}

func TestStandardisedDegrees(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{179, 179},
		{180, -180},
		{-180, -180},
		{190, -170},
		{-190, 170},
		{720 + 45, 45},
		{-720 - 45, -45},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, StandardisedDegrees(tc.in), 1e-9, "in=%v", tc.in)
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(1.5, -1.0, 1.0))
	assert.Equal(t, -1.0, Clamp(-1.5, -1.0, 1.0))
	assert.Equal(t, float32(0.25), Clamp(float32(0.25), 0, 1))
}

func TestDihedralAngleFollowsRightHandedRotation(t *testing.T) {
	c1 := r3.Vec{X: 1}
	c2 := r3.Vec{}
	c3 := r3.Vec{Z: 1}
	for _, phi := range []float64{-150, -90, -30, 0, 45, 120, 179} {
		s, c := math.Sincos(DegToRad(phi))
		c4 := r3.Vec{X: c, Y: s, Z: 1}
		assert.InDelta(t, phi, DihedralAngle(c1, c2, c3, c4), 1e-9, "phi=%v", phi)
	}
}

func TestAxisAngleQuatRotatesVector(t *testing.T) {
	q := AxisAngleQuat(r3.Vec{Z: 2}, math.Pi/2)
	assertVecInDelta(t, r3.Vec{Y: 1}, RotateVec(q, r3.Vec{X: 1}), 1e-12)

	id := AxisAngleQuat(r3.Vec{}, 1.3)
	assert.Equal(t, IdentityQuat(), id)
}

func TestEulerQuatRoundTrip(t *testing.T) {
	for _, e := range []Euler{
		{},
		{Heading: 0.3, Attitude: -0.2, Bank: 1.1},
		{Heading: -2.9, Attitude: 1.2, Bank: -3.0},
		{Heading: 3.1, Attitude: -1.4, Bank: 0.01},
	} {
		got := EulerFromQuat(e.ToQuat())
		assert.InDelta(t, e.Heading, got.Heading, 1e-9)
		assert.InDelta(t, e.Attitude, got.Attitude, 1e-9)
		assert.InDelta(t, e.Bank, got.Bank, 1e-9)
	}
}

func TestEulerMatchesHeadingAttitudeBankOrder(t *testing.T) {
	e := Euler{Heading: 0.4, Attitude: 0.7, Bank: -0.5}
	v := r3.Vec{X: 0.3, Y: -1.2, Z: 2.0}
	want := r3.Rotate(r3.Rotate(r3.Rotate(v, e.Bank, r3.Vec{X: 1}), e.Attitude, r3.Vec{Y: 1}), e.Heading, r3.Vec{Z: 1})
	assertVecInDelta(t, want, RotateVec(e.ToQuat(), v), 1e-12)
}

func TestEulerGimbalLockKeepsRotation(t *testing.T) {
	e := Euler{Heading: 0.8, Attitude: math.Pi / 2, Bank: 0.3}
	got := EulerFromQuat(e.ToQuat())
	assert.Zero(t, got.Bank)
	v := r3.Vec{X: 1, Y: 2, Z: 3}
	assertVecInDelta(t, RotateVec(e.ToQuat(), v), RotateVec(got.ToQuat(), v), 1e-5)
}

func TestEulerStandardiseIsEquivalentRotation(t *testing.T) {
	e := Euler{Heading: 4.0, Attitude: 2.0, Bank: -3.5}
	std := e.Standardise()
	require.True(t, std.Standard(), "standardised %+v", std)
	v := r3.Vec{X: -0.5, Y: 0.25, Z: 1.5}
	assertVecInDelta(t, RotateVec(e.ToQuat(), v), RotateVec(std.ToQuat(), v), 1e-9)

	inRange := Euler{Heading: 0.1, Attitude: 0.2, Bank: 0.3}
	assert.Equal(t, inRange, inRange.Standardise())
}

func TestEulerRotateComposesOnTheLeft(t *testing.T) {
	e := Euler{Heading: 0.2, Attitude: 0.1, Bank: -0.4}
	axis := r3.Vec{X: 1, Y: 1}
	rotated := e.Rotate(axis, 0.6)
	v := r3.Vec{X: 1, Y: -1, Z: 0.5}
	want := r3.Rotate(RotateVec(e.ToQuat(), v), 0.6, axis)
	assertVecInDelta(t, want, RotateVec(rotated.ToQuat(), v), 1e-9)
}

func TestAlignVectorsQuat(t *testing.T) {
	cases := []struct {
		v, ref r3.Vec
	}{
		{r3.Vec{X: 1}, r3.Vec{Y: 3}},
		{r3.Vec{X: 1, Y: 1, Z: 1}, r3.Vec{Z: -1}},
		{r3.Vec{X: 2}, r3.Vec{X: 5}},
		{r3.Vec{X: 1}, r3.Vec{X: -1}},
	}
	for _, tc := range cases {
		q := AlignVectorsQuat(tc.v, tc.ref)
		got := UnitOrZero(RotateVec(q, tc.v))
		assertVecInDelta(t, UnitOrZero(tc.ref), got, 1e-9)
	}
	assert.Equal(t, IdentityQuat(), AlignVectorsQuat(r3.Vec{}, r3.Vec{X: 1}))
}

func testPoints() []r3.Vec {
	return []r3.Vec{
		{X: 2.0, Y: 0.4, Z: 0.1},
		{X: -1.5, Y: 0.2, Z: -0.3},
		{X: 0.3, Y: 1.1, Z: 0.2},
		{X: 0.1, Y: -0.8, Z: 0.6},
		{X: -0.6, Y: -0.3, Z: -0.5},
	}
}

func TestPrincipalAxesAreRightHandedAndOrdered(t *testing.T) {
	pa := NewPrincipalAxes(testPoints(), []float64{12, 12, 14, 16, 1})
	assert.LessOrEqual(t, pa.Moment[0], pa.Moment[1])
	assert.LessOrEqual(t, pa.Moment[1], pa.Moment[2])
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 1, r3.Norm(pa.Axis[i]), 1e-9)
	}
	assert.InDelta(t, 0, r3.Dot(pa.Axis[0], pa.Axis[1]), 1e-9)
	assertVecInDelta(t, pa.Axis[2], r3.Cross(pa.Axis[0], pa.Axis[1]), 1e-9)

	c0 := r3.Sub(testPoints()[0], pa.COM)
	assert.GreaterOrEqual(t, r3.Dot(c0, pa.Axis[0]), 0.0)
	assert.GreaterOrEqual(t, r3.Dot(c0, pa.Axis[1]), 0.0)
}

func TestAlignAxesQuatRecoversRigidRotation(t *testing.T) {
	points := testPoints()
	before := NewPrincipalAxes(points, nil)

	rot := AxisAngleQuat(r3.Vec{X: 0.3, Y: -0.7, Z: 0.2}, 1.9)
	moved := make([]r3.Vec, len(points))
	for i, p := range points {
		moved[i] = r3.Add(RotateVec(rot, r3.Sub(p, before.COM)), r3.Vec{X: 5, Y: -2, Z: 1})
	}
	after := NewPrincipalAxes(moved, nil)

	q := AlignAxesQuat(before, after)
	for i := 0; i < 3; i++ {
		assertVecInDelta(t, after.Axis[i], RotateVec(q, before.Axis[i]), 1e-6)
	}

	back := quat.Mul(AlignAxesQuat(after, CartesianAxes()), AlignAxesQuat(CartesianAxes(), after))
	assert.InDelta(t, 1, math.Abs(back.Real), 1e-9)
}

func TestSolventPrincipalAxes(t *testing.T) {
	o := r3.Vec{X: 1, Y: 1, Z: 1}
	h1 := r3.Add(o, r3.Vec{X: 0.96})
	h2 := r3.Add(o, r3.Vec{X: -0.24, Y: 0.93})
	pa := SolventPrincipalAxes(o, h1, h2)
	assert.Equal(t, o, pa.COM)
	assert.Greater(t, r3.Dot(r3.Sub(h1, o), pa.Axis[1]), 0.0)
	assertVecInDelta(t, pa.Axis[2], r3.Cross(pa.Axis[0], pa.Axis[1]), 1e-12)
}

func TestRMSD(t *testing.T) {
	a := []r3.Vec{{X: 0}, {X: 1}}
	b := []r3.Vec{{X: 0, Y: 1}, {X: 1, Y: 1}}
	assert.InDelta(t, 1, RMSD(a, b), 1e-12)
	assert.True(t, math.IsInf(RMSD(a, b[:1]), 1))
}

func TestQuatAngle(t *testing.T) {
	assert.InDelta(t, 0.7, QuatAngle(AxisAngleQuat(r3.Vec{X: 1, Y: 2}, 0.7)), 1e-12)
	// the axis carries the direction, so the angle is not negative here
	assert.InDelta(t, 0.7, QuatAngle(AxisAngleQuat(r3.Vec{Z: 1}, -0.7)), 1e-12)
	// -q is the same rotation; the angle comes back with the other sign
	q := AxisAngleQuat(r3.Vec{Z: 1}, 0.7)
	assert.InDelta(t, -0.7, QuatAngle(quat.Scale(-1, q)), 1e-12)
	assert.Zero(t, QuatAngle(IdentityQuat()))
}
