package testutil

import (
	"testing"

	"github.com/holmberd/go-reflectionstore/profile"
	"github.com/holmberd/go-reflectionstore/reflection"
)

// NewReflection returns a fully populated reflection whose profiles all have
// the given shape. Values are derived from seed so different seeds give
// different records. An empty shape gives empty profiles.
func NewReflection(t testing.TB, seed int, shape ...int) *reflection.Reflection {
	t.Helper()
	n, err := profile.ElementCount(shape)
	if err != nil {
		t.Fatalf("invalid profile shape %v: %v", shape, err)
	}
	data := make([]float64, n)
	mask := make([]int, n)
	background := make([]float64, n)
	transformed := make([]float64, n)
	for i := range n {
		data[i] = float64(seed*1000+i) + 0.5
		mask[i] = (seed + i) % 7
		background[i] = float64(i) * 0.25
		transformed[i] = -float64(i) / 3
	}

	f := float64(seed)
	r, err := reflection.NewBuilder().
		MillerIndex(seed, -2*seed, 3).
		Status(reflection.Status(seed) | 1<<4).
		Entering(seed%2 == 0).
		RotationAngle(0.1 * f).
		BeamVector(reflection.Vec3{0.001, -0.002, 1.02}).
		ImageCoord(reflection.Vec2{1024.5 + f, 987.25}, reflection.Vec2{177.2, 170.7 - f}).
		FrameNumber(seed + 10).
		PanelNumber(seed % 4).
		BoundingBox(reflection.BoundingBox{10, 20, 30, 41, 5, 8}).
		Centroid(
			reflection.Vec3{15.1, 35.6, 6.5 + f},
			reflection.Vec3{0.01, 0.02, 0.03},
			reflection.Vec3{1.5, 1.75, 0.5},
		).
		Intensity(1234.5+f, 56.25).
		CorrectedIntensity(1300.125, 60.5).
		Shoebox(
			profile.MustNew(shape, data),
			profile.MustNew(shape, mask),
			profile.MustNew(shape, background),
		).
		TransformedShoebox(profile.MustNew(shape, transformed)).
		Build()
	if err != nil {
		t.Fatalf("failed to build reflection: %v", err)
	}
	return r
}
