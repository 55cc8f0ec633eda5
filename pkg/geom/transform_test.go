package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const epsilon = 1e-9

func TestDetectionFromLandmarks(t *testing.T) {
	lms := LandmarkSet{
		{X: 0.2, Y: 0.3},
		{X: 0.6, Y: 0.5},
		{X: 0.4, Y: 0.9},
	}
	d := DetectionFromLandmarks(lms)

	assert.InDelta(t, 0.4, d.BoundingBox.XCenter, epsilon)
	assert.InDelta(t, 0.6, d.BoundingBox.YCenter, epsilon)
	assert.InDelta(t, 0.4, d.BoundingBox.Width, epsilon)
	assert.InDelta(t, 0.6, d.BoundingBox.Height, epsilon)
	require.Len(t, d.Keypoints, 3)
	assert.Equal(t, Point{X: 0.6, Y: 0.5}, d.Keypoints[1])
}

func TestDetectionFromLandmarks_Empty(t *testing.T) {
	d := DetectionFromLandmarks(nil)
	assert.Empty(t, d.Keypoints)
	assert.Equal(t, Rect{}, d.BoundingBox)
}

func TestDetectionToRect_LevelEyesNoRotation(t *testing.T) {
	// Eye corners on a horizontal line: already at the target angle.
	d := Detection{
		BoundingBox: Rect{XCenter: 0.5, YCenter: 0.5, Width: 0.4, Height: 0.4},
		Keypoints:   []Point{{X: 0.3, Y: 0.5}, {X: 0.7, Y: 0.5}},
	}
	rect, err := DetectionToRect(d, ImageSize{Width: 640, Height: 480}, 0, 1, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0, rect.Rotation, epsilon)
	assert.InDelta(t, 0.4, rect.Width, epsilon)
}

func TestDetectionToRect_TiltedFace(t *testing.T) {
	// On a square image, eye corners at 45 degrees (up and to the right)
	// need a -45 degree correction to level out.
	d := Detection{
		Keypoints: []Point{{X: 0.4, Y: 0.6}, {X: 0.6, Y: 0.4}},
	}
	rect, err := DetectionToRect(d, ImageSize{Width: 100, Height: 100}, 0, 1, 0)
	require.NoError(t, err)
	assert.InDelta(t, -math.Pi/4, rect.Rotation, epsilon)
}

func TestDetectionToRect_NonSquareImageUsesPixelSpace(t *testing.T) {
	// The same normalized keypoints on a 2:1 image give a shallower pixel
	// angle than on a square image.
	d := Detection{
		Keypoints: []Point{{X: 0.4, Y: 0.6}, {X: 0.6, Y: 0.4}},
	}
	rect, err := DetectionToRect(d, ImageSize{Width: 200, Height: 100}, 0, 1, 0)
	require.NoError(t, err)
	want := -math.Atan2(20, 40)
	assert.InDelta(t, want, rect.Rotation, epsilon)
}

func TestDetectionToRect_KeypointOutOfRange(t *testing.T) {
	d := Detection{Keypoints: []Point{{X: 0.5, Y: 0.5}}}
	_, err := DetectionToRect(d, ImageSize{Width: 100, Height: 100}, 0, 5, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestTransformRect_ScaleOnly(t *testing.T) {
	r := Rect{XCenter: 0.5, YCenter: 0.5, Width: 0.2, Height: 0.1}
	out := TransformRect(r, ImageSize{Width: 100, Height: 100}, RectTransformOptions{ScaleX: 1.5, ScaleY: 2})
	assert.InDelta(t, 0.3, out.Width, epsilon)
	assert.InDelta(t, 0.2, out.Height, epsilon)
	assert.Equal(t, r.XCenter, out.XCenter, "center is preserved")
}

func TestTransformRect_SquareLong(t *testing.T) {
	// 0.2 of 640px = 128px wide, 0.1 of 480px = 48px tall; the longer
	// scaled pixel side (192px) becomes both sides.
	r := Rect{XCenter: 0.5, YCenter: 0.5, Width: 0.2, Height: 0.1}
	out := TransformRect(r, ImageSize{Width: 640, Height: 480}, RectTransformOptions{
		ScaleX: 1.5, ScaleY: 1.5, SquareLong: true,
	})
	assert.InDelta(t, 192.0/640, out.Width, epsilon)
	assert.InDelta(t, 192.0/480, out.Height, epsilon)
	assert.InDelta(t, out.Width*640, out.Height*480, epsilon, "pixel sides must be equal")
}

func TestRemoveLetterbox(t *testing.T) {
	// 25% borders top and bottom: a point at the vertical center stays
	// centered, the border edges map to 0 and 1.
	pad := Padding{Top: 0.25, Bottom: 0.25}
	lms := LandmarkSet{
		{X: 0.5, Y: 0.5, Z: 0.1},
		{X: 0.5, Y: 0.25},
		{X: 0.5, Y: 0.75},
	}
	out := RemoveLetterbox(lms, pad)
	assert.InDelta(t, 0.5, out[0].Y, epsilon)
	assert.InDelta(t, 0.0, out[1].Y, epsilon)
	assert.InDelta(t, 1.0, out[2].Y, epsilon)
	assert.InDelta(t, 0.5, out[0].X, epsilon, "unpadded axis is untouched")
	assert.InDelta(t, 0.1, out[0].Z, epsilon, "z scales with the horizontal factor")
}

func TestRemoveLetterbox_NoPaddingIsIdentity(t *testing.T) {
	lms := LandmarkSet{{X: 0.3, Y: 0.7, Z: -0.05}}
	out := RemoveLetterbox(lms, Padding{})
	assert.Equal(t, lms, out)
}

func TestProjectLandmarks_WholeImageIsIdentity(t *testing.T) {
	lms := LandmarkSet{{X: 0.3, Y: 0.7, Z: -0.05}, {X: 0.9, Y: 0.1}}
	out := ProjectLandmarks(lms, WholeImage())
	require.Len(t, out, 2)
	for i := range lms {
		assert.InDelta(t, lms[i].X, out[i].X, epsilon)
		assert.InDelta(t, lms[i].Y, out[i].Y, epsilon)
		assert.InDelta(t, lms[i].Z, out[i].Z, epsilon)
	}
}

func TestProjectLandmarks_ScalesAndTranslates(t *testing.T) {
	rect := Rect{XCenter: 0.5, YCenter: 0.5, Width: 0.4, Height: 0.2}
	out := ProjectLandmarks(LandmarkSet{{X: 1, Y: 1, Z: 0.5}}, rect)
	assert.InDelta(t, 0.7, out[0].X, epsilon)
	assert.InDelta(t, 0.6, out[0].Y, epsilon)
	assert.InDelta(t, 0.2, out[0].Z, epsilon, "z scales with region width")
}

func TestProjectLandmarks_RotatedRegion(t *testing.T) {
	// A 90 degree rotation maps the region-local x axis onto the image
	// y axis.
	rect := Rect{XCenter: 0.5, YCenter: 0.5, Width: 0.2, Height: 0.2, Rotation: math.Pi / 2}
	out := ProjectLandmarks(LandmarkSet{{X: 1, Y: 0.5}}, rect)
	assert.InDelta(t, 0.5, out[0].X, epsilon)
	assert.InDelta(t, 0.6, out[0].Y, epsilon)
}

func TestLetterboxProjectionRectRoundTrip(t *testing.T) {
	// The post-inference geometry chain end to end: undo the letterbox,
	// project into the image's space, then re-derive the enclosing rect
	// from the projected landmarks.
	pad := Padding{Top: 0.25, Bottom: 0.25}
	region := Rect{XCenter: 0.5, YCenter: 0.5, Width: 0.4, Height: 0.4}

	// Landmarks on the letterboxed crop; the first two are level after
	// letterbox removal, so the derived rect must come out unrotated.
	crop := LandmarkSet{
		{X: 0.2, Y: 0.5},
		{X: 0.8, Y: 0.5},
		{X: 0.5, Y: 0.35},
		{X: 0.5, Y: 0.65},
	}

	projected := ProjectLandmarks(RemoveLetterbox(crop, pad), region)
	rect, err := DetectionToRect(DetectionFromLandmarks(projected),
		ImageSize{Width: 640, Height: 480}, 0, 1, 0)
	require.NoError(t, err)

	assert.InDelta(t, 0, rect.Rotation, epsilon, "level keypoints derive an unrotated rect")
	assert.InDelta(t, 0.5, rect.XCenter, epsilon)
	assert.InDelta(t, 0.5, rect.YCenter, epsilon)
	assert.InDelta(t, 0.24, rect.Width, epsilon)
	assert.InDelta(t, 0.24, rect.Height, epsilon)

	// The rect tightly encloses the projected extents.
	for _, lm := range projected {
		assert.GreaterOrEqual(t, lm.X+epsilon, rect.XCenter-rect.Width/2)
		assert.LessOrEqual(t, lm.X-epsilon, rect.XCenter+rect.Width/2)
		assert.GreaterOrEqual(t, lm.Y+epsilon, rect.YCenter-rect.Height/2)
		assert.LessOrEqual(t, lm.Y-epsilon, rect.YCenter+rect.Height/2)
	}
}

func TestNormalizeRadians(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{math.Pi / 2, math.Pi / 2},
		{math.Pi, -math.Pi},
		{-math.Pi, -math.Pi},
		{-math.Pi / 2, -math.Pi / 2},
		{3 * math.Pi / 2, -math.Pi / 2},
		{2 * math.Pi, 0},
		{-3 * math.Pi, -math.Pi},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, NormalizeRadians(c.in), epsilon, "NormalizeRadians(%v)", c.in)
	}
}
