package geom

import (
	"fmt"
	"math"
)

// DetectionFromLandmarks computes the axis-aligned extents of a landmark set
// and carries the landmarks along as keypoints.
func DetectionFromLandmarks(lms LandmarkSet) Detection {
	d := Detection{Keypoints: make([]Point, len(lms))}
	if len(lms) == 0 {
		return d
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i, lm := range lms {
		minX = math.Min(minX, lm.X)
		minY = math.Min(minY, lm.Y)
		maxX = math.Max(maxX, lm.X)
		maxY = math.Max(maxY, lm.Y)
		d.Keypoints[i] = Point{X: lm.X, Y: lm.Y}
	}
	d.BoundingBox = Rect{
		XCenter: (minX + maxX) / 2,
		YCenter: (minY + maxY) / 2,
		Width:   maxX - minX,
		Height:  maxY - minY,
	}
	return d
}

// DetectionToRect converts a detection into a rotated rectangle. The
// rotation is derived from two keypoints (for faces: 33, the left eye outer
// corner, and 263, the right eye outer corner) aligned to targetAngle
// radians. The angle is computed in pixel space so non-square images do not
// skew it.
func DetectionToRect(d Detection, size ImageSize, startKeypoint, endKeypoint int, targetAngle float64) (Rect, error) {
	if startKeypoint < 0 || startKeypoint >= len(d.Keypoints) ||
		endKeypoint < 0 || endKeypoint >= len(d.Keypoints) {
		return Rect{}, fmt.Errorf("geom: rotation keypoints %d, %d out of range for %d keypoints",
			startKeypoint, endKeypoint, len(d.Keypoints))
	}
	x0 := d.Keypoints[startKeypoint].X * float64(size.Width)
	y0 := d.Keypoints[startKeypoint].Y * float64(size.Height)
	x1 := d.Keypoints[endKeypoint].X * float64(size.Width)
	y1 := d.Keypoints[endKeypoint].Y * float64(size.Height)

	rect := d.BoundingBox
	rect.Rotation = NormalizeRadians(targetAngle - math.Atan2(-(y1-y0), x1-x0))
	return rect, nil
}

// RectTransformOptions controls TransformRect.
type RectTransformOptions struct {
	ScaleX float64
	ScaleY float64
	// SquareLong forces the result to a square whose side is the longer
	// of the scaled width/height, measured in pixels.
	SquareLong bool
}

// TransformRect scales a normalized rectangle around its center. With
// SquareLong the longer pixel side wins, which gives tracking rectangles a
// motion margin that survives image aspect ratios.
func TransformRect(r Rect, size ImageSize, o RectTransformOptions) Rect {
	w := r.Width * o.ScaleX
	h := r.Height * o.ScaleY
	if o.SquareLong {
		longSide := math.Max(w*float64(size.Width), h*float64(size.Height))
		w = longSide / float64(size.Width)
		h = longSide / float64(size.Height)
	}
	out := r
	out.Width = w
	out.Height = h
	return out
}

// RemoveLetterbox maps landmarks detected on a letterboxed crop back onto
// the same crop without the padding borders. Z is rescaled by the horizontal
// factor, matching its region-width scale.
func RemoveLetterbox(lms LandmarkSet, pad Padding) LandmarkSet {
	leftAndRight := pad.Left + pad.Right
	topAndBottom := pad.Top + pad.Bottom
	out := make(LandmarkSet, len(lms))
	for i, lm := range lms {
		out[i] = Landmark{
			X: (lm.X - pad.Left) / (1 - leftAndRight),
			Y: (lm.Y - pad.Top) / (1 - topAndBottom),
			Z: lm.Z / (1 - leftAndRight),
		}
	}
	return out
}

// ProjectLandmarks maps landmarks from the normalized space of a (possibly
// rotated) region back into the coordinate space of the image the region
// was cut from.
func ProjectLandmarks(lms LandmarkSet, r Rect) LandmarkSet {
	sin, cos := math.Sincos(r.Rotation)
	out := make(LandmarkSet, len(lms))
	for i, lm := range lms {
		x := lm.X - 0.5
		y := lm.Y - 0.5
		rx := cos*x - sin*y
		ry := sin*x + cos*y
		out[i] = Landmark{
			X: rx*r.Width + r.XCenter,
			Y: ry*r.Height + r.YCenter,
			Z: lm.Z * r.Width,
		}
	}
	return out
}

// NormalizeRadians wraps an angle into [-pi, pi).
func NormalizeRadians(angle float64) float64 {
	return angle - 2*math.Pi*math.Floor((angle-(-math.Pi))/(2*math.Pi))
}
