// Package geom holds the normalized-coordinate data model shared by all
// pipeline stages: regions of interest, landmark sets, image descriptors and
// letterbox padding, together with the geometric transforms between them.
//
// All coordinates are relative to the image they were computed against:
// x and y live in [0, 1], rotations are radians. Landmark order is fixed by
// the detector model and preserved verbatim by every transform.
package geom

// ImageSize is the pixel size of an image.
type ImageSize struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Image describes a frame flowing through the pipeline. Pixel data stays
// with the executor; the builder and reference stages only need the size.
type Image struct {
	Size ImageSize
}

// Rect is a normalized, possibly rotated rectangle: center, size and
// rotation relative to the image it was computed against.
type Rect struct {
	XCenter  float64 `yaml:"x_center"`
	YCenter  float64 `yaml:"y_center"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Rotation float64 `yaml:"rotation,omitempty"`
}

// WholeImage is the region used when no explicit RoI is provided.
func WholeImage() Rect {
	return Rect{XCenter: 0.5, YCenter: 0.5, Width: 1, Height: 1}
}

// Landmark is a single normalized keypoint. Z is depth relative to the
// region width and roughly on the same scale as X.
type Landmark struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z,omitempty"`
}

// LandmarkSet is an ordered sequence of landmarks. Index positions are
// model-defined and must never be reordered.
type LandmarkSet []Landmark

// Point is a 2D normalized point.
type Point struct {
	X float64
	Y float64
}

// Detection is the intermediate form between a landmark set and its
// enclosing rectangle: an axis-aligned bounding box plus the landmarks
// re-exposed as keypoints for rotation computation.
type Detection struct {
	BoundingBox Rect
	Keypoints   []Point
}

// Padding describes letterbox borders added around an image during
// aspect-preserving resize, as fractions of the padded image size.
type Padding struct {
	Left   float64 `yaml:"left"`
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
}
