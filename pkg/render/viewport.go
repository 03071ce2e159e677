package render

// Viewport describes the output resolution of a render.
type Viewport struct {
	Width  int
	Height int
	// AspectRatio overrides Width/Height when positive
	AspectRatio float64
}

// NewViewport creates a viewport whose aspect ratio follows its size.
func NewViewport(width, height int) Viewport {
	return Viewport{Width: width, Height: height}
}

// Aspect returns the horizontal stretch applied to camera rays.
func (v Viewport) Aspect() float64 {
	if v.AspectRatio > 0 {
		return v.AspectRatio
	}
	if v.Height <= 0 {
		return 1
	}
	return float64(v.Width) / float64(v.Height)
}

// Empty reports whether the viewport has no pixels.
func (v Viewport) Empty() bool {
	return v.Width <= 0 || v.Height <= 0
}

// Pixels returns the number of pixels covered.
func (v Viewport) Pixels() int {
	if v.Empty() {
		return 0
	}
	return v.Width * v.Height
}
