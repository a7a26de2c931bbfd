package render

// Rect is an axis-aligned rectangle naming a sub-region of the grid.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the pixel (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Frame is a fixed-size pixel grid. Writes outside the grid are dropped,
// matching the clipping the physical panel would do anyway.
type Frame struct {
	Width  int
	Height int
	pix    []Color
}

// NewFrame allocates a zeroed (black) frame.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		pix:    make([]Color, width*height),
	}
}

// Set writes one pixel. Out-of-bounds writes are ignored.
func (f *Frame) Set(x, y int, c Color) {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return
	}
	f.pix[y*f.Width+x] = c
}

// At reads one pixel. Out-of-bounds reads return black.
func (f *Frame) At(x, y int) Color {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return Color{}
	}
	return f.pix[y*f.Width+x]
}

// Fill paints every pixel.
func (f *Frame) Fill(c Color) {
	for i := range f.pix {
		f.pix[i] = c
	}
}

// FillRect paints a rectangle, clipped to the grid.
func (f *Frame) FillRect(r Rect, c Color) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			f.Set(x, y, c)
		}
	}
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out := NewFrame(f.Width, f.Height)
	copy(out.pix, f.pix)
	return out
}

// Equal reports whether two frames hold identical pixels.
func (f *Frame) Equal(other *Frame) bool {
	if other == nil || f.Width != other.Width || f.Height != other.Height {
		return false
	}
	for i := range f.pix {
		if f.pix[i] != other.pix[i] {
			return false
		}
	}
	return true
}
