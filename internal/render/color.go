package render

// Color is one RGB pixel value.
type Color struct {
	R, G, B uint8
}

// RGB builds a color from components.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

var (
	Black = Color{}
	White = Color{R: 255, G: 255, B: 255}
)
