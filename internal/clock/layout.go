package clock

import (
	"github.com/ledhaus/matrixd/internal/render"
	"github.com/ledhaus/matrixd/internal/render/font"
)

// Panel geometry. The layout reproduces a Twemco-style flip clock: orange
// body, a 1px outer border in the background color, a 1px inner frame ring,
// and two digit windows sitting on the interior.
const (
	GridWidth  = 64
	GridHeight = 32

	// BaselineOffset positions digit baselines inside a window.
	BaselineOffset = 14

	// Indicator position (am/pm, Tiny face baseline).
	IndicatorX = 4
	IndicatorY = 7
)

var (
	HourWindow   = render.Rect{X: 6, Y: 8, W: 22, H: 16}
	MinuteWindow = render.Rect{X: 36, Y: 8, W: 22, H: 16}

	// AllWindows is the union the clip pass must never touch.
	AllWindows = []render.Rect{HourWindow, MinuteWindow}
)

// Baseline is the digit baseline shared by both windows.
const Baseline = 8 + BaselineOffset

// OutsideColor classifies a pixel outside every window into its themed
// color: the 1px outer border and the interior paint background, the 1px
// inner ring paints the frame color.
func OutsideColor(theme render.Theme, x, y int) render.Color {
	switch {
	case x == 0 || x == GridWidth-1 || y == 0 || y == GridHeight-1:
		return theme.Background
	case x == 1 || x == GridWidth-2 || y == 1 || y == GridHeight-2:
		return theme.Frame
	default:
		return theme.Background
	}
}

// DrawChrome paints the full background and both border rings.
func DrawChrome(f *render.Frame, theme render.Theme) {
	f.Fill(theme.Background)
	for x := 1; x < GridWidth-1; x++ {
		f.Set(x, 1, theme.Frame)
		f.Set(x, GridHeight-2, theme.Frame)
	}
	for y := 1; y < GridHeight-1; y++ {
		f.Set(1, y, theme.Frame)
		f.Set(GridWidth-2, y, theme.Frame)
	}
}

// DrawWindow paints a window's background rectangle.
func DrawWindow(f *render.Frame, theme render.Theme, w render.Rect) {
	f.FillRect(w, theme.Window)
}

// DrawDigits centers text in a window at the shared baseline.
func DrawDigits(f *render.Frame, face font.Face, theme render.Theme, w render.Rect, text string) {
	width := font.TextWidth(face, text)
	x := w.X + (w.W-width)/2
	font.DrawString(f, face, x, w.Y+BaselineOffset, theme.Digit, text)
}

// ClipOutside restores the themed chrome over every pixel outside the union
// of the given windows. Transitioning text is drawn at absolute coordinates
// that overshoot its window; this pass erases the overshoot. It is
// idempotent and never touches a window interior.
func ClipOutside(f *render.Frame, theme render.Theme, windows []render.Rect) {
	for y := 0; y < GridHeight; y++ {
		for x := 0; x < GridWidth; x++ {
			inside := false
			for _, w := range windows {
				if w.Contains(x, y) {
					inside = true
					break
				}
			}
			if !inside {
				f.Set(x, y, OutsideColor(theme, x, y))
			}
		}
	}
}

// DrawIndicator paints the am/pm marker on the chrome. Drawn after the clip
// pass, like the static chrome text on the original clock face.
func DrawIndicator(f *render.Frame, face font.Face, theme render.Theme, text string) {
	font.DrawString(f, face, IndicatorX, IndicatorY, theme.Indicator, text)
}
