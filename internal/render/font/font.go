package font

import "github.com/ledhaus/matrixd/internal/render"

// Face renders single glyphs at a baseline, like a BDF font would: the
// given y is the baseline, glyphs extend Height pixels above it.
type Face interface {
	// CharWidth returns the advance for a glyph, 0 for unknown glyphs.
	CharWidth(ch rune) int
	// Height returns the glyph height above the baseline.
	Height() int
	// Draw renders one glyph with its top-left at (x, baselineY-Height)
	// and returns the advance.
	Draw(f *render.Frame, x, baselineY int, c render.Color, ch rune) int
}

// TextWidth sums advances, skipping spaces. Space-padded strings measure
// and render the same as unpadded ones.
func TextWidth(face Face, text string) int {
	w := 0
	for _, ch := range text {
		if ch == ' ' {
			continue
		}
		w += face.CharWidth(ch)
	}
	return w
}

// DrawString renders text left to right from x at the given baseline,
// skipping spaces, and returns the x after the last glyph.
func DrawString(f *render.Frame, face Face, x, baselineY int, c render.Color, text string) int {
	for _, ch := range text {
		if ch == ' ' {
			continue
		}
		x += face.Draw(f, x, baselineY, c, ch)
	}
	return x
}

// bitmapFace renders glyphs from row-string bitmaps ('#' = on).
type bitmapFace struct {
	height  int
	advance int
	glyphs  map[rune][]string
}

func (b *bitmapFace) CharWidth(ch rune) int {
	if _, ok := b.glyphs[ch]; !ok {
		return 0
	}
	return b.advance
}

func (b *bitmapFace) Height() int { return b.height }

func (b *bitmapFace) Draw(f *render.Frame, x, baselineY int, c render.Color, ch rune) int {
	rows, ok := b.glyphs[ch]
	if !ok {
		return 0
	}
	top := baselineY - b.height
	for dy, row := range rows {
		for dx, cell := range row {
			if cell == '#' {
				f.Set(x+dx, top+dy, c)
			}
		}
	}
	return b.advance
}
