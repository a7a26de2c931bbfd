package font

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledhaus/matrixd/internal/render"
)

func TestDigitsMetrics(t *testing.T) {
	face := Digits()

	assert.Equal(t, 14, face.Height())
	for ch := '0'; ch <= '9'; ch++ {
		assert.Equal(t, 9, face.CharWidth(ch), "glyph %c", ch)
	}
	assert.Zero(t, face.CharWidth('x'))
}

func TestTextWidthSkipsSpaces(t *testing.T) {
	face := Digits()
	assert.Equal(t, face.CharWidth('9'), TextWidth(face, " 9"))
	assert.Equal(t, 2*face.CharWidth('0'), TextWidth(face, "05"))
}

func TestDrawStringSkipsSpaces(t *testing.T) {
	face := Digits()

	padded := render.NewFrame(64, 32)
	plain := render.NewFrame(64, 32)
	DrawString(padded, face, 10, 22, render.White, " 9")
	DrawString(plain, face, 10, 22, render.White, "9")

	assert.True(t, padded.Equal(plain), "space padding must not shift glyphs")
}

func TestDrawRespectsBaseline(t *testing.T) {
	face := Digits()
	f := render.NewFrame(64, 32)
	DrawString(f, face, 10, 22, render.White, "8")

	// '8' lights its top segment at the glyph top and bottom segment just
	// above the baseline.
	assert.Equal(t, render.White, f.At(10, 22-face.Height()))
	assert.Equal(t, render.White, f.At(10, 21))
	// Nothing at or below the baseline.
	for x := 0; x < 64; x++ {
		assert.Equal(t, render.Color{}, f.At(x, 22))
	}
}

func TestTinyFace(t *testing.T) {
	face := Tiny()

	assert.Equal(t, 6, face.Height())
	for _, ch := range "apm" {
		assert.Equal(t, 4, face.CharWidth(ch), "glyph %c", ch)
	}
	assert.Zero(t, face.CharWidth('z'))

	f := render.NewFrame(64, 32)
	end := DrawString(f, face, 4, 7, render.White, "am")
	require.Equal(t, 12, end)
}
