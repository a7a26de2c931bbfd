package font

// Digit glyphs are composed from seven-segment masks: 8 pixels wide, 14
// tall, 2-pixel segment thickness, matching the blocky flip-clock look of
// a 9x18 panel font.
const (
	digitWidth   = 8
	digitHeight  = 14
	digitAdvance = 9

	segTop = 1 << iota
	segTopRight
	segBottomRight
	segBottom
	segBottomLeft
	segTopLeft
	segMiddle
)

var digitSegments = map[rune]int{
	'0': segTop | segTopRight | segBottomRight | segBottom | segBottomLeft | segTopLeft,
	'1': segTopRight | segBottomRight,
	'2': segTop | segTopRight | segMiddle | segBottomLeft | segBottom,
	'3': segTop | segTopRight | segMiddle | segBottomRight | segBottom,
	'4': segTopLeft | segTopRight | segMiddle | segBottomRight,
	'5': segTop | segTopLeft | segMiddle | segBottomRight | segBottom,
	'6': segTop | segTopLeft | segMiddle | segBottomLeft | segBottomRight | segBottom,
	'7': segTop | segTopRight | segBottomRight,
	'8': segTop | segTopRight | segBottomRight | segBottom | segBottomLeft | segTopLeft | segMiddle,
	'9': segTop | segTopRight | segBottomRight | segBottom | segTopLeft | segMiddle,
}

func renderDigit(segments int) []string {
	grid := make([][]byte, digitHeight)
	for y := range grid {
		grid[y] = make([]byte, digitWidth)
		for x := range grid[y] {
			grid[y][x] = '.'
		}
	}

	fill := func(x0, y0, x1, y1 int) {
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				grid[y][x] = '#'
			}
		}
	}

	if segments&segTop != 0 {
		fill(0, 0, digitWidth-1, 1)
	}
	if segments&segTopRight != 0 {
		fill(digitWidth-2, 0, digitWidth-1, digitHeight/2)
	}
	if segments&segBottomRight != 0 {
		fill(digitWidth-2, digitHeight/2-1, digitWidth-1, digitHeight-1)
	}
	if segments&segBottom != 0 {
		fill(0, digitHeight-2, digitWidth-1, digitHeight-1)
	}
	if segments&segBottomLeft != 0 {
		fill(0, digitHeight/2-1, 1, digitHeight-1)
	}
	if segments&segTopLeft != 0 {
		fill(0, 0, 1, digitHeight/2)
	}
	if segments&segMiddle != 0 {
		fill(0, digitHeight/2-1, digitWidth-1, digitHeight/2)
	}

	rows := make([]string, digitHeight)
	for y, row := range grid {
		rows[y] = string(row)
	}
	return rows
}

func digitGlyphs() map[rune][]string {
	glyphs := make(map[rune][]string, len(digitSegments))
	for ch, segments := range digitSegments {
		glyphs[ch] = renderDigit(segments)
	}
	return glyphs
}

// Digits is the large digit face used inside the content windows.
func Digits() Face {
	return &bitmapFace{
		height:  digitHeight,
		advance: digitAdvance,
		glyphs:  digitGlyphs(),
	}
}

// Tiny is the 4x6 face used for the am/pm indicator.
func Tiny() Face {
	return &bitmapFace{
		height:  6,
		advance: 4,
		glyphs: map[rune][]string{
			'a': {
				"....",
				".##.",
				"...#",
				".###",
				"#..#",
				".###",
			},
			'p': {
				"....",
				"###.",
				"#..#",
				"###.",
				"#...",
				"#...",
			},
			'm': {
				"....",
				"....",
				"###.",
				"#.#.",
				"#.#.",
				"#.#.",
			},
		},
	}
}
