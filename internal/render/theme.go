package render

// Theme names the five colors a display program paints with.
type Theme struct {
	Name       string
	Background Color
	Frame      Color
	Window     Color
	Digit      Color
	Indicator  Color
}

// DefaultTheme is the classic flip-clock look: orange body, white trim,
// black digit windows.
const DefaultTheme = "orange"

// themes is the fixed cycle order.
var themes = []Theme{
	{
		Name:       "orange",
		Background: RGB(200, 80, 0),
		Frame:      White,
		Window:     Black,
		Digit:      White,
		Indicator:  White,
	},
	{
		Name:       "light_gray",
		Background: RGB(140, 140, 140),
		Frame:      White,
		Window:     Black,
		Digit:      White,
		Indicator:  White,
	},
	{
		Name:       "dark_green",
		Background: RGB(0, 90, 40),
		Frame:      White,
		Window:     Black,
		Digit:      White,
		Indicator:  White,
	},
	{
		Name:       "light_blue",
		Background: RGB(80, 140, 200),
		Frame:      White,
		Window:     Black,
		Digit:      White,
		Indicator:  White,
	},
}

// ResolveTheme looks a theme up by name.
func ResolveTheme(name string) (Theme, bool) {
	for _, t := range themes {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// NextTheme returns the name after the given one in cycle order, wrapping
// at the end. Unknown names restart the cycle.
func NextTheme(name string) string {
	for i, t := range themes {
		if t.Name == name {
			return themes[(i+1)%len(themes)].Name
		}
	}
	return themes[0].Name
}

// ThemeNames returns the cycle order.
func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
