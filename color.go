// Package unifiedui compiles declarative UI trees into a platform-neutral
// representation and fans it out to renderer adapters.
package unifiedui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Attribute represents text styling attributes that can be combined.
type Attribute uint8

const (
	AttrBold Attribute = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrInverse
	AttrStrikethrough
)

// AttrNone is the empty attribute set.
const AttrNone Attribute = 0

var attrNames = map[string]Attribute{
	"bold":          AttrBold,
	"dim":           AttrDim,
	"faint":         AttrDim,
	"italic":        AttrItalic,
	"underline":     AttrUnderline,
	"blink":         AttrBlink,
	"inverse":       AttrInverse,
	"reverse":       AttrInverse,
	"strikethrough": AttrStrikethrough,
}

var attrOrder = []struct {
	attr Attribute
	name string
}{
	{AttrBold, "bold"},
	{AttrDim, "dim"},
	{AttrItalic, "italic"},
	{AttrUnderline, "underline"},
	{AttrBlink, "blink"},
	{AttrInverse, "inverse"},
	{AttrStrikethrough, "strikethrough"},
}

// Has returns true if the attribute set contains the given attribute.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// With returns a new attribute set with the given attribute added.
func (a Attribute) With(attr Attribute) Attribute {
	return a | attr
}

// Without returns a new attribute set with the given attribute removed.
func (a Attribute) Without(attr Attribute) Attribute {
	return a &^ attr
}

// Names returns the attribute names in a stable order.
func (a Attribute) Names() []string {
	var names []string
	for _, e := range attrOrder {
		if a.Has(e.attr) {
			names = append(names, e.name)
		}
	}
	return names
}

func (a Attribute) String() string {
	if a == AttrNone {
		return "none"
	}
	return strings.Join(a.Names(), "|")
}

// ParseAttribute parses a single attribute name such as "bold".
func ParseAttribute(name string) (Attribute, error) {
	a, ok := attrNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return AttrNone, fmt.Errorf("unknown text attribute %q", name)
	}
	return a, nil
}

// ColorMode represents the color mode for a color value.
type ColorMode uint8

const (
	ColorDefault ColorMode = iota // Renderer default
	Color16                       // Basic 16 colors (0-15)
	Color256                      // 256 color palette (0-255)
	ColorRGB                      // 24-bit true color
)

// Color represents a renderer-neutral color.
type Color struct {
	Mode    ColorMode
	R, G, B uint8 // For RGB mode
	Index   uint8 // For 16/256 mode
}

// DefaultColor returns the renderer's default color.
func DefaultColor() Color {
	return Color{Mode: ColorDefault}
}

// BasicColor returns one of the 16 basic colors.
func BasicColor(index uint8) Color {
	return Color{Mode: Color16, Index: index}
}

// PaletteColor returns one of the 256 palette colors.
func PaletteColor(index uint8) Color {
	return Color{Mode: Color256, Index: index}
}

// RGB returns a 24-bit true color.
func RGB(r, g, b uint8) Color {
	return Color{Mode: ColorRGB, R: r, G: g, B: b}
}

// Hex returns a 24-bit true color from a hex value (e.g., 0xFF5500).
func Hex(hex uint32) Color {
	return Color{
		Mode: ColorRGB,
		R:    uint8((hex >> 16) & 0xFF),
		G:    uint8((hex >> 8) & 0xFF),
		B:    uint8(hex & 0xFF),
	}
}

// Standard basic colors for convenience.
var (
	Black   = BasicColor(0)
	Red     = BasicColor(1)
	Green   = BasicColor(2)
	Yellow  = BasicColor(3)
	Blue    = BasicColor(4)
	Magenta = BasicColor(5)
	Cyan    = BasicColor(6)
	White   = BasicColor(7)

	// Bright variants
	BrightBlack   = BasicColor(8)
	BrightRed     = BasicColor(9)
	BrightGreen   = BasicColor(10)
	BrightYellow  = BasicColor(11)
	BrightBlue    = BasicColor(12)
	BrightMagenta = BasicColor(13)
	BrightCyan    = BasicColor(14)
	BrightWhite   = BasicColor(15)
)

var colorNames = map[string]Color{
	"default":        DefaultColor(),
	"black":          Black,
	"red":            Red,
	"green":          Green,
	"yellow":         Yellow,
	"blue":           Blue,
	"magenta":        Magenta,
	"cyan":           Cyan,
	"white":          White,
	"gray":           BrightBlack,
	"grey":           BrightBlack,
	"bright_black":   BrightBlack,
	"bright_red":     BrightRed,
	"bright_green":   BrightGreen,
	"bright_yellow":  BrightYellow,
	"bright_blue":    BrightBlue,
	"bright_magenta": BrightMagenta,
	"bright_cyan":    BrightCyan,
	"bright_white":   BrightWhite,
}

// ColorNames returns the accepted color names, sorted.
func ColorNames() []string {
	names := make([]string, 0, len(colorNames))
	for n := range colorNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ParseColor parses a color name ("red", "bright_cyan"), a palette index
// ("208") or a hex triplet ("#ff5500", "#f50").
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := colorNames[s]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") {
		h := s[1:]
		if len(h) == 3 {
			h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
		}
		if len(h) != 6 {
			return Color{}, fmt.Errorf("invalid hex color %q", s)
		}
		v, err := strconv.ParseUint(h, 16, 32)
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		return Hex(uint32(v)), nil
	}
	if n, err := strconv.ParseUint(s, 10, 8); err == nil {
		if n < 16 {
			return BasicColor(uint8(n)), nil
		}
		return PaletteColor(uint8(n)), nil
	}
	return Color{}, fmt.Errorf("unknown color %q", s)
}

var basicRGB = [16][3]uint8{
	{0, 0, 0}, {205, 0, 0}, {0, 205, 0}, {205, 205, 0},
	{0, 0, 238}, {205, 0, 205}, {0, 205, 205}, {229, 229, 229},
	{127, 127, 127}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
	{92, 92, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
}

var cubeLevels = [6]uint8{0, 95, 135, 175, 215, 255}

// RGBValues returns the 24-bit equivalent of the color using the xterm palette.
// ok is false for the default color.
func (c Color) RGBValues() (r, g, b uint8, ok bool) {
	switch c.Mode {
	case ColorRGB:
		return c.R, c.G, c.B, true
	case Color16:
		v := basicRGB[c.Index&0x0F]
		return v[0], v[1], v[2], true
	case Color256:
		i := int(c.Index)
		switch {
		case i < 16:
			v := basicRGB[i]
			return v[0], v[1], v[2], true
		case i < 232:
			i -= 16
			return cubeLevels[i/36], cubeLevels[(i/6)%6], cubeLevels[i%6], true
		default:
			gray := uint8(8 + 10*(i-232))
			return gray, gray, gray, true
		}
	}
	return 0, 0, 0, false
}

// HexString returns the color as "#rrggbb", or "" for the default color.
func (c Color) HexString() string {
	r, g, b, ok := c.RGBValues()
	if !ok {
		return ""
	}
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// Equal returns true if two colors are equal.
func (c Color) Equal(other Color) bool {
	return c == other
}
