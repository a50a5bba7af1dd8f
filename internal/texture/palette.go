package texture

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gitlab.com/tozd/go/errors"
)

// FillColor is one of the five colours the transparency fill tool can paint
// with. The set is closed; the zero value is Magenta.
type FillColor int

const (
	Magenta FillColor = iota
	NeonGreen
	Cyan
	HotPink
	BrightYellow
)

var ErrUnknownColor = errors.New("unknown fill color")

type paletteEntry struct {
	name string
	hex  string
	rgba color.NRGBA
}

var palette = buildPalette([]paletteEntry{
	Magenta:      {name: "Magenta", hex: "#ff00ff"},
	NeonGreen:    {name: "Neon Green", hex: "#00ff00"},
	Cyan:         {name: "Cyan", hex: "#00ffff"},
	HotPink:      {name: "Hot Pink", hex: "#ff69b4"},
	BrightYellow: {name: "Bright Yellow", hex: "#ffff00"},
})

func buildPalette(entries []paletteEntry) []paletteEntry {
	for i := range entries {
		c, err := colorful.Hex(entries[i].hex)
		if err != nil {
			panic(err)
		}
		r, g, b := c.RGB255()
		entries[i].rgba = color.NRGBA{R: r, G: g, B: b, A: 0xff}
	}
	return entries
}

// FillColors lists the palette in display order.
func FillColors() []FillColor {
	return []FillColor{Magenta, NeonGreen, Cyan, HotPink, BrightYellow}
}

func (c FillColor) valid() bool {
	return c >= Magenta && c <= BrightYellow
}

func (c FillColor) String() string {
	if !c.valid() {
		return "unknown"
	}
	return palette[c].name
}

// Hex is the colour as "#rrggbb".
func (c FillColor) Hex() string {
	if !c.valid() {
		return ""
	}
	return palette[c].hex
}

// NRGBA is the exact 4-tuple painted into transparent pixels; alpha is always 255.
func (c FillColor) NRGBA() color.NRGBA {
	if !c.valid() {
		return color.NRGBA{}
	}
	return palette[c].rgba
}

// ParseFillColor accepts a palette name in any case, with or without spaces,
// dashes or underscores ("hot-pink", "HotPink", "Hot Pink").
func ParseFillColor(name string) (FillColor, error) {
	want := normalizeColorName(name)
	for _, c := range FillColors() {
		if normalizeColorName(c.String()) == want {
			return c, nil
		}
	}
	return Magenta, errors.Errorf("%q: %w", name, ErrUnknownColor)
}

func normalizeColorName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(name)))
}

// UnmarshalText lets FillColor appear in config files and flags by name.
func (c *FillColor) UnmarshalText(text []byte) error {
	parsed, err := ParseFillColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c FillColor) MarshalText() ([]byte, error) {
	if !c.valid() {
		return nil, errors.Errorf("%d: %w", int(c), ErrUnknownColor)
	}
	return []byte(c.String()), nil
}
