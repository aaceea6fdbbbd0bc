package backend

// Color represents a terminal color.
// Values 0-255 are palette colors, RGB colors carry a marker bit.
type Color int32

const (
	ColorDefault Color = -1
	ColorBlack   Color = 0
	ColorRed     Color = 1
	ColorGreen   Color = 2
	ColorYellow  Color = 3
	ColorBlue    Color = 4
	ColorMagenta Color = 5
	ColorCyan    Color = 6
	ColorWhite   Color = 7
)

const rgbMarker = 0x01000000

// ColorRGB creates a true color from RGB components.
func ColorRGB(r, g, b uint8) Color {
	return Color(int32(r)<<16 | int32(g)<<8 | int32(b) | rgbMarker)
}

// IsRGB returns true if this is a true color (not palette).
func (c Color) IsRGB() bool {
	return c != ColorDefault && c&rgbMarker != 0
}

// RGB returns the components of an RGB color, zeros otherwise.
func (c Color) RGB() (r, g, b uint8) {
	if !c.IsRGB() {
		return 0, 0, 0
	}
	return uint8((c >> 16) & 0xFF), uint8((c >> 8) & 0xFF), uint8(c & 0xFF)
}

// AttrMask represents text attributes.
type AttrMask uint32

const (
	AttrBold AttrMask = 1 << iota
	AttrBlink
	AttrReverse
	AttrUnderline
	AttrDim
	AttrItalic
	AttrStrikeThrough
)

// Style combines foreground, background colors and attributes.
type Style struct {
	fg    Color
	bg    Color
	attrs AttrMask
}

// DefaultStyle returns the default style (default colors, no attributes).
func DefaultStyle() Style {
	return Style{fg: ColorDefault, bg: ColorDefault}
}

// Foreground sets the foreground color.
func (s Style) Foreground(c Color) Style {
	s.fg = c
	return s
}

// Background sets the background color.
func (s Style) Background(c Color) Style {
	s.bg = c
	return s
}

// WithAttrs turns the given attributes on or off.
func (s Style) WithAttrs(mask AttrMask, on bool) Style {
	if on {
		s.attrs |= mask
	} else {
		s.attrs &^= mask
	}
	return s
}

// Bold enables or disables bold.
func (s Style) Bold(on bool) Style { return s.WithAttrs(AttrBold, on) }

// Italic enables or disables italic.
func (s Style) Italic(on bool) Style { return s.WithAttrs(AttrItalic, on) }

// Underline enables or disables underline.
func (s Style) Underline(on bool) Style { return s.WithAttrs(AttrUnderline, on) }

// Reverse enables or disables reverse video.
func (s Style) Reverse(on bool) Style { return s.WithAttrs(AttrReverse, on) }

// Dim enables or disables dim.
func (s Style) Dim(on bool) Style { return s.WithAttrs(AttrDim, on) }

// Decompose returns the foreground, background, and attributes.
func (s Style) Decompose() (fg, bg Color, attrs AttrMask) {
	return s.fg, s.bg, s.attrs
}

// StylePatch is a partial style applied on top of an inherited one.
// Nil colors leave the base color untouched.
type StylePatch struct {
	FG     *Color
	BG     *Color
	Add    AttrMask
	Remove AttrMask
}

// Patch returns an empty patch.
func Patch() StylePatch {
	return StylePatch{}
}

// WithFG sets the foreground override.
func (p StylePatch) WithFG(c Color) StylePatch {
	p.FG = &c
	return p
}

// WithBG sets the background override.
func (p StylePatch) WithBG(c Color) StylePatch {
	p.BG = &c
	return p
}

// WithAdd adds attributes.
func (p StylePatch) WithAdd(mask AttrMask) StylePatch {
	p.Add |= mask
	p.Remove &^= mask
	return p
}

// WithRemove strips attributes.
func (p StylePatch) WithRemove(mask AttrMask) StylePatch {
	p.Remove |= mask
	p.Add &^= mask
	return p
}

// IsEmpty reports whether applying the patch is a no-op.
func (p StylePatch) IsEmpty() bool {
	return p.FG == nil && p.BG == nil && p.Add == 0 && p.Remove == 0
}

// Apply returns base with the patch applied.
func (p StylePatch) Apply(base Style) Style {
	if p.FG != nil {
		base.fg = *p.FG
	}
	if p.BG != nil {
		base.bg = *p.BG
	}
	base.attrs = (base.attrs | p.Add) &^ p.Remove
	return base
}

// Then composes two patches: the result applies p and then inner.
// Inner (the descendant's patch) wins on conflicts.
func (p StylePatch) Then(inner StylePatch) StylePatch {
	out := p
	if inner.FG != nil {
		out.FG = inner.FG
	}
	if inner.BG != nil {
		out.BG = inner.BG
	}
	out.Add = (out.Add &^ inner.Remove) | inner.Add
	out.Remove = (out.Remove &^ inner.Add) | inner.Remove
	return out
}
