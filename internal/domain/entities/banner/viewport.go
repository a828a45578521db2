package banner

import "math"

// Viewport selects which slot of a positional field is read or written.
type Viewport string

const (
	ViewportDesktop Viewport = "desktop"
	ViewportMobile  Viewport = "mobile"
)

// ParseViewport maps anything other than "mobile" to desktop.
func ParseViewport(s string) Viewport {
	if Viewport(s) == ViewportMobile {
		return ViewportMobile
	}
	return ViewportDesktop
}

// Legacy mobile font fallback: desktop size scaled down, never below the floor.
const (
	MobileFontScale   = 0.7
	MinMobileFontSize = 12.0
)

// Placement bounds, in percent of the container.
const (
	MinPercent    = 0.0
	MaxPercent    = 100.0
	MinImageSize  = 5.0
	MaxImageSize  = 100.0
	MinFontSize   = 8.0
	MaxFontSize   = 200.0
	MinTapTargetP = 50.0 // logical pixels
)

// Point is a position in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Rect is a container bounding box in pixels.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty reports whether the box has no area to map percentages onto.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Relative converts a client-space point to a container-relative one.
func (r Rect) Relative(p Point) Point { return Point{X: p.X - r.Left, Y: p.Y - r.Top} }

// Clamp bounds v to [lo, hi]. NaN collapses to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampPercent bounds a coordinate to [0,100].
func ClampPercent(v float64) float64 { return Clamp(v, MinPercent, MaxPercent) }

// PercentToPixels maps a percentage onto a container dimension.
func PercentToPixels(percent, size float64) float64 { return percent / 100 * size }

// PixelsToPercent maps a container-relative pixel offset to a percentage.
func PixelsToPercent(px, size float64) float64 {
	if size <= 0 {
		return 0
	}
	return px / size * 100
}

// TextPlacement is a text element resolved for one viewport.
type TextPlacement struct {
	X        float64
	Y        float64
	FontSize float64
}

// ImagePlacement is an image element resolved for one viewport. A nil Height keeps the
// asset's aspect ratio.
type ImagePlacement struct {
	X      float64
	Y      float64
	Width  float64
	Height *float64
}

// ResolveText selects desktop or mobile values for a text element.
func ResolveText(t *TextElement, vp Viewport) TextPlacement {
	if vp != ViewportMobile {
		return TextPlacement{X: t.X, Y: t.Y, FontSize: t.FontSize}
	}
	fontSize := math.Max(MinMobileFontSize, t.FontSize*MobileFontScale)
	if t.MobileFontSize != nil {
		fontSize = *t.MobileFontSize
	}
	return TextPlacement{
		X:        orDefault(t.MobileX, t.X),
		Y:        orDefault(t.MobileY, t.Y),
		FontSize: fontSize,
	}
}

// ResolveImage selects desktop or mobile values for an image element.
func ResolveImage(i *ImageElement, vp Viewport) ImagePlacement {
	if vp != ViewportMobile {
		return ImagePlacement{X: i.X, Y: i.Y, Width: i.Width, Height: cloneFloat(i.Height)}
	}
	height := cloneFloat(i.Height)
	if i.MobileHeight != nil {
		height = cloneFloat(i.MobileHeight)
	}
	return ImagePlacement{
		X:      orDefault(i.MobileX, i.X),
		Y:      orDefault(i.MobileY, i.Y),
		Width:  orDefault(i.MobileWidth, i.Width),
		Height: height,
	}
}

// ResolvePosition returns the percentage position of any element for a viewport.
func ResolvePosition(el Element, vp Viewport) (x, y float64) {
	switch e := el.(type) {
	case *TextElement:
		p := ResolveText(e, vp)
		return p.X, p.Y
	case *ImageElement:
		p := ResolveImage(e, vp)
		return p.X, p.Y
	default:
		return DefaultPosition, DefaultPosition
	}
}

// PixelPosition converts an element's resolved position to container-relative pixels.
func PixelPosition(el Element, vp Viewport, container Rect) Point {
	x, y := ResolvePosition(el, vp)
	return Point{X: PercentToPixels(x, container.Width), Y: PercentToPixels(y, container.Height)}
}

// WithPosition returns a copy of el with its position written to the viewport's slot:
// x/y on desktop, mobileX/mobileY on mobile.
func WithPosition(el Element, vp Viewport, x, y float64) Element {
	next := el.Clone()
	switch e := next.(type) {
	case *TextElement:
		if vp == ViewportMobile {
			e.MobileX, e.MobileY = &x, &y
		} else {
			e.X, e.Y = x, y
		}
	case *ImageElement:
		if vp == ViewportMobile {
			e.MobileX, e.MobileY = &x, &y
		} else {
			e.X, e.Y = x, y
		}
	}
	return next
}

func orDefault(override *float64, fallback float64) float64 {
	if override != nil {
		return *override
	}
	return fallback
}
