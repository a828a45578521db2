package templates

import (
	"fmt"
	"html/template"
	"regexp"
	"strconv"
	"strings"

	"github.com/AtRiskMedia/bannerstack-go/internal/domain/entities/banner"
	"github.com/AtRiskMedia/bannerstack-go/internal/domain/rendering"
	"github.com/AtRiskMedia/bannerstack-go/internal/domain/schema"
)

// DesktopAspectRatio is the desktop banner box.
const DesktopAspectRatio = "21:9"

// MobileBreakpointPx switches the storefront from the desktop to the mobile block.
const MobileBreakpointPx = 767

var keyframeStyles = []banner.AnimationStyle{
	banner.AnimationFade, banner.AnimationSlide, banner.AnimationZoom, banner.AnimationBounce, banner.AnimationPulse,
}

// BaseCSS is the stylesheet shared by the storefront page and the editor preview.
func BaseCSS() template.CSS {
	var b strings.Builder
	b.WriteString(`.bs-banner{position:relative;width:100%}`)
	b.WriteString(`.bs-view{position:relative;width:100%;overflow:hidden}`)
	b.WriteString(`.bs-bg{position:absolute;inset:0;width:100%;height:100%;object-fit:cover}`)
	b.WriteString(`.bs-bg-link{position:absolute;inset:0;display:block}`)
	b.WriteString(`.bs-el{position:absolute;transform:translate(-50%,-50%)}`)
	b.WriteString(`.bs-text span{display:block;white-space:pre-wrap}`)
	b.WriteString(`.bs-img img{display:block;width:100%;height:100%;object-fit:contain}`)
	b.WriteString(`.bs-hit{display:block;cursor:pointer}`)
	b.WriteString(`.bs-caption{position:absolute;inset:0;display:flex;padding:5%}`)
	b.WriteString(`.bs-caption h2{margin:0 0 .5em}`)
	b.WriteString(`.bs-overlay-dark{background:rgba(0,0,0,.45);color:#fff}`)
	b.WriteString(`.bs-overlay-light{background:rgba(255,255,255,.55);color:#111}`)
	b.WriteString(`.bs-overlay-gradient{background:linear-gradient(to top,rgba(0,0,0,.65),transparent);color:#fff}`)
	b.WriteString(`.bs-placeholder{opacity:.5;font-style:italic}`)
	b.WriteString(`[data-selected="true"]{outline:2px dashed #3b82f6;outline-offset:2px}`)
	b.WriteString(`[data-dragging="true"]{cursor:grabbing;opacity:.85}`)
	b.WriteString(`.bs-storefront .bs-text{pointer-events:none}`)
	b.WriteString(`.bs-storefront .bs-view-mobile{display:none}`)
	fmt.Fprintf(&b, `@media (max-width:%dpx){.bs-storefront .bs-view-desktop{display:none}.bs-storefront .bs-view-mobile{display:block}}`, MobileBreakpointPx)
	b.WriteString(string(KeyframesCSS()))
	return template.CSS(b.String())
}

// KeyframesCSS emits one @keyframes rule per animated style, derived from the motion
// descriptors so the stylesheet and the composer cannot disagree.
func KeyframesCSS() template.CSS {
	var b strings.Builder
	for _, style := range keyframeStyles {
		m := banner.ComposeMotion(style, banner.DefaultAnimationDelay, banner.DefaultAnimationDuration)
		name := rendering.KeyframeName(m)
		if m.Keyframes != nil {
			fmt.Fprintf(&b, "@keyframes %s{", name)
			steps := len(m.Keyframes.Opacity)
			for i := 0; i < steps; i++ {
				pct := 0
				if steps > 1 {
					pct = i * 100 / (steps - 1)
				}
				fmt.Fprintf(&b, "%d%%{opacity:%s;transform:scale(%s)}", pct,
					num(m.Keyframes.Opacity[i]), num(m.Keyframes.Scale[i]))
			}
			b.WriteString("}")
			continue
		}
		fmt.Fprintf(&b, "@keyframes %s{from{%s}to{%s}}", name, frameCSS(m.Initial), frameCSS(m.Animate))
	}
	return template.CSS(b.String())
}

func frameCSS(f banner.Frame) string {
	return fmt.Sprintf("opacity:%s;transform:translate(%spx,%spx) scale(%s)", num(f.Opacity), num(f.X), num(f.Y), num(f.Scale))
}

// animationCSS plays a motion descriptor, or returns "" for none.
func animationCSS(m banner.Motion) string {
	name := rendering.KeyframeName(m)
	if name == "" {
		return ""
	}
	iteration := "1"
	fill := "both"
	if m.Transition.Repeat {
		iteration = "infinite"
		fill = "none"
	}
	return fmt.Sprintf("animation:%s %ss %s %ss %s %s;", name, num(m.Transition.Duration),
		easingCSS(m.Transition.Easing), num(m.Transition.Delay), iteration, fill)
}

func easingCSS(e banner.Easing) string {
	switch e {
	case banner.EasingEaseInOut:
		return "ease-in-out"
	case banner.EasingSpring:
		return "cubic-bezier(0.34,1.56,0.64,1)"
	case banner.EasingNone:
		return "linear"
	default:
		return "ease-out"
	}
}

// aspectCSS turns "4:5" into "4/5", falling back when the value is malformed.
func aspectCSS(ratio, fallback string) string {
	parts := strings.SplitN(ratio, ":", 2)
	if len(parts) == 2 {
		w, errW := strconv.ParseFloat(parts[0], 64)
		h, errH := strconv.ParseFloat(parts[1], 64)
		if errW == nil && errH == nil && w > 0 && h > 0 {
			return num(w) + "/" + num(h)
		}
	}
	if fallback != "" && fallback != ratio {
		return aspectCSS(fallback, "")
	}
	return "16/9"
}

var safeCSSToken = regexp.MustCompile(`^[-0-9a-zA-Z.,#%()\s]{1,64}$`)

// cssToken passes a free-form CSS value through only if it cannot break out of a
// declaration. Stored element lists are re-hydrated without validation.
func cssToken(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" || !safeCSSToken.MatchString(v) {
		return "", false
	}
	return v, true
}

func textCSS(t *banner.TextElement, p banner.TextPlacement) string {
	var b strings.Builder
	fmt.Fprintf(&b, "font-size:%spx;", num(p.FontSize))

	family := banner.DefaultFontFamily
	if schema.IsAllowedFontFamily(t.FontFamily) {
		family = t.FontFamily
	}
	fmt.Fprintf(&b, "font-family:'%s',sans-serif;", family)

	if w, ok := cssToken(string(t.FontWeight)); ok {
		fmt.Fprintf(&b, "font-weight:%s;", w)
	}
	color := banner.DefaultColor
	if schema.IsCSSColor(t.Color) {
		color = strings.TrimSpace(t.Color)
	}
	fmt.Fprintf(&b, "color:%s;", color)

	switch t.TextAlign {
	case banner.AlignLeft, banner.AlignRight:
		fmt.Fprintf(&b, "text-align:%s;", t.TextAlign)
	default:
		b.WriteString("text-align:center;")
	}
	if t.TextShadow != nil {
		if v, ok := cssToken(*t.TextShadow); ok {
			fmt.Fprintf(&b, "text-shadow:%s;", v)
		}
	}
	if t.LetterSpacing != nil {
		if v, ok := cssToken(string(*t.LetterSpacing)); ok {
			fmt.Fprintf(&b, "letter-spacing:%s;", v)
		}
	}
	if t.LineHeight != nil {
		if v, ok := cssToken(string(*t.LineHeight)); ok {
			fmt.Fprintf(&b, "line-height:%s;", v)
		}
	}
	return b.String()
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
