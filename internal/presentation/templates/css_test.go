package templates

import (
	"strings"
	"testing"

	"github.com/AtRiskMedia/bannerstack-go/internal/domain/entities/banner"
)

func TestAnimationCSS(t *testing.T) {
	tests := []struct {
		style banner.AnimationStyle
		want  string
	}{
		{banner.AnimationFade, "animation:bs-fade 0.8s ease-out 0s 1 both;"},
		{banner.AnimationBounce, "animation:bs-bounce 0.8s cubic-bezier(0.34,1.56,0.64,1) 0s 1 both;"},
		{banner.AnimationPulse, "animation:bs-pulse 1.6s ease-in-out 0s infinite none;"},
		{banner.AnimationNone, ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.style), func(t *testing.T) {
			got := animationCSS(banner.ComposeMotion(tt.style, 0, 0.8))
			if got != tt.want {
				t.Errorf("animationCSS(%s) = %q, want %q", tt.style, got, tt.want)
			}
		})
	}
}

func TestKeyframesCSS(t *testing.T) {
	css := string(KeyframesCSS())
	for _, want := range []string{
		"@keyframes bs-fade{from{opacity:0;transform:translate(0px,0px) scale(1)}to{opacity:1;",
		"@keyframes bs-slide{from{opacity:0;transform:translate(-50px,0px) scale(1)}",
		"@keyframes bs-zoom{from{opacity:0;transform:translate(0px,0px) scale(0.5)}",
		"@keyframes bs-bounce{from{opacity:1;transform:translate(0px,-50px) scale(1)}",
		"@keyframes bs-pulse{0%{opacity:1;transform:scale(1)}50%{opacity:0.7;transform:scale(1.05)}100%{opacity:1;transform:scale(1)}}",
	} {
		if !strings.Contains(css, want) {
			t.Errorf("keyframes missing %q", want)
		}
	}
	if strings.Contains(css, "bs-none") {
		t.Errorf("no keyframes expected for the none style")
	}
}

func TestAspectCSS(t *testing.T) {
	tests := []struct {
		ratio, fallback, want string
	}{
		{"4:5", "", "4/5"},
		{"16:9", "4:5", "16/9"},
		{"", "4:5", "4/5"},
		{"wide", "4:5", "4/5"},
		{"0:5", "", "16/9"},
	}
	for _, tt := range tests {
		if got := aspectCSS(tt.ratio, tt.fallback); got != tt.want {
			t.Errorf("aspectCSS(%q, %q) = %q, want %q", tt.ratio, tt.fallback, got, tt.want)
		}
	}
}

func TestCSSToken(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"0.05em", true},
		{"2px 2px 4px rgba(0,0,0,0.5)", true},
		{"1.2", true},
		{"", false},
		{"red;}body{display:none", false},
		{"url(javascript:alert(1))", false},
		{`1px"`, false},
	}
	for _, tt := range tests {
		if _, ok := cssToken(tt.in); ok != tt.ok {
			t.Errorf("cssToken(%q) ok = %v, want %v", tt.in, ok, tt.ok)
		}
	}
}

func TestTextCSSFallbacks(t *testing.T) {
	el := banner.NewTextElement("t1", "Hi")
	el.FontFamily = "Comic Sans'; x"
	el.TextAlign = banner.AlignRight
	shadow := "0 0 2px #000"
	el.TextShadow = &shadow

	css := textCSS(el, banner.ResolveText(el, banner.ViewportDesktop))
	for _, want := range []string{
		"font-size:32px;",
		"font-family:'Inter',sans-serif;",
		"font-weight:bold;",
		"color:#ffffff;",
		"text-align:right;",
		"text-shadow:0 0 2px #000;",
	} {
		if !strings.Contains(css, want) {
			t.Errorf("textCSS missing %q in %q", want, css)
		}
	}
}
