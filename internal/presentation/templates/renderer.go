// Package templates renders banner scenes to HTML for the storefront and the editor preview
package templates

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/AtRiskMedia/bannerstack-go/internal/domain/entities/banner"
	"github.com/AtRiskMedia/bannerstack-go/internal/domain/rendering"
)

var bannerTemplates = template.Must(template.New("bannerRenderer").Parse(
	`{{define "view"}}<div class="bs-view bs-view-{{.Viewport}}" data-banner-id="{{.BannerID}}" data-viewport="{{.Viewport}}" style="{{.BoxStyle}}">` +
		`{{with .Background}}{{if .LinkURL}}<a class="bs-bg-link" href="{{.LinkURL}}">{{end}}` +
		`{{if .IsVideo}}<video class="bs-bg" src="{{.VideoURL}}"{{if .ImageURL}} poster="{{.ImageURL}}"{{end}} autoplay muted loop playsinline></video>` +
		`{{else if .ImageURL}}<img class="bs-bg" src="{{.ImageURL}}" alt="">{{end}}` +
		`{{if .LinkURL}}</a>{{end}}{{end}}` +
		`{{with .Caption}}{{template "caption" .}}{{end}}` +
		`{{range .Layers}}{{template "layer" .}}{{end}}` +
		`</div>{{end}}` +
		`{{define "caption"}}<div class="bs-caption bs-overlay-{{.Overlay}}" style="{{.BoxStyle}}"><div class="bs-motion" style="{{.Motion}}">` +
		`{{if .Title}}<h2>{{.Title}}</h2>{{end}}{{if .Text}}<p>{{.Text}}</p>{{end}}</div></div>{{end}}` +
		`{{define "layer"}}{{if .Href}}<a class="bs-el bs-img bs-hit" href="{{.Href}}" onclick="event.stopPropagation()" data-element-id="{{.ID}}" style="{{.Style}}">` +
		`{{else}}<div class="bs-el {{.Class}}" data-element-id="{{.ID}}"{{if .Selected}} data-selected="true"{{end}}{{if .Dragging}} data-dragging="true"{{end}} style="{{.Style}}">{{end}}` +
		`<div class="bs-motion" style="{{.Motion}}">` +
		`{{if .IsText}}<span{{if .Placeholder}} class="bs-placeholder"{{end}} style="{{.TextStyle}}">{{.Content}}</span>` +
		`{{else}}<img src="{{.ImageURL}}" alt="" draggable="false">{{end}}` +
		`</div>{{if .Href}}</a>{{else}}</div>{{end}}{{end}}` +
		`{{define "storefront"}}<section class="bs-banner bs-storefront" id="banner-{{.ID}}">{{range .Views}}{{template "view" .}}{{end}}</section>{{end}}` +
		`{{define "preview"}}<div class="bs-banner bs-preview" data-mode="editor">{{template "view" .}}</div>{{end}}` +
		`{{define "page"}}<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">` +
		`<meta name="viewport" content="width=device-width, initial-scale=1"><title>{{.Title}}</title>` +
		`<style>{{.CSS}}</style></head><body>{{.Body}}</body></html>{{end}}`,
))

type viewData struct {
	BannerID   string
	Viewport   banner.Viewport
	BoxStyle   template.CSS
	Background rendering.Background
	Caption    *captionData
	Layers     []layerData
}

type captionData struct {
	Title    string
	Text     string
	Overlay  banner.OverlayStyle
	BoxStyle template.CSS
	Motion   template.CSS
}

type layerData struct {
	ID          string
	Class       string
	Href        string
	Selected    bool
	Dragging    bool
	Style       template.CSS
	Motion      template.CSS
	IsText      bool
	Content     string
	Placeholder bool
	TextStyle   template.CSS
	ImageURL    string
}

type storefrontData struct {
	ID    string
	Views []viewData
}

type pageData struct {
	Title string
	CSS   template.CSS
	Body  template.HTML
}

// BannerRenderer paints scenes. It holds no state and is safe for concurrent use.
type BannerRenderer struct{}

// NewBannerRenderer creates a new banner renderer
func NewBannerRenderer() *BannerRenderer {
	return &BannerRenderer{}
}

// RenderStorefront emits both viewport presentations of a banner; the stylesheet shows
// one of them per screen width.
func (r *BannerRenderer) RenderStorefront(b *banner.Banner) (template.HTML, error) {
	data := storefrontData{ID: b.ID}
	for _, vp := range []banner.Viewport{banner.ViewportDesktop, banner.ViewportMobile} {
		scene := rendering.BuildScene(b, vp, rendering.ModeStorefront, rendering.EditorView{})
		data.Views = append(data.Views, buildView(scene))
	}
	return execute("storefront", data)
}

// RenderStorefrontList renders banners in the order given.
func (r *BannerRenderer) RenderStorefrontList(banners []*banner.Banner) (template.HTML, error) {
	var out strings.Builder
	for _, b := range banners {
		html, err := r.RenderStorefront(b)
		if err != nil {
			return "", fmt.Errorf("failed to render banner %s: %w", b.ID, err)
		}
		out.WriteString(string(html))
	}
	return template.HTML(out.String()), nil
}

// RenderPreview renders the active viewport only. Motion is not replayed because the
// preview is re-rendered on every edit.
func (r *BannerRenderer) RenderPreview(scene rendering.Scene) (string, error) {
	html, err := execute("preview", buildView(scene))
	return string(html), err
}

// RenderPage wraps a body fragment in a standalone document carrying the base stylesheet.
func (r *BannerRenderer) RenderPage(title string, body template.HTML) (string, error) {
	html, err := execute("page", pageData{Title: title, CSS: BaseCSS(), Body: body})
	return string(html), err
}

func execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := bannerTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute %s template: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

func buildView(scene rendering.Scene) viewData {
	ratio := aspectCSS(DesktopAspectRatio, "")
	if scene.Viewport == banner.ViewportMobile {
		ratio = aspectCSS(scene.AspectRatio, banner.DefaultMobileAspectRatio)
	}
	view := viewData{
		BannerID:   scene.BannerID,
		Viewport:   scene.Viewport,
		BoxStyle:   template.CSS("aspect-ratio:" + ratio),
		Background: scene.Background,
	}
	animate := scene.Mode == rendering.ModeStorefront

	if c := scene.Caption; c != nil {
		caption := &captionData{
			Title:    c.Title,
			Text:     c.Text,
			Overlay:  c.Overlay,
			BoxStyle: template.CSS(captionBoxCSS(c.Position, c.Align)),
		}
		if animate {
			caption.Motion = template.CSS(animationCSS(c.Motion))
		}
		view.Caption = caption
	}

	for _, l := range scene.Layers {
		view.Layers = append(view.Layers, buildLayer(l, animate))
	}
	return view
}

func buildLayer(l rendering.Layer, animate bool) layerData {
	d := layerData{ID: l.ID, Selected: l.Selected, Dragging: l.Dragging}
	if animate {
		d.Motion = template.CSS(animationCSS(l.Motion))
	}

	var style strings.Builder
	switch {
	case l.Text != nil:
		p := l.Text.Placement
		fmt.Fprintf(&style, "left:%s%%;top:%s%%;z-index:%d;", num(p.X), num(p.Y), l.Z)
		d.Class = "bs-text"
		d.IsText = true
		d.Content = l.Text.Content
		d.Placeholder = l.Text.Placeholder
		d.TextStyle = template.CSS(textCSS(l.Text.Element, p))

	case l.Image != nil:
		p := l.Image.Placement
		fmt.Fprintf(&style, "left:%s%%;top:%s%%;width:%s%%;", num(p.X), num(p.Y), num(p.Width))
		if p.Height != nil {
			fmt.Fprintf(&style, "height:%s%%;", num(*p.Height))
		}
		fmt.Fprintf(&style, "z-index:%d;", l.Z)
		d.Class = "bs-img"
		d.ImageURL = l.Image.Element.ImageURL
		if hit := l.Image.HitTarget; hit != nil {
			d.Href = hit.Href
			fmt.Fprintf(&style, "min-width:%spx;min-height:%spx;", num(hit.MinSizePx), num(hit.MinSizePx))
		}
		if l.Image.Decorative {
			style.WriteString("pointer-events:none;")
		}
	}
	d.Style = template.CSS(style.String())
	return d
}

func captionBoxCSS(pos banner.TextPosition, align banner.TextAlign) string {
	vertical, horizontal, found := strings.Cut(string(pos), "-")
	if !found {
		vertical, horizontal = "center", "center"
	}
	textAlign := "left"
	switch align {
	case banner.AlignCenter, banner.AlignRight:
		textAlign = string(align)
	}
	return fmt.Sprintf("align-items:%s;justify-content:%s;text-align:%s;",
		flexAxis(vertical), flexAxis(horizontal), textAlign)
}

func flexAxis(side string) string {
	switch side {
	case "top", "left":
		return "flex-start"
	case "bottom", "right":
		return "flex-end"
	default:
		return "center"
	}
}
