// Package rendering turns a banner into a layered scene for one viewport. The scene is
// presentation-neutral; internal/presentation/templates renders it to HTML.
package rendering

import "github.com/AtRiskMedia/bannerstack-go/internal/domain/entities/banner"

// Mode selects between the read-only storefront and the editor preview.
type Mode string

const (
	ModeStorefront Mode = "storefront"
	ModeEditor     Mode = "editor"
)

// EmptyTextPlaceholder is shown in the editor for text elements without content.
const EmptyTextPlaceholder = "Double-click to edit"

// EditorView is the editor's transient state that affects layering.
type EditorView struct {
	SelectedID string
	DraggingID string
}

// Background is the bottom layer.
type Background struct {
	ImageURL string
	VideoURL string
	IsVideo  bool
	LinkURL  string
}

// HitTarget is the interactive region of a product-linked image.
type HitTarget struct {
	Href            string
	StopPropagation bool
	MinSizePx       float64
}

// TextLayer is a resolved text element.
type TextLayer struct {
	Element     *banner.TextElement
	Placement   banner.TextPlacement
	Content     string
	Placeholder bool
}

// ImageLayer is a resolved image element. Decorative images ignore pointer input.
type ImageLayer struct {
	Element    *banner.ImageElement
	Placement  banner.ImagePlacement
	HitTarget  *HitTarget
	Decorative bool
}

// Layer is one element in paint order.
type Layer struct {
	ID       string
	Kind     banner.Kind
	Z        int
	Text     *TextLayer
	Image    *ImageLayer
	Motion   banner.Motion
	Selected bool
	Dragging bool
}

// Caption is the legacy single-caption presentation.
type Caption struct {
	Title    string
	Text     string
	Position banner.TextPosition
	Align    banner.TextAlign
	Overlay  banner.OverlayStyle
	Motion   banner.Motion
}

// Scene is a banner ready to paint for one viewport.
type Scene struct {
	BannerID    string
	Viewport    banner.Viewport
	Mode        Mode
	AspectRatio string
	Background  Background
	Layers      []Layer
	Caption     *Caption
}

// BuildScene resolves every element for the viewport and orders the layers back to
// front: unselected elements in list order, then the selected element, then the one being
// dragged. A non-empty element list replaces the legacy caption.
func BuildScene(b *banner.Banner, vp banner.Viewport, mode Mode, view EditorView) Scene {
	scene := Scene{
		BannerID:    b.ID,
		Viewport:    vp,
		Mode:        mode,
		AspectRatio: b.MobileAspectRatio,
		Background: Background{
			ImageURL: b.BackgroundFor(vp),
			IsVideo:  b.IsVideo(),
		},
	}
	if scene.AspectRatio == "" {
		scene.AspectRatio = banner.DefaultMobileAspectRatio
	}
	if b.VideoURL != nil {
		scene.Background.VideoURL = *b.VideoURL
	}
	if b.LinkURL != nil && mode == ModeStorefront {
		scene.Background.LinkURL = *b.LinkURL
	}
	if mode == ModeStorefront {
		view = EditorView{}
	}

	if !b.HasElements() {
		if b.HasLegacyCaption() {
			scene.Caption = &Caption{
				Title:    b.Title,
				Text:     b.Text,
				Position: b.TextPosition,
				Align:    b.TextAlign,
				Overlay:  b.OverlayStyle,
				Motion:   banner.ComposeMotion(b.AnimationStyle, banner.DefaultAnimationDelay, banner.DefaultAnimationDuration),
			}
		}
		return scene
	}

	var selected, dragging *Layer
	for _, el := range b.TextElements {
		layer, ok := buildLayer(el, vp, mode)
		if !ok {
			continue
		}
		id := el.ElementID()
		switch {
		case view.DraggingID != "" && id == view.DraggingID:
			layer.Dragging = true
			layer.Selected = view.SelectedID == layer.ID
			dragging = &layer
		case view.SelectedID != "" && id == view.SelectedID:
			layer.Selected = true
			selected = &layer
		default:
			scene.Layers = append(scene.Layers, layer)
		}
	}
	if selected != nil {
		scene.Layers = append(scene.Layers, *selected)
	}
	if dragging != nil {
		scene.Layers = append(scene.Layers, *dragging)
	}
	for i := range scene.Layers {
		scene.Layers[i].Z = i + 1
	}
	return scene
}

func buildLayer(el banner.Element, vp banner.Viewport, mode Mode) (Layer, bool) {
	layer := Layer{ID: el.ElementID(), Kind: el.Kind(), Motion: el.Motion().Compose()}

	switch e := el.(type) {
	case *banner.TextElement:
		text := &TextLayer{Element: e, Placement: banner.ResolveText(e, vp), Content: e.Content}
		if e.Content == "" {
			if mode == ModeStorefront {
				return Layer{}, false
			}
			text.Content = EmptyTextPlaceholder
			text.Placeholder = true
		}
		layer.Text = text
	case *banner.ImageElement:
		img := &ImageLayer{Element: e, Placement: banner.ResolveImage(e, vp)}
		href, linked := e.ProductHref()
		switch {
		case linked && mode == ModeStorefront:
			img.HitTarget = &HitTarget{Href: href, StopPropagation: true, MinSizePx: banner.MinTapTargetP}
		case !linked:
			img.Decorative = true
		}
		layer.Image = img
	default:
		return Layer{}, false
	}
	return layer, true
}

// KeyframeName is the CSS animation played for a motion descriptor, or "" for none.
func KeyframeName(m banner.Motion) string {
	if m.Style == banner.AnimationNone {
		return ""
	}
	return "bs-" + string(m.Style)
}
