package rendering

import (
	"testing"

	"github.com/AtRiskMedia/bannerstack-go/internal/domain/entities/banner"
)

func testBanner(elements ...banner.Element) *banner.Banner {
	return &banner.Banner{
		ID:                "b1",
		Title:             "Spring sale",
		Text:              "Up to 50% off",
		ImageURL:          "/hero.jpg",
		MediaType:         banner.MediaImage,
		TextPosition:      banner.PositionBottomLeft,
		TextAlign:         banner.AlignLeft,
		AnimationStyle:    banner.AnimationSlide,
		OverlayStyle:      banner.OverlayGradient,
		MobileAspectRatio: "4:5",
		TextElements:      elements,
	}
}

func layerIDs(s Scene) []string {
	ids := make([]string, len(s.Layers))
	for i, l := range s.Layers {
		ids[i] = l.ID
	}
	return ids
}

func TestProductImageGetsHitTarget(t *testing.T) {
	productID := int64(42)
	img := banner.NewImageElement("i1", "/shoe.png")
	img.ProductID = &productID

	scene := BuildScene(testBanner(img), banner.ViewportDesktop, ModeStorefront, EditorView{})
	if len(scene.Layers) != 1 {
		t.Fatalf("expected 1 layer, got %d", len(scene.Layers))
	}
	hit := scene.Layers[0].Image.HitTarget
	if hit == nil {
		t.Fatal("expected a hit target")
	}
	if hit.Href != "/product/42" || !hit.StopPropagation || hit.MinSizePx != 50 {
		t.Fatalf("unexpected hit target %+v", hit)
	}
}

func TestDecorativeImageHasNoHitTarget(t *testing.T) {
	scene := BuildScene(testBanner(banner.NewImageElement("i1", "/a.png")), banner.ViewportDesktop, ModeStorefront, EditorView{})
	img := scene.Layers[0].Image
	if img.HitTarget != nil || !img.Decorative {
		t.Fatalf("expected decorative image, got %+v", img)
	}
}

func TestEditorHasNoHitTargets(t *testing.T) {
	productID := int64(42)
	img := banner.NewImageElement("i1", "/shoe.png")
	img.ProductID = &productID

	scene := BuildScene(testBanner(img), banner.ViewportDesktop, ModeEditor, EditorView{})
	if scene.Layers[0].Image.HitTarget != nil {
		t.Fatal("editor preview should not navigate")
	}
}

func TestLayerOrder(t *testing.T) {
	b := testBanner(
		banner.NewTextElement("a", "A"),
		banner.NewTextElement("b", "B"),
		banner.NewTextElement("c", "C"),
		banner.NewTextElement("d", "D"),
	)
	tests := []struct {
		name string
		view EditorView
		want []string
	}{
		{"list order", EditorView{}, []string{"a", "b", "c", "d"}},
		{"selected on top", EditorView{SelectedID: "a"}, []string{"b", "c", "d", "a"}},
		{"dragging above selected", EditorView{SelectedID: "b", DraggingID: "a"}, []string{"c", "d", "b", "a"}},
		{"selected while dragging", EditorView{SelectedID: "c", DraggingID: "c"}, []string{"a", "b", "d", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene := BuildScene(b, banner.ViewportDesktop, ModeEditor, tt.view)
			got := layerIDs(scene)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
				if scene.Layers[i].Z != i+1 {
					t.Fatalf("layer %s has z %d, want %d", got[i], scene.Layers[i].Z, i+1)
				}
			}
		})
	}
}

func TestStorefrontIgnoresEditorView(t *testing.T) {
	b := testBanner(banner.NewTextElement("a", "A"), banner.NewTextElement("b", "B"))
	scene := BuildScene(b, banner.ViewportDesktop, ModeStorefront, EditorView{SelectedID: "a"})
	if got := layerIDs(scene); got[0] != "a" || scene.Layers[1].Selected {
		t.Fatalf("storefront reordered layers: %v", got)
	}
}

func TestEmptyIDNotMarkedWithoutSelection(t *testing.T) {
	b := testBanner(banner.NewTextElement("", "first"), banner.NewTextElement("b", "second"))
	for _, mode := range []Mode{ModeStorefront, ModeEditor} {
		scene := BuildScene(b, banner.ViewportDesktop, mode, EditorView{})
		if got := layerIDs(scene); len(got) != 2 || got[0] != "" || got[1] != "b" {
			t.Fatalf("mode %v layers = %v", mode, got)
		}
		for _, l := range scene.Layers {
			if l.Selected || l.Dragging {
				t.Fatalf("mode %v marked layer %q selected=%v dragging=%v", mode, l.ID, l.Selected, l.Dragging)
			}
		}
	}
}

func TestLegacyCaptionFallback(t *testing.T) {
	scene := BuildScene(testBanner(), banner.ViewportDesktop, ModeStorefront, EditorView{})
	if scene.Caption == nil {
		t.Fatal("expected legacy caption")
	}
	c := scene.Caption
	if c.Title != "Spring sale" || c.Position != banner.PositionBottomLeft || c.Overlay != banner.OverlayGradient {
		t.Fatalf("unexpected caption %+v", c)
	}
	if c.Motion.Style != banner.AnimationSlide {
		t.Fatalf("expected slide motion, got %s", c.Motion.Style)
	}

	withElements := BuildScene(testBanner(banner.NewTextElement("a", "A")), banner.ViewportDesktop, ModeStorefront, EditorView{})
	if withElements.Caption != nil {
		t.Fatal("element list should replace the legacy caption")
	}
}

func TestEmptyTextPlaceholder(t *testing.T) {
	b := testBanner(banner.NewTextElement("a", ""))

	editor := BuildScene(b, banner.ViewportDesktop, ModeEditor, EditorView{})
	if !editor.Layers[0].Text.Placeholder || editor.Layers[0].Text.Content != EmptyTextPlaceholder {
		t.Fatalf("expected placeholder in editor, got %+v", editor.Layers[0].Text)
	}

	storefront := BuildScene(b, banner.ViewportDesktop, ModeStorefront, EditorView{})
	if len(storefront.Layers) != 0 {
		t.Fatalf("expected empty text to be skipped on the storefront, got %d layers", len(storefront.Layers))
	}
}

func TestMobileSceneUsesMobileBackgroundAndPlacement(t *testing.T) {
	mobileBg := "/hero-mobile.jpg"
	el := banner.NewTextElement("a", "A")
	el.X = 75
	b := testBanner(el)
	b.MobileImageURL = &mobileBg

	scene := BuildScene(b, banner.ViewportMobile, ModeStorefront, EditorView{})
	if scene.Background.ImageURL != mobileBg {
		t.Fatalf("expected mobile background, got %q", scene.Background.ImageURL)
	}
	if scene.Layers[0].Text.Placement.X != 75 {
		t.Fatalf("expected mobile x to fall back to 75, got %v", scene.Layers[0].Text.Placement.X)
	}
}

func TestKeyframeName(t *testing.T) {
	if got := KeyframeName(banner.ComposeMotion(banner.AnimationPulse, 0, 1)); got != "bs-pulse" {
		t.Fatalf("expected bs-pulse, got %q", got)
	}
	if got := KeyframeName(banner.ComposeMotion(banner.AnimationNone, 0, 1)); got != "" {
		t.Fatalf("expected no keyframes for none, got %q", got)
	}
}
