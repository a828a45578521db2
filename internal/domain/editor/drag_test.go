package editor

import (
	"math"
	"testing"

	"github.com/AtRiskMedia/bannerstack-go/internal/domain/entities/banner"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func newSurface(t *testing.T, container banner.Rect, elements ...banner.Element) (*State, *Document, *DragController) {
	t.Helper()
	state := NewState(elements, nil)
	doc := NewDocument()
	ctrl := NewDragController(state, doc, func() banner.Rect { return container })
	return state, doc, ctrl
}

func TestDragMovesTextToPointer(t *testing.T) {
	container := banner.Rect{Width: 1000, Height: 500}
	state, doc, ctrl := newSurface(t, container)
	id := AddText(state, "Sale")

	if !ctrl.PointerDown(id, banner.Point{X: 500, Y: 250}) {
		t.Fatal("expected drag to start")
	}
	doc.Dispatch(PointerEvent{Type: PointerMove, Position: banner.Point{X: 10, Y: 10}})
	doc.Dispatch(PointerEvent{Type: PointerUp})

	el, _ := state.Element(id)
	text := el.(*banner.TextElement)
	if !approx(text.X, 1) || !approx(text.Y, 2) {
		t.Fatalf("expected position (1,2), got (%v,%v)", text.X, text.Y)
	}
	if ctrl.Phase() != Idle {
		t.Fatalf("expected idle after pointer up, got %s", ctrl.Phase())
	}
	if doc.ListenerCount() != 0 {
		t.Fatalf("expected no listeners after release, got %d", doc.ListenerCount())
	}
}

func TestDragKeepsGrabOffset(t *testing.T) {
	container := banner.Rect{Left: 100, Top: 50, Width: 1000, Height: 500}
	el := banner.NewTextElement("e1", "Hi")
	state, doc, ctrl := newSurface(t, container, el)

	// grab 20px right and 10px below the element's anchor
	ctrl.PointerDown("e1", banner.Point{X: 100 + 500 + 20, Y: 50 + 250 + 10})
	doc.Dispatch(PointerEvent{Type: PointerMove, Position: banner.Point{X: 100 + 700 + 20, Y: 50 + 100 + 10}})

	got, _ := state.Element("e1")
	text := got.(*banner.TextElement)
	if !approx(text.X, 70) || !approx(text.Y, 20) {
		t.Fatalf("expected position (70,20), got (%v,%v)", text.X, text.Y)
	}
}

func TestDragClampsToContainer(t *testing.T) {
	container := banner.Rect{Width: 400, Height: 200}
	state, doc, ctrl := newSurface(t, container, banner.NewImageElement("img", "/a.png"))

	ctrl.PointerDown("img", banner.Point{X: 200, Y: 100})
	doc.Dispatch(PointerEvent{Type: PointerMove, Position: banner.Point{X: -300, Y: 900}})

	got, _ := state.Element("img")
	img := got.(*banner.ImageElement)
	if img.X != 0 || img.Y != 100 {
		t.Fatalf("expected clamped position (0,100), got (%v,%v)", img.X, img.Y)
	}
}

func TestDragOnMobileWritesMobileSlot(t *testing.T) {
	container := banner.Rect{Width: 400, Height: 500}
	el := banner.NewTextElement("e1", "Hi")
	el.X, el.Y = 75, 40
	state, doc, ctrl := newSurface(t, container, el)
	state.SetViewport(banner.ViewportMobile)

	// mobile position falls back to desktop: (300, 200)
	ctrl.PointerDown("e1", banner.Point{X: 300, Y: 200})
	doc.Dispatch(PointerEvent{Type: PointerMove, Position: banner.Point{X: 200, Y: 100}})
	doc.Dispatch(PointerEvent{Type: PointerLeave})

	got, _ := state.Element("e1")
	text := got.(*banner.TextElement)
	if text.X != 75 || text.Y != 40 {
		t.Fatalf("desktop slot changed: (%v,%v)", text.X, text.Y)
	}
	if text.MobileX == nil || text.MobileY == nil {
		t.Fatal("expected mobile slot to be written")
	}
	if !approx(*text.MobileX, 50) || !approx(*text.MobileY, 20) {
		t.Fatalf("expected mobile position (50,20), got (%v,%v)", *text.MobileX, *text.MobileY)
	}
	if doc.ListenerCount() != 0 {
		t.Fatalf("expected listener released on leave, got %d", doc.ListenerCount())
	}
}

func TestDragReleasesOnTeardown(t *testing.T) {
	_, doc, ctrl := newSurface(t, banner.Rect{Width: 100, Height: 100}, banner.NewTextElement("e1", "Hi"))

	ctrl.PointerDown("e1", banner.Point{X: 50, Y: 50})
	if doc.ListenerCount() != 1 {
		t.Fatalf("expected one listener while dragging, got %d", doc.ListenerCount())
	}
	if ctrl.DraggingID() != "e1" {
		t.Fatalf("expected dragging id e1, got %q", ctrl.DraggingID())
	}
	ctrl.Teardown()
	ctrl.Teardown()
	if doc.ListenerCount() != 0 {
		t.Fatalf("expected no listeners after teardown, got %d", doc.ListenerCount())
	}
}

func TestDragIgnoresSecondPointerDown(t *testing.T) {
	_, doc, ctrl := newSurface(t, banner.Rect{Width: 100, Height: 100},
		banner.NewTextElement("a", "A"), banner.NewTextElement("b", "B"))

	ctrl.PointerDown("a", banner.Point{X: 50, Y: 50})
	if ctrl.PointerDown("b", banner.Point{X: 50, Y: 50}) {
		t.Fatal("expected second pointer down to be ignored")
	}
	if ctrl.DraggingID() != "a" || doc.ListenerCount() != 1 {
		t.Fatalf("unexpected drag state: id=%q listeners=%d", ctrl.DraggingID(), doc.ListenerCount())
	}
}

func TestDragSkipsWritesForEmptyContainer(t *testing.T) {
	container := banner.Rect{}
	state, doc, ctrl := newSurface(t, container, banner.NewTextElement("e1", "Hi"))
	changes := 0
	state.onChange = func([]banner.Element) { changes++ }

	ctrl.PointerDown("e1", banner.Point{X: 10, Y: 10})
	doc.Dispatch(PointerEvent{Type: PointerMove, Position: banner.Point{X: 20, Y: 20}})

	if changes != 0 {
		t.Fatalf("expected no writes for an empty container, got %d", changes)
	}
}

func TestPointerMoveWithoutDragIsIgnored(t *testing.T) {
	state, _, ctrl := newSurface(t, banner.Rect{Width: 100, Height: 100}, banner.NewTextElement("e1", "Hi"))
	ctrl.HandlePointer(PointerEvent{Type: PointerMove, Position: banner.Point{X: 0, Y: 0}})

	got, _ := state.Element("e1")
	if x, y := banner.ResolvePosition(got, banner.ViewportDesktop); x != 50 || y != 50 {
		t.Fatalf("expected element untouched, got (%v,%v)", x, y)
	}
}
