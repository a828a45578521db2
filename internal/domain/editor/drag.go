package editor

import "github.com/AtRiskMedia/bannerstack-go/internal/domain/entities/banner"

// DragPhase is the controller's state.
type DragPhase int

const (
	Idle DragPhase = iota
	Dragging
)

func (p DragPhase) String() string {
	if p == Dragging {
		return "dragging"
	}
	return "idle"
}

// DragController moves one element at a time by following document pointer events. It
// holds a document subscription only while a drag is in progress.
type DragController struct {
	state  *State
	doc    PointerSource
	bounds func() banner.Rect

	phase     DragPhase
	elementID string
	offset    banner.Point
	sub       Subscription
}

// NewDragController binds a controller to the state it writes and the document it
// listens on. bounds reports the container's current client rectangle.
func NewDragController(state *State, doc PointerSource, bounds func() banner.Rect) *DragController {
	return &DragController{state: state, doc: doc, bounds: bounds}
}

func (c *DragController) Phase() DragPhase { return c.phase }

// DraggingID is the element being dragged, or "" when idle.
func (c *DragController) DraggingID() string { return c.elementID }

// PointerDown starts a drag on an element. The offset between the pointer and the
// element's on-screen position is kept so the element does not jump to the cursor.
// It returns false when a drag is already running or the element is unknown.
func (c *DragController) PointerDown(elementID string, pointer banner.Point) bool {
	if c.phase == Dragging {
		return false
	}
	el, ok := c.state.Element(elementID)
	if !ok {
		return false
	}

	container := c.bounds()
	elementPx := banner.PixelPosition(el, c.state.Viewport(), container)
	c.offset = container.Relative(pointer).Sub(elementPx)
	c.elementID = elementID
	c.phase = Dragging
	c.state.Select(elementID)
	c.sub = c.doc.Subscribe(c)
	return true
}

// HandlePointer implements PointerListener.
func (c *DragController) HandlePointer(ev PointerEvent) {
	switch ev.Type {
	case PointerMove:
		c.move(ev.Position)
	case PointerUp, PointerLeave:
		c.release()
	}
}

// Teardown releases any held subscription. It is safe to call at any time.
func (c *DragController) Teardown() {
	c.release()
}

func (c *DragController) move(pointer banner.Point) {
	if c.phase != Dragging {
		return
	}
	container := c.bounds()
	if container.Empty() {
		return
	}
	rel := container.Relative(pointer).Sub(c.offset)
	x := banner.PixelsToPercent(rel.X, container.Width)
	y := banner.PixelsToPercent(rel.Y, container.Height)
	MoveElement(c.state, c.elementID, x, y)
}

func (c *DragController) release() {
	if c.sub != nil {
		c.sub.Unsubscribe()
		c.sub = nil
	}
	c.phase = Idle
	c.elementID = ""
	c.offset = banner.Point{}
}
