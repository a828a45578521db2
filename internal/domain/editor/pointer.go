// Package editor holds the interactive editing surface: the element list state container
// and the drag-position controller that turns pointer movement into coordinate writes.
package editor

import "github.com/AtRiskMedia/bannerstack-go/internal/domain/entities/banner"

// PointerEventType names a document-level pointer event.
type PointerEventType string

const (
	PointerMove  PointerEventType = "pointermove"
	PointerUp    PointerEventType = "pointerup"
	PointerLeave PointerEventType = "pointerleave"
)

// PointerEvent carries a pointer position in client coordinates.
type PointerEvent struct {
	Type     PointerEventType
	Position banner.Point
}

// PointerListener receives document-level pointer events.
type PointerListener interface {
	HandlePointer(ev PointerEvent)
}

// Subscription releases a listener. Unsubscribe is idempotent.
type Subscription interface {
	Unsubscribe()
}

// PointerSource is the document the drag controller listens on while dragging.
type PointerSource interface {
	Subscribe(l PointerListener) Subscription
}

// Document is an in-process PointerSource. The editing surface dispatches every
// document-level pointer event into it; only subscribed listeners see them.
// It is not safe for concurrent use; a surface drives it from a single goroutine.
type Document struct {
	listeners map[int]PointerListener
	nextID    int
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{listeners: make(map[int]PointerListener)}
}

// Subscribe registers l until the returned subscription is released.
func (d *Document) Subscribe(l PointerListener) Subscription {
	d.nextID++
	id := d.nextID
	d.listeners[id] = l
	return &docSubscription{doc: d, id: id}
}

// Dispatch delivers ev to the listeners registered when dispatch started. Listeners may
// unsubscribe themselves while handling the event.
func (d *Document) Dispatch(ev PointerEvent) {
	if len(d.listeners) == 0 {
		return
	}
	snapshot := make([]PointerListener, 0, len(d.listeners))
	for _, l := range d.listeners {
		snapshot = append(snapshot, l)
	}
	for _, l := range snapshot {
		l.HandlePointer(ev)
	}
}

// ListenerCount reports how many listeners are attached.
func (d *Document) ListenerCount() int {
	return len(d.listeners)
}

type docSubscription struct {
	doc *Document
	id  int
}

func (s *docSubscription) Unsubscribe() {
	if s.doc == nil {
		return
	}
	delete(s.doc.listeners, s.id)
	s.doc = nil
}
