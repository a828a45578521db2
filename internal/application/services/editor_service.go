package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AtRiskMedia/bannerstack-go/internal/domain/editor"
	"github.com/AtRiskMedia/bannerstack-go/internal/domain/entities/banner"
	"github.com/AtRiskMedia/bannerstack-go/internal/domain/rendering"
	"github.com/AtRiskMedia/bannerstack-go/internal/domain/schema"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/performance"
)

// Editor command types sent by the client.
const (
	CmdViewport     = "viewport"
	CmdPointerDown  = "pointerdown"
	CmdPointerMove  = "pointermove"
	CmdPointerUp    = "pointerup"
	CmdPointerLeave = "pointerleave"
	CmdSelect       = "select"
	CmdAddText      = "addText"
	CmdAddImage     = "addImage"
	CmdUpdate       = "update"
	CmdDelete       = "delete"
	CmdSave         = "save"
)

// Editor event types sent to the client.
const (
	EventState = "state"
	EventSaved = "saved"
	EventError = "error"
)

// EditorCommand is one client message on an editor session.
type EditorCommand struct {
	Type      string          `json:"type"`
	ElementID string          `json:"elementId,omitempty"`
	X         float64         `json:"x,omitempty"`
	Y         float64         `json:"y,omitempty"`
	Viewport  string          `json:"viewport,omitempty"`
	Container *banner.Rect    `json:"container,omitempty"`
	Content   string          `json:"content,omitempty"`
	ImageURL  string          `json:"imageUrl,omitempty"`
	ProductID *int64          `json:"productId,omitempty"`
	Patch     json.RawMessage `json:"patch,omitempty"`
}

// EditorEvent is one server message on an editor session.
type EditorEvent struct {
	Type       string              `json:"type"`
	Elements   []banner.Element    `json:"elements,omitempty"`
	SelectedID string              `json:"selectedId,omitempty"`
	DraggingID string              `json:"draggingId,omitempty"`
	Viewport   banner.Viewport     `json:"viewport,omitempty"`
	Dirty      bool                `json:"dirty,omitempty"`
	HTML       string              `json:"html,omitempty"`
	Changed    *time.Time          `json:"changed,omitempty"`
	Message    string              `json:"message,omitempty"`
	Fields     []schema.FieldError `json:"fields,omitempty"`
}

// PreviewRenderer turns an editor scene into preview markup.
type PreviewRenderer interface {
	RenderPreview(scene rendering.Scene) (string, error)
}

// EditorService opens editing sessions over stored banners
type EditorService struct {
	banners *BannerService
	preview PreviewRenderer
	tracker *performance.Tracker
	logger  *logging.ChanneledLogger
}

// NewEditorService creates a new editor application service. preview may be nil.
func NewEditorService(banners *BannerService, preview PreviewRenderer, tracker *performance.Tracker, logger *logging.ChanneledLogger) *EditorService {
	return &EditorService{
		banners: banners,
		preview: preview,
		tracker: tracker,
		logger:  logger,
	}
}

// Open loads a banner into a new session.
func (s *EditorService) Open(ctx context.Context, bannerID string) (*EditorSession, error) {
	marker := s.tracker.StartOperation("editor:session_open", bannerID)
	defer marker.Complete()

	b, err := s.banners.GetByID(ctx, bannerID)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	base := *b
	session := &EditorSession{
		ID:        uuid.NewString(),
		BannerID:  bannerID,
		base:      &base,
		doc:       editor.NewDocument(),
		service:   s,
		container: banner.Rect{},
	}
	session.state = editor.NewState(banner.CloneElements(b.TextElements), func([]banner.Element) {
		session.version++
		session.dirty = true
	})
	session.drag = editor.NewDragController(session.state, session.doc, func() banner.Rect { return session.container })

	s.logger.LogEditorSession("open", bannerID, session.ID, len(b.TextElements))
	return session, nil
}

// EditorSession is one operator's editing surface. It is not safe for concurrent use;
// the transport feeds it commands from a single goroutine.
type EditorSession struct {
	ID       string
	BannerID string

	base      *banner.Banner
	state     *editor.State
	doc       *editor.Document
	drag      *editor.DragController
	container banner.Rect
	service   *EditorService
	version   int
	dirty     bool
}

// Handle applies one command and returns the events to send back, in order.
func (s *EditorSession) Handle(ctx context.Context, cmd EditorCommand) []EditorEvent {
	before := s.version
	selected := s.state.Selected()
	phase := s.drag.Phase()

	switch cmd.Type {
	case CmdViewport:
		s.state.SetViewport(banner.ParseViewport(cmd.Viewport))
		if cmd.Container != nil {
			s.container = *cmd.Container
		}
		return []EditorEvent{s.StateEvent()}

	case CmdPointerDown:
		if !s.drag.PointerDown(cmd.ElementID, banner.Point{X: cmd.X, Y: cmd.Y}) {
			return nil
		}

	case CmdPointerMove, CmdPointerUp, CmdPointerLeave:
		s.doc.Dispatch(editor.PointerEvent{Type: editor.PointerEventType(cmd.Type), Position: banner.Point{X: cmd.X, Y: cmd.Y}})

	case CmdSelect:
		s.state.Select(cmd.ElementID)

	case CmdAddText:
		editor.AddText(s.state, cmd.Content)

	case CmdAddImage:
		if cmd.ImageURL == "" {
			return []EditorEvent{errorEvent("imageUrl is required", nil)}
		}
		editor.AddImage(s.state, cmd.ImageURL, cmd.ProductID)

	case CmdUpdate:
		if err := editor.UpdateElement(s.state, cmd.ElementID, cmd.Patch); err != nil {
			return []EditorEvent{errorEvent(err.Error(), nil)}
		}

	case CmdDelete:
		if !editor.DeleteElement(s.state, cmd.ElementID) {
			return []EditorEvent{errorEvent(fmt.Sprintf("element %s not found", cmd.ElementID), nil)}
		}

	case CmdSave:
		return []EditorEvent{s.save(ctx)}

	default:
		return []EditorEvent{errorEvent(fmt.Sprintf("unknown command %q", cmd.Type), nil)}
	}

	if s.version == before && s.state.Selected() == selected && s.drag.Phase() == phase {
		return nil
	}
	return []EditorEvent{s.StateEvent()}
}

// StateEvent reports the full editing state with a freshly rendered preview.
func (s *EditorSession) StateEvent() EditorEvent {
	ev := EditorEvent{
		Type:       EventState,
		Elements:   s.state.Elements(),
		SelectedID: s.state.Selected(),
		DraggingID: s.drag.DraggingID(),
		Viewport:   s.state.Viewport(),
		Dirty:      s.dirty,
	}
	if s.service.preview != nil {
		start := time.Now()
		draft := *s.base
		draft.TextElements = s.state.Elements()
		scene := rendering.BuildScene(&draft, s.state.Viewport(), rendering.ModeEditor,
			rendering.EditorView{SelectedID: ev.SelectedID, DraggingID: ev.DraggingID})
		html, err := s.service.preview.RenderPreview(scene)
		if err != nil {
			s.service.logger.Editor().Error("Preview render failed", "bannerId", s.BannerID, "session", s.ID, "error", err.Error())
		}
		ev.HTML = html
		s.service.logger.Editor().Debug("Preview rendered", "bannerId", s.BannerID, "duration", time.Since(start))
	}
	if ev.Elements == nil {
		ev.Elements = []banner.Element{}
	}
	return ev
}

// save persists the current list. On failure the in-memory list is left as it was.
func (s *EditorSession) save(ctx context.Context) EditorEvent {
	marker := s.service.tracker.StartOperation("editor:save", s.BannerID)
	defer marker.Complete()

	saved, err := s.service.banners.SaveElements(ctx, s.BannerID, s.state.Snapshot())
	if err != nil {
		marker.SetError(err)
		s.service.logger.Editor().Error("Editor save failed", "bannerId", s.BannerID, "session", s.ID, "error", err.Error())
		var ve *schema.ValidationError
		if errors.As(err, &ve) {
			return errorEvent("Banner could not be saved: validation failed", ve.Fields)
		}
		return errorEvent("Banner could not be saved. Please try again.", nil)
	}

	saved.TextElements = nil
	s.base = saved
	s.dirty = false
	s.service.logger.LogEditorSession("save", s.BannerID, s.ID, len(s.state.Elements()))
	return EditorEvent{Type: EventSaved, Changed: saved.Changed}
}

// Dirty reports unsaved changes.
func (s *EditorSession) Dirty() bool { return s.dirty }

// Close releases any drag subscription. It is safe to call more than once.
func (s *EditorSession) Close() {
	s.drag.Teardown()
	s.service.logger.LogEditorSession("close", s.BannerID, s.ID, len(s.state.Elements()))
}

// ListenerCount exposes the pointer subscriptions still held, for diagnostics.
func (s *EditorSession) ListenerCount() int { return s.doc.ListenerCount() }

func errorEvent(message string, fields []schema.FieldError) EditorEvent {
	return EditorEvent{Type: EventError, Message: message, Fields: fields}
}
