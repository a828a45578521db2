package editor

import (
	"encoding/json"
	"fmt"

	"github.com/AtRiskMedia/bannerstack-go/internal/domain/entities/banner"
	"github.com/AtRiskMedia/bannerstack-go/internal/domain/schema"
)

// State is the element list owned by an editing surface and passed down to the drag
// controller and property editors. ReplaceElementList is the only way the list changes;
// the helpers below compute a new list and hand it to it.
type State struct {
	elements []banner.Element
	selected string
	viewport banner.Viewport
	onChange func(elements []banner.Element)
}

// NewState starts a surface from a parsed element list. onChange, if set, runs after
// every replacement.
func NewState(elements []banner.Element, onChange func(elements []banner.Element)) *State {
	if elements == nil {
		elements = []banner.Element{}
	}
	return &State{
		elements: elements,
		viewport: banner.ViewportDesktop,
		onChange: onChange,
	}
}

// ReplaceElementList swaps in a new list. A selection that no longer exists is cleared.
func (s *State) ReplaceElementList(next []banner.Element) {
	if next == nil {
		next = []banner.Element{}
	}
	s.elements = next
	if s.selected != "" && banner.FindElement(next, s.selected) < 0 {
		s.selected = ""
	}
	if s.onChange != nil {
		s.onChange(next)
	}
}

// Elements returns the current list. Callers must not mutate the elements.
func (s *State) Elements() []banner.Element { return s.elements }

// Snapshot returns a deep copy, for handing the list to persistence.
func (s *State) Snapshot() []banner.Element { return banner.CloneElements(s.elements) }

// Element looks up an element by id.
func (s *State) Element(id string) (banner.Element, bool) {
	idx := banner.FindElement(s.elements, id)
	if idx < 0 {
		return nil, false
	}
	return s.elements[idx], true
}

func (s *State) Viewport() banner.Viewport { return s.viewport }

// SetViewport switches the preview between desktop and mobile.
func (s *State) SetViewport(vp banner.Viewport) { s.viewport = vp }

func (s *State) Selected() string { return s.selected }

// Select marks an element as selected; an unknown id or "" clears the selection.
func (s *State) Select(id string) {
	if banner.FindElement(s.elements, id) < 0 {
		s.selected = ""
		return
	}
	s.selected = id
}

// AddText appends a text element at the default position and selects it.
func AddText(s *State, content string) string {
	el := banner.NewTextElement(banner.NewID(), content)
	s.ReplaceElementList(appendElement(s.elements, el))
	s.Select(el.ID)
	return el.ID
}

// AddImage appends an image element at the default position and selects it.
func AddImage(s *State, imageURL string, productID *int64) string {
	el := banner.NewImageElement(banner.NewID(), imageURL)
	el.ProductID = productID
	s.ReplaceElementList(appendElement(s.elements, el))
	s.Select(el.ID)
	return el.ID
}

// DeleteElement removes an element; the selection is cleared if it pointed at it.
func DeleteElement(s *State, id string) bool {
	idx := banner.FindElement(s.elements, id)
	if idx < 0 {
		return false
	}
	next := make([]banner.Element, 0, len(s.elements)-1)
	next = append(next, s.elements[:idx]...)
	next = append(next, s.elements[idx+1:]...)
	s.ReplaceElementList(next)
	return true
}

// MoveElement writes a position to the active viewport's slot, clamped to [0,100].
func MoveElement(s *State, id string, x, y float64) bool {
	idx := banner.FindElement(s.elements, id)
	if idx < 0 {
		return false
	}
	moved := banner.WithPosition(s.elements[idx], s.viewport, banner.ClampPercent(x), banner.ClampPercent(y))
	s.ReplaceElementList(replaceAt(s.elements, idx, moved))
	return true
}

// UpdateElement merges a property patch into an element. The id and variant cannot be
// changed, and numeric fields are clamped rather than rejected.
func UpdateElement(s *State, id string, patch json.RawMessage) error {
	idx := banner.FindElement(s.elements, id)
	if idx < 0 {
		return fmt.Errorf("element %s not found", id)
	}
	current := s.elements[idx]

	base, err := json.Marshal(current)
	if err != nil {
		return fmt.Errorf("failed to encode element %s: %w", id, err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return fmt.Errorf("failed to decode element %s: %w", id, err)
	}
	var changes map[string]json.RawMessage
	if err := json.Unmarshal(patch, &changes); err != nil {
		return fmt.Errorf("invalid patch for element %s: %w", id, err)
	}
	for key, value := range changes {
		if key == "id" || key == "type" {
			continue
		}
		if string(value) == "null" {
			delete(fields, key)
			continue
		}
		fields[key] = value
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to merge patch for element %s: %w", id, err)
	}
	updated, err := schema.DecodeElement(merged)
	if err != nil {
		return fmt.Errorf("patch for element %s is invalid: %w", id, err)
	}
	s.ReplaceElementList(replaceAt(s.elements, idx, schema.ClampElement(updated)))
	return nil
}

func appendElement(elements []banner.Element, el banner.Element) []banner.Element {
	next := make([]banner.Element, 0, len(elements)+1)
	next = append(next, elements...)
	return append(next, el)
}

func replaceAt(elements []banner.Element, idx int, el banner.Element) []banner.Element {
	next := make([]banner.Element, len(elements))
	copy(next, elements)
	next[idx] = el
	return next
}
